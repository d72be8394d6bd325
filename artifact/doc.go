// Package artifact stores binary artifacts produced during runs, most
// prominently the screenshots the loop captures along the way.
//
// The Store interface is small on purpose: implementation packages
// (in-memory, cloud object stores, databases, etc.) provide storage backends
// that can be swapped without touching calling code. Callers should depend
// on the interface rather than concrete types so they can substitute
// alternative persistence layers in tests or production.
package artifact
