// Package session records completed runs so callers can inspect what an
// agent did after the fact: terminal status, iteration count, session state
// and the full action history, keyed by run id.
//
// The Store interface lives here next to the in-memory implementation; add
// additional backends (Redis, Postgres, ...) in sub-packages without
// changing any calling code. Only the wiring layer decides which
// implementation to instantiate.
package session
