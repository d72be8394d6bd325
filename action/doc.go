// Package action implements the Action Surface: the Executor wraps a
// low-level input Driver with a spatial permission boundary (allowed
// region), inter-action pacing, a settle delay and a dry-run short-circuit.
// Every primitive returns a core.ActionResult; a rejected or failed
// primitive never reaches the driver respectively never panics the loop.
package action
