// Package agent implements the orchestration loop: capture an observation,
// send it with the goal and toolset to the decision-maker, execute the
// requested operations through the hook pipeline, the action surface and
// the tool registry, feed the outcomes back, and repeat until the
// decision-maker completes, the iteration budget runs out, an extension
// aborts or an unrecoverable error occurs.
//
// Both execution modes share one suspend/resume state machine: Loop.Run
// drives the Steps iterator to a terminal state and returns the summary,
// Loop.RunIter hands the iterator to the caller for step-wise control.
package agent
