// Package core contains the shared leaf types of the computeruse SDK:
// action kinds and outcomes, the screen region model, the per-run Context
// handed to hooks and tools, transcript content parts and the step/result
// records produced by the agent loop. Higher level packages (hook, workflow,
// action, screen, model, agent) all depend on core; core depends on nothing
// but the standard library.
package core
