// Package workflow implements the custom-tool registry and the conditional
// dispatch table. Tools are named, schema-described callables exposed to the
// decision-maker alongside the built-in primitives; conditional handlers are
// predicate-gated reactions evaluated after every matching built-in action.
package workflow
