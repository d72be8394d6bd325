// Package hook implements the interception pipeline around the agent loop:
// before/after screenshot, before/after action, iteration start/end and
// keyed tool-call hooks. Each category is a strongly typed ordered list;
// hooks fire strictly in registration order.
//
// Before-style hooks may rewrite the value flowing through the pipeline by
// returning a non-nil replacement, which becomes the input to the next hook
// and ultimately to execution. After-style hooks are observational.
//
// Any hook may interrupt the whole run by returning an error; the loop
// surfaces it as an interrupted terminal state (use core.Abort to attach a
// reason). The pipeline itself never swallows hook errors.
package hook
