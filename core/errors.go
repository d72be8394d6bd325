package core

import "errors"

// AbortError is the deliberate-interruption signal. A hook or conditional
// reaction returns one (via Abort) to stop the whole run; the loop surfaces
// it as an interrupted terminal state rather than an ordinary failure.
type AbortError struct {
	Reason string
}

// Error implements the error interface.
func (e *AbortError) Error() string {
	if e.Reason == "" {
		return "run aborted"
	}
	return "run aborted: " + e.Reason
}

// Abort builds an AbortError with the given reason.
func Abort(reason string) error {
	return &AbortError{Reason: reason}
}

// AsAbort unwraps err into an *AbortError if it carries one.
func AsAbort(err error) (*AbortError, bool) {
	var abort *AbortError
	if errors.As(err, &abort) {
		return abort, true
	}
	return nil, false
}
