package tdb

import (
	"errors"

	"go.trai.ch/zerr"
)

// Trace is the ordered chain of target names from the root request down to
// the target currently being built (or, on a failure, down to the target
// whose build actually failed).
type Trace []string

func (t Trace) clone() Trace {
	out := make(Trace, len(t))
	copy(out, t)
	return out
}

// Traceable is implemented by errors that carry a build trace. Recognition
// is structural (an interface, not a concrete type check) per the error
// propagation design: any error wrapping down to a *tracedError* satisfies
// it via errors.As.
type Traceable interface {
	BuildTrace() Trace
}

type tracedError struct {
	err   error
	trace Trace
}

func (e *tracedError) Error() string      { return e.err.Error() }
func (e *tracedError) Unwrap() error      { return e.err }
func (e *tracedError) BuildTrace() Trace  { return e.trace }

// traced attaches trace to err, unless err already carries a trace (the
// innermost attachment point wins — that is the target whose build
// actually failed). Returns nil if err is nil.
func traced(err error, trace Trace) error {
	if err == nil {
		return nil
	}
	var existing *tracedError
	if errors.As(err, &existing) {
		return err
	}
	t := trace.clone()
	return &tracedError{
		err:   zerr.With(err, "trace", []string(t)),
		trace: t,
	}
}

// TraceOf extracts the build trace carried by err, if any.
func TraceOf(err error) (Trace, bool) {
	var t Traceable
	if errors.As(err, &t) {
		return t.BuildTrace(), true
	}
	return nil, false
}
