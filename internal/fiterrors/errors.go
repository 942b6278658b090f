// Package fiterrors holds the error kinds reported by the fit-result helpers.
package fiterrors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindInvalidInput Kind = "INVALID_INPUT"
	KindComputation  Kind = "COMPUTATION"
	KindPersistence  Kind = "PERSISTENCE"
)

// Error is a failure tagged with the kind of problem that caused it.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Sentinels for errors.Is. They match any Error of the same Kind.
var (
	ErrInvalidInput = &Error{Kind: KindInvalidInput}
	ErrComputation  = &Error{Kind: KindComputation}
	ErrPersistence  = &Error{Kind: KindPersistence}
)

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(
	target error,
) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Cause == nil && t.Kind == e.Kind
}

func New(
	kind Kind,
	format string,
	args ...interface{},
) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches kind and context to err. A nil err stays nil.
func Wrap(
	err error,
	kind Kind,
	format string,
	args ...interface{},
) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: err}
}

// KindOf reports the outermost Kind in err's chain, or "" if there is none.
func KindOf(
	err error,
) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
