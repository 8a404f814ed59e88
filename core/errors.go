package core

import (
	"errors"
	"fmt"
)

// Kind categorizes pipeline errors by how far their damage reaches.
type Kind int

const (
	// KindEnvironment means a collaborator (optimizer, synthesizer) is
	// unavailable. Fatal for the stage.
	KindEnvironment Kind = iota + 1

	// KindInput means the input directory is missing or holds no icons.
	// Fatal, and raised before any output is touched.
	KindInput

	// KindFile means a single icon could not be processed. Recovered locally.
	KindFile

	// KindSynthesis means font synthesis failed or produced unusable data.
	// Fatal for the whole build.
	KindSynthesis
)

func (k Kind) String() string {
	switch k {
	case KindEnvironment:
		return "environment"
	case KindInput:
		return "input"
	case KindFile:
		return "file"
	case KindSynthesis:
		return "synthesis"
	default:
		return "unknown"
	}
}

// Error is a categorized pipeline error carrying a suggested remediation.
type Error struct {
	Kind        Kind
	Op          string
	Message     string
	Remediation string
	Err         error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds an *Error without an underlying cause.
func Errorf(kind Kind, op, remediation, format string, args ...any) *Error {
	return &Error{
		Kind:        kind,
		Op:          op,
		Message:     fmt.Sprintf(format, args...),
		Remediation: remediation,
	}
}

// Wrap builds an *Error around err.
func Wrap(kind Kind, op, message, remediation string, err error) *Error {
	return &Error{
		Kind:        kind,
		Op:          op,
		Message:     message,
		Remediation: remediation,
		Err:         err,
	}
}

// IsKind reports whether err, or anything it wraps, is an *Error of kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Remediation returns the suggested fix attached to err, if any.
func Remediation(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Remediation
	}
	return ""
}
