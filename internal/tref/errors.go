package tref

import (
	"errors"
	"fmt"
)

// ErrMalformedStatement reports a serialized line that does not classify
// back to the statement it was rendered from.
var ErrMalformedStatement = errors.New("malformed statement")

// ParseError describes why a document was rejected. Line is 1-based.
type ParseError struct {
	Line    int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Message, e.Err)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SerializeError describes a failed serialization. Lines counts the lines
// fully written before the failure; Statement is the offending line, if any.
type SerializeError struct {
	Lines     int
	Statement string
	Message   string
	Err       error
}

func (e *SerializeError) Error() string {
	msg := fmt.Sprintf("serialize after %d lines: %s", e.Lines, e.Message)
	if e.Statement != "" {
		msg += fmt.Sprintf(" (%q)", e.Statement)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SerializeError) Unwrap() error {
	return e.Err
}
