package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrProtocolViolation marks responses that break the paging contract of the catalog.
	ErrProtocolViolation = errors.New("catalog protocol violation")
	// ErrUnknownPrecision marks release dates whose precision is neither "day" nor "year".
	ErrUnknownPrecision = errors.New("unknown release date precision")
	// ErrMalformedResponse marks responses missing a required field.
	ErrMalformedResponse = errors.New("malformed catalog response")
)

// ProtocolError describes a paging contract violation observed during Op.
type ProtocolError struct {
	Op     string
	Detail string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrProtocolViolation, e.Op, e.Detail)
}

func (e *ProtocolError) Unwrap() error { return ErrProtocolViolation }

func violation(op, format string, args ...any) error {
	return &ProtocolError{Op: op, Detail: fmt.Sprintf(format, args...)}
}

// DatePrecisionError is returned when a release date cannot be resolved.
type DatePrecisionError struct {
	Date      string
	Precision string
}

func (e *DatePrecisionError) Error() string {
	return fmt.Sprintf("%v: date %q with precision %q", ErrUnknownPrecision, e.Date, e.Precision)
}

func (e *DatePrecisionError) Unwrap() error { return ErrUnknownPrecision }

func malformed(what, detail string) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformedResponse, what, detail)
}
