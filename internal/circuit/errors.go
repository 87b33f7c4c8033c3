package circuit

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is returned for lines that do not follow the English grammar.
	ErrSyntax = errors.New("syntax error")

	// ErrMalformedControlSpec is returned when a control carries an
	// unrecognized kind or a bit is controlled twice.
	ErrMalformedControlSpec = errors.New("malformed control spec")

	// ErrBitRange is returned for bit positions outside the register.
	ErrBitRange = errors.New("bit position out of range")
)

// ControlSpecError identifies the control position that made a ControlSpec
// malformed.
type ControlSpecError struct {
	Pos    int
	Tag    string // offending kind tag, empty for non-tag problems
	Reason string
}

func (e *ControlSpecError) Error() string {
	switch {
	case e.Reason != "":
		return fmt.Sprintf("%s at bit %d: %s", ErrMalformedControlSpec, e.Pos, e.Reason)
	case e.Tag != "":
		return fmt.Sprintf("%s at bit %d: unrecognized kind %q", ErrMalformedControlSpec, e.Pos, e.Tag)
	default:
		return fmt.Sprintf("%s at bit %d: unrecognized kind", ErrMalformedControlSpec, e.Pos)
	}
}

func (e *ControlSpecError) Unwrap() error {
	return ErrMalformedControlSpec
}
