package expand

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateBitPosition is matched by embedding errors caused by a bit
	// that appears twice in the bit map.
	ErrDuplicateBitPosition = errors.New("duplicate bit position")

	// ErrEmbeddingOverflow is matched by embedding errors caused by a bit
	// map longer than the register.
	ErrEmbeddingOverflow = errors.New("embedding overflow")

	// ErrVerification is returned when an expansion does not simulate to the
	// original diagonal.
	ErrVerification = errors.New("expansion failed verification")
)

// EmbeddingErrorCode categorizes embedding errors.
type EmbeddingErrorCode string

const (
	// ErrCodeDuplicateBitPosition indicates a control collides with another
	// control or a grounded bit.
	ErrCodeDuplicateBitPosition EmbeddingErrorCode = "DUPLICATE_BIT_POSITION"

	// ErrCodeEmbeddingOverflow indicates more bits than the register holds.
	ErrCodeEmbeddingOverflow EmbeddingErrorCode = "EMBEDDING_OVERFLOW"
)

// EmbeddingError reports why a bit map could not be built.
type EmbeddingError struct {
	Code EmbeddingErrorCode

	// Pos is the repeated position (DUPLICATE_BIT_POSITION).
	Pos int

	// Len and NumBits are the bit map length and register size
	// (EMBEDDING_OVERFLOW).
	Len     int
	NumBits int
}

// Error implements the error interface.
func (e *EmbeddingError) Error() string {
	switch e.Code {
	case ErrCodeDuplicateBitPosition:
		return fmt.Sprintf("%s: bit %d used twice", e.Code, e.Pos)
	case ErrCodeEmbeddingOverflow:
		return fmt.Sprintf("%s: %d bits do not fit in a %d-bit register", e.Code, e.Len, e.NumBits)
	default:
		return string(e.Code)
	}
}

// Is matches the sentinel for e's code.
func (e *EmbeddingError) Is(target error) bool {
	switch e.Code {
	case ErrCodeDuplicateBitPosition:
		return target == ErrDuplicateBitPosition
	case ErrCodeEmbeddingOverflow:
		return target == ErrEmbeddingOverflow
	}
	return false
}

// IsDuplicateBitPosition returns true if err is a duplicate-bit embedding
// error. Uses errors.As to handle wrapped errors.
func IsDuplicateBitPosition(err error) bool {
	var ee *EmbeddingError
	return errors.As(err, &ee) && ee.Code == ErrCodeDuplicateBitPosition
}

// IsEmbeddingOverflow returns true if err is an overflow embedding error.
func IsEmbeddingOverflow(err error) bool {
	var ee *EmbeddingError
	return errors.As(err, &ee) && ee.Code == ErrCodeEmbeddingOverflow
}

func newDuplicateError(pos int) *EmbeddingError {
	return &EmbeddingError{Code: ErrCodeDuplicateBitPosition, Pos: pos}
}

func newOverflowError(length, numBits int) *EmbeddingError {
	return &EmbeddingError{Code: ErrCodeEmbeddingOverflow, Len: length, NumBits: numBits}
}
