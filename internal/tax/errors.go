package tax

import (
	"errors"
	"fmt"
)

// expectedFormat describes the only line shape the parser accepts
const expectedFormat = "items should take the form of a single line containing a quantity, name of the item, the word 'at', then the price."

var (
	// ErrMalformedInput matches any *MalformedInputError
	ErrMalformedInput = errors.New("malformed input")

	// ErrNegativeValue matches any *NegativeValueError
	ErrNegativeValue = errors.New("negative value")
)

// MalformedInputError is returned when a line does not match
// "<quantity> <name...> at <price>"
type MalformedInputError struct {
	Line   string
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("input is not well-formed: %s", expectedFormat)
	}
	return fmt.Sprintf("input is not well-formed (%s): %s", e.Reason, expectedFormat)
}

// Is reports whether target is ErrMalformedInput
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// NegativeValueError is returned when a parsed quantity or price is below zero
type NegativeValueError struct {
	Field string // "quantity" or "price"
	Value string
}

func (e *NegativeValueError) Error() string {
	return fmt.Sprintf("negative %s: %s", e.Field, e.Value)
}

// Is reports whether target is ErrNegativeValue
func (e *NegativeValueError) Is(target error) bool {
	return target == ErrNegativeValue
}
