package duct

import (
	"errors"
	"fmt"
)

// ErrorKind identifies a hard validation failure. The values are stable and
// safe to expose to clients.
type ErrorKind string

const (
	KindTonsRequired      ErrorKind = "tons-required"
	KindTonsInvalidFormat ErrorKind = "tons-invalid-format"
	KindTonsNotPositive   ErrorKind = "tons-not-positive"
	KindNoValidDucts      ErrorKind = "no-valid-ducts"
)

type ValidationError struct {
	Kind ErrorKind
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Kind)
}

func validation(kind ErrorKind) error { return &ValidationError{Kind: kind} }

// KindOf reports the validation kind carried by err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind, true
	}
	return "", false
}

// ErrCalculation is returned for any unexpected fault inside a calculation.
var ErrCalculation = errors.New("calculation error")
