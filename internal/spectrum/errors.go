package spectrum

import (
	"errors"
	"fmt"
)

// ErrTooFewColumns is wrapped by a ParseError when a row is shorter than its layout.
var ErrTooFewColumns = errors.New("fewer columns than layout requires")

var (
	ErrNotFinite             = errors.New("value is not finite")
	ErrNonPositiveWavelength = errors.New("wavelength must be positive")
	ErrUnsorted              = errors.New("wavelengths must be ascending")
)

// ParseError reports a spectrum row whose required fields are missing or non-numeric.
type ParseError struct {
	Source string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("spectrum %s: line %d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("spectrum %s: line %d: column %s: invalid value %q: %v", e.Source, e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
