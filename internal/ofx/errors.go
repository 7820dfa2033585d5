package ofx

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat is matched by every *FormatError.
	ErrFormat = errors.New("ofx: invalid date format")

	// ErrConstruction is matched by every *ConstructionError.
	ErrConstruction = errors.New("ofx: invalid date value")
)

// FormatError reports a date token whose mandatory YYYYMMDD prefix could not
// be found. It is returned regardless of ignoreErrors.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("ofx: failed to match date/time in %q", e.Input)
}

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// ConstructionError reports matched fields that the timestamp factory
// rejected (month 13, day 32, ...). Parse returns it only when ignoreErrors
// is false.
type ConstructionError struct {
	Input  string
	Layout string // canonical "YYYY-MM-DD HH:MM:SS" handed to the factory
	Err    error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("ofx: build timestamp %q from %q: %v", e.Layout, e.Input, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

func (e *ConstructionError) Is(target error) bool { return target == ErrConstruction }
