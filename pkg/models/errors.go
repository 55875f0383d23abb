package models

import "errors"

// Data-shape conditions. The normalizer absorbs all of them into Unavailable
// values; they are only returned directly by the lower-level packages.
var (
	ErrFieldMissing      = errors.New("field missing")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrDivisionByZero    = errors.New("division by zero")
	ErrUnparseablePeriod = errors.New("unparseable period")
)

// Diagnostic records a condition that was absorbed while normalizing one field.
type Diagnostic struct {
	Field string `json:"field"`
	Err   string `json:"error"`
}
