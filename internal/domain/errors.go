package domain

import (
	"fmt"
	"strings"
)

// SchemaError reports required columns missing from an uploaded table.
type SchemaError struct {
	Kind    DatasetKind
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s data missing required columns: %s", e.Kind, strings.Join(e.Missing, ", "))
}

// FormatError reports a value that could not be parsed into the column's type.
type FormatError struct {
	Column string
	Value  string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid value %q in %q column: %v", e.Value, e.Column, e.Err)
	}
	return fmt.Sprintf("invalid value %q in %q column", e.Value, e.Column)
}

func (e *FormatError) Unwrap() error { return e.Err }

// InsufficientDataError reports that a model was given fewer data points
// than it requires.
type InsufficientDataError struct {
	Required int
	Got      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for forecasting (minimum %d data points required, got %d)", e.Required, e.Got)
}

// MissingFieldError reports that a cross-table join key is absent.
type MissingFieldError struct {
	Field string
	Table string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s not found in %s data", e.Field, e.Table)
}

// UnsupportedInputError reports an unrecognized file format, dataset kind
// or resampling period.
type UnsupportedInputError struct {
	Input string
}

func (e *UnsupportedInputError) Error() string {
	return fmt.Sprintf("unsupported input: %s", e.Input)
}
