package dreconcile

import (
	"errors"
	"fmt"

	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/reconcile"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a valid xlsx container.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ErrMissingWorksheet indicates the selected worksheet part is absent.
var ErrMissingWorksheet = errors.New("missing worksheet")

// ErrInvalidType is returned when a reconciled entry has a type other than
// Receita or Despesa.
var ErrInvalidType = reconcile.ErrInvalidType

// ErrInvalidRules is returned when Options.Rules fail validation.
var ErrInvalidRules = reconcile.ErrInvalidRules

// ExtractionError represents an error while reading one part of a workbook.
type ExtractionError struct {
	Part      string
	Component string // "container", "worksheet", "cells"
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error in part %q (%s): %v", e.Part, e.Component, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(part, component string, err error) *ExtractionError {
	return &ExtractionError{
		Part:      part,
		Component: component,
		Err:       err,
	}
}
