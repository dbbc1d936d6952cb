package reconcile

import (
	"errors"
	"fmt"
)

// ErrInvalidType indicates an entry type that is neither revenue nor cost/expense.
var ErrInvalidType = errors.New("invalid entry type")

// ErrInvalidRules wraps the problems reported by Rules.Validate.
var ErrInvalidRules = errors.New("invalid rules")

// ClassificationError reports the row whose type could not be validated.
type ClassificationError struct {
	Row   int
	Value string
	Err   error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("row %d: %v: %q", e.Row, e.Err, e.Value)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}
