package domain

import (
	"errors"
	"fmt"
)

// Taxonomy roots. Every error returned by the core wraps exactly one of them,
// so callers can classify with errors.Is.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence failure")
)

var (
	ErrHabitNameEmpty    = fmt.Errorf("%w: habit name cannot be empty", ErrValidation)
	ErrHabitNameTooLong  = fmt.Errorf("%w: habit name is too long (max %d chars)", ErrValidation, MaxNameLen)
	ErrInvalidColor      = fmt.Errorf("%w: invalid color format (must be #RRGGBB)", ErrValidation)
	ErrInvalidDay        = fmt.Errorf("%w: invalid day (must be YYYY-MM-DD)", ErrValidation)
	ErrInvalidMonth      = fmt.Errorf("%w: invalid month (must be 1-12)", ErrValidation)
	ErrInvalidWindow     = fmt.Errorf("%w: window must be between 1 and 366 days", ErrValidation)
	ErrDuplicateHabitID  = fmt.Errorf("%w: duplicate habit id", ErrValidation)
	ErrMalformedSnapshot = fmt.Errorf("%w: malformed snapshot", ErrValidation)
	ErrMalformedExport   = fmt.Errorf("%w: malformed export document", ErrValidation)

	ErrHabitNotFound = fmt.Errorf("habit %w", ErrNotFound)
)
