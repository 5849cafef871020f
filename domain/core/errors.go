package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Structural errors
	ErrNilTable      = errors.New("table is nil")
	ErrRaggedTable   = errors.New("columns have different row counts")
	ErrNilColumn     = errors.New("column is nil")
	ErrUnreadable    = errors.New("table cannot be read")
	ErrEmptyWorkbook = errors.New("workbook has no sheets")

	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrColumnNotFound = fmt.Errorf("%w: column", ErrNotFound)
	ErrSheetNotFound  = fmt.Errorf("%w: sheet", ErrNotFound)

	// Parameter errors
	ErrInvalidParameter = errors.New("invalid parameter")
)

// NewRaggedTableError names the column whose length breaks the row count invariant
func NewRaggedTableError(column string, got, want int) error {
	return fmt.Errorf("%w: column %q has %d rows, expected %d", ErrRaggedTable, column, got, want)
}

// NewColumnNotFoundError names the missing column
func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w %q", ErrColumnNotFound, column)
}

// NewSheetNotFoundError names the missing sheet
func NewSheetNotFoundError(sheet string) error {
	return fmt.Errorf("%w %q", ErrSheetNotFound, sheet)
}

// NewParameterError describes a rejected parameter value
func NewParameterError(name string, value any, reason string) error {
	return fmt.Errorf("%w: %s=%v %s", ErrInvalidParameter, name, value, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsParameterError(err error) bool {
	return errors.Is(err, ErrInvalidParameter)
}

func IsStructuralError(err error) bool {
	return errors.Is(err, ErrNilTable) || errors.Is(err, ErrRaggedTable) ||
		errors.Is(err, ErrNilColumn) || errors.Is(err, ErrUnreadable)
}
