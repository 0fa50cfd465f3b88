package product

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyTable is returned when no valid records are left to classify.
var ErrEmptyTable = errors.New("product table is empty")

// MissingColumnError indicates a required header is absent from the input.
type MissingColumnError struct {
	Column    string
	Available []string
}

func (e *MissingColumnError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("required column %q not found (sheet has no header)", e.Column)
	}
	return fmt.Sprintf("required column %q not found.\nAvailable columns: %s", e.Column, strings.Join(e.Available, ", "))
}

// RowError is a per-record fault. The record it names is excluded from the batch.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
