package engine

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound means an explicitly requested budget or category does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidWindow means a malformed or inverted date range.
	ErrInvalidWindow = errors.New("invalid window")
	// ErrInvalidBudget means a budget amount or threshold out of range.
	ErrInvalidBudget = errors.New("invalid budget")
	// ErrReconciliation means a cache could not be recomputed.
	ErrReconciliation = errors.New("reconciliation failed")
	// ErrDuplicateBudget means an active budget already exists for the key.
	ErrDuplicateBudget = errors.New("budget already exists")
)

// notFound turns gorm's missing-row error into ErrNotFound and passes
// anything else through.
func notFound(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
