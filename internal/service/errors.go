package service

import "errors"

// ValidationError is a user-facing rejection. Reason is meant to be shown
// as-is; the caller keeps its input open for correction.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ErrNotFound means the id or name no longer exists. It points at a stale
// reference rather than a user mistake.
var ErrNotFound = errors.New("not found")

var (
	ErrTitleRequired       = &ValidationError{Reason: "Title is required"}
	ErrDateRequired        = &ValidationError{Reason: "Date is required"}
	ErrInvalidDate         = &ValidationError{Reason: "Date must be YYYY-MM-DD"}
	ErrInvalidDueDate      = &ValidationError{Reason: "Due date must be YYYY-MM-DD"}
	ErrInvalidTime         = &ValidationError{Reason: "Time must be HH:MM"}
	ErrTimeOrder           = &ValidationError{Reason: "End time must be after start time"}
	ErrCategoryRequired    = &ValidationError{Reason: "Enter a category name"}
	ErrCategoryNameEmpty   = &ValidationError{Reason: "Category name cannot be empty"}
	ErrCategoryExists      = &ValidationError{Reason: "That category already exists"}
	ErrNoChanges           = &ValidationError{Reason: "No changes"}
	ErrLastCategory        = &ValidationError{Reason: "Keep at least one category"}
	ErrUnknownFilter       = &ValidationError{Reason: "Filter must be all, active or completed"}
	ErrAmbiguousID         = &ValidationError{Reason: "ID matches more than one item"}
	ErrInvalidJSON         = &ValidationError{Reason: "Invalid JSON"}
	ErrImportMissingFields = &ValidationError{Reason: "Import missing fields"}
)

// WarnCategoryFallback is attached to results when an unknown category was
// replaced by the default one.
const WarnCategoryFallback = "Category not found; using default"

// Reason returns the user-facing text of a validation error.
func Reason(err error) (string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason, true
	}
	return "", false
}

// Result describes a successful create or update.
type Result struct {
	ID      string
	Created bool
	Warning string
}
