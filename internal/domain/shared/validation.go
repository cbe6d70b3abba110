package shared

import (
	"fmt"
	"strings"
)

// FieldError describes a validation failure on a single attribute.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrors collects per-field validation failures. It is returned to
// the caller as a structured list rather than raised as a fatal error.
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

// NewValidationErrors creates an empty collector
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{Errors: make([]FieldError, 0)}
}

// Add appends a field error to the collection
func (v *ValidationErrors) Add(field, code, message string) {
	v.Errors = append(v.Errors, FieldError{Field: field, Code: code, Message: message})
}

// AddRequired appends a missing-required-field error
func (v *ValidationErrors) AddRequired(field string) {
	v.Add(field, "REQUIRED", fmt.Sprintf("%s is required", field))
}

// HasErrors reports whether any field error was collected
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// On reports whether a field error was collected for the given field
func (v *ValidationErrors) On(field string) bool {
	for _, e := range v.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

// ErrOrNil returns the collection as an error when non-empty, nil otherwise
func (v *ValidationErrors) ErrOrNil() error {
	if v.HasErrors() {
		return v
	}
	return nil
}

// Error implements the error interface
func (v *ValidationErrors) Error() string {
	parts := make([]string, 0, len(v.Errors))
	for _, e := range v.Errors {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err is a ValidationErrors collection
func IsValidation(err error) bool {
	_, ok := err.(*ValidationErrors)
	return ok
}
