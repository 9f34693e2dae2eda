package appcore

import "fmt"

// ValidationError represents a validation error with field context.
// Invalid alternate keys (blank login/mobile, non-positive id) are reported
// through this type before any store access happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
