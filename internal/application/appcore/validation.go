package appcore

// ValidateRequired checks that a string field is not empty
func ValidateRequired(field, value string) error {
	if value == "" {
		return NewValidationError(field, "is required")
	}
	return nil
}

// ValidatePositiveID checks that a numeric identifier is positive
func ValidatePositiveID(field string, id int64) error {
	if id <= 0 {
		return NewValidationError(field, "must be a positive identifier")
	}
	return nil
}

// ValidateNonNegative checks that a number is not negative
func ValidateNonNegative(field string, value int) error {
	if value < 0 {
		return NewValidationError(field, "must be non-negative")
	}
	return nil
}

// ValidateEmail checks the basic email shape (presence of @ and a dot after it)
func ValidateEmail(field, value string) error {
	if value == "" {
		return NewValidationError(field, "email is required")
	}
	hasAt := false
	hasDot := false
	for i, ch := range value {
		if ch == '@' {
			hasAt = true
		}
		if hasAt && ch == '.' && i > 0 && i < len(value)-1 {
			hasDot = true
		}
	}
	if !hasAt || !hasDot {
		return NewValidationError(field, "must be a valid email address")
	}
	return nil
}
