package session

import (
	"fmt"
	"regexp"
)

const (
	FieldUsername = "username"
	FieldJobTitle = "jobTitle"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z]+$`)
	jobTitlePattern = regexp.MustCompile(`^[A-Za-z\s]+$`)
)

// ValidationError is a field-level input error. The transition it guards did not happen.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateUsername accepts letters only.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return &ValidationError{
			Field:   FieldUsername,
			Message: "Username is required and should only contain letters",
		}
	}

	return nil
}

// ValidateJobTitle accepts letters and spaces.
func ValidateJobTitle(jobTitle string) error {
	if !jobTitlePattern.MatchString(jobTitle) {
		return &ValidationError{
			Field:   FieldJobTitle,
			Message: "Only letters and spaces are allowed",
		}
	}

	return nil
}
