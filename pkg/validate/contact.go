package validate

import (
	"fmt"
	"regexp"
	"strings"

	pkgerrors "github.com/kiranapos/backend/pkg/errors"
)

var (
	// Indian mobile numbers: ten digits starting 6-9.
	phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
	// Store policy accepts gmail and yahoo addresses only.
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@(gmail\.com|yahoo\.com)$`)
	namePattern  = regexp.MustCompile(`^[A-Za-z ]+$`)
)

// Phone validates a required phone field.
func Phone(field, value string) error {
	if !phonePattern.MatchString(strings.TrimSpace(value)) {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("%s must be a 10-digit mobile number starting with 6-9", field))
	}
	return nil
}

// OptionalPhone validates a phone field that may be empty.
func OptionalPhone(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return Phone(field, value)
}

// Email validates a required email field.
func Email(field, value string) error {
	if !emailPattern.MatchString(strings.TrimSpace(value)) {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("%s must be a gmail.com or yahoo.com address", field))
	}
	return nil
}

// OptionalEmail validates an email field that may be empty.
func OptionalEmail(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return Email(field, value)
}

// PersonName validates a display name: letters and spaces, non-blank.
func PersonName(field, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || !namePattern.MatchString(trimmed) {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("%s must contain only letters and spaces", field))
	}
	return nil
}
