package validation

import (
	"fmt"

	dErrors "kennitala/pkg/domain-errors"
)

// String element length limits
const (
	// MaxKennitalaInputLength bounds the raw code accepted before cleaning.
	// Room for separators and surrounding whitespace, not for documents.
	MaxKennitalaInputLength = 32

	// MaxKindLength is the maximum length of a kind name.
	MaxKindLength = 16
)

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}

// CheckRange validates that value lies in [min, max].
func CheckRange(fieldName string, value, min, max int) error {
	if value < min || value > max {
		return dErrors.New(dErrors.CodeOutOfRange, fmt.Sprintf("%s must be between %d and %d", fieldName, min, max))
	}
	return nil
}
