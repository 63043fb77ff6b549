package errors

import (
	"strings"
	"unicode"
)

// ValidateEntityName validates a user-supplied ministry, project, or
// recipient name before it is used for dataset lookups.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - Maximum length of 256 characters
//
// Whether the name actually resolves is checked separately against the
// dataset index; an unresolvable name is a NOT_FOUND_* failure, not an
// INVALID_NAME one.
func ValidateEntityName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "entity name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidName, "entity name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "entity name contains control characters")
		}
	}

	if strings.Contains(name, "\x00") {
		return New(ErrCodeInvalidName, "entity name contains null byte")
	}

	return nil
}
