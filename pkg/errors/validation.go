package errors

import (
	"regexp"
	"unicode"
)

// maxNameLength bounds module names so they stay printable in tables and SVG labels.
const maxNameLength = 128

// ValidateModuleName validates a module name taken from a catalog.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No whitespace (names are whitespace-separated tokens in expressions)
//   - No control characters
//   - Not one of the operator symbols H or V
//   - Maximum length of 128 characters
func ValidateModuleName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidModule, "module name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidModule, "module name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidModule, "module name contains invalid control characters")
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidModule, "module name %q contains whitespace", name)
		}
	}

	if name == "H" || name == "V" {
		return New(ErrCodeInvalidModule, "module name %q collides with a cut operator", name)
	}

	return nil
}

// runIDRegex matches canonical lowercase UUID strings.
var runIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateRunID validates a stored run identifier.
// Run IDs are used as file names and document keys, so anything outside the
// canonical UUID form is rejected.
func ValidateRunID(id string) error {
	if !runIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid run id: %q", id)
	}
	return nil
}
