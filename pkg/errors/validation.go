package errors

import (
	"strings"
	"unicode"
)

// ValidateIdentifier checks a tool package or name before it is used as part
// of a node identity. kind names the field in error messages ("package", "name").
//
// Rules:
//   - No empty values
//   - No whitespace or control characters
//   - No quotes or brackets, which would break diagram syntax
//   - Maximum length of 128 characters
func ValidateIdentifier(kind, value string) error {
	if value == "" {
		return New(ErrCodeInvalidStep, "%s cannot be empty", kind)
	}
	if len(value) > 128 {
		return New(ErrCodeInvalidStep, "%s too long (max 128 characters)", kind)
	}
	for _, r := range value {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidStep, "%s %q contains whitespace or control characters", kind, value)
		}
	}
	if i := strings.IndexAny(value, "\"[](){}<>|"); i >= 0 {
		return New(ErrCodeInvalidStep, "%s %q contains invalid character %q", kind, value, value[i])
	}
	return nil
}
