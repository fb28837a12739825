package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxKeywordLength is the longest keyword, in runes, accepted from a record.
const MaxKeywordLength = 128

// ValidateKeyword validates a single keyword tag.
//
// The rules mirror what the journal's keyword input accepted:
//   - Not empty once surrounding whitespace is trimmed
//   - At most MaxKeywordLength runes
//   - Valid UTF-8
//   - No control characters (tabs and newlines included)
func ValidateKeyword(kw string) error {
	trimmed := strings.TrimSpace(kw)
	if trimmed == "" {
		return New(ErrCodeInvalidKeyword, "keyword cannot be empty")
	}
	if !utf8.ValidString(trimmed) {
		return New(ErrCodeInvalidKeyword, "keyword is not valid UTF-8: %q", kw)
	}
	if n := utf8.RuneCountInString(trimmed); n > MaxKeywordLength {
		return New(ErrCodeInvalidKeyword, "keyword too long (%d runes, max %d)", n, MaxKeywordLength)
	}
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidKeyword, "keyword contains control characters: %q", kw)
		}
	}
	return nil
}

// ValidatePath validates an input or output file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
