package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxLineSize bounds the line length accepted from untrusted callers (HTTP,
// batch files). The core itself accepts any non-negative size.
const MaxLineSize = 256

// ValidateSize rejects negative line sizes.
func ValidateSize(size int) error {
	if size < 0 {
		return New(ErrCodeInvalidSize, "line size must be non-negative, got %d", size)
	}
	return nil
}

// ValidateBlocks rejects zero or negative block lengths. An empty slice is valid.
func ValidateBlocks(blocks []int) error {
	for i, b := range blocks {
		if b <= 0 {
			return New(ErrCodeInvalidBlock, "block %d must have positive length, got %d", i, b)
		}
	}
	return nil
}

// ValidateLine validates a (size, blocks) pair in one call.
func ValidateLine(size int, blocks []int) error {
	if err := ValidateSize(size); err != nil {
		return err
	}
	return ValidateBlocks(blocks)
}

// ValidateRequestSize applies the MaxLineSize limit on top of ValidateSize.
// Enumeration is exponential in slack, so public endpoints cap the line length.
func ValidateRequestSize(size int) error {
	if err := ValidateSize(size); err != nil {
		return err
	}
	if size > MaxLineSize {
		return New(ErrCodeInvalidSize, "line size too large (max %d), got %d", MaxLineSize, size)
	}
	return nil
}

// ValidateGlyph validates a display glyph: exactly one printable rune.
func ValidateGlyph(glyph string) error {
	if utf8.RuneCountInString(glyph) != 1 {
		return New(ErrCodeInvalidConfig, "glyph must be a single character, got %q", glyph)
	}
	r, _ := utf8.DecodeRuneInString(glyph)
	if r == utf8.RuneError || unicode.IsControl(r) || unicode.IsSpace(r) {
		return New(ErrCodeInvalidConfig, "glyph must be printable, got %q", glyph)
	}
	return nil
}

// ValidateLineName validates an optional batch entry name.
//
// The validation rules are intentionally conservative:
//   - Maximum length of 128 characters
//   - No control characters
//   - No path separators (names are used in output file names)
func ValidateLineName(name string) error {
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "line name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "line name contains invalid control characters")
		}
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInput, "line name cannot contain path separators")
	}
	return nil
}

// ValidatePath validates an output file path given on the command line or in
// a config file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
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
