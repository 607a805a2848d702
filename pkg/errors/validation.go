package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxNameLength bounds font and glyph names.
const maxNameLength = 128

// fontNameRegex matches font identifiers usable as file names and CSS families.
var fontNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateFontName validates a font identifier.
//
// The font name doubles as the output file stem and the SVG font id, so the
// rules are conservative:
//   - No empty names
//   - Maximum length of 128 characters
//   - ASCII letters, digits, '.', '_' and '-' only, starting with a letter or digit
func ValidateFontName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "font name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "font name too long (max %d characters)", maxNameLength)
	}
	if !fontNameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid font name: %q", name)
	}
	return nil
}

// ValidateGlyphName validates a user-supplied glyph name.
// Glyph names end up in the SVG font and in CSS class names, so control
// characters and whitespace are rejected.
func ValidateGlyphName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "glyph name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "glyph name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidName, "glyph name contains whitespace or control characters")
		}
	}
	return nil
}

// ValidatePath validates a source or output path given on the command line
// or through the HTTP API.
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

// ValidateRelativePath validates a file name received from a remote client.
// It prevents path traversal out of the source directory.
func ValidateRelativePath(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}
	return nil
}
