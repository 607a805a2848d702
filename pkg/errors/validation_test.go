package errors

import (
	"strings"
	"testing"
)

func TestValidateFontName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "fontello", false},
		{"with dash and dot", "my-icons.v2", false},
		{"underscore", "icons_2024", false},
		{"empty", "", true},
		{"leading dash", "-icons", true},
		{"space", "my icons", true},
		{"slash", "a/b", true},
		{"too long", strings.Repeat("a", 129), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFontName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFontName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidateFontName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidName)
			}
		})
	}
}

func TestValidateGlyphName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "home", false},
		{"dashed", "arrow-left", false},
		{"unicode", "häuschen", false},
		{"empty", "", true},
		{"space", "arrow left", true},
		{"tab", "arrow\tleft", true},
		{"control", "a\x01", true},
		{"too long", strings.Repeat("g", 200), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGlyphName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGlyphName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"relative", "icons/home.svg", false},
		{"absolute", "/srv/icons", false},
		{"empty", "", true},
		{"null byte", "icons\x00.svg", true},
		{"too long", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRelativePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"file", "home.svg", false},
		{"nested", "set/home.svg", false},
		{"absolute", "/etc/passwd", true},
		{"traversal", "../secret.svg", true},
		{"backslash", "set\\home.svg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRelativePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRelativePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidConfig,
		ErrCodeInvalidSource,
		ErrCodeInvalidPolicy,
		ErrCodeInvalidPath,
		ErrCodeInvalidFormat,
		ErrCodeInvalidName,
		ErrCodeNotFound,
		ErrCodeGlyphNotFound,
		ErrCodeFontNotFound,
		ErrCodeDuplicateUID,
		ErrCodeDuplicateFont,
		ErrCodeReadOnlyFont,
		ErrCodeCodesExhausted,
		ErrCodeEncodeFailed,
		ErrCodeStore,
		ErrCodeInternal,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
