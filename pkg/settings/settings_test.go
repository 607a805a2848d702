package settings

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/fontsmith/pkg/cache"
	"github.com/matzehuels/fontsmith/pkg/codes"
	"github.com/matzehuels/fontsmith/pkg/errors"
)

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if s.Font.Name != DefaultName || s.Font.UnitsPerEm != 1000 || s.Font.Ascent != 850 {
		t.Errorf("font defaults = %+v", s.Font)
	}
	if s.Build.Output != "dist" || !slices.Equal(s.Build.Formats, []string{"svg"}) || s.Build.Workers != 8 {
		t.Errorf("build defaults = %+v", s.Build)
	}
	if s.Policy() != codes.PUA {
		t.Errorf("Policy() = %s", s.Policy())
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
[font]
name = "icons"
fullname = "My Icons"
units_per_em = 2048
ascent = 1638
css_prefix_text = "icon-"

[build]
output = "/tmp/out"
formats = ["svg", "json"]
library = ["vendor/lib.svg", "/abs/lib.svg"]
workers = 2
encoding = "unicode"

[cache]
redis = "localhost:6379"
ttl = "1h"

[store]
mongo = "mongodb://localhost:27017"
`)
	s, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	p := s.Params()
	if p.Name != "icons" || p.Fullname != "My Icons" || p.UnitsPerEm != 2048 || p.Ascent != 1638 || p.CSSPrefixText != "icon-" {
		t.Errorf("Params() = %+v", p)
	}
	if s.Policy() != codes.Unicode {
		t.Errorf("Policy() = %s", s.Policy())
	}
	if ttl, _ := s.CacheTTL(); ttl != time.Hour {
		t.Errorf("CacheTTL() = %v", ttl)
	}
	if s.Store.Database != DefaultDatabase {
		t.Errorf("Store.Database = %q", s.Store.Database)
	}
	if got := s.OutputDir("/src"); got != "/tmp/out" {
		t.Errorf("OutputDir = %q", got)
	}
	want := []string{filepath.Join("/src", "vendor/lib.svg"), "/abs/lib.svg"}
	if got := s.LibraryPaths("/src"); !slices.Equal(got, want) {
		t.Errorf("LibraryPaths = %v, want %v", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"bad toml", "[font\nname=", errors.ErrCodeInvalidConfig},
		{"bad name", "[font]\nname = \"my icons\"", errors.ErrCodeInvalidName},
		{"bad format", "[build]\nformats = [\"woff\"]", errors.ErrCodeInvalidFormat},
		{"bad encoding", "[build]\nencoding = \"latin\"", errors.ErrCodeInvalidPolicy},
		{"ascent above em", "[font]\nascent = 1200", errors.ErrCodeInvalidConfig},
		{"bad ttl", "[cache]\nttl = \"soon\"", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.in))
			if !errors.Is(err, tt.code) {
				t.Errorf("Parse error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestInitRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path, err := Init(dir, "icons", false)
	if err != nil {
		t.Fatalf("Init error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("settings file missing: %v", err)
	}

	s, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if s.Font.Name != "icons" || s.Build.Output != DefaultOutput {
		t.Errorf("loaded = %+v", s)
	}
	if ttl, _ := s.CacheTTL(); ttl != cache.TTLSource {
		t.Errorf("CacheTTL() = %v", ttl)
	}

	if _, err := Init(dir, "icons", false); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("second Init error = %v", err)
	}
	if _, err := Init(dir, "other", true); err != nil {
		t.Errorf("forced Init error = %v", err)
	}
	if s, _ := Load(dir); s.Font.Name != "other" {
		t.Errorf("forced Init did not overwrite: %q", s.Font.Name)
	}
}
