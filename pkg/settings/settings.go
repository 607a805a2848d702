// Package settings reads the fontsmith.toml build settings of a source
// directory.
//
// The file is optional. A missing file yields the defaults; a present file
// overrides them section by section:
//
//	[font]
//	name = "icons"
//	ascent = 850
//
//	[build]
//	output = "dist"
//	formats = ["svg", "json"]
//	library = ["vendor/fontawesome.svg"]
//
//	[cache]
//	redis = "localhost:6379"
//
//	[store]
//	mongo = "mongodb://localhost:27017"
package settings

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/fontsmith/pkg/cache"
	"github.com/matzehuels/fontsmith/pkg/codes"
	"github.com/matzehuels/fontsmith/pkg/config"
	"github.com/matzehuels/fontsmith/pkg/encoder"
	"github.com/matzehuels/fontsmith/pkg/errors"
	"github.com/matzehuels/fontsmith/pkg/importer"
)

// FileName is the settings file looked up in a source directory.
const FileName = "fontsmith.toml"

// Defaults.
const (
	DefaultName     = "fontsmith"
	DefaultOutput   = "dist"
	DefaultDatabase = "fontsmith"
)

// DefaultFormats are the encoders run by a build when none are configured.
var DefaultFormats = []string{"svg"}

// Settings is the decoded fontsmith.toml.
type Settings struct {
	Font  Font  `toml:"font"`
	Build Build `toml:"build"`
	Cache Cache `toml:"cache"`
	Store Store `toml:"store"`
}

// Font holds the global font parameters.
type Font struct {
	Name          string `toml:"name"`
	Fullname      string `toml:"fullname,omitempty"`
	Copyright     string `toml:"copyright,omitempty"`
	UnitsPerEm    int    `toml:"units_per_em"`
	Ascent        int    `toml:"ascent"`
	CSSPrefixText string `toml:"css_prefix_text,omitempty"`
	CSSUseSuffix  bool   `toml:"css_use_suffix,omitempty"`
}

// Build controls the build pipeline.
type Build struct {
	// Output is the directory fonts are written to, relative to the source
	// directory unless absolute.
	Output  string   `toml:"output"`
	Formats []string `toml:"formats"`
	// Library lists SVG font files loaded as read-only fonts.
	Library []string `toml:"library,omitempty"`
	Workers int      `toml:"workers"`
	// Encoding is the allocation policy used when a code is reassigned
	// automatically.
	Encoding string `toml:"encoding"`
}

// Cache configures the parsed-source cache.
type Cache struct {
	// Redis is the address of a shared Redis cache. Empty selects the
	// local file cache.
	Redis    string `toml:"redis,omitempty"`
	Password string `toml:"password,omitempty"`
	DB       int    `toml:"db,omitempty"`
	// Dir overrides the local cache directory.
	Dir string `toml:"dir,omitempty"`
	// TTL is a Go duration string such as "720h".
	TTL string `toml:"ttl,omitempty"`
	// Disabled turns caching off.
	Disabled bool `toml:"disabled,omitempty"`
}

// Store configures where the curation config is persisted.
type Store struct {
	// Mongo is a MongoDB connection URI. Empty selects config.json in the
	// source directory.
	Mongo    string `toml:"mongo,omitempty"`
	Database string `toml:"database,omitempty"`
}

// Default returns settings with every default applied.
func Default() *Settings {
	s := &Settings{}
	s.SetDefaults()
	return s
}

// SetDefaults fills unset fields.
func (s *Settings) SetDefaults() {
	if s.Font.Name == "" {
		s.Font.Name = DefaultName
	}
	if s.Font.UnitsPerEm <= 0 {
		s.Font.UnitsPerEm = config.DefaultUnitsPerEm
	}
	if s.Font.Ascent == 0 {
		s.Font.Ascent = config.DefaultAscent
	}
	if s.Build.Output == "" {
		s.Build.Output = DefaultOutput
	}
	if len(s.Build.Formats) == 0 {
		s.Build.Formats = append([]string(nil), DefaultFormats...)
	}
	if s.Build.Workers <= 0 {
		s.Build.Workers = importer.DefaultWorkers
	}
	if s.Build.Encoding == "" {
		s.Build.Encoding = string(codes.PUA)
	}
	if s.Store.Mongo != "" && s.Store.Database == "" {
		s.Store.Database = DefaultDatabase
	}
}

// Validate checks the decoded values.
func (s *Settings) Validate() error {
	if err := errors.ValidateFontName(s.Font.Name); err != nil {
		return err
	}
	if s.Font.Ascent <= 0 || s.Font.Ascent > s.Font.UnitsPerEm {
		return errors.New(errors.ErrCodeInvalidConfig, "font ascent %d must be in 1..%d", s.Font.Ascent, s.Font.UnitsPerEm)
	}
	for _, f := range s.Build.Formats {
		if !encoder.ValidFormat(f) {
			return errors.New(errors.ErrCodeInvalidFormat, "unknown output format %q (available: %v)", f, encoder.Formats())
		}
	}
	if _, err := codes.ParsePolicy(s.Build.Encoding); err != nil {
		return err
	}
	if _, err := s.CacheTTL(); err != nil {
		return err
	}
	return nil
}

// Params returns the font parameters as stored in the curation config.
func (s *Settings) Params() config.Params {
	return config.Params{
		Name:          s.Font.Name,
		Fullname:      s.Font.Fullname,
		Copyright:     s.Font.Copyright,
		UnitsPerEm:    s.Font.UnitsPerEm,
		Ascent:        s.Font.Ascent,
		CSSPrefixText: s.Font.CSSPrefixText,
		CSSUseSuffix:  s.Font.CSSUseSuffix,
	}
}

// Policy returns the configured automatic allocation policy.
func (s *Settings) Policy() codes.Policy {
	p, err := codes.ParsePolicy(s.Build.Encoding)
	if err != nil {
		return codes.PUA
	}
	return p
}

// CacheTTL returns the parsed cache TTL, cache.TTLSource when unset.
func (s *Settings) CacheTTL() (time.Duration, error) {
	if s.Cache.TTL == "" {
		return cache.TTLSource, nil
	}
	d, err := time.ParseDuration(s.Cache.TTL)
	if err != nil || d <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "invalid cache ttl %q", s.Cache.TTL)
	}
	return d, nil
}

// OutputDir resolves the output directory against the source directory.
func (s *Settings) OutputDir(dir string) string {
	if filepath.IsAbs(s.Build.Output) {
		return s.Build.Output
	}
	return filepath.Join(dir, s.Build.Output)
}

// LibraryPaths resolves library font paths against the source directory.
func (s *Settings) LibraryPaths(dir string) []string {
	out := make([]string, len(s.Build.Library))
	for i, p := range s.Build.Library {
		if filepath.IsAbs(p) {
			out[i] = p
		} else {
			out[i] = filepath.Join(dir, p)
		}
	}
	return out
}

// Parse decodes settings from TOML, applies defaults and validates them.
func Parse(data []byte) (*Settings, error) {
	var s Settings
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", FileName)
	}
	s.SetDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads FileName from dir. A missing file yields the defaults.
func Load(dir string) (*Settings, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	return Parse(data)
}

// Write encodes s as TOML.
func Write(w io.Writer, s *Settings) error {
	if err := toml.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return nil
}

// Init writes a default settings file named after the font into dir.
// An existing file is not overwritten unless force is set.
func Init(dir, name string, force bool) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return path, errors.New(errors.ErrCodeInvalidInput, "%s already exists", path)
	}

	s := &Settings{Font: Font{Name: name}}
	s.SetDefaults()
	if err := s.Validate(); err != nil {
		return path, err
	}

	var buf bytes.Buffer
	if err := Write(&buf, s); err != nil {
		return path, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return path, fmt.Errorf("create %s: %w", dir, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, fmt.Errorf("write settings: %w", err)
	}
	return path, nil
}
