package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/fontsmith/pkg/errors"
	"github.com/matzehuels/fontsmith/pkg/font"
)

// FileName is the reserved config filename inside a source directory.
const FileName = "config.json"

// Default font metrics.
const (
	DefaultUnitsPerEm = 1000
	DefaultAscent     = 850
)

// Params are the global font parameters.
type Params struct {
	Name          string `json:"name"`
	CSSPrefixText string `json:"css_prefix_text,omitempty"`
	CSSUseSuffix  bool   `json:"css_use_suffix,omitempty"`
	UnitsPerEm    int    `json:"units_per_em"`
	Ascent        int    `json:"ascent"`
	Copyright     string `json:"copyright,omitempty"`
	Fullname      string `json:"fullname,omitempty"`
}

// SetDefaults fills zero metrics with the defaults.
func (p *Params) SetDefaults() {
	if p.UnitsPerEm <= 0 {
		p.UnitsPerEm = DefaultUnitsPerEm
	}
	if p.Ascent == 0 {
		p.Ascent = DefaultAscent
	}
}

// Descriptor is the persisted state of one glyph.
type Descriptor struct {
	UID         string `json:"uid"`
	Name        string `json:"name"`
	Code        rune   `json:"code"`
	ContentHash string `json:"contentHash,omitempty"`
	OwnerFontID string `json:"ownerFontId"`
	Outline     string `json:"outline,omitempty"`
	Width       int    `json:"width,omitempty"`
	// Selected is nil when absent; absent means selected.
	Selected *bool `json:"selected,omitempty"`
}

// IsSelected reports whether the descriptor should be selected on replay.
func (d Descriptor) IsSelected() bool { return d.Selected == nil || *d.Selected }

// UnmarshalJSON accepts the current field names and the legacy src/svg form.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	type plain Descriptor
	var aux struct {
		plain
		Src string `json:"src"`
		SVG *struct {
			Path  string  `json:"path"`
			Width float64 `json:"width"`
		} `json:"svg"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*d = Descriptor(aux.plain)
	if d.OwnerFontID == "" {
		d.OwnerFontID = aux.Src
	}
	if aux.SVG != nil && d.Outline == "" {
		d.Outline = aux.SVG.Path
		d.Width = int(aux.SVG.Width + 0.5)
	}
	return nil
}

// Config is the persisted curation state.
type Config struct {
	Params
	Glyphs []Descriptor `json:"glyphs"`
}

// Serialize captures the state of c.
func Serialize(c *font.Collection, p Params) *Config {
	cfg := &Config{Params: p, Glyphs: []Descriptor{}}
	for _, g := range c.Selected() {
		cfg.Glyphs = append(cfg.Glyphs, describe(g))
	}
	for _, g := range c.Custom().Glyphs() {
		if !g.Selected() {
			cfg.Glyphs = append(cfg.Glyphs, describe(g))
		}
	}
	return cfg
}

func describe(g *font.Glyph) Descriptor {
	selected := g.Selected()
	d := Descriptor{
		UID:         g.UID(),
		Name:        g.Name(),
		Code:        g.Code(),
		ContentHash: g.ContentHash(),
		OwnerFontID: g.Font().ID(),
		Selected:    &selected,
	}
	if g.Custom() {
		d.Outline = g.Outline()
		d.Width = g.Width()
	}
	return d
}

// Parse decodes a config. Malformed input returns ErrCodeInvalidConfig.
func Parse(data []byte) (*Config, error) {
	return Read(bytes.NewReader(data))
}

// Read decodes a config from r and applies metric defaults.
func Read(r io.Reader) (*Config, error) {
	var cfg Config
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	cfg.SetDefaults()
	return &cfg, nil
}

// Write encodes cfg as indented JSON.
func Write(w io.Writer, cfg *Config) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// Load reads the config at path. A missing file returns ErrCodeNotFound.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeNotFound, "no config at %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Save writes cfg to path atomically.
func Save(path string, cfg *Config) error {
	var buf bytes.Buffer
	if err := Write(&buf, cfg); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.json")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
