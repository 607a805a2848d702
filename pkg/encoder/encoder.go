// Package encoder turns an assembled font definition into output files.
//
// An [Encoder] receives a [Definition] (font metrics plus the glyphs to
// emit, already transformed into font coordinates) and writes one output
// format. Two encoders are built in: [SVGFont] writes an SVG font, and
// [JSON] writes the definition itself for external font compilers.
package encoder

import (
	"encoding/json"
	"io"
	"slices"
	"sort"

	"github.com/matzehuels/fontsmith/pkg/errors"
)

// FontInfo holds the font-level metrics of a definition.
type FontInfo struct {
	ID        string `json:"id"`
	Fullname  string `json:"fullname,omitempty"`
	Copyright string `json:"copyright,omitempty"`
	Ascent    int    `json:"ascent"`
	Descent   int    `json:"descent"`
}

// UnitsPerEm is the em size of every definition.
func (f FontInfo) UnitsPerEm() int { return f.Ascent - f.Descent }

// GlyphDef is one glyph of a definition, in font coordinates.
type GlyphDef struct {
	Name    string `json:"name"`
	Code    rune   `json:"code"`
	Outline string `json:"outline"`
	Width   int    `json:"width"`
}

// Definition is the encoder input.
type Definition struct {
	Font   FontInfo   `json:"font"`
	Glyphs []GlyphDef `json:"glyphs"`
}

// Encoder writes a definition in one output format.
type Encoder interface {
	// Format is the format name, also used as the file extension.
	Format() string
	Encode(w io.Writer, def *Definition) error
}

var registry = map[string]Encoder{
	"svg":  SVGFont{},
	"json": JSON{},
}

// Get returns the encoder for format.
func Get(format string) (Encoder, error) {
	enc, ok := registry[format]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown output format %q (must be one of: %v)", format, Formats())
	}
	return enc, nil
}

// Formats lists the registered format names.
func Formats() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ValidFormat reports whether format has an encoder.
func ValidFormat(format string) bool { return slices.Contains(Formats(), format) }

// JSON writes the definition as indented JSON.
type JSON struct{}

func (JSON) Format() string { return "json" }

func (JSON) Encode(w io.Writer, def *Definition) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(def); err != nil {
		return errors.Wrap(errors.ErrCodeEncodeFailed, err, "encode json definition")
	}
	return nil
}
