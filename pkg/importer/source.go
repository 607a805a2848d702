package importer

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/matzehuels/fontsmith/pkg/codes"
	"github.com/matzehuels/fontsmith/pkg/errors"
	"github.com/matzehuels/fontsmith/pkg/svg"
	"github.com/matzehuels/fontsmith/pkg/svgpath"
)

// Kind is the type of a source file.
type Kind string

const (
	KindImage Kind = "image"
	KindFont  Kind = "font"
)

// sourceVersion is bumped whenever the normalized representation changes,
// invalidating cached sources.
const sourceVersion = 1

// grid is the design grid size of normalized outlines.
const grid = 1000

// Source is a parsed and normalized source file, ready to be applied to a
// collection. Preparing a source has no side effects.
type Source struct {
	File        string
	Kind        Kind
	Fingerprint string
	Parsed
}

// Parsed is the cacheable part of a Source: everything derived from the file
// bytes alone.
type Parsed struct {
	Glyphs []SourceGlyph `json:"glyphs"`
	// Ignored lists SVG elements and attributes skipped while flattening an
	// image.
	Ignored []string `json:"ignored,omitempty"`
}

// SourceGlyph is one normalized glyph of a source.
type SourceGlyph struct {
	Name    string `json:"name"`
	Code    rune   `json:"code"`
	Outline string `json:"outline"`
	Width   int    `json:"width"`
}

// Detect returns the kind of a source file from its content.
func Detect(data []byte) Kind {
	if svg.IsFont(data) {
		return KindFont
	}
	return KindImage
}

// Parse normalizes the bytes of a source of the given kind.
func Parse(kind Kind, data []byte) (*Parsed, error) {
	switch kind {
	case KindFont:
		return parseFont(data)
	case KindImage:
		return parseImage(data)
	}
	return nil, errors.New(errors.ErrCodeInvalidSource, "unknown source kind %q", kind)
}

// parseImage flattens an SVG image and fits it into the design grid: the
// drawing area is moved to the origin and scaled uniformly so its height is
// one em.
func parseImage(data []byte) (*Parsed, error) {
	img, err := svg.ParseImage(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "parse image")
	}
	if img.D == "" {
		return nil, errors.New(errors.ErrCodeInvalidSource, "image has no drawable paths")
	}

	p, err := svgpath.Parse(img.D)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "parse image path")
	}
	scale := grid / img.Height
	d := p.Translate(-img.X, -img.Y).Scale(scale, scale).Abs().Round(1).String()

	return &Parsed{
		Glyphs: []SourceGlyph{{
			Outline: d,
			Width:   int(math.Round(img.Width * scale)),
		}},
		Ignored: img.Ignored,
	}, nil
}

// parseFont converts every renderable glyph of an SVG font to the design
// grid. Glyphs without an outline or with zero advance are skipped.
func parseFont(data []byte) (*Parsed, error) {
	f, err := svg.ParseFont(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "parse font")
	}
	return normalizeFont(f)
}

func normalizeFont(f *svg.Font) (*Parsed, error) {
	scale := grid / f.UnitsPerEm
	out := &Parsed{}
	for i, g := range f.Glyphs {
		if g.D == "" || g.HorizAdvX == 0 {
			continue
		}
		p, err := svgpath.Parse(g.D)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "glyph %d (%s)", i, g.Name)
		}
		d := p.Translate(0, -f.Ascent).Scale(scale, -scale).Abs().Round(1).String()

		code := g.Code
		if code == 0 {
			code = codes.PUAMin
		}
		name := g.Name
		if name == "" {
			name = "glyph"
		}
		out.Glyphs = append(out.Glyphs, SourceGlyph{
			Name:    name,
			Code:    code,
			Outline: d,
			Width:   int(math.Round(g.HorizAdvX * scale)),
		})
	}
	if len(out.Glyphs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidSource, "font has no renderable glyphs")
	}
	return out, nil
}

// GlyphName derives a glyph name from a source filename: the base name is
// lower-cased, a trailing ".svg" removed and every whitespace character
// replaced with "-".
func GlyphName(file string) string {
	// Casers are stateful; one per call keeps this safe for workers.
	name := cases.Lower(language.Und).String(filepath.Base(file))
	name = strings.TrimSuffix(name, ".svg")
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '-'
		}
		return r
	}, name)
}
