// Package assemble builds encoder definitions from fonts.
package assemble

import (
	"math"

	"github.com/matzehuels/fontsmith/pkg/config"
	"github.com/matzehuels/fontsmith/pkg/encoder"
	"github.com/matzehuels/fontsmith/pkg/font"
	"github.com/matzehuels/fontsmith/pkg/svgpath"
)

// Em is the grid every generated font uses.
const Em = 1000

// Assemble converts the selected glyphs of f into an encoder definition.
//
// Outlines are stored on a 1000 unit grid with y pointing down; they are
// flipped and shifted onto the baseline. The ascent is rescaled from
// p.UnitsPerEm to the 1000 unit grid so a custom metric keeps the same
// baseline. Glyphs are emitted in font order with their current name and
// code.
//
// A font with no glyphs, or no selected glyphs, yields a nil definition:
// there is nothing to export.
func Assemble(f *font.Font, p config.Params) (*encoder.Definition, error) {
	if f == nil || f.Len() == 0 {
		return nil, nil
	}
	p.SetDefaults()

	ascent := int(math.Round(float64(p.Ascent) * Em / float64(p.UnitsPerEm)))
	def := &encoder.Definition{
		Font: encoder.FontInfo{
			ID:        f.ID(),
			Fullname:  f.Fullname(),
			Copyright: p.Copyright,
			Ascent:    ascent,
			Descent:   ascent - Em,
		},
	}
	if p.Fullname != "" {
		def.Font.Fullname = p.Fullname
	}

	for _, g := range f.Glyphs() {
		if !g.Selected() {
			continue
		}
		path, err := svgpath.Parse(g.Outline())
		if err != nil {
			return nil, err
		}
		d := path.Scale(1, -1).Translate(0, float64(ascent)).Abs().Round(1).String()
		def.Glyphs = append(def.Glyphs, encoder.GlyphDef{
			Name:    g.Name(),
			Code:    g.Code(),
			Outline: d,
			Width:   g.Width(),
		})
	}

	if len(def.Glyphs) == 0 {
		return nil, nil
	}
	return def, nil
}
