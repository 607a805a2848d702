package assemble

import (
	"testing"

	"github.com/matzehuels/fontsmith/pkg/config"
	"github.com/matzehuels/fontsmith/pkg/errors"
	"github.com/matzehuels/fontsmith/pkg/font"
)

func TestAssembleEmpty(t *testing.T) {
	c := font.NewCollection("icons", "")
	def, err := Assemble(c.Custom(), config.Params{})
	if err != nil || def != nil {
		t.Errorf("Assemble(empty) = %v, %v; want nil, nil", def, err)
	}

	// Glyphs present but none selected.
	if _, err := c.AddGlyph(c.Custom(), font.GlyphSpec{Outline: "M0 0Z", Code: 0xE800}); err != nil {
		t.Fatal(err)
	}
	def, err = Assemble(c.Custom(), config.Params{})
	if err != nil || def != nil {
		t.Errorf("Assemble(unselected) = %v, %v; want nil, nil", def, err)
	}

	if def, _ := Assemble(nil, config.Params{}); def != nil {
		t.Error("Assemble(nil) should be nil")
	}
}

func TestAssemble(t *testing.T) {
	c := font.NewCollection("icons", "Icons")
	a, _ := c.AddGlyph(c.Custom(), font.GlyphSpec{Name: "a", Code: 0xE800, Outline: "M0 0L100 100Z", Width: 500})
	b, _ := c.AddGlyph(c.Custom(), font.GlyphSpec{Name: "b", Code: 0xE801, Outline: "M0 0h10", Width: 1000})
	_, _ = c.AddGlyph(c.Custom(), font.GlyphSpec{Name: "c", Code: 0xE800, Outline: "M5 5Z", Width: 10})

	// Select b first: output still follows font order.
	for _, g := range []*font.Glyph{b, a} {
		if err := c.ToggleSelect(g, true); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.SetName(a, "alpha"); err != nil {
		t.Fatal(err)
	}

	def, err := Assemble(c.Custom(), config.Params{UnitsPerEm: 1000, Ascent: 850, Copyright: "me"})
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if def.Font.ID != "icons" || def.Font.Fullname != "Icons" || def.Font.Copyright != "me" {
		t.Errorf("font info = %+v", def.Font)
	}
	if def.Font.Ascent != 850 || def.Font.Descent != -150 {
		t.Errorf("metrics = %d/%d, want 850/-150", def.Font.Ascent, def.Font.Descent)
	}
	if len(def.Glyphs) != 2 {
		t.Fatalf("glyphs = %d, want 2 (unselected excluded)", len(def.Glyphs))
	}

	ga := def.Glyphs[0]
	if ga.Name != "alpha" || ga.Code != a.Code() || ga.Width != 500 {
		t.Errorf("glyph a = %+v", ga)
	}
	if ga.Outline != "M0 850L100 750Z" {
		t.Errorf("outline = %q, want flipped onto baseline", ga.Outline)
	}
	if def.Glyphs[1].Outline != "M0 850H10" {
		t.Errorf("relative outline = %q", def.Glyphs[1].Outline)
	}
}

func TestAssembleRescalesAscent(t *testing.T) {
	c := font.NewCollection("icons", "")
	g, _ := c.AddGlyph(c.Custom(), font.GlyphSpec{Code: 0xE800, Outline: "M0 0Z", Width: 1000})
	_ = c.ToggleSelect(g, true)

	def, err := Assemble(c.Custom(), config.Params{UnitsPerEm: 2048, Ascent: 1638})
	if err != nil {
		t.Fatal(err)
	}
	// 1638 * 1000 / 2048 = 799.8
	if def.Font.Ascent != 800 || def.Font.Descent != -200 {
		t.Errorf("metrics = %d/%d, want 800/-200", def.Font.Ascent, def.Font.Descent)
	}
	if def.Font.UnitsPerEm() != 1000 {
		t.Errorf("UnitsPerEm() = %d", def.Font.UnitsPerEm())
	}
}

func TestAssembleBadOutline(t *testing.T) {
	c := font.NewCollection("icons", "")
	g, _ := c.AddGlyph(c.Custom(), font.GlyphSpec{Code: 0xE800, Outline: "X1 2", Width: 1000})
	_ = c.ToggleSelect(g, true)
	if _, err := Assemble(c.Custom(), config.Params{}); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Assemble error = %v, want %s", err, errors.ErrCodeInvalidPath)
	}
}
