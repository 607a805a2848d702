package font

// GlyphSpec describes a glyph to be added with [Collection.AddGlyph].
type GlyphSpec struct {
	UID         string // Identity; a random UUID is generated when empty
	Name        string // Import-time name, becomes the original name
	Code        rune   // Requested code point, becomes the original code
	Ref         rune   // Internal reference code used for preview ordering
	ContentHash string // Fingerprint of the source bytes
	Outline     string // SVG path data in the 1000-unit design grid
	Width       int    // Advance width in the design grid
}

// Glyph is one icon: an outline in the design grid plus its identity, name and
// code point.
//
// The original name and code are fixed at creation and serve as the baseline
// the allocator compares against. The current name, code and selection state
// change only through the owning [Collection]; the accessors here are
// read-only.
type Glyph struct {
	uid          string
	originalName string
	originalCode rune
	name         string
	code         rune
	ref          rune
	hash         string
	outline      string
	width        int
	selected     bool
	justImported bool
	font         *Font
}

func newGlyph(f *Font, spec GlyphSpec) *Glyph {
	return &Glyph{
		uid:          spec.UID,
		originalName: spec.Name,
		originalCode: spec.Code,
		name:         spec.Name,
		code:         spec.Code,
		ref:          spec.Ref,
		hash:         spec.ContentHash,
		outline:      spec.Outline,
		width:        spec.Width,
		font:         f,
	}
}

// UID returns the glyph's collection-wide identity.
func (g *Glyph) UID() string { return g.uid }

// Name returns the current name.
func (g *Glyph) Name() string { return g.name }

// Code returns the current code point. For an unselected glyph the value is
// kept for display but is not reserved in the allocation table.
func (g *Glyph) Code() rune { return g.code }

// OriginalName returns the name the glyph was imported with.
func (g *Glyph) OriginalName() string { return g.originalName }

// OriginalCode returns the code the glyph was imported with.
func (g *Glyph) OriginalCode() rune { return g.originalCode }

// Ref returns the internal reference code.
func (g *Glyph) Ref() rune { return g.ref }

// ContentHash returns the fingerprint of the glyph's source.
func (g *Glyph) ContentHash() string { return g.hash }

// Outline returns the SVG path data in the design grid.
func (g *Glyph) Outline() string { return g.outline }

// Width returns the advance width in the design grid.
func (g *Glyph) Width() int { return g.width }

// Selected reports whether the glyph is part of the exported selection.
func (g *Glyph) Selected() bool { return g.selected }

// JustImported reports whether the next selection event will claim the
// glyph's present code instead of running the selection transition.
func (g *Glyph) JustImported() bool { return g.justImported }

// MarkImported flags the glyph as just imported. The flag is consumed by the
// next selection of the glyph.
func (g *Glyph) MarkImported() { g.justImported = true }

// Font returns the owning font.
func (g *Glyph) Font() *Font { return g.font }

// Custom reports whether the glyph belongs to the mutable custom font.
func (g *Glyph) Custom() bool { return g.font != nil && g.font.custom }
