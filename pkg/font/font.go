package font

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/fontsmith/pkg/codes"
	"github.com/matzehuels/fontsmith/pkg/errors"
)

// DefaultCustomID is the id of the custom font when none is configured.
const DefaultCustomID = "fontsmith"

// Font is a named, ordered set of glyphs sharing the design grid.
type Font struct {
	id       string
	fullname string
	custom   bool
	glyphs   []*Glyph
	glyphMap map[string]*Glyph
}

func newFont(id, fullname string, custom bool) *Font {
	return &Font{
		id:       id,
		fullname: fullname,
		custom:   custom,
		glyphMap: make(map[string]*Glyph),
	}
}

// ID returns the font id, also used as its display identity.
func (f *Font) ID() string { return f.id }

// Fullname returns the human readable font name.
func (f *Font) Fullname() string { return f.fullname }

// Custom reports whether this is the mutable custom font.
func (f *Font) Custom() bool { return f.custom }

// Len returns the number of glyphs in the font.
func (f *Font) Len() int { return len(f.glyphs) }

// Glyphs returns the glyphs in insertion order.
// The returned slice is a copy; the glyphs are shared.
func (f *Font) Glyphs() []*Glyph { return slices.Clone(f.glyphs) }

// Glyph looks up a glyph of this font by uid.
func (f *Font) Glyph(uid string) (*Glyph, bool) {
	g, ok := f.glyphMap[uid]
	return g, ok
}

// Collection owns all fonts of a build run, the ordered selection and the
// code allocation table.
//
// The zero value is not usable - use NewCollection.
type Collection struct {
	fonts    []*Font
	custom   *Font
	glyphMap map[string]*Glyph
	selected []*Glyph
	table    map[rune]*Glyph
}

// NewCollection creates a collection holding one empty custom font.
func NewCollection(customID, fullname string) *Collection {
	if customID == "" {
		customID = DefaultCustomID
	}
	custom := newFont(customID, fullname, true)
	return &Collection{
		fonts:    []*Font{custom},
		custom:   custom,
		glyphMap: make(map[string]*Glyph),
		table:    make(map[rune]*Glyph),
	}
}

// Custom returns the mutable custom font.
func (c *Collection) Custom() *Font { return c.custom }

// Fonts returns all fonts, custom font first.
func (c *Collection) Fonts() []*Font { return slices.Clone(c.fonts) }

// Font looks up a font by id.
func (c *Collection) Font(id string) (*Font, bool) {
	for _, f := range c.fonts {
		if f.id == id {
			return f, true
		}
	}
	return nil, false
}

// AddFont registers a read-only library font.
// Returns ErrCodeDuplicateFont if a font with the same id exists.
func (c *Collection) AddFont(id, fullname string) (*Font, error) {
	if err := errors.ValidateFontName(id); err != nil {
		return nil, err
	}
	if _, exists := c.Font(id); exists {
		return nil, errors.New(errors.ErrCodeDuplicateFont, "font %q already registered", id)
	}
	f := newFont(id, fullname, false)
	c.fonts = append(c.fonts, f)
	return f, nil
}

// Glyph looks up a glyph anywhere in the collection by uid.
func (c *Collection) Glyph(uid string) (*Glyph, bool) {
	g, ok := c.glyphMap[uid]
	return g, ok
}

// Len returns the number of glyphs across all fonts.
func (c *Collection) Len() int { return len(c.glyphMap) }

// Selected returns the selected glyphs in selection order.
func (c *Collection) Selected() []*Glyph { return slices.Clone(c.selected) }

// FindByHash returns the custom glyphs whose content hash equals hash,
// in font order.
func (c *Collection) FindByHash(hash string) []*Glyph {
	if hash == "" {
		return nil
	}
	var out []*Glyph
	for _, g := range c.custom.glyphs {
		if g.hash == hash {
			out = append(out, g)
		}
	}
	return out
}

// NextRef returns the reference code for the next created glyph: one past
// the highest reference code in the collection, or the start of the Private
// Use Area when no glyph exists yet.
func (c *Collection) NextRef() rune {
	var maxRef rune = -1
	for _, f := range c.fonts {
		for _, g := range f.glyphs {
			if g.ref > maxRef {
				maxRef = g.ref
			}
		}
	}
	if maxRef < 0 {
		return codes.PUAMin
	}
	return maxRef + 1
}

// AddGlyph creates a glyph in f from spec and returns it.
//
// When spec.UID is empty a random UUID is generated; the probability of two
// random v4 UUIDs colliding is negligible (122 random bits). A supplied uid
// that is already present returns ErrCodeDuplicateUID. The glyph starts
// unselected: callers decide whether to select it.
func (c *Collection) AddGlyph(f *Font, spec GlyphSpec) (*Glyph, error) {
	if f == nil {
		return nil, errors.New(errors.ErrCodeFontNotFound, "font is nil")
	}
	if spec.UID == "" {
		spec.UID = uuid.NewString()
	}
	if _, exists := c.glyphMap[spec.UID]; exists {
		return nil, errors.New(errors.ErrCodeDuplicateUID, "glyph uid %s already exists", spec.UID)
	}

	g := newGlyph(f, spec)
	f.glyphs = append(f.glyphs, g)
	f.glyphMap[g.uid] = g
	c.glyphMap[g.uid] = g
	return g, nil
}

// RemoveGlyph removes the glyph uid from f, deselecting it first.
// With an empty uid every glyph of f is removed. Only the custom font allows
// removal; other fonts return ErrCodeReadOnlyFont.
func (c *Collection) RemoveGlyph(f *Font, uid string) error {
	if f == nil || !f.custom {
		return errors.New(errors.ErrCodeReadOnlyFont, "glyphs can only be removed from the custom font")
	}

	if uid == "" {
		for _, g := range slices.Clone(f.glyphs) {
			c.remove(f, g)
		}
		return nil
	}

	g, ok := f.glyphMap[uid]
	if !ok {
		return errors.New(errors.ErrCodeGlyphNotFound, "no glyph %s in font %s", uid, f.id)
	}
	c.remove(f, g)
	return nil
}

func (c *Collection) remove(f *Font, g *Glyph) {
	if g.selected {
		// Deselection never allocates, so it cannot fail.
		_ = c.ToggleSelect(g, false)
	}
	delete(c.glyphMap, g.uid)
	delete(f.glyphMap, g.uid)
	if i := slices.Index(f.glyphs, g); i >= 0 {
		f.glyphs = slices.Delete(f.glyphs, i, i+1)
	}
}

// SetName renames g. Surrounding whitespace is trimmed; an empty name
// restores the original name.
func (c *Collection) SetName(g *Glyph, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		g.name = g.originalName
		return nil
	}
	if err := errors.ValidateGlyphName(name); err != nil {
		return err
	}
	g.name = name
	return nil
}

// ClearSelection deselects every selected glyph.
func (c *Collection) ClearSelection() {
	for _, g := range slices.Clone(c.selected) {
		_ = c.ToggleSelect(g, false)
	}
}

// Reset clears the selection and removes every custom glyph. It is used
// before replaying a persisted config.
func (c *Collection) Reset() {
	c.ClearSelection()
	_ = c.RemoveGlyph(c.custom, "")
}
