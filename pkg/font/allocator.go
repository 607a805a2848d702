package font

import (
	"slices"

	"github.com/matzehuels/fontsmith/pkg/codes"
	"github.com/matzehuels/fontsmith/pkg/errors"
)

// Holder returns the selected glyph that currently holds code.
func (c *Collection) Holder(code rune) (*Glyph, bool) {
	g, ok := c.table[code]
	if !ok || !g.selected {
		return nil, false
	}
	return g, true
}

// free reports whether code is unassigned or assigned to an unselected glyph.
func (c *Collection) free(code rune) bool {
	g, ok := c.table[code]
	return !ok || !g.selected
}

// release drops g's table entry if the entry still points at g.
func (c *Collection) release(g *Glyph) {
	if c.table[g.code] == g {
		delete(c.table, g.code)
	}
}

// allocate moves g to the code chosen by policy p and records it.
func (c *Collection) allocate(g *Glyph, p codes.Policy) error {
	c.release(g)
	code, err := codes.Resolve(p, g.code, c.free)
	if err != nil {
		return err
	}
	g.code = code
	c.table[code] = g
	return nil
}

// Allocate re-runs code allocation for a selected glyph under policy p.
// Allocating an untouched glyph twice with the same policy yields the same
// code. Unselected glyphs hold no code, so the call is a no-op for them.
func (c *Collection) Allocate(g *Glyph, p codes.Policy) error {
	if !g.selected {
		return nil
	}
	return c.allocate(g, p)
}

// ToggleSelect selects or deselects g.
//
// In order, it sets the flag, updates the ordered selection list and runs the
// allocator transition:
//
//   - on selection of a glyph flagged as just imported, the flag is consumed
//     and the glyph claims its present code (remapped only on collision)
//   - on selection of a glyph whose code equals its original code, a Private
//     Use Area code is assigned
//   - on selection of a glyph whose code was changed earlier, that code is
//     kept unless it collides
//   - on deselection, the table entry is released; the code is kept for display
//
// Selecting a selected glyph or deselecting an unselected one is a no-op.
// If the Private Use Area is exhausted the selection is rolled back and
// ErrCodeCodesExhausted is returned.
func (c *Collection) ToggleSelect(g *Glyph, selected bool) error {
	if g == nil {
		return errors.New(errors.ErrCodeGlyphNotFound, "glyph is nil")
	}
	if g.selected == selected {
		return nil
	}

	g.selected = selected
	if !selected {
		if i := slices.Index(c.selected, g); i >= 0 {
			c.selected = slices.Delete(c.selected, i, i+1)
		}
		c.release(g)
		return nil
	}

	c.selected = append(c.selected, g)

	policy := codes.PUA
	switch {
	case g.justImported:
		g.justImported = false
		policy = codes.Unicode
	case g.code != g.originalCode:
		policy = codes.Unicode
	}

	if err := c.allocate(g, policy); err != nil {
		g.selected = false
		c.selected = c.selected[:len(c.selected)-1]
		return err
	}
	return nil
}

// SetCode applies a user edit of g's code.
//
// For an unselected glyph the value is stored as is. For a selected glyph:
//
//   - if another selected glyph holds code, the two swap: the holder receives
//     g's previous code
//   - if code is invalid, g rolls back to its previous code when that was
//     valid, otherwise a fresh code is derived from its original code with
//     the unicode policy
//
// Invalid input is corrected rather than reported; only Private Use Area
// exhaustion during re-derivation returns an error.
func (c *Collection) SetCode(g *Glyph, code rune) error {
	prev := g.code
	if code == prev {
		return nil
	}

	// Release before the new code is computed.
	c.release(g)
	g.code = code

	if !g.selected {
		return nil
	}

	if !codes.Valid(code) {
		if codes.Valid(prev) {
			g.code = prev
			c.table[prev] = g
			return nil
		}
		g.code = g.originalCode
		return c.allocate(g, codes.Unicode)
	}

	if holder, ok := c.Holder(code); ok && holder != g {
		holder.code = prev
		c.table[prev] = holder
	}
	c.table[code] = g
	return nil
}
