// Package font is the glyph registry of fontsmith.
//
// # Overview
//
// A [Collection] owns every [Font] of a build run and every [Glyph] in them.
// Exactly one font is the custom font: it is created with the collection,
// listed first, and is the only font glyphs can be removed from. All other
// fonts are read-only libraries whose glyphs can be selected, renamed and
// renumbered but never removed.
//
// # Selection and Code Allocation
//
// The collection keeps an ordered list of selected glyphs (selection recency,
// used as export order) and a code allocation table mapping each code point
// to the selected glyph holding it. Two invariants hold after every mutation:
//
//   - every selected glyph has a valid code point (see package codes)
//   - no two selected glyphs share a code point
//
// The mutation API is the only way to change glyph state:
//
//   - [Collection.ToggleSelect] selects or deselects and runs the allocator
//   - [Collection.SetCode] applies a user edit with swap-on-collision
//   - [Collection.SetName] renames
//   - [Collection.AddGlyph] and [Collection.RemoveGlyph] manage membership
//
// When a glyph is selected and its code still equals the code it was imported
// with, it is auto-assigned a Private Use Area code. When the code was changed
// earlier, the deliberate choice is kept unless it collides. A glyph flagged
// with [Glyph.MarkImported] skips that rule once and simply claims its present
// code, which is how reloaded configs keep their codes.
//
// # Concurrency
//
// A Collection is not safe for concurrent use. Callers that import in
// parallel must apply the resulting mutations one at a time.
package font
