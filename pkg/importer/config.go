package importer

import (
	"github.com/matzehuels/fontsmith/pkg/config"
	"github.com/matzehuels/fontsmith/pkg/font"
)

// ReplayStats counts the outcome of replaying a config.
type ReplayStats struct {
	Created  int // custom glyphs recreated
	Restored int // library glyphs found and restored
	Missing  int // library descriptors whose glyph no longer exists
}

// ImportConfig parses a persisted config and replays it. A malformed config
// returns ErrCodeInvalidConfig and leaves the collection untouched.
func (im *Importer) ImportConfig(data []byte) (*config.Config, ReplayStats, error) {
	cfg, err := config.Parse(data)
	if err != nil {
		return nil, ReplayStats{}, err
	}
	stats, err := im.ApplyConfig(cfg)
	return cfg, stats, err
}

// ApplyConfig resets the collection and replays cfg.
//
// Selection is cleared and every custom glyph removed before any descriptor
// is processed. Descriptors are then replayed in order, so the selection
// order of the config is restored:
//
//   - a custom descriptor recreates its glyph from the stored outline
//   - a library descriptor restores name and code overrides on the glyph
//     with the same uid; a missing glyph is skipped
//
// Replayed glyphs are marked as imported and so claim their stored code on
// selection instead of being moved into the Private Use Area. A code of 0 or
// an empty name falls back to the glyph's baseline.
func (im *Importer) ApplyConfig(cfg *config.Config) (ReplayStats, error) {
	var stats ReplayStats
	c := im.coll
	c.Reset()

	for _, d := range cfg.Glyphs {
		if im.isCustom(d) {
			g, err := c.AddGlyph(c.Custom(), font.GlyphSpec{
				UID:         d.UID,
				Name:        d.Name,
				Code:        d.Code,
				Ref:         c.NextRef(),
				ContentHash: d.ContentHash,
				Outline:     d.Outline,
				Width:       d.Width,
			})
			if err != nil {
				im.logger.Warn("skipping config glyph", "uid", d.UID, "err", err)
				continue
			}
			g.MarkImported()
			stats.Created++
			if d.IsSelected() {
				if err := c.ToggleSelect(g, true); err != nil {
					return stats, err
				}
			}
			continue
		}

		g, ok := c.Glyph(d.UID)
		if !ok {
			im.logger.Debug("config glyph not found", "uid", d.UID, "font", d.OwnerFontID)
			stats.Missing++
			continue
		}

		code := d.Code
		if code == 0 {
			code = g.OriginalCode()
		}
		// Unselected, so this only stores the value.
		_ = c.SetCode(g, code)
		if err := c.SetName(g, d.Name); err != nil {
			im.logger.Warn("ignoring invalid glyph name", "uid", d.UID, "name", d.Name, "err", err)
		}
		g.MarkImported()
		stats.Restored++

		if d.IsSelected() {
			if err := c.ToggleSelect(g, true); err != nil {
				return stats, err
			}
		}
	}
	return stats, nil
}

// isCustom reports whether d describes a custom glyph: it names the custom
// font, or names no known font but carries an outline (configs written under
// another custom font id).
func (im *Importer) isCustom(d config.Descriptor) bool {
	if d.OwnerFontID == im.coll.Custom().ID() {
		return true
	}
	if _, known := im.coll.Font(d.OwnerFontID); known {
		return false
	}
	return d.Outline != ""
}
