package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/fontsmith/pkg/cache"
	"github.com/matzehuels/fontsmith/pkg/errors"
	"github.com/matzehuels/fontsmith/pkg/font"
	"github.com/matzehuels/fontsmith/pkg/svg"
)

// libraryNamespace scopes library glyph uids.
var libraryNamespace = uuid.MustParse("6f1b3f0e-4d2a-5c8e-9a41-2f7c1e0b8d55")

// LibraryUID returns the deterministic uid of a library glyph. The same
// font id, glyph name and code always give the same uid, so configs that
// reference library glyphs reload against a fresh collection.
func LibraryUID(fontID, name string, code rune) string {
	return uuid.NewSHA1(libraryNamespace, fmt.Appendf(nil, "%s/%s/%x", fontID, name, code)).String()
}

// LoadLibrary registers the SVG font in data as a read-only library font.
// The font id is taken from the font element, else from the file name.
// Library glyphs start unselected.
func (im *Importer) LoadLibrary(file string, data []byte) (*font.Font, error) {
	if Detect(data) != KindFont {
		return nil, errors.New(errors.ErrCodeInvalidSource, "library %s is not an SVG font", filepath.Base(file))
	}
	parsed, id, err := parseLibrary(file, data)
	if err != nil {
		return nil, err
	}

	f, err := im.coll.AddFont(id, id)
	if err != nil {
		return nil, err
	}
	hash := cache.Hash(data)
	for i, sg := range parsed.Glyphs {
		uid := LibraryUID(id, sg.Name, sg.Code)
		if _, taken := im.coll.Glyph(uid); taken {
			uid = LibraryUID(id, fmt.Sprintf("%s#%d", sg.Name, i), sg.Code)
		}
		if _, err := im.coll.AddGlyph(f, font.GlyphSpec{
			UID:         uid,
			Name:        sg.Name,
			Code:        sg.Code,
			Ref:         sg.Code,
			ContentHash: hash,
			Outline:     sg.Outline,
			Width:       sg.Width,
		}); err != nil {
			return nil, err
		}
	}
	im.logger.Debug("loaded library font", "font", id, "glyphs", f.Len())
	return f, nil
}

// LoadLibraryFile reads and registers a library font from path.
func (im *Importer) LoadLibraryFile(path string) (*font.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "read library %s", path)
	}
	f, err := im.LoadLibrary(path, data)
	if err != nil {
		return nil, err
	}
	if abs, err := filepath.Abs(path); err == nil {
		im.libraryFiles[abs] = true
	}
	return f, nil
}

func parseLibrary(file string, data []byte) (*Parsed, string, error) {
	f, err := svg.ParseFont(data)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidSource, err, "parse library %s", filepath.Base(file))
	}
	parsed, err := normalizeFont(f)
	if err != nil {
		return nil, "", err
	}

	id := strings.TrimPrefix(f.ID, "_")
	if id == "" {
		id = GlyphName(file)
	}
	if err := errors.ValidateFontName(id); err != nil {
		return nil, "", err
	}
	return parsed, id, nil
}
