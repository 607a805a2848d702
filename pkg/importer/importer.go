// Package importer turns source files and persisted configs into collection
// mutations.
//
// Importing is split in two steps. Preparing a source (reading, fingerprinting,
// parsing and normalizing it) is pure and may run concurrently; results are
// cached by fingerprint. Applying a prepared source mutates the collection and
// must run on a single goroutine. [Importer.ImportDir] runs the first step on
// a worker pool and the second on one collector.
//
// Every source is deduplicated by content fingerprint: re-importing identical
// bytes re-selects the glyphs created the first time.
package importer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fontsmith/pkg/cache"
	"github.com/matzehuels/fontsmith/pkg/errors"
	"github.com/matzehuels/fontsmith/pkg/font"
	"github.com/matzehuels/fontsmith/pkg/observability"
)

// DefaultWorkers is the worker pool size of ImportDir.
const DefaultWorkers = 8

// Options configures an Importer. Zero values select defaults.
type Options struct {
	Logger  *log.Logger
	Cache   cache.Cache
	Keyer   cache.Keyer
	Workers int
	// TTL is how long parsed sources stay cached, cache.TTLSource if zero.
	TTL time.Duration
}

// Importer applies sources to a collection.
type Importer struct {
	coll    *font.Collection
	logger  *log.Logger
	cache   cache.Cache
	keyer   cache.Keyer
	workers int
	ttl     time.Duration

	// libraryFiles holds the absolute paths loaded as library fonts; they
	// are not imported again as sources.
	libraryFiles map[string]bool
}

// New returns an importer mutating c.
func New(c *font.Collection, opts Options) *Importer {
	im := &Importer{
		coll:    c,
		logger:  opts.Logger,
		cache:   opts.Cache,
		keyer:   opts.Keyer,
		workers: opts.Workers,
		ttl:     opts.TTL,

		libraryFiles: make(map[string]bool),
	}
	if im.logger == nil {
		im.logger = log.New(os.Stderr)
	}
	if im.cache == nil {
		im.cache = cache.NewNullCache()
	}
	if im.keyer == nil {
		im.keyer = cache.NewDefaultKeyer()
	}
	if im.workers <= 0 {
		im.workers = DefaultWorkers
	}
	if im.ttl <= 0 {
		im.ttl = cache.TTLSource
	}
	return im
}

// Collection returns the collection being mutated.
func (im *Importer) Collection() *font.Collection { return im.coll }

// Result describes the effect of applying one source.
type Result struct {
	Created    int `json:"created"`
	Reselected int `json:"reselected"`
}

// Prepare fingerprints and parses a source file. The parsed form is read
// from and written to the cache. Prepare does not touch the collection and
// is safe for concurrent use.
func (im *Importer) Prepare(ctx context.Context, file string, data []byte) (*Source, error) {
	src := &Source{
		File:        file,
		Kind:        Detect(data),
		Fingerprint: cache.Hash(data),
	}
	key := im.keyer.SourceKey(src.Fingerprint, cache.SourceKeyOpts{Kind: string(src.Kind), Version: sourceVersion})
	hooks := observability.Cache()

	if raw, ok, err := im.cache.Get(ctx, key); err != nil {
		im.logger.Debug("cache read failed", "file", file, "err", err)
	} else if ok {
		var p Parsed
		if err := json.Unmarshal(raw, &p); err == nil {
			hooks.OnCacheHit(ctx, string(src.Kind))
			src.Parsed = p
			return src, nil
		}
	}
	hooks.OnCacheMiss(ctx, string(src.Kind))

	p, err := Parse(src.Kind, data)
	if err != nil {
		return nil, err
	}
	src.Parsed = *p

	if raw, err := json.Marshal(p); err == nil {
		if err := im.cache.Set(ctx, key, raw, im.ttl); err != nil {
			im.logger.Debug("cache write failed", "file", file, "err", err)
		} else {
			hooks.OnCacheSet(ctx, string(src.Kind), len(raw))
		}
	}
	return src, nil
}

// Apply adds a prepared source to the custom font and selects its glyphs.
//
// When custom glyphs with the same fingerprint already exist they are
// re-selected instead and nothing is created. Image glyphs take their name
// from the source file. Font glyphs are marked as imported so they keep
// their declared code points.
func (im *Importer) Apply(src *Source) (Result, error) {
	var res Result

	if existing := im.coll.FindByHash(src.Fingerprint); len(existing) > 0 {
		for _, g := range existing {
			if g.Selected() {
				continue
			}
			if err := im.coll.ToggleSelect(g, true); err != nil {
				return res, err
			}
			res.Reselected++
		}
		im.logger.Debug("source already imported", "file", src.File, "glyphs", len(existing))
		return res, nil
	}

	if len(src.Ignored) > 0 {
		im.logger.Info("skipped unsupported svg content", "file", filepath.Base(src.File), "ignored", src.Ignored)
	}

	for _, sg := range src.Glyphs {
		ref := im.coll.NextRef()
		spec := font.GlyphSpec{
			Name:        sg.Name,
			Code:        sg.Code,
			Ref:         ref,
			ContentHash: src.Fingerprint,
			Outline:     sg.Outline,
			Width:       sg.Width,
		}
		if src.Kind == KindImage {
			spec.Name = GlyphName(src.File)
			spec.Code = ref
		}

		g, err := im.coll.AddGlyph(im.coll.Custom(), spec)
		if err != nil {
			return res, err
		}
		if src.Kind == KindFont {
			g.MarkImported()
		}
		if err := im.coll.ToggleSelect(g, true); err != nil {
			return res, err
		}
		res.Created++
	}
	return res, nil
}

// Import prepares and applies one source.
func (im *Importer) Import(ctx context.Context, file string, data []byte) (Result, error) {
	src, err := im.Prepare(ctx, file, data)
	if err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeInvalidSource, err, "%s", filepath.Base(file))
	}
	return im.Apply(src)
}

// ImportImage imports a single SVG image.
func (im *Importer) ImportImage(ctx context.Context, file string, data []byte) (Result, error) {
	if Detect(data) != KindImage {
		return Result{}, errors.New(errors.ErrCodeInvalidSource, "%s is an SVG font, not an image", filepath.Base(file))
	}
	return im.Import(ctx, file, data)
}

// ImportFont imports every renderable glyph of an SVG font.
func (im *Importer) ImportFont(ctx context.Context, file string, data []byte) (Result, error) {
	if Detect(data) != KindFont {
		return Result{}, errors.New(errors.ErrCodeInvalidSource, "%s is not an SVG font", filepath.Base(file))
	}
	return im.Import(ctx, file, data)
}

// ImportFile reads and imports the source at path.
func (im *Importer) ImportFile(ctx context.Context, path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeInvalidSource, err, "read %s", path)
	}
	return im.Import(ctx, path, data)
}
