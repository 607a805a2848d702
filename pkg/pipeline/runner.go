package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fontsmith/pkg/assemble"
	"github.com/matzehuels/fontsmith/pkg/cache"
	"github.com/matzehuels/fontsmith/pkg/config"
	"github.com/matzehuels/fontsmith/pkg/encoder"
	"github.com/matzehuels/fontsmith/pkg/errors"
	"github.com/matzehuels/fontsmith/pkg/font"
	"github.com/matzehuels/fontsmith/pkg/importer"
	"github.com/matzehuels/fontsmith/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it does not
// store pipeline results. Every Open creates a fresh collection, so multiple
// goroutines can use the same Runner on different directories.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute opens the source directory, writes the curation config back and
// exports every font with selected glyphs.
//
// Export failures do not fail the run: they are logged, the affected font
// is skipped and the failure is recorded in the result (see [Result.Err]).
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	openStart := time.Now()
	ws, err := r.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	result := &Result{Workspace: ws}
	result.Stats.OpenTime = time.Since(openStart)
	result.Stats.Glyphs = ws.Collection.Len()
	result.Stats.Selected = len(ws.Collection.Selected())

	r.Logger.Info("loaded glyphs",
		"glyphs", result.Stats.Glyphs,
		"selected", result.Stats.Selected,
		"duration", result.Stats.OpenTime)

	if !opts.NoSave {
		cfg, err := r.Save(ctx, ws)
		if err != nil {
			return nil, fmt.Errorf("save: %w", err)
		}
		result.Config = cfg
	}

	exportStart := time.Now()
	outDir := ws.Settings.OutputDir(ws.Dir)
	result.Artifacts, result.Failures = r.Export(ctx, ws.Collection, ws.Params(), ws.Settings.Build.Formats, outDir, opts.DryRun)
	result.Stats.ExportTime = time.Since(exportStart)

	r.Logger.Info("exported fonts",
		"files", len(result.Artifacts),
		"failed", len(result.Failures),
		"duration", result.Stats.ExportTime)

	return result, nil
}

// Open builds the collection of a source directory.
//
// Library fonts are loaded first so the config can restore overrides on
// their glyphs. The stored config is replayed next: a missing config is
// normal, a malformed one is logged and ignored. Finally every SVG source
// in the directory is imported; sources already known from the config are
// re-selected rather than duplicated.
func (r *Runner) Open(ctx context.Context, opts Options) (*Workspace, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	s := opts.Settings
	logger := r.Logger

	ttl, err := s.CacheTTL()
	if err != nil {
		return nil, err
	}
	coll := font.NewCollection(s.Font.Name, s.Font.Fullname)
	im := importer.New(coll, importer.Options{
		Logger:  logger,
		Cache:   r.Cache,
		Keyer:   r.Keyer,
		Workers: s.Build.Workers,
		TTL:     ttl,
	})
	ws := &Workspace{
		Dir:        opts.Dir,
		Settings:   s,
		Collection: coll,
		Importer:   im,
		Store:      opts.Store,
	}

	for _, path := range s.LibraryPaths(opts.Dir) {
		f, err := im.LoadLibraryFile(path)
		if err != nil {
			return nil, fmt.Errorf("load library %s: %w", path, err)
		}
		ws.Libraries = append(ws.Libraries, f)
	}

	if err := r.replay(ctx, ws); err != nil {
		return nil, err
	}

	if !opts.SkipSources {
		stats, err := im.ImportDir(ctx, opts.Dir)
		ws.Import = stats
		if err != nil {
			return nil, fmt.Errorf("import sources: %w", err)
		}
		logger.Info("imported sources",
			"files", stats.Files,
			"created", stats.Created,
			"reselected", stats.Reselected,
			"skipped", stats.Skipped,
			"duration", stats.Duration)
	}
	return ws, nil
}

func (r *Runner) replay(ctx context.Context, ws *Workspace) error {
	cfg, err := ws.Store.Load(ctx, ws.Settings.Font.Name)
	switch {
	case errors.Is(err, errors.ErrCodeNotFound):
		r.Logger.Debug("no stored config", "font", ws.Settings.Font.Name)
		return nil
	case errors.Is(err, errors.ErrCodeInvalidConfig):
		r.Logger.Warn("ignoring malformed config", "err", err)
		return nil
	case err != nil:
		return fmt.Errorf("load config: %w", err)
	}

	stats, err := ws.Importer.ApplyConfig(cfg)
	ws.Replay = stats
	if err != nil {
		return fmt.Errorf("replay config: %w", err)
	}
	r.Logger.Debug("replayed config",
		"created", stats.Created,
		"restored", stats.Restored,
		"missing", stats.Missing)
	return nil
}

// Save serializes the workspace collection into its store.
func (r *Runner) Save(ctx context.Context, ws *Workspace) (*config.Config, error) {
	cfg := config.Serialize(ws.Collection, ws.Params())
	if err := ws.Store.Save(ctx, ws.Settings.Font.Name, cfg); err != nil {
		return nil, err
	}
	r.Logger.Debug("saved config", "glyphs", len(cfg.Glyphs))
	return cfg, nil
}

// Export assembles every font of c and writes one file per format into
// outDir, named after the font id. Fonts without selected glyphs produce no
// output. A font whose assembly or encoding fails is skipped entirely and
// reported as a Failure; the other fonts are still exported.
func (r *Runner) Export(ctx context.Context, c *font.Collection, p config.Params, formats []string, outDir string, dryRun bool) ([]Artifact, []Failure) {
	var (
		artifacts []Artifact
		failures  []Failure
	)
	for _, f := range c.Fonts() {
		fp := p
		if !f.Custom() {
			fp.Fullname = ""
		}
		out, err := r.ExportFont(ctx, f, fp, formats, outDir, dryRun)
		if err != nil {
			r.Logger.Error("export failed", "font", f.ID(), "err", err)
			failures = append(failures, Failure{Font: f.ID(), Err: err})
			continue
		}
		artifacts = append(artifacts, out...)
	}
	return artifacts, failures
}

// ExportFont exports a single font. Every format is encoded before any file
// is written, so a failing encoder leaves no partial output.
func (r *Runner) ExportFont(ctx context.Context, f *font.Font, p config.Params, formats []string, outDir string, dryRun bool) (artifacts []Artifact, err error) {
	def, err := assemble.Assemble(f, p)
	if err != nil {
		return nil, err
	}
	if def == nil {
		r.Logger.Debug("nothing to export", "font", f.ID())
		return nil, nil
	}

	start := time.Now()
	hooks := observability.Build()
	hooks.OnExportStart(ctx, f.ID(), formats)
	defer func() {
		hooks.OnExportComplete(ctx, f.ID(), formats, len(def.Glyphs), time.Since(start), err)
	}()

	encoded, err := Render(def, formats)
	if err != nil {
		return nil, err
	}

	if !dryRun {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeEncodeFailed, err, "create %s", outDir)
		}
	}
	for _, format := range formats {
		data := encoded[format]
		path := filepath.Join(outDir, f.ID()+"."+format)
		if !dryRun {
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return artifacts, errors.Wrap(errors.ErrCodeEncodeFailed, err, "write %s", path)
			}
		}
		artifacts = append(artifacts, Artifact{
			Font:   f.ID(),
			Format: format,
			Path:   path,
			Glyphs: len(def.Glyphs),
			Size:   len(data),
		})
	}
	return artifacts, nil
}

// Render encodes def in every format.
func Render(def *encoder.Definition, formats []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(formats))
	for _, format := range formats {
		enc, err := encoder.Get(format)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := enc.Encode(&buf, def); err != nil {
			return nil, errors.Wrap(errors.ErrCodeEncodeFailed, err, "encode %s as %s", def.Font.ID, format)
		}
		out[format] = buf.Bytes()
	}
	return out, nil
}
