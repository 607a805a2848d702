// Package pipeline provides the build pipeline for fontsmith.
//
// This package implements the complete load → curate → export sequence used
// by the CLI and the curation server. By centralizing it, every entry point
// sees the same collection for the same source directory.
//
// # Stages
//
//  1. Open: create the collection, load library fonts, replay the stored
//     curation config, then import every SVG source of the directory
//  2. Save: serialize the collection back into the config store
//  3. Export: assemble each font and run the configured encoders
//
// Each stage can be run on its own or as part of [Runner.Execute].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Dir: "./icons"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, a := range result.Artifacts {
//	    fmt.Println(a.Path)
//	}
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fontsmith/pkg/config"
	"github.com/matzehuels/fontsmith/pkg/encoder"
	"github.com/matzehuels/fontsmith/pkg/errors"
	"github.com/matzehuels/fontsmith/pkg/font"
	"github.com/matzehuels/fontsmith/pkg/importer"
	"github.com/matzehuels/fontsmith/pkg/settings"
	"github.com/matzehuels/fontsmith/pkg/store"
)

// Options configures one pipeline run.
type Options struct {
	// Dir is the source directory.
	Dir string

	// Settings overrides fontsmith.toml. Nil loads it from Dir.
	Settings *settings.Settings

	// Store overrides where the curation config lives. Nil keeps it in
	// Dir/config.json.
	Store store.Store

	// Formats and Output override the [build] section when set.
	Formats []string
	Output  string

	// SkipSources loads the library fonts and the config only.
	SkipSources bool
	// NoSave skips writing the config back.
	NoSave bool
	// DryRun assembles and encodes without writing output files.
	DryRun bool

	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Dir == "" {
		return errors.New(errors.ErrCodeInvalidInput, "source directory is required")
	}
	if err := errors.ValidatePath(o.Dir); err != nil {
		return err
	}
	if o.Settings == nil {
		s, err := settings.Load(o.Dir)
		if err != nil {
			return err
		}
		o.Settings = s
	}
	if len(o.Formats) > 0 {
		o.Settings.Build.Formats = o.Formats
	}
	if o.Output != "" {
		o.Settings.Build.Output = o.Output
	}
	if err := o.Settings.Validate(); err != nil {
		return err
	}
	if o.Store == nil {
		o.Store = store.NewFileStore(o.Dir)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Params returns the font parameters of the run.
func (o *Options) Params() config.Params {
	return o.Settings.Params()
}

// ValidateFormats checks that every format has a registered encoder.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !encoder.ValidFormat(f) {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %v)", f, encoder.Formats())
		}
	}
	return nil
}

// Workspace is an opened source directory: its collection and the
// collaborators that fill and persist it.
type Workspace struct {
	Dir        string
	Settings   *settings.Settings
	Collection *font.Collection
	Importer   *importer.Importer
	Store      store.Store

	Libraries []*font.Font
	Replay    importer.ReplayStats
	Import    importer.BatchStats
}

// Params returns the font parameters of the workspace.
func (w *Workspace) Params() config.Params {
	return w.Settings.Params()
}

// Artifact is one written (or, for dry runs, encoded) output file.
type Artifact struct {
	Font   string
	Format string
	Path   string
	Glyphs int
	Size   int
}

// Failure records a font whose export was aborted.
type Failure struct {
	Font string
	Err  error
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Workspace *Workspace
	Config    *config.Config
	Artifacts []Artifact
	Failures  []Failure
	Stats     Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Glyphs     int
	Selected   int
	OpenTime   time.Duration
	ExportTime time.Duration
}

// Err summarizes the export failures of the run, nil when every font was
// exported.
func (r *Result) Err() error {
	switch len(r.Failures) {
	case 0:
		return nil
	case 1:
		return r.Failures[0].Err
	}
	return errors.New(errors.ErrCodeEncodeFailed, "%d fonts failed to export: %s", len(r.Failures), failedFonts(r.Failures))
}

func failedFonts(fs []Failure) string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Font
	}
	return strings.Join(names, ", ")
}
