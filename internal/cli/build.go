package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/fontsmith/pkg/pipeline"
)

type buildOpts struct {
	formats string
	output  string
	dryRun  bool
	noCache bool
	noSave  bool
}

func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Import the sources, save config.json and export the fonts",
		Long: `Build imports every SVG icon and SVG font in the source directory, restores
names, codes and the selection from config.json, writes the config back and
exports one file per font and format into the output directory.

Fonts that fail to export are reported and skipped; the command then exits
with an error after writing the others.`,
		Example: `  fontsmith build
  fontsmith build -C icons --format svg,json --output public/fonts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats, comma-separated (svg, json)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default from fontsmith.toml)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "encode without writing output files")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the parsed-source cache")
	cmd.Flags().BoolVar(&opts.noSave, "no-save", false, "do not write the config back")
	return cmd
}

func (c *CLI) runBuild(cmd *cobra.Command, opts buildOpts) error {
	ctx := cmd.Context()
	formats := parseFormats(opts.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}

	s, err := c.loadSettings(openOptions{formats: formats, output: opts.output})
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, s, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	st, err := newStore(ctx, c.dir, s)
	if err != nil {
		return err
	}
	defer st.Close()

	var spinner *Spinner
	if !c.verbose {
		spinner = newSpinner(ctx, "Building fonts...")
		spinner.Start()
	}
	res, err := runner.Execute(ctx, pipeline.Options{
		Dir:      c.dir,
		Settings: s,
		Store:    st,
		NoSave:   opts.noSave,
		DryRun:   opts.dryRun,
		Logger:   c.Logger,
	})
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	printBuildResult(res, opts.dryRun)
	return res.Err()
}

func printBuildResult(res *pipeline.Result, dryRun bool) {
	switch {
	case len(res.Artifacts) == 0 && len(res.Failures) == 0:
		printWarning("No glyphs selected, nothing to export")
	case dryRun:
		printInfo("Dry run: %d files would be written", len(res.Artifacts))
	default:
		printSuccess("Built %d files", len(res.Artifacts))
	}
	for _, a := range res.Artifacts {
		printFile(a.Path, a.Size)
	}
	for _, f := range res.Failures {
		printError("%s: %v", f.Font, f.Err)
	}
	printStats(res.Stats.Glyphs, res.Stats.Selected, len(res.Workspace.Collection.Fonts()))
	if res.Config != nil {
		printDetail("Config: %d glyphs saved", len(res.Config.Glyphs))
	}
}
