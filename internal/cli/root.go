// Package cli implements the fontsmith command-line interface.
//
// This package provides commands for building icon fonts from a directory of
// SVG sources, curating the glyph selection from the terminal, a browser or
// a script, and managing the parsed-source cache. The CLI is built using
// cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - init: Write a default fontsmith.toml
//   - build: Import the sources, save config.json and export the fonts
//   - glyphs: List, select, rename, renumber and remove glyphs
//   - curate: Toggle the selection interactively
//   - serve: Expose the workspace over HTTP
//   - cache: Manage the parsed-source cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
//
// # Example
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/fontsmith/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Fontsmith builds icon fonts from SVG sources",
		Long:         `Fontsmith collects SVG icons and SVG fonts into one glyph collection, keeps every glyph's name and code stable across runs and exports the selected glyphs as fonts.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&c.dir, "dir", "C", ".", "source directory")

	root.AddCommand(c.initCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.glyphsCommand())
	root.AddCommand(c.curateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
