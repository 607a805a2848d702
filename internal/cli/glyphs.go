package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fontsmith/pkg/codes"
	"github.com/matzehuels/fontsmith/pkg/errors"
	"github.com/matzehuels/fontsmith/pkg/font"
)

// glyphsCommand groups the curation subcommands. Each one opens the source
// directory the way build does, applies its edit and saves the config.
func (c *CLI) glyphsCommand() *cobra.Command {
	var fontID string

	cmd := &cobra.Command{
		Use:     "glyphs",
		Aliases: []string{"glyph"},
		Short:   "List and curate glyphs",
		Long: `Glyphs are addressed by uid, by a uid prefix as shown by "glyphs list", or
by name. Use --font to disambiguate names shared between fonts.`,
	}
	cmd.PersistentFlags().StringVar(&fontID, "font", "", "restrict glyph lookup to one font")

	cmd.AddCommand(c.glyphsListCommand(&fontID))
	cmd.AddCommand(c.glyphsSelectCommand(&fontID, true))
	cmd.AddCommand(c.glyphsSelectCommand(&fontID, false))
	cmd.AddCommand(c.glyphsRenameCommand(&fontID))
	cmd.AddCommand(c.glyphsCodeCommand(&fontID))
	cmd.AddCommand(c.glyphsRemoveCommand(&fontID))
	return cmd
}

func (c *CLI) glyphsListCommand(fontID *string) *cobra.Command {
	var selected bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the glyphs of every font",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openProject(cmd.Context(), openOptions{})
			if err != nil {
				return err
			}
			defer p.Close()

			coll := p.ws.Collection
			var glyphs []*font.Glyph
			switch {
			case selected:
				glyphs = coll.Selected()
			case *fontID != "":
				f, ok := coll.Font(*fontID)
				if !ok {
					return errors.New(errors.ErrCodeFontNotFound, "no font %q", *fontID)
				}
				glyphs = f.Glyphs()
			default:
				for _, f := range coll.Fonts() {
					glyphs = append(glyphs, f.Glyphs()...)
				}
			}
			if selected && *fontID != "" {
				glyphs = inFont(glyphs, *fontID)
			}

			if len(glyphs) == 0 {
				printInfo("No glyphs")
				return nil
			}
			fmt.Println(glyphTable(glyphs))
			printStats(coll.Len(), len(coll.Selected()), len(coll.Fonts()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&selected, "selected", false, "list the selection in selection order")
	return cmd
}

func (c *CLI) glyphsSelectCommand(fontID *string, selected bool) *cobra.Command {
	use, short, verb := "select", "Add glyphs to the selection", "Selected"
	if !selected {
		use, short, verb = "deselect", "Remove glyphs from the selection", "Deselected"
	}
	return &cobra.Command{
		Use:   use + " <glyph>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.editGlyphs(cmd.Context(), *fontID, args, func(coll *font.Collection, g *font.Glyph) error {
				if err := coll.ToggleSelect(g, selected); err != nil {
					return err
				}
				printSuccess("%s %s %s", verb, g.Name(), StyleDim.Render(formatCode(g.Code())))
				return nil
			})
		},
	}
}

func (c *CLI) glyphsRenameCommand(fontID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <glyph> <name>",
		Short: "Rename a glyph; an empty name restores the original",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.editGlyphs(cmd.Context(), *fontID, args[:1], func(coll *font.Collection, g *font.Glyph) error {
				old := g.Name()
				if err := coll.SetName(g, args[1]); err != nil {
					return err
				}
				printSuccess("Renamed %s to %s", old, g.Name())
				return nil
			})
		},
	}
}

func (c *CLI) glyphsCodeCommand(fontID *string) *cobra.Command {
	var (
		auto   bool
		policy string
	)

	cmd := &cobra.Command{
		Use:   "code <glyph> [code]",
		Short: "Set a glyph's code point, or reallocate it with --auto",
		Long: `Code accepts U+E801, 0xE801 or plain hex. Assigning a code held by another
selected glyph swaps the two codes. With --auto the code is reallocated with
the encoding policy of fontsmith.toml, or the one named by --policy.`,
		Example: `  fontsmith glyphs code star U+E801
  fontsmith glyphs code star --auto --policy unicode`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if auto == (len(args) == 2) {
				return errors.New(errors.ErrCodeInvalidInput, "give either a code or --auto")
			}
			var code rune
			if !auto {
				var err error
				if code, err = parseCode(args[1]); err != nil {
					return err
				}
			}

			p, err := c.openProject(cmd.Context(), openOptions{})
			if err != nil {
				return err
			}
			defer p.Close()

			pol := p.ws.Settings.Policy()
			if policy != "" {
				if pol, err = codes.ParsePolicy(policy); err != nil {
					return err
				}
			}
			return p.edit(cmd.Context(), *fontID, args[:1], func(coll *font.Collection, g *font.Glyph) error {
				before := g.Code()
				if auto {
					err = coll.Allocate(g, pol)
				} else {
					err = coll.SetCode(g, code)
				}
				if err != nil {
					return err
				}
				printSuccess("%s %s %s %s", g.Name(), formatCode(before), iconArrow, formatCode(g.Code()))
				if !auto && g.Code() != code {
					printWarning("%s is not usable, kept %s", formatCode(code), formatCode(g.Code()))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&auto, "auto", false, "reallocate the code automatically")
	cmd.Flags().StringVar(&policy, "policy", "", "allocation policy for --auto (pua, unicode)")
	return cmd
}

func (c *CLI) glyphsRemoveCommand(fontID *string) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <glyph>...",
		Aliases: []string{"rm"},
		Short:   "Remove custom glyphs",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.editGlyphs(cmd.Context(), *fontID, args, func(coll *font.Collection, g *font.Glyph) error {
				if err := coll.RemoveGlyph(g.Font(), g.UID()); err != nil {
					return err
				}
				printSuccess("Removed %s", g.Name())
				return nil
			})
		},
	}
}

// editGlyphs opens the project, applies fn to every referenced glyph and
// saves the config. Nothing is saved if any edit fails.
func (c *CLI) editGlyphs(ctx context.Context, fontID string, refs []string, fn func(*font.Collection, *font.Glyph) error) error {
	p, err := c.openProject(ctx, openOptions{})
	if err != nil {
		return err
	}
	defer p.Close()
	return p.edit(ctx, fontID, refs, fn)
}

func (p *project) edit(ctx context.Context, fontID string, refs []string, fn func(*font.Collection, *font.Glyph) error) error {
	coll := p.ws.Collection
	glyphs := make([]*font.Glyph, 0, len(refs))
	for _, ref := range refs {
		g, err := findGlyph(coll, fontID, ref)
		if err != nil {
			return err
		}
		glyphs = append(glyphs, g)
	}
	for _, g := range glyphs {
		if err := fn(coll, g); err != nil {
			return err
		}
	}

	prog := newProgress(loggerFromContext(ctx))
	if _, err := p.runner.Save(ctx, p.ws); err != nil {
		return err
	}
	prog.done("saved config")
	return nil
}

// findGlyph resolves ref as a uid, then a glyph name, then a uid prefix.
// Names and prefixes must be unique within the searched fonts.
func findGlyph(coll *font.Collection, fontID, ref string) (*font.Glyph, error) {
	var fonts []*font.Font
	if fontID != "" {
		f, ok := coll.Font(fontID)
		if !ok {
			return nil, errors.New(errors.ErrCodeFontNotFound, "no font %q", fontID)
		}
		fonts = []*font.Font{f}
	} else {
		fonts = coll.Fonts()
	}

	if g, ok := coll.Glyph(ref); ok && (fontID == "" || g.Font().ID() == fontID) {
		return g, nil
	}

	var byName, byPrefix []*font.Glyph
	for _, f := range fonts {
		for _, g := range f.Glyphs() {
			if g.Name() == ref {
				byName = append(byName, g)
			}
			if strings.HasPrefix(g.UID(), ref) {
				byPrefix = append(byPrefix, g)
			}
		}
	}
	for _, matches := range [][]*font.Glyph{byName, byPrefix} {
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			return nil, errors.New(errors.ErrCodeInvalidInput, "%q matches %d glyphs, use a uid or --font", ref, len(matches))
		}
	}
	return nil, errors.New(errors.ErrCodeGlyphNotFound, "no glyph %q", ref)
}

// parseCode parses U+XXXX, 0xXXXX or plain hex.
func parseCode(s string) (rune, error) {
	hex := strings.TrimSpace(s)
	for _, prefix := range []string{"U+", "u+", "0x", "0X"} {
		hex = strings.TrimPrefix(hex, prefix)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || n > 0x10FFFF {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid code point %q", s)
	}
	return rune(n), nil
}

func inFont(glyphs []*font.Glyph, fontID string) []*font.Glyph {
	out := glyphs[:0:0]
	for _, g := range glyphs {
		if g.Font().ID() == fontID {
			out = append(out, g)
		}
	}
	return out
}
