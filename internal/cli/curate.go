package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fontsmith/pkg/errors"
	"github.com/matzehuels/fontsmith/pkg/font"
)

var (
	listCursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listSelectedStyle = lipgloss.NewStyle().Foreground(colorGreen)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// CurateModel - interactive selection
// =============================================================================

// CurateModel is the bubbletea model of the curate command. It toggles the
// selection of glyphs in place; the caller saves the collection when Save is
// set after the program exits.
type CurateModel struct {
	Coll   *font.Collection
	Glyphs []*font.Glyph
	Cursor int
	Height int
	Offset int

	// Save reports whether the user asked to write the config.
	Save bool
	// Changed counts toggles.
	Changed int

	err error
}

// NewCurateModel lists every glyph of coll, fonts in collection order.
func NewCurateModel(coll *font.Collection) CurateModel {
	var glyphs []*font.Glyph
	for _, f := range coll.Fonts() {
		glyphs = append(glyphs, f.Glyphs()...)
	}
	return CurateModel{Coll: coll, Glyphs: glyphs, Height: 15}
}

func (m CurateModel) Init() tea.Cmd {
	return nil
}

func (m CurateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "w", "enter":
			m.Save = true
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Glyphs)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Glyphs) == 0 {
				return m, nil
			}
			g := m.Glyphs[m.Cursor]
			m.err = m.Coll.ToggleSelect(g, !g.Selected())
			if m.err == nil {
				m.Changed++
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-7, 5)
	}
	return m, nil
}

func (m CurateModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Curate Glyphs"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  w save  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Glyphs))
	for i := m.Offset; i < end; i++ {
		g := m.Glyphs[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := "○"
		if g.Selected() {
			mark = iconSelected
		}
		line := fmt.Sprintf("%s%s %-24s %s  %s", cursor, mark, g.Name(), formatCode(g.Code()), listDimStyle.Render(g.Font().ID()))

		switch {
		case i == m.Cursor:
			b.WriteString(listCursorStyle.Render(line))
		case g.Selected():
			b.WriteString(listSelectedStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] %d selected", m.Cursor+1, len(m.Glyphs), len(m.Coll.Selected()))))
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(listErrorStyle.Render("  " + errors.UserMessage(m.err)))
	}
	return b.String()
}

// =============================================================================
// Command
// =============================================================================

func (c *CLI) curateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "curate",
		Short: "Toggle the glyph selection interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := c.openProject(ctx, openOptions{})
			if err != nil {
				return err
			}
			defer p.Close()

			if p.ws.Collection.Len() == 0 {
				printWarning("No glyphs in %s", c.dir)
				return nil
			}

			final, err := tea.NewProgram(NewCurateModel(p.ws.Collection), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			m := final.(CurateModel)
			if !m.Save {
				if m.Changed > 0 {
					printInfo("Discarded %d changes", m.Changed)
				}
				return nil
			}
			cfg, err := p.runner.Save(ctx, p.ws)
			if err != nil {
				return err
			}
			printSuccess("Saved %d glyphs", len(cfg.Glyphs))
			printNextStep("Export the fonts with", appName+" build")
			return nil
		},
	}
}
