package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/fontsmith/pkg/config"
	"github.com/matzehuels/fontsmith/pkg/errors"
	"github.com/matzehuels/fontsmith/pkg/font"
	"github.com/matzehuels/fontsmith/pkg/settings"
)

const squareSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100"><path d="M0 0H100V100H0Z"/></svg>`

const libraryFont = `<svg xmlns="http://www.w3.org/2000/svg"><defs>
<font id="fontelico" horiz-adv-x="1000">
<font-face units-per-em="1000" ascent="850" descent="-150"/>
<glyph glyph-name="star" unicode="&#x2605;" d="M0 0L1 1Z"/>
<glyph glyph-name="heart" unicode="&#x2665;" d="M0 0L2 2Z"/>
</font></defs></svg>`

const projectSettings = `[font]
name = "icons"

[build]
library = ["fontelico.svg"]

[cache]
disabled = true
`

func newProjectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"a.svg":           squareSVG,
		"fontelico.svg":   libraryFont,
		settings.FileName: projectSettings,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func runCLI(t *testing.T, dir string, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(append([]string{"--dir", dir}, args...))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func loadConfig(t *testing.T, dir string) map[string]config.Descriptor {
	t.Helper()
	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	byName := make(map[string]config.Descriptor, len(cfg.Glyphs))
	for _, d := range cfg.Glyphs {
		byName[d.Name] = d
	}
	return byName
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"init", "build", "glyphs", "curate", "serve", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("verbose") == nil || root.PersistentFlags().Lookup("dir") == nil {
		t.Error("persistent flags missing")
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	if err := runCLI(t, dir, "init", "brand"); err != nil {
		t.Fatalf("init: %v", err)
	}
	s, err := settings.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if s.Font.Name != "brand" {
		t.Errorf("font name = %q", s.Font.Name)
	}

	if err := runCLI(t, dir, "init"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("second init error = %v", err)
	}
	if err := runCLI(t, dir, "init", "--force"); err != nil {
		t.Errorf("forced init: %v", err)
	}
}

func TestBuildAndCurateCommands(t *testing.T) {
	dir := newProjectDir(t)

	if err := runCLI(t, dir, "build", "--format", "svg,json"); err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, name := range []string{"icons.svg", "icons.json"} {
		if _, err := os.Stat(filepath.Join(dir, "dist", name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
	if a := loadConfig(t, dir)["a"]; a.Code != 0xE800 {
		t.Fatalf("a = %+v", a)
	}

	if err := runCLI(t, dir, "glyphs", "select", "star"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if star := loadConfig(t, dir)["star"]; star.Code != 0xE801 || !star.IsSelected() {
		t.Fatalf("star = %+v", star)
	}

	if err := runCLI(t, dir, "glyphs", "rename", "star", "favourite"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if err := runCLI(t, dir, "glyphs", "code", "favourite", "U+E800"); err != nil {
		t.Fatalf("code: %v", err)
	}
	cfg := loadConfig(t, dir)
	if cfg["favourite"].Code != 0xE800 || cfg["a"].Code != 0xE801 {
		t.Fatalf("codes not swapped: %+v", cfg)
	}

	if err := runCLI(t, dir, "glyphs", "remove", "favourite"); !errors.Is(err, errors.ErrCodeReadOnlyFont) {
		t.Errorf("removing a library glyph: %v", err)
	}
	if err := runCLI(t, dir, "glyphs", "deselect", "favourite"); err != nil {
		t.Fatalf("deselect: %v", err)
	}
	// Unselected library glyphs are not persisted.
	if fav, ok := loadConfig(t, dir)["favourite"]; ok {
		t.Errorf("deselected library glyph still in config: %+v", fav)
	}

	if err := runCLI(t, dir, "glyphs", "code", "a", "--auto", "--policy", "pua"); err != nil {
		t.Fatalf("auto code: %v", err)
	}
	if err := runCLI(t, dir, "glyphs", "select", "nosuch"); !errors.Is(err, errors.ErrCodeGlyphNotFound) {
		t.Errorf("unknown glyph error = %v", err)
	}
	if err := runCLI(t, dir, "glyphs", "code", "a"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("code without value error = %v", err)
	}
	if err := runCLI(t, dir, "glyphs", "list", "--selected"); err != nil {
		t.Errorf("list: %v", err)
	}
}

func TestBuildRejectsUnknownFormat(t *testing.T) {
	dir := newProjectDir(t)
	if err := runCLI(t, dir, "build", "--format", "woff2"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, config.FileName)); !os.IsNotExist(err) {
		t.Error("rejected build wrote a config")
	}
}

func TestFindGlyph(t *testing.T) {
	coll := font.NewCollection("icons", "")
	lib, err := coll.AddFont("fontelico", "")
	if err != nil {
		t.Fatal(err)
	}
	custom, err := coll.AddGlyph(coll.Custom(), font.GlyphSpec{UID: "aaaa-1111", Name: "star", Code: 0xE800})
	if err != nil {
		t.Fatal(err)
	}
	libStar, err := coll.AddGlyph(lib, font.GlyphSpec{UID: "bbbb-2222", Name: "star", Code: 0x2605})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		fontID string
		ref    string
		want   *font.Glyph
		code   errors.Code
	}{
		{"by uid", "", "bbbb-2222", libStar, ""},
		{"by prefix", "", "aaaa", custom, ""},
		{"name scoped to font", "fontelico", "star", libStar, ""},
		{"ambiguous name", "", "star", nil, errors.ErrCodeInvalidInput},
		{"unknown", "", "moon", nil, errors.ErrCodeGlyphNotFound},
		{"unknown font", "nope", "star", nil, errors.ErrCodeFontNotFound},
		{"uid outside font", "icons", "bbbb-2222", nil, errors.ErrCodeGlyphNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := findGlyph(coll, tt.fontID, tt.ref)
			if tt.code != "" {
				if !errors.Is(err, tt.code) {
					t.Errorf("error = %v, want %s", err, tt.code)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("findGlyph(%q) = %v, %v", tt.ref, got, err)
			}
		})
	}
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		in   string
		want rune
		ok   bool
	}{
		{"U+E801", 0xE801, true},
		{"0xe801", 0xE801, true},
		{"2605", 0x2605, true},
		{"u+1F600", 0x1F600, true},
		{"zz", 0, false},
		{"110000", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, err := parseCode(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("parseCode(%q) = %X, %v", tt.in, got, err)
		}
	}
}

func TestParseFormats(t *testing.T) {
	if got := parseFormats(""); got != nil {
		t.Errorf("empty = %v", got)
	}
	if got := parseFormats("svg, json,"); strings.Join(got, "|") != "svg|json" {
		t.Errorf("parseFormats = %v", got)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")
	dir, err := cacheDir(settings.Default())
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("cacheDir = %q, want %q", dir, want)
	}

	s := settings.Default()
	s.Cache.Dir = "/var/cache/icons"
	if dir, _ := cacheDir(s); dir != "/var/cache/icons" {
		t.Errorf("cacheDir with [cache] dir = %q", dir)
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCurateModel(t *testing.T) {
	coll := font.NewCollection("icons", "")
	for _, name := range []string{"a", "b"} {
		if _, err := coll.AddGlyph(coll.Custom(), font.GlyphSpec{Name: name, Code: 0x41}); err != nil {
			t.Fatal(err)
		}
	}

	var m tea.Model = NewCurateModel(coll)
	m, _ = m.Update(key("down"))
	m, _ = m.Update(key("space"))
	if sel := coll.Selected(); len(sel) != 1 || sel[0].Name() != "b" {
		t.Fatalf("selection after toggle = %v", sel)
	}
	if !strings.Contains(m.View(), "1 selected") {
		t.Errorf("view lacks selection count:\n%s", m.View())
	}

	m, _ = m.Update(key("space"))
	if len(coll.Selected()) != 0 {
		t.Error("second toggle did not deselect")
	}

	m, cmd := m.Update(key("w"))
	if cm := m.(CurateModel); !cm.Save || cm.Changed != 2 || cmd == nil {
		t.Errorf("save key: save=%v changed=%d", cm.Save, cm.Changed)
	}
}
