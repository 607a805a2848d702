package encoder

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	ferrors "github.com/matzehuels/fontsmith/pkg/errors"
	"github.com/matzehuels/fontsmith/pkg/svg"
)

func sampleDefinition() *Definition {
	return &Definition{
		Font: FontInfo{ID: "icons", Ascent: 850, Descent: -150},
		Glyphs: []GlyphDef{
			{Name: "home", Code: 0xE800, Outline: "M0 850L500 350Z", Width: 1000},
			{Name: `a&b"c`, Code: 0x41, Outline: "M1 1Z", Width: 500},
		},
	}
}

func TestSVGFontEncode(t *testing.T) {
	var buf bytes.Buffer
	if err := (SVGFont{}).Encode(&buf, sampleDefinition()); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`<font id="icons" horiz-adv-x="1000" >`,
		`units-per-em="1000" ascent="850" descent="-150"`,
		`<missing-glyph horiz-adv-x="1000" />`,
		`unicode="&#xe800;"`,
		`d="M0 850L500 350Z"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	// The output must read back as a font.
	f, err := svg.ParseFont(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseFont(output) error: %v", err)
	}
	if f.ID != "icons" || f.Ascent != 850 || f.UnitsPerEm != 1000 || len(f.Glyphs) != 2 {
		t.Fatalf("parsed font = %+v", f)
	}
	g := f.Glyphs[1]
	if g.Name != `a&b"c` || g.Code != 'A' || g.HorizAdvX != 500 {
		t.Errorf("escaped glyph read back as %+v", g)
	}
}

func TestSVGFontEncodeCopyright(t *testing.T) {
	def := sampleDefinition()
	def.Font.Copyright = "(c) <me>"
	var buf bytes.Buffer
	if err := (SVGFont{}).Encode(&buf, def); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<metadata>(c) &lt;me&gt;</metadata>") {
		t.Errorf("copyright metadata missing or unescaped:\n%s", buf.String())
	}
}

func TestSVGFontEncodeErrors(t *testing.T) {
	if err := (SVGFont{}).Encode(&bytes.Buffer{}, nil); !ferrors.Is(err, ferrors.ErrCodeEncodeFailed) {
		t.Errorf("nil definition error = %v", err)
	}
	bad := sampleDefinition()
	bad.Font.Descent = bad.Font.Ascent
	if err := (SVGFont{}).Encode(&bytes.Buffer{}, bad); !ferrors.Is(err, ferrors.ErrCodeEncodeFailed) {
		t.Errorf("bad metrics error = %v", err)
	}
	if err := (SVGFont{}).Encode(failingWriter{}, sampleDefinition()); !ferrors.Is(err, ferrors.ErrCodeEncodeFailed) {
		t.Errorf("write failure error = %v", err)
	}
}

func TestJSONEncode(t *testing.T) {
	var buf bytes.Buffer
	if err := (JSON{}).Encode(&buf, sampleDefinition()); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	var got Definition
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got.Font.ID != "icons" || len(got.Glyphs) != 2 || got.Glyphs[0].Code != 0xE800 {
		t.Errorf("decoded = %+v", got)
	}
	if err := (JSON{}).Encode(failingWriter{}, sampleDefinition()); !ferrors.Is(err, ferrors.ErrCodeEncodeFailed) {
		t.Errorf("write failure error = %v", err)
	}
}

func TestGet(t *testing.T) {
	for _, f := range Formats() {
		enc, err := Get(f)
		if err != nil {
			t.Errorf("Get(%q) error: %v", f, err)
			continue
		}
		if enc.Format() != f {
			t.Errorf("Get(%q).Format() = %q", f, enc.Format())
		}
		if !ValidFormat(f) {
			t.Errorf("ValidFormat(%q) = false", f)
		}
	}
	if _, err := Get("woff2"); !ferrors.Is(err, ferrors.ErrCodeInvalidFormat) {
		t.Errorf("Get(woff2) error = %v", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }
