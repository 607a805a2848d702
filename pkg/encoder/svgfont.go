package encoder

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/matzehuels/fontsmith/pkg/errors"
)

const svgHeader = `<?xml version="1.0" standalone="no"?>
<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">
<svg xmlns="http://www.w3.org/2000/svg">
`

// SVGFont writes an SVG 1.1 font.
type SVGFont struct{}

func (SVGFont) Format() string { return "svg" }

func (SVGFont) Encode(w io.Writer, def *Definition) error {
	if def == nil {
		return errors.New(errors.ErrCodeEncodeFailed, "nil definition")
	}
	em := def.Font.UnitsPerEm()
	if em <= 0 {
		return errors.New(errors.ErrCodeEncodeFailed, "invalid metrics: ascent %d, descent %d", def.Font.Ascent, def.Font.Descent)
	}

	var buf bytes.Buffer
	buf.WriteString(svgHeader)
	if def.Font.Copyright != "" {
		buf.WriteString("<metadata>")
		escape(&buf, def.Font.Copyright)
		buf.WriteString("</metadata>\n")
	}
	buf.WriteString("<defs>\n")

	buf.WriteString(`<font id="`)
	escape(&buf, def.Font.ID)
	fmt.Fprintf(&buf, "\" horiz-adv-x=\"%d\" >\n", em)

	buf.WriteString(`<font-face font-family="`)
	escape(&buf, def.Font.ID)
	fmt.Fprintf(&buf, "\" font-weight=\"400\" font-stretch=\"normal\" units-per-em=\"%d\" ascent=\"%d\" descent=\"%d\" />\n",
		em, def.Font.Ascent, def.Font.Descent)
	fmt.Fprintf(&buf, "<missing-glyph horiz-adv-x=\"%d\" />\n", em)

	for _, g := range def.Glyphs {
		buf.WriteString(`<glyph glyph-name="`)
		escape(&buf, g.Name)
		fmt.Fprintf(&buf, "\" unicode=\"&#x%x;\" d=\"", g.Code)
		escape(&buf, g.Outline)
		fmt.Fprintf(&buf, "\" horiz-adv-x=\"%d\" />\n", g.Width)
	}

	buf.WriteString("</font>\n</defs>\n</svg>")

	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.Wrap(errors.ErrCodeEncodeFailed, err, "write svg font")
	}
	return nil
}

func escape(buf *bytes.Buffer, s string) {
	_ = xml.EscapeText(buf, []byte(s))
}
