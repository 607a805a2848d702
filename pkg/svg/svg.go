// Package svg reads the two SVG inputs fontsmith understands: single icon
// images and SVG fonts.
//
// Only geometry is extracted. [ParseImage] flattens the drawable elements of
// an image into one path and reports the elements and attributes it had to
// ignore. [ParseFont] returns the font metrics and the raw glyph outlines.
// Coordinate transformation is left to callers (see package svgpath).
package svg

import (
	"bytes"
	"encoding/xml"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/fontsmith/pkg/errors"
)

// IsFont reports whether data looks like an SVG font rather than an image.
func IsFont(data []byte) bool {
	return bytes.Contains(data, []byte("<font"))
}

// Image is the flattened geometry of an SVG icon.
type Image struct {
	// D is the concatenated path data of every drawable element.
	D string
	// X, Y, Width and Height describe the drawing area, from the viewBox
	// when present, else from the width and height attributes.
	X, Y, Width, Height float64
	// Ignored lists element and attribute names that were skipped, without
	// duplicates, in order of appearance.
	Ignored []string
}

// Font is the parsed content of an SVG font.
type Font struct {
	ID         string
	HorizAdvX  float64
	Ascent     float64
	Descent    float64
	UnitsPerEm float64
	Glyphs     []FontGlyph
}

// FontGlyph is one glyph element of an SVG font.
type FontGlyph struct {
	Name string
	// Code is the first code point of the unicode attribute, 0 when absent.
	Code rune
	D    string
	// HorizAdvX is the glyph advance, inherited from the font when the glyph
	// has no horiz-adv-x attribute.
	HorizAdvX float64
}

// Elements that only group or annotate and are walked silently.
var containers = []string{"svg", "g", "title", "desc", "metadata", "defs"}

// Presentation attributes that do not change geometry.
var harmlessAttrs = []string{
	"id", "class", "fill", "fill-rule", "clip-rule", "stroke-linejoin",
	"version", "xmlns", "xlink", "space", "enable-background", "data-name",
	"width", "height", "viewBox", "x", "y", "d", "baseProfile",
}

func newDecoder(data []byte) *xml.Decoder {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity
	return dec
}

// ParseImage extracts the geometry of an SVG image.
// Malformed XML or a missing size returns ErrCodeInvalidFormat.
func ParseImage(data []byte) (*Image, error) {
	dec := newDecoder(data)
	img := &Image{}
	var (
		paths   []string
		sawRoot bool
		skip    int
	)

	ignore := func(name string) {
		if !slices.Contains(img.Ignored, name) {
			img.Ignored = append(img.Ignored, name)
		}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "malformed SVG image")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if skip > 0 {
				skip++
				continue
			}
			name := t.Name.Local
			attrs := attrMap(t.Attr)

			if !sawRoot {
				if name != "svg" {
					return nil, errors.New(errors.ErrCodeInvalidFormat, "root element is <%s>, want <svg>", name)
				}
				sawRoot = true
				if err := img.setSize(attrs); err != nil {
					return nil, err
				}
				continue
			}

			if slices.Contains(containers, name) {
				if name == "defs" {
					skip = 1
				}
				if _, ok := attrs["transform"]; ok {
					ignore("transform")
				}
				continue
			}

			d, ok := shapePath(name, attrs)
			if !ok {
				ignore(name)
				skip = 1
				continue
			}
			for _, a := range t.Attr {
				if !slices.Contains(harmlessAttrs, a.Name.Local) && !shapeAttr(name, a.Name.Local) {
					ignore(a.Name.Local)
				}
			}
			if d != "" {
				paths = append(paths, d)
			}
		case xml.EndElement:
			if skip > 0 {
				skip--
			}
		}
	}

	if !sawRoot {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "no <svg> element found")
	}
	img.D = strings.Join(paths, " ")
	return img, nil
}

func (img *Image) setSize(attrs map[string]string) error {
	if vb, ok := attrs["viewBox"]; ok {
		nums, err := numbers(vb)
		if err != nil || len(nums) != 4 {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid viewBox %q", vb)
		}
		img.X, img.Y, img.Width, img.Height = nums[0], nums[1], nums[2], nums[3]
	} else {
		img.Width = length(attrs["width"])
		img.Height = length(attrs["height"])
	}
	if img.Width <= 0 || img.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "image has no usable size (viewBox or width/height)")
	}
	return nil
}

// ParseFont reads an SVG font. The first <font> element is used.
// Malformed XML or a document without a font returns ErrCodeInvalidFormat.
func ParseFont(data []byte) (*Font, error) {
	dec := newDecoder(data)
	var (
		font   *Font
		inFont bool
		done   bool
	)

	for !done {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "malformed SVG font")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			attrs := attrMap(t.Attr)
			switch t.Name.Local {
			case "font":
				if font != nil {
					continue
				}
				font = &Font{
					ID:         attrs["id"],
					HorizAdvX:  number(attrs["horiz-adv-x"]),
					UnitsPerEm: 1000,
				}
				inFont = true
			case "font-face":
				if !inFont {
					continue
				}
				if v := number(attrs["units-per-em"]); v > 0 {
					font.UnitsPerEm = v
				}
				font.Ascent = number(attrs["ascent"])
				font.Descent = number(attrs["descent"])
			case "glyph":
				if !inFont {
					continue
				}
				g := FontGlyph{
					Name:      attrs["glyph-name"],
					D:         attrs["d"],
					HorizAdvX: font.HorizAdvX,
				}
				if u := attrs["unicode"]; u != "" {
					g.Code, _ = utf8.DecodeRuneInString(u)
				}
				if v, ok := attrs["horiz-adv-x"]; ok {
					g.HorizAdvX = number(v)
				}
				font.Glyphs = append(font.Glyphs, g)
			}
		case xml.EndElement:
			if t.Name.Local == "font" && inFont {
				inFont = false
				done = true
			}
		}
	}

	if font == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "no <font> element found")
	}
	return font, nil
}

func attrMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	return m
}

func number(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

// length parses a CSS length in user units; "px" is accepted, other units
// are not supported and yield 0.
func length(s string) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func numbers(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
