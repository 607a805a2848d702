package svg

import (
	"slices"
	"strconv"
	"strings"
)

var shapeAttrs = map[string][]string{
	"rect":     {"width", "height", "rx", "ry"},
	"circle":   {"cx", "cy", "r"},
	"ellipse":  {"cx", "cy", "rx", "ry"},
	"line":     {"x1", "y1", "x2", "y2"},
	"polyline": {"points"},
	"polygon":  {"points"},
}

func shapeAttr(element, attr string) bool {
	return slices.Contains(shapeAttrs[element], attr)
}

// shapePath converts a drawable element to path data. The boolean is false
// for elements that are not drawable shapes.
func shapePath(name string, attrs map[string]string) (string, bool) {
	n := func(key string) float64 { return number(attrs[key]) }

	switch name {
	case "path":
		return strings.TrimSpace(attrs["d"]), true
	case "rect":
		x, y, w, h := n("x"), n("y"), n("width"), n("height")
		if w <= 0 || h <= 0 {
			return "", true
		}
		rx, ry := n("rx"), n("ry")
		if rx == 0 {
			rx = ry
		}
		if ry == 0 {
			ry = rx
		}
		rx, ry = min(rx, w/2), min(ry, h/2)
		if rx <= 0 {
			return "M" + join(x, y) + "H" + f(x+w) + "V" + f(y+h) + "H" + f(x) + "Z", true
		}
		arc := "A" + join(rx, ry) + " 0 0 1 "
		return "M" + join(x+rx, y) +
			"H" + f(x+w-rx) + arc + join(x+w, y+ry) +
			"V" + f(y+h-ry) + arc + join(x+w-rx, y+h) +
			"H" + f(x+rx) + arc + join(x, y+h-ry) +
			"V" + f(y+ry) + arc + join(x+rx, y) + "Z", true
	case "circle":
		return ellipsePath(n("cx"), n("cy"), n("r"), n("r")), true
	case "ellipse":
		return ellipsePath(n("cx"), n("cy"), n("rx"), n("ry")), true
	case "line":
		return "M" + join(n("x1"), n("y1")) + "L" + join(n("x2"), n("y2")), true
	case "polyline", "polygon":
		pts, err := numbers(attrs["points"])
		if err != nil || len(pts) < 4 {
			return "", true
		}
		var b strings.Builder
		b.WriteString("M" + join(pts[0], pts[1]))
		for i := 2; i+1 < len(pts); i += 2 {
			b.WriteString("L" + join(pts[i], pts[i+1]))
		}
		if name == "polygon" {
			b.WriteString("Z")
		}
		return b.String(), true
	}
	return "", false
}

func ellipsePath(cx, cy, rx, ry float64) string {
	if rx <= 0 || ry <= 0 {
		return ""
	}
	arc := "A" + join(rx, ry) + " 0 1 0 "
	return "M" + join(cx-rx, cy) + arc + join(cx+rx, cy) + arc + join(cx-rx, cy) + "Z"
}

func f(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func join(a, b float64) string { return f(a) + " " + f(b) }
