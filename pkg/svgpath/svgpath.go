// Package svgpath parses and transforms SVG path data.
//
// A [Path] is a list of segments parsed from the "d" attribute of an SVG
// path or glyph element. The transformations used by the importer and the
// assembler are provided as chainable methods that modify the path in place:
//
//	d, err := svgpath.Parse("m10 10 h20 v20 z")
//	out := d.Translate(-10, -10).Scale(5, 5).Abs().Round(1).String()
//
// Translate and Scale convert the path to absolute commands first, so every
// transformed path is absolute. Elliptical arcs are transformed exactly,
// including radii, rotation and sweep direction under mirroring.
package svgpath

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/fontsmith/pkg/errors"
)

// Segment is one path command with its numeric arguments.
type Segment struct {
	Cmd  byte
	Args []float64
}

// Path is a parsed SVG path.
type Path struct {
	segs []Segment
}

// argCount is the number of arguments each command consumes per repetition.
var argCount = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1, 'C': 6, 'S': 4, 'Q': 4, 'T': 2, 'A': 7, 'Z': 0,
}

// Parse reads SVG path data. An empty string yields an empty path.
// Malformed data returns ErrCodeInvalidPath.
func Parse(d string) (*Path, error) {
	s := &scanner{src: d}
	p := &Path{}

	var cmd byte
	for {
		s.skipSpace()
		if s.done() {
			break
		}
		c := s.src[s.pos]
		if isCommand(c) {
			cmd = c
			s.pos++
		} else if cmd == 0 {
			return nil, errors.New(errors.ErrCodeInvalidPath, "path data must start with a command, got %q at offset %d", c, s.pos)
		}

		upper := upperCmd(cmd)
		n := argCount[upper]
		if n == 0 {
			p.segs = append(p.segs, Segment{Cmd: cmd})
			cmd = 0
			continue
		}

		args := make([]float64, n)
		for i := range n {
			s.skipSeparators()
			var (
				v   float64
				err error
			)
			if upper == 'A' && (i == 3 || i == 4) {
				v, err = s.flag()
			} else {
				v, err = s.number()
			}
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		p.segs = append(p.segs, Segment{Cmd: cmd, Args: args})

		// Extra coordinate pairs after a moveto are implicit linetos.
		switch cmd {
		case 'M':
			cmd = 'L'
		case 'm':
			cmd = 'l'
		}
		s.skipSeparators()
	}

	if len(p.segs) > 0 && upperCmd(p.segs[0].Cmd) != 'M' {
		return nil, errors.New(errors.ErrCodeInvalidPath, "path data must start with a moveto")
	}
	return p, nil
}

// Segments returns a copy of the path segments.
func (p *Path) Segments() []Segment {
	out := make([]Segment, len(p.segs))
	for i, s := range p.segs {
		out[i] = Segment{Cmd: s.Cmd, Args: append([]float64(nil), s.Args...)}
	}
	return out
}

// Len returns the number of segments.
func (p *Path) Len() int { return len(p.segs) }

// Abs converts every relative command to its absolute form.
func (p *Path) Abs() *Path {
	var x, y, startX, startY float64
	for i := range p.segs {
		seg := &p.segs[i]
		rel := seg.Cmd >= 'a' && seg.Cmd <= 'z'
		upper := upperCmd(seg.Cmd)
		a := seg.Args

		if rel {
			switch upper {
			case 'H':
				a[0] += x
			case 'V':
				a[0] += y
			case 'A':
				a[5] += x
				a[6] += y
			default:
				for j := 0; j+1 < len(a); j += 2 {
					a[j] += x
					a[j+1] += y
				}
			}
			seg.Cmd = upper
		}

		switch upper {
		case 'Z':
			x, y = startX, startY
		case 'H':
			x = a[0]
		case 'V':
			y = a[0]
		case 'M':
			x, y = a[0], a[1]
			startX, startY = x, y
		default:
			x, y = a[len(a)-2], a[len(a)-1]
		}
	}
	return p
}

// Translate moves the path by (tx, ty).
func (p *Path) Translate(tx, ty float64) *Path {
	p.Abs()
	for i := range p.segs {
		seg := &p.segs[i]
		a := seg.Args
		switch seg.Cmd {
		case 'H':
			a[0] += tx
		case 'V':
			a[0] += ty
		case 'A':
			a[5] += tx
			a[6] += ty
		case 'Z':
		default:
			for j := 0; j+1 < len(a); j += 2 {
				a[j] += tx
				a[j+1] += ty
			}
		}
	}
	return p
}

// Scale multiplies x coordinates by sx and y coordinates by sy.
// A negative factor mirrors the path.
func (p *Path) Scale(sx, sy float64) *Path {
	p.Abs()
	for i := range p.segs {
		seg := &p.segs[i]
		a := seg.Args
		switch seg.Cmd {
		case 'H':
			a[0] *= sx
		case 'V':
			a[0] *= sy
		case 'A':
			rx, ry, rot := transformEllipse(a[0], a[1], a[2], sx, sy)
			a[0], a[1], a[2] = rx, ry, rot
			if sx*sy < 0 {
				a[4] = 1 - a[4]
			}
			a[5] *= sx
			a[6] *= sy
		case 'Z':
		default:
			for j := 0; j+1 < len(a); j += 2 {
				a[j] *= sx
				a[j+1] *= sy
			}
		}
	}
	return p
}

// Round rounds every coordinate to the given number of decimal places.
// Arc flags are left untouched.
func (p *Path) Round(precision int) *Path {
	k := math.Pow(10, float64(precision))
	for i := range p.segs {
		seg := &p.segs[i]
		arc := upperCmd(seg.Cmd) == 'A'
		for j, v := range seg.Args {
			if arc && (j == 3 || j == 4) {
				continue
			}
			r := math.Round(v*k) / k
			if r == 0 {
				r = 0 // drop negative zero
			}
			seg.Args[j] = r
		}
	}
	return p
}

// String formats the path as SVG path data.
func (p *Path) String() string {
	var b strings.Builder
	for _, seg := range p.segs {
		b.WriteByte(seg.Cmd)
		for j, v := range seg.Args {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
	return b.String()
}

// transformEllipse returns the radii and rotation (degrees) of the ellipse
// (rx, ry, rotation) after scaling by (sx, sy).
func transformEllipse(rx, ry, rotation, sx, sy float64) (float64, float64, float64) {
	const eps = 1e-10

	rad := rotation * math.Pi / 180
	c, s := math.Cos(rad), math.Sin(rad)

	// Columns of the matrix mapping the unit circle onto the scaled ellipse.
	m0 := sx * rx * c
	m1 := sy * rx * s
	m2 := sx * -ry * s
	m3 := sy * ry * c

	j := m0*m0 + m2*m2
	k := m1*m1 + m3*m3
	d := ((m0-m3)*(m0-m3) + (m2+m1)*(m2+m1)) * ((m0+m3)*(m0+m3) + (m2-m1)*(m2-m1))
	jk := (j + k) / 2

	if d < eps*jk {
		r := math.Sqrt(jk)
		return r, r, 0
	}

	l := m0*m1 + m2*m3
	d = math.Sqrt(d)
	l1 := jk + d/2
	l2 := jk - d/2

	var ax float64
	switch {
	case math.Abs(l) < eps && math.Abs(l1-k) < eps:
		ax = 90
	case math.Abs(l) > math.Abs(l1-k):
		ax = math.Atan((l1-j)/l) * 180 / math.Pi
	default:
		ax = math.Atan(l/(l1-k)) * 180 / math.Pi
	}

	if ax >= 0 {
		return math.Sqrt(l1), math.Sqrt(math.Max(l2, 0)), ax
	}
	return math.Sqrt(math.Max(l2, 0)), math.Sqrt(l1), ax + 90
}

func isCommand(c byte) bool {
	_, ok := argCount[upperCmd(c)]
	return ok && (c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z')
}

func upperCmd(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

type scanner struct {
	src string
	pos int
}

func (s *scanner) done() bool { return s.pos >= len(s.src) }

func (s *scanner) skipSpace() {
	for !s.done() && isSpace(s.src[s.pos]) {
		s.pos++
	}
}

func (s *scanner) skipSeparators() {
	s.skipSpace()
	if !s.done() && s.src[s.pos] == ',' {
		s.pos++
		s.skipSpace()
	}
}

func (s *scanner) flag() (float64, error) {
	if s.done() || (s.src[s.pos] != '0' && s.src[s.pos] != '1') {
		return 0, errors.New(errors.ErrCodeInvalidPath, "expected arc flag at offset %d", s.pos)
	}
	v := float64(s.src[s.pos] - '0')
	s.pos++
	return v, nil
}

// number scans a floating point number per the SVG grammar: optional sign,
// digits with at most one decimal point, optional exponent.
func (s *scanner) number() (float64, error) {
	start := s.pos
	if !s.done() && (s.src[s.pos] == '+' || s.src[s.pos] == '-') {
		s.pos++
	}
	digits := 0
	for !s.done() && isDigit(s.src[s.pos]) {
		s.pos++
		digits++
	}
	if !s.done() && s.src[s.pos] == '.' {
		s.pos++
		for !s.done() && isDigit(s.src[s.pos]) {
			s.pos++
			digits++
		}
	}
	if digits == 0 {
		s.pos = start
		return 0, errors.New(errors.ErrCodeInvalidPath, "expected number at offset %d", start)
	}
	if !s.done() && (s.src[s.pos] == 'e' || s.src[s.pos] == 'E') {
		mark := s.pos
		s.pos++
		if !s.done() && (s.src[s.pos] == '+' || s.src[s.pos] == '-') {
			s.pos++
		}
		expDigits := 0
		for !s.done() && isDigit(s.src[s.pos]) {
			s.pos++
			expDigits++
		}
		if expDigits == 0 {
			s.pos = mark
		}
	}
	v, err := strconv.ParseFloat(s.src[start:s.pos], 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidPath, err, "invalid number %q", s.src[start:s.pos])
	}
	return v, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
