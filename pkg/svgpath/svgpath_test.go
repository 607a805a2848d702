package svgpath

import (
	"fmt"
	"math"
	"testing"

	"github.com/matzehuels/fontsmith/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"simple", "M0 0L10 10Z", "M0 0L10 10Z"},
		{"commas and spaces", "M 1,2 L 3 , 4 z", "M1 2L3 4z"},
		{"implicit lineto", "M0 0 10 10 20 0", "M0 0L10 10L20 0"},
		{"implicit relative lineto", "m1 1 2 2", "m1 1l2 2"},
		{"packed numbers", "M10-20L.5.5", "M10 -20L0.5 0.5"},
		{"exponent", "M1e2 2E-1", "M100 0.2"},
		{"packed arc flags", "M0 0a5 5 0 01 10 0", "M0 0a5 5 0 0 1 10 0"},
		{"curves", "M0 0C1 2 3 4 5 6S7 8 9 10Q1 1 2 2T3 3", "M0 0C1 2 3 4 5 6S7 8 9 10Q1 1 2 2T3 3"},
		{"multiple subpaths", "M0 0h5v5zM10 10h5z", "M0 0h5v5zM10 10h5z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}
			if got := p.String(); got != tt.want {
				t.Errorf("Parse(%q).String() = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"10 10",
		"L10 10",
		"M10",
		"M0 0L1 x",
		"M0 0A5 5 0 2 1 10 0",
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			if !errors.Is(err, errors.ErrCodeInvalidPath) {
				t.Errorf("Parse(%q) error = %v, want %s", in, err, errors.ErrCodeInvalidPath)
			}
		})
	}
}

func TestAbs(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"m10 10l5 5", "M10 10L15 15"},
		{"m10 10h5v5h-5z", "M10 10H15V15H10Z"},
		{"M10 10h5zl1 1", "M10 10H15ZL11 11"},
		{"m0 0c1 1 2 2 3 3s1 1 2 2", "M0 0C1 1 2 2 3 3S4 4 5 5"},
		{"m0 0q1 1 2 2t1 1", "M0 0Q1 1 2 2T3 3"},
		{"m10 0a5 5 0 0 1 10 0", "M10 0A5 5 0 0 1 20 0"},
		{"m1 1 1 1 1 1", "M1 1L2 2L3 3"},
		{"m5 5m5 5", "M5 5M10 10"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := Parse(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got := p.Abs().String(); got != tt.want {
				t.Errorf("Abs(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTranslateScale(t *testing.T) {
	tests := []struct {
		name string
		in   string
		fn   func(*Path) *Path
		want string
	}{
		{
			name: "translate",
			in:   "M10 20L30 40H50V60Z",
			fn:   func(p *Path) *Path { return p.Translate(-10, -20) },
			want: "M0 0L20 20H40V40Z",
		},
		{
			name: "translate relative",
			in:   "m10 20l5 5",
			fn:   func(p *Path) *Path { return p.Translate(1, 1) },
			want: "M11 21L16 26",
		},
		{
			name: "scale",
			in:   "M1 2L3 4H5V6",
			fn:   func(p *Path) *Path { return p.Scale(2, 3) },
			want: "M2 6L6 12H10V18",
		},
		{
			name: "flip vertical",
			in:   "M0 10L10 20",
			fn:   func(p *Path) *Path { return p.Scale(1, -1).Translate(0, 850) },
			want: "M0 840L10 830",
		},
		{
			name: "image normalization",
			in:   "M10 20H110V220H10Z",
			fn:   func(p *Path) *Path { return p.Translate(-10, -20).Scale(5, 5) },
			want: "M0 0H500V1000H0Z",
		},
		{
			name: "arc mirror flips sweep",
			in:   "M0 0A5 5 0 0 1 10 0",
			fn:   func(p *Path) *Path { return p.Scale(1, -1) },
			want: "M0 0A5 5 0 0 0 10 0",
		},
		{
			name: "arc uniform scale",
			in:   "M0 0A5 5 0 1 1 10 0",
			fn:   func(p *Path) *Path { return p.Scale(2, 2) },
			want: "M0 0A10 10 0 1 1 20 0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got := tt.fn(p).Round(1).String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScaleEllipticalArc(t *testing.T) {
	p, err := Parse("M0 0A10 5 0 0 1 20 0")
	if err != nil {
		t.Fatal(err)
	}
	seg := p.Scale(2, 1).Segments()[1]
	if math.Abs(seg.Args[0]-20) > 1e-9 || math.Abs(seg.Args[1]-5) > 1e-9 {
		t.Errorf("radii = %v, %v; want 20, 5", seg.Args[0], seg.Args[1])
	}
	if math.Abs(math.Mod(seg.Args[2], 180)) > 1e-9 {
		t.Errorf("rotation = %v, want 0", seg.Args[2])
	}

	// A 90 degree rotated ellipse scaled along x stretches its minor axis.
	p, _ = Parse("M0 0A10 5 90 0 1 20 0")
	seg = p.Scale(2, 1).Segments()[1]
	rx, ry := seg.Args[0], seg.Args[1]
	if math.Abs(math.Max(rx, ry)-10) > 1e-6 || math.Abs(math.Min(rx, ry)-10) > 1e-6 {
		t.Errorf("rotated radii = %v, %v; want 10, 10", rx, ry)
	}
}

func TestRound(t *testing.T) {
	p, err := Parse("M0.04 -0.04L1.25 2.349A1.26 1.26 12.345 1 0 3.333 4.444")
	if err != nil {
		t.Fatal(err)
	}
	got := p.Round(1).String()
	want := "M0 0L1.3 2.3A1.3 1.3 12.3 1 0 3.3 4.4"
	if got != want {
		t.Errorf("Round(1) = %q, want %q", got, want)
	}
}

func TestSegmentsIsCopy(t *testing.T) {
	p, _ := Parse("M1 2")
	segs := p.Segments()
	segs[0].Args[0] = 99
	if p.String() != "M1 2" {
		t.Errorf("mutating Segments() changed path: %q", p.String())
	}
	if p.Len() != 1 {
		t.Errorf("Len() = %d", p.Len())
	}
}

func ExamplePath_Translate() {
	p, _ := Parse("m10 20 h100 v200 h-100 z")
	fmt.Println(p.Translate(-10, -20).Scale(5, 5).Round(1).String())
	// Output: M0 0H500V1000H0Z
}
