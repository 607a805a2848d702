package codes

import (
	"testing"

	"github.com/matzehuels/fontsmith/pkg/errors"
)

func allFree(rune) bool { return true }

func takenSet(codes ...rune) FreeFunc {
	taken := make(map[rune]bool, len(codes))
	for _, c := range codes {
		taken[c] = true
	}
	return func(code rune) bool { return !taken[code] }
}

func TestValid(t *testing.T) {
	tests := []struct {
		code rune
		want bool
	}{
		{0x0, false},
		{0x8, false},
		{0x9, true}, // TAB
		{0xA, true}, // LF
		{0xB, false},
		{0xC, false},
		{0xD, true}, // CR
		{0xE, false},
		{0x1F, false},
		{0x20, true},
		{0x41, true},
		{0x7E, true},
		{0x7F, false},
		{0x84, false},
		{0x85, true}, // NEL
		{0x86, false},
		{0x9F, false},
		{0xA0, true},
		{0xD7FF, true},
		{0xD800, false},
		{0xDBFF, false},
		{0xDFFF, false},
		{0xE000, true},
		{0xE800, true},
		{0xF8FF, true},
		{0xFDCF, true},
		{0xFDD0, false},
		{0xFDDF, false},
		{0xFDE0, true},
		{0xFFFD, true},
		{0xFFFE, false},
		{0xFFFF, false},
		{0x10000, true},
		{0x1FFFE, false},
		{0x1FFFF, false},
		{0x5FFFE, false},
		{0x10FFFD, true},
		{0x10FFFE, false},
		{0x10FFFF, false},
		{0x110000, false},
		{-1, false},
	}

	for _, tt := range tests {
		if got := Valid(tt.code); got != tt.want {
			t.Errorf("Valid(%#x) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestValidNoncharacterCount(t *testing.T) {
	count := 0
	for code := rune(0); code <= Max; code++ {
		if code&0xFFFE == 0xFFFE && !Valid(code) {
			count++
		}
	}
	if count != 34 {
		t.Errorf("per-plane noncharacters = %d, want 34", count)
	}
}

func TestParsePolicy(t *testing.T) {
	for _, p := range Policies {
		got, err := ParsePolicy(string(p))
		if err != nil {
			t.Errorf("ParsePolicy(%q) error: %v", p, err)
		}
		if got != p {
			t.Errorf("ParsePolicy(%q) = %q", p, got)
		}
	}

	_, err := ParsePolicy("PUA")
	if !errors.Is(err, errors.ErrCodeInvalidPolicy) {
		t.Errorf("ParsePolicy(PUA) error = %v, want %s", err, errors.ErrCodeInvalidPolicy)
	}
}

func TestFind(t *testing.T) {
	code, ok := Find(0x0, 0x30, allFree)
	if !ok || code != 0x9 {
		t.Errorf("Find(0x0, 0x30) = %#x, %v; want 0x9, true", code, ok)
	}

	code, ok = Find(PUAMin, PUAMax, takenSet(0xE800, 0xE801))
	if !ok || code != 0xE802 {
		t.Errorf("Find skipping taken = %#x, %v; want 0xe802, true", code, ok)
	}

	if _, ok := Find(0xD800, 0xDFFF, allFree); ok {
		t.Error("Find over surrogates should fail")
	}
}

func TestResolvePUA(t *testing.T) {
	tests := []struct {
		name      string
		preferred rune
		free      FreeFunc
		want      rune
	}{
		{"keeps free pua code", 0xE805, allFree, 0xE805},
		{"remaps ascii code", 0x41, allFree, 0xE800},
		{"remaps taken pua code", 0xE805, takenSet(0xE805, 0xE800), 0xE801},
		{"invalid preferred", 0xFFFF, allFree, 0xE800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(PUA, tt.preferred, tt.free)
			if err != nil {
				t.Fatalf("Resolve error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(pua, %#x) = %#x, want %#x", tt.preferred, got, tt.want)
			}
		})
	}
}

func TestResolveASCII(t *testing.T) {
	got, err := Resolve(ASCII, 0x42, allFree)
	if err != nil || got != 0x42 {
		t.Errorf("Resolve(ascii, 0x42) = %#x, %v; want 0x42", got, err)
	}

	got, err = Resolve(ASCII, 0xE800, takenSet(0x21))
	if err != nil || got != 0x22 {
		t.Errorf("Resolve(ascii, 0xe800) = %#x, %v; want 0x22", got, err)
	}

	// Exhausted printable ASCII falls back to the PUA.
	all := make([]rune, 0, ASCIIMax-ASCIIMin+1)
	for c := ASCIIMin; c <= ASCIIMax; c++ {
		all = append(all, c)
	}
	got, err = Resolve(ASCII, 0x41, takenSet(all...))
	if err != nil || got != PUAMin {
		t.Errorf("Resolve(ascii) exhausted = %#x, %v; want %#x", got, err, PUAMin)
	}
}

func TestResolveUnicode(t *testing.T) {
	got, err := Resolve(Unicode, 0x263A, allFree)
	if err != nil || got != 0x263A {
		t.Errorf("Resolve(unicode, 0x263a) = %#x, %v", got, err)
	}

	got, err = Resolve(Unicode, 0x263A, takenSet(0x263A))
	if err != nil || got != PUAMin {
		t.Errorf("Resolve(unicode) collision = %#x, %v; want %#x", got, err, PUAMin)
	}

	got, err = Resolve(Unicode, 0xD800, allFree)
	if err != nil || got != PUAMin {
		t.Errorf("Resolve(unicode) surrogate = %#x, %v; want %#x", got, err, PUAMin)
	}
}

func TestResolveExhausted(t *testing.T) {
	nothingFree := func(rune) bool { return false }

	for _, p := range Policies {
		_, err := Resolve(p, 0x41, nothingFree)
		if !errors.Is(err, errors.ErrCodeCodesExhausted) {
			t.Errorf("Resolve(%s) with no free codes error = %v, want %s", p, err, errors.ErrCodeCodesExhausted)
		}
	}
}

func TestResolveUnknownPolicy(t *testing.T) {
	_, err := Resolve(Policy("nope"), 0x41, allFree)
	if !errors.Is(err, errors.ErrCodeInvalidPolicy) {
		t.Errorf("Resolve(nope) error = %v", err)
	}
}

func TestResolveIdempotent(t *testing.T) {
	for _, p := range Policies {
		first, err := Resolve(p, 0x41, allFree)
		if err != nil {
			t.Fatalf("Resolve(%s) error: %v", p, err)
		}
		second, err := Resolve(p, first, allFree)
		if err != nil {
			t.Fatalf("Resolve(%s) error: %v", p, err)
		}
		if first != second {
			t.Errorf("Resolve(%s) not idempotent: %#x then %#x", p, first, second)
		}
	}
}
