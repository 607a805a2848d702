// Package codes implements the code point rules for icon glyphs.
//
// A glyph can only be mapped to a code point that is a Unicode scalar value
// usable in XML and in font cmap tables. [Valid] encodes that rule. On top of
// it, three allocation policies decide which code a glyph receives when it is
// selected:
//
//   - [PUA]: the first free code in the Private Use Area range 0xE800–0xF8FF
//   - [ASCII]: the first free printable ASCII code (0x21–0x7E), falling back to PUA
//   - [Unicode]: the requested code if it is valid and free, else PUA
//
// Every policy prefers the glyph's present code when it already satisfies the
// policy, so re-allocating an untouched glyph is idempotent.
//
// The package is stateless: whether a code is taken is answered by a [FreeFunc]
// supplied by the caller, which owns the allocation table (see package font).
package codes

import (
	"github.com/matzehuels/fontsmith/pkg/errors"
)

// Code point bounds.
const (
	Min rune = 0x0
	Max rune = 0x10FFFF

	PUAMin rune = 0xE800
	PUAMax rune = 0xF8FF

	ASCIIMin rune = 0x21
	ASCIIMax rune = 0x7E

	SurrogateMin rune = 0xD800
	SurrogateMax rune = 0xDFFF
)

// Policy selects how a code is chosen for a glyph.
type Policy string

// Allocation policies.
const (
	PUA     Policy = "pua"
	ASCII   Policy = "ascii"
	Unicode Policy = "unicode"
)

// Policies lists the supported policies in documentation order.
var Policies = []Policy{PUA, ASCII, Unicode}

// ParsePolicy converts a policy name to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PUA, ASCII, Unicode:
		return p, nil
	}
	return "", errors.New(errors.ErrCodeInvalidPolicy, "unknown encoding policy %q (must be one of: pua, ascii, unicode)", s)
}

// FreeFunc reports whether code can be taken by the glyph being allocated.
type FreeFunc func(code rune) bool

// Valid reports whether code may be assigned to a glyph.
//
// A code is valid if it lies in [0, 0x10FFFF], outside the UTF-16 surrogate
// block, and is not one of the reserved values: C0 controls other than TAB,
// LF and CR; DEL and the C1 controls other than NEL; the noncharacters
// U+FDD0–U+FDDF; and the two noncharacters at the end of every plane.
func Valid(code rune) bool {
	if code < Min || code > Max {
		return false
	}
	if code >= SurrogateMin && code <= SurrogateMax {
		return false
	}
	return !reserved(code)
}

func reserved(code rune) bool {
	switch {
	case code <= 0x8, code == 0xB, code == 0xC, code >= 0xE && code <= 0x1F:
		return true
	case code >= 0x7F && code <= 0x84, code >= 0x86 && code <= 0x9F:
		return true
	case code >= 0xFDD0 && code <= 0xFDDF:
		return true
	case code&0xFFFE == 0xFFFE:
		return true
	}
	return false
}

// InPUA reports whether code lies in the Private Use Area range used for
// automatic assignment.
func InPUA(code rune) bool { return code >= PUAMin && code <= PUAMax }

// InASCII reports whether code is a printable ASCII code.
func InASCII(code rune) bool { return code >= ASCIIMin && code <= ASCIIMax }

// Find returns the first code in [min, max] that is valid and free.
// The boolean is false when the range has no such code.
func Find(min, max rune, free FreeFunc) (rune, bool) {
	for code := min; code <= max; code++ {
		if Valid(code) && free(code) {
			return code, true
		}
	}
	return 0, false
}

// Resolve computes the code a glyph receives under policy p.
//
// preferred is the glyph's present (or requested) code. It is kept when it
// satisfies the policy and is free. Running out of Private Use Area codes is
// reported as ErrCodeCodesExhausted; there is no deeper fallback.
func Resolve(p Policy, preferred rune, free FreeFunc) (rune, error) {
	usable := Valid(preferred) && free(preferred)

	switch p {
	case PUA:
		if usable && InPUA(preferred) {
			return preferred, nil
		}
		return findPUA(free)
	case ASCII:
		if usable && InASCII(preferred) {
			return preferred, nil
		}
		if code, ok := Find(ASCIIMin, ASCIIMax, free); ok {
			return code, nil
		}
		return findPUA(free)
	case Unicode:
		if usable {
			return preferred, nil
		}
		return findPUA(free)
	}
	return 0, errors.New(errors.ErrCodeInvalidPolicy, "unknown encoding policy %q", string(p))
}

func findPUA(free FreeFunc) (rune, error) {
	if code, ok := Find(PUAMin, PUAMax, free); ok {
		return code, nil
	}
	return 0, errors.New(errors.ErrCodeCodesExhausted, "free glyph codes in the Private Use Area have run out")
}
