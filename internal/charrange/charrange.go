// Package charrange parses and represents Unicode code point intervals used to
// detect untranslated text.
package charrange

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Range is an inclusive code point interval.
type Range struct {
	Lo rune
	Hi rune
}

// CJKUnified is the CJK Unified Ideographs block, U+4E00 to U+9FFF.
var CJKUnified = Range{Lo: 0x4E00, Hi: 0x9FFF}

func (rg Range) String() string {
	return fmt.Sprintf("U+%04X-U+%04X", rg.Lo, rg.Hi)
}

// Parse parses "LO-HI" where both bounds are hexadecimal code points with an
// optional "U+" or "0x" prefix. A single code point ("3007") yields a
// one-element range.
func Parse(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, fmt.Errorf("empty range")
	}

	lo, hi, found := strings.Cut(s, "-")
	loRune, err := parseCodePoint(lo)
	if err != nil {
		return Range{}, fmt.Errorf("invalid range %q: %w", s, err)
	}
	hiRune := loRune
	if found {
		hiRune, err = parseCodePoint(hi)
		if err != nil {
			return Range{}, fmt.Errorf("invalid range %q: %w", s, err)
		}
	}

	if loRune > hiRune {
		return Range{}, fmt.Errorf("invalid range %q: lower bound exceeds upper bound", s)
	}
	return Range{Lo: loRune, Hi: hiRune}, nil
}

// ParseAll parses every entry, failing on the first invalid one.
func ParseAll(entries []string) ([]Range, error) {
	ranges := make([]Range, 0, len(entries))
	for _, s := range entries {
		rg, err := Parse(s)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, rg)
	}
	return ranges, nil
}

func parseCodePoint(s string) (rune, error) {
	s = strings.TrimSpace(s)
	upper := strings.ToUpper(s)
	switch {
	case strings.HasPrefix(upper, "U+"), strings.HasPrefix(upper, "0X"):
		s = s[2:]
	}
	if s == "" {
		return 0, fmt.Errorf("missing code point")
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("code point %q is not hexadecimal", s)
	}
	if v > utf8.MaxRune {
		return 0, fmt.Errorf("code point %q is beyond U+10FFFF", s)
	}
	return rune(v), nil
}
