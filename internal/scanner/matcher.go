package scanner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dbsmedya/i18nkit/internal/charrange"
)

// Matcher tests text for characters inside a set of code point ranges.
type Matcher struct {
	ranges  []charrange.Range
	pattern *regexp.Regexp
}

// LineMatch is a line containing at least one target character.
type LineMatch struct {
	Line int // 1-based
	Text string
}

// NewMatcher builds a Matcher for ranges. With no ranges it matches CJK
// Unified Ideographs.
func NewMatcher(ranges ...charrange.Range) (*Matcher, error) {
	if len(ranges) == 0 {
		ranges = []charrange.Range{charrange.CJKUnified}
	}

	var class strings.Builder
	class.WriteString("[")
	for _, rg := range ranges {
		if rg.Lo > rg.Hi {
			return nil, fmt.Errorf("invalid range %s", rg)
		}
		fmt.Fprintf(&class, `\x{%X}-\x{%X}`, rg.Lo, rg.Hi)
	}
	class.WriteString("]+")

	pattern, err := regexp.Compile(class.String())
	if err != nil {
		return nil, fmt.Errorf("failed to compile character class: %w", err)
	}
	return &Matcher{ranges: ranges, pattern: pattern}, nil
}

// Ranges returns the configured ranges.
func (m *Matcher) Ranges() []charrange.Range {
	return m.ranges
}

// Match reports whether s contains any target character.
func (m *Matcher) Match(s string) bool {
	return m.pattern.MatchString(s)
}

// FindLines returns every line of s that contains a target character.
func (m *Matcher) FindLines(s string) []LineMatch {
	var matches []LineMatch
	for i, line := range strings.Split(s, "\n") {
		if m.pattern.MatchString(line) {
			matches = append(matches, LineMatch{
				Line: i + 1,
				Text: strings.TrimRight(line, "\r"),
			})
		}
	}
	return matches
}
