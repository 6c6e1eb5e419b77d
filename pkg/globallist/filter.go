package globallist

import (
	"strings"

	"github.com/gobwas/glob"
)

// globMeta are the characters that switch a search from substring to glob matching.
const globMeta = "*?[{"

// Matcher decides whether a name or value matches the operator's search text.
// Blank text matches everything, text with glob metacharacters is matched as a
// case-insensitive glob, anything else as a case-insensitive substring.
type Matcher struct {
	text string
	g    glob.Glob
}

// NewMatcher compiles search text into a Matcher. Surrounding whitespace is
// ignored. A malformed glob falls back to substring matching of the raw text.
func NewMatcher(text string) *Matcher {
	text = strings.TrimSpace(text)
	m := &Matcher{text: strings.ToLower(text)}
	if text == "" || !strings.ContainsAny(text, globMeta) {
		return m
	}
	if g, err := glob.Compile(m.text); err == nil {
		m.g = g
	}
	return m
}

// Match reports whether s satisfies the search.
func (m *Matcher) Match(s string) bool {
	if m.text == "" {
		return true
	}
	lower := strings.ToLower(s)
	if m.g != nil {
		return m.g.Match(lower)
	}
	return strings.Contains(lower, m.text)
}

// Filter returns the values matching text, preserving order.
func Filter(values []string, text string) []string {
	m := NewMatcher(text)
	out := make([]string, 0, len(values))
	for _, v := range values {
		if m.Match(v) {
			out = append(out, v)
		}
	}
	return out
}

// ContainsFold reports whether values holds an entry equal to value, ignoring case.
func ContainsFold(values []string, value string) bool {
	for _, v := range values {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}
