package search

import "strings"

// Matcher holds a normalized query and decides whether candidate records
// match it. The zero query matches nothing.
type Matcher struct {
	query string
}

// NewMatcher runs the raw user query through the same lowercase+normalize
// pipeline applied to candidates.
func NewMatcher(rawQuery string) *Matcher {
	return &Matcher{query: Normalize(rawQuery)}
}

// Empty reports whether the matcher has no query to match against.
// An empty query yields an empty result set, not match-all.
func (m *Matcher) Empty() bool {
	return m.query == ""
}

// Matches reports whether the normalized query is a substring of the
// normalized title or content. A hit in either field is sufficient.
func (m *Matcher) Matches(title, content string) bool {
	if m.Empty() {
		return false
	}
	return strings.Contains(Normalize(title), m.query) ||
		strings.Contains(Normalize(content), m.query)
}
