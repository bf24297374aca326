package outline

import "strings"

// Filter returns the sections whose title contains query, ignoring case and
// surrounding whitespace. An empty query returns sections unchanged. The
// result keeps document order and may be empty.
func Filter(query string, sections []Section) []Section {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return sections
	}
	matched := make([]Section, 0, len(sections))
	for _, s := range sections {
		if strings.Contains(strings.ToLower(s.Title), normalized) {
			matched = append(matched, s)
		}
	}
	return matched
}
