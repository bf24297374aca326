// Package outline implements the reader's navigation model: the ordered
// section outline, scroll spy, reading progress, filtering, and the
// desktop/mobile shells that bind them together.
package outline

// Section describes one collapsible unit of the document. Ordering of a
// []Section is document order, top to bottom.
type Section struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Level int    `json:"level" yaml:"level"`
}

// IDs returns the section ids in document order.
func IDs(sections []Section) []string {
	ids := make([]string, len(sections))
	for i, s := range sections {
		ids[i] = s.ID
	}
	return ids
}

// indexOf returns the rank of id in ids, or -1.
func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
