package vision

import "strings"

// TitlePolicy decides whether a page segment is the document's title or
// front matter rather than a numbered page.
type TitlePolicy interface {
	IsTitle(docName, segment string) bool
}

// NameInFirstLine treats a segment as the title when the document name
// appears in its first line.
type NameInFirstLine struct{}

// IsTitle implements TitlePolicy.
func (NameInFirstLine) IsTitle(docName, segment string) bool {
	first := segment
	if idx := strings.IndexAny(segment, "\r\n"); idx >= 0 {
		first = segment[:idx]
	}
	return strings.Contains(first, docName)
}

// NeverTitle numbers every segment as a page.
type NeverTitle struct{}

// IsTitle implements TitlePolicy.
func (NeverTitle) IsTitle(string, string) bool { return false }
