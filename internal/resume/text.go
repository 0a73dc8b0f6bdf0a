package resume

import (
	"regexp"
	"strings"
)

// Highlight placeholders are Private Use Area runes. goldmark passes them
// through untouched, so ==text== becomes <mark> without enabling raw HTML.
const (
	markStart = "\uE000"
	markEnd   = "\uE001"
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==(.*?)==`)
)

// prepareDescription normalizes a Markdown description typed into the
// portfolio admin form: CRLF line endings, runs of blank lines that would
// split the resume layout, and ==highlight== marks.
func prepareDescription(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = crlfOrCR.ReplaceAllString(s, "\n")
	s = highlightPattern.ReplaceAllString(s, markStart+"$1"+markEnd)
	return multipleBlankLines.ReplaceAllString(s, "\n\n")
}

// expandMarks turns highlight placeholders left in converted HTML into
// <mark> elements.
func expandMarks(html string) string {
	if !strings.Contains(html, markStart) {
		return html
	}
	return strings.NewReplacer(markStart, "<mark>", markEnd, "</mark>").Replace(html)
}
