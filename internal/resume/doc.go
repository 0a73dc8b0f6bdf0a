// Package resume prints a portfolio as a PDF resume.
//
// Generation runs in three stages:
//
//	Portfolio ──► Markdown ──► HTML page (goldmark + style) ──► PDF (headless Chrome)
//
// The Markdown stage is pure and deterministic for a given clock, which keeps
// it easy to test. The HTML stage wraps goldmark output in a page template and
// CSS style loaded through internal/assets, so a custom assets directory can
// restyle the resume without rebuilding. The PDF stage drives Chrome through
// go-rod; each Generator owns one browser, started on first use.
//
// Pool hands out Generators to concurrent callers, creating them lazily up
// to a fixed size.
package resume
