package resume

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// htmlConverter abstracts Markdown to HTML fragment conversion.
type htmlConverter interface {
	ToHTML(ctx context.Context, markdown string) (string, error)
}

// Compile-time interface check.
var _ htmlConverter = (*goldmarkConverter)(nil)

// goldmarkConverter converts Markdown to an HTML fragment.
type goldmarkConverter struct {
	md goldmark.Markdown
}

// newGoldmarkConverter creates a converter with GFM, typographic quotes and
// class-based chroma highlighting for code blocks in descriptions.
func newGoldmarkConverter() *goldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // styles provide the .chroma classes
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
			// Raw HTML in portfolio text stays escaped: no html.WithUnsafe().
		),
	)
	return &goldmarkConverter{md: md}
}

// ToHTML converts Markdown to an HTML fragment. goldmark has no context
// support, so conversion runs in a goroutine raced against ctx.
func (c *goldmarkConverter) ToHTML(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(markdown), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: expandMarks(buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// pageData feeds the page template.
type pageData struct {
	Title string
	Lang  string
	Style template.CSS
	Body  template.HTML
}

// pageTemplate wraps converted fragments into a full HTML document.
type pageTemplate struct {
	tmpl  *template.Template
	style string
}

func newPageTemplate(source, style string) (*pageTemplate, error) {
	tmpl, err := template.New("resume").Option("missingkey=error").Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	return &pageTemplate{tmpl: tmpl, style: style}, nil
}

// Render fills the template. The fragment comes from goldmark with raw HTML
// disabled, so it is trusted as markup.
func (t *pageTemplate) Render(title, fragment string) (string, error) {
	var b strings.Builder
	data := pageData{
		Title: title,
		Lang:  "en",
		Style: template.CSS(t.style),   // #nosec G203 -- style comes from embedded or operator assets
		Body:  template.HTML(fragment), // #nosec G203 -- goldmark escapes raw HTML
	}
	if err := t.tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	return b.String(), nil
}
