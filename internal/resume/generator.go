package resume

import (
	"context"
	"fmt"
	"time"

	"github.com/alnah/go-folio/internal/assets"
	"github.com/alnah/go-folio/internal/dateutil"
	"github.com/alnah/go-folio/internal/fileutil"
	"github.com/alnah/go-folio/internal/logging"
	"github.com/alnah/go-folio/portfolio"
)

// DefaultTimeout bounds page load and printing when the caller's context
// has no deadline.
const DefaultTimeout = 30 * time.Second

// Generator turns a portfolio into a PDF resume. It owns one browser, so
// Generate calls on the same Generator are serialized; use a Pool for
// concurrency.
type Generator struct {
	converter  htmlConverter
	renderer   pdfRenderer
	page       *pageTemplate
	style      string
	assetsDir  string
	baseDir    string
	timeout    time.Duration
	dateFormat string
	now        func() time.Time
	logger     logging.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithStyle selects the CSS style by name.
func WithStyle(name string) Option {
	return func(g *Generator) {
		if name != "" {
			g.style = name
		}
	}
}

// WithAssetsDir points at a directory whose styles/ and templates/ override
// the embedded ones.
func WithAssetsDir(dir string) Option {
	return func(g *Generator) {
		g.assetsDir = dir
	}
}

// WithBaseDir resolves relative image and link paths in descriptions
// against dir, usually the directory holding the portfolio file.
func WithBaseDir(dir string) Option {
	return func(g *Generator) {
		g.baseDir = dir
	}
}

// WithTimeout bounds browser work.
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("resume: WithTimeout duration must be positive")
	}
	return func(g *Generator) {
		g.timeout = d
	}
}

// WithDateFormat sets the footer's "updated" date format (dateutil tokens or preset).
func WithDateFormat(format string) Option {
	return func(g *Generator) {
		if format != "" {
			g.dateFormat = format
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a Generator. Assets are resolved eagerly so a bad style name
// fails here instead of on the first request. The browser starts on first use.
func New(opts ...Option) (*Generator, error) {
	g := &Generator{
		converter:  newGoldmarkConverter(),
		style:      assets.DefaultStyleName,
		timeout:    DefaultTimeout,
		dateFormat: dateutil.DefaultDocumentDateFormat,
		now:        time.Now,
		logger:     logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(g)
	}

	if _, err := dateutil.ParseDateFormat(g.dateFormat); err != nil {
		return nil, err
	}

	resolver, err := assets.NewAssetResolver(g.assetsDir)
	if err != nil {
		return nil, err
	}
	style, err := resolver.LoadStyle(g.style)
	if err != nil {
		return nil, err
	}
	source, err := resolver.LoadTemplate(assets.DefaultTemplateName)
	if err != nil {
		return nil, err
	}
	if g.page, err = newPageTemplate(source, style); err != nil {
		return nil, err
	}

	g.renderer = newRodRenderer(g.timeout)
	return g, nil
}

// Markdown renders the intermediate Markdown for p.
func (g *Generator) Markdown(p *portfolio.Portfolio) (string, error) {
	if p == nil {
		return "", ErrNilPortfolio
	}
	return BuildMarkdown(p, g.now()), nil
}

// HTML renders p as a standalone HTML page.
func (g *Generator) HTML(ctx context.Context, p *portfolio.Portfolio) (string, error) {
	md, err := g.Markdown(p)
	if err != nil {
		return "", err
	}
	fragment, err := g.converter.ToHTML(ctx, md)
	if err != nil {
		return "", err
	}
	if fragment, err = relinkLocalAssets(fragment, g.baseDir); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	return g.page.Render(p.About.Name+" - Resume", fragment)
}

// Generate prints p as a PDF.
func (g *Generator) Generate(ctx context.Context, p *portfolio.Portfolio) ([]byte, error) {
	start := time.Now()

	page, err := g.HTML(ctx, p)
	if err != nil {
		return nil, err
	}

	path, cleanup, err := fileutil.WriteTempFile(page, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	footer := &footerData{ShowPageNumber: true, Text: p.About.Name}
	if updated := lastUpdated(p, g.dateFormat); updated != "" && !p.UpdatedAt.IsZero() {
		footer.Text = fmt.Sprintf("%s · Updated %s", p.About.Name, updated)
	}

	data, err := g.renderer.RenderFromFile(ctx, path, &pdfOptions{Footer: footer})
	if err != nil {
		return nil, err
	}

	g.logger.Debug("resume generated",
		logging.String("style", g.style),
		logging.Int("bytes", len(data)),
		logging.Duration("elapsed", time.Since(start)))
	return data, nil
}

// Close releases the browser.
func (g *Generator) Close() error {
	return g.renderer.Close()
}
