package resume

import (
	"context"
	"fmt"
	"html"
	"io"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-folio/internal/hints"
)

// pdfRenderer abstracts printing an HTML file so generators can be tested
// without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error)
	Close() error
}

// Compile-time interface check.
var _ pdfRenderer = (*rodRenderer)(nil)

// pdfOptions holds per-document print options.
type pdfOptions struct {
	Footer *footerData
}

// footerData is printed at the bottom of every page.
type footerData struct {
	Text           string
	ShowPageNumber bool
}

// PDF page dimensions in inches (US Letter format).
const (
	paperWidthInches       = 8.5
	paperHeightInches      = 11
	marginInches           = 0.5
	marginBottomWithFooter = 0.75
)

const footerFontFamily = "-apple-system, 'Segoe UI', Helvetica, Arial, sans-serif"

// rodRenderer prints HTML through headless Chrome via go-rod.
// Rod downloads Chromium on first run if no browser is found.
type rodRenderer struct {
	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser. Caller holds mu.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()
	host := hints.DetectHost()
	if host.BrowserBin != "" {
		l = l.Bin(host.BrowserBin)
	}
	// Chrome's sandbox needs user namespaces most containers lack.
	if host.NoSandbox || host.Container != "" || host.CI || host.BrowserBin != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		killLauncher(l)
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l
	r.browser = browser
	return nil
}

// Close shuts the browser down. Chrome spawns helper processes that can
// outlive the main one, so the whole process group is killed afterwards.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		killLauncher(r.launcher)
		r.launcher = nil
	}
	return err
}

func killLauncher(l *launcher.Launcher) {
	if pid := l.PID(); pid > 0 {
		killBrowserTree(pid)
	}
	l.Kill()
}

// RenderFromFile opens a local HTML file in headless Chrome and prints it.
// One browser serves one document at a time.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	page = page.Context(ctx).Timeout(timeout)
	if err := page.WaitLoad(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	reader, err := page.PDF(buildPDFOptions(opts))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return data, nil
}

// buildPDFOptions constructs proto.PagePrintToPDF with an optional footer.
func buildPDFOptions(opts *pdfOptions) *proto.PagePrintToPDF {
	hasFooter := opts != nil && opts.Footer != nil

	marginBottom := marginInches
	if hasFooter {
		marginBottom = marginBottomWithFooter
	}

	pdfOpts := &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginBottom),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	}

	if hasFooter {
		pdfOpts.DisplayHeaderFooter = true
		pdfOpts.HeaderTemplate = "<span></span>"
		pdfOpts.FooterTemplate = buildFooterTemplate(opts.Footer)
	}
	return pdfOpts
}

// buildFooterTemplate generates Chrome's native footer markup. Chrome fills
// the pageNumber and totalPages classes.
func buildFooterTemplate(data *footerData) string {
	if data == nil || (data.Text == "" && !data.ShowPageNumber) {
		return "<span></span>"
	}

	content := html.EscapeString(data.Text)
	if data.ShowPageNumber {
		pages := `<span class="pageNumber"></span>/<span class="totalPages"></span>`
		if content != "" {
			content += " · "
		}
		content += pages
	}

	return fmt.Sprintf(`<div style="font-size: 9px; font-family: %s; color: #888; width: 100%%; text-align: right; padding: 0 0.5in;">%s</div>`,
		footerFontFamily, content)
}

func floatPtr(v float64) *float64 {
	return &v
}
