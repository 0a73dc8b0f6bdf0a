package folio

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-folio/internal/logging"
)

// Rasterizer converts paged documents into ordered page images.
// It is stateless between calls and safe for concurrent use; it never caches.
type Rasterizer struct {
	cfg     rasterConfig
	client  *http.Client
	logger  logging.Logger
	fetcher documentFetcher
	decoder pageDecoder
}

// New creates a Rasterizer with default configuration: PNG output,
// sequential rendering and the MuPDF decoder.
func New(opts ...Option) *Rasterizer {
	r := &Rasterizer{
		cfg: rasterConfig{
			format:      FormatPNG,
			jpegQuality: DefaultJPEGQuality,
			workers:     MinWorkers,
			maxSize:     DefaultMaxDocumentSize,
		},
		logger: logging.NopLogger{},
	}

	for _, opt := range opts {
		opt(r)
	}

	// Create collaborators if not injected (e.g., by tests)
	if r.fetcher == nil {
		r.fetcher = NewFetcher(r.client, r.cfg.maxSize)
	}
	if r.decoder == nil {
		r.decoder = fitzDecoder{}
	}

	return r
}

// Rasterize fetches documentURL and renders every page at scale
// (1.0 = one pixel per PDF point). Pages come back in document order.
//
// Failure is atomic: on any fetch, decode, render or encode error the
// returned document is nil and the error wraps one of ErrFetch, ErrDecode,
// ErrNoPages, ErrRender or ErrEncode. An oversized document is a fetch
// failure that also wraps ErrDocumentTooLarge.
func (r *Rasterizer) Rasterize(ctx context.Context, documentURL string, scale float64) (*Document, error) {
	if strings.TrimSpace(documentURL) == "" {
		return nil, ErrEmptyURL
	}
	if err := validateScale(scale); err != nil {
		return nil, err
	}

	start := time.Now()
	log := r.logger.With(logging.String("url", documentURL), logging.Float("scale", scale))

	fetched, err := r.fetcher.Fetch(ctx, documentURL)
	if err != nil {
		log.Warn("document fetch failed", logging.Err(err))
		return nil, err
	}

	pages, err := r.rasterizeData(ctx, fetched.Data, scale, log)
	if err != nil {
		log.Warn("rasterization failed", logging.Err(err))
		return nil, err
	}

	log.Info("document rasterized",
		logging.Int("pages", len(pages)),
		logging.Int64("bytes", fetched.Size),
		logging.Duration("took", time.Since(start)))

	return &Document{URL: documentURL, Scale: scale, Pages: pages}, nil
}

// RasterizeOrEmpty is the plain sequence contract: the complete page list,
// or an empty (non-nil) slice when anything failed.
func (r *Rasterizer) RasterizeOrEmpty(ctx context.Context, documentURL string, scale float64) []RasterPage {
	doc, err := r.Rasterize(ctx, documentURL, scale)
	if err != nil {
		return []RasterPage{}
	}
	return doc.Pages
}

// RasterizeBytes renders a document already held in memory, e.g. a generated resume.
// name is used only for logging and the Document URL.
func (r *Rasterizer) RasterizeBytes(ctx context.Context, name string, data []byte, scale float64) (*Document, error) {
	if err := validateScale(scale); err != nil {
		return nil, err
	}
	pages, err := r.rasterizeData(ctx, data, scale, r.logger.With(logging.String("source", name)))
	if err != nil {
		return nil, err
	}
	return &Document{URL: name, Scale: scale, Pages: pages}, nil
}

// PageCount opens the document and reports its page count without rendering.
func (r *Rasterizer) PageCount(data []byte) (int, error) {
	src, err := r.decoder.Open(data)
	if err != nil {
		return 0, wrapDecode(err)
	}
	defer src.Close()
	return src.NumPages(), nil
}

func (r *Rasterizer) rasterizeData(ctx context.Context, data []byte, scale float64, log logging.Logger) ([]RasterPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := r.decoder.Open(data)
	if err != nil {
		return nil, wrapDecode(err)
	}
	defer src.Close()

	n := src.NumPages()
	if n <= 0 {
		return nil, ErrNoPages
	}

	dpi := dpiForScale(scale)
	if r.cfg.workers <= 1 || n == 1 {
		return r.renderSequential(ctx, src, n, dpi, log)
	}
	return r.renderParallel(ctx, data, n, dpi, log)
}

// renderSequential renders pages one at a time in page order, so at most one
// page bitmap is alive during the pass.
func (r *Rasterizer) renderSequential(ctx context.Context, src pageSource, n int, dpi float64, log logging.Logger) ([]RasterPage, error) {
	pages := make([]RasterPage, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := r.renderPage(src, i, dpi)
		if err != nil {
			return nil, err
		}
		log.Debug("page rendered", logging.Int("page", i+1), logging.Int("width", page.Width), logging.Int("height", page.Height))
		pages = append(pages, page)
	}
	return pages, nil
}

// renderParallel spreads pages over workers, each with its own decoded copy
// of the document. Results land in their page slot, so order never depends
// on completion order; the first failure cancels the rest.
func (r *Rasterizer) renderParallel(ctx context.Context, data []byte, n int, dpi float64, log logging.Logger) ([]RasterPage, error) {
	workers := min(r.cfg.workers, n)
	pages := make([]RasterPage, n)

	jobs := make(chan int)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < n; i++ {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			src, err := r.decoder.Open(data)
			if err != nil {
				return wrapDecode(err)
			}
			defer src.Close()

			for i := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}
				page, err := r.renderPage(src, i, dpi)
				if err != nil {
					return err
				}
				log.Debug("page rendered", logging.Int("page", i+1), logging.Int("worker", w))
				pages[i] = page
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

// renderPage rasterizes and encodes one page. The bitmap goes out of scope
// on return regardless of outcome; only the encoded bytes survive.
func (r *Rasterizer) renderPage(src pageSource, index int, dpi float64) (RasterPage, error) {
	img, err := src.Render(index, dpi)
	if err != nil {
		return RasterPage{}, &PageError{Index: index, Stage: ErrRender, Err: err}
	}
	if img == nil || img.Bounds().Empty() {
		return RasterPage{}, &PageError{Index: index, Stage: ErrRender, Err: errors.New("empty bitmap")}
	}

	encoded, err := encodeImage(img, r.cfg.format, r.cfg.jpegQuality)
	if err != nil {
		return RasterPage{}, &PageError{Index: index, Stage: ErrEncode, Err: err}
	}

	b := img.Bounds()
	return RasterPage{
		Index:  index,
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: r.cfg.format,
		Image:  encoded,
	}, nil
}

func validateScale(scale float64) error {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return fmt.Errorf("%w: %v (must be a positive number)", ErrInvalidScale, scale)
	}
	return nil
}

func wrapDecode(err error) error {
	if errors.Is(err, ErrDecode) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrDecode, err)
}
