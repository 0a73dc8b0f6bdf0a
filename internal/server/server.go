// Package server exposes the portfolio document, the contact relay and the
// resume (download, details and rasterized pages) over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/gallery"
	"github.com/alnah/go-folio/internal/contact"
	"github.com/alnah/go-folio/internal/logging"
	"github.com/alnah/go-folio/internal/resume"
	"github.com/alnah/go-folio/portfolio"
)

// Defaults used when options are not given.
const (
	DefaultCacheTTL        = 10 * time.Minute
	DefaultShutdownTimeout = 10 * time.Second
	DefaultWorkTimeout     = 60 * time.Second
	DefaultThumbnailWidth  = 200
	readHeaderTimeout      = 10 * time.Second
)

// documentRasterizer renders in-memory documents. *folio.Rasterizer satisfies it.
type documentRasterizer interface {
	RasterizeBytes(ctx context.Context, name string, data []byte, scale float64) (*folio.Document, error)
	PageCount(data []byte) (int, error)
}

// documentFetcher downloads documents. *folio.Fetcher satisfies it.
type documentFetcher interface {
	Fetch(ctx context.Context, documentURL string) (*folio.FetchedDocument, error)
}

// resumeGenerator prints a portfolio as PDF. *resume.Pool satisfies it.
type resumeGenerator interface {
	Generate(ctx context.Context, p *portfolio.Portfolio) ([]byte, error)
}

// contactSender relays contact form messages. *contact.Relay satisfies it.
type contactSender interface {
	Send(ctx context.Context, msg contact.Message) error
}

// Compile-time interface checks.
var (
	_ documentRasterizer = (*folio.Rasterizer)(nil)
	_ documentFetcher    = (*folio.Fetcher)(nil)
	_ resumeGenerator    = (*resume.Pool)(nil)
	_ contactSender      = (*contact.Relay)(nil)
)

// Server is the portfolio HTTP API.
type Server struct {
	store      portfolio.Store
	relay      contactSender
	rasterizer documentRasterizer
	fetcher    documentFetcher
	generator  resumeGenerator

	resumeURL       string
	scale           float64
	corsOrigin      string
	galleryBase     string
	galleryExt      string
	galleryInterval time.Duration
	workTimeout     time.Duration
	cacheTTL        time.Duration
	shutdownTimeout time.Duration
	logger          logging.Logger

	sources *resumeCache[*folio.FetchedDocument]
	pages   *resumeCache[*folio.Document]
	flight  singleflight.Group
	handler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithRelay enables POST /api/contact.
func WithRelay(r *contact.Relay) Option {
	return func(s *Server) {
		if r != nil {
			s.relay = r
		}
	}
}

// WithRasterizer sets the page renderer.
func WithRasterizer(r *folio.Rasterizer) Option {
	return func(s *Server) {
		if r != nil {
			s.rasterizer = r
		}
	}
}

// WithFetcher sets the document downloader.
func WithFetcher(f *folio.Fetcher) Option {
	return func(s *Server) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithGenerator serves a printed resume when the portfolio has no resume link.
func WithGenerator(g resumeGenerator) Option {
	return func(s *Server) {
		s.generator = g
	}
}

// WithResumeURL overrides the portfolio's resume link.
func WithResumeURL(u string) Option {
	return func(s *Server) {
		s.resumeURL = u
	}
}

// WithScale sets the default rasterization scale.
func WithScale(scale float64) Option {
	if scale <= 0 {
		panic("server: WithScale scale must be positive")
	}
	return func(s *Server) {
		s.scale = scale
	}
}

// WithCacheTTL sets how long fetched and rasterized resumes are reused.
// Zero disables caching.
func WithCacheTTL(d time.Duration) Option {
	if d < 0 {
		panic("server: WithCacheTTL duration must not be negative")
	}
	return func(s *Server) {
		s.cacheTTL = d
	}
}

// WithCORSOrigin sets Access-Control-Allow-Origin. Empty disables CORS headers.
func WithCORSOrigin(origin string) Option {
	return func(s *Server) {
		s.corsOrigin = origin
	}
}

// WithGallery sets where project screenshots are hosted and how fast the
// front end should rotate them. A zero interval keeps the default.
func WithGallery(baseURL, ext string, interval time.Duration) Option {
	return func(s *Server) {
		s.galleryBase = baseURL
		s.galleryExt = ext
		if interval > 0 {
			s.galleryInterval = interval
		}
	}
}

// WithWorkTimeout bounds one fetch, generation or rasterization of the resume.
// The work is shared between concurrent requests, so it does not follow any
// single request's cancellation.
func WithWorkTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("server: WithWorkTimeout duration must be positive")
	}
	return func(s *Server) {
		s.workTimeout = d
	}
}

// WithShutdownTimeout bounds graceful shutdown in Run.
func WithShutdownTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("server: WithShutdownTimeout duration must be positive")
	}
	return func(s *Server) {
		s.shutdownTimeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Server over store.
func New(store portfolio.Store, opts ...Option) *Server {
	if store == nil {
		panic("server: store cannot be nil")
	}
	s := &Server{
		store:           store,
		scale:           folio.DefaultScale,
		corsOrigin:      "*",
		cacheTTL:        DefaultCacheTTL,
		shutdownTimeout: DefaultShutdownTimeout,
		galleryExt:      gallery.DefaultExt,
		galleryInterval: gallery.DefaultInterval,
		workTimeout:     DefaultWorkTimeout,
		logger:          logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.rasterizer == nil {
		s.rasterizer = folio.New(folio.WithLogger(s.logger))
	}
	if s.fetcher == nil {
		s.fetcher = folio.NewFetcher(nil, 0)
	}
	s.sources = newResumeCache[*folio.FetchedDocument](s.cacheTTL)
	s.pages = newResumeCache[*folio.Document](s.cacheTTL)
	s.handler = s.routes()
	return s
}

// Handler returns the HTTP handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	for _, path := range []string{"/api/portfolio", "/api/getAccountInfo"} {
		mux.HandleFunc("GET "+path, s.handleGetPortfolio)
		mux.HandleFunc("POST "+path, s.handlePutPortfolio)
	}
	mux.HandleFunc("GET /api/projects/{index}/images", s.handleProjectImages)
	mux.HandleFunc("POST /api/contact", s.handleContact)
	mux.HandleFunc("GET /api/resume", s.handleResumeDownload)
	mux.HandleFunc("GET /api/resume/info", s.handleResumeInfo)
	mux.HandleFunc("GET /api/resume/pages", s.handleResumePages)
	mux.HandleFunc("GET /api/resume/pages/{index}", s.handleResumePage)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return s.recoverPanics(s.logRequests(s.cors(mux)))
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	s.logger.Info("server listening", logging.String("addr", ln.Addr().String()))

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down", logging.Duration("timeout", s.shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}
