package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/logging"
	"github.com/alnah/go-folio/internal/resume"
	"github.com/alnah/go-folio/portfolio"
)

// maxQueryScale caps ?scale so one request cannot ask for poster-sized pages.
const maxQueryScale = 10.0

var (
	// errNoResume means neither a resume link nor a generator is available.
	errNoResume = errors.New("no resume configured")
	errGenerate = errors.New("generating resume")
)

// Reasons reported with 502 responses so the front end can tell a broken
// link from a broken document.
const (
	reasonFetch    = "fetch"
	reasonTooLarge = "too_large"
	reasonDecode   = "decode"
	reasonNoPages  = "no_pages"
	reasonRender   = "render"
	reasonGenerate = "generate"
)

// resumeSource is the resume document plus the cache key it is stored under.
type resumeSource struct {
	key string
	doc *folio.FetchedDocument
}

// pageJSON is one rasterized page as returned by /api/resume/pages.
type pageJSON struct {
	Index  int    `json:"index"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Src    string `json:"src"`
}

// source resolves the resume in order: the configured override, the
// portfolio's resume link, then a resume printed from the portfolio.
func (s *Server) source(ctx context.Context) (*resumeSource, error) {
	if s.resumeURL != "" {
		return s.fetchSource(ctx, s.resumeURL)
	}

	p, err := s.store.Get(ctx)
	switch {
	case errors.Is(err, portfolio.ErrNotFound):
		return nil, errNoResume
	case err != nil:
		return nil, err
	}

	if u := p.ResumeURL(); u != "" {
		return s.fetchSource(ctx, u)
	}
	if s.generator == nil {
		return nil, errNoResume
	}
	return s.generateSource(ctx, p)
}

func (s *Server) fetchSource(ctx context.Context, documentURL string) (*resumeSource, error) {
	key := "url:" + documentURL
	doc, err := s.cachedSource(ctx, key, func(ctx context.Context) (*folio.FetchedDocument, error) {
		return s.fetcher.Fetch(ctx, documentURL)
	})
	if err != nil {
		return nil, err
	}
	return &resumeSource{key: key, doc: doc}, nil
}

func (s *Server) generateSource(ctx context.Context, p *portfolio.Portfolio) (*resumeSource, error) {
	key := "generated:" + p.UpdatedAt.UTC().Format(time.RFC3339Nano)
	doc, err := s.cachedSource(ctx, key, func(ctx context.Context) (*folio.FetchedDocument, error) {
		data, err := s.generator.Generate(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errGenerate, err)
		}
		return &folio.FetchedDocument{
			URL:          key,
			Name:         resume.FileName(p.About.Name, "pdf"),
			Data:         data,
			ContentType:  "application/pdf",
			Size:         int64(len(data)),
			LastModified: p.UpdatedAt,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &resumeSource{key: key, doc: doc}, nil
}

// cachedSource returns the cached document for key, or runs load once for
// all concurrent callers and caches the result.
func (s *Server) cachedSource(ctx context.Context, key string, load func(context.Context) (*folio.FetchedDocument, error)) (*folio.FetchedDocument, error) {
	if doc, ok := s.sources.Get(key); ok {
		return doc, nil
	}
	return shared(ctx, s, "source:"+key, func(ctx context.Context) (*folio.FetchedDocument, error) {
		doc, err := load(ctx)
		if err != nil {
			return nil, err
		}
		s.sources.Put(key, doc)
		return doc, nil
	})
}

// rasterized returns the resume rendered at scale, from cache when possible.
func (s *Server) rasterized(ctx context.Context, scale float64) (*folio.Document, error) {
	src, err := s.source(ctx)
	if err != nil {
		return nil, err
	}

	key := src.key + "@" + strconv.FormatFloat(scale, 'g', -1, 64)
	if doc, ok := s.pages.Get(key); ok {
		return doc, nil
	}
	return shared(ctx, s, "pages:"+key, func(ctx context.Context) (*folio.Document, error) {
		doc, err := s.rasterizer.RasterizeBytes(ctx, src.doc.Name, src.doc.Data, scale)
		if err != nil {
			return nil, err
		}
		s.pages.Put(key, doc)
		return doc, nil
	})
}

// shared runs fn once per key across concurrent callers. fn gets a context
// detached from the caller and bounded by the work timeout; each caller
// still stops waiting when its own ctx ends.
func shared[T any](ctx context.Context, s *Server, key string, fn func(context.Context) (T, error)) (T, error) {
	ch := s.flight.DoChan(key, func() (any, error) {
		workCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.workTimeout)
		defer cancel()
		return fn(workCtx)
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// handleResumeDownload serves the resume bytes unmodified as an attachment.
func (s *Server) handleResumeDownload(w http.ResponseWriter, r *http.Request) {
	src, err := s.source(r.Context())
	if err != nil {
		s.writeResumeError(w, r, err)
		return
	}

	contentType := src.doc.ContentType
	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
		contentType = "application/pdf"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": src.doc.Name}))
	http.ServeContent(w, r, src.doc.Name, src.doc.LastModified, bytes.NewReader(src.doc.Data))
}

// handleResumeInfo reports the details panel: name, size, date, pages.
func (s *Server) handleResumeInfo(w http.ResponseWriter, r *http.Request) {
	src, err := s.source(r.Context())
	if err != nil {
		s.writeResumeError(w, r, err)
		return
	}

	pages, err := s.rasterizer.PageCount(src.doc.Data)
	if err != nil {
		s.writeResumeError(w, r, err)
		return
	}

	info := folio.InfoFromMeta(&folio.DocumentMeta{
		URL:          src.doc.URL,
		Name:         src.doc.Name,
		Size:         src.doc.Size,
		LastModified: src.doc.LastModified,
	}, pages)
	writeJSON(w, s.logger, http.StatusOK, info)
}

// handleResumePages returns every page as a data URI, in document order.
func (s *Server) handleResumePages(w http.ResponseWriter, r *http.Request) {
	scale, ok := s.queryScale(w, r)
	if !ok {
		return
	}

	doc, err := s.rasterized(r.Context(), scale)
	if err != nil {
		s.writeResumeError(w, r, err)
		return
	}

	out := make([]pageJSON, len(doc.Pages))
	for i, p := range doc.Pages {
		out[i] = pageJSON{Index: p.Index, Width: p.Width, Height: p.Height, Src: p.DataURI()}
	}
	writeJSON(w, s.logger, http.StatusOK, out)
}

// handleResumePage serves one page (0-based) as an image. ?width or
// ?thumbnail downsizes it.
func (s *Server) handleResumePage(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		writeMessage(w, s.logger, http.StatusBadRequest, msgBadRequest)
		return
	}
	width, ok := s.queryWidth(w, r)
	if !ok {
		return
	}
	scale, ok := s.queryScale(w, r)
	if !ok {
		return
	}

	doc, err := s.rasterized(r.Context(), scale)
	if err != nil {
		s.writeResumeError(w, r, err)
		return
	}

	page, err := doc.Page(index)
	if err != nil {
		writeMessage(w, s.logger, http.StatusNotFound, "Page not found")
		return
	}
	if width > 0 {
		if page, err = folio.Thumbnail(page, width); err != nil {
			s.writeResumeError(w, r, err)
			return
		}
	}

	w.Header().Set("Content-Type", page.Format.MIMEType())
	w.Header().Set("Content-Length", strconv.Itoa(len(page.Image)))
	w.Header().Set("Cache-Control", "private, max-age="+strconv.Itoa(int(s.cacheTTL.Seconds())))
	if _, err := w.Write(page.Image); err != nil {
		s.logger.Warn("response write failed", logging.Err(err))
	}
}

func (s *Server) queryScale(w http.ResponseWriter, r *http.Request) (float64, bool) {
	v := r.URL.Query().Get("scale")
	if v == "" {
		return s.scale, true
	}
	scale, err := strconv.ParseFloat(v, 64)
	if err != nil || scale <= 0 || scale > maxQueryScale {
		writeJSON(w, s.logger, http.StatusBadRequest, messageBody{
			Message: msgBadRequest,
			Error:   "scale must be a number in (0, " + strconv.FormatFloat(maxQueryScale, 'g', -1, 64) + "]",
		})
		return 0, false
	}
	return scale, true
}

func (s *Server) queryWidth(w http.ResponseWriter, r *http.Request) (int, bool) {
	q := r.URL.Query()
	v := q.Get("width")
	if v == "" {
		if q.Has("thumbnail") {
			return DefaultThumbnailWidth, true
		}
		return 0, true
	}
	width, err := strconv.Atoi(v)
	if err != nil || width <= 0 {
		writeJSON(w, s.logger, http.StatusBadRequest, messageBody{Message: msgBadRequest, Error: "width must be a positive integer"})
		return 0, false
	}
	return width, true
}

// writeResumeError maps a resume failure to a status. Broken links and
// documents are 502 with a reason; a missing resume is 404.
func (s *Server) writeResumeError(w http.ResponseWriter, r *http.Request, err error) {
	var fe *folio.FetchError
	status, reason := http.StatusBadGateway, ""

	switch {
	case errors.Is(err, errNoResume):
		writeMessage(w, s.logger, http.StatusNotFound, msgResumeMissing)
		return
	case errors.Is(err, context.Canceled) && r.Context().Err() != nil:
		// Client went away.
		return
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.Is(err, folio.ErrDocumentTooLarge):
		reason = reasonTooLarge
	case errors.As(err, &fe):
		reason = reasonFetch
		if fe.NotFound() {
			status = http.StatusNotFound
		}
	case errors.Is(err, folio.ErrDecode):
		reason = reasonDecode
	case errors.Is(err, folio.ErrNoPages):
		reason = reasonNoPages
	case errors.Is(err, folio.ErrRender), errors.Is(err, folio.ErrEncode):
		reason = reasonRender
	case errors.Is(err, errGenerate):
		reason = reasonGenerate
	default:
		status = http.StatusInternalServerError
	}

	s.logger.Error("resume unavailable",
		logging.String("path", r.URL.Path),
		logging.Int("status", status),
		logging.Err(err))
	writeJSON(w, s.logger, status, messageBody{Message: msgResumeUnavailable, Reason: reason})
}
