package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/alnah/go-folio/gallery"
	"github.com/alnah/go-folio/internal/logging"
	"github.com/alnah/go-folio/portfolio"
)

func (s *Server) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context())
	switch {
	case errors.Is(err, portfolio.ErrNotFound):
		writeMessage(w, s.logger, http.StatusNotFound, msgPortfolioNotFound)
	case err != nil:
		s.logger.Error("portfolio read failed", logging.Err(err))
		writeMessage(w, s.logger, http.StatusInternalServerError, msgPortfolioFetch)
	default:
		writeJSON(w, s.logger, http.StatusOK, p)
	}
}

// handlePutPortfolio creates or replaces the single portfolio document.
func (s *Server) handlePutPortfolio(w http.ResponseWriter, r *http.Request) {
	var p portfolio.Portfolio
	if err := decodeJSON(w, r, &p); err != nil {
		writeJSON(w, s.logger, http.StatusBadRequest, messageBody{Message: msgPortfolioCreate, Error: err.Error()})
		return
	}

	saved, err := s.store.Put(r.Context(), &p)
	switch {
	case isValidationError(err):
		writeJSON(w, s.logger, http.StatusBadRequest, messageBody{Message: msgPortfolioCreate, Error: err.Error()})
		return
	case err != nil:
		s.logger.Error("portfolio write failed", logging.Err(err))
		writeMessage(w, s.logger, http.StatusInternalServerError, msgPortfolioCreate)
		return
	}

	// The resume link may have changed.
	s.sources.Purge()
	s.pages.Purge()

	s.logger.Info("portfolio saved", logging.String("name", saved.About.Name))
	writeJSON(w, s.logger, http.StatusCreated, saved)
}

func isValidationError(err error) bool {
	return errors.Is(err, portfolio.ErrMissingField) ||
		errors.Is(err, portfolio.ErrFieldTooLong) ||
		errors.Is(err, portfolio.ErrInvalidLevel) ||
		errors.Is(err, portfolio.ErrInvalidValue) ||
		errors.Is(err, portfolio.ErrNilPortfolio)
}

// projectImages is the gallery payload for one project.
type projectImages struct {
	Title    string   `json:"title"`
	Images   []string `json:"images"`
	Interval int64    `json:"intervalMs"`
}

// handleProjectImages lists the screenshot URLs of the project at {index} (0-based).
func (s *Server) handleProjectImages(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		writeMessage(w, s.logger, http.StatusBadRequest, msgBadRequest)
		return
	}

	p, err := s.store.Get(r.Context())
	switch {
	case errors.Is(err, portfolio.ErrNotFound):
		writeMessage(w, s.logger, http.StatusNotFound, msgPortfolioNotFound)
		return
	case err != nil:
		s.logger.Error("portfolio read failed", logging.Err(err))
		writeMessage(w, s.logger, http.StatusInternalServerError, msgPortfolioFetch)
		return
	}
	if index >= len(p.Projects) {
		writeMessage(w, s.logger, http.StatusNotFound, "Project not found")
		return
	}

	pr := p.Projects[index]
	writeJSON(w, s.logger, http.StatusOK, projectImages{
		Title:    pr.Title,
		Images:   gallery.ImageURLs(s.galleryBase, pr.S3Folder, pr.ImageCount, s.galleryExt),
		Interval: s.galleryInterval.Milliseconds(),
	})
}
