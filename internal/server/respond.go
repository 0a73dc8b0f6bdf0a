package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/alnah/go-folio/internal/logging"
)

// Response bodies shared with the portfolio front end.
const (
	msgPortfolioNotFound = "Portfolio data not found"
	msgPortfolioFetch    = "Error fetching portfolio data"
	msgPortfolioCreate   = "Error creating portfolio data"
	msgContactMissing    = "All fields required"
	msgContactSent       = "Message sent successfully!"
	msgContactFailed     = "Failed to send message"
	msgResumeMissing     = "Resume not available"
	msgResumeUnavailable = "Resume preview unavailable"
	msgBadRequest        = "Invalid request"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// messageBody is the {"message": ...} error shape.
type messageBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// contactBody is the contact endpoint's response shape.
type contactBody struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, log logging.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("response write failed", logging.Err(err))
	}
}

func writeMessage(w http.ResponseWriter, log logging.Logger, status int, msg string) {
	writeJSON(w, log, status, messageBody{Message: msg})
}

// decodeJSON reads one JSON value from a size-capped body.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("decoding request body: trailing data after JSON value")
	}
	return nil
}
