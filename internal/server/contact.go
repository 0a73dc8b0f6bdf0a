package server

import (
	"errors"
	"net/http"

	"github.com/alnah/go-folio/internal/contact"
)

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	if s.relay == nil {
		writeJSON(w, s.logger, http.StatusServiceUnavailable, contactBody{Error: msgContactFailed})
		return
	}

	var msg contact.Message
	if err := decodeJSON(w, r, &msg); err != nil {
		writeJSON(w, s.logger, http.StatusBadRequest, contactBody{Error: msgContactMissing})
		return
	}

	err := s.relay.Send(r.Context(), msg)
	switch {
	case err == nil:
		writeJSON(w, s.logger, http.StatusOK, contactBody{Success: true, Message: msgContactSent})
	case errors.Is(err, contact.ErrMissingField):
		writeJSON(w, s.logger, http.StatusBadRequest, contactBody{Error: msgContactMissing})
	case errors.Is(err, contact.ErrInvalidName), errors.Is(err, contact.ErrInvalidEmail), errors.Is(err, contact.ErrFieldTooLong):
		writeJSON(w, s.logger, http.StatusBadRequest, contactBody{Error: err.Error()})
	default:
		writeJSON(w, s.logger, http.StatusInternalServerError, contactBody{Error: msgContactFailed})
	}
}
