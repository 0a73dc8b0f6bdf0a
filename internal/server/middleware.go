package server

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/rs/cors"

	"github.com/alnah/go-folio/internal/logging"
)

// statusRecorder captures the status code and body size for request logs.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		fields := []logging.Field{
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", rec.status),
			logging.Int("bytes", rec.bytes),
			logging.Duration("took", time.Since(start)),
		}
		if rec.status >= http.StatusInternalServerError {
			s.logger.Warn("http request", fields...)
			return
		}
		s.logger.Info("http request", fields...)
	})
}

// cors allows the portfolio front end to call the API from another origin.
// An empty origin disables CORS headers.
func (s *Server) cors(next http.Handler) http.Handler {
	if s.corsOrigin == "" {
		return next
	}
	return cors.New(cors.Options{
		AllowedOrigins: []string{s.corsOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"Content-Disposition", "Content-Length", "Last-Modified"},
		MaxAge:         600,
		Logger:         corsLogger{s.logger},
	}).Handler(next)
}

// corsLogger routes rs/cors decisions to debug logs.
type corsLogger struct{ l logging.Logger }

func (c corsLogger) Printf(format string, args ...any) {
	c.l.Debug("cors", logging.String("detail", fmt.Sprintf(format, args...)))
}

func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				s.logger.Error("handler panic",
					logging.String("path", r.URL.Path),
					logging.String("panic", fmt.Sprint(v)),
					logging.String("stack", string(debug.Stack())))
				writeMessage(w, s.logger, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
