package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

type logData struct {
	responseStatus int
	responseSize   int
}

type logWriter struct {
	http.ResponseWriter
	data        logData
	wroteHeader bool
}

func (w *logWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	size, err := w.ResponseWriter.Write(p)
	w.data.responseSize += size
	return size, err
}

func (w *logWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.data.responseStatus = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// Let http.ResponseController reach the underlying writer
func (w *logWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Log every request once it is served. Server errors are logged at error level
func LoggerMiddleware(l logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			lw := &logWriter{
				ResponseWriter: w,
				data:           logData{responseStatus: http.StatusOK, responseSize: 0},
			}

			next.ServeHTTP(lw, r)

			// Matched chi pattern like /api/chirps/{chirpID}; empty outside chi router
			var route string
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}

			log := l.Info
			if lw.data.responseStatus >= http.StatusInternalServerError {
				log = l.Error
			}

			log(
				"got HTTP request",
				"method", r.Method,
				"uri", r.RequestURI,
				"route", route,
				"duration", time.Since(start),
				"status", lw.data.responseStatus,
				"size", lw.data.responseSize,
			)
		})
	}
}
