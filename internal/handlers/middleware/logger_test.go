package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type logCall struct {
	level string
	msg   string
	args  []any
}

type recordingLogger struct {
	calls []logCall
}

func (l *recordingLogger) Info(msg string, v ...any) {
	l.calls = append(l.calls, logCall{"info", msg, v})
}

func (l *recordingLogger) Error(msg string, v ...any) {
	l.calls = append(l.calls, logCall{"error", msg, v})
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err, "should make request to test server")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "should read response body")
	defer resp.Body.Close() // nolint:errcheck

	return resp.StatusCode, string(body)
}

func TestLoggerMiddleware(t *testing.T) {
	t.Run("logs request fields", func(t *testing.T) {
		logger := &recordingLogger{}

		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			_, err := w.Write([]byte("hi"))
			require.NoError(t, err, "should write response")
		})

		srv := httptest.NewServer(LoggerMiddleware(logger)(h))
		defer srv.Close()

		status, body := get(t, srv.URL+"/test")

		require.Equalf(t, http.StatusTeapot, status, "should return status Teapot. Resp: %s", body)
		require.Equal(t, "hi", body, "should return 'hi' in response")

		require.Len(t, logger.calls, 1, "logger should be called once")
		call := logger.calls[0]
		require.Equal(t, "info", call.level)
		require.Equal(t, "got HTTP request", call.msg, "logger should log 'got HTTP request'")
		require.Len(t, call.args, 12, "logger should log 12 fields")
		require.Equal(t, "method", call.args[0])
		require.Equal(t, "GET", call.args[1])
		require.Equal(t, "uri", call.args[2])
		require.Equal(t, "/test", call.args[3])
		require.Equal(t, "route", call.args[4])
		require.Equal(t, "", call.args[5], "no route pattern outside chi")
		require.Equal(t, "duration", call.args[6])
		require.NotEmpty(t, call.args[7], "duration should not be empty")
		require.Equal(t, "status", call.args[8])
		require.Equal(t, http.StatusTeapot, call.args[9])
		require.Equal(t, "size", call.args[10])
		require.Equal(t, 2, call.args[11], "size should be 2 (length of 'hi')")
	})

	t.Run("implicit ok status", func(t *testing.T) {
		logger := &recordingLogger{}

		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("hello"))
		})

		srv := httptest.NewServer(LoggerMiddleware(logger)(h))
		defer srv.Close()

		status, _ := get(t, srv.URL)

		require.Equal(t, http.StatusOK, status)
		require.Len(t, logger.calls, 1)
		require.Equal(t, http.StatusOK, logger.calls[0].args[9])
		require.Equal(t, 5, logger.calls[0].args[11])
	})

	t.Run("server error logged as error", func(t *testing.T) {
		logger := &recordingLogger{}

		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		srv := httptest.NewServer(LoggerMiddleware(logger)(h))
		defer srv.Close()

		status, _ := get(t, srv.URL)

		require.Equal(t, http.StatusInternalServerError, status)
		require.Len(t, logger.calls, 1)
		require.Equal(t, "error", logger.calls[0].level)
	})

	t.Run("chi route pattern", func(t *testing.T) {
		logger := &recordingLogger{}

		r := chi.NewRouter()
		r.Use(LoggerMiddleware(logger))
		r.Get("/api/chirps/{chirpID}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		srv := httptest.NewServer(r)
		defer srv.Close()

		status, _ := get(t, srv.URL+"/api/chirps/42")

		require.Equal(t, http.StatusNoContent, status)
		require.Len(t, logger.calls, 1)
		require.Equal(t, "/api/chirps/42", logger.calls[0].args[3])
		require.Equal(t, "/api/chirps/{chirpID}", logger.calls[0].args[5])
	})
}
