package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/handlers/userctx"
)

// Allow to use a function as auth service
type authFunc func(headers http.Header) (uuid.UUID, error)

func (f authFunc) Authenticate(headers http.Header) (uuid.UUID, error) {
	return f(headers)
}

func TestAuthMiddleware(t *testing.T) {
	// Simple handler that try to get user from context
	// If ok write it id to response
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Must always be true cause middleware has to set user to context or write error to response
		userID, ok := userctx.FromContext(r.Context())
		require.True(t, ok)

		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(userID.String()))
		require.NoError(t, err, "should write user id to response")
	})

	t.Run("auth ok", func(t *testing.T) {
		userID := uuid.New()
		middleware := AuthMiddleware(authFunc(func(headers http.Header) (uuid.UUID, error) {
			require.Equal(t, "Bearer token", headers.Get("Authorization"), "middleware must pass request headers")
			return userID, nil
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		req, err := http.NewRequest(http.MethodGet, srv.URL+"/test", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer token")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err, "should make request to test server")
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err, "should read response body")
		defer resp.Body.Close() // nolint:errcheck

		require.Equalf(t, http.StatusOK, resp.StatusCode, "should return status OK. Resp: %s", string(body))
		require.Equal(t, userID.String(), string(body), "should return user id in response")
	})

	t.Run("auth fail", func(t *testing.T) {
		// Middleware that always fails
		middleware := AuthMiddleware(authFunc(func(headers http.Header) (uuid.UUID, error) {
			return uuid.Nil, errors.New("go away")
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/test")
		require.NoError(t, err, "should make request to test server")
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err, "should read response body")
		defer resp.Body.Close() // nolint:errcheck

		require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "should return status Unauthorized. Resp: %s", string(body))
		require.JSONEq(t,
			`{
				"error": "service_error",
				"message": "Unauthorized"
			}`,
			string(body),
		)
	})
}
