package auth

import (
	"net/http"
	"strings"

	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/apperrors"
)

const (
	bearerScheme = "Bearer "
	apiKeyScheme = "ApiKey "
)

// Get token from "Authorization: Bearer <token>" header
// Any other scheme is treated as absent header
func BearerToken(headers http.Header) (string, error) {
	value := headers.Get("Authorization")
	if !strings.HasPrefix(value, bearerScheme) {
		return "", apperrors.ErrMissingAuth
	}

	token := strings.TrimSpace(strings.TrimPrefix(value, bearerScheme))
	if token == "" {
		return "", apperrors.ErrMissingAuth
	}
	return token, nil
}

// Get key from "Authorization: ApiKey <key>" header
// Any other scheme is treated as absent header
func APIKey(headers http.Header) (string, error) {
	value := headers.Get("Authorization")
	if !strings.HasPrefix(value, apiKeyScheme) {
		return "", apperrors.ErrMissingAuth
	}

	key := strings.TrimSpace(strings.TrimPrefix(value, apiKeyScheme))
	if key == "" {
		return "", apperrors.ErrMissingAuth
	}
	return key, nil
}
