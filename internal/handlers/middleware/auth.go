package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/handlers/render"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/handlers/userctx"
)

type authService interface {
	Authenticate(headers http.Header) (uuid.UUID, error)
}

// Put authenticated user id to request context or respond 401
func AuthMiddleware(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := as.Authenticate(r.Header)
			if err != nil {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := userctx.New(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
