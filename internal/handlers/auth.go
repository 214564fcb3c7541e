package handlers

import (
	"errors"
	"net/http"

	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/apperrors"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/handlers/render"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/logger"
)

func handleLogin(authService authService, logger logger.Logger) http.HandlerFunc {
	type loginRequest struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	type loginResponse struct {
		userResponse
		Token        string `json:"token"`
		RefreshToken string `json:"refreshToken"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[loginRequest](w, r)
		if err != nil {
			return
		}

		res, err := authService.Login(r.Context(), data.Email, data.Password)
		switch {
		case err == nil:
			render.JSON(w, loginResponse{
				userResponse: newUserResponse(res.User),
				Token:        res.Tokens.Access.Value,
				RefreshToken: res.Tokens.Refresh.Value,
			})
		case errors.Is(err, apperrors.ErrTooManyAttempts):
			render.ServiceError(w, "Too many login attempts, try again later", http.StatusTooManyRequests)
		case errors.Is(err, apperrors.ErrUnauthenticated):
			// Do not tell the client which check failed
			render.ServiceError(w, "invalid username or password", http.StatusUnauthorized)
		default:
			logger.Error("login failed", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	}
}

func handleRefresh(authService authService, logger logger.Logger) http.HandlerFunc {
	type refreshResponse struct {
		Token string `json:"token"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		access, err := authService.Refresh(r.Context(), r.Header)
		switch {
		case err == nil:
			render.JSON(w, refreshResponse{Token: access.Value})
		case errors.Is(err, apperrors.ErrUnauthenticated):
			render.ServiceError(w, "Invalid refresh token", http.StatusUnauthorized)
		default:
			logger.Error("refresh failed", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	}
}

func handleRevoke(authService authService, logger logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := authService.Revoke(r.Context(), r.Header)
		switch {
		case err == nil:
			render.NoContent(w)
		case errors.Is(err, apperrors.ErrUnauthenticated):
			render.ServiceError(w, "Refresh token not provided", http.StatusUnauthorized)
		default:
			logger.Error("revoke failed", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	}
}
