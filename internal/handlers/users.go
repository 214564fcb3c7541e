package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/apperrors"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/handlers/render"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/handlers/userctx"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/logger"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/models"
)

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"notblank"`
}

type userResponse struct {
	ID          uuid.UUID `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Email       string    `json:"email"`
	IsChirpyRed bool      `json:"isChirpyRed"`
}

func newUserResponse(u models.User) userResponse {
	return userResponse{
		ID:          u.ID,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		Email:       u.Email,
		IsChirpyRed: u.IsChirpyRed,
	}
}

func handleCreateUser(userService userService, logger logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[credentialsRequest](w, r)
		if err != nil {
			return
		}

		user, err := userService.CreateUser(r.Context(), data.Email, data.Password)
		switch {
		case err == nil:
			render.Created(w, newUserResponse(user))
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "User already exists", http.StatusConflict)
		case errors.Is(err, apperrors.ErrInvalidPassword):
			render.ServiceError(w, "Password must not be empty", http.StatusBadRequest)
		default:
			logger.Error("user not created", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	}
}

func handleUpdateUser(userService userService, logger logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		data, err := render.BindAndValidate[credentialsRequest](w, r)
		if err != nil {
			return
		}

		user, err := userService.UpdateUser(r.Context(), userID, data.Email, data.Password)
		switch {
		case err == nil:
			render.JSON(w, newUserResponse(user))
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "Email already taken", http.StatusConflict)
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrInvalidPassword):
			render.ServiceError(w, "Password must not be empty", http.StatusBadRequest)
		default:
			logger.Error("user not updated", "user_id", userID, "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	}
}
