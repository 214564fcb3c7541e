package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/apperrors"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/handlers/render"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/handlers/userctx"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/logger"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/models"
)

type chirpResponse struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Body      string    `json:"body"`
	UserID    uuid.UUID `json:"userId"`
}

func newChirpResponse(c models.Chirp) chirpResponse {
	return chirpResponse{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Body:      c.Body,
		UserID:    c.UserID,
	}
}

func handleCreateChirp(chirpService chirpService, logger logger.Logger) http.HandlerFunc {
	type chirpRequest struct {
		Body string `json:"body" validate:"notblank"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		data, err := render.BindAndValidate[chirpRequest](w, r)
		if err != nil {
			return
		}

		chirp, err := chirpService.Create(r.Context(), userID, data.Body)
		switch {
		case err == nil:
			render.Created(w, newChirpResponse(chirp))
		case errors.Is(err, apperrors.ErrChirpTooLong):
			render.ServiceError(w, "Chirp is too long", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrUserNotFound):
			// Token outlived its user
			render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
		default:
			logger.Error("chirp not created", "user_id", userID, "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	}
}

// List chirps. Optional query params:
//   - authorId: only chirps of the user
//   - sort: "asc" (default) or "desc" by creation time
func handleListChirps(chirpService chirpService, logger logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		authorID := uuid.Nil
		if s := query.Get("authorId"); s != "" {
			id, err := uuid.Parse(s)
			if err != nil {
				render.ServiceError(w, "Invalid author id", http.StatusBadRequest)
				return
			}
			authorID = id
		}

		var desc bool
		switch query.Get("sort") {
		case "", "asc":
		case "desc":
			desc = true
		default:
			render.ServiceError(w, "Sort must be 'asc' or 'desc'", http.StatusBadRequest)
			return
		}

		chirps, err := chirpService.List(r.Context(), authorID, desc)
		if err != nil {
			logger.Error("chirps not listed", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		res := make([]chirpResponse, 0, len(chirps))
		for _, c := range chirps {
			res = append(res, newChirpResponse(c))
		}
		render.JSON(w, res)
	}
}

func handleGetChirp(chirpService chirpService, logger logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chirpID, ok := chirpIDParam(w, r)
		if !ok {
			return
		}

		chirp, err := chirpService.Get(r.Context(), chirpID)
		switch {
		case err == nil:
			render.JSON(w, newChirpResponse(chirp))
		case errors.Is(err, apperrors.ErrChirpNotFound):
			render.ServiceError(w, "Chirp not found", http.StatusNotFound)
		default:
			logger.Error("chirp not fetched", "chirp_id", chirpID, "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	}
}

func handleDeleteChirp(chirpService chirpService, logger logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		chirpID, ok := chirpIDParam(w, r)
		if !ok {
			return
		}

		err := chirpService.Delete(r.Context(), userID, chirpID)
		switch {
		case err == nil:
			render.NoContent(w)
		case errors.Is(err, apperrors.ErrChirpNotFound):
			render.ServiceError(w, "Chirp not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrForbidden):
			render.ServiceError(w, "You can't delete this chirp", http.StatusForbidden)
		default:
			logger.Error("chirp not deleted", "chirp_id", chirpID, "user_id", userID, "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	}
}

// Parse chirp id from path or respond 400
func chirpIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	chirpID, err := uuid.Parse(chi.URLParam(r, "chirpID"))
	if err != nil {
		render.ServiceError(w, "Invalid chirp id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return chirpID, true
}
