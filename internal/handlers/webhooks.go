package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/apperrors"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/handlers/render"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/logger"
)

const EventUserUpgraded = "user.upgraded"

// Polka payment events. Only user upgrades are acted on, others are acknowledged
func handlePolkaWebhook(authService authService, userService userService, logger logger.Logger) http.HandlerFunc {
	type webhookRequest struct {
		Event string `json:"event" validate:"required"`
		Data  struct {
			UserID uuid.UUID `json:"userId"`
		} `json:"data"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if err := authService.AuthenticateWebhook(r.Header); err != nil {
			render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		data, err := render.BindAndValidate[webhookRequest](w, r)
		if err != nil {
			return
		}

		if data.Event != EventUserUpgraded {
			render.NoContent(w)
			return
		}

		_, err = userService.UpgradeToRed(r.Context(), data.Data.UserID)
		switch {
		case err == nil:
			logger.Info("user upgraded to chirpy red", "user_id", data.Data.UserID)
			render.NoContent(w)
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		default:
			logger.Error("user not upgraded", "user_id", data.Data.UserID, "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	}
}
