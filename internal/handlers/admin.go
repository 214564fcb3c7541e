package handlers

import (
	"fmt"
	"net/http"

	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/handlers/middleware"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/handlers/render"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/logger"
)

const metricsPage = `<html>
  <body>
    <h1>Welcome, Chirpy Admin</h1>
    <p>Chirpy has been visited %d times!</p>
  </body>
</html>`

func handleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		render.Text(w, http.StatusText(http.StatusOK), http.StatusOK)
	}
}

func handleMetrics(hits *middleware.Hits) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		render.HTML(w, fmt.Sprintf(metricsPage, hits.Value()))
	}
}

// Reset hit counter and delete all users. Only allowed on dev platform
func handleReset(platform string, hits *middleware.Hits, userService userService, logger logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if platform != PlatformDev {
			render.ServiceError(w, "Reset is only allowed in dev environment", http.StatusForbidden)
			return
		}

		hits.Reset()
		if err := userService.Reset(r.Context()); err != nil {
			logger.Error("reset failed", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		logger.Warn("hits and users reset")
		render.Text(w, "Hits reset to 0 and all users have been deleted", http.StatusOK)
	}
}
