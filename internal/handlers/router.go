package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/handlers/middleware"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/logger"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/models"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/service/auth"
)

const PlatformDev = "dev"

// Site level settings not owned by any service
type Site struct {
	// Admin reset is allowed on "dev" platform only
	Platform string

	// Directory served under /app/
	FileRoot string

	// Counter of served /app/ requests. Fresh counter is used if nil
	Hits *middleware.Hits
}

func NewRouter(
	authService authService,
	userService userService,
	chirpService chirpService,
	site Site,
	logger logger.Logger,
) http.Handler {
	if site.Hits == nil {
		site.Hits = &middleware.Hits{}
	}
	if site.FileRoot == "" {
		site.FileRoot = "."
	}

	withAuth := middleware.AuthMiddleware(authService)

	r := chi.NewRouter()
	r.Use(middleware.LoggerMiddleware(logger))

	fileServer := http.StripPrefix("/app", http.FileServer(http.Dir(site.FileRoot)))
	r.Handle("/app", http.RedirectHandler("/app/", http.StatusMovedPermanently))
	r.Handle("/app/*", site.Hits.Middleware(fileServer))

	r.Route("/api", func(r chi.Router) {
		r.Get("/healthz", handleHealthz())

		r.Post("/users", handleCreateUser(userService, logger))
		r.Post("/login", handleLogin(authService, logger))
		r.Post("/refresh", handleRefresh(authService, logger))
		r.Post("/revoke", handleRevoke(authService, logger))

		r.Get("/chirps", handleListChirps(chirpService, logger))
		r.Get("/chirps/{chirpID}", handleGetChirp(chirpService, logger))

		r.Post("/polka/webhooks", handlePolkaWebhook(authService, userService, logger))

		r.Group(func(r chi.Router) {
			r.Use(withAuth)
			r.Put("/users", handleUpdateUser(userService, logger))
			r.Post("/chirps", handleCreateChirp(chirpService, logger))
			r.Delete("/chirps/{chirpID}", handleDeleteChirp(chirpService, logger))
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Get("/metrics", handleMetrics(site.Hits))
		r.Post("/reset", handleReset(site.Platform, site.Hits, userService, logger))
	})

	return r
}

type authService interface {
	// Has to return error wrapping apperrors.ErrUnauthenticated on bad credentials
	// and apperrors.ErrTooManyAttempts when login is throttled
	Login(ctx context.Context, email string, password string) (auth.LoginResult, error)

	// Exchange refresh token from headers for new access token
	Refresh(ctx context.Context, headers http.Header) (models.IssuedToken, error)

	// Revoke refresh token from headers
	Revoke(ctx context.Context, headers http.Header) error

	// Get user id from access token in headers
	Authenticate(headers http.Header) (uuid.UUID, error)

	// Check webhook api key
	AuthenticateWebhook(headers http.Header) error
}

type userService interface {
	CreateUser(ctx context.Context, email string, password string) (models.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, email string, password string) (models.User, error)
	UpgradeToRed(ctx context.Context, userID uuid.UUID) (models.User, error)
	Reset(ctx context.Context) error
}

type chirpService interface {
	Create(ctx context.Context, userID uuid.UUID, body string) (models.Chirp, error)
	List(ctx context.Context, authorID uuid.UUID, desc bool) ([]models.Chirp, error)
	Get(ctx context.Context, chirpID uuid.UUID) (models.Chirp, error)
	Delete(ctx context.Context, userID uuid.UUID, chirpID uuid.UUID) error
}
