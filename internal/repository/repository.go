package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If user with email exists already has to return error apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, email string, hashedPassword string) (models.User, error)

	// Get user by it's id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	// Replace user credential (email and password hash) wholesale
	// If user not found must return apperrors.ErrUserNotFound
	UpdateUser(ctx context.Context, userID uuid.UUID, email string, hashedPassword string) (models.User, error)

	// Mark user as Chirpy Red member
	// If user not found must return apperrors.ErrUserNotFound
	UpgradeToRed(ctx context.Context, userID uuid.UUID) (models.User, error)

	// Remove every user. Chirps and refresh tokens go with them
	DeleteAll(ctx context.Context) error
}

// RefreshToken repository interface
type RefreshTokenRepo interface {
	// Save token; the token string is unique
	// If owner not found must return apperrors.ErrUserNotFound
	Create(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error)

	// Return the token even if it is expired or revoked
	// If token not found must return apperrors.ErrRefreshTokenNotFound
	Get(ctx context.Context, token string) (models.RefreshToken, error)

	// Return token owner if the token is not revoked. Expiration is not checked here
	// If token not found or revoked must return apperrors.ErrRefreshTokenNotFound
	GetUserByToken(ctx context.Context, token string) (models.User, error)

	// Set revoked_at and updated_at for not revoked token
	// Returns count of affected rows; zero is not an error
	Revoke(ctx context.Context, token string, at time.Time) (int64, error)

	// Delete tokens that are revoked and expired before the moment
	DeleteRevokedBefore(ctx context.Context, before time.Time) (int64, error)
}

type ListChirpsOpts struct {
	AuthorID uuid.UUID // uuid.Nil means any author
	Desc     bool      // sort by created_at descending
}

// Chirp repository interface
type ChirpRepo interface {
	// If author not found must return apperrors.ErrUserNotFound
	Create(ctx context.Context, userID uuid.UUID, body string) (models.Chirp, error)

	// If chirp not found must return apperrors.ErrChirpNotFound
	Get(ctx context.Context, chirpID uuid.UUID) (models.Chirp, error)

	List(ctx context.Context, opts ListChirpsOpts) ([]models.Chirp, error)

	// If chirp not found must return apperrors.ErrChirpNotFound
	Delete(ctx context.Context, chirpID uuid.UUID) error
}

type Storage interface {
	User() UserRepo
	Refresh() RefreshTokenRepo
	Chirp() ChirpRepo

	// Run function in transaction
	// Any error returned from fn rolls the transaction back
	InTx(ctx context.Context, fn func(Storage) error) error
}
