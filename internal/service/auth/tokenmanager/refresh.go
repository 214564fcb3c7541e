package tokenmanager

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/apperrors"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/models"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/repository"
)

const (
	DefaultRefreshTTL = 60 * 24 * time.Hour

	refreshTokenBytes = 32
)

// Generate opaque refresh token: 32 random bytes hex encoded
func GenerateRefresh() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("error while generate refresh token. Err: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Refresh token manager with sensible default
type Config struct {
	// Refresh token lifetime
	// If not set than default is used
	RefreshTTL time.Duration

	// Time source, time.Now if not set
	Now func() time.Time
}

// Governs persisted refresh tokens lifecycle: issue, redeem, revoke
// Tokens are not rotated on redeem
type TokenManager struct {
	refreshTTL  time.Duration
	now         func() time.Time
	refreshRepo repository.RefreshTokenRepo
}

func New(cfg Config, refreshRepo repository.RefreshTokenRepo) (*TokenManager, error) {
	if refreshRepo == nil {
		return nil, errors.New("refresh token repo must not be nil")
	}

	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &TokenManager{
		refreshTTL:  cfg.RefreshTTL,
		now:         cfg.Now,
		refreshRepo: refreshRepo,
	}, nil
}

// Issue and persist new refresh token for the user
func (m *TokenManager) Issue(ctx context.Context, userID uuid.UUID) (models.RefreshToken, error) {
	value, err := GenerateRefresh()
	if err != nil {
		return models.RefreshToken{}, err
	}

	now := m.now().UTC().Truncate(time.Microsecond) // postgres keeps microseconds
	token, err := m.refreshRepo.Create(ctx, models.RefreshToken{
		Token:     value,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(m.refreshTTL),
	})
	if err != nil {
		return models.RefreshToken{}, fmt.Errorf("error while saving refresh token. Err: %w", err)
	}

	return token, nil
}

// Resolve token owner if token is known, not revoked and not expired
// Only reads, the token stays usable until it expires or is revoked
func (m *TokenManager) Redeem(ctx context.Context, value string) (models.User, error) {
	token, err := m.refreshRepo.Get(ctx, value)
	if err != nil {
		return models.User{}, err
	}

	switch {
	case token.RevokedAt != nil:
		return models.User{}, apperrors.ErrRefreshTokenRevoked
	case !token.Usable(m.now()):
		return models.User{}, apperrors.ErrRefreshTokenExpired
	}

	user, err := m.refreshRepo.GetUserByToken(ctx, value)
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, apperrors.ErrRefreshTokenNotFound):
		// Revoked between the two reads
		return models.User{}, apperrors.ErrRefreshTokenRevoked
	default:
		return models.User{}, err
	}
}

// Revoke token if it is not revoked yet
// Unknown and already revoked tokens are ignored
func (m *TokenManager) Revoke(ctx context.Context, value string) error {
	_, err := m.refreshRepo.Revoke(ctx, value, m.now())
	if err != nil {
		return fmt.Errorf("error while revoking refresh token. Err: %w", err)
	}
	return nil
}
