package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/apperrors"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/models"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/repository"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/service/auth/tokenmanager"
)

const (
	DefaultAccessTTL  = time.Hour
	DefaultRefreshTTL = tokenmanager.DefaultRefreshTTL
)

// Unknown email and wrong password are reported the same way
var errBadCredentials = fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthenticated)

// Interface to create or verify user password hashes
type PasswordHasher interface {
	// Generate hash from password
	Hash(password string) (string, error)

	// Compare user provided password with known hash
	// Must be protected against timing attacks
	Verify(password string, hash string) bool
}

// Counts failed logins per email
type LoginThrottle interface {
	// Must return apperrors.ErrTooManyAttempts when email is locked out
	Check(ctx context.Context, email string) error
	Fail(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

type Config struct {
	// Secret key to sign user access token payload
	// Required to be set
	SecretKey string

	// Key Polka sends with webhooks
	// Webhooks are rejected when empty
	PolkaKey string

	// Access and refresh token lifetimes
	// If not set than default is used
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Hasher to verify passwords on login, argon2id if not set
	Hasher PasswordHasher

	// Optional failed login limiter
	Throttle LoginThrottle
}

type LoginResult struct {
	User   models.User
	Tokens models.TokenPair
}

// Auth service
type AuthService struct {
	secretKey string
	polkaKey  string
	accessTTL time.Duration

	hasher   PasswordHasher
	throttle LoginThrottle

	// Manager to issue, redeem and revoke refresh tokens
	tokens *tokenmanager.TokenManager

	// Repository to access long term data
	userRepo repository.UserRepo

	// Hash checked for unknown emails so both failure paths cost the same
	dummyHash func() string
}

func NewService(cfg Config, storage repository.Storage) (*AuthService, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}
	if storage == nil {
		return nil, errors.New("storage must not be nil")
	}

	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}

	// Set default argon2id hasher if not provided by user
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = NewArgon2Hasher(DefaultArgon2Params)
	}

	tokens, err := tokenmanager.New(tokenmanager.Config{RefreshTTL: cfg.RefreshTTL}, storage.Refresh())
	if err != nil {
		return nil, err
	}

	return &AuthService{
		secretKey: cfg.SecretKey,
		polkaKey:  cfg.PolkaKey,
		accessTTL: cfg.AccessTTL,
		hasher:    hasher,
		throttle:  cfg.Throttle,
		tokens:    tokens,
		userRepo:  storage.User(),
		dummyHash: sync.OnceValue(func() string {
			h, _ := hasher.Hash("chirpy-dummy-password")
			return h
		}),
	}, nil
}

// Check credentials and issue access and refresh tokens
func (s *AuthService) Login(ctx context.Context, email string, password string) (LoginResult, error) {
	if s.throttle != nil {
		if err := s.throttle.Check(ctx, email); err != nil {
			return LoginResult{}, err
		}
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if !s.hasher.Verify(password, user.HashedPassword) {
			return LoginResult{}, s.loginFailed(ctx, email)
		}
	case errors.Is(err, apperrors.ErrUserNotFound):
		s.hasher.Verify(password, s.dummyHash())
		return LoginResult{}, s.loginFailed(ctx, email)
	default:
		return LoginResult{}, err
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			return LoginResult{}, err
		}
	}

	now := time.Now()
	access, err := tokenmanager.IssueAccess(user.ID, s.accessTTL, s.secretKey)
	if err != nil {
		return LoginResult{}, fmt.Errorf("token could not generated, sorry. %w", err)
	}

	refresh, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("token could not generated, sorry. %w", err)
	}

	return LoginResult{
		User: user,
		Tokens: models.TokenPair{
			Access:  models.IssuedToken{Value: access, ExpiresAt: now.Add(s.accessTTL)},
			Refresh: models.IssuedToken{Value: refresh.Token, ExpiresAt: refresh.ExpiresAt},
		},
	}, nil
}

func (s *AuthService) loginFailed(ctx context.Context, email string) error {
	if s.throttle != nil {
		if err := s.throttle.Fail(ctx, email); err != nil {
			return err
		}
	}
	return errBadCredentials
}

// Exchange refresh token from Authorization header for new access token
// Refresh token stays as is
func (s *AuthService) Refresh(ctx context.Context, headers http.Header) (models.IssuedToken, error) {
	value, err := BearerToken(headers)
	if err != nil {
		return models.IssuedToken{}, unauthenticated(err)
	}

	user, err := s.tokens.Redeem(ctx, value)
	if err != nil {
		if isAuthFailure(err) {
			return models.IssuedToken{}, unauthenticated(err)
		}
		return models.IssuedToken{}, err
	}

	now := time.Now()
	access, err := tokenmanager.IssueAccess(user.ID, s.accessTTL, s.secretKey)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("token could not generated, sorry. %w", err)
	}

	return models.IssuedToken{Value: access, ExpiresAt: now.Add(s.accessTTL)}, nil
}

// Revoke refresh token from Authorization header
// Succeed for unknown and already revoked tokens
func (s *AuthService) Revoke(ctx context.Context, headers http.Header) error {
	value, err := BearerToken(headers)
	if err != nil {
		return unauthenticated(err)
	}

	return s.tokens.Revoke(ctx, value)
}

// Return user id from access token in Authorization header
func (s *AuthService) Authenticate(headers http.Header) (uuid.UUID, error) {
	value, err := BearerToken(headers)
	if err != nil {
		return uuid.Nil, unauthenticated(err)
	}

	userID, err := tokenmanager.ValidateAccess(value, s.secretKey)
	if err != nil {
		return uuid.Nil, unauthenticated(err)
	}

	return userID, nil
}

// Admit webhook only if it carries configured api key
func (s *AuthService) AuthenticateWebhook(headers http.Header) error {
	key, err := APIKey(headers)
	if err != nil {
		return unauthenticated(err)
	}

	if s.polkaKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(s.polkaKey)) != 1 {
		return unauthenticated(errors.New("api key mismatch"))
	}

	return nil
}

func unauthenticated(err error) error {
	return fmt.Errorf("%w: %w", apperrors.ErrUnauthenticated, err)
}

func isAuthFailure(err error) bool {
	return errors.Is(err, apperrors.ErrRefreshTokenNotFound) ||
		errors.Is(err, apperrors.ErrRefreshTokenRevoked) ||
		errors.Is(err, apperrors.ErrRefreshTokenExpired)
}
