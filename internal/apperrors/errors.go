package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidPassword   = errors.New("password must not be empty")

	// Access token kinds. Messages are part of the contract: callers and tests tell them apart.
	ErrInvalidToken = errors.New("the token is invalid")
	ErrTokenExpired = errors.New("the token has expired")

	ErrMissingAuth = errors.New("authorization header is missing")

	ErrRefreshTokenNotFound      = errors.New("refresh token not found")
	ErrRefreshTokenAlreadyExists = errors.New("refresh token already exists")
	ErrRefreshTokenRevoked       = errors.New("refresh token is revoked")
	ErrRefreshTokenExpired       = errors.New("refresh token is expired")

	// Folded outcome for everything auth related that fails
	// Specific reason stays in the error chain
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrTooManyAttempts = errors.New("too many login attempts")
	ErrForbidden       = errors.New("forbidden")

	ErrChirpNotFound = errors.New("chirp not found")
	ErrChirpTooLong  = errors.New("chirp is too long")
)
