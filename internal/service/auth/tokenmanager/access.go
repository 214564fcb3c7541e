package tokenmanager

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/apperrors"
)

const (
	Issuer = "chirpy"

	signingMethod = "HS256"
)

// Issue signed access token for the user
// Zero or negative ttl gives a token that is already expired
func IssueAccess(userID uuid.UUID, ttl time.Duration, secret string) (string, error) {
	return issueAccess(userID, ttl, secret, time.Now())
}

func issueAccess(userID uuid.UUID, ttl time.Duration, secret string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(
		jwt.GetSigningMethod(signingMethod),
		jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    Issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("error while signing access token. Err: %w", err)
	}

	return signed, nil
}

// Parse and validate access token, return user id from subject
//
// Expired but otherwise valid token gives apperrors.ErrTokenExpired,
// everything else (signature, structure, issuer, subject) gives apperrors.ErrInvalidToken
func ValidateAccess(token string, secret string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (any, error) {
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{signingMethod}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)

	switch {
	case err == nil:
	case isOnlyExpired(err):
		return uuid.Nil, apperrors.ErrTokenExpired
	default:
		return uuid.Nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad subject: %w", apperrors.ErrInvalidToken, err)
	}

	return userID, nil
}

func isOnlyExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired) &&
		!errors.Is(err, jwt.ErrTokenSignatureInvalid) &&
		!errors.Is(err, jwt.ErrTokenInvalidIssuer) &&
		!errors.Is(err, jwt.ErrTokenUsedBeforeIssued)
}
