package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/apperrors"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/models"
)

type RefreshTokenRepo struct {
	DB DBTX
}

const tokenColumns = `token, user_id, created_at, updated_at, expires_at, revoked_at`

const createToken = `-- name: CreateRefreshToken
INSERT INTO refresh_tokens (token, user_id, created_at, updated_at, expires_at, revoked_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + tokenColumns

func (r *RefreshTokenRepo) Create(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error) {
	updatedAt := token.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = token.CreatedAt
	}

	rows, _ := r.DB.Query(ctx, createToken, token.Token, token.UserID, token.CreatedAt, updatedAt, token.ExpiresAt, token.RevokedAt)
	got, err := pgx.CollectOneRow(rows, rowToToken)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return got, apperrors.ErrRefreshTokenAlreadyExists
		case isForeignKeyViolation(err):
			return got, apperrors.ErrUserNotFound
		}
		return got, fmt.Errorf("db error: %w", err)
	}
	return got, nil
}

const getToken = `-- name: GetRefreshToken
SELECT ` + tokenColumns + `
FROM refresh_tokens
WHERE token = $1
`

// Get token
// It returns the token even if it is expired or revoked already
func (r *RefreshTokenRepo) Get(ctx context.Context, tokenString string) (models.RefreshToken, error) {
	rows, _ := r.DB.Query(ctx, getToken, tokenString)
	token, err := pgx.CollectOneRow(rows, rowToToken)

	switch {
	case err == nil:
		return token, nil
	case errors.Is(err, pgx.ErrNoRows):
		return token, fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenNotFound)
	default:
		return token, fmt.Errorf("db error: %w", err)
	}
}

const getUserByToken = `-- name: GetUserFromRefreshToken
SELECT u.id, u.created_at, u.updated_at, u.email, u.hashed_password, u.is_chirpy_red
FROM users u
JOIN refresh_tokens t ON t.user_id = u.id
WHERE t.token = $1 AND t.revoked_at IS NULL
`

func (r *RefreshTokenRepo) GetUserByToken(ctx context.Context, tokenString string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByToken, tokenString)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenNotFound)
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

const revokeToken = `-- name: RevokeRefreshToken
UPDATE refresh_tokens
SET revoked_at = $2, updated_at = $2
WHERE token = $1 AND revoked_at IS NULL
`

// Revoke token if it not revoked yet
// Already revoked or unknown tokens are left untouched, zero rows affected is not an error
func (r *RefreshTokenRepo) Revoke(ctx context.Context, tokenString string, at time.Time) (int64, error) {
	tag, err := r.DB.Exec(ctx, revokeToken, tokenString, at)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return tag.RowsAffected(), nil
}

const deleteRevokedBefore = `-- name: DeleteRevokedRefreshTokens
DELETE FROM refresh_tokens
WHERE revoked_at IS NOT NULL AND expires_at < $1
`

func (r *RefreshTokenRepo) DeleteRevokedBefore(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.DB.Exec(ctx, deleteRevokedBefore, before)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return tag.RowsAffected(), nil
}

func rowToToken(row pgx.CollectableRow) (models.RefreshToken, error) {
	var t models.RefreshToken
	err := row.Scan(&t.Token, &t.UserID, &t.CreatedAt, &t.UpdatedAt, &t.ExpiresAt, &t.RevokedAt)
	return t, err
}
