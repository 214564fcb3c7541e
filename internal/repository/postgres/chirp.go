package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/apperrors"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/models"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/repository"
)

type ChirpRepo struct {
	DB DBTX
}

const chirpColumns = `id, created_at, updated_at, body, user_id`

const createChirp = `-- name: CreateChirp
INSERT INTO chirps (id, created_at, updated_at, body, user_id)
VALUES ($1, clock_timestamp(), clock_timestamp(), $2, $3)
RETURNING ` + chirpColumns

func (r *ChirpRepo) Create(ctx context.Context, userID uuid.UUID, body string) (models.Chirp, error) {
	rows, _ := r.DB.Query(ctx, createChirp, uuid.New(), body, userID)
	chirp, err := pgx.CollectOneRow(rows, rowToChirp)
	if err != nil {
		if isForeignKeyViolation(err) {
			return chirp, apperrors.ErrUserNotFound
		}
		return chirp, fmt.Errorf("db error: %w", err)
	}
	return chirp, nil
}

const getChirp = `-- name: GetChirp
SELECT ` + chirpColumns + ` FROM chirps
WHERE id = $1
`

func (r *ChirpRepo) Get(ctx context.Context, chirpID uuid.UUID) (models.Chirp, error) {
	rows, _ := r.DB.Query(ctx, getChirp, chirpID)
	chirp, err := pgx.CollectOneRow(rows, rowToChirp)

	switch {
	case err == nil:
		return chirp, nil
	case errors.Is(err, pgx.ErrNoRows):
		return chirp, apperrors.ErrChirpNotFound
	default:
		return chirp, fmt.Errorf("db error: %w", err)
	}
}

// $1 is NULL when listing every author
const listChirpsAsc = `-- name: ListChirps
SELECT ` + chirpColumns + ` FROM chirps
WHERE $1::uuid IS NULL OR user_id = $1
ORDER BY created_at ASC, id ASC
`

const listChirpsDesc = `-- name: ListChirpsDesc
SELECT ` + chirpColumns + ` FROM chirps
WHERE $1::uuid IS NULL OR user_id = $1
ORDER BY created_at DESC, id DESC
`

func (r *ChirpRepo) List(ctx context.Context, opts repository.ListChirpsOpts) ([]models.Chirp, error) {
	query := listChirpsAsc
	if opts.Desc {
		query = listChirpsDesc
	}

	var author *uuid.UUID
	if opts.AuthorID != uuid.Nil {
		author = &opts.AuthorID
	}

	rows, _ := r.DB.Query(ctx, query, author)
	chirps, err := pgx.CollectRows(rows, rowToChirp)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return chirps, nil
}

const deleteChirp = `-- name: DeleteChirp
DELETE FROM chirps
WHERE id = $1
`

func (r *ChirpRepo) Delete(ctx context.Context, chirpID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteChirp, chirpID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrChirpNotFound
	}
	return nil
}

func rowToChirp(row pgx.CollectableRow) (models.Chirp, error) {
	var c models.Chirp
	err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.Body, &c.UserID)
	return c, err
}
