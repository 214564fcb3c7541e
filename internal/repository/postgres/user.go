package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/apperrors"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/models"
)

type UserRepo struct {
	DB DBTX
}

const userColumns = `id, created_at, updated_at, email, hashed_password, is_chirpy_red`

const createUser = `-- name: CreateUser
INSERT INTO users (id, created_at, updated_at, email, hashed_password)
VALUES ($1, clock_timestamp(), clock_timestamp(), $2, $3)
RETURNING ` + userColumns

func (r *UserRepo) CreateUser(ctx context.Context, email string, hashedPassword string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, createUser, uuid.New(), email, hashedPassword)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		if isUniqueViolation(err) {
			return user, apperrors.ErrUserAlreadyExists
		}

		return user, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const getUserByID = `-- name: GetUserByID
SELECT ` + userColumns + ` FROM users
WHERE id = $1
`

func (r *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByID, id)
	return collectUser(rows)
}

const getUserByEmail = `-- name: GetUserByEmail
SELECT ` + userColumns + ` FROM users
WHERE email = $1
`

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByEmail, email)
	return collectUser(rows)
}

const updateUser = `-- name: UpdateUser
UPDATE users
SET email = $2, hashed_password = $3, updated_at = clock_timestamp()
WHERE id = $1
RETURNING ` + userColumns

func (r *UserRepo) UpdateUser(ctx context.Context, id uuid.UUID, email string, hashedPassword string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, updateUser, id, email, hashedPassword)
	user, err := collectUser(rows)

	if err != nil && isUniqueViolation(err) {
		return user, apperrors.ErrUserAlreadyExists
	}

	return user, err
}

const upgradeToRed = `-- name: UpgradeToRed
UPDATE users
SET is_chirpy_red = TRUE, updated_at = clock_timestamp()
WHERE id = $1
RETURNING ` + userColumns

func (r *UserRepo) UpgradeToRed(ctx context.Context, id uuid.UUID) (models.User, error) {
	rows, _ := r.DB.Query(ctx, upgradeToRed, id)
	return collectUser(rows)
}

// Chirps and refresh tokens are removed by ON DELETE CASCADE
const deleteAllUsers = `-- name: DeleteAllUsers
DELETE FROM users
`

func (r *UserRepo) DeleteAll(ctx context.Context) error {
	_, err := r.DB.Exec(ctx, deleteAllUsers)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func collectUser(rows pgx.Rows) (models.User, error) {
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Email, &u.HashedPassword, &u.IsChirpyRed)
	return u, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// Row references user that does not exist
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}
