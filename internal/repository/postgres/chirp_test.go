package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/apperrors"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/models"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/repository"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/testutil"
)

func Test_ChirpRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	createUser := func(t *testing.T, tx pgx.Tx, email string) models.User {
		user, err := (&UserRepo{DB: tx}).CreateUser(t.Context(), email, "hash")
		require.NoError(t, err)
		return user
	}

	ids := func(chirps []models.Chirp) []uuid.UUID {
		res := make([]uuid.UUID, 0, len(chirps))
		for _, c := range chirps {
			res = append(res, c.ID)
		}
		return res
	}

	t.Run("create and get", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := ChirpRepo{DB: tx}
			user := createUser(t, tx, "author@example.com")

			created, err := repo.Create(t.Context(), user.ID, "hello world")
			require.NoError(t, err)
			assert.Equal(t, "hello world", created.Body)
			assert.Equal(t, user.ID, created.UserID)

			got, err := repo.Get(t.Context(), created.ID)
			require.NoError(t, err)
			assert.Equal(t, created, got)
		})
	})

	t.Run("create for unknown user", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := ChirpRepo{DB: tx}

			_, err := repo.Create(t.Context(), uuid.New(), "orphan")

			assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})

	t.Run("get not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := ChirpRepo{DB: tx}

			_, err := repo.Get(t.Context(), uuid.New())

			assert.ErrorIs(t, err, apperrors.ErrChirpNotFound)
		})
	})

	t.Run("list sorted and filtered", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := ChirpRepo{DB: tx}
			alice := createUser(t, tx, "alice@example.com")
			bob := createUser(t, tx, "bob@example.com")

			first, err := repo.Create(t.Context(), alice.ID, "first")
			require.NoError(t, err)
			second, err := repo.Create(t.Context(), bob.ID, "second")
			require.NoError(t, err)
			third, err := repo.Create(t.Context(), alice.ID, "third")
			require.NoError(t, err)

			all, err := repo.List(t.Context(), repository.ListChirpsOpts{})
			require.NoError(t, err)
			assert.Equal(t, []uuid.UUID{first.ID, second.ID, third.ID}, ids(all))

			desc, err := repo.List(t.Context(), repository.ListChirpsOpts{Desc: true})
			require.NoError(t, err)
			assert.Equal(t, []uuid.UUID{third.ID, second.ID, first.ID}, ids(desc))

			byAlice, err := repo.List(t.Context(), repository.ListChirpsOpts{AuthorID: alice.ID})
			require.NoError(t, err)
			assert.Equal(t, []uuid.UUID{first.ID, third.ID}, ids(byAlice))
		})
	})

	t.Run("list empty", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := ChirpRepo{DB: tx}

			got, err := repo.List(t.Context(), repository.ListChirpsOpts{AuthorID: uuid.New()})

			require.NoError(t, err)
			assert.Empty(t, got)
		})
	})

	t.Run("delete", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := ChirpRepo{DB: tx}
			user := createUser(t, tx, "deleter@example.com")
			chirp, err := repo.Create(t.Context(), user.ID, "short lived")
			require.NoError(t, err)

			err = repo.Delete(t.Context(), chirp.ID)
			require.NoError(t, err)

			err = repo.Delete(t.Context(), chirp.ID)
			assert.ErrorIs(t, err, apperrors.ErrChirpNotFound, "second delete finds nothing")
		})
	})
}
