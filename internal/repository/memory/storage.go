// Package memory keeps everything in process memory.
// Used when no database is configured and by service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/apperrors"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/models"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/repository"
)

type state struct {
	users  map[uuid.UUID]models.User
	tokens map[string]models.RefreshToken
	chirps map[uuid.UUID]models.Chirp

	// Creation sequence breaks created_at ties
	seq     map[uuid.UUID]uint64
	nextSeq uint64
}

func (s *state) clone() *state {
	c := &state{
		users:   make(map[uuid.UUID]models.User, len(s.users)),
		tokens:  make(map[string]models.RefreshToken, len(s.tokens)),
		chirps:  make(map[uuid.UUID]models.Chirp, len(s.chirps)),
		seq:     make(map[uuid.UUID]uint64, len(s.seq)),
		nextSeq: s.nextSeq,
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.tokens {
		c.tokens[k] = v
	}
	for k, v := range s.chirps {
		c.chirps[k] = v
	}
	for k, v := range s.seq {
		c.seq[k] = v
	}
	return c
}

type Storage struct {
	mu    *sync.RWMutex
	data  *state
	inTx  bool
	clock func() time.Time
}

func NewStorage() *Storage {
	return &Storage{
		mu: &sync.RWMutex{},
		data: &state{
			users:  make(map[uuid.UUID]models.User),
			tokens: make(map[string]models.RefreshToken),
			chirps: make(map[uuid.UUID]models.Chirp),
			seq:    make(map[uuid.UUID]uint64),
		},
		clock: time.Now,
	}
}

func (s *Storage) User() repository.UserRepo {
	return &UserRepo{s: s}
}

func (s *Storage) Refresh() repository.RefreshTokenRepo {
	return &RefreshTokenRepo{s: s}
}

func (s *Storage) Chirp() repository.ChirpRepo {
	return &ChirpRepo{s: s}
}

// Transaction works on a copy of the data and swaps it in on success.
// Writers are serialized for the whole transaction.
func (s *Storage) InTx(ctx context.Context, fn func(repository.Storage) error) error {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Storage{
		mu:    &sync.RWMutex{},
		data:  s.data.clone(),
		inTx:  true,
		clock: s.clock,
	}

	if err := fn(tx); err != nil {
		return err
	}

	s.data = tx.data
	return nil
}

func (s *Storage) read(fn func(d *state)) {
	if !s.inTx {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	fn(s.data)
}

func (s *Storage) write(fn func(d *state)) {
	if !s.inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	fn(s.data)
}

type UserRepo struct {
	s *Storage
}

func (r *UserRepo) CreateUser(ctx context.Context, email string, hashedPassword string) (models.User, error) {
	var (
		user models.User
		err  error
	)

	r.s.write(func(d *state) {
		for _, u := range d.users {
			if u.Email == email {
				err = apperrors.ErrUserAlreadyExists
				return
			}
		}

		now := r.s.clock()
		user = models.User{
			ID:             uuid.New(),
			CreatedAt:      now,
			UpdatedAt:      now,
			Email:          email,
			HashedPassword: hashedPassword,
		}
		d.users[user.ID] = user
	})

	return user, err
}

func (r *UserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	var (
		user models.User
		ok   bool
	)

	r.s.read(func(d *state) {
		user, ok = d.users[userID]
	})

	if !ok {
		return models.User{}, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var (
		user models.User
		ok   bool
	)

	r.s.read(func(d *state) {
		for _, u := range d.users {
			if u.Email == email {
				user, ok = u, true
				return
			}
		}
	})

	if !ok {
		return models.User{}, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (r *UserRepo) UpdateUser(ctx context.Context, userID uuid.UUID, email string, hashedPassword string) (models.User, error) {
	var (
		user models.User
		err  error
	)

	r.s.write(func(d *state) {
		u, ok := d.users[userID]
		if !ok {
			err = apperrors.ErrUserNotFound
			return
		}
		for _, other := range d.users {
			if other.Email == email && other.ID != userID {
				err = apperrors.ErrUserAlreadyExists
				return
			}
		}

		u.Email = email
		u.HashedPassword = hashedPassword
		u.UpdatedAt = r.s.clock()
		d.users[userID] = u
		user = u
	})

	return user, err
}

func (r *UserRepo) UpgradeToRed(ctx context.Context, userID uuid.UUID) (models.User, error) {
	var (
		user models.User
		err  error
	)

	r.s.write(func(d *state) {
		u, ok := d.users[userID]
		if !ok {
			err = apperrors.ErrUserNotFound
			return
		}

		u.IsChirpyRed = true
		u.UpdatedAt = r.s.clock()
		d.users[userID] = u
		user = u
	})

	return user, err
}

func (r *UserRepo) DeleteAll(ctx context.Context) error {
	r.s.write(func(d *state) {
		d.users = make(map[uuid.UUID]models.User)
		d.tokens = make(map[string]models.RefreshToken)
		d.chirps = make(map[uuid.UUID]models.Chirp)
		d.seq = make(map[uuid.UUID]uint64)
	})
	return nil
}

type RefreshTokenRepo struct {
	s *Storage
}

func (r *RefreshTokenRepo) Create(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error) {
	var err error

	if token.UpdatedAt.IsZero() {
		token.UpdatedAt = token.CreatedAt
	}

	r.s.write(func(d *state) {
		if _, ok := d.users[token.UserID]; !ok {
			err = apperrors.ErrUserNotFound
			return
		}
		if _, ok := d.tokens[token.Token]; ok {
			err = apperrors.ErrRefreshTokenAlreadyExists
			return
		}
		d.tokens[token.Token] = token
	})

	return token, err
}

func (r *RefreshTokenRepo) Get(ctx context.Context, tokenString string) (models.RefreshToken, error) {
	var (
		token models.RefreshToken
		ok    bool
	)

	r.s.read(func(d *state) {
		token, ok = d.tokens[tokenString]
	})

	if !ok {
		return models.RefreshToken{}, apperrors.ErrRefreshTokenNotFound
	}
	return token, nil
}

func (r *RefreshTokenRepo) GetUserByToken(ctx context.Context, tokenString string) (models.User, error) {
	var (
		user models.User
		ok   bool
	)

	r.s.read(func(d *state) {
		token, found := d.tokens[tokenString]
		if !found || token.RevokedAt != nil {
			return
		}
		user, ok = d.users[token.UserID]
	})

	if !ok {
		return models.User{}, apperrors.ErrRefreshTokenNotFound
	}
	return user, nil
}

func (r *RefreshTokenRepo) Revoke(ctx context.Context, tokenString string, at time.Time) (int64, error) {
	var affected int64

	r.s.write(func(d *state) {
		token, ok := d.tokens[tokenString]
		if !ok || token.RevokedAt != nil {
			return
		}

		token.RevokedAt = &at
		token.UpdatedAt = at
		d.tokens[tokenString] = token
		affected = 1
	})

	return affected, nil
}

func (r *RefreshTokenRepo) DeleteRevokedBefore(ctx context.Context, before time.Time) (int64, error) {
	var deleted int64

	r.s.write(func(d *state) {
		for k, token := range d.tokens {
			if token.RevokedAt != nil && token.ExpiresAt.Before(before) {
				delete(d.tokens, k)
				deleted++
			}
		}
	})

	return deleted, nil
}

type ChirpRepo struct {
	s *Storage
}

func (r *ChirpRepo) Create(ctx context.Context, userID uuid.UUID, body string) (models.Chirp, error) {
	var (
		chirp models.Chirp
		err   error
	)

	r.s.write(func(d *state) {
		if _, ok := d.users[userID]; !ok {
			err = apperrors.ErrUserNotFound
			return
		}

		now := r.s.clock()
		chirp = models.Chirp{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
			Body:      body,
			UserID:    userID,
		}
		d.chirps[chirp.ID] = chirp
		d.nextSeq++
		d.seq[chirp.ID] = d.nextSeq
	})

	return chirp, err
}

func (r *ChirpRepo) Get(ctx context.Context, chirpID uuid.UUID) (models.Chirp, error) {
	var (
		chirp models.Chirp
		ok    bool
	)

	r.s.read(func(d *state) {
		chirp, ok = d.chirps[chirpID]
	})

	if !ok {
		return models.Chirp{}, apperrors.ErrChirpNotFound
	}
	return chirp, nil
}

func (r *ChirpRepo) List(ctx context.Context, opts repository.ListChirpsOpts) ([]models.Chirp, error) {
	chirps := make([]models.Chirp, 0)
	seq := make(map[uuid.UUID]uint64)

	r.s.read(func(d *state) {
		for _, c := range d.chirps {
			if opts.AuthorID != uuid.Nil && c.UserID != opts.AuthorID {
				continue
			}
			chirps = append(chirps, c)
			seq[c.ID] = d.seq[c.ID]
		}
	})

	sort.Slice(chirps, func(i, j int) bool {
		a, b := chirps[i], chirps[j]
		if opts.Desc {
			a, b = b, a
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return seq[a.ID] < seq[b.ID]
	})

	return chirps, nil
}

func (r *ChirpRepo) Delete(ctx context.Context, chirpID uuid.UUID) error {
	var err error

	r.s.write(func(d *state) {
		if _, ok := d.chirps[chirpID]; !ok {
			err = apperrors.ErrChirpNotFound
			return
		}
		delete(d.chirps, chirpID)
		delete(d.seq, chirpID)
	})

	return err
}
