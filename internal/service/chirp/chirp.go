package chirp

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/apperrors"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/models"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/repository"
)

const MaxLength = 140

var profane = map[string]struct{}{
	"kerfuffle": {},
	"sharbert":  {},
	"fornax":    {},
}

type ChirpService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *ChirpService {
	return &ChirpService{storage: storage}
}

// Validate, clean and save chirp
func (s *ChirpService) Create(ctx context.Context, userID uuid.UUID, body string) (models.Chirp, error) {
	if utf8.RuneCountInString(body) > MaxLength {
		return models.Chirp{}, fmt.Errorf("%w: max length is %d", apperrors.ErrChirpTooLong, MaxLength)
	}

	chirp, err := s.storage.Chirp().Create(ctx, userID, Clean(body))
	if err != nil {
		return models.Chirp{}, fmt.Errorf("can't create chirp. Err: %w", err)
	}

	return chirp, nil
}

// Replace profane words with ****
// Words are split on single spaces, so punctuation glued to a word keeps it intact
func Clean(body string) string {
	words := strings.Split(body, " ")
	for i, word := range words {
		if _, ok := profane[strings.ToLower(word)]; ok {
			words[i] = "****"
		}
	}
	return strings.Join(words, " ")
}

// List chirps, optionally of one author (uuid.Nil for all), oldest first unless desc
func (s *ChirpService) List(ctx context.Context, authorID uuid.UUID, desc bool) ([]models.Chirp, error) {
	return s.storage.Chirp().List(ctx, repository.ListChirpsOpts{AuthorID: authorID, Desc: desc})
}

func (s *ChirpService) Get(ctx context.Context, chirpID uuid.UUID) (models.Chirp, error) {
	return s.storage.Chirp().Get(ctx, chirpID)
}

// Delete chirp owned by the user
func (s *ChirpService) Delete(ctx context.Context, userID uuid.UUID, chirpID uuid.UUID) error {
	return s.storage.InTx(ctx, func(tx repository.Storage) error {
		chirp, err := tx.Chirp().Get(ctx, chirpID)
		if err != nil {
			return err
		}

		if chirp.UserID != userID {
			return apperrors.ErrForbidden
		}

		return tx.Chirp().Delete(ctx, chirpID)
	})
}
