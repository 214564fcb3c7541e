package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/models"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/repository"
	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/service/auth"
)

type UserService struct {
	hasher  auth.PasswordHasher
	storage repository.Storage
}

func NewService(hasher auth.PasswordHasher, storage repository.Storage) *UserService {
	if hasher == nil {
		hasher = auth.NewArgon2Hasher(auth.DefaultArgon2Params)
	}

	return &UserService{
		hasher:  hasher,
		storage: storage,
	}
}

func (s *UserService) CreateUser(ctx context.Context, email string, password string) (models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	user, err := s.storage.User().CreateUser(ctx, email, hash)
	if err != nil {
		return models.User{}, fmt.Errorf("can't create user. Err: %w", err)
	}

	return user, nil
}

// Replace user email and password at once
func (s *UserService) UpdateUser(ctx context.Context, userID uuid.UUID, email string, password string) (models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	user, err := s.storage.User().UpdateUser(ctx, userID, email, hash)
	if err != nil {
		return models.User{}, fmt.Errorf("can't update user. Err: %w", err)
	}

	return user, nil
}

func (s *UserService) UpgradeToRed(ctx context.Context, userID uuid.UUID) (models.User, error) {
	user, err := s.storage.User().UpgradeToRed(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("can't upgrade user. Err: %w", err)
	}

	return user, nil
}

// Delete every user with their chirps and refresh tokens
func (s *UserService) Reset(ctx context.Context) error {
	err := s.storage.InTx(ctx, func(tx repository.Storage) error {
		return tx.User().DeleteAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("can't reset users. Err: %w", err)
	}

	return nil
}
