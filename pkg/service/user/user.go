// Package user registers and reads the principals that own accounts.
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sehyun-dev/gobank/pkg/domain"
	"github.com/sehyun-dev/gobank/pkg/repository"
	"github.com/sehyun-dev/gobank/pkg/utils"
)

// Service manages principals.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a user service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Register creates a user with a hashed password.
func (s *Service) Register(ctx context.Context, username, password string) (*domain.User, error) {
	logger := s.logger.With("op", "register", "username", username)
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := domain.NewUser(username, hash)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.Users()
		if err != nil {
			return err
		}
		existing, err := users.FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrUsernameTaken
		}
		return users.Insert(ctx, u)
	})
	if err != nil {
		logger.Error("registration failed", "error", err)
		return nil, err
	}
	logger.Info("user registered", "user_id", u.ID)
	return u, nil
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	users, err := s.uow.Users()
	if err != nil {
		return nil, err
	}
	u, err := users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}
