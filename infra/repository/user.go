package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sehyun-dev/gobank/pkg/domain"
	repo "github.com/sehyun-dev/gobank/pkg/repository"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository over the given session.
func NewUserRepository(db *gorm.DB) repo.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Insert(ctx context.Context, u *domain.User) error {
	m := userToModel(u)
	res := r.db.WithContext(ctx).Create(&m)
	if res.Error != nil {
		return fmt.Errorf("%w: insert user: %v", domain.ErrPersistence, res.Error)
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("%w: insert user affected %d rows", domain.ErrPersistence, res.RowsAffected)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *userRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var m User
	err := r.db.WithContext(ctx).First(&m, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return userToDomain(&m), nil
}
