// Package repository implements the storage contracts on gorm/Postgres.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sehyun-dev/gobank/pkg/domain"
	repo "github.com/sehyun-dev/gobank/pkg/repository"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates an account repository over the given session.
func NewAccountRepository(db *gorm.DB) repo.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Insert(ctx context.Context, a *domain.Account) error {
	m := accountToModel(a)
	if m.Version == 0 {
		m.Version = 1
	}
	res := r.db.WithContext(ctx).Create(&m)
	if res.Error != nil {
		return fmt.Errorf("%w: insert account: %v", domain.ErrPersistence, res.Error)
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("%w: insert account affected %d rows", domain.ErrPersistence, res.RowsAffected)
	}
	a.Version = m.Version
	return nil
}

func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return r.findOne(ctx, r.db, "id = ?", id)
}

func (r *accountRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return r.findOne(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id)
}

func (r *accountRepository) FindByNumber(ctx context.Context, number string) (*domain.Account, error) {
	return r.findOne(ctx, r.db, "number = ?", number)
}

func (r *accountRepository) FindByNumberForUpdate(ctx context.Context, number string) (*domain.Account, error) {
	return r.findOne(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), "number = ?", number)
}

func (r *accountRepository) findOne(ctx context.Context, tx *gorm.DB, query string, arg any) (*domain.Account, error) {
	var m Account
	err := tx.WithContext(ctx).First(&m, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	return accountToDomain(&m), nil
}

func (r *accountRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Account, error) {
	var models []Account
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at asc").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	out := make([]*domain.Account, 0, len(models))
	for i := range models {
		out = append(out, accountToDomain(&models[i]))
	}
	return out, nil
}

// UpdateByID replaces the full row, guarded by the version read with the
// account. A version mismatch (or a vanished row) affects zero rows and
// surfaces as domain.ErrConcurrentUpdate for the coordinator to retry.
func (r *accountRepository) UpdateByID(ctx context.Context, a *domain.Account) error {
	res := r.db.WithContext(ctx).Model(&Account{}).
		Where("id = ? AND version = ?", a.ID, a.Version).
		Updates(map[string]any{
			"number":     a.Number,
			"credential": a.Credential,
			"balance":    a.Balance,
			"owner_id":   a.OwnerID,
			"version":    a.Version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("%w: update account: %v", domain.ErrPersistence, res.Error)
	}
	if res.RowsAffected != 1 {
		return domain.ErrConcurrentUpdate
	}
	a.Version++
	return nil
}
