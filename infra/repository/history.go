package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sehyun-dev/gobank/pkg/domain"
	repo "github.com/sehyun-dev/gobank/pkg/repository"
)

type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a history repository over the given session.
func NewHistoryRepository(db *gorm.DB) repo.HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Insert(ctx context.Context, h *domain.History) error {
	m := historyToModel(h)
	res := r.db.WithContext(ctx).Create(&m)
	if res.Error != nil {
		return fmt.Errorf("%w: insert history: %v", domain.ErrPersistence, res.Error)
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("%w: insert history affected %d rows", domain.ErrPersistence, res.RowsAffected)
	}
	return nil
}

func (r *historyRepository) FindByHistoryType(
	ctx context.Context,
	accountID uuid.UUID,
	t domain.HistoryType,
) ([]*domain.History, error) {
	tx := r.db.WithContext(ctx)
	switch t {
	case domain.HistoryTypeDeposit:
		tx = tx.Where("deposit_account_id = ?", accountID)
	case domain.HistoryTypeWithdraw:
		tx = tx.Where("withdraw_account_id = ?", accountID)
	default:
		tx = tx.Where("withdraw_account_id = ? OR deposit_account_id = ?", accountID, accountID)
	}
	var models []History
	if err := tx.Order("created_at desc").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	out := make([]*domain.History, 0, len(models))
	for i := range models {
		out = append(out, historyToDomain(&models[i]))
	}
	return out, nil
}
