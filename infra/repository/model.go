package repository

import (
	"time"

	"github.com/google/uuid"

	"github.com/sehyun-dev/gobank/pkg/domain"
)

// Account is the gorm row for a monetary account. Version is the optimistic
// concurrency column checked by every update.
type Account struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number     string    `gorm:"uniqueIndex;not null"`
	Credential string    `gorm:"not null"`
	Balance    int64     `gorm:"not null;check:balance >= 0"`
	OwnerID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Version    int64     `gorm:"not null;default:1"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// History is the gorm row for one committed balance-changing event. The
// table is append-only; no update or delete path exists in this codebase.
type History struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Amount               int64      `gorm:"not null"`
	WithdrawAccountID    *uuid.UUID `gorm:"type:uuid;index"`
	DepositAccountID     *uuid.UUID `gorm:"type:uuid;index"`
	WithdrawBalanceAfter *int64
	DepositBalanceAfter  *int64
	CreatedAt            time.Time
}

// User is the gorm row for a principal.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username  string    `gorm:"uniqueIndex;not null"`
	Password  string    `gorm:"not null"`
	CreatedAt time.Time
}

func accountToModel(a *domain.Account) Account {
	return Account{
		ID:         a.ID,
		Number:     a.Number,
		Credential: a.Credential,
		Balance:    a.Balance,
		OwnerID:    a.OwnerID,
		Version:    a.Version,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func accountToDomain(m *Account) *domain.Account {
	return &domain.Account{
		ID:         m.ID,
		Number:     m.Number,
		Credential: m.Credential,
		Balance:    m.Balance,
		OwnerID:    m.OwnerID,
		Version:    m.Version,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func historyToModel(h *domain.History) History {
	return History{
		ID:                   h.ID,
		Amount:               h.Amount,
		WithdrawAccountID:    h.WithdrawAccountID,
		DepositAccountID:     h.DepositAccountID,
		WithdrawBalanceAfter: h.WithdrawBalanceAfter,
		DepositBalanceAfter:  h.DepositBalanceAfter,
		CreatedAt:            h.CreatedAt,
	}
}

func historyToDomain(m *History) *domain.History {
	return &domain.History{
		ID:                   m.ID,
		Amount:               m.Amount,
		WithdrawAccountID:    m.WithdrawAccountID,
		DepositAccountID:     m.DepositAccountID,
		WithdrawBalanceAfter: m.WithdrawBalanceAfter,
		DepositBalanceAfter:  m.DepositBalanceAfter,
		CreatedAt:            m.CreatedAt,
	}
}

func userToModel(u *domain.User) User {
	return User{
		ID:        u.ID,
		Username:  u.Username,
		Password:  u.Password,
		CreatedAt: u.CreatedAt,
	}
}

func userToDomain(m *User) *domain.User {
	return &domain.User{
		ID:        m.ID,
		Username:  m.Username,
		Password:  m.Password,
		CreatedAt: m.CreatedAt,
	}
}
