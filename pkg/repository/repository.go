// Package repository defines the storage contracts consumed by the ledger
// core. The core only ever touches these interfaces; gorm lives in infra.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/sehyun-dev/gobank/pkg/domain"
)

// AccountRepository is keyed durable storage for accounts.
//
// Lookups return (nil, nil) for absence; only genuine store failures produce
// an error. UpdateByID replaces the full row and must fail with
// domain.ErrConcurrentUpdate when the row's version moved since it was read,
// or with domain.ErrPersistence when the write did not affect exactly one row.
type AccountRepository interface {
	Insert(ctx context.Context, a *domain.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	// FindByIDForUpdate reads the row holding a row-level lock for the
	// remainder of the enclosing atomic unit, where the store supports it.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	FindByNumber(ctx context.Context, number string) (*domain.Account, error)
	FindByNumberForUpdate(ctx context.Context, number string) (*domain.Account, error)
	// FindByOwnerID lists the owner's accounts ordered by creation.
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Account, error)
	UpdateByID(ctx context.Context, a *domain.Account) error
}

// HistoryRepository is the append-only ledger of balance-changing events.
type HistoryRepository interface {
	Insert(ctx context.Context, h *domain.History) error
	// FindByHistoryType returns the account's rows most-recent-first.
	// HistoryTypeDeposit matches rows whose deposit leg is the account,
	// HistoryTypeWithdraw the withdraw leg, HistoryTypeAll either.
	FindByHistoryType(ctx context.Context, accountID uuid.UUID, t domain.HistoryType) ([]*domain.History, error)
}

// UserRepository stores principals.
type UserRepository interface {
	Insert(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

// UnitOfWork groups repository access with a transaction boundary.
//
// Do executes fn inside one atomic unit: every repository obtained from the
// UnitOfWork passed to fn runs on the same transaction, and an error from fn
// rolls back every write. Repositories obtained outside Do operate on the
// base session (auto-commit per call).
type UnitOfWork interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error
	Accounts() (AccountRepository, error)
	Histories() (HistoryRepository, error)
	Users() (UserRepository, error)
}
