package repository

import (
	"context"

	"gorm.io/gorm"

	repo "github.com/sehyun-dev/gobank/pkg/repository"
)

// UoW implements repository.UnitOfWork on gorm transactions. Repositories
// handed out inside Do share the transaction session, so every write in the
// unit commits or rolls back together; outside Do they run on the base
// session.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a UnitOfWork for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// Do runs fn inside one database transaction. Any error from fn rolls the
// whole unit back.
func (u *UoW) Do(ctx context.Context, fn func(uow repo.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// Accounts implements repository.UnitOfWork.
func (u *UoW) Accounts() (repo.AccountRepository, error) {
	return NewAccountRepository(u.session()), nil
}

// Histories implements repository.UnitOfWork.
func (u *UoW) Histories() (repo.HistoryRepository, error) {
	return NewHistoryRepository(u.session()), nil
}

// Users implements repository.UnitOfWork.
func (u *UoW) Users() (repo.UserRepository, error) {
	return NewUserRepository(u.session()), nil
}
