// Package ledger implements the transaction coordinator: deposits,
// withdrawals and transfers over accounts, each executed as one atomic unit
// that pairs the balance mutation with an append to the history ledger.
//
// Concurrency model: accounts carry an optimistic version checked on every
// update, and the Postgres store additionally takes row locks inside the
// unit. A write that loses a race fails the whole unit with
// domain.ErrConcurrentUpdate; the coordinator then retries the operation
// from a fresh read, re-checking every precondition, a bounded number of
// times before surfacing domain.ErrPersistence. When a transfer must lock
// two accounts it locks them in ascending id order regardless of direction,
// so opposing transfers between the same pair cannot deadlock.
package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sehyun-dev/gobank/pkg/domain"
	"github.com/sehyun-dev/gobank/pkg/repository"
	"github.com/sehyun-dev/gobank/pkg/utils"
)

// maxAttempts bounds the retry loop for units rejected on a stale write.
const maxAttempts = 3

// Service coordinates all balance-changing operations and the reads around
// them. It is the only writer of account balances and history rows.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a coordinator over the given unit of work.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// CreateAccount hashes the credential, builds the account and inserts it.
// Number uniqueness is enforced by the store.
func (s *Service) CreateAccount(ctx context.Context, cmd CreateAccount) (uuid.UUID, error) {
	logger := s.logger.With("op", "create_account", "number", cmd.Number, "owner", cmd.OwnerID)
	hash, err := utils.HashPassword(cmd.Credential)
	if err != nil {
		return uuid.Nil, fmt.Errorf("hash credential: %w", err)
	}
	a, err := domain.NewAccount().
		WithNumber(cmd.Number).
		WithCredential(hash).
		WithBalance(cmd.InitialBalance).
		WithOwnerID(cmd.OwnerID).
		Build()
	if err != nil {
		return uuid.Nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.Accounts()
		if err != nil {
			return err
		}
		return accounts.Insert(ctx, a)
	})
	if err != nil {
		logger.Error("create account failed", "error", err)
		return uuid.Nil, err
	}
	logger.Info("account created", "account_id", a.ID)
	return a.ID, nil
}

// Deposit credits the account and appends the deposit history row. Returns
// the id of the new history row.
func (s *Service) Deposit(ctx context.Context, cmd Deposit) (uuid.UUID, error) {
	logger := s.logger.With("op", "deposit", "number", cmd.AccountNumber, "amount", cmd.Amount)
	return s.withRetry(ctx, logger, func(ctx context.Context) (uuid.UUID, error) {
		return s.depositOnce(ctx, cmd)
	})
}

func (s *Service) depositOnce(ctx context.Context, cmd Deposit) (uuid.UUID, error) {
	var historyID uuid.UUID
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.Accounts()
		if err != nil {
			return err
		}
		histories, err := uow.Histories()
		if err != nil {
			return err
		}
		a, err := accounts.FindByNumberForUpdate(ctx, cmd.AccountNumber)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrAccountNotFound
		}
		if err = a.Deposit(cmd.Amount); err != nil {
			return err
		}
		if err = accounts.UpdateByID(ctx, a); err != nil {
			return err
		}
		h, err := domain.NewDepositHistory(a.ID, cmd.Amount, a.Balance)
		if err != nil {
			return err
		}
		if err = histories.Insert(ctx, h); err != nil {
			return err
		}
		historyID = h.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return historyID, nil
}

// Withdraw debits the account after the ordered precondition checks:
// existence, ownership, credential, funds. Nothing is written before all
// four pass, and the balance update and history append commit together.
func (s *Service) Withdraw(ctx context.Context, cmd Withdraw) (uuid.UUID, error) {
	logger := s.logger.With("op", "withdraw", "number", cmd.AccountNumber, "amount", cmd.Amount, "actor", cmd.ActorID)
	return s.withRetry(ctx, logger, func(ctx context.Context) (uuid.UUID, error) {
		return s.withdrawOnce(ctx, cmd)
	})
}

func (s *Service) withdrawOnce(ctx context.Context, cmd Withdraw) (uuid.UUID, error) {
	var historyID uuid.UUID
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.Accounts()
		if err != nil {
			return err
		}
		histories, err := uow.Histories()
		if err != nil {
			return err
		}
		a, err := accounts.FindByNumberForUpdate(ctx, cmd.AccountNumber)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrAccountNotFound
		}
		if !a.OwnedBy(cmd.ActorID) {
			return domain.ErrNotOwner
		}
		if !a.CredentialMatches(cmd.Credential) {
			return domain.ErrInvalidCredential
		}
		if err = a.Withdraw(cmd.Amount); err != nil {
			return err
		}
		if err = accounts.UpdateByID(ctx, a); err != nil {
			return err
		}
		h, err := domain.NewWithdrawHistory(a.ID, cmd.Amount, a.Balance)
		if err != nil {
			return err
		}
		if err = histories.Insert(ctx, h); err != nil {
			return err
		}
		historyID = h.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return historyID, nil
}

// Transfer debits the withdraw leg and credits the deposit leg in one atomic
// unit with a single two-legged history row. Both legs are re-read under row
// locks taken in ascending id order before any mutation.
func (s *Service) Transfer(ctx context.Context, cmd Transfer) (uuid.UUID, error) {
	logger := s.logger.With(
		"op", "transfer",
		"from", cmd.WithdrawNumber,
		"to", cmd.DepositNumber,
		"amount", cmd.Amount,
		"actor", cmd.ActorID,
	)
	return s.withRetry(ctx, logger, func(ctx context.Context) (uuid.UUID, error) {
		return s.transferOnce(ctx, cmd)
	})
}

func (s *Service) transferOnce(ctx context.Context, cmd Transfer) (uuid.UUID, error) {
	var historyID uuid.UUID
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.Accounts()
		if err != nil {
			return err
		}
		histories, err := uow.Histories()
		if err != nil {
			return err
		}
		src, err := accounts.FindByNumber(ctx, cmd.WithdrawNumber)
		if err != nil {
			return err
		}
		if src == nil {
			return fmt.Errorf("withdraw account %q: %w", cmd.WithdrawNumber, domain.ErrAccountNotFound)
		}
		dst, err := accounts.FindByNumber(ctx, cmd.DepositNumber)
		if err != nil {
			return err
		}
		if dst == nil {
			return fmt.Errorf("deposit account %q: %w", cmd.DepositNumber, domain.ErrAccountNotFound)
		}
		if !src.OwnedBy(cmd.ActorID) {
			return domain.ErrNotOwner
		}
		if !src.CredentialMatches(cmd.Credential) {
			return domain.ErrInvalidCredential
		}
		if cmd.Amount <= 0 {
			return domain.ErrAmountMustBePositive
		}
		if src.Balance < cmd.Amount {
			return domain.ErrInsufficientFunds
		}

		// Lock both rows in ascending id order, then rebind the legs to the
		// locked reads. The funds check repeats on the fresh withdraw row.
		src, dst, err = lockPair(ctx, accounts, src, dst)
		if err != nil {
			return err
		}
		if err = src.Withdraw(cmd.Amount); err != nil {
			return err
		}
		if err = dst.Deposit(cmd.Amount); err != nil {
			return err
		}
		if err = accounts.UpdateByID(ctx, src); err != nil {
			return err
		}
		if err = accounts.UpdateByID(ctx, dst); err != nil {
			return err
		}
		h, err := domain.NewTransferHistory(src.ID, dst.ID, cmd.Amount, src.Balance, dst.Balance)
		if err != nil {
			return err
		}
		if err = histories.Insert(ctx, h); err != nil {
			return err
		}
		historyID = h.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return historyID, nil
}

// lockPair re-reads src and dst under row locks in ascending id order and
// returns the locked rows in (src, dst) order.
func lockPair(
	ctx context.Context,
	accounts repository.AccountRepository,
	src, dst *domain.Account,
) (*domain.Account, *domain.Account, error) {
	first, second := src.ID, dst.ID
	if bytes.Compare(second[:], first[:]) < 0 {
		first, second = second, first
	}
	lockedFirst, err := accounts.FindByIDForUpdate(ctx, first)
	if err != nil {
		return nil, nil, err
	}
	if lockedFirst == nil {
		return nil, nil, domain.ErrAccountNotFound
	}
	lockedSecond := lockedFirst
	if second != first {
		lockedSecond, err = accounts.FindByIDForUpdate(ctx, second)
		if err != nil {
			return nil, nil, err
		}
		if lockedSecond == nil {
			return nil, nil, domain.ErrAccountNotFound
		}
	}
	if lockedFirst.ID == src.ID {
		return lockedFirst, lockedSecond, nil
	}
	return lockedSecond, lockedFirst, nil
}

// GetAccount returns the account by id.
func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	accounts, err := s.uow.Accounts()
	if err != nil {
		return nil, err
	}
	a, err := accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrAccountNotFound
	}
	return a, nil
}

// ListAccountsByOwner returns the owner's accounts ordered by creation.
func (s *Service) ListAccountsByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Account, error) {
	accounts, err := s.uow.Accounts()
	if err != nil {
		return nil, err
	}
	return accounts.FindByOwnerID(ctx, ownerID)
}

// GetHistory returns the account's history rows for the given filter,
// most-recent-first. Authorization is the caller's concern.
func (s *Service) GetHistory(ctx context.Context, accountID uuid.UUID, t domain.HistoryType) ([]*domain.History, error) {
	histories, err := s.uow.Histories()
	if err != nil {
		return nil, err
	}
	return histories.FindByHistoryType(ctx, accountID, t)
}

// withRetry runs one attempt of op, retrying only stale-write rejections.
// Every retry re-runs the whole unit from fresh reads, so preconditions are
// re-checked against current state each time.
func (s *Service) withRetry(
	ctx context.Context,
	logger *slog.Logger,
	op func(ctx context.Context) (uuid.UUID, error),
) (uuid.UUID, error) {
	var (
		id  uuid.UUID
		err error
	)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		id, err = op(ctx)
		if err == nil {
			logger.Info("operation committed", "history_id", id, "attempt", attempt)
			return id, nil
		}
		if !errors.Is(err, domain.ErrConcurrentUpdate) {
			logger.Error("operation failed", "error", err)
			return uuid.Nil, err
		}
		logger.Warn("stale write, retrying", "attempt", attempt)
	}
	logger.Error("retries exhausted", "attempts", maxAttempts, "error", err)
	return uuid.Nil, fmt.Errorf("%w: gave up after %d stale writes", domain.ErrPersistence, maxAttempts)
}
