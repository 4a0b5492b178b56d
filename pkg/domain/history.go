package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// HistoryType selects which leg of the history log a query matches.
type HistoryType string

const (
	HistoryTypeAll      HistoryType = "all"
	HistoryTypeDeposit  HistoryType = "deposit"
	HistoryTypeWithdraw HistoryType = "withdraw"
)

// ParseHistoryType validates a raw filter value. The empty string means all.
func ParseHistoryType(raw string) (HistoryType, error) {
	switch HistoryType(raw) {
	case "", HistoryTypeAll:
		return HistoryTypeAll, nil
	case HistoryTypeDeposit:
		return HistoryTypeDeposit, nil
	case HistoryTypeWithdraw:
		return HistoryTypeWithdraw, nil
	}
	return "", errors.New("history type must be one of all, deposit, withdraw")
}

// History is one committed balance-changing event. Rows are append-only:
// never updated, never deleted. A transfer carries both legs; a plain
// deposit or withdrawal carries exactly one.
type History struct {
	ID     uuid.UUID
	Amount int64

	// Leg references. At least one is set; both for a transfer.
	WithdrawAccountID *uuid.UUID
	DepositAccountID  *uuid.UUID

	// Post-operation balances, present iff the matching leg is present.
	WithdrawBalanceAfter *int64
	DepositBalanceAfter  *int64

	CreatedAt time.Time
}

// NewWithdrawHistory records a single-leg withdrawal.
func NewWithdrawHistory(accountID uuid.UUID, amount, balanceAfter int64) (*History, error) {
	return newHistory(amount, &accountID, nil, &balanceAfter, nil)
}

// NewDepositHistory records a single-leg deposit.
func NewDepositHistory(accountID uuid.UUID, amount, balanceAfter int64) (*History, error) {
	return newHistory(amount, nil, &accountID, nil, &balanceAfter)
}

// NewTransferHistory records both legs of a transfer.
func NewTransferHistory(
	withdrawAccountID, depositAccountID uuid.UUID,
	amount, withdrawBalanceAfter, depositBalanceAfter int64,
) (*History, error) {
	return newHistory(
		amount,
		&withdrawAccountID, &depositAccountID,
		&withdrawBalanceAfter, &depositBalanceAfter,
	)
}

func newHistory(
	amount int64,
	withdrawAccountID, depositAccountID *uuid.UUID,
	withdrawBalanceAfter, depositBalanceAfter *int64,
) (*History, error) {
	if amount <= 0 {
		return nil, ErrAmountMustBePositive
	}
	if withdrawAccountID == nil && depositAccountID == nil {
		return nil, errors.New("history needs at least one leg")
	}
	if (withdrawAccountID == nil) != (withdrawBalanceAfter == nil) {
		return nil, errors.New("withdraw leg balance mismatch")
	}
	if (depositAccountID == nil) != (depositBalanceAfter == nil) {
		return nil, errors.New("deposit leg balance mismatch")
	}
	return &History{
		ID:                   uuid.New(),
		Amount:               amount,
		WithdrawAccountID:    withdrawAccountID,
		DepositAccountID:     depositAccountID,
		WithdrawBalanceAfter: withdrawBalanceAfter,
		DepositBalanceAfter:  depositBalanceAfter,
		CreatedAt:            time.Now(),
	}, nil
}

// Matches reports whether the row belongs to accountID under the given filter.
func (h *History) Matches(accountID uuid.UUID, t HistoryType) bool {
	onWithdraw := h.WithdrawAccountID != nil && *h.WithdrawAccountID == accountID
	onDeposit := h.DepositAccountID != nil && *h.DepositAccountID == accountID
	switch t {
	case HistoryTypeDeposit:
		return onDeposit
	case HistoryTypeWithdraw:
		return onWithdraw
	default:
		return onWithdraw || onDeposit
	}
}
