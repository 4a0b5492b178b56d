package account

import (
	"time"

	"github.com/google/uuid"

	"github.com/sehyun-dev/gobank/pkg/domain"
)

// CreateAccountRequest opens an account for the authenticated user.
type CreateAccountRequest struct {
	Number         string `json:"number" validate:"required"`
	Credential     string `json:"credential" validate:"required,min=4"`
	InitialBalance int64  `json:"initial_balance" validate:"gte=0"`
}

// DepositRequest credits an account. Amounts are minor units.
type DepositRequest struct {
	Number string `json:"number" validate:"required"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
}

// WithdrawRequest debits the authenticated user's account.
type WithdrawRequest struct {
	Number     string `json:"number" validate:"required"`
	Credential string `json:"credential" validate:"required"`
	Amount     int64  `json:"amount" validate:"required,gt=0"`
}

// TransferRequest moves funds between two accounts.
type TransferRequest struct {
	WithdrawNumber string `json:"withdraw_number" validate:"required"`
	DepositNumber  string `json:"deposit_number" validate:"required"`
	Credential     string `json:"credential" validate:"required"`
	Amount         int64  `json:"amount" validate:"required,gt=0"`
}

// AccountResponse is the public view of an account. The credential hash
// never leaves the server.
type AccountResponse struct {
	ID        uuid.UUID `json:"id"`
	Number    string    `json:"number"`
	Balance   int64     `json:"balance"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryResponse is the public view of a ledger row.
type HistoryResponse struct {
	ID                   uuid.UUID  `json:"id"`
	Amount               int64      `json:"amount"`
	WithdrawAccountID    *uuid.UUID `json:"withdraw_account_id,omitempty"`
	DepositAccountID     *uuid.UUID `json:"deposit_account_id,omitempty"`
	WithdrawBalanceAfter *int64     `json:"withdraw_balance_after,omitempty"`
	DepositBalanceAfter  *int64     `json:"deposit_balance_after,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

func toAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Number:    a.Number,
		Balance:   a.Balance,
		OwnerID:   a.OwnerID,
		CreatedAt: a.CreatedAt,
	}
}

func toHistoryResponses(rows []*domain.History) []HistoryResponse {
	out := make([]HistoryResponse, 0, len(rows))
	for _, h := range rows {
		out = append(out, HistoryResponse{
			ID:                   h.ID,
			Amount:               h.Amount,
			WithdrawAccountID:    h.WithdrawAccountID,
			DepositAccountID:     h.DepositAccountID,
			WithdrawBalanceAfter: h.WithdrawBalanceAfter,
			DepositBalanceAfter:  h.DepositBalanceAfter,
			CreatedAt:            h.CreatedAt,
		})
	}
	return out
}
