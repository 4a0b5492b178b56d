// Package domain holds the entities of the ledger core: accounts, the
// append-only history of balance-changing events, and the users that own
// accounts. Amounts are int64 minor currency units (cents) throughout to
// avoid floating point error.
package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sehyun-dev/gobank/pkg/utils"
)

// Account is a monetary account owned by a single user.
//
// Invariants:
//   - Balance never goes negative at any point the record is visible.
//   - Number and OwnerID are immutable after creation.
//   - Balance is mutated only through Deposit and Withdraw.
type Account struct {
	ID         uuid.UUID
	Number     string
	Credential string // bcrypt hash of the account secret
	Balance    int64
	OwnerID    uuid.UUID
	// Version is the optimistic concurrency token. It is owned by the store:
	// bumped on every successful update, compared on every conditional write.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AccountBuilder constructs valid Account values.
type AccountBuilder struct {
	id         uuid.UUID
	number     string
	credential string
	balance    int64
	ownerID    uuid.UUID
	createdAt  time.Time
}

// NewAccount returns a builder seeded with a fresh id.
func NewAccount() *AccountBuilder {
	return &AccountBuilder{
		id:        uuid.New(),
		createdAt: time.Now(),
	}
}

// WithID overrides the generated id, for hydrating a stored account.
func (b *AccountBuilder) WithID(id uuid.UUID) *AccountBuilder {
	b.id = id
	return b
}

// WithNumber sets the external account number. Mandatory.
func (b *AccountBuilder) WithNumber(number string) *AccountBuilder {
	b.number = number
	return b
}

// WithCredential sets the bcrypt hash authorizing withdrawals and transfers. Mandatory.
func (b *AccountBuilder) WithCredential(hash string) *AccountBuilder {
	b.credential = hash
	return b
}

// WithBalance sets the opening balance in minor units.
func (b *AccountBuilder) WithBalance(balance int64) *AccountBuilder {
	b.balance = balance
	return b
}

// WithOwnerID sets the owning user. Mandatory.
func (b *AccountBuilder) WithOwnerID(ownerID uuid.UUID) *AccountBuilder {
	b.ownerID = ownerID
	return b
}

// Build validates the invariants and returns the account.
func (b *AccountBuilder) Build() (*Account, error) {
	if b.number == "" {
		return nil, errors.New("account number is required")
	}
	if b.credential == "" {
		return nil, errors.New("account credential is required")
	}
	if b.ownerID == uuid.Nil {
		return nil, errors.New("ownerID is required")
	}
	if b.balance < 0 {
		return nil, errors.New("opening balance cannot be negative")
	}
	return &Account{
		ID:         b.id,
		Number:     b.number,
		Credential: b.credential,
		Balance:    b.balance,
		OwnerID:    b.ownerID,
		CreatedAt:  b.createdAt,
	}, nil
}

// OwnedBy reports whether actorID owns the account.
func (a *Account) OwnedBy(actorID uuid.UUID) bool {
	return a.OwnerID == actorID
}

// CredentialMatches checks the supplied secret against the stored hash.
func (a *Account) CredentialMatches(secret string) bool {
	return utils.CheckPasswordHash(secret, a.Credential)
}

// Deposit adds amount to the balance.
func (a *Account) Deposit(amount int64) error {
	if amount <= 0 {
		return ErrAmountMustBePositive
	}
	a.Balance += amount
	return nil
}

// Withdraw removes amount from the balance, refusing to go negative.
func (a *Account) Withdraw(amount int64) error {
	if amount <= 0 {
		return ErrAmountMustBePositive
	}
	if a.Balance < amount {
		return ErrInsufficientFunds
	}
	a.Balance -= amount
	return nil
}
