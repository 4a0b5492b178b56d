package ledger

import "github.com/google/uuid"

// CreateAccount opens an account. InitialBalance is in minor units.
type CreateAccount struct {
	Number         string
	Credential     string
	InitialBalance int64
	OwnerID        uuid.UUID
}

// Deposit credits an account by number. Deposits carry no actor: anyone may
// pay into an account.
type Deposit struct {
	AccountNumber string
	Amount        int64
}

// Withdraw debits an account by number on behalf of ActorID.
type Withdraw struct {
	AccountNumber string
	Credential    string
	Amount        int64
	ActorID       uuid.UUID
}

// Transfer moves Amount from the withdraw account to the deposit account.
type Transfer struct {
	WithdrawNumber string
	DepositNumber  string
	Credential     string
	Amount         int64
	ActorID        uuid.UUID
}
