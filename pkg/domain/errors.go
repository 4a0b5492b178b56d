package domain

import "errors"

var (
	// ErrAccountNotFound is returned when an account cannot be found by id or number.
	ErrAccountNotFound = errors.New("account not found")

	// ErrNotOwner is returned when an actor attempts to move funds out of an account they do not own.
	ErrNotOwner = errors.New("account not owned by actor")

	// ErrInvalidCredential is returned when the supplied account credential does not match.
	ErrInvalidCredential = errors.New("invalid account credential")

	// ErrInsufficientFunds is returned when a withdrawal or transfer would drive the balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAmountMustBePositive is returned when a transaction amount is not positive.
	ErrAmountMustBePositive = errors.New("amount must be positive")

	// ErrConcurrentUpdate is returned by a store when a write lost the race against another
	// writer (the row's version moved since it was read). The coordinator retries these.
	ErrConcurrentUpdate = errors.New("account changed concurrently")

	// ErrPersistence is returned when a write affected an unexpected number of rows or the
	// atomic unit could not commit. Never partially applied, never caller-correctable.
	ErrPersistence = errors.New("persistence failure")

	// ErrUserNotFound is returned when a user cannot be found.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserUnauthorized is returned on failed login or an unusable token.
	ErrUserUnauthorized = errors.New("user unauthorized")

	// ErrUsernameTaken is returned when registering a username that exists.
	ErrUsernameTaken = errors.New("username already taken")
)
