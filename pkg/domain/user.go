package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// User is the principal that owns accounts and authenticates against the API.
type User struct {
	ID        uuid.UUID
	Username  string
	Password  string // bcrypt hash
	CreatedAt time.Time
}

// NewUser builds a user from a username and an already-hashed password.
func NewUser(username, passwordHash string) (*User, error) {
	if username == "" {
		return nil, errors.New("username is required")
	}
	if passwordHash == "" {
		return nil, errors.New("password hash is required")
	}
	return &User{
		ID:        uuid.New(),
		Username:  username,
		Password:  passwordHash,
		CreatedAt: time.Now(),
	}, nil
}
