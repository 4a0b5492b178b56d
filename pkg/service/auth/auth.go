// Package auth issues and reads the JWTs that carry the acting principal.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sehyun-dev/gobank/pkg/config"
	"github.com/sehyun-dev/gobank/pkg/domain"
	"github.com/sehyun-dev/gobank/pkg/repository"
	"github.com/sehyun-dev/gobank/pkg/utils"
)

// Service authenticates users and mints tokens.
type Service struct {
	uow    repository.UnitOfWork
	cfg    config.Jwt
	logger *slog.Logger
}

// New creates an auth service.
func New(uow repository.UnitOfWork, cfg config.Jwt, logger *slog.Logger) *Service {
	return &Service{uow: uow, cfg: cfg, logger: logger}
}

// Login verifies the credentials and returns a signed token. Failed lookups
// and failed password checks are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	logger := s.logger.With("op", "login", "username", username)
	users, err := s.uow.Users()
	if err != nil {
		return "", err
	}
	u, err := users.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if u == nil || !utils.CheckPasswordHash(password, u.Password) {
		logger.Warn("login rejected")
		return "", domain.ErrUserUnauthorized
	}
	token, err := s.GenerateToken(u)
	if err != nil {
		logger.Error("token generation failed", "error", err)
		return "", err
	}
	logger.Info("login successful", "user_id", u.ID)
	return token, nil
}

// GenerateToken signs a token carrying the user id.
func (s *Service) GenerateToken(u *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": u.ID.String(),
		"exp":     time.Now().Add(s.cfg.Expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

// CurrentUserID extracts the acting principal from a verified token.
func CurrentUserID(token *jwt.Token) (uuid.UUID, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: unexpected claims type", domain.ErrUserUnauthorized)
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: missing user_id claim", domain.ErrUserUnauthorized)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed user_id claim", domain.ErrUserUnauthorized)
	}
	return id, nil
}
