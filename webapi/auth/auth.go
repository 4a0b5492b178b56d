// Package auth exposes login over HTTP.
package auth

import (
	"github.com/gofiber/fiber/v2"

	authsvc "github.com/sehyun-dev/gobank/pkg/service/auth"
	"github.com/sehyun-dev/gobank/webapi/common"
)

// LoginRequest carries the credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Routes registers the auth endpoints.
func Routes(app *fiber.App, svc *authsvc.Service) {
	app.Post("/auth/login", Login(svc))
}

// Login verifies credentials and returns a bearer token.
func Login(svc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginRequest](c)
		if input == nil {
			return err
		}
		token, err := svc.Login(c.Context(), input.Username, input.Password)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Logged in", fiber.Map{"token": token})
	}
}
