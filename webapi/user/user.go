// Package user exposes principal registration over HTTP.
package user

import (
	"github.com/gofiber/fiber/v2"

	usersvc "github.com/sehyun-dev/gobank/pkg/service/user"
	"github.com/sehyun-dev/gobank/webapi/common"
)

// RegisterRequest creates a principal.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
}

// Routes registers the user endpoints.
func Routes(app *fiber.App, svc *usersvc.Service) {
	app.Post("/user", Register(svc))
}

// Register creates a new user.
func Register(svc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RegisterRequest](c)
		if input == nil {
			return err
		}
		u, err := svc.Register(c.Context(), input.Username, input.Password)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "User registered", fiber.Map{
			"user_id":  u.ID,
			"username": u.Username,
		})
	}
}
