// Package webapi assembles the Fiber application.
package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/sehyun-dev/gobank/infra/initializer"
	authsvc "github.com/sehyun-dev/gobank/pkg/service/auth"
	"github.com/sehyun-dev/gobank/pkg/service/ledger"
	usersvc "github.com/sehyun-dev/gobank/pkg/service/user"
	"github.com/sehyun-dev/gobank/webapi/account"
	"github.com/sehyun-dev/gobank/webapi/auth"
	"github.com/sehyun-dev/gobank/webapi/user"
)

// SetupApp builds the services and registers every route.
func SetupApp(deps *initializer.Deps) *fiber.App {
	app := fiber.New(fiber.Config{AppName: "gobank"})
	app.Use(requestid.New())
	app.Use(recover.New())

	ledgerSvc := ledger.New(deps.Uow, deps.Logger)
	authSvc := authsvc.New(deps.Uow, deps.Cfg.Jwt, deps.Logger)
	userSvc := usersvc.New(deps.Uow, deps.Logger)

	auth.Routes(app, authSvc)
	user.Routes(app, userSvc)
	account.Routes(app, ledgerSvc, deps.Cfg)

	return app
}
