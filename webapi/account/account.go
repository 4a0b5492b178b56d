// Package account exposes the ledger operations over HTTP.
package account

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sehyun-dev/gobank/pkg/config"
	"github.com/sehyun-dev/gobank/pkg/domain"
	"github.com/sehyun-dev/gobank/pkg/middleware"
	authsvc "github.com/sehyun-dev/gobank/pkg/service/auth"
	"github.com/sehyun-dev/gobank/pkg/service/ledger"
	"github.com/sehyun-dev/gobank/webapi/common"
)

// Routes registers the account endpoints. Every route requires a session;
// the deposit route does not check account ownership beyond that (anyone
// logged in may pay into any account).
func Routes(app *fiber.App, svc *ledger.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Jwt)
	app.Post("/account", protected, CreateAccount(svc))
	app.Get("/account", protected, ListAccounts(svc))
	app.Get("/account/:id", protected, GetAccount(svc))
	app.Get("/account/:id/history", protected, GetHistory(svc))
	app.Post("/account/deposit", protected, Deposit(svc))
	app.Post("/account/withdraw", protected, Withdraw(svc))
	app.Post("/account/transfer", protected, Transfer(svc))
}

func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
	}
	userID, err := authsvc.CurrentUserID(token)
	if err != nil {
		return uuid.Nil, common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
	}
	return userID, nil
}

// CreateAccount opens an account owned by the current user.
func CreateAccount(svc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err
		}
		id, err := svc.CreateAccount(c.Context(), ledger.CreateAccount{
			Number:         input.Number,
			Credential:     input.Credential,
			InitialBalance: input.InitialBalance,
			OwnerID:        userID,
		})
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", fiber.Map{"account_id": id})
	}
}

// ListAccounts returns the current user's accounts ordered by creation.
func ListAccounts(svc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		accounts, err := svc.ListAccountsByOwner(c.Context(), userID)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		out := make([]AccountResponse, 0, len(accounts))
		for _, a := range accounts {
			out = append(out, toAccountResponse(a))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts", out)
	}
}

// GetAccount returns one account by id.
func GetAccount(svc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := currentUserID(c); err != nil {
			return err
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account id", err.Error())
		}
		a, err := svc.GetAccount(c.Context(), id)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account", toAccountResponse(a))
	}
}

// GetHistory returns the account's ledger rows, filtered by ?type=.
func GetHistory(svc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := currentUserID(c); err != nil {
			return err
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account id", err.Error())
		}
		historyType, err := domain.ParseHistoryType(c.Query("type"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid history type", err.Error())
		}
		rows, err := svc.GetHistory(c.Context(), id, historyType)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "History", toHistoryResponses(rows))
	}
}

// Deposit credits an account by number.
func Deposit(svc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := currentUserID(c); err != nil {
			return err
		}
		input, err := common.BindAndValidate[DepositRequest](c)
		if input == nil {
			return err
		}
		historyID, err := svc.Deposit(c.Context(), ledger.Deposit{
			AccountNumber: input.Number,
			Amount:        input.Amount,
		})
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Deposit completed", fiber.Map{"history_id": historyID})
	}
}

// Withdraw debits an account owned by the current user.
func Withdraw(svc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[WithdrawRequest](c)
		if input == nil {
			return err
		}
		historyID, err := svc.Withdraw(c.Context(), ledger.Withdraw{
			AccountNumber: input.Number,
			Credential:    input.Credential,
			Amount:        input.Amount,
			ActorID:       userID,
		})
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Withdrawal completed", fiber.Map{"history_id": historyID})
	}
}

// Transfer moves funds between two accounts on behalf of the current user.
func Transfer(svc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[TransferRequest](c)
		if input == nil {
			return err
		}
		historyID, err := svc.Transfer(c.Context(), ledger.Transfer{
			WithdrawNumber: input.WithdrawNumber,
			DepositNumber:  input.DepositNumber,
			Credential:     input.Credential,
			Amount:         input.Amount,
			ActorID:        userID,
		})
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transfer completed", fiber.Map{"history_id": historyID})
	}
}
