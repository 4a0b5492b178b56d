// Command cli is an operator tool for poking the ledger without the HTTP
// layer: register users, open accounts, move funds, inspect history.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"syscall"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/sehyun-dev/gobank/infra/initializer"
	"github.com/sehyun-dev/gobank/pkg/config"
	"github.com/sehyun-dev/gobank/pkg/domain"
	"github.com/sehyun-dev/gobank/pkg/service/ledger"
	usersvc "github.com/sehyun-dev/gobank/pkg/service/user"
)

func usage() {
	fmt.Println("Usage: cli <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  register <username> <password>")
	fmt.Println("  create <owner_id> <number> [initial_balance]")
	fmt.Println("  deposit <number> <amount>")
	fmt.Println("  withdraw <owner_id> <number> <amount>")
	fmt.Println("  transfer <owner_id> <from_number> <to_number> <amount>")
	fmt.Println("  balance <account_id>")
	fmt.Println("  history <account_id> [all|deposit|withdraw]")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	cfg, err := config.Load(".env")
	if err != nil {
		color.Red("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	deps, err := initializer.New(cfg)
	if err != nil {
		color.Red("Failed to initialize: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	svc := ledger.New(deps.Uow, deps.Logger)
	users := usersvc.New(deps.Uow, deps.Logger)

	switch os.Args[1] {
	case "register":
		if len(os.Args) < 4 {
			usage()
			return
		}
		u, err := users.Register(ctx, os.Args[2], os.Args[3])
		if err != nil {
			color.Red("Error registering user: %v", err)
			return
		}
		color.Green("User registered: id=%s username=%s", u.ID, u.Username)

	case "create":
		if len(os.Args) < 4 {
			usage()
			return
		}
		ownerID, err := uuid.Parse(os.Args[2])
		if err != nil {
			color.Red("Invalid owner id: %v", err)
			return
		}
		var balance int64
		if len(os.Args) > 4 {
			balance, err = strconv.ParseInt(os.Args[4], 10, 64)
			if err != nil {
				color.Red("Invalid balance: %v", err)
				return
			}
		}
		credential, err := promptSecret("Account credential: ")
		if err != nil {
			color.Red("Error reading credential: %v", err)
			return
		}
		id, err := svc.CreateAccount(ctx, ledger.CreateAccount{
			Number:         os.Args[3],
			Credential:     credential,
			InitialBalance: balance,
			OwnerID:        ownerID,
		})
		if err != nil {
			color.Red("Error creating account: %v", err)
			return
		}
		color.Green("Account created: id=%s number=%s balance=%d", id, os.Args[3], balance)

	case "deposit":
		if len(os.Args) < 4 {
			usage()
			return
		}
		amount, err := strconv.ParseInt(os.Args[3], 10, 64)
		if err != nil {
			color.Red("Invalid amount: %v", err)
			return
		}
		historyID, err := svc.Deposit(ctx, ledger.Deposit{AccountNumber: os.Args[2], Amount: amount})
		if err != nil {
			color.Red("Error depositing: %v", err)
			return
		}
		color.Green("Deposited %d to %s (history %s)", amount, os.Args[2], historyID)

	case "withdraw":
		if len(os.Args) < 5 {
			usage()
			return
		}
		actorID, err := uuid.Parse(os.Args[2])
		if err != nil {
			color.Red("Invalid owner id: %v", err)
			return
		}
		amount, err := strconv.ParseInt(os.Args[4], 10, 64)
		if err != nil {
			color.Red("Invalid amount: %v", err)
			return
		}
		credential, err := promptSecret("Account credential: ")
		if err != nil {
			color.Red("Error reading credential: %v", err)
			return
		}
		historyID, err := svc.Withdraw(ctx, ledger.Withdraw{
			AccountNumber: os.Args[3],
			Credential:    credential,
			Amount:        amount,
			ActorID:       actorID,
		})
		if err != nil {
			color.Red("Error withdrawing: %v", err)
			return
		}
		color.Green("Withdrew %d from %s (history %s)", amount, os.Args[3], historyID)

	case "transfer":
		if len(os.Args) < 6 {
			usage()
			return
		}
		actorID, err := uuid.Parse(os.Args[2])
		if err != nil {
			color.Red("Invalid owner id: %v", err)
			return
		}
		amount, err := strconv.ParseInt(os.Args[5], 10, 64)
		if err != nil {
			color.Red("Invalid amount: %v", err)
			return
		}
		credential, err := promptSecret("Account credential: ")
		if err != nil {
			color.Red("Error reading credential: %v", err)
			return
		}
		historyID, err := svc.Transfer(ctx, ledger.Transfer{
			WithdrawNumber: os.Args[3],
			DepositNumber:  os.Args[4],
			Credential:     credential,
			Amount:         amount,
			ActorID:        actorID,
		})
		if err != nil {
			color.Red("Error transferring: %v", err)
			return
		}
		color.Green("Transferred %d from %s to %s (history %s)", amount, os.Args[3], os.Args[4], historyID)

	case "balance":
		if len(os.Args) < 3 {
			usage()
			return
		}
		id, err := uuid.Parse(os.Args[2])
		if err != nil {
			color.Red("Invalid account id: %v", err)
			return
		}
		a, err := svc.GetAccount(ctx, id)
		if err != nil {
			color.Red("Error fetching account: %v", err)
			return
		}
		color.Green("Account %s (%s): balance=%d", a.ID, a.Number, a.Balance)

	case "history":
		if len(os.Args) < 3 {
			usage()
			return
		}
		id, err := uuid.Parse(os.Args[2])
		if err != nil {
			color.Red("Invalid account id: %v", err)
			return
		}
		raw := ""
		if len(os.Args) > 3 {
			raw = os.Args[3]
		}
		historyType, err := domain.ParseHistoryType(raw)
		if err != nil {
			color.Red("%v", err)
			return
		}
		rows, err := svc.GetHistory(ctx, id, historyType)
		if err != nil {
			color.Red("Error fetching history: %v", err)
			return
		}
		for _, h := range rows {
			line := fmt.Sprintf("%s amount=%d", h.CreatedAt.Format("2006-01-02 15:04:05"), h.Amount)
			if h.WithdrawAccountID != nil {
				line += fmt.Sprintf(" withdraw=%s after=%d", *h.WithdrawAccountID, *h.WithdrawBalanceAfter)
			}
			if h.DepositAccountID != nil {
				line += fmt.Sprintf(" deposit=%s after=%d", *h.DepositAccountID, *h.DepositBalanceAfter)
			}
			fmt.Println(line)
		}

	default:
		usage()
	}
}

func promptSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(secret), nil
}
