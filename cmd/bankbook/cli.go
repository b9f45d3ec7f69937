package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	money "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/abkawan/bankbook/internal/ledger"
	"github.com/abkawan/bankbook/internal/models"
	"github.com/abkawan/bankbook/internal/service"
)

// session is the authenticated user for one interactive run. It is passed
// explicitly; nothing in the program holds a current user globally.
type session struct {
	user *models.User
}

// cli maps menu choices onto service calls and renders typed failures as
// messages. It holds no business logic.
type cli struct {
	users     *service.UserService
	accounts  *service.AccountService
	transfers *service.TransferService

	in  *bufio.Scanner
	out io.Writer
}

func newCLI(users *service.UserService, accounts *service.AccountService, transfers *service.TransferService, in io.Reader, out io.Writer) *cli {
	return &cli{
		users:     users,
		accounts:  accounts,
		transfers: transfers,
		in:        bufio.NewScanner(in),
		out:       out,
	}
}

// Run loops until the user exits, stdin closes or ctx is cancelled.
func (c *cli) Run(ctx context.Context) {
	var sess session
	for ctx.Err() == nil {
		if sess.user == nil {
			if !c.anonymousMenu(ctx, &sess) {
				return
			}
			continue
		}
		if !c.userMenu(ctx, &sess) {
			return
		}
	}
}

// anonymousMenu returns false when the loop should stop.
func (c *cli) anonymousMenu(ctx context.Context, sess *session) bool {
	fmt.Fprintln(c.out, "1. Login | 2. Register | 3. Exit")
	choice, ok := c.readLine("> ")
	if !ok {
		return false
	}
	switch choice {
	case "1":
		email, ok := c.readLine("Email: ")
		if !ok {
			return false
		}
		password, ok := c.readLine("Password: ")
		if !ok {
			return false
		}
		user, err := c.users.Authenticate(ctx, email, password)
		if err != nil {
			fmt.Fprintln(c.out, errMessage(err))
			return true
		}
		sess.user = user
		fmt.Fprintf(c.out, "Welcome back, %s\n", user.Name)
	case "2":
		name, ok := c.readLine("Name: ")
		if !ok {
			return false
		}
		email, ok := c.readLine("Email: ")
		if !ok {
			return false
		}
		password, ok := c.readLine("Password: ")
		if !ok {
			return false
		}
		user, err := c.users.Register(ctx, name, email, password)
		if err != nil {
			fmt.Fprintln(c.out, errMessage(err))
			return true
		}
		fmt.Fprintf(c.out, "Registered %s\n", user.Email)
	case "3":
		return false
	}
	return true
}

// userMenu returns false when the loop should stop.
func (c *cli) userMenu(ctx context.Context, sess *session) bool {
	fmt.Fprintln(c.out, "1. Create Account | 2. Deposit | 3. Withdraw | 4. Transfer | 5. My Accounts | 6. View Transactions | 7. Deactivate Account | 8. Logout")
	choice, ok := c.readLine("> ")
	if !ok {
		return false
	}
	switch choice {
	case "1":
		accountType, ok := c.readLine("Account Type (checking/savings): ")
		if !ok {
			return false
		}
		account, err := c.accounts.CreateAccount(ctx, sess.user.ID, accountType, decimal.Zero)
		if err != nil {
			fmt.Fprintln(c.out, errMessage(err))
			return true
		}
		fmt.Fprintf(c.out, "Created account %s\n", account.ID)
	case "2":
		id, amount, ok := c.readAccountAndAmount()
		if !ok {
			return false
		}
		if err := c.accounts.Deposit(ctx, id, amount); err != nil {
			fmt.Fprintln(c.out, errMessage(err))
		}
	case "3":
		id, amount, ok := c.readAccountAndAmount()
		if !ok {
			return false
		}
		if err := c.accounts.Withdraw(ctx, id, amount); err != nil {
			fmt.Fprintln(c.out, errMessage(err))
		}
	case "4":
		source, ok := c.readLine("Source Account ID: ")
		if !ok {
			return false
		}
		target, ok := c.readLine("Target Account ID: ")
		if !ok {
			return false
		}
		amount, ok := c.readAmount()
		if !ok {
			return false
		}
		if err := c.transfers.Transfer(ctx, source, target, amount); err != nil {
			fmt.Fprintln(c.out, errMessage(err))
		}
	case "5":
		accounts, err := c.accounts.GetUserAccounts(ctx, sess.user.ID)
		if err != nil {
			fmt.Fprintln(c.out, errMessage(err))
			return true
		}
		for _, a := range accounts {
			fmt.Fprintf(c.out, "%s (%s): %s\n", a.ID, a.Type, formatAmount(a.Balance))
		}
	case "6":
		id, ok := c.readLine("Account ID: ")
		if !ok {
			return false
		}
		records, err := c.accounts.GetAccountTransactions(ctx, id)
		if err != nil {
			fmt.Fprintln(c.out, errMessage(err))
			return true
		}
		for _, t := range records {
			fmt.Fprintf(c.out, "%s: %s at %s\n", t.Type, formatAmount(t.Amount), t.Timestamp.Format("2006-01-02 15:04:05"))
		}
	case "7":
		id, ok := c.readLine("Account ID: ")
		if !ok {
			return false
		}
		if err := c.accounts.DeactivateAccount(ctx, id); err != nil {
			fmt.Fprintln(c.out, errMessage(err))
		}
	case "8":
		sess.user = nil
	}
	return true
}

func (c *cli) readLine(prompt string) (string, bool) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		return "", false
	}
	return c.in.Text(), true
}

func (c *cli) readAmount() (decimal.Decimal, bool) {
	for {
		line, ok := c.readLine("Amount: ")
		if !ok {
			return decimal.Zero, false
		}
		amount, err := decimal.NewFromString(line)
		if err != nil {
			fmt.Fprintln(c.out, "Enter a decimal amount, e.g. 25.50")
			continue
		}
		return amount, true
	}
}

func (c *cli) readAccountAndAmount() (string, decimal.Decimal, bool) {
	id, ok := c.readLine("Account ID: ")
	if !ok {
		return "", decimal.Zero, false
	}
	amount, ok := c.readAmount()
	if !ok {
		return "", decimal.Zero, false
	}
	return id, amount, true
}

// formatAmount renders a decimal amount as currency at the display
// boundary only; arithmetic stays in decimals.
func formatAmount(amount decimal.Decimal) string {
	return money.New(amount.Shift(2).IntPart(), money.USD).Display()
}

func errMessage(err error) string {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		return "Amount must be a positive number"
	case errors.Is(err, ledger.ErrAccountNotFound):
		return "Account not found"
	case errors.Is(err, ledger.ErrAccountInactive):
		return "Account is inactive"
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return "Insufficient funds"
	case errors.Is(err, ledger.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, ledger.ErrEmailTaken):
		return "That email is already registered"
	case errors.Is(err, ledger.ErrInvalidEmail):
		return "Enter a valid email address"
	case errors.Is(err, ledger.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, ledger.ErrSameAccount):
		return "Source and target must be different accounts"
	default:
		return fmt.Sprintf("Operation failed: %v", err)
	}
}
