package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/abkawan/bankbook/internal/ledger"
	"github.com/abkawan/bankbook/internal/models"
	"github.com/abkawan/bankbook/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	gateway   *storage.MemoryGateway
	store     *ledger.Store
	users     *UserService
	accounts  *AccountService
	transfers *TransferService
	user      *models.User
}

// newFixture builds the full service stack over a memory gateway and
// registers one user.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	gateway := storage.NewMemoryGateway()
	store := ledger.NewStore(gateway, testLogger())
	require.NoError(t, store.Load(ctx))

	f := &fixture{
		gateway:   gateway,
		store:     store,
		users:     NewUserService(store, testLogger()),
		accounts:  NewAccountService(store, testLogger()),
		transfers: NewTransferService(store, testLogger()),
	}

	user, err := f.users.Register(ctx, "Ada", "ada@example.com", "correct horse")
	require.NoError(t, err)
	f.user = user
	return f
}

func (f *fixture) newAccount(t *testing.T, balance int64) *models.Account {
	t.Helper()
	account, err := f.accounts.CreateAccount(context.Background(), f.user.ID, "checking", decimal.NewFromInt(balance))
	require.NoError(t, err)
	return account
}

func (f *fixture) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	account, err := f.store.Account(accountID)
	require.NoError(t, err)
	return account.Balance
}
