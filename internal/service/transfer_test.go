package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abkawan/bankbook/internal/ledger"
	"github.com/abkawan/bankbook/internal/models"
)

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	source := f.newAccount(t, 100)
	require.NoError(t, f.accounts.Deposit(ctx, source.ID, decimal.NewFromInt(50)))
	target := f.newAccount(t, 0)

	require.NoError(t, f.transfers.Transfer(ctx, source.ID, target.ID, decimal.NewFromInt(150)))

	assert.Equal(t, "0", f.balance(t, source.ID).String())
	assert.Equal(t, "150", f.balance(t, target.ID).String())

	sourceRecords := f.store.TransactionsByAccount(source.ID)
	targetRecords := f.store.TransactionsByAccount(target.ID)
	// 1 plain deposit + 4 transfer records across both accounts.
	require.Len(t, sourceRecords, 3)
	require.Len(t, targetRecords, 2)

	assert.Equal(t, models.Deposit, sourceRecords[0].Type)
	assert.Equal(t, models.Withdrawal, sourceRecords[1].Type)
	assert.Equal(t, models.TransferOut, sourceRecords[2].Type)
	assert.Equal(t, models.Deposit, targetRecords[0].Type)
	assert.Equal(t, models.TransferIn, targetRecords[1].Type)

	out := sourceRecords[2]
	in := targetRecords[1]
	assert.Equal(t, target.ID, out.RelatedAccount)
	assert.Equal(t, source.ID, in.RelatedAccount)
	require.NotEmpty(t, out.TransferID)
	assert.Equal(t, out.TransferID, in.TransferID, "both sides must share one transfer id")

	// Plain records carry no correlation fields.
	assert.Empty(t, sourceRecords[1].TransferID)
	assert.Empty(t, targetRecords[0].TransferID)
}

func TestTransferConservesTotalBalance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	source := f.newAccount(t, 300)
	target := f.newAccount(t, 80)

	before := f.store.TotalBalance()
	require.NoError(t, f.transfers.Transfer(ctx, source.ID, target.ID, decimal.NewFromInt(120)))

	assert.Equal(t, "180", f.balance(t, source.ID).String())
	assert.Equal(t, "200", f.balance(t, target.ID).String())
	assert.True(t, before.Equal(f.store.TotalBalance()), "transfer must not create or destroy funds")
}

func TestTransferFailuresLeaveNoTrace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	source := f.newAccount(t, 100)
	target := f.newAccount(t, 0)

	assertUntouched := func(t *testing.T) {
		t.Helper()
		assert.Equal(t, "100", f.balance(t, source.ID).String())
		assert.Equal(t, "0", f.balance(t, target.ID).String())
		assert.Empty(t, f.store.TransactionsByAccount(source.ID))
		assert.Empty(t, f.store.TransactionsByAccount(target.ID))
	}

	t.Run("insufficient funds", func(t *testing.T) {
		err := f.transfers.Transfer(ctx, source.ID, target.ID, decimal.NewFromInt(500))
		require.ErrorIs(t, err, ledger.ErrInsufficientFunds)
		assertUntouched(t)
	})

	t.Run("unknown target debits nothing", func(t *testing.T) {
		err := f.transfers.Transfer(ctx, source.ID, "missing", decimal.NewFromInt(50))
		require.ErrorIs(t, err, ledger.ErrAccountNotFound)
		assertUntouched(t)
	})

	t.Run("inactive target debits nothing", func(t *testing.T) {
		inactive := f.newAccount(t, 0)
		require.NoError(t, f.accounts.DeactivateAccount(ctx, inactive.ID))

		err := f.transfers.Transfer(ctx, source.ID, inactive.ID, decimal.NewFromInt(50))
		require.ErrorIs(t, err, ledger.ErrAccountInactive)
		assertUntouched(t)
		assert.Equal(t, "0", f.balance(t, inactive.ID).String())
	})

	t.Run("inactive source credits nothing", func(t *testing.T) {
		inactive := f.newAccount(t, 0)
		require.NoError(t, f.accounts.DeactivateAccount(ctx, inactive.ID))

		err := f.transfers.Transfer(ctx, inactive.ID, target.ID, decimal.NewFromInt(50))
		require.ErrorIs(t, err, ledger.ErrAccountInactive)
		assertUntouched(t)
	})

	t.Run("same account", func(t *testing.T) {
		err := f.transfers.Transfer(ctx, source.ID, source.ID, decimal.NewFromInt(10))
		require.ErrorIs(t, err, ledger.ErrSameAccount)
		assertUntouched(t)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		err := f.transfers.Transfer(ctx, source.ID, target.ID, decimal.Zero)
		require.ErrorIs(t, err, ledger.ErrInvalidAmount)
		assertUntouched(t)
	})
}

func TestJournalGrowthPerOperation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	source := f.newAccount(t, 1000)
	target := f.newAccount(t, 0)

	const deposits = 3
	const transfers = 2
	for i := 0; i < deposits; i++ {
		require.NoError(t, f.accounts.Deposit(ctx, source.ID, decimal.NewFromInt(10)))
	}
	for i := 0; i < transfers; i++ {
		require.NoError(t, f.transfers.Transfer(ctx, source.ID, target.ID, decimal.NewFromInt(5)))
	}

	total := len(f.store.TransactionsByAccount(source.ID)) + len(f.store.TransactionsByAccount(target.ID))
	// One record per simple operation, four per transfer.
	assert.Equal(t, deposits+4*transfers, total)
}
