package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/abkawan/bankbook/internal/ledger"
	"github.com/abkawan/bankbook/internal/models"
)

// TransferService moves funds between two accounts as one operation.
type TransferService struct {
	store *ledger.Store
	log   *slog.Logger
}

// NewTransferService creates a new TransferService.
func NewTransferService(store *ledger.Store, log *slog.Logger) *TransferService {
	return &TransferService{
		store: store,
		log:   log,
	}
}

// Transfer debits source and credits target in a single changeset: both
// balance moves and all four journal records (the withdrawal/deposit pair
// plus the correlated transfer_out/transfer_in pair) commit together or
// not at all. A failure on either side leaves no visible state change.
func (s *TransferService) Transfer(ctx context.Context, sourceID, targetID string, amount decimal.Decimal) error {
	if sourceID == targetID {
		return ledger.ErrSameAccount
	}
	if !amount.IsPositive() {
		return ledger.ErrInvalidAmount
	}

	transferID := uuid.NewString()
	err := s.store.Update(ctx, func(tx *ledger.Tx) error {
		source, err := tx.ActiveAccount(sourceID)
		if err != nil {
			return fmt.Errorf("source account: %w", err)
		}
		target, err := tx.ActiveAccount(targetID)
		if err != nil {
			return fmt.Errorf("target account: %w", err)
		}
		if source.Balance.LessThan(amount) {
			return ledger.ErrInsufficientFunds
		}

		source.Balance = source.Balance.Sub(amount)
		target.Balance = target.Balance.Add(amount)

		tx.Log(source.ID, models.Withdrawal, amount)
		tx.Log(target.ID, models.Deposit, amount)
		tx.LogTransfer(source.ID, models.TransferOut, amount, target.ID, transferID)
		tx.LogTransfer(target.ID, models.TransferIn, amount, source.ID, transferID)
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("transfer",
		slog.String("transfer_id", transferID),
		slog.String("source_id", sourceID),
		slog.String("target_id", targetID),
		slog.String("amount", amount.String()),
	)
	return nil
}
