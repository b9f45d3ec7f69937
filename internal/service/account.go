package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/abkawan/bankbook/internal/ledger"
	"github.com/abkawan/bankbook/internal/models"
)

// AccountService handles single-account operations.
type AccountService struct {
	store *ledger.Store
	log   *slog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(store *ledger.Store, log *slog.Logger) *AccountService {
	return &AccountService{
		store: store,
		log:   log,
	}
}

// CreateAccount opens a new active account for an existing user. Account
// creation itself is not journaled; only balance changes are.
func (s *AccountService) CreateAccount(ctx context.Context, userID, accountType string, initialBalance decimal.Decimal) (*models.Account, error) {
	if initialBalance.IsNegative() {
		return nil, ledger.ErrInvalidAmount
	}

	account := &models.Account{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      accountType,
		Balance:   initialBalance,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}

	err := s.store.Update(ctx, func(tx *ledger.Tx) error {
		if !tx.UserExists(userID) {
			return ledger.ErrUserNotFound
		}
		tx.AddAccount(account)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("account created",
		slog.String("account_id", account.ID),
		slog.String("user_id", userID),
		slog.String("type", accountType),
	)
	return account.Clone(), nil
}

// Deposit credits an active account and journals the change.
func (s *AccountService) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ledger.ErrInvalidAmount
	}

	err := s.store.Update(ctx, func(tx *ledger.Tx) error {
		account, err := tx.ActiveAccount(accountID)
		if err != nil {
			return err
		}
		account.Balance = account.Balance.Add(amount)
		tx.Log(account.ID, models.Deposit, amount)
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("deposit",
		slog.String("account_id", accountID),
		slog.String("amount", amount.String()),
	)
	return nil
}

// Withdraw debits an active account, refusing to take the balance
// negative, and journals the change.
func (s *AccountService) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ledger.ErrInvalidAmount
	}

	err := s.store.Update(ctx, func(tx *ledger.Tx) error {
		account, err := tx.ActiveAccount(accountID)
		if err != nil {
			return err
		}
		if account.Balance.LessThan(amount) {
			return ledger.ErrInsufficientFunds
		}
		account.Balance = account.Balance.Sub(amount)
		tx.Log(account.ID, models.Withdrawal, amount)
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("withdrawal",
		slog.String("account_id", accountID),
		slog.String("amount", amount.String()),
	)
	return nil
}

// DeactivateAccount permanently excludes the account from balance
// mutations. The balance is kept as-is and history stays queryable.
// Deactivating an already-inactive account is a no-op.
func (s *AccountService) DeactivateAccount(ctx context.Context, accountID string) error {
	err := s.store.Update(ctx, func(tx *ledger.Tx) error {
		account, err := tx.Account(accountID)
		if err != nil {
			return err
		}
		account.Active = false
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("account deactivated", slog.String("account_id", accountID))
	return nil
}

// GetAccount retrieves an account by id, active or not.
func (s *AccountService) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	account, err := s.store.Account(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// GetUserAccounts retrieves a user's active accounts.
func (s *AccountService) GetUserAccounts(ctx context.Context, userID string) ([]*models.Account, error) {
	if _, err := s.store.User(userID); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return s.store.AccountsByUser(userID), nil
}

// GetAccountTransactions retrieves the account's journal in chronological
// order. Inactive accounts remain queryable for history.
func (s *AccountService) GetAccountTransactions(ctx context.Context, accountID string) ([]*models.Transaction, error) {
	if _, err := s.store.Account(accountID); err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return s.store.TransactionsByAccount(accountID), nil
}
