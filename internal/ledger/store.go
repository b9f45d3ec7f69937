// Package ledger holds the canonical in-memory account state and the
// append-only transaction journal, synchronized to durable storage after
// every mutation.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/abkawan/bankbook/internal/models"
	"github.com/abkawan/bankbook/internal/storage"
)

// Publisher receives every committed journal record. Publishing is
// best-effort; failures are logged and never fail the operation.
type Publisher interface {
	PublishTransaction(ctx context.Context, record *models.Transaction) error
}

// Store is the source of truth during a process lifetime. All reads and
// commits serialize on one mutex; a two-account transfer therefore cannot
// deadlock or interleave with other operations.
type Store struct {
	mu      sync.Mutex
	gateway storage.Gateway
	feed    Publisher
	log     *slog.Logger

	users        []*models.User
	accounts     []*models.Account
	transactions []*models.Transaction

	usersByID    map[string]*models.User
	usersByEmail map[string]*models.User
	accountsByID map[string]*models.Account
}

// NewStore creates an empty store backed by the given gateway.
func NewStore(gateway storage.Gateway, log *slog.Logger) *Store {
	return &Store{
		gateway:      gateway,
		log:          log,
		usersByID:    make(map[string]*models.User),
		usersByEmail: make(map[string]*models.User),
		accountsByID: make(map[string]*models.Account),
	}
}

// AttachFeed sets the journal feed publisher. Must be called before the
// store is shared between goroutines.
func (s *Store) AttachFeed(feed Publisher) {
	s.feed = feed
}

// Load replaces the in-memory state with the durable snapshot.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		users        []*models.User
		accounts     []*models.Account
		transactions []*models.Transaction
	)
	if err := s.gateway.LoadCollection(ctx, storage.CollectionUsers, &users); err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}
	if err := s.gateway.LoadCollection(ctx, storage.CollectionAccounts, &accounts); err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}
	if err := s.gateway.LoadCollection(ctx, storage.CollectionTransactions, &transactions); err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}

	s.users = users
	s.accounts = accounts
	s.transactions = transactions

	s.usersByID = make(map[string]*models.User, len(users))
	s.usersByEmail = make(map[string]*models.User, len(users))
	for _, u := range users {
		s.usersByID[u.ID] = u
		s.usersByEmail[u.Email] = u
	}
	s.accountsByID = make(map[string]*models.Account, len(accounts))
	for _, a := range accounts {
		s.accountsByID[a.ID] = a
	}

	s.log.Info("ledger loaded",
		slog.Int("users", len(users)),
		slog.Int("accounts", len(accounts)),
		slog.Int("transactions", len(transactions)),
	)
	return nil
}

// Update runs fn against a staged changeset. If fn succeeds, the full
// prospective snapshot is persisted and only then swapped into the live
// state; on any error nothing becomes visible.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{
		store:    s,
		accounts: make(map[string]*models.Account),
	}
	if err := fn(tx); err != nil {
		return err
	}

	users := s.users
	if len(tx.newUsers) > 0 {
		users = make([]*models.User, 0, len(s.users)+len(tx.newUsers))
		users = append(users, s.users...)
		users = append(users, tx.newUsers...)
	}

	accounts := s.accounts
	if len(tx.accounts) > 0 || len(tx.newAccounts) > 0 {
		accounts = make([]*models.Account, 0, len(s.accounts)+len(tx.newAccounts))
		for _, a := range s.accounts {
			if staged, ok := tx.accounts[a.ID]; ok {
				accounts = append(accounts, staged)
			} else {
				accounts = append(accounts, a)
			}
		}
		accounts = append(accounts, tx.newAccounts...)
	}

	transactions := s.transactions
	if len(tx.records) > 0 {
		transactions = make([]*models.Transaction, 0, len(s.transactions)+len(tx.records))
		transactions = append(transactions, s.transactions...)
		transactions = append(transactions, tx.records...)
	}

	if err := s.persist(ctx, users, accounts, transactions); err != nil {
		return err
	}

	s.users = users
	s.accounts = accounts
	s.transactions = transactions
	for _, u := range tx.newUsers {
		s.usersByID[u.ID] = u
		s.usersByEmail[u.Email] = u
	}
	for _, a := range tx.accounts {
		s.accountsByID[a.ID] = a
	}
	for _, a := range tx.newAccounts {
		s.accountsByID[a.ID] = a
	}

	s.publish(ctx, tx.records)
	return nil
}

// persist writes the full snapshot so a crash loses at most the in-flight
// operation.
func (s *Store) persist(ctx context.Context, users []*models.User, accounts []*models.Account, transactions []*models.Transaction) error {
	if err := s.gateway.SaveCollection(ctx, storage.CollectionUsers, users); err != nil {
		return fmt.Errorf("failed to persist users: %w", err)
	}
	if err := s.gateway.SaveCollection(ctx, storage.CollectionAccounts, accounts); err != nil {
		return fmt.Errorf("failed to persist accounts: %w", err)
	}
	if err := s.gateway.SaveCollection(ctx, storage.CollectionTransactions, transactions); err != nil {
		return fmt.Errorf("failed to persist transactions: %w", err)
	}
	return nil
}

func (s *Store) publish(ctx context.Context, records []*models.Transaction) {
	if s.feed == nil {
		return
	}
	for _, record := range records {
		if err := s.feed.PublishTransaction(ctx, record); err != nil {
			s.log.Warn("failed to publish journal record",
				slog.String("transaction_id", record.ID),
				slog.Any("error", err),
			)
		}
	}
}

// Account returns the account with the given id, active or not.
func (s *Store) Account(id string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accountsByID[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return account.Clone(), nil
}

// AccountsByUser returns the user's active accounts.
func (s *Store) AccountsByUser(userID string) []*models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*models.Account, 0)
	for _, a := range s.accounts {
		if a.UserID == userID && a.Active {
			result = append(result, a.Clone())
		}
	}
	return result
}

// TransactionsByAccount returns the account's records in chronological
// order. The journal is append-only, so insertion order is time order.
func (s *Store) TransactionsByAccount(accountID string) []*models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*models.Transaction, 0)
	for _, t := range s.transactions {
		if t.AccountID == accountID {
			result = append(result, t.Clone())
		}
	}
	return result
}

// User returns the user with the given id.
func (s *Store) User(id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.usersByID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user.Clone(), nil
}

// UserByEmail returns the user registered under the given email.
func (s *Store) UserByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.usersByEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user.Clone(), nil
}

// TotalBalance sums the balances of all active accounts.
func (s *Store) TotalBalance() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, a := range s.accounts {
		if a.Active {
			total = total.Add(a.Balance)
		}
	}
	return total
}
