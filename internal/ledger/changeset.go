package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/abkawan/bankbook/internal/models"
)

// Tx stages one operation's mutations: copied accounts, new records and
// appended journal entries. Nothing a Tx holds is visible until Update
// persists and commits it, which gives transfers their all-or-nothing
// boundary.
type Tx struct {
	store       *Store
	accounts    map[string]*models.Account
	newUsers    []*models.User
	newAccounts []*models.Account
	records     []*models.Transaction
}

// Account returns a staged copy of the account, active or not. Mutations
// to the returned value are committed with the changeset.
func (tx *Tx) Account(id string) (*models.Account, error) {
	if staged, ok := tx.accounts[id]; ok {
		return staged, nil
	}
	for _, a := range tx.newAccounts {
		if a.ID == id {
			return a, nil
		}
	}
	live, ok := tx.store.accountsByID[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	staged := live.Clone()
	tx.accounts[id] = staged
	return staged, nil
}

// ActiveAccount is Account restricted to active accounts.
func (tx *Tx) ActiveAccount(id string) (*models.Account, error) {
	account, err := tx.Account(id)
	if err != nil {
		return nil, err
	}
	if !account.Active {
		return nil, ErrAccountInactive
	}
	return account, nil
}

// UserExists reports whether a user id is known, staged users included.
func (tx *Tx) UserExists(id string) bool {
	if _, ok := tx.store.usersByID[id]; ok {
		return true
	}
	for _, u := range tx.newUsers {
		if u.ID == id {
			return true
		}
	}
	return false
}

// EmailTaken reports whether an email is already registered.
func (tx *Tx) EmailTaken(email string) bool {
	if _, ok := tx.store.usersByEmail[email]; ok {
		return true
	}
	for _, u := range tx.newUsers {
		if u.Email == email {
			return true
		}
	}
	return false
}

// AddUser stages a new user.
func (tx *Tx) AddUser(user *models.User) {
	tx.newUsers = append(tx.newUsers, user)
}

// AddAccount stages a new account.
func (tx *Tx) AddAccount(account *models.Account) {
	tx.newAccounts = append(tx.newAccounts, account)
}

// Log appends a journal record for a single-account balance change. It
// never fails; callers invoke it only after the mutation has been
// validated and applied to the staged account.
func (tx *Tx) Log(accountID string, typ models.TransactionType, amount decimal.Decimal) {
	tx.append(accountID, typ, amount, "", "")
}

// LogTransfer appends one side of a transfer pair. Both sides share the
// transferID; relatedAccountID names the counterparty.
func (tx *Tx) LogTransfer(accountID string, typ models.TransactionType, amount decimal.Decimal, relatedAccountID, transferID string) {
	tx.append(accountID, typ, amount, relatedAccountID, transferID)
}

func (tx *Tx) append(accountID string, typ models.TransactionType, amount decimal.Decimal, relatedAccountID, transferID string) {
	tx.records = append(tx.records, &models.Transaction{
		ID:             uuid.NewString(),
		AccountID:      accountID,
		Type:           typ,
		Amount:         amount,
		RelatedAccount: relatedAccountID,
		TransferID:     transferID,
		Timestamp:      time.Now().UTC(),
	})
}
