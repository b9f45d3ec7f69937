package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	// Deposit represents a credit to a single account
	Deposit TransactionType = "deposit"

	// Withdrawal represents a debit from a single account
	Withdrawal TransactionType = "withdrawal"

	// TransferOut marks the debited side of a transfer
	TransferOut TransactionType = "transfer_out"

	// TransferIn marks the credited side of a transfer
	TransferIn TransactionType = "transfer_in"
)

// Transaction is one immutable journal record. Amount is always
// non-negative; direction is carried by Type. RelatedAccount and TransferID
// are set only on the transfer_out/transfer_in pair, and both sides of one
// transfer share the same TransferID.
type Transaction struct {
	ID             string          `json:"id" bson:"_id"`
	AccountID      string          `json:"account_id" bson:"account_id"`
	Type           TransactionType `json:"type" bson:"type"`
	Amount         decimal.Decimal `json:"amount" bson:"amount"`
	RelatedAccount string          `json:"related_account,omitempty" bson:"related_account,omitempty"`
	TransferID     string          `json:"transfer_id,omitempty" bson:"transfer_id,omitempty"`
	Timestamp      time.Time       `json:"timestamp" bson:"timestamp"`
}

// Clone returns an independent copy of the record.
func (t *Transaction) Clone() *Transaction {
	c := *t
	return &c
}
