package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a single-currency balance owned by a user. Balance is a
// fixed-precision decimal; money never touches a float.
type Account struct {
	ID        string          `json:"id" bson:"_id"`
	UserID    string          `json:"user_id" bson:"user_id"`
	Type      string          `json:"type" bson:"type"`
	Balance   decimal.Decimal `json:"balance" bson:"balance"`
	Active    bool            `json:"active" bson:"active"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
}

// Clone returns an independent copy of the account.
func (a *Account) Clone() *Account {
	c := *a
	return &c
}
