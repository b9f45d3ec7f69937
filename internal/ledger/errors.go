package ledger

import "errors"

// Typed failures returned by ledger operations. All are recoverable and
// meant to be matched with errors.Is; only a failed persistence write
// surfaces as a wrapped I/O error instead.
var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountInactive    = errors.New("account inactive")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSameAccount        = errors.New("source and target are the same account")
)
