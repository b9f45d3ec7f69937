// Package storage persists the ledger's collections as structured documents.
package storage

import (
	"context"
)

// Names of the durable collections.
const (
	CollectionUsers        = "users"
	CollectionAccounts     = "accounts"
	CollectionTransactions = "transactions"
)

// Gateway reads and writes whole collections of flat records. Saving
// overwrites the stored collection; loading a collection that was never
// saved leaves out untouched. Gateways carry no business logic.
type Gateway interface {
	// LoadCollection decodes the stored collection into out, which must be
	// a pointer to a slice.
	LoadCollection(ctx context.Context, name string, out any) error

	// SaveCollection replaces the stored collection with records.
	SaveCollection(ctx context.Context, name string, records any) error

	Close(ctx context.Context) error
}
