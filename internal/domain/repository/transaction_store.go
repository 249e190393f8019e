package repository

import (
	"context"

	"rewards-transparency-indexer/internal/domain/entity"
)

// TransactionStore defines the local cache of raw transactions fetched for a
// home address. The cache is read once at fetch start and overwritten once at
// fetch end; concurrent fetches for the same address must be serialized by
// the caller.
type TransactionStore interface {
	// Load returns the cached transactions for the address, ordered by
	// confirmed round. A missing cache yields an empty slice, not an error.
	Load(ctx context.Context, address string) ([]entity.RawTransaction, error)

	// Save overwrites the cache for the address with the full list.
	Save(ctx context.Context, address string, txns []entity.RawTransaction) error
}
