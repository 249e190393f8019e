package service

import (
	"context"

	"rewards-transparency-indexer/internal/domain/entity"
)

// IndexerClient defines the interface to the blockchain indexer. The
// reporting engine only needs three lookups: paged transaction search for an
// address, the creation round of the tracked application, and per-asset
// unit/decimals metadata.
type IndexerClient interface {
	// SearchTransactionsByAddress returns one page of transactions touching
	// the address, starting at minRound. An empty nextToken requests the
	// first page.
	SearchTransactionsByAddress(ctx context.Context, address string, limit uint64, minRound uint64, nextToken string) (*entity.TransactionPage, error)

	// ApplicationCreatedAtRound returns the round the application was
	// created at, used as the fetch floor for an empty cache.
	ApplicationCreatedAtRound(ctx context.Context, appID uint64) (uint64, error)

	// AssetInfo returns unit/decimals metadata for an asset id.
	AssetInfo(ctx context.Context, assetID uint64) (*entity.AssetInfo, error)
}
