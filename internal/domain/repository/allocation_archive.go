package repository

import (
	"context"

	"rewards-transparency-indexer/internal/domain/entity"
)

// AllocationArchive mirrors normalized records into a graph store for
// exploration of value flows around the home address. Archiving is a side
// channel: failures must never fail report creation.
type AllocationArchive interface {
	// ArchiveRecords persists the records as allocation relationships
	// between the home address and its counterparties.
	ArchiveRecords(ctx context.Context, home string, records []entity.NormalizedRecord) error
}
