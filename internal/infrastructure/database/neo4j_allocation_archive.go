package database

import (
	"context"
	"fmt"

	"rewards-transparency-indexer/internal/domain/entity"
	"rewards-transparency-indexer/internal/domain/repository"
	"rewards-transparency-indexer/internal/infrastructure/config"
	"rewards-transparency-indexer/internal/infrastructure/logger"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// Neo4JAllocationArchive mirrors normalized records into Neo4J as ALLOCATED
// relationships between the home address and its counterparties, so value
// flows around the escrow can be explored as a graph.
type Neo4JAllocationArchive struct {
	client *Neo4JClient
	config *config.Neo4JConfig
	logger *logger.Logger
}

// NewNeo4JAllocationArchive creates a new Neo4J allocation archive
func NewNeo4JAllocationArchive(client *Neo4JClient, cfg *config.Neo4JConfig, log *logger.Logger) repository.AllocationArchive {
	return &Neo4JAllocationArchive{
		client: client,
		config: cfg,
		logger: log.WithComponent("allocation-archive"),
	}
}

// ArchiveRecords persists the records as allocation relationships. Inbound
// records point from the counterparty to the home address, outbound records
// the other way. Disabled configuration makes this a no-op.
func (a *Neo4JAllocationArchive) ArchiveRecords(ctx context.Context, home string, records []entity.NormalizedRecord) error {
	if !a.config.Enabled {
		return nil
	}
	if len(records) == 0 {
		return nil
	}

	rows := make([]map[string]any, 0, len(records))
	for i := range records {
		rec := &records[i]

		from, to := home, rec.Receiver
		if rec.Amount > 0 {
			from, to = rec.Sender, home
		}

		rows = append(rows, map[string]any{
			"from":       from,
			"to":         to,
			"ref":        rec.Identity.Ref,
			"asset":      int64(rec.Asset),
			"amount":     rec.Amount,
			"round":      int64(rec.Round),
			"round_time": rec.RoundTime,
		})
	}

	session := a.client.GetDriver().NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: a.config.Database,
	})
	defer session.Close(ctx)

	query := `
		UNWIND $rows AS row
		MERGE (from:Address {address: row.from})
		MERGE (to:Address {address: row.to})
		MERGE (from)-[r:ALLOCATED {ref: row.ref, asset: row.asset, amount: row.amount}]->(to)
		SET r.round = row.round,
		    r.round_time = row.round_time
	`

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, query, map[string]any{"rows": rows})
	})
	if err != nil {
		return fmt.Errorf("failed to archive allocation records: %w", err)
	}

	a.logger.Debug("Archived allocation records",
		zap.String("home", home),
		zap.Int("count", len(records)))

	return nil
}
