package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"rewards-transparency-indexer/internal/domain/entity"
	"rewards-transparency-indexer/internal/domain/repository"
	"rewards-transparency-indexer/internal/domain/service"
	"rewards-transparency-indexer/internal/infrastructure/config"
	"rewards-transparency-indexer/internal/infrastructure/logger"

	"go.uber.org/zap"
)

// SleepFunc abstracts blocking delays so tests can fake them.
type SleepFunc func(d time.Duration)

// FetchService pages through the indexer's transaction history for the home
// address, merging new transactions into the on-disk cache. Fetches for the
// same address must be serialized by the caller.
type FetchService struct {
	indexer service.IndexerClient
	store   repository.TransactionStore
	config  *config.IndexerConfig
	appID   uint64
	sleep   SleepFunc
	logger  *logger.Logger
}

// NewFetchService creates a new fetch service
func NewFetchService(
	indexer service.IndexerClient,
	store repository.TransactionStore,
	indexerCfg *config.IndexerConfig,
	reportCfg *config.ReportConfig,
	log *logger.Logger,
) *FetchService {
	return &FetchService{
		indexer: indexer,
		store:   store,
		config:  indexerCfg,
		appID:   reportCfg.AppID,
		sleep:   time.Sleep,
		logger:  log.WithComponent("fetch-service"),
	}
}

// FetchAllTransactions returns the full transaction history of the home
// address, cache plus anything newly confirmed. The fetch floor is one past
// the last cached round, or the tracked application's creation round when
// the cache is empty. New transactions are merged, stably re-sorted by
// confirmed round and persisted back in full before returning.
func (s *FetchService) FetchAllTransactions(ctx context.Context, home string) ([]entity.RawTransaction, error) {
	cached, err := s.store.Load(ctx, home)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction cache: %w", err)
	}

	var minRound uint64
	if len(cached) > 0 {
		minRound = cached[len(cached)-1].ConfirmedRound + 1
	} else {
		minRound, err = s.indexer.ApplicationCreatedAtRound(ctx, s.appID)
		if err != nil {
			return nil, fmt.Errorf("failed to determine fetch floor: %w", err)
		}
	}

	fetched, err := s.collectPages(ctx, home, minRound)
	if err != nil {
		return nil, err
	}

	if len(fetched) == 0 {
		s.logger.Info("No new transactions",
			zap.String("address", home),
			zap.Int("cached", len(cached)))
		return cached, nil
	}

	merged := make([]entity.RawTransaction, 0, len(cached)+len(fetched))
	merged = append(merged, cached...)
	merged = append(merged, fetched...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].ConfirmedRound < merged[j].ConfirmedRound
	})

	if err := s.store.Save(ctx, home, merged); err != nil {
		return nil, fmt.Errorf("failed to persist transaction cache: %w", err)
	}

	s.logger.Info("Fetched new transactions",
		zap.String("address", home),
		zap.Int("new", len(fetched)),
		zap.Int("total", len(merged)))

	return merged, nil
}

// collectPages drains the indexer's paged search, starting at minRound.
// Pagination terminates on the first empty page.
func (s *FetchService) collectPages(ctx context.Context, home string, minRound uint64) ([]entity.RawTransaction, error) {
	var (
		fetched   []entity.RawTransaction
		nextToken string
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := s.searchWithRetry(ctx, home, minRound, nextToken)
		if err != nil {
			return nil, err
		}
		if len(page.Transactions) == 0 {
			return fetched, nil
		}

		fetched = append(fetched, page.Transactions...)
		nextToken = page.NextToken
	}
}

// searchWithRetry wraps a single page request in a bounded retry loop: a
// courtesy delay before every attempt, an error delay after a failure, and a
// fatal error once the retry ceiling is exceeded.
func (s *FetchService) searchWithRetry(ctx context.Context, home string, minRound uint64, nextToken string) (*entity.TransactionPage, error) {
	for attempt := 0; ; attempt++ {
		s.sleep(s.config.PageDelay)

		page, err := s.indexer.SearchTransactionsByAddress(ctx, home, s.config.FetchLimit, minRound, nextToken)
		if err == nil {
			return page, nil
		}

		if attempt >= s.config.MaxRetries {
			s.logger.Error("Maximum number of retries reached, aborting fetch",
				zap.String("address", home),
				zap.Int("retries", attempt),
				zap.Error(err))
			return nil, fmt.Errorf("maximum number of retries reached: %w", err)
		}

		s.logger.Error("Transaction search failed, retrying",
			zap.String("address", home),
			zap.Uint64("min_round", minRound),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
		s.sleep(s.config.ErrorDelay)
	}
}
