package service

import (
	"context"

	"rewards-transparency-indexer/internal/domain/entity"
	"rewards-transparency-indexer/internal/domain/service"
	"rewards-transparency-indexer/internal/infrastructure/logger"

	"go.uber.org/zap"
)

// Asset id 0 is the chain's native currency; it never hits the indexer.
const (
	nativeAssetID  uint64 = 0
	nativeUnit            = "ALGO"
	nativeDecimals uint   = 6
)

// AssetResolverService looks up unit/decimals metadata for asset ids
// appearing in grouped output. Lookups are individual and uncached; any
// failure propagates and aborts the report.
type AssetResolverService struct {
	indexer service.IndexerClient
	logger  *logger.Logger
}

// NewAssetResolverService creates a new asset resolver service
func NewAssetResolverService(indexer service.IndexerClient, log *logger.Logger) *AssetResolverService {
	return &AssetResolverService{
		indexer: indexer,
		logger:  log.WithComponent("asset-resolver"),
	}
}

// ResolveAssets returns metadata for every asset id in the set.
func (s *AssetResolverService) ResolveAssets(ctx context.Context, ids map[uint64]struct{}) (map[uint64]entity.AssetInfo, error) {
	assets := make(map[uint64]entity.AssetInfo, len(ids))

	for id := range ids {
		if id == nativeAssetID {
			assets[id] = entity.AssetInfo{Unit: nativeUnit, Decimals: nativeDecimals}
			continue
		}

		info, err := s.indexer.AssetInfo(ctx, id)
		if err != nil {
			return nil, err
		}
		assets[id] = *info

		s.logger.Debug("Resolved asset",
			zap.Uint64("asset", id),
			zap.String("unit", info.Unit))
	}

	return assets, nil
}
