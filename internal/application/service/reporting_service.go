package service

import (
	"context"
	"fmt"
	"time"

	"rewards-transparency-indexer/internal/domain/entity"
	"rewards-transparency-indexer/internal/domain/repository"
	"rewards-transparency-indexer/internal/domain/service"
	"rewards-transparency-indexer/internal/infrastructure/config"
	"rewards-transparency-indexer/internal/infrastructure/logger"

	"go.uber.org/zap"
)

// ReportingApplicationService implements ReportingService: it drives
// fetch → parse → group → resolve → format and publishes the result.
type ReportingApplicationService struct {
	fetcher   *FetchService
	parser    *service.ParserService
	grouper   *service.GrouperService
	resolver  *AssetResolverService
	formatter *service.FormatterService
	archive   repository.AllocationArchive
	publisher service.ReportPublisher
	home      string
	logger    *logger.Logger
}

// NewReportingApplicationService creates a new reporting application service
func NewReportingApplicationService(
	fetcher *FetchService,
	parser *service.ParserService,
	grouper *service.GrouperService,
	resolver *AssetResolverService,
	formatter *service.FormatterService,
	archive repository.AllocationArchive,
	publisher service.ReportPublisher,
	reportCfg *config.ReportConfig,
	log *logger.Logger,
) service.ReportingService {
	home := reportCfg.HomeAddress
	if home == "" {
		home = service.ApplicationAddress(reportCfg.AppID)
	}

	return &ReportingApplicationService{
		fetcher:   fetcher,
		parser:    parser,
		grouper:   grouper,
		resolver:  resolver,
		formatter: formatter,
		archive:   archive,
		publisher: publisher,
		home:      home,
		logger:    log.WithComponent("reporting-service"),
	}
}

// CreateReport produces the transparency report for the inclusive
// [start, end] window under the selected grouping policy.
func (s *ReportingApplicationService) CreateReport(ctx context.Context, start, end time.Time, policy service.GroupingPolicy) (string, error) {
	s.logger.Info("Creating transparency report",
		zap.String("home", s.home),
		zap.Time("start", start),
		zap.Time("end", end),
		zap.String("policy", string(policy)))

	raw, err := s.fetcher.FetchAllTransactions(ctx, s.home)
	if err != nil {
		return "", fmt.Errorf("failed to fetch transactions: %w", err)
	}

	records := s.parser.Parse(raw, s.home, start, end)

	// Archiving is a side channel; it never fails the report.
	if err := s.archive.ArchiveRecords(ctx, s.home, records); err != nil {
		s.logger.Error("Failed to archive allocation records", zap.Error(err))
	}

	var groups []entity.AllocationGroup
	switch policy {
	case service.GroupingByType:
		groups = s.grouper.GroupByType(records)
	case service.GroupingChronological:
		groups = s.grouper.GroupChronological(records)
	default:
		return "", fmt.Errorf("unknown grouping policy %q", policy)
	}

	ids := make(map[uint64]struct{}, len(groups))
	for i := range groups {
		ids[groups[i].Asset] = struct{}{}
	}

	assets, err := s.resolver.ResolveAssets(ctx, ids)
	if err != nil {
		return "", fmt.Errorf("failed to resolve asset metadata: %w", err)
	}

	report := s.formatter.Format(groups, assets)

	event := &entity.ReportEvent{
		Home:      s.home,
		Policy:    string(policy),
		Start:     start.Unix(),
		End:       end.Unix(),
		Groups:    groups,
		Report:    report,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishReport(ctx, event); err != nil {
		s.logger.Error("Failed to publish report event", zap.Error(err))
	}

	s.logger.Info("Created transparency report",
		zap.Int("records", len(records)),
		zap.Int("groups", len(groups)))

	return report, nil
}
