package service

import (
	"context"

	"rewards-transparency-indexer/internal/domain/entity"
)

// ReportPublisher announces created reports to downstream consumers.
// Publishing is best-effort: failures are logged by the caller and never
// fail report creation.
type ReportPublisher interface {
	PublishReport(ctx context.Context, event *entity.ReportEvent) error
}
