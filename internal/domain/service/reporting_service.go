package service

import (
	"context"
	"fmt"
	"time"
)

// GroupingPolicy selects how normalized records are coalesced into
// allocation groups.
type GroupingPolicy string

const (
	// GroupingChronological coalesces adjacent compatible records into runs.
	GroupingChronological GroupingPolicy = "chronological"
	// GroupingByType coalesces all same-asset, same-direction records of the
	// period into one bucket regardless of position.
	GroupingByType GroupingPolicy = "type"
)

// ParseGroupingPolicy validates a policy identifier from user input.
func ParseGroupingPolicy(s string) (GroupingPolicy, error) {
	switch GroupingPolicy(s) {
	case GroupingChronological, GroupingByType:
		return GroupingPolicy(s), nil
	}
	return "", fmt.Errorf("unknown grouping policy %q", s)
}

// ReportingService defines the interface for transparency report creation.
type ReportingService interface {
	// CreateReport fetches, parses, groups and formats the home address's
	// activity inside the inclusive [start, end] window and returns the
	// report as markdown.
	CreateReport(ctx context.Context, start, end time.Time, policy GroupingPolicy) (string, error)
}
