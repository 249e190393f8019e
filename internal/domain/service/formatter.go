package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"rewards-transparency-indexer/internal/domain/entity"
)

// reportDateLayout renders round-times as UTC dates in report paragraphs.
const reportDateLayout = "Mon, 2 Jan 2006 15:04:05 UTC"

// ExplorerLinks builds explorer URLs for transaction entries. Implementations
// differ per explorer backend and network.
type ExplorerLinks interface {
	// EntryURL returns the explorer URL for the entry: a block+group path
	// for group-identified entries, a transaction path otherwise.
	EntryURL(entry entity.TransactionEntry) string
}

// FormatterService renders allocation groups as markdown paragraphs, one per
// group, newline-joined in grouping order.
type FormatterService struct {
	projects map[string]string
	links    ExplorerLinks
	printer  *message.Printer
}

// NewFormatterService creates a new formatter service
func NewFormatterService(projects map[string]string, links ExplorerLinks) *FormatterService {
	return &FormatterService{
		projects: projects,
		links:    links,
		printer:  message.NewPrinter(language.English),
	}
}

// Format renders the report body for the groups using the resolved asset
// metadata. Group order is preserved.
func (f *FormatterService) Format(groups []entity.AllocationGroup, assets map[uint64]entity.AssetInfo) string {
	paragraphs := make([]string, 0, len(groups))
	for i := range groups {
		paragraphs = append(paragraphs, f.paragraph(&groups[i], assets[groups[i].Asset]))
	}
	return strings.Join(paragraphs, "\n")
}

// paragraph renders a single allocation group as one sentence.
func (f *FormatterService) paragraph(grp *entity.AllocationGroup, info entity.AssetInfo) string {
	var b strings.Builder

	if grp.End == nil {
		b.WriteString("On ")
		b.WriteString(f.dateLink(grp.Start))
	} else {
		b.WriteString("From ")
		b.WriteString(f.dateLink(grp.Start))
		b.WriteString(" to ")
		b.WriteString(f.dateLink(*grp.End))
	}

	b.WriteString(", ")
	b.WriteString(f.amount(grp.Amount, info))
	b.WriteString(" ")
	b.WriteString(f.direction(grp))
	b.WriteString(".")

	return b.String()
}

// direction phrases where the funds went, based on sign, count and any
// stamped project counterparty.
func (f *FormatterService) direction(grp *entity.AllocationGroup) string {
	if grp.Amount > 0 {
		if grp.Sender != "" {
			return fmt.Sprintf("was transferred from %s address to the escrow", f.projects[grp.Sender])
		}
		return "was transferred to the escrow"
	}

	if grp.Count == 1 {
		if grp.Receiver != "" {
			return fmt.Sprintf("was transferred to %s address", f.projects[grp.Receiver])
		}
		return "was allocated for claiming by one contributor on the website"
	}

	return fmt.Sprintf("was allocated for claiming by %d contributors on the website", grp.Count)
}

// amount renders the absolute group amount in display units with thousands
// separators and two decimal places, followed by the asset's unit name.
func (f *FormatterService) amount(amount int64, info entity.AssetInfo) string {
	value := math.Abs(float64(amount)) / math.Pow10(int(info.Decimals))
	return f.printer.Sprintf("%.2f %s", value, info.Unit)
}

// dateLink renders "[date](url)" for an entry.
func (f *FormatterService) dateLink(entry entity.TransactionEntry) string {
	date := time.Unix(entry.RoundTime, 0).UTC().Format(reportDateLayout)
	return fmt.Sprintf("[%s](%s)", date, f.links.EntryURL(entry))
}
