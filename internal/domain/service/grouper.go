package service

import (
	"rewards-transparency-indexer/internal/domain/entity"
)

// GrouperService coalesces ordered normalized records into allocation
// groups. Project addresses (address → label) are injected configuration;
// their presence as counterparty is preserved through grouping.
type GrouperService struct {
	projects map[string]string
}

// NewGrouperService creates a new grouper service
func NewGrouperService(projects map[string]string) *GrouperService {
	return &GrouperService{projects: projects}
}

// GroupByType buckets records by (asset, direction) across the whole period.
// Buckets appear in first-seen order. Start is fixed by the first record of
// a bucket, End is set and updated by every later record, and a project
// counterparty re-stamps the bucket on every occurrence (last one wins).
func (g *GrouperService) GroupByType(records []entity.NormalizedRecord) []entity.AllocationGroup {
	type bucketKey struct {
		asset   uint64
		inbound bool
	}

	groups := make([]entity.AllocationGroup, 0)
	index := make(map[bucketKey]int)

	for i := range records {
		rec := &records[i]
		key := bucketKey{asset: rec.Asset, inbound: rec.Amount > 0}

		idx, ok := index[key]
		if !ok {
			groups = append(groups, entity.AllocationGroup{
				Asset:  rec.Asset,
				Amount: rec.Amount,
				Count:  1,
				Start:  rec.Entry(),
			})
			idx = len(groups) - 1
			index[key] = idx
		} else {
			grp := &groups[idx]
			grp.Amount += rec.Amount
			grp.Count++
			end := rec.Entry()
			grp.End = &end
		}

		g.stamp(&groups[idx], rec)
	}

	return groups
}

// GroupChronological walks the records once, coalescing adjacent compatible
// records into runs. A record extends the current run iff it has the same
// asset, the same direction, and a compatible counterparty: a matching
// already-stamped project sender, a matching already-stamped project
// receiver, or both sides anonymous. The counterparty stamp is applied only
// when a run starts; a stamped run is never re-absorbed by a later anonymous
// record, which keeps named allocation runs free of unrelated transfers.
func (g *GrouperService) GroupChronological(records []entity.NormalizedRecord) []entity.AllocationGroup {
	groups := make([]entity.AllocationGroup, 0)
	if len(records) == 0 {
		return groups
	}

	current := g.newChronologicalGroup(&records[0])
	for i := 1; i < len(records); i++ {
		rec := &records[i]
		if !g.extends(&current, rec) {
			groups = append(groups, current)
			current = g.newChronologicalGroup(rec)
			continue
		}

		current.Amount += rec.Amount
		current.Count++
		end := rec.Entry()
		current.End = &end
	}

	// The in-progress run is never dropped.
	return append(groups, current)
}

// newChronologicalGroup starts a run from a single record, stamping a
// project counterparty if one is present.
func (g *GrouperService) newChronologicalGroup(rec *entity.NormalizedRecord) entity.AllocationGroup {
	grp := entity.AllocationGroup{
		Asset:  rec.Asset,
		Amount: rec.Amount,
		Count:  1,
		Start:  rec.Entry(),
	}
	g.stamp(&grp, rec)
	return grp
}

// extends reports whether rec may join the current run.
func (g *GrouperService) extends(grp *entity.AllocationGroup, rec *entity.NormalizedRecord) bool {
	if rec.Asset != grp.Asset {
		return false
	}
	if (rec.Amount > 0) != (grp.Amount > 0) {
		return false
	}

	switch {
	case rec.Sender != "" && g.isProject(rec.Sender):
		return rec.Sender == grp.Sender
	case rec.Receiver != "" && g.isProject(rec.Receiver):
		return rec.Receiver == grp.Receiver
	default:
		// Anonymous records only chain with other anonymous records.
		return grp.Sender == "" && grp.Receiver == ""
	}
}

// stamp copies a project counterparty onto the group, overwriting any
// earlier stamp.
func (g *GrouperService) stamp(grp *entity.AllocationGroup, rec *entity.NormalizedRecord) {
	if rec.Sender != "" && g.isProject(rec.Sender) {
		grp.Sender = rec.Sender
	}
	if rec.Receiver != "" && g.isProject(rec.Receiver) {
		grp.Receiver = rec.Receiver
	}
}

func (g *GrouperService) isProject(address string) bool {
	_, ok := g.projects[address]
	return ok
}
