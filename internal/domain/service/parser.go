package service

import (
	"time"

	"rewards-transparency-indexer/internal/domain/entity"
)

// ParserService normalizes raw indexer transactions from the perspective of
// a home address: payments and asset transfers (including one level of inner
// transactions) become signed NormalizedRecords, everything else is dropped.
type ParserService struct{}

// NewParserService creates a new parser service
func NewParserService() *ParserService {
	return &ParserService{}
}

// Parse converts the raw transactions into normalized records, keeping only
// leaves attributable to the home address whose outer round-time falls
// inside the inclusive [start, end] window. Inner transactions are filtered
// by the outer transaction's round-time; they carry no usable time of their
// own. Input order is preserved.
func (p *ParserService) Parse(txns []entity.RawTransaction, home string, start, end time.Time) []entity.NormalizedRecord {
	records := make([]entity.NormalizedRecord, 0, len(txns))
	lo, hi := start.Unix(), end.Unix()

	for i := range txns {
		outer := &txns[i]
		if outer.RoundTime < lo || outer.RoundTime > hi {
			continue
		}

		if rec, ok := p.parseLeaf(outer, home, outer); ok {
			records = append(records, rec)
		}
		for j := range outer.InnerTxns {
			if rec, ok := p.parseLeaf(&outer.InnerTxns[j], home, outer); ok {
				records = append(records, rec)
			}
		}
	}

	return records
}

// parseLeaf normalizes a single leaf transaction. The outer transaction
// supplies round, round-time and identity; inner transactions are not
// independently addressable via explorer links.
func (p *ParserService) parseLeaf(tx *entity.RawTransaction, home string, outer *entity.RawTransaction) (entity.NormalizedRecord, bool) {
	var (
		asset    uint64
		amount   uint64
		receiver string
	)

	switch tx.TxType {
	case entity.TxTypeAssetTransfer:
		// Zero-amount transfers are opt-ins, not value movements.
		if tx.AssetTransfer == nil || tx.AssetTransfer.Amount == 0 {
			return entity.NormalizedRecord{}, false
		}
		asset = tx.AssetTransfer.AssetID
		amount = tx.AssetTransfer.Amount
		receiver = tx.AssetTransfer.Receiver

	case entity.TxTypePayment:
		if tx.Payment == nil {
			return entity.NormalizedRecord{}, false
		}
		amount = tx.Payment.Amount
		receiver = tx.Payment.Receiver

	default:
		return entity.NormalizedRecord{}, false
	}

	rec := entity.NormalizedRecord{
		RoundTime: outer.RoundTime,
		Round:     outer.ConfirmedRound,
		Identity:  entity.IdentityOf(outer),
		Asset:     asset,
	}

	switch {
	case receiver == home:
		rec.Amount = int64(amount)
		rec.Sender = tx.Sender
	case tx.Sender == home:
		rec.Amount = -int64(amount)
		rec.Receiver = receiver
	default:
		// Neither side is the home address; the leaf is not attributable.
		return entity.NormalizedRecord{}, false
	}

	return rec, true
}
