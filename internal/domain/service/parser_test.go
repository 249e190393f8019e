package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rewards-transparency-indexer/internal/domain/entity"
)

const (
	testHome    = "2ASZECPEH4ALJWHFN2MKPAS355GC6MDARIC3MFVZCN6NJF76HZPU4R274Q"
	testCreator = "V2HN6R3A5YTFJLYFTRX7AIPFE7XRG2UVDSK24IZU6YVG2J7IHFRL7CFRTI"
)

func testWindow() (time.Time, time.Time) {
	return time.Unix(0, 0).UTC(), time.Unix(1<<40, 0).UTC()
}

// TestParseSignConvention verifies that inbound leaves get a positive amount
// with the counterparty as sender, and outbound leaves a negated amount with
// the counterparty as receiver.
func TestParseSignConvention(t *testing.T) {
	parser := NewParserService()
	start, end := testWindow()

	txns := []entity.RawTransaction{
		{
			ID:             "in1",
			TxType:         entity.TxTypeAssetTransfer,
			Sender:         testCreator,
			ConfirmedRound: 100,
			RoundTime:      1000,
			AssetTransfer:  &entity.AssetTransferPayload{Amount: 250, AssetID: 5, Receiver: testHome},
		},
		{
			ID:             "out1",
			TxType:         entity.TxTypeAssetTransfer,
			Sender:         testHome,
			ConfirmedRound: 101,
			RoundTime:      1001,
			AssetTransfer:  &entity.AssetTransferPayload{Amount: 100, AssetID: 5, Receiver: testCreator},
		},
	}

	records := parser.Parse(txns, testHome, start, end)
	require.Len(t, records, 2)

	assert.Equal(t, int64(250), records[0].Amount)
	assert.Equal(t, testCreator, records[0].Sender)
	assert.Empty(t, records[0].Receiver)

	assert.Equal(t, int64(-100), records[1].Amount)
	assert.Equal(t, testCreator, records[1].Receiver)
	assert.Empty(t, records[1].Sender)
}

// TestParsePaymentUsesNativeAsset verifies that payments always map to asset 0.
func TestParsePaymentUsesNativeAsset(t *testing.T) {
	parser := NewParserService()
	start, end := testWindow()

	txns := []entity.RawTransaction{
		{
			ID:             "pay1",
			TxType:         entity.TxTypePayment,
			Sender:         testCreator,
			ConfirmedRound: 100,
			RoundTime:      1000,
			Payment:        &entity.PaymentPayload{Amount: 500000, Receiver: testHome},
		},
	}

	records := parser.Parse(txns, testHome, start, end)
	require.Len(t, records, 1)
	assert.Equal(t, uint64(0), records[0].Asset)
	assert.Equal(t, int64(500000), records[0].Amount)
}

// TestParseIdentityFromOuter verifies that the group id wins over the
// transaction id and that inner transactions inherit the outer identity.
func TestParseIdentityFromOuter(t *testing.T) {
	parser := NewParserService()
	start, end := testWindow()

	txns := []entity.RawTransaction{
		{
			ID:             "outer1",
			Group:          "grp1",
			TxType:         "appl",
			Sender:         "someone",
			ConfirmedRound: 200,
			RoundTime:      2000,
			InnerTxns: []entity.RawTransaction{
				{
					TxType:        entity.TxTypeAssetTransfer,
					Sender:        testHome,
					AssetTransfer: &entity.AssetTransferPayload{Amount: 77, AssetID: 9, Receiver: testCreator},
				},
			},
		},
		{
			ID:             "outer2",
			TxType:         entity.TxTypePayment,
			Sender:         testCreator,
			ConfirmedRound: 201,
			RoundTime:      2001,
			Payment:        &entity.PaymentPayload{Amount: 10, Receiver: testHome},
		},
	}

	records := parser.Parse(txns, testHome, start, end)
	require.Len(t, records, 2)

	assert.Equal(t, entity.GroupIdentity("grp1"), records[0].Identity)
	assert.Equal(t, int64(2000), records[0].RoundTime)
	assert.Equal(t, uint64(200), records[0].Round)

	assert.Equal(t, entity.SingleIdentity("outer2"), records[1].Identity)
}

// TestParseSkipsZeroAmountTransfers verifies that opt-in transfers produce no
// record.
func TestParseSkipsZeroAmountTransfers(t *testing.T) {
	parser := NewParserService()
	start, end := testWindow()

	txns := []entity.RawTransaction{
		{
			ID:             "optin",
			TxType:         entity.TxTypeAssetTransfer,
			Sender:         testHome,
			ConfirmedRound: 100,
			RoundTime:      1000,
			AssetTransfer:  &entity.AssetTransferPayload{Amount: 0, AssetID: 5, Receiver: testHome},
		},
	}

	assert.Empty(t, parser.Parse(txns, testHome, start, end))
}

// TestParseSkipsUnrecognizedTypes verifies that non-payment, non-transfer
// transactions are silently dropped.
func TestParseSkipsUnrecognizedTypes(t *testing.T) {
	parser := NewParserService()
	start, end := testWindow()

	txns := []entity.RawTransaction{
		{ID: "appl1", TxType: "appl", Sender: testHome, ConfirmedRound: 1, RoundTime: 1},
		{ID: "keyreg1", TxType: "keyreg", Sender: testHome, ConfirmedRound: 2, RoundTime: 2},
	}

	assert.Empty(t, parser.Parse(txns, testHome, start, end))
}

// TestParseDropsUnattributableLeaves verifies that leaves where the home
// address is neither sender nor receiver produce no record.
func TestParseDropsUnattributableLeaves(t *testing.T) {
	parser := NewParserService()
	start, end := testWindow()

	txns := []entity.RawTransaction{
		{
			ID:             "other",
			TxType:         entity.TxTypeAssetTransfer,
			Sender:         "somebody",
			ConfirmedRound: 100,
			RoundTime:      1000,
			AssetTransfer:  &entity.AssetTransferPayload{Amount: 10, AssetID: 5, Receiver: "somebody-else"},
		},
	}

	assert.Empty(t, parser.Parse(txns, testHome, start, end))
}

// TestParseWindowBoundariesAreInclusive pins the inclusive [start, end]
// round-time window: a transaction exactly at the end timestamp is included,
// one second later it is not.
func TestParseWindowBoundariesAreInclusive(t *testing.T) {
	parser := NewParserService()
	end := time.Unix(5000, 0).UTC()
	start := time.Unix(1000, 0).UTC()

	payment := func(id string, roundTime int64) entity.RawTransaction {
		return entity.RawTransaction{
			ID:             id,
			TxType:         entity.TxTypePayment,
			Sender:         testCreator,
			ConfirmedRound: 1,
			RoundTime:      roundTime,
			Payment:        &entity.PaymentPayload{Amount: 1, Receiver: testHome},
		}
	}

	txns := []entity.RawTransaction{
		payment("before", 999),
		payment("at-start", 1000),
		payment("at-end", 5000),
		payment("after", 5001),
	}

	records := parser.Parse(txns, testHome, start, end)
	require.Len(t, records, 2)
	assert.Equal(t, entity.SingleIdentity("at-start"), records[0].Identity)
	assert.Equal(t, entity.SingleIdentity("at-end"), records[1].Identity)
}

// TestParseInnerTransactionsFilteredByOuterTime verifies that inner
// transactions use the outer transaction's round-time for window filtering.
func TestParseInnerTransactionsFilteredByOuterTime(t *testing.T) {
	parser := NewParserService()
	start := time.Unix(1000, 0).UTC()
	end := time.Unix(2000, 0).UTC()

	txns := []entity.RawTransaction{
		{
			ID:             "outer",
			TxType:         "appl",
			Sender:         "someone",
			ConfirmedRound: 10,
			RoundTime:      3000, // outside the window
			InnerTxns: []entity.RawTransaction{
				{
					TxType:        entity.TxTypeAssetTransfer,
					Sender:        testCreator,
					AssetTransfer: &entity.AssetTransferPayload{Amount: 5, AssetID: 1, Receiver: testHome},
				},
			},
		},
	}

	assert.Empty(t, parser.Parse(txns, testHome, start, end))
}
