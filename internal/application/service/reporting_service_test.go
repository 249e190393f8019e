package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rewards-transparency-indexer/internal/domain/entity"
	"rewards-transparency-indexer/internal/domain/service"
	"rewards-transparency-indexer/internal/infrastructure/config"
	"rewards-transparency-indexer/internal/infrastructure/logger"
)

const testCreator = "V2HN6R3A5YTFJLYFTRX7AIPFE7XRG2UVDSK24IZU6YVG2J7IHFRL7CFRTI"

type stubLinks struct{}

func (stubLinks) EntryURL(entry entity.TransactionEntry) string {
	return fmt.Sprintf("https://example.test/%s", entry.Identity.Ref)
}

type fakeArchive struct {
	home    string
	records []entity.NormalizedRecord
	err     error
}

func (f *fakeArchive) ArchiveRecords(_ context.Context, home string, records []entity.NormalizedRecord) error {
	f.home = home
	f.records = records
	return f.err
}

type fakePublisher struct {
	events []*entity.ReportEvent
}

func (f *fakePublisher) PublishReport(_ context.Context, event *entity.ReportEvent) error {
	f.events = append(f.events, event)
	return nil
}

type reportingFixture struct {
	svc       service.ReportingService
	indexer   *fakeIndexer
	store     *memoryStore
	archive   *fakeArchive
	publisher *fakePublisher
}

func newReportingFixture(indexer *fakeIndexer, reportCfg *config.ReportConfig) *reportingFixture {
	log := logger.NewNopLogger()
	store := newMemoryStore()
	archive := &fakeArchive{}
	publisher := &fakePublisher{}
	projects := map[string]string{testCreator: "Creator"}

	fetcher := NewFetchService(indexer, store, testIndexerConfig(), reportCfg, log)
	fetcher.sleep = func(time.Duration) {}

	svc := NewReportingApplicationService(
		fetcher,
		service.NewParserService(),
		service.NewGrouperService(projects),
		NewAssetResolverService(indexer, log),
		service.NewFormatterService(projects, stubLinks{}),
		archive,
		publisher,
		reportCfg,
		log,
	)

	return &reportingFixture{
		svc:       svc,
		indexer:   indexer,
		store:     store,
		archive:   archive,
		publisher: publisher,
	}
}

func creatorPayment(id string, amount uint64, roundTime int64, round uint64) entity.RawTransaction {
	return entity.RawTransaction{
		ID:             id,
		TxType:         entity.TxTypePayment,
		Sender:         testCreator,
		ConfirmedRound: round,
		RoundTime:      roundTime,
		Payment:        &entity.PaymentPayload{Amount: amount, Receiver: testHome},
	}
}

// TestCreateReportEndToEnd drives the whole pipeline against fakes: fetch,
// parse, group, resolve, format, archive and publish.
func TestCreateReportEndToEnd(t *testing.T) {
	indexer := &fakeIndexer{
		createdAtRound: 58090000,
		results: []searchResult{
			{page: &entity.TransactionPage{Transactions: []entity.RawTransaction{
				creatorPayment("pay1", 500000, 1764675278, 58090657),
			}}},
			{page: &entity.TransactionPage{}},
		},
	}
	f := newReportingFixture(indexer, &config.ReportConfig{HomeAddress: testHome})

	start := time.Unix(1764675000, 0).UTC()
	end := time.Unix(1764676000, 0).UTC()

	report, err := f.svc.CreateReport(context.Background(), start, end, service.GroupingChronological)
	require.NoError(t, err)

	want := "On [Tue, 2 Dec 2025 11:34:38 UTC](https://example.test/pay1), " +
		"0.50 ALGO was transferred from Creator address to the escrow."
	assert.Equal(t, want, report)

	assert.Equal(t, testHome, f.archive.home)
	require.Len(t, f.archive.records, 1)
	assert.Equal(t, int64(500000), f.archive.records[0].Amount)

	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, testHome, event.Home)
	assert.Equal(t, "chronological", event.Policy)
	assert.Equal(t, report, event.Report)
	require.Len(t, event.Groups, 1)
}

// TestCreateReportNativeAssetSkipsLookup: a report consisting only of native
// currency movements never queries the indexer for asset metadata.
func TestCreateReportNativeAssetSkipsLookup(t *testing.T) {
	indexer := &fakeIndexer{
		createdAtRound: 100,
		results: []searchResult{
			{page: &entity.TransactionPage{Transactions: []entity.RawTransaction{
				creatorPayment("pay1", 1000, 1764675278, 200),
			}}},
			{page: &entity.TransactionPage{}},
		},
	}
	f := newReportingFixture(indexer, &config.ReportConfig{HomeAddress: testHome})

	_, err := f.svc.CreateReport(context.Background(),
		time.Unix(0, 0).UTC(), time.Unix(1<<40, 0).UTC(), service.GroupingByType)
	require.NoError(t, err)
	assert.Empty(t, indexer.assetCalls)
}

// TestCreateReportUnknownPolicy rejects policies outside the known set.
func TestCreateReportUnknownPolicy(t *testing.T) {
	f := newReportingFixture(&fakeIndexer{}, &config.ReportConfig{HomeAddress: testHome})

	_, err := f.svc.CreateReport(context.Background(),
		time.Unix(0, 0).UTC(), time.Unix(1, 0).UTC(), service.GroupingPolicy("weekly"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown grouping policy")
	assert.Empty(t, f.publisher.events)
}

// TestCreateReportFetchFailurePropagates: an exhausted fetch aborts the
// report and nothing is published.
func TestCreateReportFetchFailurePropagates(t *testing.T) {
	results := make([]searchResult, 0, 25)
	for i := 0; i < 25; i++ {
		results = append(results, searchResult{err: errors.New("indexer down")})
	}
	f := newReportingFixture(
		&fakeIndexer{createdAtRound: 100, results: results},
		&config.ReportConfig{HomeAddress: testHome},
	)

	_, err := f.svc.CreateReport(context.Background(),
		time.Unix(0, 0).UTC(), time.Unix(1, 0).UTC(), service.GroupingChronological)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch transactions")
	assert.Empty(t, f.publisher.events)
}

// TestCreateReportArchiveFailureIsNonFatal: the archive side channel never
// blocks report creation.
func TestCreateReportArchiveFailureIsNonFatal(t *testing.T) {
	indexer := &fakeIndexer{
		createdAtRound: 100,
		results: []searchResult{
			{page: &entity.TransactionPage{Transactions: []entity.RawTransaction{
				creatorPayment("pay1", 1000, 1764675278, 200),
			}}},
			{page: &entity.TransactionPage{}},
		},
	}
	f := newReportingFixture(indexer, &config.ReportConfig{HomeAddress: testHome})
	f.archive.err = errors.New("graph unavailable")

	report, err := f.svc.CreateReport(context.Background(),
		time.Unix(0, 0).UTC(), time.Unix(1<<40, 0).UTC(), service.GroupingChronological)
	require.NoError(t, err)
	assert.NotEmpty(t, report)
}

// TestCreateReportDerivesEscrowFromAppID: with no explicit home address the
// escrow is derived from the tracked application id.
func TestCreateReportDerivesEscrowFromAppID(t *testing.T) {
	indexer := &fakeIndexer{
		createdAtRound: 100,
		results:        []searchResult{{page: &entity.TransactionPage{}}},
	}
	f := newReportingFixture(indexer, &config.ReportConfig{AppID: 750934138})

	report, err := f.svc.CreateReport(context.Background(),
		time.Unix(0, 0).UTC(), time.Unix(1, 0).UTC(), service.GroupingChronological)
	require.NoError(t, err)
	assert.Empty(t, report)
	assert.Equal(t, testHome, f.archive.home)
}
