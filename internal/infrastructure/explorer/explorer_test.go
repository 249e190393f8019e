package explorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rewards-transparency-indexer/internal/domain/entity"
	"rewards-transparency-indexer/internal/infrastructure/config"
	"rewards-transparency-indexer/internal/infrastructure/logger"
)

func newTestBuilder(backend, network string) *LinkBuilder {
	links := NewLinkBuilder(
		&config.ExplorerConfig{Backend: backend, Network: network},
		logger.NewNopLogger(),
	)
	return links.(*LinkBuilder)
}

func groupEntry(group string, round uint64) entity.TransactionEntry {
	return entity.TransactionEntry{Round: round, Identity: entity.GroupIdentity(group)}
}

func txEntry(id string) entity.TransactionEntry {
	return entity.TransactionEntry{Identity: entity.SingleIdentity(id)}
}

// TestAlloURLs: group entries link to the block's group view, single
// transactions to the plain tx view.
func TestAlloURLs(t *testing.T) {
	b := newTestBuilder(BackendAllo, NetworkMainnet)

	assert.Equal(t,
		"https://allo.info/block/58090657/group/abc123",
		b.EntryURL(groupEntry("abc123", 58090657)))
	assert.Equal(t,
		"https://allo.info/tx/TX1",
		b.EntryURL(txEntry("TX1")))
}

// TestPeraURLs: pera uses trailing-slash tx-group and tx paths.
func TestPeraURLs(t *testing.T) {
	b := newTestBuilder(BackendPera, NetworkMainnet)

	assert.Equal(t,
		"https://explorer.perawallet.app/tx-group/abc123/",
		b.EntryURL(groupEntry("abc123", 58090657)))
	assert.Equal(t,
		"https://explorer.perawallet.app/tx/TX1/",
		b.EntryURL(txEntry("TX1")))
}

// TestTestnetBaseURLs: the network selects the testnet host.
func TestTestnetBaseURLs(t *testing.T) {
	assert.Contains(t,
		newTestBuilder(BackendAllo, NetworkTestnet).EntryURL(txEntry("TX1")),
		"https://testnet.allo.info/")
	assert.Contains(t,
		newTestBuilder(BackendPera, NetworkTestnet).EntryURL(txEntry("TX1")),
		"https://testnet.explorer.perawallet.app/")
}

// TestUnknownBackendFallsBackToAllo: misconfiguration degrades to the
// default backend instead of failing.
func TestUnknownBackendFallsBackToAllo(t *testing.T) {
	b := newTestBuilder("etherscan", NetworkMainnet)
	assert.Equal(t, "https://allo.info/tx/TX1", b.EntryURL(txEntry("TX1")))
}

// TestUnknownNetworkFallsBackToMainnet covers the network fallback.
func TestUnknownNetworkFallsBackToMainnet(t *testing.T) {
	b := newTestBuilder(BackendPera, "betanet")
	assert.Equal(t, "https://explorer.perawallet.app/tx/TX1/", b.EntryURL(txEntry("TX1")))
}

// TestGroupRefIsPathEscaped: base64 group ids survive URL embedding.
func TestGroupRefIsPathEscaped(t *testing.T) {
	b := newTestBuilder(BackendAllo, NetworkMainnet)
	assert.Equal(t,
		"https://allo.info/block/1/group/a%2Fb+c=",
		b.EntryURL(groupEntry("a/b+c=", 1)))
}
