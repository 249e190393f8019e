package explorer

import (
	"fmt"
	"net/url"

	"rewards-transparency-indexer/internal/domain/entity"
	"rewards-transparency-indexer/internal/domain/service"
	"rewards-transparency-indexer/internal/infrastructure/config"
	"rewards-transparency-indexer/internal/infrastructure/logger"

	"go.uber.org/zap"
)

// Supported explorer backends and networks.
const (
	BackendAllo = "allo"
	BackendPera = "pera"

	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
)

var baseURLs = map[string]map[string]string{
	BackendAllo: {
		NetworkMainnet: "https://allo.info",
		NetworkTestnet: "https://testnet.allo.info",
	},
	BackendPera: {
		NetworkMainnet: "https://explorer.perawallet.app",
		NetworkTestnet: "https://testnet.explorer.perawallet.app",
	},
}

// LinkBuilder builds explorer URLs for transaction entries. The backend and
// network are selected by configuration; an unknown backend falls back to
// allo on mainnet.
type LinkBuilder struct {
	backend string
	baseURL string
}

// NewLinkBuilder creates a new explorer link builder
func NewLinkBuilder(cfg *config.ExplorerConfig, log *logger.Logger) service.ExplorerLinks {
	backend := cfg.Backend
	if _, ok := baseURLs[backend]; !ok {
		log.WithComponent("explorer").Warn("Unknown explorer backend, falling back to allo",
			zap.String("backend", backend))
		backend = BackendAllo
	}

	network := cfg.Network
	base, ok := baseURLs[backend][network]
	if !ok {
		base = baseURLs[backend][NetworkMainnet]
	}

	return &LinkBuilder{backend: backend, baseURL: base}
}

// EntryURL returns the explorer URL for the entry: a block+group path for
// group-identified entries, a transaction path for single transactions.
func (b *LinkBuilder) EntryURL(entry entity.TransactionEntry) string {
	switch b.backend {
	case BackendPera:
		if entry.Identity.Kind == entity.IdentityGroup {
			return fmt.Sprintf("%s/tx-group/%s/", b.baseURL, url.PathEscape(entry.Identity.Ref))
		}
		return fmt.Sprintf("%s/tx/%s/", b.baseURL, entry.Identity.Ref)
	default:
		if entry.Identity.Kind == entity.IdentityGroup {
			return fmt.Sprintf("%s/block/%d/group/%s", b.baseURL, entry.Round, url.PathEscape(entry.Identity.Ref))
		}
		return fmt.Sprintf("%s/tx/%s", b.baseURL, entry.Identity.Ref)
	}
}
