package blockchain

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"rewards-transparency-indexer/internal/domain/entity"
	"rewards-transparency-indexer/internal/domain/service"
	"rewards-transparency-indexer/internal/infrastructure/config"
	"rewards-transparency-indexer/internal/infrastructure/logger"

	"go.uber.org/zap"
)

// IndexerHTTPClient talks to an Algorand indexer's REST API.
type IndexerHTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewIndexerHTTPClient creates a new indexer client
func NewIndexerHTTPClient(cfg *config.IndexerConfig, log *logger.Logger) service.IndexerClient {
	return &IndexerHTTPClient{
		baseURL:    cfg.URL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     log.WithComponent("indexer-client"),
	}
}

// SearchTransactionsByAddress returns one page of transactions touching the
// address starting at minRound.
func (c *IndexerHTTPClient) SearchTransactionsByAddress(ctx context.Context, address string, limit uint64, minRound uint64, nextToken string) (*entity.TransactionPage, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("limit", strconv.FormatUint(limit, 10))
	params.Set("min-round", strconv.FormatUint(minRound, 10))
	if nextToken != "" {
		params.Set("next", nextToken)
	}

	endpoint := fmt.Sprintf("%s/v2/transactions?%s", c.baseURL, params.Encode())

	var page entity.TransactionPage
	if err := c.getJSON(ctx, endpoint, &page); err != nil {
		return nil, fmt.Errorf("failed to search transactions for %s: %w", address, err)
	}

	c.logger.Debug("Fetched transaction page",
		zap.String("address", address),
		zap.Uint64("min_round", minRound),
		zap.Int("count", len(page.Transactions)))

	return &page, nil
}

// ApplicationCreatedAtRound returns the creation round of an application.
func (c *IndexerHTTPClient) ApplicationCreatedAtRound(ctx context.Context, appID uint64) (uint64, error) {
	endpoint := fmt.Sprintf("%s/v2/applications/%d", c.baseURL, appID)

	var resp struct {
		Application struct {
			CreatedAtRound uint64 `json:"created-at-round"`
		} `json:"application"`
	}
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return 0, fmt.Errorf("failed to look up application %d: %w", appID, err)
	}

	return resp.Application.CreatedAtRound, nil
}

// AssetInfo returns unit/decimals metadata for an asset id.
func (c *IndexerHTTPClient) AssetInfo(ctx context.Context, assetID uint64) (*entity.AssetInfo, error) {
	endpoint := fmt.Sprintf("%s/v2/assets/%d", c.baseURL, assetID)

	var resp struct {
		Asset struct {
			Params struct {
				UnitName string `json:"unit-name"`
				Decimals uint   `json:"decimals"`
			} `json:"params"`
		} `json:"asset"`
	}
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("failed to look up asset %d: %w", assetID, err)
	}

	return &entity.AssetInfo{
		Unit:     resp.Asset.Params.UnitName,
		Decimals: resp.Asset.Params.Decimals,
	}, nil
}

// getJSON performs a GET request and decodes the JSON body into out.
func (c *IndexerHTTPClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "rewards-transparency-indexer")
	if c.token != "" {
		req.Header.Set("X-Indexer-API-Token", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("indexer returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
