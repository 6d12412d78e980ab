// Package exchangerate implements port.ExchangeRateProvider against an
// exchangerate-api style endpoint serving rate snapshots per base currency.
package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/expenseflow/expenseflow/internal/apperr"
	"github.com/expenseflow/expenseflow/internal/application/port"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Client fetches exchange-rate snapshots over HTTP. Calls are blocking with a
// single attempt; the converter's fallback policy handles failures.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type ratesResponse struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// NewClient creates a new exchange-rate client
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// RatesRelativeTo returns a snapshot of rates relative to the base currency
func (c *Client) RatesRelativeTo(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rates request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: rates request failed: %v", apperr.ErrExternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: rates request returned status %d", apperr.ErrExternal, resp.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: failed to decode rates response: %v", apperr.ErrExternal, err)
	}

	if len(body.Rates) == 0 {
		return nil, fmt.Errorf("%w: empty rates snapshot for %s", apperr.ErrExternal, base)
	}

	c.logger.Debug("Fetched exchange rate snapshot",
		zap.String("base", base),
		zap.Int("rates", len(body.Rates)))
	return body.Rates, nil
}

// Verify interface compliance
var _ port.ExchangeRateProvider = (*Client)(nil)
