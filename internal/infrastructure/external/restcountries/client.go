// Package restcountries implements port.CountryCurrencyProvider against the
// restcountries.com API, resolving a country name to its currency code.
package restcountries

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/expenseflow/expenseflow/internal/apperr"
	"github.com/expenseflow/expenseflow/internal/application/port"
	"go.uber.org/zap"
)

// Client resolves country names to ISO 4217 currency codes
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type countryResponse struct {
	Currencies map[string]struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"currencies"`
}

// NewClient creates a new restcountries client
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// CurrencyFor returns the first currency code listed for the country. There
// is no fallback: company creation fails when the lookup does.
func (c *Client) CurrencyFor(ctx context.Context, country string) (string, error) {
	endpoint := fmt.Sprintf("%s/name/%s?fields=currencies", c.baseURL, url.PathEscape(country))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build country request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: country lookup failed: %v", apperr.ErrExternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: unknown country %q", apperr.ErrValidation, country)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: country lookup returned status %d", apperr.ErrExternal, resp.StatusCode)
	}

	var body []countryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: failed to decode country response: %v", apperr.ErrExternal, err)
	}

	for _, entry := range body {
		for code := range entry.Currencies {
			c.logger.Debug("Resolved country currency",
				zap.String("country", country),
				zap.String("currency", code))
			return code, nil
		}
	}

	return "", fmt.Errorf("%w: no currency listed for country %q", apperr.ErrExternal, country)
}

// Verify interface compliance
var _ port.CountryCurrencyProvider = (*Client)(nil)
