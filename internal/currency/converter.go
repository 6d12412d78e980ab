// Package currency normalizes submitted amounts into the company base
// currency using an exchange-rate snapshot from a pluggable provider.
package currency

import (
	"context"
	"strings"

	"github.com/expenseflow/expenseflow/internal/application/port"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Converter converts amounts between currencies. On any provider failure it
// falls back to the original amount unconverted: a blocked submission is
// worse than a momentarily wrong converted amount flagged for reconciliation.
type Converter struct {
	provider port.ExchangeRateProvider
	logger   *zap.Logger
}

// NewConverter creates a new currency converter
func NewConverter(provider port.ExchangeRateProvider, logger *zap.Logger) *Converter {
	return &Converter{
		provider: provider,
		logger:   logger,
	}
}

// Convert returns amount expressed in the target currency, rounded half-up to
// two decimal places, and true when the conversion applied. When from equals
// to, the amount is returned unchanged without a provider call. When the
// provider fails or lacks the target rate, the original amount is returned
// with false and a warning is logged.
func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, bool) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	if from == to {
		return amount, true
	}

	rates, err := c.provider.RatesRelativeTo(ctx, from)
	if err != nil {
		c.logger.Warn("Exchange rate lookup failed, storing unconverted amount",
			zap.String("from", from),
			zap.String("to", to),
			zap.Error(err))
		return amount, false
	}

	rate, ok := rates[to]
	if !ok {
		c.logger.Warn("Exchange rate snapshot is missing target currency, storing unconverted amount",
			zap.String("from", from),
			zap.String("to", to))
		return amount, false
	}

	return amount.Mul(rate).Round(2), true
}
