package port

import (
	"context"

	"github.com/expenseflow/expenseflow/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ExchangeRateProvider returns a snapshot of exchange rates relative to the
// given base currency. A single failed attempt triggers the converter's
// fallback policy; no retries.
type ExchangeRateProvider interface {
	RatesRelativeTo(ctx context.Context, base string) (map[string]decimal.Decimal, error)
}

// CountryCurrencyProvider resolves a country name to its ISO 4217 currency
// code. Used once, at company creation; a failure there is fatal to the
// operation since no fallback value exists.
type CountryCurrencyProvider interface {
	CurrencyFor(ctx context.Context, country string) (string, error)
}

// TokenManager issues and verifies bearer tokens carrying a principal.
type TokenManager interface {
	Issue(principal entity.Principal) (string, error)
	Verify(token string) (entity.Principal, error)
}

// PasswordHasher hashes and verifies password credentials.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}
