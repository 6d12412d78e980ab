package currency

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type mockRateProvider struct {
	ratesFunc func(ctx context.Context, base string) (map[string]decimal.Decimal, error)
	calls     int
}

func (m *mockRateProvider) RatesRelativeTo(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	m.calls++
	if m.ratesFunc != nil {
		return m.ratesFunc(ctx, base)
	}
	return nil, errors.New("not configured")
}

func TestConverter_IdentityLaw(t *testing.T) {
	provider := &mockRateProvider{}
	c := NewConverter(provider, zap.NewNop())

	amount := decimal.RequireFromString("123.456")
	got, converted := c.Convert(context.Background(), amount, "USD", "USD")

	assert.True(t, converted)
	assert.True(t, amount.Equal(got))
	// Identity conversion must not hit the provider.
	assert.Equal(t, 0, provider.calls)
}

func TestConverter_RoundsHalfUp(t *testing.T) {
	provider := &mockRateProvider{
		ratesFunc: func(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
			assert.Equal(t, "EUR", base)
			return map[string]decimal.Decimal{
				"USD": decimal.RequireFromString("1.085"),
			}, nil
		},
	}
	c := NewConverter(provider, zap.NewNop())

	tests := []struct {
		amount string
		want   string
	}{
		{"100", "108.50"},
		{"10", "10.85"},
		{"1", "1.09"}, // 1.085 rounds half-up to 1.09
		{"0.10", "0.11"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got, converted := c.Convert(context.Background(), decimal.RequireFromString(tt.amount), "EUR", "USD")
			assert.True(t, converted)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestConverter_ProviderFailureFallsBack(t *testing.T) {
	provider := &mockRateProvider{
		ratesFunc: func(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
			return nil, errors.New("transport error")
		},
	}
	c := NewConverter(provider, zap.NewNop())

	amount := decimal.NewFromInt(100)
	got, converted := c.Convert(context.Background(), amount, "EUR", "USD")

	assert.False(t, converted)
	assert.True(t, amount.Equal(got))
}

func TestConverter_MissingRateFallsBack(t *testing.T) {
	provider := &mockRateProvider{
		ratesFunc: func(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
			return map[string]decimal.Decimal{"GBP": decimal.NewFromInt(1)}, nil
		},
	}
	c := NewConverter(provider, zap.NewNop())

	amount := decimal.NewFromInt(42)
	got, converted := c.Convert(context.Background(), amount, "EUR", "USD")

	assert.False(t, converted)
	assert.True(t, amount.Equal(got))
}

func TestConverter_CaseInsensitiveCodes(t *testing.T) {
	provider := &mockRateProvider{}
	c := NewConverter(provider, zap.NewNop())

	amount := decimal.NewFromInt(5)
	got, converted := c.Convert(context.Background(), amount, "usd", "USD")

	assert.True(t, converted)
	assert.True(t, amount.Equal(got))
	assert.Equal(t, 0, provider.calls)
}
