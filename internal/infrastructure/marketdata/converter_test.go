package marketdata

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovelin/investment-tracker/internal/domain"
)

type countingRateSource struct {
	mu    sync.Mutex
	rates map[string]string
	err   error
	calls int
}

func (s *countingRateSource) Rate(ctx context.Context, from, to string) (domain.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if s.err != nil {
		return domain.Zero, s.err
	}
	rate, ok := s.rates[from+"/"+to]
	if !ok {
		return domain.Zero, errors.New("no such pair")
	}
	return domain.MustDecimal(rate), nil
}

func (s *countingRateSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestConverter_SameCurrencyNeedsNoRate(t *testing.T) {
	rates := &countingRateSource{}
	converter := NewConverter(rates)

	amount := domain.MustDecimal("123.45")
	got, err := converter.Convert(context.Background(), amount, "USD", "USD")
	require.NoError(t, err)

	assert.True(t, got.Equal(amount))
	assert.Equal(t, 0, rates.callCount())
}

func TestConverter_NormalizesCurrencyCodes(t *testing.T) {
	rates := &countingRateSource{}
	converter := NewConverter(rates)

	amount := domain.MustDecimal("10")
	got, err := converter.Convert(context.Background(), amount, " usd ", "USD")
	require.NoError(t, err)

	assert.True(t, got.Equal(amount))
	assert.Equal(t, 0, rates.callCount())
}

func TestConverter_AppliesRate(t *testing.T) {
	rates := &countingRateSource{rates: map[string]string{"USD/EUR": "0.9"}}
	converter := NewConverter(rates)

	got, err := converter.Convert(context.Background(), domain.MustDecimal("100"), "USD", "EUR")
	require.NoError(t, err)

	assert.True(t, got.Equal(domain.MustDecimal("90")), "expected 90, got %s", got)
	assert.Equal(t, 1, rates.callCount())
}

func TestConverter_MissingRateFails(t *testing.T) {
	rates := &countingRateSource{err: errors.New("rate feed down")}
	converter := NewConverter(rates)

	_, err := converter.Convert(context.Background(), domain.MustDecimal("100"), "USD", "CHF")
	require.Error(t, err)

	// Failure is typed; the unconverted amount is never returned silently.
	var convErr *domain.ConversionUnavailableError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, "USD", convErr.From)
	assert.Equal(t, "CHF", convErr.To)
}
