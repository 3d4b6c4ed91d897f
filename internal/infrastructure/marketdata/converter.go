package marketdata

import (
	"context"
	"strings"

	"github.com/rovelin/investment-tracker/internal/domain"
)

// Converter resolves (amount, from, to) into an amount in the target
// currency. Same-currency conversions short-circuit with zero lookups.
type Converter struct {
	rates RateSource
}

func NewConverter(rates RateSource) *Converter {
	return &Converter{rates: rates}
}

// Convert multiplies amount by the spot rate for from/to. When no rate is
// available the call fails with domain.ConversionUnavailableError; it never
// falls back to the unconverted amount.
func (c *Converter) Convert(ctx context.Context, amount domain.Decimal, from, to string) (domain.Decimal, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	if from == to {
		return amount, nil
	}

	rate, err := c.rates.Rate(ctx, from, to)
	if err != nil {
		return domain.Zero, &domain.ConversionUnavailableError{From: from, To: to, Err: err}
	}

	converted, err := amount.Mul(rate)
	if err != nil {
		return domain.Zero, &domain.ConversionUnavailableError{From: from, To: to, Err: err}
	}
	return converted, nil
}
