package marketdata

import (
	"context"
	"fmt"

	"github.com/rovelin/investment-tracker/internal/domain"
)

// Price sources always quote in USD. Conversion into the display currency
// happens centrally in the valuation engine, never inside a source, so a
// price can never be converted twice.

// CryptoPriceSource resolves the current USD price of a token by its
// canonical id (not its ticker symbol).
type CryptoPriceSource interface {
	CryptoPrice(ctx context.Context, tokenID string) (domain.Decimal, error)
}

// EquityPriceSource resolves the current USD price of an equity by ticker.
type EquityPriceSource interface {
	EquityPrice(ctx context.Context, symbol string) (domain.Decimal, error)
}

// RateSource resolves the spot exchange rate for an ordered currency pair:
// how many units of 'to' per one unit of 'from'.
type RateSource interface {
	Rate(ctx context.Context, from, to string) (domain.Decimal, error)
}

// PriceLookup dispatches price resolution by asset class and normalizes
// failures into domain.PriceUnavailableError.
type PriceLookup struct {
	crypto CryptoPriceSource
	equity EquityPriceSource
}

func NewPriceLookup(crypto CryptoPriceSource, equity EquityPriceSource) *PriceLookup {
	return &PriceLookup{crypto: crypto, equity: equity}
}

// CurrentPrice returns the current USD unit price for the given asset.
func (l *PriceLookup) CurrentPrice(ctx context.Context, class domain.AssetClass, marketID string) (domain.Decimal, error) {
	var (
		price domain.Decimal
		err   error
	)
	switch class {
	case domain.AssetClassCrypto:
		price, err = l.crypto.CryptoPrice(ctx, marketID)
	case domain.AssetClassStock:
		price, err = l.equity.EquityPrice(ctx, marketID)
	default:
		err = fmt.Errorf("unknown asset class %q", class)
	}
	if err != nil {
		return domain.Zero, &domain.PriceUnavailableError{MarketID: marketID, Err: err}
	}
	return price, nil
}
