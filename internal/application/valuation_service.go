package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/rovelin/investment-tracker/internal/domain"
)

// PriceLookup resolves the current USD unit price of an asset.
type PriceLookup interface {
	CurrentPrice(ctx context.Context, class domain.AssetClass, marketID string) (domain.Decimal, error)
}

// CurrencyConverter converts an amount between two currencies.
type CurrencyConverter interface {
	Convert(ctx context.Context, amount domain.Decimal, from, to string) (domain.Decimal, error)
}

// ValuationService computes consistent, currency-normalized portfolio
// snapshots. It is stateless and re-entrant: every call reads the current
// records and market data and produces a fresh object graph.
type ValuationService struct {
	repo      domain.InvestmentRepository
	prices    PriceLookup
	converter CurrencyConverter
}

func NewValuationService(repo domain.InvestmentRepository, prices PriceLookup, converter CurrencyConverter) *ValuationService {
	return &ValuationService{
		repo:      repo,
		prices:    prices,
		converter: converter,
	}
}

// resolvedInvestment carries one enriched investment together with its
// aggregate contributions, so totals are summed from exactly the figures the
// entry displays.
type resolvedInvestment struct {
	inv      domain.Investment
	value    domain.Decimal
	invested domain.Decimal
	fees     domain.Decimal
	warning  *domain.ValuationWarning
}

// CalculatePortfolio produces a snapshot of the user's investments in the
// given display currency. Price and rate lookups for all investments run
// concurrently; a failed lookup degrades only its own entry (no price
// movement, zero profit) and is surfaced in the snapshot's warning list
// rather than failing the whole computation.
func (s *ValuationService) CalculatePortfolio(ctx context.Context, userID, displayCurrency string) (*domain.Portfolio, error) {
	displayCurrency = strings.ToUpper(strings.TrimSpace(displayCurrency))

	investments, err := s.repo.ListAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing investments: %w", err)
	}

	portfolio := domain.EmptyPortfolio(displayCurrency)
	if len(investments) == 0 {
		return portfolio, nil
	}

	results := make([]resolvedInvestment, len(investments))
	var wg sync.WaitGroup
	for i := range investments {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.resolve(ctx, investments[i], displayCurrency)
		}(i)
	}
	wg.Wait()

	for _, res := range results {
		portfolio.AllInvestments = append(portfolio.AllInvestments, res.inv)
		if res.warning != nil {
			portfolio.Warnings = append(portfolio.Warnings, *res.warning)
		}

		if portfolio.TotalValue, err = portfolio.TotalValue.Add(res.value); err != nil {
			return nil, fmt.Errorf("aggregating total value: %w", err)
		}
		if portfolio.TotalInvested, err = portfolio.TotalInvested.Add(res.invested); err != nil {
			return nil, fmt.Errorf("aggregating total invested: %w", err)
		}
		if portfolio.TotalFees, err = portfolio.TotalFees.Add(res.fees); err != nil {
			return nil, fmt.Errorf("aggregating total fees: %w", err)
		}
	}

	if portfolio.TotalProfitLoss, err = portfolio.TotalValue.Sub(portfolio.TotalInvested); err != nil {
		return nil, fmt.Errorf("computing total profit/loss: %w", err)
	}

	portfolio.Partition()
	return portfolio, nil
}

// resolve enriches one investment with derived fields. Any lookup or
// arithmetic failure switches to the neutral fallback for this entry only.
func (s *ValuationService) resolve(ctx context.Context, inv domain.Investment, displayCurrency string) resolvedInvestment {
	res, err := s.enrich(ctx, inv, displayCurrency)
	if err == nil {
		return res
	}

	slog.WarnContext(ctx, "Valuation fallback for investment",
		"investment_id", inv.ID, "token_id", inv.MarketID, "error", err)
	return fallback(inv, err)
}

func (s *ValuationService) enrich(ctx context.Context, inv domain.Investment, displayCurrency string) (resolvedInvestment, error) {
	var res resolvedInvestment

	priceUSD, err := s.prices.CurrentPrice(ctx, inv.AssetClass, inv.MarketID)
	if err != nil {
		return res, err
	}

	// Price sources quote USD; all conversion happens here, exactly once.
	currentPrice, err := s.converter.Convert(ctx, priceUSD, "USD", displayCurrency)
	if err != nil {
		return res, err
	}

	convertedPurchase, err := s.converter.Convert(ctx, inv.UnitPurchasePrice, inv.PurchaseCurrency, displayCurrency)
	if err != nil {
		return res, err
	}

	// The converted fee stays a total for the whole purchase: the cost
	// calculator divides it by quantity exactly once.
	feeDisplay := domain.Zero
	if inv.HasFee() {
		feeDisplay, err = s.converter.Convert(ctx, inv.Fee(), inv.FeeCurrency(), displayCurrency)
		if err != nil {
			return res, err
		}
	}

	effective := domain.EffectiveUnitPrice(convertedPurchase, inv.Quantity, &feeDisplay)

	value, err := currentPrice.Mul(inv.Quantity)
	if err != nil {
		return res, err
	}
	principal, err := convertedPurchase.Mul(inv.Quantity)
	if err != nil {
		return res, err
	}
	invested, err := principal.Add(feeDisplay)
	if err != nil {
		return res, err
	}
	// Fee-inclusive profit/loss: invested capital includes the fee, current
	// value does not. Fees are not recovered on paper gains.
	profitLoss, err := value.Sub(invested)
	if err != nil {
		return res, err
	}

	inv.CurrentUnitPrice = &currentPrice
	inv.ConvertedUnitPurchasePrice = &convertedPurchase
	inv.EffectiveUnitPurchasePrice = &effective
	inv.TotalFeesInDisplayCurrency = &feeDisplay
	inv.ProfitLoss = &profitLoss

	res.inv = inv
	res.value = value
	res.invested = invested
	res.fees = feeDisplay
	return res, nil
}

// fallback renders an investment neutral after a failed lookup: the current
// price is assumed equal to the purchase price and profit/loss is zero, so
// the aggregate still includes the entry instead of crashing the dashboard.
func fallback(inv domain.Investment, cause error) resolvedInvestment {
	currentPrice := inv.UnitPurchasePrice
	convertedPurchase := inv.UnitPurchasePrice
	feeDisplay := inv.Fee()
	effective := domain.EffectiveUnitPrice(convertedPurchase, inv.Quantity, &feeDisplay)
	profitLoss := domain.Zero

	inv.CurrentUnitPrice = &currentPrice
	inv.ConvertedUnitPurchasePrice = &convertedPurchase
	inv.EffectiveUnitPurchasePrice = &effective
	inv.TotalFeesInDisplayCurrency = &feeDisplay
	inv.ProfitLoss = &profitLoss

	res := resolvedInvestment{
		inv:  inv,
		fees: feeDisplay,
		warning: &domain.ValuationWarning{
			InvestmentID: inv.ID,
			MarketID:     inv.MarketID,
			Reason:       cause.Error(),
		},
	}

	// A neutral entry contributes net zero profit: its value contribution
	// equals its invested contribution, fee included. Arithmetic on finite
	// decimals only fails on context errors, in which case the entry
	// contributes zero.
	if principal, err := convertedPurchase.Mul(inv.Quantity); err == nil {
		if invested, err := principal.Add(feeDisplay); err == nil {
			res.invested = invested
			res.value = invested
		}
	}
	return res
}
