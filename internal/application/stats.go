package application

import (
	"context"
	"fmt"
	"sort"

	"github.com/rovelin/investment-tracker/internal/domain"
)

// PortfolioStats is a condensed view of a portfolio snapshot.
type PortfolioStats struct {
	TotalInvestments  int            `json:"total_investments"`
	DisplayCurrency   string         `json:"display_currency"`
	TotalValue        domain.Decimal `json:"total_value"`
	TotalInvested     domain.Decimal `json:"total_invested"`
	TotalProfitLoss   domain.Decimal `json:"total_profit_loss"`
	TotalFees         domain.Decimal `json:"total_fees"`
	ProfitLossPercent domain.Decimal `json:"profit_loss_percent"`
}

// ClassDistribution describes one asset class's share of the portfolio.
type ClassDistribution struct {
	Count      int            `json:"count"`
	Value      domain.Decimal `json:"value"`
	Percentage domain.Decimal `json:"percentage"`
}

// TypeDistribution is the crypto/stock split of the current portfolio value.
type TypeDistribution struct {
	Crypto ClassDistribution `json:"crypto"`
	Stock  ClassDistribution `json:"stock"`
}

var hundred = domain.NewDecimalFromInt(100)

// Stats derives summary figures from a fresh portfolio snapshot.
func (s *ValuationService) Stats(ctx context.Context, userID, displayCurrency string) (*PortfolioStats, error) {
	portfolio, err := s.CalculatePortfolio(ctx, userID, displayCurrency)
	if err != nil {
		return nil, err
	}

	percent := domain.Zero
	if portfolio.TotalInvested.IsPositive() {
		ratio, err := portfolio.TotalProfitLoss.Div(portfolio.TotalInvested)
		if err != nil {
			return nil, fmt.Errorf("computing profit/loss percent: %w", err)
		}
		if percent, err = ratio.Mul(hundred); err != nil {
			return nil, fmt.Errorf("computing profit/loss percent: %w", err)
		}
	}

	return &PortfolioStats{
		TotalInvestments:  len(portfolio.AllInvestments),
		DisplayCurrency:   portfolio.DisplayCurrency,
		TotalValue:        portfolio.TotalValue,
		TotalInvested:     portfolio.TotalInvested,
		TotalProfitLoss:   portfolio.TotalProfitLoss,
		TotalFees:         portfolio.TotalFees,
		ProfitLossPercent: percent,
	}, nil
}

// TopPerformers returns up to limit profitable investments, best first.
func (s *ValuationService) TopPerformers(ctx context.Context, userID, displayCurrency string, limit int) ([]domain.Investment, error) {
	portfolio, err := s.CalculatePortfolio(ctx, userID, displayCurrency)
	if err != nil {
		return nil, err
	}

	performers := append([]domain.Investment(nil), portfolio.ProfitableInvestments...)
	sort.SliceStable(performers, func(i, j int) bool {
		return profitOf(performers[i]).Cmp(profitOf(performers[j])) > 0
	})
	return truncate(performers, limit), nil
}

// WorstPerformers returns up to limit unprofitable investments, worst first.
func (s *ValuationService) WorstPerformers(ctx context.Context, userID, displayCurrency string, limit int) ([]domain.Investment, error) {
	portfolio, err := s.CalculatePortfolio(ctx, userID, displayCurrency)
	if err != nil {
		return nil, err
	}

	performers := append([]domain.Investment(nil), portfolio.UnprofitableInvestments...)
	sort.SliceStable(performers, func(i, j int) bool {
		return profitOf(performers[i]).Cmp(profitOf(performers[j])) < 0
	})
	return truncate(performers, limit), nil
}

// Distribution computes each asset class's count, value and share of the
// total portfolio value.
func (s *ValuationService) Distribution(ctx context.Context, userID, displayCurrency string) (*TypeDistribution, error) {
	portfolio, err := s.CalculatePortfolio(ctx, userID, displayCurrency)
	if err != nil {
		return nil, err
	}

	dist := &TypeDistribution{
		Crypto: ClassDistribution{Value: domain.Zero, Percentage: domain.Zero},
		Stock:  ClassDistribution{Value: domain.Zero, Percentage: domain.Zero},
	}

	for _, inv := range portfolio.AllInvestments {
		if inv.CurrentUnitPrice == nil {
			continue
		}
		value, err := inv.CurrentUnitPrice.Mul(inv.Quantity)
		if err != nil {
			return nil, fmt.Errorf("computing value for %s: %w", inv.ID, err)
		}

		switch inv.AssetClass {
		case domain.AssetClassCrypto:
			dist.Crypto.Count++
			if dist.Crypto.Value, err = dist.Crypto.Value.Add(value); err != nil {
				return nil, fmt.Errorf("aggregating crypto value: %w", err)
			}
		case domain.AssetClassStock:
			dist.Stock.Count++
			if dist.Stock.Value, err = dist.Stock.Value.Add(value); err != nil {
				return nil, fmt.Errorf("aggregating stock value: %w", err)
			}
		}
	}

	if portfolio.TotalValue.IsPositive() {
		if dist.Crypto.Percentage, err = percentageOf(dist.Crypto.Value, portfolio.TotalValue); err != nil {
			return nil, err
		}
		if dist.Stock.Percentage, err = percentageOf(dist.Stock.Value, portfolio.TotalValue); err != nil {
			return nil, err
		}
	}
	return dist, nil
}

func percentageOf(part, total domain.Decimal) (domain.Decimal, error) {
	ratio, err := part.Div(total)
	if err != nil {
		return domain.Zero, fmt.Errorf("computing percentage: %w", err)
	}
	percent, err := ratio.Mul(hundred)
	if err != nil {
		return domain.Zero, fmt.Errorf("computing percentage: %w", err)
	}
	return percent, nil
}

func profitOf(inv domain.Investment) domain.Decimal {
	if inv.ProfitLoss == nil {
		return domain.Zero
	}
	return *inv.ProfitLoss
}

func truncate(investments []domain.Investment, limit int) []domain.Investment {
	if limit > 0 && len(investments) > limit {
		return investments[:limit]
	}
	return investments
}
