package domain

// ValuationWarning records a per-investment lookup failure the valuation
// engine recovered from. The affected entry is rendered neutral (no price
// movement, zero profit) instead of failing the whole snapshot.
type ValuationWarning struct {
	InvestmentID string `json:"investment_id"`
	MarketID     string `json:"token_id"`
	Reason       string `json:"reason"`
}

// Portfolio is an ephemeral, fully resolved snapshot of a user's investments
// in a single display currency. It has no lifecycle of its own: every request
// recomputes it from the stored records plus live market data, and it is
// valid only for the instant it was computed.
type Portfolio struct {
	DisplayCurrency string  `json:"display_currency"`
	TotalValue      Decimal `json:"total_value"`
	TotalInvested   Decimal `json:"total_invested"`
	TotalProfitLoss Decimal `json:"total_profit_loss"`
	TotalFees       Decimal `json:"total_fees"`

	AllInvestments          []Investment `json:"all_investments"`
	ProfitableInvestments   []Investment `json:"profitable_investments"`
	UnprofitableInvestments []Investment `json:"unprofitable_investments"`

	Warnings []ValuationWarning `json:"warnings,omitempty"`
}

// EmptyPortfolio is the base case for a user with no investments: all totals
// zero, all lists empty. Not an error.
func EmptyPortfolio(displayCurrency string) *Portfolio {
	return &Portfolio{
		DisplayCurrency:         displayCurrency,
		TotalValue:              Zero,
		TotalInvested:           Zero,
		TotalProfitLoss:         Zero,
		TotalFees:               Zero,
		AllInvestments:          []Investment{},
		ProfitableInvestments:   []Investment{},
		UnprofitableInvestments: []Investment{},
	}
}

// Partition splits AllInvestments by sign of ProfitLoss: strictly positive
// entries are profitable, everything else (including exactly zero and entries
// with no resolved profit) is unprofitable.
func (p *Portfolio) Partition() {
	p.ProfitableInvestments = make([]Investment, 0, len(p.AllInvestments))
	p.UnprofitableInvestments = make([]Investment, 0, len(p.AllInvestments))
	for _, inv := range p.AllInvestments {
		if inv.ProfitLoss != nil && inv.ProfitLoss.IsPositive() {
			p.ProfitableInvestments = append(p.ProfitableInvestments, inv)
		} else {
			p.UnprofitableInvestments = append(p.UnprofitableInvestments, inv)
		}
	}
}
