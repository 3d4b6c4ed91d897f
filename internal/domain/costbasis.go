package domain

// Fee-adjusted cost basis arithmetic. These functions are pure and
// total-safe: degenerate inputs (zero or negative quantity, absent fee) fall
// back to the unmodified purchase price instead of dividing by zero, so the
// valuation engine always produces a finite figure even for malformed
// historical records.
//
// No currency conversion happens here. Callers must convert the fee into the
// same currency as the unit price first.

// EffectiveUnitPrice amortizes a total transaction fee evenly across all
// purchased units: unitPrice + fee/quantity.
func EffectiveUnitPrice(unitPrice, quantity Decimal, fee *Decimal) Decimal {
	if fee == nil || fee.IsZero() || !quantity.IsPositive() {
		return unitPrice
	}
	perUnit, err := fee.Div(quantity)
	if err != nil {
		return unitPrice
	}
	effective, err := unitPrice.Add(perUnit)
	if err != nil {
		return unitPrice
	}
	return effective
}

// ProfitLossWithFees computes (currentPrice - effectiveUnitPrice) * quantity.
// Positive means gain; zero or negative means breakeven or loss.
func ProfitLossWithFees(quantity, unitPrice, currentPrice Decimal, fee *Decimal) Decimal {
	effective := EffectiveUnitPrice(unitPrice, quantity, fee)
	diff, err := currentPrice.Sub(effective)
	if err != nil {
		return Zero
	}
	pl, err := diff.Mul(quantity)
	if err != nil {
		return Zero
	}
	return pl
}
