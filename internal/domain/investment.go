package domain

import "strings"

// AssetClass determines which price source an investment is valued against.
type AssetClass string

const (
	AssetClassCrypto AssetClass = "crypto"
	AssetClassStock  AssetClass = "stock"
)

func (a AssetClass) IsValid() bool {
	return a == AssetClassCrypto || a == AssetClassStock
}

// feeAnomalyFactor flags transaction fees exceeding 1.5x the nominal invested
// amount. Such records are almost certainly data-entry mistakes, but they are
// reported as warnings rather than rejected outright.
var feeAnomalyFactor = MustDecimal("1.5")

// Investment is a single recorded purchase of a crypto token or an equity.
// Identity is immutable; financial fields change only through explicit edits.
type Investment struct {
	ID                string     `json:"id"`
	AssetClass        AssetClass `json:"type"`
	MarketID          string     `json:"token_id"`
	Symbol            string     `json:"symbol"`
	Name              string     `json:"name"`
	Quantity          Decimal    `json:"quantity"`
	UnitPurchasePrice Decimal    `json:"purchase_price"`
	PurchaseCurrency  string     `json:"purchase_price_currency"`
	PurchaseDate      Date       `json:"purchase_date"`

	// TransactionFee is the total fee paid for the whole purchase, not per
	// unit. It may be denominated in a different currency than the purchase.
	TransactionFee         *Decimal `json:"transaction_fee,omitempty"`
	TransactionFeeCurrency string   `json:"transaction_fee_currency,omitempty"`

	// Derived fields, recomputed by the valuation engine for a given display
	// currency. Never persisted, never trusted from storage.
	CurrentUnitPrice           *Decimal `json:"current_price,omitempty"`
	ProfitLoss                 *Decimal `json:"profit_loss,omitempty"`
	ConvertedUnitPurchasePrice *Decimal `json:"converted_purchase_price,omitempty"`
	EffectiveUnitPurchasePrice *Decimal `json:"effective_purchase_price,omitempty"`
	TotalFeesInDisplayCurrency *Decimal `json:"total_fees_display_currency,omitempty"`
}

// Normalize canonicalizes currency codes and trims display fields. Callers
// must normalize before comparing currencies or validating.
func (inv *Investment) Normalize() {
	inv.MarketID = strings.TrimSpace(inv.MarketID)
	inv.Symbol = strings.TrimSpace(inv.Symbol)
	inv.Name = strings.TrimSpace(inv.Name)
	inv.PurchaseCurrency = strings.ToUpper(strings.TrimSpace(inv.PurchaseCurrency))
	inv.TransactionFeeCurrency = strings.ToUpper(strings.TrimSpace(inv.TransactionFeeCurrency))
}

// HasFee reports whether a non-zero transaction fee is recorded.
func (inv *Investment) HasFee() bool {
	return inv.TransactionFee != nil && !inv.TransactionFee.IsZero()
}

// Fee returns the transaction fee, or zero when absent.
func (inv *Investment) Fee() Decimal {
	if inv.TransactionFee == nil {
		return Zero
	}
	return *inv.TransactionFee
}

// FeeCurrency returns the fee currency, falling back to the purchase
// currency. Only meaningful when a fee is present.
func (inv *Investment) FeeCurrency() string {
	if inv.TransactionFeeCurrency != "" {
		return inv.TransactionFeeCurrency
	}
	return inv.PurchaseCurrency
}

// Validate collects every violation found in the record. It returns nil when
// the investment is clean; otherwise the returned error holds the complete
// list of hard violations plus any warnings. A record with only warnings is
// still persistable.
func (inv *Investment) Validate() *ValidationError {
	ve := &ValidationError{}

	if !inv.AssetClass.IsValid() {
		ve.Violations = append(ve.Violations, `type must be "crypto" or "stock"`)
	}
	if inv.MarketID == "" {
		ve.Violations = append(ve.Violations, "token_id is required")
	}
	if inv.Symbol == "" {
		ve.Violations = append(ve.Violations, "symbol is required")
	}
	if inv.Name == "" {
		ve.Violations = append(ve.Violations, "name is required")
	}
	if !inv.Quantity.IsPositive() {
		ve.Violations = append(ve.Violations, "quantity must be greater than 0")
	}
	if !inv.UnitPurchasePrice.IsPositive() {
		ve.Violations = append(ve.Violations, "purchase_price must be greater than 0")
	}
	if inv.PurchaseCurrency == "" {
		ve.Violations = append(ve.Violations, "purchase_price_currency is required")
	}
	if inv.PurchaseDate.IsZero() {
		ve.Violations = append(ve.Violations, "purchase_date is required")
	}

	if inv.TransactionFee != nil {
		if inv.TransactionFee.IsNegative() {
			ve.Violations = append(ve.Violations, "transaction_fee must not be negative")
		}
		if inv.TransactionFee.IsPositive() && inv.TransactionFeeCurrency == "" {
			ve.Violations = append(ve.Violations, "transaction_fee_currency is required when a transaction fee is set")
		}
		if nominal, err := inv.Quantity.Mul(inv.UnitPurchasePrice); err == nil {
			if threshold, err := nominal.Mul(feeAnomalyFactor); err == nil && inv.TransactionFee.Cmp(threshold) > 0 {
				ve.Warnings = append(ve.Warnings, "transaction_fee exceeds 1.5x the invested amount")
			}
		}
	}

	if len(ve.Violations) == 0 && len(ve.Warnings) == 0 {
		return nil
	}
	return ve
}
