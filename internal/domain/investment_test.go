package domain

import (
	"testing"
	"time"
)

func validInvestment() Investment {
	return Investment{
		AssetClass:        AssetClassCrypto,
		MarketID:          "bitcoin",
		Symbol:            "BTC",
		Name:              "Bitcoin",
		Quantity:          MustDecimal("0.5"),
		UnitPurchasePrice: MustDecimal("50000"),
		PurchaseCurrency:  "USD",
		PurchaseDate:      NewDate(2024, time.January, 15),
	}
}

func TestInvestment_Validate_Clean(t *testing.T) {
	inv := validInvestment()
	if ve := inv.Validate(); ve != nil {
		t.Errorf("expected no validation error, got %v", ve)
	}
}

func TestInvestment_Validate_CollectsAllViolations(t *testing.T) {
	inv := Investment{}

	ve := inv.Validate()
	if ve == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !ve.HasViolations() {
		t.Fatal("expected hard violations")
	}

	// Every missing field is reported at once, not just the first.
	expected := []string{
		`type must be "crypto" or "stock"`,
		"token_id is required",
		"symbol is required",
		"name is required",
		"quantity must be greater than 0",
		"purchase_price must be greater than 0",
		"purchase_price_currency is required",
		"purchase_date is required",
	}
	if len(ve.Violations) != len(expected) {
		t.Fatalf("expected %d violations, got %d: %v", len(expected), len(ve.Violations), ve.Violations)
	}
	for i, want := range expected {
		if ve.Violations[i] != want {
			t.Errorf("violation %d: expected %q, got %q", i, want, ve.Violations[i])
		}
	}
}

func TestInvestment_Validate_Fee(t *testing.T) {
	t.Run("positive fee without currency is a violation", func(t *testing.T) {
		inv := validInvestment()
		fee := MustDecimal("10")
		inv.TransactionFee = &fee

		ve := inv.Validate()
		if ve == nil || !ve.HasViolations() {
			t.Fatal("expected a violation for missing fee currency")
		}
		if len(ve.Violations) != 1 || ve.Violations[0] != "transaction_fee_currency is required when a transaction fee is set" {
			t.Errorf("unexpected violations: %v", ve.Violations)
		}
	})

	t.Run("negative fee is a violation", func(t *testing.T) {
		inv := validInvestment()
		fee := MustDecimal("-1")
		inv.TransactionFee = &fee
		inv.TransactionFeeCurrency = "USD"

		ve := inv.Validate()
		if ve == nil || !ve.HasViolations() {
			t.Fatal("expected a violation for negative fee")
		}
	})

	t.Run("zero fee needs no currency", func(t *testing.T) {
		inv := validInvestment()
		fee := Zero
		inv.TransactionFee = &fee

		if ve := inv.Validate(); ve != nil {
			t.Errorf("expected no validation error, got %v", ve)
		}
	})

	t.Run("anomalous fee warns but does not block", func(t *testing.T) {
		inv := validInvestment()
		// Invested 25000; anything above 37500 is flagged.
		fee := MustDecimal("40000")
		inv.TransactionFee = &fee
		inv.TransactionFeeCurrency = "USD"

		ve := inv.Validate()
		if ve == nil {
			t.Fatal("expected warnings")
		}
		if ve.HasViolations() {
			t.Errorf("expected no hard violations, got %v", ve.Violations)
		}
		if len(ve.Warnings) != 1 || ve.Warnings[0] != "transaction_fee exceeds 1.5x the invested amount" {
			t.Errorf("unexpected warnings: %v", ve.Warnings)
		}
	})

	t.Run("fee at exactly the threshold is fine", func(t *testing.T) {
		inv := validInvestment()
		fee := MustDecimal("37500")
		inv.TransactionFee = &fee
		inv.TransactionFeeCurrency = "USD"

		if ve := inv.Validate(); ve != nil {
			t.Errorf("expected no validation error, got %v", ve)
		}
	})
}

func TestInvestment_Normalize(t *testing.T) {
	inv := Investment{
		MarketID:               "  bitcoin ",
		Symbol:                 " BTC ",
		Name:                   " Bitcoin ",
		PurchaseCurrency:       " usd ",
		TransactionFeeCurrency: "eur",
	}

	inv.Normalize()

	if inv.MarketID != "bitcoin" || inv.Symbol != "BTC" || inv.Name != "Bitcoin" {
		t.Errorf("unexpected display fields: %q %q %q", inv.MarketID, inv.Symbol, inv.Name)
	}
	if inv.PurchaseCurrency != "USD" {
		t.Errorf("expected USD, got %q", inv.PurchaseCurrency)
	}
	if inv.TransactionFeeCurrency != "EUR" {
		t.Errorf("expected EUR, got %q", inv.TransactionFeeCurrency)
	}
}

func TestInvestment_FeeAccessors(t *testing.T) {
	inv := validInvestment()

	if inv.HasFee() {
		t.Error("expected no fee")
	}
	if !inv.Fee().IsZero() {
		t.Errorf("expected zero fee, got %s", inv.Fee())
	}
	if inv.FeeCurrency() != "USD" {
		t.Errorf("expected fallback to purchase currency, got %q", inv.FeeCurrency())
	}

	fee := MustDecimal("5")
	inv.TransactionFee = &fee
	inv.TransactionFeeCurrency = "EUR"

	if !inv.HasFee() {
		t.Error("expected a fee")
	}
	if !inv.Fee().Equal(fee) {
		t.Errorf("expected 5, got %s", inv.Fee())
	}
	if inv.FeeCurrency() != "EUR" {
		t.Errorf("expected EUR, got %q", inv.FeeCurrency())
	}
}

func TestAssetClass_IsValid(t *testing.T) {
	if !AssetClassCrypto.IsValid() || !AssetClassStock.IsValid() {
		t.Error("expected crypto and stock to be valid")
	}
	if AssetClass("bond").IsValid() || AssetClass("").IsValid() {
		t.Error("expected unknown classes to be invalid")
	}
}
