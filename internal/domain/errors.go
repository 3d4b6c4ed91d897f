package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotAuthenticated is returned when no user could be resolved for a request.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNotFound is returned for id-scoped operations on rows that do not
	// exist or belong to another user. Ownership checks always run inside the
	// user-scoped query, so a foreign row is indistinguishable from a missing one.
	ErrNotFound = errors.New("investment not found")
)

// PriceUnavailableError signals that the current price of an asset could not
// be resolved. Recoverable per investment inside the valuation engine.
type PriceUnavailableError struct {
	MarketID string
	Err      error
}

func (e *PriceUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("price unavailable for %s: %v", e.MarketID, e.Err)
	}
	return fmt.Sprintf("price unavailable for %s", e.MarketID)
}

func (e *PriceUnavailableError) Unwrap() error { return e.Err }

// ConversionUnavailableError signals that no spot rate exists for a currency
// pair. It is never swallowed by returning the unconverted amount; that would
// corrupt aggregate totals without any signal.
type ConversionUnavailableError struct {
	From string
	To   string
	Err  error
}

func (e *ConversionUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("conversion unavailable for %s to %s: %v", e.From, e.To, e.Err)
	}
	return fmt.Sprintf("conversion unavailable for %s to %s", e.From, e.To)
}

func (e *ConversionUnavailableError) Unwrap() error { return e.Err }

// ValidationError carries every violation found in an investment, not just
// the first, so callers can present a complete list. Warnings flag anomalies
// that do not block persistence.
type ValidationError struct {
	Violations []string `json:"violations"`
	Warnings   []string `json:"warnings,omitempty"`
}

func (e *ValidationError) Error() string {
	return "invalid investment: " + strings.Join(e.Violations, "; ")
}

// HasViolations reports whether any hard violation was recorded.
func (e *ValidationError) HasViolations() bool {
	return len(e.Violations) > 0
}
