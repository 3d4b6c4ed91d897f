package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rovelin/investment-tracker/internal/domain"
)

// InvestmentService owns the lifecycle of investment records: validation on
// the way in, user-scoped CRUD against the repository. Derived fields are
// stripped before persistence; they only ever exist on valuation output.
type InvestmentService struct {
	repo domain.InvestmentRepository
}

func NewInvestmentService(repo domain.InvestmentRepository) *InvestmentService {
	return &InvestmentService{repo: repo}
}

// Add validates and persists a new investment. The returned record carries
// the server-assigned id. Validation failures report every violation at
// once; anomaly warnings are logged but do not block persistence.
func (s *InvestmentService) Add(ctx context.Context, userID string, inv domain.Investment) (*domain.Investment, error) {
	inv.ID = ""
	inv.Normalize()
	clearDerived(&inv)

	if ve := inv.Validate(); ve != nil {
		if ve.HasViolations() {
			return nil, ve
		}
		slog.WarnContext(ctx, "Investment saved with validation warnings",
			"token_id", inv.MarketID, "warnings", ve.Warnings)
	}

	if err := s.repo.Add(ctx, userID, &inv); err != nil {
		return nil, fmt.Errorf("adding investment: %w", err)
	}
	return &inv, nil
}

// InvestmentUpdate is a partial edit: nil fields stay unchanged.
type InvestmentUpdate struct {
	AssetClass             *domain.AssetClass
	MarketID               *string
	Symbol                 *string
	Name                   *string
	Quantity               *domain.Decimal
	UnitPurchasePrice      *domain.Decimal
	PurchaseCurrency       *string
	PurchaseDate           *domain.Date
	TransactionFee         *domain.Decimal
	TransactionFeeCurrency *string
}

// Update applies a partial edit to an existing record after re-validating
// the merged result.
func (s *InvestmentService) Update(ctx context.Context, userID, id string, upd InvestmentUpdate) (*domain.Investment, error) {
	inv, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("loading investment %s: %w", id, err)
	}

	if upd.AssetClass != nil {
		inv.AssetClass = *upd.AssetClass
	}
	if upd.MarketID != nil {
		inv.MarketID = *upd.MarketID
	}
	if upd.Symbol != nil {
		inv.Symbol = *upd.Symbol
	}
	if upd.Name != nil {
		inv.Name = *upd.Name
	}
	if upd.Quantity != nil {
		inv.Quantity = *upd.Quantity
	}
	if upd.UnitPurchasePrice != nil {
		inv.UnitPurchasePrice = *upd.UnitPurchasePrice
	}
	if upd.PurchaseCurrency != nil {
		inv.PurchaseCurrency = *upd.PurchaseCurrency
	}
	if upd.PurchaseDate != nil {
		inv.PurchaseDate = *upd.PurchaseDate
	}
	if upd.TransactionFee != nil {
		inv.TransactionFee = upd.TransactionFee
	}
	if upd.TransactionFeeCurrency != nil {
		inv.TransactionFeeCurrency = *upd.TransactionFeeCurrency
	}

	inv.Normalize()
	clearDerived(inv)

	if ve := inv.Validate(); ve != nil {
		if ve.HasViolations() {
			return nil, ve
		}
		slog.WarnContext(ctx, "Investment updated with validation warnings",
			"investment_id", inv.ID, "warnings", ve.Warnings)
	}

	if err := s.repo.Update(ctx, userID, inv); err != nil {
		return nil, fmt.Errorf("updating investment %s: %w", id, err)
	}
	return inv, nil
}

// List returns the user's raw records, newest purchase first.
func (s *InvestmentService) List(ctx context.Context, userID string) ([]domain.Investment, error) {
	investments, err := s.repo.ListAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing investments: %w", err)
	}
	return investments, nil
}

func (s *InvestmentService) Get(ctx context.Context, userID, id string) (*domain.Investment, error) {
	inv, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("loading investment %s: %w", id, err)
	}
	return inv, nil
}

func (s *InvestmentService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("deleting investment %s: %w", id, err)
	}
	return nil
}

// ClearAll removes every investment of the user.
func (s *InvestmentService) ClearAll(ctx context.Context, userID string) error {
	if err := s.repo.ClearAll(ctx, userID); err != nil {
		return fmt.Errorf("clearing investments: %w", err)
	}
	return nil
}

func clearDerived(inv *domain.Investment) {
	inv.CurrentUnitPrice = nil
	inv.ProfitLoss = nil
	inv.ConvertedUnitPurchasePrice = nil
	inv.EffectiveUnitPurchasePrice = nil
	inv.TotalFeesInDisplayCurrency = nil
}
