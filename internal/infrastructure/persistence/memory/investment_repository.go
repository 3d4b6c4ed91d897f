package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/rovelin/investment-tracker/internal/domain"
)

// InvestmentRepository is an in-memory implementation of
// domain.InvestmentRepository, used by tests and the no-database dev mode.
// Ids are assigned from a process-local counter, mirroring the serial column
// of the SQL backends.
type InvestmentRepository struct {
	mu     sync.RWMutex
	nextID int64
	// userID -> id -> record
	records map[string]map[string]domain.Investment
}

func NewInvestmentRepository() *InvestmentRepository {
	return &InvestmentRepository{
		records: make(map[string]map[string]domain.Investment),
	}
}

func (r *InvestmentRepository) ListAll(ctx context.Context, userID string) ([]domain.Investment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	investments := make([]domain.Investment, 0, len(r.records[userID]))
	for _, inv := range r.records[userID] {
		investments = append(investments, inv)
	}

	sort.Slice(investments, func(i, j int) bool {
		if !investments[i].PurchaseDate.Equal(investments[j].PurchaseDate.Time) {
			return investments[i].PurchaseDate.After(investments[j].PurchaseDate.Time)
		}
		return idOf(investments[i]) > idOf(investments[j])
	})
	return investments, nil
}

func (r *InvestmentRepository) FindByID(ctx context.Context, userID, id string) (*domain.Investment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.records[userID][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &inv, nil
}

func (r *InvestmentRepository) Add(ctx context.Context, userID string, inv *domain.Investment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	inv.ID = strconv.FormatInt(r.nextID, 10)

	if r.records[userID] == nil {
		r.records[userID] = make(map[string]domain.Investment)
	}
	r.records[userID][inv.ID] = *inv
	return nil
}

func (r *InvestmentRepository) Update(ctx context.Context, userID string, inv *domain.Investment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[userID][inv.ID]; !ok {
		return domain.ErrNotFound
	}
	r.records[userID][inv.ID] = *inv
	return nil
}

func (r *InvestmentRepository) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[userID][id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.records[userID], id)
	return nil
}

func (r *InvestmentRepository) ClearAll(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, userID)
	return nil
}

// ListAssets returns the distinct priceable assets across all users.
func (r *InvestmentRepository) ListAssets(ctx context.Context) ([]domain.AssetRef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[domain.AssetRef]struct{})
	var assets []domain.AssetRef
	for _, byID := range r.records {
		for _, inv := range byID {
			ref := domain.AssetRef{Class: inv.AssetClass, MarketID: inv.MarketID}
			if _, ok := seen[ref]; ok {
				continue
			}
			seen[ref] = struct{}{}
			assets = append(assets, ref)
		}
	}
	return assets, nil
}

func idOf(inv domain.Investment) int64 {
	id, _ := strconv.ParseInt(inv.ID, 10, 64)
	return id
}
