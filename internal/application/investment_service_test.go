package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovelin/investment-tracker/internal/domain"
	"github.com/rovelin/investment-tracker/internal/infrastructure/persistence/memory"
)

func newInvestmentService() *InvestmentService {
	return NewInvestmentService(memory.NewInvestmentRepository())
}

func TestInvestmentService_Add(t *testing.T) {
	svc := newInvestmentService()

	inv := cryptoInvestment("", "bitcoin", "0.5", "50000", "usd")
	stale := domain.MustDecimal("999")
	inv.CurrentUnitPrice = &stale

	saved, err := svc.Add(context.Background(), "alice", inv)
	require.NoError(t, err)

	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "USD", saved.PurchaseCurrency, "currency is normalized on write")
	assert.Nil(t, saved.CurrentUnitPrice, "derived fields never reach storage")

	listed, err := svc.List(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, saved.ID, listed[0].ID)
}

func TestInvestmentService_Add_IgnoresClientID(t *testing.T) {
	svc := newInvestmentService()

	inv := cryptoInvestment("42", "bitcoin", "1", "100", "USD")
	saved, err := svc.Add(context.Background(), "alice", inv)
	require.NoError(t, err)

	assert.NotEqual(t, "42", saved.ID)
}

func TestInvestmentService_Add_Invalid(t *testing.T) {
	svc := newInvestmentService()

	_, err := svc.Add(context.Background(), "alice", domain.Investment{})
	require.Error(t, err)

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.True(t, ve.HasViolations())
	assert.GreaterOrEqual(t, len(ve.Violations), 8)

	listed, err := svc.List(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, listed, "invalid records must not be persisted")
}

func TestInvestmentService_Add_FeeWithoutCurrencyRejected(t *testing.T) {
	svc := newInvestmentService()

	inv := cryptoInvestment("", "bitcoin", "1", "100", "USD")
	fee := domain.MustDecimal("10")
	inv.TransactionFee = &fee

	_, err := svc.Add(context.Background(), "alice", inv)
	require.Error(t, err)

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Violations, "transaction_fee_currency is required when a transaction fee is set")
}

func TestInvestmentService_Add_AnomalousFeePersistsWithWarning(t *testing.T) {
	svc := newInvestmentService()

	inv := cryptoInvestment("", "bitcoin", "1", "100", "USD")
	fee := domain.MustDecimal("500")
	inv.TransactionFee = &fee
	inv.TransactionFeeCurrency = "USD"

	saved, err := svc.Add(context.Background(), "alice", inv)
	require.NoError(t, err, "warnings alone never block persistence")
	assert.NotEmpty(t, saved.ID)
}

func TestInvestmentService_Update(t *testing.T) {
	svc := newInvestmentService()

	saved, err := svc.Add(context.Background(), "alice", cryptoInvestment("", "bitcoin", "1", "100", "USD"))
	require.NoError(t, err)

	newQuantity := domain.MustDecimal("2")
	updated, err := svc.Update(context.Background(), "alice", saved.ID, InvestmentUpdate{
		Quantity: &newQuantity,
	})
	require.NoError(t, err)

	// Only the provided field changes.
	assert.True(t, updated.Quantity.Equal(newQuantity))
	assert.Equal(t, "bitcoin", updated.MarketID)
	assert.True(t, updated.UnitPurchasePrice.Equal(domain.MustDecimal("100")))
}

func TestInvestmentService_Update_RevalidatesMergedRecord(t *testing.T) {
	svc := newInvestmentService()

	saved, err := svc.Add(context.Background(), "alice", cryptoInvestment("", "bitcoin", "1", "100", "USD"))
	require.NoError(t, err)

	zero := domain.Zero
	_, err = svc.Update(context.Background(), "alice", saved.ID, InvestmentUpdate{
		Quantity: &zero,
	})
	require.Error(t, err)

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Violations, "quantity must be greater than 0")

	// The stored record is unchanged.
	current, err := svc.Get(context.Background(), "alice", saved.ID)
	require.NoError(t, err)
	assert.True(t, current.Quantity.Equal(domain.MustDecimal("1")))
}

func TestInvestmentService_Update_NotFound(t *testing.T) {
	svc := newInvestmentService()

	_, err := svc.Update(context.Background(), "alice", "123", InvestmentUpdate{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvestmentService_Get_ScopedToUser(t *testing.T) {
	svc := newInvestmentService()

	saved, err := svc.Add(context.Background(), "alice", cryptoInvestment("", "bitcoin", "1", "100", "USD"))
	require.NoError(t, err)

	// Another user's id lookup is indistinguishable from a missing row.
	_, err = svc.Get(context.Background(), "bob", saved.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvestmentService_Delete(t *testing.T) {
	svc := newInvestmentService()

	saved, err := svc.Add(context.Background(), "alice", cryptoInvestment("", "bitcoin", "1", "100", "USD"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "alice", saved.ID))

	_, err = svc.Get(context.Background(), "alice", saved.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Delete(context.Background(), "alice", saved.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvestmentService_ClearAll(t *testing.T) {
	svc := newInvestmentService()
	ctx := context.Background()

	for _, token := range []string{"bitcoin", "ethereum"} {
		_, err := svc.Add(ctx, "alice", cryptoInvestment("", token, "1", "100", "USD"))
		require.NoError(t, err)
	}
	other, err := svc.Add(ctx, "bob", cryptoInvestment("", "bitcoin", "1", "100", "USD"))
	require.NoError(t, err)

	require.NoError(t, svc.ClearAll(ctx, "alice"))

	listed, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, listed)

	// Other users are untouched.
	_, err = svc.Get(ctx, "bob", other.ID)
	assert.NoError(t, err)
}

func TestInvestmentService_List_Ordering(t *testing.T) {
	svc := newInvestmentService()
	ctx := context.Background()

	older := cryptoInvestment("", "bitcoin", "1", "100", "USD")
	older.PurchaseDate = domain.NewDate(2023, time.June, 1)
	newer := cryptoInvestment("", "ethereum", "1", "100", "USD")
	newer.PurchaseDate = domain.NewDate(2024, time.June, 1)

	_, err := svc.Add(ctx, "alice", older)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "alice", newer)
	require.NoError(t, err)

	listed, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "ethereum", listed[0].MarketID, "newest purchase first")
}
