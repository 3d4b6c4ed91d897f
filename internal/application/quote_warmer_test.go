package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rovelin/investment-tracker/internal/domain"
)

type stubAssetLister struct {
	mu     sync.Mutex
	assets []domain.AssetRef
	err    error
	calls  int
}

func (s *stubAssetLister) ListAssets(ctx context.Context) ([]domain.AssetRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.assets, s.err
}

func (s *stubAssetLister) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestQuoteWarmer_Start(t *testing.T) {
	t.Run("warms every asset on interval", func(t *testing.T) {
		lister := &stubAssetLister{assets: []domain.AssetRef{
			{Class: domain.AssetClassCrypto, MarketID: "bitcoin"},
			{Class: domain.AssetClassStock, MarketID: "AAPL"},
		}}
		prices := &fakePrices{prices: map[string]string{"bitcoin": "60000", "AAPL": "180"}}

		warmer := NewQuoteWarmer(lister, prices, 10*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go warmer.Start(ctx)
		time.Sleep(50 * time.Millisecond)
		warmer.Stop()

		assert.GreaterOrEqual(t, lister.callCount(), 3)
		assert.GreaterOrEqual(t, prices.callCount(), 6)
	})

	t.Run("stops on Stop", func(t *testing.T) {
		lister := &stubAssetLister{}
		warmer := NewQuoteWarmer(lister, &fakePrices{}, 100*time.Millisecond)

		go warmer.Start(context.Background())
		time.Sleep(20 * time.Millisecond)

		warmer.Stop()
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		lister := &stubAssetLister{}
		warmer := NewQuoteWarmer(lister, &fakePrices{}, 10*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			warmer.Start(ctx)
			close(done)
		}()

		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("warmer did not stop after context cancellation")
		}
	})

	t.Run("keeps ticking through lookup failures", func(t *testing.T) {
		lister := &stubAssetLister{assets: []domain.AssetRef{
			{Class: domain.AssetClassCrypto, MarketID: "brokencoin"},
		}}
		prices := &fakePrices{fail: map[string]error{"brokencoin": errors.New("upstream down")}}

		warmer := NewQuoteWarmer(lister, prices, 10*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go warmer.Start(ctx)
		time.Sleep(50 * time.Millisecond)
		warmer.Stop()

		assert.GreaterOrEqual(t, lister.callCount(), 3)
	})

	t.Run("keeps ticking through listing failures", func(t *testing.T) {
		lister := &stubAssetLister{err: errors.New("db down")}
		warmer := NewQuoteWarmer(lister, &fakePrices{}, 10*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go warmer.Start(ctx)
		time.Sleep(50 * time.Millisecond)
		warmer.Stop()

		assert.GreaterOrEqual(t, lister.callCount(), 3)
	})
}
