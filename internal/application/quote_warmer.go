package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/rovelin/investment-tracker/internal/domain"
)

// QuoteWarmer periodically re-resolves the price of every distinct asset
// referenced by stored investments, so dashboard loads hit a warm cache
// instead of paying cold-lookup latency. Failures are logged and retried on
// the next tick; they never stop the loop.
type QuoteWarmer struct {
	assets   domain.AssetLister
	prices   PriceLookup
	interval time.Duration
	stopChan chan struct{}
}

func NewQuoteWarmer(assets domain.AssetLister, prices PriceLookup, interval time.Duration) *QuoteWarmer {
	return &QuoteWarmer{
		assets:   assets,
		prices:   prices,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (w *QuoteWarmer) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.Info("Quote warmer started", "interval", w.interval)

	for {
		select {
		case <-ticker.C:
			w.warm(ctx)
		case <-w.stopChan:
			slog.Info("Quote warmer stopped")
			return
		case <-ctx.Done():
			slog.Info("Quote warmer stopped due to context cancellation")
			return
		}
	}
}

func (w *QuoteWarmer) Stop() {
	close(w.stopChan)
}

func (w *QuoteWarmer) warm(ctx context.Context) {
	assets, err := w.assets.ListAssets(ctx)
	if err != nil {
		slog.Error("Error listing assets for quote warmup", "error", err)
		return
	}

	warmed := 0
	for _, asset := range assets {
		if _, err := w.prices.CurrentPrice(ctx, asset.Class, asset.MarketID); err != nil {
			slog.Warn("Quote warmup failed", "token_id", asset.MarketID, "error", err)
			continue
		}
		warmed++
	}
	slog.Debug("Quote warmup pass finished", "assets", len(assets), "warmed", warmed)
}
