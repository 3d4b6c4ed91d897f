package marketdata

import (
	"context"
	"sync"
	"time"

	"github.com/rovelin/investment-tracker/internal/domain"
)

// quoteCache is a small TTL cache keyed by an opaque string. Sources share
// one instance per decorator; entries are refreshed lazily on the first
// lookup after expiry.
type quoteCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value   domain.Decimal
	fetched time.Time
}

func newQuoteCache(ttl time.Duration) *quoteCache {
	return &quoteCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *quoteCache) get(key string) (domain.Decimal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || time.Since(e.fetched) >= c.ttl {
		return domain.Zero, false
	}
	return e.value, true
}

func (c *quoteCache) put(key string, value domain.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, fetched: time.Now()}
}

// CachedCryptoSource wraps a CryptoPriceSource with a TTL cache.
type CachedCryptoSource struct {
	src   CryptoPriceSource
	cache *quoteCache
}

func NewCachedCryptoSource(src CryptoPriceSource, ttl time.Duration) *CachedCryptoSource {
	return &CachedCryptoSource{src: src, cache: newQuoteCache(ttl)}
}

func (s *CachedCryptoSource) CryptoPrice(ctx context.Context, tokenID string) (domain.Decimal, error) {
	if price, ok := s.cache.get(tokenID); ok {
		return price, nil
	}
	price, err := s.src.CryptoPrice(ctx, tokenID)
	if err != nil {
		return domain.Zero, err
	}
	s.cache.put(tokenID, price)
	return price, nil
}

// CachedEquitySource wraps an EquityPriceSource with a TTL cache.
type CachedEquitySource struct {
	src   EquityPriceSource
	cache *quoteCache
}

func NewCachedEquitySource(src EquityPriceSource, ttl time.Duration) *CachedEquitySource {
	return &CachedEquitySource{src: src, cache: newQuoteCache(ttl)}
}

func (s *CachedEquitySource) EquityPrice(ctx context.Context, symbol string) (domain.Decimal, error) {
	if price, ok := s.cache.get(symbol); ok {
		return price, nil
	}
	price, err := s.src.EquityPrice(ctx, symbol)
	if err != nil {
		return domain.Zero, err
	}
	s.cache.put(symbol, price)
	return price, nil
}

// CachedRateSource wraps a RateSource with a TTL cache keyed by the ordered
// currency pair.
type CachedRateSource struct {
	src   RateSource
	cache *quoteCache
}

func NewCachedRateSource(src RateSource, ttl time.Duration) *CachedRateSource {
	return &CachedRateSource{src: src, cache: newQuoteCache(ttl)}
}

func (s *CachedRateSource) Rate(ctx context.Context, from, to string) (domain.Decimal, error) {
	key := from + "/" + to
	if rate, ok := s.cache.get(key); ok {
		return rate, nil
	}
	rate, err := s.src.Rate(ctx, from, to)
	if err != nil {
		return domain.Zero, err
	}
	s.cache.put(key, rate)
	return rate, nil
}
