// Package fx resolves currency-to-USD exchange rates for Payment reporting
// fields (spec §3's reportingExchangeRate/reportingRateSource). Grounded on
// the teacher's ExchangeRateService: an in-memory TTL cache in front of an
// external rate source, with the external call's failure never blocking the
// applier — callers fall back to the last cached rate or a neutral estimate.
package fx

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/creatorpay/platform/internal/errs"
	"github.com/creatorpay/platform/internal/feeengine"
)

// Source fetches a fresh rate from an external provider. A real
// implementation calls out over internal/httpclient; tests use a fake.
type Source interface {
	FetchRate(ctx context.Context, fromCurrency, toCurrency string) (float64, error)
}

type cachedRate struct {
	rate      float64
	expiresAt time.Time
}

// Client resolves rates with a 5-minute cache, matching the teacher's
// cacheTTL default.
type Client struct {
	source Source
	logger *zap.Logger

	mu    sync.RWMutex
	cache map[string]cachedRate
	ttl   time.Duration
}

func New(source Source, logger *zap.Logger) *Client {
	return &Client{
		source: source,
		logger: logger,
		cache:  make(map[string]cachedRate),
		ttl:    5 * time.Minute,
	}
}

// RateToUSD returns the multiplier converting one unit of currency into USD.
// USD short-circuits to 1 without touching the cache or the source, per
// spec §4.5.1 step 4: "USD payments short-circuit to rate=1."
func (c *Client) RateToUSD(ctx context.Context, currency string) (float64, error) {
	if currency == "USD" {
		return 1, nil
	}

	key := currency + "_USD"
	if rate, ok := c.getCached(key); ok {
		return rate, nil
	}

	rate, err := c.source.FetchRate(ctx, currency, "USD")
	if err != nil {
		c.logger.Warn("fx: rate source unavailable, serving stale cache if any",
			zap.String("currency", currency), zap.Error(err))
		c.mu.RLock()
		entry, ok := c.cache[key]
		c.mu.RUnlock()
		if ok {
			return entry.rate, nil
		}
		return 0, errs.Wrap(errs.ProviderUnavailable, fmt.Sprintf("fx: no rate available for %s", currency), err)
	}

	c.setCached(key, rate)
	return rate, nil
}

func (c *Client) getCached(key string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.cache[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return 0, false
	}
	return entry.rate, true
}

func (c *Client) setCached(key string, rate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = cachedRate{rate: rate, expiresAt: time.Now().Add(c.ttl)}
}

// ToUSDCents converts a minor-unit amount in currency to USD cents using
// rate (the currency->USD multiplier), applying RoundHalfUp at the final
// step per spec §9's money-handling rule.
func ToUSDCents(amountCents int64, rate float64) int64 {
	return feeengine.RoundHalfUp(float64(amountCents) * rate)
}
