package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// FXQuote is the payload of the USD→ARS quote feed (dolarapi.com shape).
type FXQuote struct {
	Moneda             string          `json:"moneda"`
	Casa               string          `json:"casa"`
	Compra             decimal.Decimal `json:"compra"`
	Venta              decimal.Decimal `json:"venta"`
	FechaActualizacion time.Time       `json:"fechaActualizacion"`
}

// FXClient fetches the current USD→ARS rate from the quote feed. All calls go
// through the circuit breaker so a dead feed fails fast.
type FXClient struct {
	http *resty.Client
	cb   *CircuitBreaker
	path string
}

func NewFXClient(baseURL, path string, cb *CircuitBreaker) *FXClient {
	return &FXClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10 * time.Second).
			SetHeader("Accept", "application/json"),
		cb:   cb,
		path: path,
	}
}

// Breaker exposes the CB for health reporting.
func (c *FXClient) Breaker() *CircuitBreaker { return c.cb }

// Fetch returns the sell rate ("venta") of the configured quote.
func (c *FXClient) Fetch(ctx context.Context) (decimal.Decimal, error) {
	var quote FXQuote
	err := c.cb.Execute(func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetResult(&quote).
			Get(c.path)
		if err != nil {
			return fmt.Errorf("fx: feed unreachable: %w", err)
		}
		if resp.IsError() {
			return fmt.Errorf("fx: feed returned %d", resp.StatusCode())
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	if !quote.Venta.IsPositive() {
		return decimal.Zero, errors.New("fx: feed returned a non-positive rate")
	}
	return quote.Venta, nil
}

// FXCacheKey holds the last known USD→ARS sell rate.
const FXCacheKey = "fx:usd_ars"

// ErrFXUnavailable means no rate is cached (feed never reached or TTL expired).
var ErrFXUnavailable = errors.New("fx: no cached rate")

// FXCache stores the last fetched rate in redis with a TTL.
type FXCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewFXCache(rdb *redis.Client, ttl time.Duration) *FXCache {
	return &FXCache{rdb: rdb, ttl: ttl}
}

func (c *FXCache) Store(ctx context.Context, rate decimal.Decimal) error {
	return c.rdb.Set(ctx, FXCacheKey, rate.String(), c.ttl).Err()
}

// Latest returns the cached rate or ErrFXUnavailable.
func (c *FXCache) Latest(ctx context.Context) (decimal.Decimal, error) {
	if c == nil || c.rdb == nil {
		return decimal.Zero, ErrFXUnavailable
	}
	raw, err := c.rdb.Get(ctx, FXCacheKey).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, ErrFXUnavailable
	}
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(raw)
}
