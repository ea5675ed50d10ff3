package pricefeed

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"SignalSentinel/internal/model"
)

// Guarded wraps a Fetcher with a token-bucket rate limit, a circuit
// breaker, and a per-lookup timeout. Evaluation passes hammer the provider
// with one lookup per pending signal; the guard keeps that inside the
// provider's published limits and fails fast when the provider is down.
type Guarded struct {
	inner   Fetcher
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
}

// NewGuarded builds the guard. rps is requests per second allowed against
// the underlying provider; timeout bounds each individual lookup.
func NewGuarded(inner Fetcher, rps float64, burst int, timeout time.Duration) *Guarded {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	settings := gobreaker.Settings{
		Name: inner.Name(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("provider", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("price provider breaker state change")
		},
	}
	return &Guarded{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		breaker: gobreaker.NewCircuitBreaker(settings),
		timeout: timeout,
	}
}

func (g *Guarded) Name() string { return g.inner.Name() }

func (g *Guarded) FetchSeries(ctx context.Context, symbol string, from, to time.Time) (*model.PriceSeries, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	out, err := g.breaker.Execute(func() (interface{}, error) {
		cctx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()
		return g.inner.FetchSeries(cctx, symbol, from, to)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.PriceSeries), nil
}

func (g *Guarded) FetchCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	out, err := g.breaker.Execute(func() (interface{}, error) {
		cctx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()
		return g.inner.FetchCurrentPrice(cctx, symbol)
	})
	if err != nil {
		return 0, err
	}
	return out.(float64), nil
}
