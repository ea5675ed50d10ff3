package pricefeed

import (
	"context"
	"time"

	"SignalSentinel/internal/model"
)

// Fetcher is the price provider capability the evaluator depends on.
// Implementations must surface failures as errors, never swallow them:
// the classifier's retry semantics depend on seeing the failure.
type Fetcher interface {
	// FetchSeries returns time-ordered observations between from and to.
	FetchSeries(ctx context.Context, symbol string, from, to time.Time) (*model.PriceSeries, error)
	// FetchCurrentPrice returns the latest trade price.
	FetchCurrentPrice(ctx context.Context, symbol string) (float64, error)
	Name() string
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price  float64
	Points []model.PricePoint
	Err    error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchSeries(_ context.Context, symbol string, from, to time.Time) (*model.PriceSeries, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Points != nil {
		return &model.PriceSeries{Symbol: symbol, Points: m.Points, FetchedAt: time.Now()}, nil
	}
	return &model.PriceSeries{
		Symbol:    symbol,
		Points:    []model.PricePoint{{Time: from, Price: m.Price}, {Time: to, Price: m.Price}},
		FetchedAt: time.Now(),
	}, nil
}

func (m *MockFetcher) FetchCurrentPrice(_ context.Context, _ string) (float64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Price, nil
}
