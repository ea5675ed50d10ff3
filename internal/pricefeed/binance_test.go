package pricefeed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinanceFetcher_FetchSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/klines", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "5m", r.URL.Query().Get("interval"))
		w.Write([]byte(`[
			[1717320000000,"100.0","105.0","99.0","104.0","12.3",1717320299999,"0",1,"0","0","0"],
			[1717320300000,"104.0","108.0","103.0","107.0","9.8",1717320599999,"0",1,"0","0","0"]
		]`))
	}))
	defer srv.Close()

	f := NewBinanceFetcher(srv.URL, "5m", "")
	series, err := f.FetchSeries(context.Background(), "BTCUSDT", time.UnixMilli(1717320000000), time.UnixMilli(1717320600000))
	require.NoError(t, err)
	require.Equal(t, 2, series.Len())
	assert.Equal(t, 104.0, series.Points[0].Price)
	assert.Equal(t, 107.0, series.Points[1].Price)
	assert.True(t, series.Points[0].Time.Before(series.Points[1].Time))
}

func TestBinanceFetcher_FetchCurrentPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/ticker/price", r.URL.Path)
		w.Write([]byte(`{"symbol":"ETHUSDT","price":"3021.55"}`))
	}))
	defer srv.Close()

	f := NewBinanceFetcher(srv.URL, "", "")
	px, err := f.FetchCurrentPrice(context.Background(), "ETHUSDT")
	require.NoError(t, err)
	assert.Equal(t, 3021.55, px)
}

func TestBinanceFetcher_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":-1121,"msg":"Invalid symbol."}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	f := NewBinanceFetcher(srv.URL, "", "")
	_, err := f.FetchCurrentPrice(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestBinanceFetcher_EmptySeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	f := NewBinanceFetcher(srv.URL, "", "")
	_, err := f.FetchSeries(context.Background(), "BTCUSDT", time.Now().Add(-time.Hour), time.Now())
	require.Error(t, err)
}

func TestGuarded_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	inner := &MockFetcher{Err: errors.New("provider down")}
	g := NewGuarded(inner, 100, 10, time.Second)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := g.FetchCurrentPrice(ctx, "BTCUSDT")
		require.Error(t, err)
	}

	// Breaker is open now: the inner fetcher is no longer consulted.
	inner.Err = nil
	inner.Price = 42
	_, err := g.FetchCurrentPrice(ctx, "BTCUSDT")
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestGuarded_PassesThrough(t *testing.T) {
	inner := &MockFetcher{Price: 123.45}
	g := NewGuarded(inner, 100, 10, time.Second)

	px, err := g.FetchCurrentPrice(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, 123.45, px)

	series, err := g.FetchSeries(context.Background(), "BTCUSDT", time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, series.Len())
}
