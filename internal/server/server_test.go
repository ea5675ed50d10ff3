package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/model"
	"SignalSentinel/internal/odds"
	"SignalSentinel/internal/sportsfeed"
	"SignalSentinel/internal/store"
)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	srv := &Server{
		Store: store.NewMemoryStore(),
		Odds:  odds.NewEngine(),
		Stats: &sportsfeed.MockFetcher{Stats: map[string]model.TeamStats{
			"Arsenal": {Team: "Arsenal", AvgGoals: 2.5, AvgCorners: 6, WinPercent: 70, DrawPercent: 20, LossPercent: 10},
			"Fulham":  {Team: "Fulham", AvgGoals: 1.5, AvgCorners: 4.5, WinPercent: 25, DrawPercent: 30, LossPercent: 45},
		}},
	}
	return srv, srv.Router()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndGetSignal(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/signals", map[string]interface{}{
		"symbol":      "BTCUSDT",
		"direction":   "LONG",
		"entry_price": 100,
		"stop_loss":   95,
		"targets":     []float64{103, 106, 110},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created model.Signal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.ResultPending, created.Result)
	require.Len(t, created.Targets, 3)
	assert.Equal(t, 1, created.Targets[0].Level)

	got := doJSON(t, h, http.MethodGet, "/api/v1/signals/"+created.ID, nil)
	require.Equal(t, http.StatusOK, got.Code)
}

func TestCreateSignal_RejectsInvertedStop(t *testing.T) {
	_, h := newTestServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/v1/signals", map[string]interface{}{
		"symbol":      "BTCUSDT",
		"direction":   "LONG",
		"entry_price": 100,
		"stop_loss":   105,
		"targets":     []float64{110},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "invariant violation")
}

func TestCreateSignal_RejectsMissingFields(t *testing.T) {
	_, h := newTestServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/v1/signals", map[string]interface{}{
		"symbol":    "BTCUSDT",
		"direction": "LONG",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSignal_NotFound(t *testing.T) {
	_, h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/api/v1/signals/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListSignalsAndStats(t *testing.T) {
	srv, h := newTestServer(t)
	profit := 10.0
	now := time.Now()
	require.NoError(t, srv.Store.Insert(&model.Signal{
		ID: "done", Symbol: "BTCUSDT", Direction: model.Long,
		EntryPrice: 100, StopLoss: 95,
		Targets:   []model.Target{{Level: 1, Price: 110, Hit: true}},
		CreatedAt: now.Add(-time.Hour), Result: model.ResultWinner,
		Profit: &profit, VerifiedAt: &now,
	}))

	rec := doJSON(t, h, http.MethodGet, "/api/v1/signals?limit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"done"`)

	stats := doJSON(t, h, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, stats.Code)
	var payload struct {
		Summary struct {
			Wins    int     `json:"wins"`
			WinRate float64 `json:"win_rate"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(stats.Body.Bytes(), &payload))
	assert.Equal(t, 1, payload.Summary.Wins)
	assert.InDelta(t, 100.0, payload.Summary.WinRate, 1e-9)
}

func TestOverUnderEndpoint(t *testing.T) {
	_, h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/api/v1/odds/overunder?lambda=2.5&line=2.5", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var advice model.OddsAdvice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &advice))
	assert.Equal(t, "goals", advice.Market)
	// P(X>2.5) ≈ 0.456 for lambda 2.5: inside the no-bet band.
	assert.Equal(t, "No Bet", advice.Advice)

	bad := doJSON(t, h, http.MethodGet, "/api/v1/odds/overunder?lambda=abc", nil)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestFixtureEndpoint(t *testing.T) {
	_, h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet,
		fmt.Sprintf("/api/v1/odds/fixture?home=%s&away=%s", "Arsenal", "Fulham"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Advice []model.OddsAdvice `json:"advice"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Advice, 3)
	assert.Equal(t, "Back Home", payload.Advice[0].Advice)

	missing := doJSON(t, h, http.MethodGet, "/api/v1/odds/fixture?home=Arsenal", nil)
	assert.Equal(t, http.StatusBadRequest, missing.Code)

	unknown := doJSON(t, h, http.MethodGet, "/api/v1/odds/fixture?home=Nowhere&away=Fulham", nil)
	assert.Equal(t, http.StatusBadGateway, unknown.Code)
}

func TestBankrollEndpoint_DisabledReturns404(t *testing.T) {
	_, h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/api/v1/bankroll", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthz(t *testing.T) {
	_, h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
