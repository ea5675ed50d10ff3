package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"SignalSentinel/internal/classifier"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/stats"
	"SignalSentinel/internal/store"
)

type createSignalRequest struct {
	Symbol     string    `json:"symbol"`
	Direction  string    `json:"direction"`
	EntryPrice float64   `json:"entry_price"`
	StopLoss   float64   `json:"stop_loss"`
	Targets    []float64 `json:"targets"`
	ExpiresAt  string    `json:"expires_at,omitempty"` // RFC3339, optional
}

// HandleCreateSignal registers a new pending signal. Target levels are
// assigned from the order given; ordering violations are rejected, not
// corrected.
func (s *Server) HandleCreateSignal(w http.ResponseWriter, r *http.Request) {
	var req createSignalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	sig := &model.Signal{
		ID:         uuid.NewString(),
		Symbol:     req.Symbol,
		Direction:  model.Direction(req.Direction),
		EntryPrice: req.EntryPrice,
		StopLoss:   req.StopLoss,
		CreatedAt:  time.Now().UTC(),
		Result:     model.ResultPending,
	}
	for i, price := range req.Targets {
		sig.Targets = append(sig.Targets, model.Target{Level: i + 1, Price: price})
	}
	if req.ExpiresAt != "" {
		exp, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "expires_at must be RFC3339")
			return
		}
		sig.ExpiresAt = &exp
	}

	if err := classifier.Validate(sig); err != nil {
		var iv *classifier.InvariantViolationError
		if errors.As(err, &iv) {
			WriteError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.Store.Insert(sig); err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to store signal")
		return
	}
	WriteJSON(w, http.StatusCreated, sig)
}

func (s *Server) HandleListSignals(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			WriteError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	signals, err := s.Store.List(limit)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to load signals")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"signals": signals})
}

func (s *Server) HandleGetSignal(w http.ResponseWriter, r *http.Request) {
	sig, err := s.Store.Get(chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "signal not found")
		return
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to load signal")
		return
	}
	WriteJSON(w, http.StatusOK, sig)
}

func (s *Server) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	signals, err := s.Store.List(0)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to load signals")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"summary":   stats.Summarize(signals),
		"by_symbol": stats.BySymbol(signals),
	})
}

func (s *Server) HandleGetBankroll(w http.ResponseWriter, r *http.Request) {
	if s.Bank == nil {
		WriteError(w, http.StatusNotFound, "bankroll tracking disabled")
		return
	}
	WriteJSON(w, http.StatusOK, s.Bank.State())
}

// HandleOverUnder answers a raw lambda/line query against the totals table.
func (s *Server) HandleOverUnder(w http.ResponseWriter, r *http.Request) {
	lambda, err := strconv.ParseFloat(r.URL.Query().Get("lambda"), 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "lambda must be a number")
		return
	}
	line := 2.5
	if v := r.URL.Query().Get("line"); v != "" {
		line, err = strconv.ParseFloat(v, 64)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "line must be a number")
			return
		}
	}
	market := r.URL.Query().Get("market")
	if market == "" {
		market = "goals"
	}
	WriteJSON(w, http.StatusOK, s.Odds.OverUnder(market, lambda, line))
}

// HandleFixture fetches both teams' averages and runs every market's rule
// table.
func (s *Server) HandleFixture(w http.ResponseWriter, r *http.Request) {
	if s.Stats == nil {
		WriteError(w, http.StatusNotFound, "sports feed not configured")
		return
	}
	home := r.URL.Query().Get("home")
	away := r.URL.Query().Get("away")
	if home == "" || away == "" {
		WriteError(w, http.StatusBadRequest, "home and away are required")
		return
	}

	homeStats, err := s.Stats.FetchTeamStats(r.Context(), home)
	if err != nil {
		WriteError(w, http.StatusBadGateway, "failed to fetch home team stats")
		return
	}
	awayStats, err := s.Stats.FetchTeamStats(r.Context(), away)
	if err != nil {
		WriteError(w, http.StatusBadGateway, "failed to fetch away team stats")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"home":   homeStats,
		"away":   awayStats,
		"advice": s.Odds.Evaluate(homeStats, awayStats),
	})
}
