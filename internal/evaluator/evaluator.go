package evaluator

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"SignalSentinel/internal/bankroll"
	"SignalSentinel/internal/classifier"
	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/pricefeed"
	"SignalSentinel/internal/store"
)

// Notifier is the outbound alert capability the evaluator needs.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Formatter renders outcomes and pass summaries for the notifier.
type Formatter interface {
	FormatOutcome(sig *model.Signal, out model.Outcome, stake, pnl float64) string
	FormatPassSummary(sum PassSummary) string
}

// ItemResult is the per-signal outcome of one evaluation pass.
type ItemResult struct {
	SignalID string
	Symbol   string
	Result   model.Result
	Err      error
}

// PassSummary aggregates one evaluation pass. One signal's failure never
// aborts the pass; it is collected here instead.
type PassSummary struct {
	Started    time.Time
	Duration   time.Duration
	Eligible   int
	Classified int
	Pending    int
	Skipped    int
	Failed     int
	Items      []ItemResult
}

// Service runs evaluation passes over pending signals.
type Service struct {
	store          store.Store
	feed           pricefeed.Fetcher
	bank           *bankroll.Manager
	notifier       Notifier
	formatter      Formatter
	opts           classifier.Options
	maxConcurrency int
	now            func() time.Time
}

func NewService(st store.Store, feed pricefeed.Fetcher, bank *bankroll.Manager, n Notifier, f Formatter, gracePeriod time.Duration, maxConcurrency int) *Service {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	if gracePeriod <= 0 {
		gracePeriod = classifier.DefaultGracePeriod
	}
	return &Service{
		store:          st,
		feed:           feed,
		bank:           bank,
		notifier:       n,
		formatter:      f,
		opts:           classifier.Options{GracePeriod: gracePeriod},
		maxConcurrency: maxConcurrency,
		now:            time.Now,
	}
}

// RunPass evaluates every pending signal, each independently: signals share
// no mutable state, so a bounded parallel map is all the coordination
// needed. The bound keeps lookups inside the provider's rate limits.
func (s *Service) RunPass(ctx context.Context) (PassSummary, error) {
	started := s.now()
	sum := PassSummary{Started: started}

	pending, err := s.store.Pending()
	if err != nil {
		return sum, err
	}
	sum.Eligible = len(pending)
	if len(pending) == 0 {
		return sum, nil
	}

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		gate  = make(chan struct{}, s.maxConcurrency)
		items = make([]ItemResult, 0, len(pending))
	)
	for _, sig := range pending {
		sig := sig
		wg.Add(1)
		gate <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-gate }()
			item := s.evaluateOne(ctx, sig)
			mu.Lock()
			items = append(items, item)
			mu.Unlock()
		}()
	}
	wg.Wait()

	for _, item := range items {
		switch {
		case item.Err == nil && item.Result.Terminal():
			sum.Classified++
		case item.Err == nil:
			sum.Pending++
		case item.Err == classifier.ErrNotEligible || item.Err == classifier.ErrAlreadyClassified:
			sum.Skipped++
		default:
			sum.Failed++
		}
	}
	sum.Items = items
	sum.Duration = s.now().Sub(started)
	metrics.PassDuration.Observe(sum.Duration.Seconds())

	log.Info().
		Int("eligible", sum.Eligible).
		Int("classified", sum.Classified).
		Int("pending", sum.Pending).
		Int("skipped", sum.Skipped).
		Int("failed", sum.Failed).
		Dur("duration", sum.Duration).
		Msg("evaluation pass complete")

	if sum.Classified > 0 && s.notifier != nil && s.formatter != nil {
		if err := s.notifier.SendWithRetry(ctx, s.formatter.FormatPassSummary(sum), 3); err != nil {
			log.Error().Err(err).Msg("send pass summary")
		}
	}
	return sum, nil
}

func (s *Service) evaluateOne(ctx context.Context, sig *model.Signal) ItemResult {
	item := ItemResult{SignalID: sig.ID, Symbol: sig.Symbol, Result: sig.Result}
	now := s.now()

	// Eligibility is checked before spending a provider lookup.
	if sig.Classified() {
		item.Err = classifier.ErrAlreadyClassified
		return item
	}
	if now.Sub(sig.CreatedAt) < s.opts.GracePeriod {
		item.Err = classifier.ErrNotEligible
		log.Debug().Str("signal", sig.ID).Msg("signal inside grace period")
		return item
	}

	series, err := s.fetchSeries(ctx, sig, now)
	if err != nil {
		// Retried on a future pass; never treated as a FALSE outcome.
		metrics.LookupFailures.Inc()
		item.Err = &classifier.DataUnavailableError{Cause: err}
		log.Warn().Err(err).Str("signal", sig.ID).Str("symbol", sig.Symbol).
			Msg("price lookup failed, will retry next pass")
		return item
	}

	out, err := classifier.Classify(sig, series, now, s.opts)
	if err != nil {
		item.Err = err
		switch err {
		case classifier.ErrNotEligible:
			log.Debug().Str("signal", sig.ID).Msg("signal inside grace period")
		case classifier.ErrAlreadyClassified:
			log.Debug().Str("signal", sig.ID).Msg("signal already classified, skipping")
		default:
			log.Error().Err(err).Str("signal", sig.ID).Msg("classification failed")
		}
		return item
	}

	item.Result = out.Result
	if !out.Decisive() {
		return item
	}

	if err := classifier.Apply(sig, out, now); err != nil {
		item.Err = err
		return item
	}
	if err := s.store.SaveOutcome(sig); err != nil {
		item.Err = err
		log.Error().Err(err).Str("signal", sig.ID).Msg("persist outcome")
		return item
	}
	metrics.SignalsEvaluated.WithLabelValues(string(out.Result)).Inc()

	var stake, pnl float64
	profit := 0.0
	if out.Profit != nil {
		profit = *out.Profit
	}
	if s.bank != nil {
		stake, pnl = s.bank.Settle(out.Result, profit)
	}

	log.Info().
		Str("signal", sig.ID).
		Str("symbol", sig.Symbol).
		Str("result", string(out.Result)).
		Float64("profit_pct", profit).
		Bool("coarse", out.Coarse).
		Msg("signal classified")

	if s.notifier != nil && s.formatter != nil {
		if err := s.notifier.SendWithRetry(ctx, s.formatter.FormatOutcome(sig, out, stake, pnl), 3); err != nil {
			log.Error().Err(err).Str("signal", sig.ID).Msg("send outcome notification")
		}
	}
	return item
}

// fetchSeries prefers a full series since signal creation; if the provider
// cannot supply one it degrades to a single current price, which yields a
// coarse classification.
func (s *Service) fetchSeries(ctx context.Context, sig *model.Signal, now time.Time) (*model.PriceSeries, error) {
	series, err := s.feed.FetchSeries(ctx, sig.Symbol, sig.CreatedAt, now)
	if err == nil && series.Len() > 0 {
		return series, nil
	}
	if err != nil {
		log.Warn().Err(err).Str("symbol", sig.Symbol).Msg("series lookup failed, falling back to current price")
	}

	px, perr := s.feed.FetchCurrentPrice(ctx, sig.Symbol)
	if perr != nil {
		if err != nil {
			return nil, err
		}
		return nil, perr
	}
	return &model.PriceSeries{
		Symbol:    sig.Symbol,
		Points:    []model.PricePoint{{Time: now, Price: px}},
		FetchedAt: now,
	}, nil
}
