package classifier

import (
	"errors"
	"time"

	"SignalSentinel/internal/model"
)

// DefaultGracePeriod is how long a signal must age before evaluation.
// Younger signals have no meaningful price sample yet.
const DefaultGracePeriod = 15 * time.Minute

// Options tunes classification behavior.
type Options struct {
	GracePeriod time.Duration
}

func (o Options) gracePeriod() time.Duration {
	if o.GracePeriod <= 0 {
		return DefaultGracePeriod
	}
	return o.GracePeriod
}

// Classify walks the price series in chronological order and decides the
// signal's outcome. The first decisive event wins: a stop breach before
// any target hit closes the position as LOSER no matter what the price
// does afterwards. Target hits are sticky within the evaluation.
//
// The signal itself is not mutated; use Apply to write a decisive outcome
// back onto the record.
func Classify(sig *model.Signal, series *model.PriceSeries, now time.Time, opts Options) (model.Outcome, error) {
	if sig.Classified() {
		return model.Outcome{}, ErrAlreadyClassified
	}
	if err := Validate(sig); err != nil {
		return model.Outcome{}, err
	}
	if now.Sub(sig.CreatedAt) < opts.gracePeriod() {
		return model.Outcome{}, ErrNotEligible
	}
	if series == nil || series.Len() == 0 {
		return model.Outcome{}, &DataUnavailableError{Cause: errors.New("empty price series")}
	}

	if series.Len() == 1 {
		return classifySnapshot(sig, series.Points[0].Price, now)
	}
	return classifySeries(sig, series, now)
}

func classifySeries(sig *model.Signal, series *model.PriceSeries, now time.Time) (model.Outcome, error) {
	stopIdx := -1
	firstHit := make(map[int]int, len(sig.Targets)) // target level -> first index crossed

	for i, pt := range series.Points {
		if stopIdx < 0 && stopBreached(sig, pt.Price) {
			stopIdx = i
		}
		for _, t := range sig.Targets {
			if _, ok := firstHit[t.Level]; ok {
				continue // sticky: once hit, stays hit
			}
			if targetReached(sig, t.Price, pt.Price) {
				firstHit[t.Level] = i
			}
		}
	}

	// A hit only counts if the position was still open, i.e. it happened
	// strictly before the stop breach.
	var hitLevels []int
	for _, t := range sig.Targets {
		idx, ok := firstHit[t.Level]
		if !ok {
			continue
		}
		if stopIdx >= 0 && idx >= stopIdx {
			continue
		}
		hitLevels = append(hitLevels, t.Level)
	}

	switch {
	case len(hitLevels) == 0 && stopIdx >= 0:
		return finishOutcome(sig, model.ResultLoser, nil, false)
	case len(hitLevels) > 0:
		result := model.ResultPartial
		if final := sig.FinalTarget(); final != nil && containsLevel(hitLevels, final.Level) {
			result = model.ResultWinner
		}
		return finishOutcome(sig, result, hitLevels, false)
	case windowClosed(sig, now):
		return model.Outcome{Result: model.ResultFalse}, nil
	default:
		return model.Outcome{Result: model.ResultPending}, nil
	}
}

// classifySnapshot is the coarse one-shot path for a single current price.
// Precedence cannot be established from one sample (a stop breached and
// recovered is invisible), so the outcome is flagged Coarse and callers
// should treat it as lower confidence.
func classifySnapshot(sig *model.Signal, price float64, now time.Time) (model.Outcome, error) {
	if stopBreached(sig, price) {
		out, err := finishOutcome(sig, model.ResultLoser, nil, true)
		return out, err
	}

	var hitLevels []int
	for _, t := range sig.Targets {
		if targetReached(sig, t.Price, price) {
			hitLevels = append(hitLevels, t.Level)
		}
	}

	switch {
	case len(hitLevels) > 0:
		result := model.ResultPartial
		if final := sig.FinalTarget(); final != nil && containsLevel(hitLevels, final.Level) {
			result = model.ResultWinner
		}
		return finishOutcome(sig, result, hitLevels, true)
	case windowClosed(sig, now):
		return model.Outcome{Result: model.ResultFalse, Coarse: true}, nil
	default:
		return model.Outcome{Result: model.ResultPending, Coarse: true}, nil
	}
}

func finishOutcome(sig *model.Signal, result model.Result, hitLevels []int, coarse bool) (model.Outcome, error) {
	profit, err := Profit(sig, result, hitLevels)
	if err != nil {
		return model.Outcome{}, err
	}
	return model.Outcome{
		Result:    result,
		HitLevels: hitLevels,
		Profit:    &profit,
		Coarse:    coarse,
	}, nil
}

// Apply writes a decisive outcome back onto the signal exactly once.
// Non-decisive outcomes (PENDING) leave the record untouched. Calling
// Apply on an already-classified signal is a no-op error so callers can
// distinguish it in logs.
func Apply(sig *model.Signal, out model.Outcome, now time.Time) error {
	if sig.Classified() {
		return ErrAlreadyClassified
	}
	if !out.Decisive() {
		return nil
	}

	sig.Result = out.Result
	sig.Profit = out.Profit
	ts := now
	sig.VerifiedAt = &ts
	sig.CompletedAt = &ts
	for i := range sig.Targets {
		sig.Targets[i].Hit = containsLevel(out.HitLevels, sig.Targets[i].Level)
	}
	return nil
}

// windowClosed reports whether the signal's observation window has
// definitively ended. FALSE is reserved for exactly this case; time
// passing without an expiry never produces FALSE.
func windowClosed(sig *model.Signal, now time.Time) bool {
	return sig.ExpiresAt != nil && !now.Before(*sig.ExpiresAt)
}

func stopBreached(sig *model.Signal, price float64) bool {
	if sig.Direction == model.Long {
		return price <= sig.StopLoss
	}
	return price >= sig.StopLoss
}

func targetReached(sig *model.Signal, target, price float64) bool {
	if sig.Direction == model.Long {
		return price >= target
	}
	return price <= target
}

func containsLevel(levels []int, level int) bool {
	for _, l := range levels {
		if l == level {
			return true
		}
	}
	return false
}
