package classifier

import (
	"fmt"

	"SignalSentinel/internal/model"
)

// Profit computes the realized percentage for a decisive result.
//
// LOSER settles at the stop; WINNER and PARTIAL settle at the highest hit
// target. PENDING and FALSE define no profit: "not computed" must stay
// distinguishable from "zero".
//
// The sign of the returned value must match the result's polarity; a
// mismatch means the signal's stop/target ordering is inverted and is
// surfaced as an InvariantViolationError rather than a nonsense number.
func Profit(sig *model.Signal, result model.Result, hitLevels []int) (float64, error) {
	switch result {
	case model.ResultLoser:
		pct := percentMove(sig.Direction, sig.EntryPrice, sig.StopLoss)
		if pct > 0 {
			return 0, &InvariantViolationError{
				Reason: fmt.Sprintf("LOSER profit %.4f%% positive for signal %s", pct, sig.ID),
			}
		}
		return pct, nil

	case model.ResultWinner, model.ResultPartial:
		settle, err := highestHitPrice(sig, hitLevels)
		if err != nil {
			return 0, err
		}
		pct := percentMove(sig.Direction, sig.EntryPrice, settle)
		if pct < 0 {
			return 0, &InvariantViolationError{
				Reason: fmt.Sprintf("%s profit %.4f%% negative for signal %s", result, pct, sig.ID),
			}
		}
		return pct, nil

	default:
		return 0, ErrProfitUndefined
	}
}

// percentMove returns the signed percentage gain of closing at exit.
// Short positions profit from the price falling, so the ratio inverts.
func percentMove(dir model.Direction, entry, exit float64) float64 {
	if dir == model.Short {
		return (entry/exit - 1) * 100
	}
	return (exit/entry - 1) * 100
}

func highestHitPrice(sig *model.Signal, hitLevels []int) (float64, error) {
	best := -1
	price := 0.0
	for _, t := range sig.Targets {
		if containsLevel(hitLevels, t.Level) && t.Level > best {
			best = t.Level
			price = t.Price
		}
	}
	if best < 0 {
		return 0, &MissingDataError{Field: "hit targets"}
	}
	return price, nil
}
