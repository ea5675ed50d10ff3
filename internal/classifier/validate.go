package classifier

import (
	"fmt"

	"SignalSentinel/internal/model"
)

// Validate checks that a signal carries every field classification needs
// and that its price levels are ordered consistently with its direction.
// Ordering violations are a data error, never silently corrected.
func Validate(sig *model.Signal) error {
	if sig.EntryPrice <= 0 {
		return &MissingDataError{Field: "entry_price"}
	}
	if sig.StopLoss <= 0 {
		return &MissingDataError{Field: "stop_loss"}
	}
	if len(sig.Targets) == 0 {
		return &MissingDataError{Field: "targets"}
	}
	if !sig.Direction.Valid() {
		return &MissingDataError{Field: "direction"}
	}

	if sig.Direction == model.Long && sig.StopLoss >= sig.EntryPrice {
		return &InvariantViolationError{
			Reason: fmt.Sprintf("LONG stop loss %.8g not below entry %.8g", sig.StopLoss, sig.EntryPrice),
		}
	}
	if sig.Direction == model.Short && sig.StopLoss <= sig.EntryPrice {
		return &InvariantViolationError{
			Reason: fmt.Sprintf("SHORT stop loss %.8g not above entry %.8g", sig.StopLoss, sig.EntryPrice),
		}
	}

	prevLevel := 0
	prevPrice := sig.EntryPrice
	for _, t := range sig.Targets {
		if t.Level <= prevLevel {
			return &InvariantViolationError{
				Reason: fmt.Sprintf("target levels not strictly ascending at level %d", t.Level),
			}
		}
		if sig.Direction == model.Long && t.Price <= prevPrice {
			return &InvariantViolationError{
				Reason: fmt.Sprintf("LONG target %d price %.8g not above %.8g", t.Level, t.Price, prevPrice),
			}
		}
		if sig.Direction == model.Short && t.Price >= prevPrice {
			return &InvariantViolationError{
				Reason: fmt.Sprintf("SHORT target %d price %.8g not below %.8g", t.Level, t.Price, prevPrice),
			}
		}
		prevLevel = t.Level
		prevPrice = t.Price
	}

	return nil
}
