package model

import (
	"time"
)

// Direction indicates which way a signal expects the price to move.
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

// Valid reports whether the direction is one of the two known values.
func (d Direction) Valid() bool {
	return d == Long || d == Short
}

// Result is the canonical classification of a signal. Legacy string forms
// ("win"/"loss", 0/1) are translated at the presentation edge only.
type Result string

const (
	ResultPending Result = "PENDING"
	ResultWinner  Result = "WINNER"
	ResultPartial Result = "PARTIAL"
	ResultLoser   Result = "LOSER"
	ResultFalse   Result = "FALSE"
)

// Terminal reports whether the result is a final classification.
func (r Result) Terminal() bool {
	switch r {
	case ResultWinner, ResultPartial, ResultLoser, ResultFalse:
		return true
	}
	return false
}

// Target is one rung of a signal's take-profit ladder.
type Target struct {
	Level int     `json:"level"`
	Price float64 `json:"price"`
	Hit   bool    `json:"hit"`
}

// Signal is the unit being evaluated: an entry, a stop, and a ladder of
// take-profit targets in the profitable direction.
type Signal struct {
	ID         string    `json:"id"`
	Symbol     string    `json:"symbol"`
	Direction  Direction `json:"direction"`
	EntryPrice float64   `json:"entry_price"`
	StopLoss   float64   `json:"stop_loss"`
	Targets    []Target  `json:"targets"`
	CreatedAt  time.Time `json:"created_at"`
	// ExpiresAt closes the observation window. A nil expiry means the
	// signal can never become FALSE by the passage of time alone.
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Result      Result     `json:"result"`
	Profit      *float64   `json:"profit,omitempty"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Classified reports whether the signal has already been through a
// terminal classification. Once true the signal must never be mutated.
func (s *Signal) Classified() bool {
	return s.VerifiedAt != nil
}

// FinalTarget returns the highest-level target, or nil if there are none.
func (s *Signal) FinalTarget() *Target {
	if len(s.Targets) == 0 {
		return nil
	}
	return &s.Targets[len(s.Targets)-1]
}

// HighestHit returns the highest-level target marked hit, or nil.
func (s *Signal) HighestHit() *Target {
	for i := len(s.Targets) - 1; i >= 0; i-- {
		if s.Targets[i].Hit {
			return &s.Targets[i]
		}
	}
	return nil
}
