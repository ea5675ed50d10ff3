package model

import "time"

// BankrollState tracks the paper bankroll across classified signals.
type BankrollState struct {
	InitialBalance float64   `json:"initial_balance"`
	Balance        float64   `json:"balance"`
	StakePercent   float64   `json:"stake_percent"`
	PeakBalance    float64   `json:"peak_balance"`
	Wins           int       `json:"wins"`
	Partials       int       `json:"partials"`
	Losses         int       `json:"losses"`
	Missed         int       `json:"missed"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Settled returns how many signals have been applied to the bankroll.
func (b *BankrollState) Settled() int {
	return b.Wins + b.Partials + b.Losses + b.Missed
}

// Drawdown returns the current drawdown from peak, as a fraction in [0,1].
func (b *BankrollState) Drawdown() float64 {
	if b.PeakBalance <= 0 {
		return 0
	}
	return (b.PeakBalance - b.Balance) / b.PeakBalance
}
