package model

import "time"

// PricePoint is a single observed price.
type PricePoint struct {
	Time  time.Time
	Price float64
}

// PriceSeries holds time-ordered price observations for one symbol.
type PriceSeries struct {
	Symbol    string
	Points    []PricePoint
	FetchedAt time.Time
}

// Len returns the number of observations.
func (p *PriceSeries) Len() int { return len(p.Points) }

// Last returns the most recent observation. Callers must check Len first.
func (p *PriceSeries) Last() PricePoint { return p.Points[len(p.Points)-1] }
