package odds

import (
	"fmt"

	"SignalSentinel/internal/model"
)

// Engine turns two teams' per-match averages into betting advice.
type Engine struct {
	GoalsLine   float64
	CornersLine float64
}

// NewEngine returns an engine with the standard 2.5 goals / 9.5 corners lines.
func NewEngine() *Engine {
	return &Engine{GoalsLine: 2.5, CornersLine: 9.5}
}

// matchRule is one row of the 1X2 decision table. Rules are evaluated in
// order and the first applicable one wins, which keeps the heuristics
// auditable: the whole policy is this table, not a tree of conditionals.
type matchRule struct {
	Advice  string
	Applies func(home, away model.TeamStats) (probability float64, ok bool)
}

var matchRules = []matchRule{
	{"Back Home", func(h, a model.TeamStats) (float64, bool) {
		return h.WinPercent / 100, h.WinPercent > 65
	}},
	{"Back Away", func(h, a model.TeamStats) (float64, bool) {
		return a.WinPercent / 100, a.WinPercent > 65
	}},
	{"Back Draw", func(h, a model.TeamStats) (float64, bool) {
		p := (h.DrawPercent + a.DrawPercent) / 2
		return p / 100, p > 35
	}},
	{"No Bet", func(h, a model.TeamStats) (float64, bool) {
		return 0, true
	}},
}

// totalsRule is one row of the over/under decision table, keyed on the
// Poisson tail probability for the configured line.
type totalsRule struct {
	Advice  string // format with the line, e.g. "Over %.1f"
	Applies func(pOver float64) (probability float64, ok bool)
}

var totalsRules = []totalsRule{
	{"Over %.1f", func(p float64) (float64, bool) { return p, p > 0.60 }},
	{"Under %.1f", func(p float64) (float64, bool) { return 1 - p, p < 0.40 }},
	{"No Bet", func(p float64) (float64, bool) {
		if p >= 0.5 {
			return p, true
		}
		return 1 - p, true
	}},
}

// Evaluate runs every market's rule table for a fixture.
func (e *Engine) Evaluate(home, away model.TeamStats) []model.OddsAdvice {
	return []model.OddsAdvice{
		e.matchAdvice(home, away),
		e.totalsAdvice("goals", home.AvgGoals+away.AvgGoals, e.GoalsLine),
		e.totalsAdvice("corners", home.AvgCorners+away.AvgCorners, e.CornersLine),
	}
}

// OverUnder exposes the totals table for a raw lambda/line pair.
func (e *Engine) OverUnder(market string, lambda, line float64) model.OddsAdvice {
	return e.totalsAdvice(market, lambda, line)
}

func (e *Engine) matchAdvice(home, away model.TeamStats) model.OddsAdvice {
	for _, r := range matchRules {
		if p, ok := r.Applies(home, away); ok {
			return model.OddsAdvice{Market: "match", Advice: r.Advice, Probability: p}
		}
	}
	// The last rule always applies; unreachable.
	return model.OddsAdvice{Market: "match", Advice: "No Bet"}
}

func (e *Engine) totalsAdvice(market string, lambda, line float64) model.OddsAdvice {
	pOver := ProbabilityOverLine(lambda, line)
	for _, r := range totalsRules {
		if p, ok := r.Applies(pOver); ok {
			advice := r.Advice
			if advice != "No Bet" {
				advice = fmt.Sprintf(r.Advice, line)
			}
			return model.OddsAdvice{Market: market, Advice: advice, Probability: p}
		}
	}
	return model.OddsAdvice{Market: market, Advice: "No Bet"}
}
