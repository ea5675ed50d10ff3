package stats

import (
	"SignalSentinel/internal/model"
)

// Summary aggregates classified signal history. Win rate counts WINNER and
// PARTIAL as wins over all decisive outcomes excluding FALSE, since a
// voided window is neither a win nor a loss.
type Summary struct {
	Total       int     `json:"total"`
	Pending     int     `json:"pending"`
	Wins        int     `json:"wins"`
	Partials    int     `json:"partials"`
	Losses      int     `json:"losses"`
	Missed      int     `json:"missed"`
	WinRate     float64 `json:"win_rate"`
	AvgProfit   float64 `json:"avg_profit"`
	TotalProfit float64 `json:"total_profit"`
	BestProfit  float64 `json:"best_profit"`
	WorstProfit float64 `json:"worst_profit"`
}

// Summarize computes aggregates over a signal history.
func Summarize(signals []*model.Signal) Summary {
	var s Summary
	s.Total = len(signals)

	profits := 0
	for _, sig := range signals {
		switch sig.Result {
		case model.ResultWinner:
			s.Wins++
		case model.ResultPartial:
			s.Partials++
		case model.ResultLoser:
			s.Losses++
		case model.ResultFalse:
			s.Missed++
		default:
			s.Pending++
			continue
		}

		if sig.Profit == nil {
			continue
		}
		p := *sig.Profit
		s.TotalProfit += p
		profits++
		if profits == 1 || p > s.BestProfit {
			s.BestProfit = p
		}
		if profits == 1 || p < s.WorstProfit {
			s.WorstProfit = p
		}
	}

	decided := s.Wins + s.Partials + s.Losses
	if decided > 0 {
		s.WinRate = float64(s.Wins+s.Partials) / float64(decided) * 100
	}
	if profits > 0 {
		s.AvgProfit = s.TotalProfit / float64(profits)
	}
	return s
}

// BySymbol computes a summary per symbol.
func BySymbol(signals []*model.Signal) map[string]Summary {
	grouped := make(map[string][]*model.Signal)
	for _, sig := range signals {
		grouped[sig.Symbol] = append(grouped[sig.Symbol], sig)
	}
	out := make(map[string]Summary, len(grouped))
	for symbol, group := range grouped {
		out[symbol] = Summarize(group)
	}
	return out
}
