package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"SignalSentinel/internal/evaluator"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/stats"
)

// MessageFormatter renders classifier outcomes and summaries as Telegram
// HTML messages. Implements evaluator.CommandFormatter.
type MessageFormatter struct{}

var resultBadges = map[model.Result]string{
	model.ResultWinner:  "🏆 WINNER",
	model.ResultPartial: "🎯 PARTIAL",
	model.ResultLoser:   "🛑 LOSER",
	model.ResultFalse:   "⌛ MISSED",
	model.ResultPending: "⏳ PENDING",
}

// FormatOutcome renders a single classified signal.
func (MessageFormatter) FormatOutcome(sig *model.Signal, out model.Outcome, stake, pnl float64) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s | <b>%s</b> %s\n\n", resultBadges[out.Result], sig.Symbol, sig.Direction))
	b.WriteString(fmt.Sprintf("Entry: %.6g | Stop: %.6g\n", sig.EntryPrice, sig.StopLoss))

	for _, t := range sig.Targets {
		mark := "✗"
		if t.Hit {
			mark = "✓"
		}
		b.WriteString(fmt.Sprintf("  TP%d %.6g %s\n", t.Level, t.Price, mark))
	}

	if out.Profit != nil {
		b.WriteString(fmt.Sprintf("\nProfit: %+.2f%%\n", *out.Profit))
	}
	if stake != 0 {
		b.WriteString(fmt.Sprintf("Stake: %s | PnL: %+.2f\n", humanize.CommafWithDigits(stake, 2), pnl))
	}
	if out.Coarse {
		b.WriteString("\n⚠️ Coarse classification (single price sample)\n")
	}
	b.WriteString(fmt.Sprintf("\nOpened %s", humanize.Time(sig.CreatedAt)))
	return b.String()
}

// FormatPassSummary renders the evaluation pass report.
func (MessageFormatter) FormatPassSummary(sum evaluator.PassSummary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📋 <b>Evaluation pass</b> | %s\n\n", sum.Started.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Eligible: %d\n", sum.Eligible))
	b.WriteString(fmt.Sprintf("Classified: %d\n", sum.Classified))
	b.WriteString(fmt.Sprintf("Still pending: %d\n", sum.Pending))
	if sum.Skipped > 0 {
		b.WriteString(fmt.Sprintf("Skipped: %d\n", sum.Skipped))
	}
	if sum.Failed > 0 {
		b.WriteString(fmt.Sprintf("Failed (will retry): %d\n", sum.Failed))
	}
	b.WriteString(fmt.Sprintf("\nTook %s", sum.Duration.Round(time.Millisecond)))
	return b.String()
}

// FormatPending lists signals awaiting classification.
func (MessageFormatter) FormatPending(signals []*model.Signal) string {
	if len(signals) == 0 {
		return "No pending signals."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("⏳ <b>%d pending signal(s)</b>\n\n", len(signals)))
	for _, sig := range signals {
		b.WriteString(fmt.Sprintf("• %s %s entry %.6g (opened %s)\n",
			sig.Symbol, sig.Direction, sig.EntryPrice, humanize.Time(sig.CreatedAt)))
	}
	return b.String()
}

// FormatStats renders the performance summary.
func (MessageFormatter) FormatStats(sum stats.Summary) string {
	var b strings.Builder
	b.WriteString("📈 <b>Performance</b>\n\n")
	b.WriteString(fmt.Sprintf("Signals: %d (pending %d)\n", sum.Total, sum.Pending))
	b.WriteString(fmt.Sprintf("W/P/L/missed: %d/%d/%d/%d\n", sum.Wins, sum.Partials, sum.Losses, sum.Missed))
	b.WriteString(fmt.Sprintf("Win rate: %.1f%%\n", sum.WinRate))
	b.WriteString(fmt.Sprintf("Avg profit: %+.2f%%\n", sum.AvgProfit))
	b.WriteString(fmt.Sprintf("Total profit: %+.2f%%\n", sum.TotalProfit))
	if sum.Wins+sum.Partials+sum.Losses > 0 {
		b.WriteString(fmt.Sprintf("Best/worst: %+.2f%% / %+.2f%%\n", sum.BestProfit, sum.WorstProfit))
	}
	return b.String()
}

// FormatBankroll renders the bankroll status.
func (MessageFormatter) FormatBankroll(state model.BankrollState) string {
	var b strings.Builder
	b.WriteString("💰 <b>Bankroll</b>\n\n")
	b.WriteString(fmt.Sprintf("Balance: %s (started %s)\n",
		humanize.CommafWithDigits(state.Balance, 2),
		humanize.CommafWithDigits(state.InitialBalance, 2)))
	b.WriteString(fmt.Sprintf("Stake per signal: %.1f%%\n", state.StakePercent))
	b.WriteString(fmt.Sprintf("Peak: %s | Drawdown: %.1f%%\n",
		humanize.CommafWithDigits(state.PeakBalance, 2), state.Drawdown()*100))
	b.WriteString(fmt.Sprintf("Settled: %d (W/P/L/missed %d/%d/%d/%d)\n",
		state.Settled(), state.Wins, state.Partials, state.Losses, state.Missed))
	if !state.UpdatedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Updated %s\n", humanize.Time(state.UpdatedAt)))
	}
	return b.String()
}
