package odds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/model"
)

func stats(team string, goals, corners, win, draw, loss float64) model.TeamStats {
	return model.TeamStats{
		Team: team, AvgGoals: goals, AvgCorners: corners,
		WinPercent: win, DrawPercent: draw, LossPercent: loss,
	}
}

func TestEvaluate_StrongHome(t *testing.T) {
	e := NewEngine()
	home := stats("Arsenal", 2.5, 6.0, 70, 20, 10)
	away := stats("Fulham", 1.5, 4.5, 25, 30, 45)

	advices := e.Evaluate(home, away)
	require.Len(t, advices, 3)

	match := advices[0]
	assert.Equal(t, "match", match.Market)
	assert.Equal(t, "Back Home", match.Advice)
	assert.InDelta(t, 0.70, match.Probability, 1e-9)

	// Combined lambda 4.0 clears the 2.5 line with P ≈ 0.762.
	goals := advices[1]
	assert.Equal(t, "goals", goals.Market)
	assert.Equal(t, "Over 2.5", goals.Advice)
	assert.InDelta(t, 0.762, goals.Probability, 0.005)
}

func TestEvaluate_NoBetFixture(t *testing.T) {
	e := NewEngine()
	home := stats("Getafe", 1.0, 4.0, 30, 30, 40)
	away := stats("Osasuna", 1.1, 4.2, 32, 28, 40)

	advices := e.Evaluate(home, away)
	assert.Equal(t, "No Bet", advices[0].Advice)
}

func TestMatchRules_Order(t *testing.T) {
	// Both sides over the threshold: home rule is earlier in the table.
	e := NewEngine()
	adv := e.matchAdvice(stats("A", 1, 1, 70, 10, 20), stats("B", 1, 1, 70, 10, 20))
	assert.Equal(t, "Back Home", adv.Advice)
}

func TestMatchRules_Draw(t *testing.T) {
	e := NewEngine()
	adv := e.matchAdvice(stats("A", 1, 1, 30, 40, 30), stats("B", 1, 1, 30, 40, 30))
	assert.Equal(t, "Back Draw", adv.Advice)
	assert.InDelta(t, 0.40, adv.Probability, 1e-9)
}

func TestOverUnder_Thresholds(t *testing.T) {
	e := NewEngine()

	over := e.OverUnder("goals", 4.5, 2.5)
	assert.Equal(t, "Over 2.5", over.Advice)
	assert.Greater(t, over.Probability, 0.60)

	under := e.OverUnder("goals", 1.0, 2.5)
	assert.Equal(t, "Under 2.5", under.Advice)
	assert.Greater(t, under.Probability, 0.60) // reported as P(under)

	mid := e.OverUnder("goals", 2.4, 2.5)
	assert.Equal(t, "No Bet", mid.Advice)
	assert.GreaterOrEqual(t, mid.Probability, 0.5)
}
