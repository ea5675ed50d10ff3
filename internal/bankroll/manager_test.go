package bankroll

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/model"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "bankroll.json"), 10000, 2)
	require.NoError(t, err)
	return m
}

func TestSettle_WinnerGrowsBalance(t *testing.T) {
	m := newTestManager(t)
	stake, pnl := m.Settle(model.ResultWinner, 10)

	assert.InDelta(t, 200, stake, 1e-9) // 2% of 10000
	assert.InDelta(t, 20, pnl, 1e-9)

	state := m.State()
	assert.InDelta(t, 10020, state.Balance, 1e-9)
	assert.Equal(t, 1, state.Wins)
	assert.InDelta(t, 10020, state.PeakBalance, 1e-9)
}

func TestSettle_LoserShrinksBalance(t *testing.T) {
	m := newTestManager(t)
	_, pnl := m.Settle(model.ResultLoser, -5)

	assert.InDelta(t, -10, pnl, 1e-9)
	state := m.State()
	assert.InDelta(t, 9990, state.Balance, 1e-9)
	assert.Equal(t, 1, state.Losses)
	assert.InDelta(t, 10000, state.PeakBalance, 1e-9)
	assert.InDelta(t, 0.001, state.Drawdown(), 1e-6)
}

func TestSettle_FalseVoidsStake(t *testing.T) {
	m := newTestManager(t)
	stake, pnl := m.Settle(model.ResultFalse, 0)

	assert.Zero(t, stake)
	assert.Zero(t, pnl)
	state := m.State()
	assert.InDelta(t, 10000, state.Balance, 1e-9)
	assert.Equal(t, 1, state.Missed)
	assert.Equal(t, 1, state.Settled())
}

func TestSettle_PendingIsIgnored(t *testing.T) {
	m := newTestManager(t)
	stake, pnl := m.Settle(model.ResultPending, 0)
	assert.Zero(t, stake)
	assert.Zero(t, pnl)
	state := m.State()
	assert.Equal(t, 0, state.Settled())
}

func TestManager_StatePersistsAcrossReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bankroll.json")
	m, err := NewManager(path, 10000, 2)
	require.NoError(t, err)
	m.Settle(model.ResultWinner, 10)

	reloaded, err := NewManager(path, 99999, 5)
	require.NoError(t, err)
	state := reloaded.State()
	// Existing state wins over constructor defaults.
	assert.InDelta(t, 10020, state.Balance, 1e-9)
	assert.InDelta(t, 2, state.StakePercent, 1e-9)
	assert.Equal(t, 1, state.Wins)
}

func TestSettle_BalanceNeverNegative(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "b.json"), 100, 100)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		m.Settle(model.ResultLoser, -100)
	}
	assert.GreaterOrEqual(t, m.State().Balance, 0.0)
}
