package bankroll

import (
	"sync"

	"github.com/rs/zerolog/log"

	"SignalSentinel/internal/model"
)

// Manager applies classified signal outcomes to a paper bankroll with a
// fixed stake percentage per signal. Concurrency safe; state survives
// restarts via a JSON file.
type Manager struct {
	mu       sync.Mutex
	state    *model.BankrollState
	filePath string
}

// NewManager creates a Manager, loading or initializing state from disk.
func NewManager(filePath string, initialBalance, stakePercent float64) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}

	if state.InitialBalance == 0 {
		state.InitialBalance = initialBalance
		state.Balance = initialBalance
		state.PeakBalance = initialBalance
		state.StakePercent = stakePercent
	}

	m := &Manager{state: state, filePath: filePath}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// State returns a copy of the current bankroll state.
func (m *Manager) State() model.BankrollState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.state
}

// Settle applies one classified signal. The stake is a fixed percentage
// of the current balance; profitPct is the signal's realized percentage.
// FALSE outcomes void the stake: counted, balance unchanged.
func (m *Manager) Settle(result model.Result, profitPct float64) (stake, pnl float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch result {
	case model.ResultWinner:
		m.state.Wins++
	case model.ResultPartial:
		m.state.Partials++
	case model.ResultLoser:
		m.state.Losses++
	case model.ResultFalse:
		m.state.Missed++
		m.saveLogged()
		return 0, 0
	default:
		return 0, 0
	}

	stake = m.state.Balance * m.state.StakePercent / 100
	pnl = stake * profitPct / 100
	m.state.Balance += pnl
	if m.state.Balance < 0 {
		m.state.Balance = 0
	}
	if m.state.Balance > m.state.PeakBalance {
		m.state.PeakBalance = m.state.Balance
	}

	m.saveLogged()
	return stake, pnl
}

func (m *Manager) saveLogged() {
	if err := m.save(); err != nil {
		log.Error().Err(err).Msg("failed to save bankroll state")
	}
}

func (m *Manager) save() error {
	return SaveState(m.filePath, m.state)
}
