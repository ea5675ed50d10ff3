package store

import (
	"sort"
	"sync"

	"SignalSentinel/internal/model"
)

// MemoryStore keeps signals in process memory. Used in tests and when no
// SQLite path is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	signals map[string]*model.Signal
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{signals: make(map[string]*model.Signal)}
}

func (m *MemoryStore) Insert(sig *model.Signal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signals[sig.ID] = cloneSignal(sig)
	return nil
}

func (m *MemoryStore) Get(id string) (*model.Signal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sig, ok := m.signals[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneSignal(sig), nil
}

func (m *MemoryStore) List(limit int) ([]*model.Signal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Signal, 0, len(m.signals))
	for _, sig := range m.signals {
		out = append(out, cloneSignal(sig))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) Pending() ([]*model.Signal, error) {
	all, err := m.List(0)
	if err != nil {
		return nil, err
	}
	pending := all[:0]
	for _, sig := range all {
		if !sig.Result.Terminal() {
			pending = append(pending, sig)
		}
	}
	return pending, nil
}

func (m *MemoryStore) SaveOutcome(sig *model.Signal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.signals[sig.ID]; !ok {
		return ErrNotFound
	}
	m.signals[sig.ID] = cloneSignal(sig)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// cloneSignal deep-copies so callers can't reach shared state.
func cloneSignal(sig *model.Signal) *model.Signal {
	cp := *sig
	cp.Targets = append([]model.Target(nil), sig.Targets...)
	if sig.Profit != nil {
		v := *sig.Profit
		cp.Profit = &v
	}
	if sig.ExpiresAt != nil {
		v := *sig.ExpiresAt
		cp.ExpiresAt = &v
	}
	if sig.VerifiedAt != nil {
		v := *sig.VerifiedAt
		cp.VerifiedAt = &v
	}
	if sig.CompletedAt != nil {
		v := *sig.CompletedAt
		cp.CompletedAt = &v
	}
	return &cp
}
