package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "signals.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSignal(id string, createdAt time.Time) *model.Signal {
	return &model.Signal{
		ID:         id,
		Symbol:     "BTCUSDT",
		Direction:  model.Long,
		EntryPrice: 100,
		StopLoss:   95,
		Targets: []model.Target{
			{Level: 1, Price: 103},
			{Level: 2, Price: 106},
		},
		CreatedAt: createdAt,
		Result:    model.ResultPending,
	}
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	created := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.Insert(sampleSignal("sig-1", created)))

	got, err := s.Get("sig-1")
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", got.Symbol)
	assert.Equal(t, model.Long, got.Direction)
	assert.Equal(t, model.ResultPending, got.Result)
	assert.Equal(t, created, got.CreatedAt)
	require.Len(t, got.Targets, 2)
	assert.Equal(t, 106.0, got.Targets[1].Price)
	assert.Nil(t, got.Profit)
	assert.Nil(t, got.VerifiedAt)
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get("nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_SaveOutcome(t *testing.T) {
	s := newTestStore(t)
	sig := sampleSignal("sig-1", time.Now().UTC().Truncate(time.Second))
	require.NoError(t, s.Insert(sig))

	profit := 6.0
	now := time.Now().UTC().Truncate(time.Second)
	sig.Result = model.ResultPartial
	sig.Profit = &profit
	sig.VerifiedAt = &now
	sig.CompletedAt = &now
	sig.Targets[0].Hit = true
	require.NoError(t, s.SaveOutcome(sig))

	got, err := s.Get("sig-1")
	require.NoError(t, err)
	assert.Equal(t, model.ResultPartial, got.Result)
	require.NotNil(t, got.Profit)
	assert.Equal(t, 6.0, *got.Profit)
	require.NotNil(t, got.VerifiedAt)
	assert.True(t, got.Targets[0].Hit)
	assert.False(t, got.Targets[1].Hit)
}

func TestSQLiteStore_SaveOutcomeMissing(t *testing.T) {
	s := newTestStore(t)
	sig := sampleSignal("ghost", time.Now())
	require.ErrorIs(t, s.SaveOutcome(sig), ErrNotFound)
}

func TestSQLiteStore_PendingExcludesTerminal(t *testing.T) {
	s := newTestStore(t)
	base := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.Insert(sampleSignal("a", base.Add(-2*time.Hour))))
	require.NoError(t, s.Insert(sampleSignal("b", base.Add(-time.Hour))))

	done := sampleSignal("c", base)
	profit := -5.0
	done.Result = model.ResultLoser
	done.Profit = &profit
	done.VerifiedAt = &base
	done.CompletedAt = &base
	require.NoError(t, s.Insert(done))

	pending, err := s.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 2)
	// Oldest first so retries are fair.
	assert.Equal(t, "a", pending[0].ID)
	assert.Equal(t, "b", pending[1].ID)
}

func TestSQLiteStore_ListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	base := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.Insert(sampleSignal("old", base.Add(-time.Hour))))
	require.NoError(t, s.Insert(sampleSignal("new", base)))

	all, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "new", all[0].ID)

	one, err := s.List(1)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "new", one[0].ID)
}

func TestMemoryStore_MatchesInterface(t *testing.T) {
	var s Store = NewMemoryStore()
	sig := sampleSignal("m-1", time.Now())
	require.NoError(t, s.Insert(sig))

	got, err := s.Get("m-1")
	require.NoError(t, err)

	// Mutating the returned copy must not leak back into the store.
	got.Targets[0].Hit = true
	again, err := s.Get("m-1")
	require.NoError(t, err)
	assert.False(t, again.Targets[0].Hit)

	pending, err := s.Pending()
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
