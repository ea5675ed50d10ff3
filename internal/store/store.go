package store

import (
	"errors"

	"SignalSentinel/internal/model"
)

// ErrNotFound is returned when no signal exists for the given id.
var ErrNotFound = errors.New("signal not found")

// Store is the signal persistence capability. The classifier never talks
// to storage directly; the evaluator reads pending signals from here and
// writes classification results back.
type Store interface {
	Insert(sig *model.Signal) error
	Get(id string) (*model.Signal, error)
	// List returns signals newest first, up to limit (0 means no limit).
	List(limit int) ([]*model.Signal, error)
	// Pending returns every signal without a terminal classification.
	Pending() ([]*model.Signal, error)
	// SaveOutcome persists result, profit, timestamps and target hit
	// flags for a signal that Apply has just classified.
	SaveOutcome(sig *model.Signal) error
	Close() error
}
