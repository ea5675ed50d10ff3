package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"SignalSentinel/internal/model"
)

// SQLiteStore persists signals to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the evaluator writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite store opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signals (
			id           TEXT PRIMARY KEY,
			symbol       TEXT NOT NULL,
			direction    TEXT NOT NULL,
			entry_price  REAL NOT NULL,
			stop_loss    REAL NOT NULL,
			created_at   INTEGER NOT NULL,
			expires_at   INTEGER,
			result       TEXT NOT NULL DEFAULT 'PENDING',
			profit       REAL,
			verified_at  INTEGER,
			completed_at INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_result ON signals(result)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_created ON signals(created_at)`,

		`CREATE TABLE IF NOT EXISTS targets (
			signal_id TEXT NOT NULL,
			level     INTEGER NOT NULL,
			price     REAL NOT NULL,
			hit       INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (signal_id, level)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) Insert(sig *model.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO signals
		(id, symbol, direction, entry_price, stop_loss, created_at, expires_at, result, profit, verified_at, completed_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		sig.ID, sig.Symbol, string(sig.Direction), sig.EntryPrice, sig.StopLoss,
		sig.CreatedAt.Unix(), unixOrNil(sig.ExpiresAt), string(sig.Result),
		sig.Profit, unixOrNil(sig.VerifiedAt), unixOrNil(sig.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("insert signal: %w", err)
	}

	for _, t := range sig.Targets {
		if _, err := tx.Exec(`INSERT INTO targets (signal_id, level, price, hit) VALUES (?,?,?,?)`,
			sig.ID, t.Level, t.Price, boolToInt(t.Hit)); err != nil {
			return fmt.Errorf("insert target %d: %w", t.Level, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Get(id string) (*model.Signal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(`SELECT id, symbol, direction, entry_price, stop_loss,
		created_at, expires_at, result, profit, verified_at, completed_at
		FROM signals WHERE id = ?`, id)
	sig, err := scanSignal(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadTargets(sig); err != nil {
		return nil, err
	}
	return sig, nil
}

func (s *SQLiteStore) List(limit int) ([]*model.Signal, error) {
	query := `SELECT id, symbol, direction, entry_price, stop_loss,
		created_at, expires_at, result, profit, verified_at, completed_at
		FROM signals ORDER BY created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.querySignals(query, args...)
}

func (s *SQLiteStore) Pending() ([]*model.Signal, error) {
	return s.querySignals(`SELECT id, symbol, direction, entry_price, stop_loss,
		created_at, expires_at, result, profit, verified_at, completed_at
		FROM signals WHERE result = 'PENDING' ORDER BY created_at ASC`)
}

func (s *SQLiteStore) SaveOutcome(sig *model.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE signals
		SET result = ?, profit = ?, verified_at = ?, completed_at = ?
		WHERE id = ?`,
		string(sig.Result), sig.Profit, unixOrNil(sig.VerifiedAt), unixOrNil(sig.CompletedAt), sig.ID)
	if err != nil {
		return fmt.Errorf("update signal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	for _, t := range sig.Targets {
		if _, err := tx.Exec(`UPDATE targets SET hit = ? WHERE signal_id = ? AND level = ?`,
			boolToInt(t.Hit), sig.ID, t.Level); err != nil {
			return fmt.Errorf("update target %d: %w", t.Level, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	log.Info().Msg("closing sqlite store")
	return s.db.Close()
}

func (s *SQLiteStore) querySignals(query string, args ...interface{}) ([]*model.Signal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Signal
	for rows.Next() {
		sig, err := scanSignal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sig)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, sig := range out {
		if err := s.loadTargets(sig); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *SQLiteStore) loadTargets(sig *model.Signal) error {
	rows, err := s.db.Query(`SELECT level, price, hit FROM targets WHERE signal_id = ? ORDER BY level ASC`, sig.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var t model.Target
		var hit int
		if err := rows.Scan(&t.Level, &t.Price, &hit); err != nil {
			return err
		}
		t.Hit = hit != 0
		sig.Targets = append(sig.Targets, t)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSignal(row rowScanner) (*model.Signal, error) {
	var (
		sig                            model.Signal
		direction, result              string
		createdAt                      int64
		expiresAt, verified, completed sql.NullInt64
		profit                         sql.NullFloat64
	)
	err := row.Scan(&sig.ID, &sig.Symbol, &direction, &sig.EntryPrice, &sig.StopLoss,
		&createdAt, &expiresAt, &result, &profit, &verified, &completed)
	if err != nil {
		return nil, err
	}
	sig.Direction = model.Direction(direction)
	sig.Result = model.Result(result)
	sig.CreatedAt = time.Unix(createdAt, 0).UTC()
	sig.ExpiresAt = timeOrNil(expiresAt)
	sig.VerifiedAt = timeOrNil(verified)
	sig.CompletedAt = timeOrNil(completed)
	if profit.Valid {
		v := profit.Float64
		sig.Profit = &v
	}
	return &sig, nil
}

func unixOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func timeOrNil(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
