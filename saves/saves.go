// Package saves persists session snapshots in named SQLite save slots.
package saves

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"hunter_ai/saves/migrations"
	"hunter_ai/session"
)

// ErrSlotNotFound means the slot holds no save.
var ErrSlotNotFound = errors.New("save slot not found")

// Slot describes a stored save without decoding it.
type Slot struct {
	Name       string
	HunterName string
	Rank       string
	Level      int
	SavedAt    time.Time
}

// Store is a SQLite save slot store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens the database at path, or an in-memory one for ":memory:", and
// applies the embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps an in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save writes st to slot, replacing any previous save there.
func (s *Store) Save(ctx context.Context, slot string, st session.State) error {
	slot = strings.TrimSpace(slot)
	if slot == "" {
		return fmt.Errorf("slot name is required")
	}
	if st.Hunter == nil {
		return session.ErrNoHunter
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode save: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO save_slots (slot, hunter_name, hunter_rank, hunter_level, state_json, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET
		   hunter_name = excluded.hunter_name,
		   hunter_rank = excluded.hunter_rank,
		   hunter_level = excluded.hunter_level,
		   state_json = excluded.state_json,
		   saved_at = excluded.saved_at`,
		slot, st.Hunter.Name, string(st.Hunter.Rank), st.Hunter.Level, string(data), s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save slot %s: %w", slot, err)
	}
	return nil
}

// Load reads the snapshot stored in slot.
func (s *Store) Load(ctx context.Context, slot string) (session.State, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT state_json FROM save_slots WHERE slot = ?`, strings.TrimSpace(slot)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return session.State{}, ErrSlotNotFound
	}
	if err != nil {
		return session.State{}, fmt.Errorf("load slot %s: %w", slot, err)
	}
	var st session.State
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return session.State{}, fmt.Errorf("decode slot %s: %w", slot, err)
	}
	return st, nil
}

// List returns every slot, most recently saved first.
func (s *Store) List(ctx context.Context) ([]Slot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT slot, hunter_name, hunter_rank, hunter_level, saved_at FROM save_slots ORDER BY saved_at DESC, slot`)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []Slot
	for rows.Next() {
		var sl Slot
		var savedAt int64
		if err := rows.Scan(&sl.Name, &sl.HunterName, &sl.Rank, &sl.Level, &savedAt); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		sl.SavedAt = time.UnixMilli(savedAt).UTC()
		slots = append(slots, sl)
	}
	return slots, rows.Err()
}

// Delete removes a slot. Deleting an empty slot is not an error.
func (s *Store) Delete(ctx context.Context, slot string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM save_slots WHERE slot = ?`, strings.TrimSpace(slot)); err != nil {
		return fmt.Errorf("delete slot %s: %w", slot, err)
	}
	return nil
}
