// Package diagnostics is an optional, sqlite-backed counter sink the
// control plane can flush periodically: underrun counts, decoder-error
// counts and the last reported position per streaming sound. It reads
// nothing back into the engine.
package diagnostics

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const createTables = `
CREATE TABLE IF NOT EXISTS sound_stats (
	sound_id      TEXT PRIMARY KEY,
	underruns     INTEGER NOT NULL DEFAULT 0,
	decode_errors INTEGER NOT NULL DEFAULT 0,
	position_secs REAL NOT NULL DEFAULT 0,
	updated_at    TIMESTAMP NOT NULL
);
`

// Sink records per-sound counters into a local sqlite database. It is
// safe to share across goroutines that each own a distinct soundID.
type Sink struct {
	db    *sql.DB
	debug bool
}

// Open creates (or reuses) the sqlite database at dbPath and ensures its
// schema exists.
func Open(dbPath string, debug bool) (*Sink, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("diagnostics: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("diagnostics: open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createTables); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("diagnostics: create schema: %w", err)
	}

	return &Sink{db: db, debug: debug}, nil
}

// Snapshot is one flush's worth of counters for a single streaming sound.
type Snapshot struct {
	SoundID      string
	Underruns    int64
	DecodeErrors int64
	PositionSecs float64
}

// Flush upserts a snapshot. Callers typically call this from a
// control-plane goroutine on a timer, never from the audio thread.
func (s *Sink) Flush(snap Snapshot) error {
	_, err := s.db.Exec(`
		INSERT INTO sound_stats (sound_id, underruns, decode_errors, position_secs, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(sound_id) DO UPDATE SET
			underruns = excluded.underruns,
			decode_errors = excluded.decode_errors,
			position_secs = excluded.position_secs,
			updated_at = excluded.updated_at
	`, snap.SoundID, snap.Underruns, snap.DecodeErrors, snap.PositionSecs, time.Now())
	if err != nil {
		if s.debug {
			log.Printf("[DIAGNOSTICS] flush failed for %s: %v", snap.SoundID, err)
		}
		return fmt.Errorf("diagnostics: flush %s: %w", snap.SoundID, err)
	}
	return nil
}

// Read returns the last flushed counters for soundID, or ok=false if
// nothing has been flushed yet.
func (s *Sink) Read(soundID string) (Snapshot, bool, error) {
	row := s.db.QueryRow(`
		SELECT sound_id, underruns, decode_errors, position_secs
		FROM sound_stats WHERE sound_id = ?
	`, soundID)

	var snap Snapshot
	if err := row.Scan(&snap.SoundID, &snap.Underruns, &snap.DecodeErrors, &snap.PositionSecs); err != nil {
		if err == sql.ErrNoRows {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("diagnostics: read %s: %w", soundID, err)
	}
	return snap, true, nil
}

// Close releases the underlying database handle.
func (s *Sink) Close() error {
	return s.db.Close()
}
