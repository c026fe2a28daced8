// Package storage persists the app state as a single serialized record in a
// local sqlite database. Missing or corrupt data always degrades to the
// default state, never to an error.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	"studybuddy/internal/state"
)

// stateKey is the fixed row id the blob lives under.
const stateKey = 1

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	dsn := sqliteDSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS app_state (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	data TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`
	_, err := s.db.Exec(ddl)
	return err
}

// Load reads the saved state. An absent row returns defaults; unparseable
// data is logged and also returns defaults, so startup never fails on a
// bad blob.
func (s *Store) Load() state.State {
	var raw string
	err := s.db.QueryRow(`SELECT data FROM app_state WHERE id = ?;`, stateKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return state.Default()
	}
	if err != nil {
		log.Warn("failed to read saved state, using defaults", "err", err)
		return state.Default()
	}

	var loaded state.State
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		log.Warn("failed to parse saved state, using defaults", "err", err)
		return state.Default()
	}
	return Normalize(loaded)
}

// Save serializes the full state and upserts it under the fixed key.
func (s *Store) Save(st state.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(`INSERT INTO app_state (id, data, updated_at) VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at;`,
		stateKey, string(data), now)
	return err
}

// Reset replaces the saved state with defaults and returns them.
func (s *Store) Reset() (state.State, error) {
	st := state.Default()
	if err := s.Save(st); err != nil {
		return st, err
	}
	return st, nil
}

// Normalize fills every missing field of a loaded state from defaults.
// Settings and UI merge field by field so a partially saved sub-object
// cannot wipe unrelated defaults. Habit progress is forced back to exactly
// seven entries.
func Normalize(loaded state.State) state.State {
	out := loaded
	if out.Tasks == nil {
		out.Tasks = []state.Task{}
	}
	if out.Habits == nil {
		out.Habits = []state.Habit{}
	}
	if out.Resources == nil {
		out.Resources = []state.Resource{}
	}
	if out.Favorites == nil {
		out.Favorites = []string{}
	}
	if out.Settings.Theme == "" {
		out.Settings.Theme = state.ThemeLight
	}
	for i := range out.Habits {
		out.Habits[i].Progress = normalizeProgress(out.Habits[i].Progress)
	}
	return out
}

func normalizeProgress(progress []bool) []bool {
	if len(progress) == state.DaysPerWeek {
		return progress
	}
	fixed := make([]bool, state.DaysPerWeek)
	copy(fixed, progress)
	return fixed
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
