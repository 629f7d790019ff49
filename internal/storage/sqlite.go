// Package storage provides SQLite-based persistence for player profiles and
// run history. Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/pingu-runner/internal/profile"
)

const timeLayout = "2006-01-02 15:04:05"

// Profile keys in the kv table.
const (
	keyUsername    = "username"
	keyHighscore   = "highscore"
	keyCoins       = "coins"
	keySkin        = "selected_skin"
	keyLastClaim   = "last_claim"
	keyClaimStreak = "claim_streak"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RunEntry is a stored run.
type RunEntry = profile.RunRecord

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			owner TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (owner, key)
		);

		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			score INTEGER NOT NULL,
			coins INTEGER NOT NULL DEFAULT 0,
			difficulty REAL NOT NULL DEFAULT 1,
			duration_secs REAL NOT NULL DEFAULT 0,
			seed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(score DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_user ON runs(username, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ForUser returns the profile store of one user.
func (s *Store) ForUser(user string) *UserStore {
	return &UserStore{store: s, user: user}
}

func (s *Store) get(user, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow("SELECT value FROM kv WHERE owner = ? AND key = ?", user, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read %s: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) set(user, key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (owner, key, value) VALUES (?, ?, ?)
		 ON CONFLICT(owner, key) DO UPDATE SET value = excluded.value`,
		user, key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save %s: %w", key, err)
	}
	return nil
}

func (s *Store) getInt(user, key string) (int, error) {
	v, ok, err := s.get(user, key)
	if err != nil || !ok {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("storage: %s is not a number: %w", key, err)
	}
	return n, nil
}

// SaveRun records a finished run.
func (s *Store) SaveRun(r RunEntry) error {
	if r.EndedAt.IsZero() {
		r.EndedAt = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (id, username, score, coins, difficulty, duration_secs, seed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Username, r.Score, r.Coins, r.Difficulty, r.Duration, r.Seed,
		r.EndedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save run: %w", err)
	}
	return nil
}

// TopRuns retrieves the N best runs across all users.
func (s *Store) TopRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT id, username, score, coins, difficulty, duration_secs, seed, created_at
		 FROM runs
		 ORDER BY score DESC, created_at ASC
		 LIMIT ?`,
		limit,
	)
}

// UserRuns retrieves the N best runs of one user.
func (s *Store) UserRuns(user string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT id, username, score, coins, difficulty, duration_secs, seed, created_at
		 FROM runs
		 WHERE username = ?
		 ORDER BY score DESC, created_at ASC
		 LIMIT ?`,
		user, limit,
	)
}

// RecentRuns retrieves the most recent runs.
func (s *Store) RecentRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT id, username, score, coins, difficulty, duration_secs, seed, created_at
		 FROM runs
		 ORDER BY created_at DESC
		 LIMIT ?`,
		limit,
	)
}

// RunByID retrieves a run by its id. It returns nil if none exists.
func (s *Store) RunByID(id string) (*RunEntry, error) {
	runs, err := s.queryRuns(
		`SELECT id, username, score, coins, difficulty, duration_secs, seed, created_at
		 FROM runs WHERE id = ?`,
		id,
	)
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return &runs[0], nil
}

func (s *Store) queryRuns(query string, args ...any) ([]RunEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Username, &e.Score, &e.Coins, &e.Difficulty, &e.Duration, &e.Seed, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.EndedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the best score across all runs, or 0 if none exist.
func (s *Store) HighScore() (int, error) {
	var score sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(score) FROM runs").Scan(&score); err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearRuns deletes the run history.
func (s *Store) ClearRuns() error {
	if _, err := s.db.Exec("DELETE FROM runs"); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// RunStats contains aggregated statistics for one user.
type RunStats struct {
	Username     string
	RunsCount    int
	HighScore    int
	AvgScore     float64
	TotalCoins   int64
	BestModifier float64
	LastPlayed   time.Time
}

// GetRunStats retrieves aggregated statistics for one user.
func (s *Store) GetRunStats(user string) (*RunStats, error) {
	stats := &RunStats{Username: user}
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(coins), 0), COALESCE(MAX(difficulty), 0), MAX(created_at)
		 FROM runs WHERE username = ?`,
		user,
	).Scan(&stats.RunsCount, &stats.HighScore, &stats.AvgScore, &stats.TotalCoins, &stats.BestModifier, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// parseTime handles both time.Time and string datetime columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// UserStore is one user's view of the database. It implements
// profile.Store, profile.RunRecorder and profile.ClaimStore.
type UserStore struct {
	store *Store
	user  string
}

var (
	_ profile.Store       = (*UserStore)(nil)
	_ profile.RunRecorder = (*UserStore)(nil)
	_ profile.ClaimStore  = (*UserStore)(nil)
)

// LoadUserData reads the profile summary. A user with no saved name is
// reported under the store's user key.
func (u *UserStore) LoadUserData() (profile.UserData, error) {
	data := profile.UserData{Username: u.user}
	name, ok, err := u.store.get(u.user, keyUsername)
	if err != nil {
		return data, err
	}
	if ok {
		data.Username = name
	}
	if data.Highscore, err = u.store.getInt(u.user, keyHighscore); err != nil {
		return data, err
	}
	if data.Coins, err = u.store.getInt(u.user, keyCoins); err != nil {
		return data, err
	}
	return data, nil
}

func (u *UserStore) SaveUsername(name string) error {
	return u.store.set(u.user, keyUsername, name)
}

func (u *UserStore) SaveHighscore(score int) error {
	return u.store.set(u.user, keyHighscore, strconv.Itoa(score))
}

func (u *UserStore) SaveCoins(coins int) error {
	return u.store.set(u.user, keyCoins, strconv.Itoa(coins))
}

func (u *UserStore) SaveSelectedSkin(id string) error {
	return u.store.set(u.user, keySkin, id)
}

func (u *UserStore) LoadSelectedSkinID() (string, error) {
	id, _, err := u.store.get(u.user, keySkin)
	return id, err
}

// RecordRun stores a finished run in the shared history.
func (u *UserStore) RecordRun(r profile.RunRecord) error {
	return u.store.SaveRun(r)
}

func (u *UserStore) LoadLastClaim() (string, int, error) {
	day, _, err := u.store.get(u.user, keyLastClaim)
	if err != nil {
		return "", 0, err
	}
	streak, err := u.store.getInt(u.user, keyClaimStreak)
	return day, streak, err
}

func (u *UserStore) SaveLastClaim(day string, streak int) error {
	if err := u.store.set(u.user, keyLastClaim, day); err != nil {
		return err
	}
	return u.store.set(u.user, keyClaimStreak, strconv.Itoa(streak))
}
