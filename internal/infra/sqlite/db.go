// Package sqlite provides SQLite-based persistent storage for Bitewise.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/state.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "state.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Achievement catalog. seq preserves seed order so that
		// ListByAction is deterministic.
		`CREATE TABLE IF NOT EXISTS achievement_defs (
			seq           INTEGER PRIMARY KEY AUTOINCREMENT,
			id            TEXT NOT NULL UNIQUE,
			name          TEXT NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			category      TEXT NOT NULL,
			type          TEXT NOT NULL,
			action        TEXT NOT NULL,
			target_count  INTEGER NOT NULL DEFAULT 0,
			conditions    TEXT NOT NULL DEFAULT '{}',
			reward_points INTEGER NOT NULL DEFAULT 0,
			reward_badge  TEXT NOT NULL DEFAULT '',
			hidden        BOOLEAN NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_defs_action ON achievement_defs(action)`,

		// Per-user aggregate root. Existence of the row marks the user
		// as initialized for evaluation.
		`CREATE TABLE IF NOT EXISTS user_achievements (
			user_id      TEXT PRIMARY KEY,
			total_points INTEGER NOT NULL DEFAULT 0,
			created_at   INTEGER NOT NULL
		)`,

		// Earned set: monotone, one row per (user, achievement).
		`CREATE TABLE IF NOT EXISTS earned_achievements (
			user_id        TEXT NOT NULL,
			achievement_id TEXT NOT NULL,
			earned_at      INTEGER NOT NULL,
			PRIMARY KEY (user_id, achievement_id)
		)`,

		// Progress trackers, created lazily on first evaluation.
		`CREATE TABLE IF NOT EXISTS progress_trackers (
			user_id        TEXT NOT NULL,
			achievement_id TEXT NOT NULL,
			current_count  INTEGER NOT NULL DEFAULT 0,
			current_streak INTEGER NOT NULL DEFAULT 0,
			highest_streak INTEGER NOT NULL DEFAULT 0,
			last_updated   INTEGER,
			completed      BOOLEAN NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, achievement_id)
		)`,

		// ─── Nutrition ─────────────────────────────────────────────────

		`CREATE TABLE IF NOT EXISTS profiles (
			user_id            TEXT PRIMARY KEY,
			display_name       TEXT NOT NULL DEFAULT '',
			daily_calorie_goal INTEGER NOT NULL,
			created_at         INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS meals (
			id        TEXT PRIMARY KEY,
			user_id   TEXT NOT NULL,
			name      TEXT NOT NULL,
			calories  INTEGER NOT NULL,
			protein   REAL NOT NULL DEFAULT 0,
			carbs     REAL NOT NULL DEFAULT 0,
			fat       REAL NOT NULL DEFAULT 0,
			has_photo BOOLEAN NOT NULL DEFAULT 0,
			logged_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_meals_user_time ON meals(user_id, logged_at)`,

		// Running per-day sums, maintained on every meal insert.
		`CREATE TABLE IF NOT EXISTS day_totals (
			user_id  TEXT NOT NULL,
			day      TEXT NOT NULL,
			calories INTEGER NOT NULL DEFAULT 0,
			protein  REAL NOT NULL DEFAULT 0,
			carbs    REAL NOT NULL DEFAULT 0,
			fat      REAL NOT NULL DEFAULT 0,
			meals    INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, day)
		)`,

		// Award notifications (per-user daily cap, quiet hours)
		`CREATE TABLE IF NOT EXISTS notifications (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    TEXT NOT NULL,
			type       TEXT NOT NULL,
			title      TEXT NOT NULL,
			body       TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			shown      BOOLEAN NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notif_user ON notifications(user_id, created_at)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
