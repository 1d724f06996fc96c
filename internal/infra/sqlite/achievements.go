package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bitewise-app/bitewise/internal/domain"
)

// ─── Achievement Catalog ────────────────────────────────────────────────────

// CreateDefinition seeds one achievement definition.
// Definitions are immutable: re-seeding an existing ID returns
// domain.ErrDefinitionExists.
func (d *DB) CreateDefinition(def domain.AchievementDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	conditions, err := json.Marshal(def.Criteria.Conditions)
	if err != nil {
		return fmt.Errorf("marshal conditions: %w", err)
	}

	_, err = d.db.Exec(
		`INSERT INTO achievement_defs
		 (id, name, description, category, type, action, target_count, conditions, reward_points, reward_badge, hidden)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		def.ID, def.Name, def.Description, string(def.Category), string(def.Type),
		string(def.Criteria.Action), def.Criteria.Count, string(conditions),
		def.Reward.Points, def.Reward.Badge, def.Hidden,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDefinitionExists
		}
		return fmt.Errorf("insert definition: %w", err)
	}
	return nil
}

// Create implements domain.Catalog.
func (d *DB) Create(def domain.AchievementDefinition) error {
	return d.CreateDefinition(def)
}

const defColumns = `id, name, description, category, type, action, target_count, conditions, reward_points, reward_badge, hidden`

// ListByAction returns all definitions reacting to action, in seed order.
func (d *DB) ListByAction(action domain.Action) ([]domain.AchievementDefinition, error) {
	rows, err := d.db.Query(
		`SELECT `+defColumns+` FROM achievement_defs WHERE action = ? ORDER BY seq ASC`,
		string(action),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDefs(rows)
}

// ListDefinitions returns the whole catalog in seed order.
func (d *DB) ListDefinitions() ([]domain.AchievementDefinition, error) {
	rows, err := d.db.Query(`SELECT ` + defColumns + ` FROM achievement_defs ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDefs(rows)
}

// GetDefinition retrieves a single definition by ID.
func (d *DB) GetDefinition(id string) (*domain.AchievementDefinition, error) {
	row := d.db.QueryRow(`SELECT `+defColumns+` FROM achievement_defs WHERE id = ?`, id)
	def, err := scanDef(row)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, domain.ErrDefinitionNotFound
	}
	return def, nil
}

// DefinitionCount returns how many definitions are seeded.
func (d *DB) DefinitionCount() (int, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM achievement_defs`).Scan(&count)
	return count, err
}

// ─── Progress Store ─────────────────────────────────────────────────────────

// Get loads a user's full aggregate. Returns (nil, nil) if the user was
// never initialized — a defined no-op for the evaluator, not an error.
func (d *DB) Get(userID string) (*domain.UserAchievements, error) {
	ua := &domain.UserAchievements{
		UserID:   userID,
		Trackers: make(map[string]domain.AchievementProgress),
	}

	err := d.db.QueryRow(
		`SELECT total_points FROM user_achievements WHERE user_id = ?`, userID,
	).Scan(&ua.TotalPoints)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load aggregate: %w", err)
	}

	rows, err := d.db.Query(
		`SELECT achievement_id FROM earned_achievements
		 WHERE user_id = ? ORDER BY earned_at ASC, achievement_id ASC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("load earned set: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ua.Earned = append(ua.Earned, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	trows, err := d.db.Query(
		`SELECT achievement_id, current_count, current_streak, highest_streak, last_updated, completed
		 FROM progress_trackers WHERE user_id = ?`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("load trackers: %w", err)
	}
	defer trows.Close()
	for trows.Next() {
		var p domain.AchievementProgress
		var lastUpdated sql.NullInt64
		if err := trows.Scan(&p.AchievementID, &p.CurrentCount, &p.CurrentStreak,
			&p.HighestStreak, &lastUpdated, &p.Completed); err != nil {
			return nil, err
		}
		if lastUpdated.Valid {
			p.LastUpdated = time.Unix(lastUpdated.Int64, 0)
		}
		ua.Trackers[p.AchievementID] = p
	}
	return ua, trows.Err()
}

// Initialize creates the zero-value aggregate. Idempotent: initializing
// an existing user returns the current aggregate untouched.
func (d *DB) Initialize(userID string) (*domain.UserAchievements, error) {
	_, err := d.db.Exec(
		`INSERT OR IGNORE INTO user_achievements (user_id, total_points, created_at) VALUES (?, 0, ?)`,
		userID, time.Now().Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("initialize user: %w", err)
	}
	return d.Get(userID)
}

// Award atomically records an award: the earned-set insert, the points
// increment, and the terminal tracker marking happen in one transaction.
// Replaying an award is a no-op for both the set and the points.
func (d *DB) Award(userID, achievementID string, points int) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin award: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()

	result, err := tx.Exec(
		`INSERT OR IGNORE INTO earned_achievements (user_id, achievement_id, earned_at) VALUES (?, ?, ?)`,
		userID, achievementID, now,
	)
	if err != nil {
		return fmt.Errorf("insert earned: %w", err)
	}
	inserted, _ := result.RowsAffected()
	if inserted == 0 {
		return nil // Already earned — idempotent
	}

	if _, err := tx.Exec(
		`UPDATE user_achievements SET total_points = total_points + ? WHERE user_id = ?`,
		points, userID,
	); err != nil {
		return fmt.Errorf("add points: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO progress_trackers (user_id, achievement_id, last_updated, completed)
		 VALUES (?, ?, ?, 1)
		 ON CONFLICT(user_id, achievement_id) DO UPDATE SET
			completed=1,
			last_updated=excluded.last_updated`,
		userID, achievementID, now,
	); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}

	return tx.Commit()
}

// UpdateProgress merges tracker count/streak fields and stamps
// last_updated (the rule supplies the event time; wall clock is the
// fallback). The completed column is deliberately not touched:
// completion only happens through Award.
func (d *DB) UpdateProgress(userID string, p domain.AchievementProgress) error {
	stamp := p.LastUpdated
	if stamp.IsZero() {
		stamp = time.Now()
	}
	_, err := d.db.Exec(
		`INSERT INTO progress_trackers (user_id, achievement_id, current_count, current_streak, highest_streak, last_updated, completed)
		 VALUES (?, ?, ?, ?, ?, ?, 0)
		 ON CONFLICT(user_id, achievement_id) DO UPDATE SET
			current_count=excluded.current_count,
			current_streak=excluded.current_streak,
			highest_streak=excluded.highest_streak,
			last_updated=excluded.last_updated`,
		userID, p.AchievementID, p.CurrentCount, p.CurrentStreak, p.HighestStreak,
		stamp.Unix(),
	)
	if err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	return nil
}

// ─── Scanners ───────────────────────────────────────────────────────────────

func scanDef(s scanner) (*domain.AchievementDefinition, error) {
	var def domain.AchievementDefinition
	var category, typ, action, conditions string

	err := s.Scan(&def.ID, &def.Name, &def.Description, &category, &typ, &action,
		&def.Criteria.Count, &conditions, &def.Reward.Points, &def.Reward.Badge, &def.Hidden)
	if err == sql.ErrNoRows {
		return nil, nil // Not found, no error
	}
	if err != nil {
		return nil, err
	}

	def.Category = domain.AchievementCategory(category)
	def.Type = domain.AchievementType(typ)
	def.Criteria.Action = domain.Action(action)
	if err := json.Unmarshal([]byte(conditions), &def.Criteria.Conditions); err != nil {
		return nil, fmt.Errorf("unmarshal conditions for %s: %w", def.ID, err)
	}
	return &def, nil
}

func collectDefs(rows *sql.Rows) ([]domain.AchievementDefinition, error) {
	var defs []domain.AchievementDefinition
	for rows.Next() {
		def, err := scanDef(rows)
		if err != nil {
			return nil, err
		}
		defs = append(defs, *def)
	}
	return defs, rows.Err()
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// modernc.org/sqlite surfaces these as plain errors with a stable message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
