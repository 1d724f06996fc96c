package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bitewise-app/bitewise/internal/domain"
)

// ─── Profiles ───────────────────────────────────────────────────────────────

// CreateProfile registers a user. Creating an existing user returns
// domain.ErrProfileExists.
func (d *DB) CreateProfile(p domain.Profile) error {
	_, err := d.db.Exec(
		`INSERT INTO profiles (user_id, display_name, daily_calorie_goal, created_at) VALUES (?, ?, ?, ?)`,
		p.UserID, p.DisplayName, p.DailyCalorieGoal, p.CreatedAt.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrProfileExists
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// GetProfile retrieves a user profile.
func (d *DB) GetProfile(userID string) (*domain.Profile, error) {
	var p domain.Profile
	var createdAt int64
	err := d.db.QueryRow(
		`SELECT user_id, display_name, daily_calorie_goal, created_at FROM profiles WHERE user_id = ?`,
		userID,
	).Scan(&p.UserID, &p.DisplayName, &p.DailyCalorieGoal, &createdAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	p.CreatedAt = time.Unix(createdAt, 0)
	return &p, nil
}

// ─── Meals ──────────────────────────────────────────────────────────────────

// InsertMeal records one meal and folds it into the day's running totals
// in a single transaction.
func (d *DB) InsertMeal(m domain.Meal) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin meal insert: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO meals (id, user_id, name, calories, protein, carbs, fat, has_photo, logged_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, m.Name, m.Calories, m.Protein, m.Carbs, m.Fat, m.HasPhoto, m.LoggedAt.Unix(),
	); err != nil {
		return fmt.Errorf("insert meal: %w", err)
	}

	day := m.LoggedAt.UTC().Format(domain.DayKey)
	if _, err := tx.Exec(
		`INSERT INTO day_totals (user_id, day, calories, protein, carbs, fat, meals)
		 VALUES (?, ?, ?, ?, ?, ?, 1)
		 ON CONFLICT(user_id, day) DO UPDATE SET
			calories=calories+excluded.calories,
			protein=protein+excluded.protein,
			carbs=carbs+excluded.carbs,
			fat=fat+excluded.fat,
			meals=meals+1`,
		m.UserID, day, m.Calories, m.Protein, m.Carbs, m.Fat,
	); err != nil {
		return fmt.Errorf("update day totals: %w", err)
	}

	return tx.Commit()
}

// ListMeals returns a user's meals for one calendar day (UTC), oldest first.
func (d *DB) ListMeals(userID, day string) ([]domain.Meal, error) {
	start, err := time.Parse(domain.DayKey, day)
	if err != nil {
		return nil, fmt.Errorf("parse day %q: %w", day, err)
	}
	end := start.AddDate(0, 0, 1)

	rows, err := d.db.Query(
		`SELECT id, user_id, name, calories, protein, carbs, fat, has_photo, logged_at
		 FROM meals WHERE user_id = ? AND logged_at >= ? AND logged_at < ? ORDER BY logged_at ASC`,
		userID, start.Unix(), end.Unix(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meals []domain.Meal
	for rows.Next() {
		var m domain.Meal
		var loggedAt int64
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Calories, &m.Protein,
			&m.Carbs, &m.Fat, &m.HasPhoto, &loggedAt); err != nil {
			return nil, err
		}
		m.LoggedAt = time.Unix(loggedAt, 0).UTC()
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

// GetDayTotals returns the running totals row for a user and day.
// Returns domain.ErrNoTotalsForDay if no meals were logged.
func (d *DB) GetDayTotals(userID, day string) (*domain.DayTotals, error) {
	var t domain.DayTotals
	err := d.db.QueryRow(
		`SELECT user_id, day, calories, protein, carbs, fat, meals FROM day_totals WHERE user_id = ? AND day = ?`,
		userID, day,
	).Scan(&t.UserID, &t.Day, &t.Calories, &t.Protein, &t.Carbs, &t.Fat, &t.Meals)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNoTotalsForDay
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ─── Notifications ──────────────────────────────────────────────────────────

// InsertNotification creates a new notification.
func (d *DB) InsertNotification(n domain.Notification) (int64, error) {
	result, err := d.db.Exec(
		`INSERT INTO notifications (user_id, type, title, body, created_at, shown)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		n.UserID, string(n.Type), n.Title, n.Body, n.CreatedAt.Unix(), n.Shown,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// NotificationCountSince returns how many notifications a user received
// at or after the given time.
func (d *DB) NotificationCountSince(userID string, since time.Time) (int, error) {
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND created_at >= ?`,
		userID, since.Unix(),
	).Scan(&count)
	return count, err
}

// ListPendingNotifications returns a user's unshown notifications.
func (d *DB) ListPendingNotifications(userID string, limit int) ([]domain.Notification, error) {
	rows, err := d.db.Query(
		`SELECT id, user_id, type, title, body, created_at, shown
		 FROM notifications WHERE user_id = ? AND shown = 0 ORDER BY created_at DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifs []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var createdAt int64
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Body, &createdAt, &n.Shown); err != nil {
			return nil, err
		}
		n.CreatedAt = time.Unix(createdAt, 0)
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

// MarkNotificationShown marks a notification as shown.
func (d *DB) MarkNotificationShown(id int64) error {
	_, err := d.db.Exec(`UPDATE notifications SET shown = 1 WHERE id = ?`, id)
	return err
}
