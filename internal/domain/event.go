package domain

import "time"

// ─── Event Types ────────────────────────────────────────────────────────────

// Action is the string key identifying which domain event category an
// achievement definition reacts to.
type Action string

const (
	ActionMealLog        Action = "meal_log"
	ActionPhotoLog       Action = "photo_log"
	ActionLateNightLog   Action = "late_night_log"
	ActionCalorieGoalMet Action = "calorie_goal_met"
	ActionDailyLog       Action = "daily_log"
)

// Event is a normalized domain occurrence delivered to the achievement
// engine. Data is a free-form mapping whose keys depend on the action
// (e.g. "has_photo" for meal logs, "time_after" for late-night checks).
type Event struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id"`
	Action     Action            `json:"action"`
	Data       map[string]string `json:"data,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
