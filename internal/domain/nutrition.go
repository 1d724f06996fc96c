package domain

import "time"

// ─── Nutrition Types ────────────────────────────────────────────────────────

// DayKey is the calendar-day format used throughout the nutrition tables.
const DayKey = "2006-01-02"

// Profile is a registered user with a daily calorie goal.
type Profile struct {
	UserID           string    `json:"user_id"`
	DisplayName      string    `json:"display_name,omitempty"`
	DailyCalorieGoal int       `json:"daily_calorie_goal"`
	CreatedAt        time.Time `json:"created_at"`
}

// Meal is one logged meal with its (possibly estimated) nutrition.
type Meal struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Calories int       `json:"calories"`
	Protein  float64   `json:"protein_g"`
	Carbs    float64   `json:"carbs_g"`
	Fat      float64   `json:"fat_g"`
	HasPhoto bool      `json:"has_photo"`
	LoggedAt time.Time `json:"logged_at"`
}

// NutritionEstimate is what the vision oracle returns for a meal photo
// or free-text description.
type NutritionEstimate struct {
	Name     string  `json:"name"`
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein_g"`
	Carbs    float64 `json:"carbs_g"`
	Fat      float64 `json:"fat_g"`
}

// DayTotals is the running sum of one user's meals for one calendar day.
type DayTotals struct {
	UserID   string  `json:"user_id"`
	Day      string  `json:"day"` // DayKey format
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein_g"`
	Carbs    float64 `json:"carbs_g"`
	Fat      float64 `json:"fat_g"`
	Meals    int     `json:"meals"`
}

// ─── Notification Types ─────────────────────────────────────────────────────

// NotificationType categorizes user-facing notifications.
type NotificationType string

const (
	NotifyAchievement NotificationType = "achievement"
	NotifyGoalMet     NotificationType = "goal_met"
)

// Notification is a queued user-facing message.
type Notification struct {
	ID        int64            `json:"id"`
	UserID    string           `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	CreatedAt time.Time        `json:"created_at"`
	Shown     bool             `json:"shown"`
}

// NotificationPolicy caps how often a user is notified.
type NotificationPolicy struct {
	MaxPerDay  int    `json:"max_per_day"`
	QuietStart string `json:"quiet_start"` // "22:00"
	QuietEnd   string `json:"quiet_end"`   // "08:00"
}

// DefaultNotificationPolicy returns the shipped policy.
func DefaultNotificationPolicy() NotificationPolicy {
	return NotificationPolicy{
		MaxPerDay:  3,
		QuietStart: "22:00",
		QuietEnd:   "08:00",
	}
}
