// Package domain holds the core Bitewise types.
// The achievement engine drives retention through catalog-defined milestones:
// single-shot checks, cumulative counters, and calendar-day streaks.
package domain

import "time"

// ─── Catalog Types ──────────────────────────────────────────────────────────

// AchievementCategory groups achievements for display.
type AchievementCategory string

const (
	CatDaily  AchievementCategory = "daily"
	CatHabit  AchievementCategory = "habit"
	CatGoal   AchievementCategory = "goal"
	CatSocial AchievementCategory = "social"
)

// AchievementType selects which progress rule applies.
type AchievementType string

const (
	TypeSingle     AchievementType = "single"
	TypeCumulative AchievementType = "cumulative"
	TypeStreak     AchievementType = "streak"
	TypeSocial     AchievementType = "social"
)

// Criteria describes what an achievement reacts to.
// Action is the event key; Count is the target threshold for
// cumulative/streak types; Conditions is an exact-match filter
// for single-type achievements.
type Criteria struct {
	Action     Action            `json:"action"`
	Count      int               `json:"count,omitempty"`
	Conditions map[string]string `json:"conditions,omitempty"`
}

// Reward is granted on award. Zero value means no reward.
type Reward struct {
	Points int    `json:"points"`
	Badge  string `json:"badge,omitempty"`
}

// AchievementDefinition is one catalog entry. Immutable once seeded.
// Hidden definitions are obscured by clients until earned; evaluation
// does not care.
type AchievementDefinition struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Category    AchievementCategory `json:"category"`
	Type        AchievementType     `json:"type"`
	Criteria    Criteria            `json:"criteria"`
	Reward      Reward              `json:"reward"`
	Hidden      bool                `json:"hidden"`
}

// Validate checks the invariants a definition must hold before seeding.
func (d AchievementDefinition) Validate() error {
	if d.ID == "" {
		return ErrInvalidDefinition
	}
	if d.Criteria.Action == "" {
		return ErrInvalidDefinition
	}
	switch d.Type {
	case TypeSingle, TypeCumulative, TypeStreak, TypeSocial:
		return nil
	default:
		return ErrUnknownAchievementType
	}
}

// ─── Progress Types ─────────────────────────────────────────────────────────

// AchievementProgress is the per-user, per-achievement tracker.
// LastUpdated is the zero time until the first evaluation touches it.
// Once Completed is true the tracker is terminal and never mutated again.
type AchievementProgress struct {
	AchievementID string    `json:"achievement_id"`
	CurrentCount  int       `json:"current_count"`
	CurrentStreak int       `json:"current_streak"`
	HighestStreak int       `json:"highest_streak"`
	LastUpdated   time.Time `json:"last_updated"`
	Completed     bool      `json:"completed"`
}

// UserAchievements is the per-user aggregate the evaluator works against.
// Earned is monotone: an ID, once a member, is never removed.
// TotalPoints accumulates reward points over awards.
type UserAchievements struct {
	UserID      string                         `json:"user_id"`
	Earned      []string                       `json:"earned"`
	Trackers    map[string]AchievementProgress `json:"trackers"`
	TotalPoints int                            `json:"total_points"`
}

// HasEarned reports whether the achievement is already in the earned set.
func (u *UserAchievements) HasEarned(id string) bool {
	for _, e := range u.Earned {
		if e == id {
			return true
		}
	}
	return false
}

// Tracker returns the progress tracker for id, or a zero-value tracker
// if this achievement has never been evaluated for the user.
func (u *UserAchievements) Tracker(id string) AchievementProgress {
	if p, ok := u.Trackers[id]; ok {
		return p
	}
	return AchievementProgress{AchievementID: id}
}

// RuleOutcome is what a progress rule decides for one candidate.
// Achieved means award now. Progress, when non-nil, carries the advanced
// tracker state to persist (also set on the achieved path so the final
// count/streak is not lost when the award is recorded).
type RuleOutcome struct {
	Achieved bool
	Progress *AchievementProgress
}
