package achievement

import (
	"errors"
	"fmt"
	"log"

	"github.com/bitewise-app/bitewise/internal/domain"
)

// DefaultDefinitions returns the built-in achievement catalog. IDs are
// stable; earned rows and trackers reference them across restarts.
func DefaultDefinitions() []domain.AchievementDefinition {
	return []domain.AchievementDefinition{
		// ─── First steps ────────────────────────────────────────────────
		{
			ID:          "first_meal_log",
			Name:        "First Bite",
			Description: "Log your first meal.",
			Category:    domain.CatDaily,
			Type:        domain.TypeSingle,
			Criteria:    domain.Criteria{Action: domain.ActionMealLog},
			Reward:      domain.Reward{Points: 10, Badge: "fork"},
		},
		{
			ID:          "first_photo",
			Name:        "Say Cheese",
			Description: "Attach a photo to a meal.",
			Category:    domain.CatDaily,
			Type:        domain.TypeSingle,
			Criteria:    domain.Criteria{Action: domain.ActionPhotoLog},
			Reward:      domain.Reward{Points: 10, Badge: "camera"},
		},
		{
			ID:          "night_owl",
			Name:        "Night Owl",
			Description: "Log a meal after 10pm.",
			Category:    domain.CatHabit,
			Type:        domain.TypeSingle,
			Criteria: domain.Criteria{
				Action:     domain.ActionLateNightLog,
				Conditions: map[string]string{"time_after": "22:00"},
			},
			Reward: domain.Reward{Points: 15, Badge: "owl"},
			Hidden: true,
		},

		// ─── Volume ─────────────────────────────────────────────────────
		{
			ID:          "meals_10",
			Name:        "Regular",
			Description: "Log 10 meals.",
			Category:    domain.CatHabit,
			Type:        domain.TypeCumulative,
			Criteria:    domain.Criteria{Action: domain.ActionMealLog, Count: 10},
			Reward:      domain.Reward{Points: 25, Badge: "plate"},
		},
		{
			ID:          "meals_50",
			Name:        "Dedicated",
			Description: "Log 50 meals.",
			Category:    domain.CatHabit,
			Type:        domain.TypeCumulative,
			Criteria:    domain.Criteria{Action: domain.ActionMealLog, Count: 50},
			Reward:      domain.Reward{Points: 75, Badge: "chef"},
		},
		{
			ID:          "meals_100",
			Name:        "Centurion",
			Description: "Log 100 meals.",
			Category:    domain.CatHabit,
			Type:        domain.TypeCumulative,
			Criteria:    domain.Criteria{Action: domain.ActionMealLog, Count: 100},
			Reward:      domain.Reward{Points: 150, Badge: "trophy"},
		},
		{
			ID:          "photos_25",
			Name:        "Food Blogger",
			Description: "Attach photos to 25 meals.",
			Category:    domain.CatHabit,
			Type:        domain.TypeCumulative,
			Criteria:    domain.Criteria{Action: domain.ActionPhotoLog, Count: 25},
			Reward:      domain.Reward{Points: 50, Badge: "gallery"},
		},

		// ─── Streaks ────────────────────────────────────────────────────
		{
			ID:          "daily_streak_3",
			Name:        "Warming Up",
			Description: "Log meals on 3 consecutive days.",
			Category:    domain.CatHabit,
			Type:        domain.TypeStreak,
			Criteria:    domain.Criteria{Action: domain.ActionDailyLog, Count: 3},
			Reward:      domain.Reward{Points: 20, Badge: "spark"},
		},
		{
			ID:          "daily_streak_7",
			Name:        "One Week Strong",
			Description: "Log meals on 7 consecutive days.",
			Category:    domain.CatHabit,
			Type:        domain.TypeStreak,
			Criteria:    domain.Criteria{Action: domain.ActionDailyLog, Count: 7},
			Reward:      domain.Reward{Points: 50, Badge: "flame"},
		},
		{
			ID:          "daily_streak_30",
			Name:        "Habit Formed",
			Description: "Log meals on 30 consecutive days.",
			Category:    domain.CatHabit,
			Type:        domain.TypeStreak,
			Criteria:    domain.Criteria{Action: domain.ActionDailyLog, Count: 30},
			Reward:      domain.Reward{Points: 200, Badge: "crown"},
		},
		{
			ID:          "goal_streak_7",
			Name:        "On Target",
			Description: "Meet your calorie goal 7 days in a row.",
			Category:    domain.CatGoal,
			Type:        domain.TypeStreak,
			Criteria:    domain.Criteria{Action: domain.ActionCalorieGoalMet, Count: 7},
			Reward:      domain.Reward{Points: 100, Badge: "target"},
		},
		{
			ID:          "goal_first",
			Name:        "Bullseye",
			Description: "Meet your calorie goal for the first time.",
			Category:    domain.CatGoal,
			Type:        domain.TypeSingle,
			Criteria:    domain.Criteria{Action: domain.ActionCalorieGoalMet},
			Reward:      domain.Reward{Points: 15, Badge: "dart"},
		},

		// ─── Social ─────────────────────────────────────────────────────
		{
			ID:          "first_share",
			Name:        "Show and Tell",
			Description: "Share a meal with a friend.",
			Category:    domain.CatSocial,
			Type:        domain.TypeSocial,
			Criteria:    domain.Criteria{Action: domain.ActionMealLog},
			Reward:      domain.Reward{Points: 20, Badge: "megaphone"},
		},
	}
}

// SeedDefaults installs the built-in catalog, skipping definitions that
// already exist. Counter-based definitions with a zero target are accepted
// but flagged: such a definition is trivially achieved on its first event.
func SeedDefaults(catalog domain.Catalog) (int, error) {
	created := 0
	for _, def := range DefaultDefinitions() {
		switch def.Type {
		case domain.TypeCumulative, domain.TypeStreak:
			if def.Criteria.Count <= 0 {
				log.Printf("[achievement] warning: %s has no target count, it will complete immediately", def.ID)
			}
		}
		err := catalog.Create(def)
		if errors.Is(err, domain.ErrDefinitionExists) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", def.ID, err)
		}
		created++
	}
	return created, nil
}
