package achievement

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bitewise-app/bitewise/internal/app/events"
	"github.com/bitewise-app/bitewise/internal/domain"
)

// lateNightHour is the first hour of the day considered a late-night log.
const lateNightHour = 22

// RegisterHandlers subscribes the evaluator to every achievement-relevant
// action on the bus. Call once during wiring, before the first Publish.
func RegisterHandlers(bus events.Bus, ev *Evaluator) {
	actions := []domain.Action{
		domain.ActionMealLog,
		domain.ActionPhotoLog,
		domain.ActionLateNightLog,
		domain.ActionCalorieGoalMet,
		domain.ActionDailyLog,
	}
	for _, action := range actions {
		bus.Subscribe(action, func(ctx context.Context, evt domain.Event) error {
			return ev.CheckAchievementsAt(ctx, evt.UserID, evt.Action, evt.Data, evt.OccurredAt)
		})
	}
}

// Triggers translates domain operations into bus events. Each method
// publishes every event the operation implies; a failed publish surfaces
// to the caller so the operation can report a partial evaluation.
type Triggers struct {
	bus events.Bus
}

// NewTriggers creates a trigger publisher over the given bus.
func NewTriggers(bus events.Bus) *Triggers {
	return &Triggers{bus: bus}
}

// MealLogged publishes meal_log for every logged meal, photo_log when the
// meal carries a photo, and late_night_log when it was logged at or after
// 22:00 local to the meal's timestamp.
func (t *Triggers) MealLogged(ctx context.Context, meal domain.Meal) error {
	if err := t.publish(ctx, meal.UserID, domain.ActionMealLog, nil, meal.LoggedAt); err != nil {
		return err
	}
	if meal.HasPhoto {
		if err := t.publish(ctx, meal.UserID, domain.ActionPhotoLog, nil, meal.LoggedAt); err != nil {
			return err
		}
	}
	if meal.LoggedAt.Hour() >= lateNightHour {
		data := map[string]string{"time_after": "22:00"}
		if err := t.publish(ctx, meal.UserID, domain.ActionLateNightLog, data, meal.LoggedAt); err != nil {
			return err
		}
	}
	return nil
}

// CalorieGoalMet publishes calorie_goal_met for a day closed at or under
// the user's calorie goal.
func (t *Triggers) CalorieGoalMet(ctx context.Context, userID string, at time.Time) error {
	return t.publish(ctx, userID, domain.ActionCalorieGoalMet, nil, at)
}

// DayCompleted publishes daily_log when a day with at least one meal is
// closed, regardless of whether the calorie goal was met.
func (t *Triggers) DayCompleted(ctx context.Context, userID string, at time.Time) error {
	return t.publish(ctx, userID, domain.ActionDailyLog, nil, at)
}

func (t *Triggers) publish(ctx context.Context, userID string, action domain.Action, data map[string]string, at time.Time) error {
	return t.bus.Publish(ctx, domain.Event{
		ID:         uuid.NewString(),
		UserID:     userID,
		Action:     action,
		Data:       data,
		OccurredAt: at,
	})
}
