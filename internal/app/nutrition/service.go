// Package nutrition implements meal logging, day close-out, and daily
// summaries. It is the producer side of the event bus: every mutation
// here is announced so the achievement engine can react.
package nutrition

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bitewise-app/bitewise/internal/app/achievement"
	"github.com/bitewise-app/bitewise/internal/domain"
	"github.com/bitewise-app/bitewise/internal/infra/metrics"
)

// Store is the slice of storage the nutrition service needs.
type Store interface {
	CreateProfile(p domain.Profile) error
	GetProfile(userID string) (*domain.Profile, error)
	InsertMeal(m domain.Meal) error
	ListMeals(userID, day string) ([]domain.Meal, error)
	GetDayTotals(userID, day string) (*domain.DayTotals, error)
}

// Service coordinates meal logging with the nutrition analyzer and the
// achievement triggers.
type Service struct {
	store    Store
	progress domain.ProgressStore
	analyzer domain.NutritionAnalyzer
	triggers *achievement.Triggers
}

// NewService wires the nutrition service. The analyzer may be nil, in
// which case meals must carry explicit calorie values.
func NewService(store Store, progress domain.ProgressStore, analyzer domain.NutritionAnalyzer, triggers *achievement.Triggers) *Service {
	return &Service{store: store, progress: progress, analyzer: analyzer, triggers: triggers}
}

// ─── Profiles ───────────────────────────────────────────────────────────────

// CreateProfile registers a user and initializes their achievement record.
func (s *Service) CreateProfile(userID, displayName string, dailyCalorieGoal int) (*domain.Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id must not be empty")
	}
	if dailyCalorieGoal <= 0 {
		return nil, fmt.Errorf("daily calorie goal must be positive")
	}
	p := domain.Profile{
		UserID:           userID,
		DisplayName:      displayName,
		DailyCalorieGoal: dailyCalorieGoal,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.store.CreateProfile(p); err != nil {
		return nil, err
	}
	if _, err := s.progress.Initialize(userID); err != nil {
		return nil, fmt.Errorf("initialize achievements for %s: %w", userID, err)
	}
	return &p, nil
}

// Profile returns a user's profile.
func (s *Service) Profile(userID string) (*domain.Profile, error) {
	return s.store.GetProfile(userID)
}

// ─── Meal logging ───────────────────────────────────────────────────────────

// LogMealRequest is one meal to record. When Calories is zero the
// nutrition analyzer estimates the macros from the name.
type LogMealRequest struct {
	UserID   string
	Name     string
	Calories int
	Protein  float64
	Carbs    float64
	Fat      float64
	HasPhoto bool
	At       time.Time
}

// LogMeal records a meal, updates the day's totals, and publishes the
// events the meal implies. The returned meal carries the final macro
// values, analyzer-estimated when the request had none.
func (s *Service) LogMeal(ctx context.Context, req LogMealRequest) (*domain.Meal, error) {
	if _, err := s.store.GetProfile(req.UserID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("meal name must not be empty")
	}
	at := req.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	m := domain.Meal{
		ID:       uuid.NewString(),
		UserID:   req.UserID,
		Name:     req.Name,
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fat:      req.Fat,
		HasPhoto: req.HasPhoto,
		LoggedAt: at,
	}
	if m.Calories == 0 {
		if s.analyzer == nil {
			return nil, domain.ErrAnalyzerUnavailable
		}
		est, err := s.analyzer.Analyze(ctx, req.Name)
		if err != nil {
			return nil, fmt.Errorf("analyze %q: %w", req.Name, err)
		}
		m.Calories = est.Calories
		m.Protein = est.Protein
		m.Carbs = est.Carbs
		m.Fat = est.Fat
	}

	if err := s.store.InsertMeal(m); err != nil {
		return nil, err
	}
	metrics.MealsLogged.Inc()

	if err := s.triggers.MealLogged(ctx, m); err != nil {
		return &m, fmt.Errorf("meal %s logged, evaluation incomplete: %w", m.ID, err)
	}
	return &m, nil
}

// ─── Day close-out ──────────────────────────────────────────────────────────

// CompleteDay closes a calendar day (UTC, "2006-01-02"). A day with no
// meals returns domain.ErrNothingToLog. Closing publishes daily_log, and
// calorie_goal_met when the day's total is at or under the user's goal.
func (s *Service) CompleteDay(ctx context.Context, userID, day string) (*domain.DayTotals, error) {
	profile, err := s.store.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	totals, err := s.store.GetDayTotals(userID, day)
	if errors.Is(err, domain.ErrNoTotalsForDay) {
		return nil, domain.ErrNothingToLog
	}
	if err != nil {
		return nil, err
	}

	at, err := time.Parse(domain.DayKey, day)
	if err != nil {
		return nil, fmt.Errorf("parse day %q: %w", day, err)
	}

	if err := s.triggers.DayCompleted(ctx, userID, at); err != nil {
		return totals, err
	}
	if totals.Calories <= profile.DailyCalorieGoal {
		if err := s.triggers.CalorieGoalMet(ctx, userID, at); err != nil {
			return totals, err
		}
	} else {
		log.Printf("[nutrition] %s over goal on %s: %d > %d calories",
			userID, day, totals.Calories, profile.DailyCalorieGoal)
	}
	return totals, nil
}

// ─── Summaries ──────────────────────────────────────────────────────────────

// DaySummary is one user-day snapshot.
type DaySummary struct {
	Profile *domain.Profile   `json:"profile"`
	Day     string            `json:"day"`
	Totals  *domain.DayTotals `json:"totals,omitempty"`
	Meals   []domain.Meal     `json:"meals"`
}

// Summary assembles a user's meals and running totals for one day.
// A day with no meals returns an empty summary, not an error.
func (s *Service) Summary(userID, day string) (*DaySummary, error) {
	profile, err := s.store.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	meals, err := s.store.ListMeals(userID, day)
	if err != nil {
		return nil, err
	}
	totals, err := s.store.GetDayTotals(userID, day)
	if err != nil && !errors.Is(err, domain.ErrNoTotalsForDay) {
		return nil, err
	}
	return &DaySummary{Profile: profile, Day: day, Totals: totals, Meals: meals}, nil
}
