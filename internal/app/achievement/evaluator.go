package achievement

import (
	"context"
	"fmt"
	"time"

	"github.com/bitewise-app/bitewise/internal/domain"
	"github.com/bitewise-app/bitewise/internal/infra/metrics"
)

// Notifier is told about awards after they are persisted. Notification
// failures are logged by the notifier, never surfaced to the evaluation.
type Notifier interface {
	AchievementAwarded(userID string, def domain.AchievementDefinition)
}

// Evaluator is the achievement engine core. Dependencies are injected so
// it can run against any catalog/store implementation.
type Evaluator struct {
	catalog  domain.Catalog
	store    domain.ProgressStore
	notifier Notifier
	locks    userLocks
}

// NewEvaluator creates an evaluator over the given catalog and store.
func NewEvaluator(catalog domain.Catalog, store domain.ProgressStore) *Evaluator {
	return &Evaluator{catalog: catalog, store: store}
}

// SetNotifier attaches an award notifier. Optional.
func (e *Evaluator) SetNotifier(n Notifier) { e.notifier = n }

// CheckAchievements evaluates all candidates for the event at wall-clock
// time. Side effects only; see CheckAchievementsAt.
func (e *Evaluator) CheckAchievements(ctx context.Context, userID string, action domain.Action, data map[string]string) error {
	return e.CheckAchievementsAt(ctx, userID, action, data, time.Now())
}

// CheckAchievementsAt evaluates every catalog definition matching the
// event's action against the user's progress, applying one of three
// outcomes per candidate: no-op, progress update, or award.
//
//   - An uninitialized user is a silent no-op, not an error.
//   - Earned achievements are terminal and skipped unconditionally.
//   - Candidates are processed in catalog seed order; the first store
//     failure propagates immediately, so a call can partially apply
//     across candidates. There are no retries here.
//
// Overlapping calls for the same user serialize; the per-user lock plus
// the store's transactional Award keep total_points exact under
// concurrent event delivery.
func (e *Evaluator) CheckAchievementsAt(ctx context.Context, userID string, action domain.Action, data map[string]string, at time.Time) error {
	if userID == "" {
		return fmt.Errorf("check achievements: empty user id")
	}

	mu := e.locks.get(userID)
	mu.Lock()
	defer mu.Unlock()

	timer := time.Now()
	defer func() {
		metrics.EvaluationSeconds.WithLabelValues(string(action)).Observe(time.Since(timer).Seconds())
	}()
	metrics.EventsProcessed.WithLabelValues(string(action)).Inc()

	ua, err := e.store.Get(userID)
	if err != nil {
		metrics.StoreErrors.Inc()
		return fmt.Errorf("load progress for %s: %w", userID, err)
	}
	if ua == nil {
		return nil // Uninitialized user — nothing to evaluate
	}

	candidates, err := e.catalog.ListByAction(action)
	if err != nil {
		metrics.StoreErrors.Inc()
		return fmt.Errorf("load catalog for %s: %w", action, err)
	}

	for _, def := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ua.HasEarned(def.ID) {
			continue // Terminal state — never re-evaluate
		}

		outcome, err := EvaluateRule(def, ua.Tracker(def.ID), data, at)
		if err != nil {
			return fmt.Errorf("evaluate %s: %w", def.ID, err)
		}

		switch {
		case outcome.Achieved:
			// Persist the final count/streak before marking completion
			// so the award path does not lose it.
			if outcome.Progress != nil {
				if err := e.store.UpdateProgress(userID, *outcome.Progress); err != nil {
					metrics.StoreErrors.Inc()
					return fmt.Errorf("persist final progress for %s: %w", def.ID, err)
				}
			}
			if err := e.store.Award(userID, def.ID, def.Reward.Points); err != nil {
				metrics.StoreErrors.Inc()
				return fmt.Errorf("award %s: %w", def.ID, err)
			}
			metrics.AwardsTotal.WithLabelValues(string(def.Type)).Inc()
			if e.notifier != nil {
				e.notifier.AchievementAwarded(userID, def)
			}

		case outcome.Progress != nil:
			if err := e.store.UpdateProgress(userID, *outcome.Progress); err != nil {
				metrics.StoreErrors.Inc()
				return fmt.Errorf("update progress for %s: %w", def.ID, err)
			}

		default:
			// Rule neither achieved nor advanced — nothing to persist.
		}
	}

	return nil
}
