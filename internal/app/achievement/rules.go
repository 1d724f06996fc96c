// Package achievement implements the Bitewise achievement engine:
// a rule-driven progress tracker that ingests normalized domain events,
// evaluates the catalog against per-user progress state, and decides
// whether to award, advance, or ignore each candidate.
package achievement

import (
	"time"

	"github.com/bitewise-app/bitewise/internal/domain"
)

// EvaluateRule dispatches one candidate definition to its type-specific
// progress rule. Rules are pure: they read the previous tracker state,
// the event data, and the event time, and never touch storage.
func EvaluateRule(def domain.AchievementDefinition, prev domain.AchievementProgress, data map[string]string, at time.Time) (domain.RuleOutcome, error) {
	switch def.Type {
	case domain.TypeSingle:
		return evalSingle(def, data), nil
	case domain.TypeCumulative:
		return evalCumulative(def, prev, at), nil
	case domain.TypeStreak:
		return evalStreak(def, prev, at), nil
	case domain.TypeSocial:
		// Social achievements are not implemented yet. Explicit no-op,
		// not an error: the catalog may already carry social entries.
		return domain.RuleOutcome{}, nil
	default:
		return domain.RuleOutcome{}, domain.ErrUnknownAchievementType
	}
}

// evalSingle requires every conditions entry to match the event data
// exactly. A missing key never matches. Empty conditions always achieve.
// Single achievements carry no intermediate progress: each event is
// judged fresh.
func evalSingle(def domain.AchievementDefinition, data map[string]string) domain.RuleOutcome {
	for key, want := range def.Criteria.Conditions {
		got, ok := data[key]
		if !ok || got != want {
			return domain.RuleOutcome{}
		}
	}
	return domain.RuleOutcome{Achieved: true}
}

// evalCumulative counts one more qualifying event. A missing target count
// is treated as 0, which achieves trivially on the first event; the seeder
// warns about such definitions since that is almost always an authoring
// mistake.
func evalCumulative(def domain.AchievementDefinition, prev domain.AchievementProgress, at time.Time) domain.RuleOutcome {
	next := prev
	next.CurrentCount++
	next.LastUpdated = at

	return domain.RuleOutcome{
		Achieved: next.CurrentCount >= def.Criteria.Count,
		Progress: &next,
	}
}

// evalStreak extends or resets a consecutive-calendar-day streak.
// Continuity is a midnight-normalized day difference, so month and year
// boundaries behave (Jan 31 -> Feb 1 is consecutive). A second event on
// the same day is a no-op. A gap resets the streak to 1: the current
// event is day one of a new streak, the highest streak is preserved.
func evalStreak(def domain.AchievementDefinition, prev domain.AchievementProgress, at time.Time) domain.RuleOutcome {
	today := midnight(at)

	var newStreak int
	switch {
	case prev.LastUpdated.IsZero():
		newStreak = 1
	default:
		switch daysBetween(midnight(prev.LastUpdated), today) {
		case 0:
			return domain.RuleOutcome{} // Same day — already counted
		case 1:
			newStreak = prev.CurrentStreak + 1
		default:
			newStreak = 1
		}
	}

	next := prev
	next.CurrentStreak = newStreak
	if newStreak > next.HighestStreak {
		next.HighestStreak = newStreak
	}
	next.LastUpdated = at

	return domain.RuleOutcome{
		Achieved: newStreak >= def.Criteria.Count,
		Progress: &next,
	}
}

// midnight normalizes a time to 00:00 UTC of its calendar day.
func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole calendar days from a to b.
// Both must be midnight-normalized.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
