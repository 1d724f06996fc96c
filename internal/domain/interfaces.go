package domain

import "context"

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// Catalog is the read side of the achievement definition registry.
// ListByAction order is the seed order and is deterministic.
type Catalog interface {
	// ListByAction returns definitions whose criteria action equals action.
	ListByAction(action Action) ([]AchievementDefinition, error)

	// ListDefinitions returns the whole catalog in seed order.
	ListDefinitions() ([]AchievementDefinition, error)

	// Create seeds one definition. Administrative path only; definitions
	// are immutable afterwards. Seeding an existing ID is an error.
	Create(def AchievementDefinition) error
}

// ProgressStore owns the per-user achievement aggregates.
// Implementations must make Award atomic: the earned-set insert and the
// points increment happen in one transaction, and points are added only
// when the insert actually inserted (replays are no-ops).
type ProgressStore interface {
	// Get returns the aggregate, or (nil, nil) for an uninitialized user.
	Get(userID string) (*UserAchievements, error)

	// Initialize creates the zero-value aggregate for a new user.
	Initialize(userID string) (*UserAchievements, error)

	// Award adds achievementID to the earned set, adds points to the
	// user's total, and marks the tracker completed.
	Award(userID, achievementID string, points int) error

	// UpdateProgress merges tracker count/streak fields and stamps
	// last_updated. It must never set completed through this path.
	UpdateProgress(userID string, progress AchievementProgress) error
}

// NutritionAnalyzer is the opaque vision/chat oracle that estimates
// nutrition for a meal photo or description.
type NutritionAnalyzer interface {
	Analyze(ctx context.Context, description string) (NutritionEstimate, error)
}
