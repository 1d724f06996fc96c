package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Catalog errors
	ErrInvalidDefinition      = errors.New("achievement definition missing id or action")
	ErrUnknownAchievementType = errors.New("unknown achievement type")
	ErrDefinitionExists       = errors.New("achievement definition already seeded")
	ErrDefinitionNotFound     = errors.New("achievement definition not found")

	// Profile errors
	ErrProfileExists   = errors.New("profile already exists")
	ErrProfileNotFound = errors.New("profile not found")

	// Meal errors
	ErrMealNotFound   = errors.New("meal not found")
	ErrNothingToLog   = errors.New("cannot close a day with no logged meals")
	ErrNoTotalsForDay = errors.New("no meals logged for that day")

	// Analyzer errors
	ErrAnalyzerUnavailable = errors.New("nutrition analyzer is not configured")
)
