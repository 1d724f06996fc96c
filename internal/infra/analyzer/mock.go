package analyzer

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/bitewise-app/bitewise/internal/domain"
)

// Mock is a deterministic analyzer for development and tests. The same
// description always yields the same estimate, derived from a hash of
// the text, so fixtures stay stable without network access.
type Mock struct{}

// NewMock creates a mock analyzer.
func NewMock() *Mock { return &Mock{} }

// Analyze implements domain.NutritionAnalyzer.
func (m *Mock) Analyze(_ context.Context, description string) (domain.NutritionEstimate, error) {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(description))))
	seed := h.Sum32()

	calories := 150 + int(seed%650)
	return domain.NutritionEstimate{
		Name:     description,
		Calories: calories,
		Protein:  float64(5 + seed%35),
		Carbs:    float64(10 + seed%60),
		Fat:      float64(2 + seed%25),
	}, nil
}
