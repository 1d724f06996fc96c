package analyzer_test

import (
	"context"
	"testing"

	"github.com/bitewise-app/bitewise/internal/infra/analyzer"
)

func TestMock_Deterministic(t *testing.T) {
	m := analyzer.NewMock()
	ctx := context.Background()

	a, err := m.Analyze(ctx, "chicken caesar salad")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	b, _ := m.Analyze(ctx, "chicken caesar salad")
	if a != b {
		t.Errorf("same description produced different estimates: %+v vs %+v", a, b)
	}

	// Case and whitespace do not matter
	c, _ := m.Analyze(ctx, "  Chicken Caesar Salad ")
	if a.Calories != c.Calories {
		t.Errorf("normalization broken: %d vs %d", a.Calories, c.Calories)
	}
}

func TestMock_PlausibleRanges(t *testing.T) {
	m := analyzer.NewMock()

	for _, desc := range []string{"oatmeal", "double cheeseburger", "apple", "pad thai"} {
		est, err := m.Analyze(context.Background(), desc)
		if err != nil {
			t.Fatalf("analyze %q: %v", desc, err)
		}
		if est.Calories < 150 || est.Calories >= 800 {
			t.Errorf("%q: calories = %d, outside mock range", desc, est.Calories)
		}
		if est.Protein <= 0 || est.Carbs <= 0 || est.Fat <= 0 {
			t.Errorf("%q: macros should be positive: %+v", desc, est)
		}
		if est.Name != desc {
			t.Errorf("%q: name = %q", desc, est.Name)
		}
	}
}
