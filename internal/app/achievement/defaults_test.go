package achievement_test

import (
	"testing"

	"github.com/bitewise-app/bitewise/internal/app/achievement"
	"github.com/bitewise-app/bitewise/internal/domain"
)

func TestDefaultDefinitions_Valid(t *testing.T) {
	seen := make(map[string]bool)
	for _, def := range achievement.DefaultDefinitions() {
		if err := def.Validate(); err != nil {
			t.Errorf("%s: %v", def.ID, err)
		}
		if seen[def.ID] {
			t.Errorf("duplicate id %s", def.ID)
		}
		seen[def.ID] = true

		switch def.Type {
		case domain.TypeCumulative, domain.TypeStreak:
			if def.Criteria.Count <= 0 {
				t.Errorf("%s: counter type without a target", def.ID)
			}
		}
	}
}

func TestSeedDefaults_Idempotent(t *testing.T) {
	db := testDB(t)

	created, err := achievement.SeedDefaults(db)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if created != len(achievement.DefaultDefinitions()) {
		t.Errorf("created = %d, want %d", created, len(achievement.DefaultDefinitions()))
	}

	again, err := achievement.SeedDefaults(db)
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if again != 0 {
		t.Errorf("reseed created = %d, want 0", again)
	}
}
