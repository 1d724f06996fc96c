package achievement_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bitewise-app/bitewise/internal/app/achievement"
	"github.com/bitewise-app/bitewise/internal/domain"
	"github.com/bitewise-app/bitewise/internal/infra/sqlite"
)

// testDB creates a temporary SQLite database for testing.
func testDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seededEvaluator returns an evaluator over a fresh store with the
// default catalog seeded and the user initialized.
func seededEvaluator(t *testing.T, userID string) (*achievement.Evaluator, *sqlite.DB) {
	t.Helper()
	db := testDB(t)
	if _, err := achievement.SeedDefaults(db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := db.Initialize(userID); err != nil {
		t.Fatalf("initialize %s: %v", userID, err)
	}
	return achievement.NewEvaluator(db, db), db
}

func mustGet(t *testing.T, db *sqlite.DB, userID string) *domain.UserAchievements {
	t.Helper()
	ua, err := db.Get(userID)
	if err != nil {
		t.Fatalf("get %s: %v", userID, err)
	}
	if ua == nil {
		t.Fatalf("user %s has no achievement record", userID)
	}
	return ua
}

// ═══════════════════════════════════════════════════════════════════════════
// Award Path
// ═══════════════════════════════════════════════════════════════════════════

func TestEvaluator_FirstMealAward(t *testing.T) {
	ev, db := seededEvaluator(t, "alice")

	err := ev.CheckAchievements(context.Background(), "alice", domain.ActionMealLog, nil)
	if err != nil {
		t.Fatalf("check: %v", err)
	}

	ua := mustGet(t, db, "alice")
	if !ua.HasEarned("first_meal_log") {
		t.Error("first_meal_log should be earned after the first meal event")
	}
	if ua.TotalPoints != 10 {
		t.Errorf("total points = %d, want 10", ua.TotalPoints)
	}
	if !ua.Tracker("first_meal_log").Completed {
		t.Error("tracker should be marked completed")
	}
}

func TestEvaluator_ReplayIsIdempotent(t *testing.T) {
	ev, db := seededEvaluator(t, "alice")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := ev.CheckAchievements(ctx, "alice", domain.ActionMealLog, nil); err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
	}

	ua := mustGet(t, db, "alice")
	earned := 0
	for _, id := range ua.Earned {
		if id == "first_meal_log" {
			earned++
		}
	}
	if earned != 1 {
		t.Errorf("first_meal_log earned %d times, want 1", earned)
	}
	if ua.TotalPoints != 10 {
		t.Errorf("total points = %d after replays, want 10", ua.TotalPoints)
	}
}

func TestEvaluator_CumulativeProgression(t *testing.T) {
	ev, db := seededEvaluator(t, "alice")
	ctx := context.Background()

	for i := 0; i < 9; i++ {
		if err := ev.CheckAchievements(ctx, "alice", domain.ActionMealLog, nil); err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
	}
	ua := mustGet(t, db, "alice")
	if ua.HasEarned("meals_10") {
		t.Fatal("meals_10 should not be earned at 9 events")
	}
	if got := ua.Tracker("meals_10").CurrentCount; got != 9 {
		t.Errorf("meals_10 count = %d, want 9", got)
	}

	if err := ev.CheckAchievements(ctx, "alice", domain.ActionMealLog, nil); err != nil {
		t.Fatalf("check 10th: %v", err)
	}
	ua = mustGet(t, db, "alice")
	if !ua.HasEarned("meals_10") {
		t.Error("meals_10 should be earned on the 10th event")
	}
	if got := ua.Tracker("meals_10").CurrentCount; got != 10 {
		t.Errorf("meals_10 final count = %d, want 10", got)
	}
}

func TestEvaluator_StreakAcrossMonthBoundary(t *testing.T) {
	ev, db := seededEvaluator(t, "alice")
	ctx := context.Background()

	days := []time.Time{
		time.Date(2026, 1, 30, 19, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 31, 8, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 1, 23, 0, 0, 0, time.UTC),
	}
	for i, at := range days {
		if err := ev.CheckAchievementsAt(ctx, "alice", domain.ActionDailyLog, nil, at); err != nil {
			t.Fatalf("day %d: %v", i, err)
		}
	}

	ua := mustGet(t, db, "alice")
	if !ua.HasEarned("daily_streak_3") {
		t.Error("daily_streak_3 should be earned across the month boundary")
	}
}

func TestEvaluator_StreakGapResets(t *testing.T) {
	ev, db := seededEvaluator(t, "alice")
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		if err := ev.CheckAchievementsAt(ctx, "alice", domain.ActionDailyLog, nil, base.AddDate(0, 0, i)); err != nil {
			t.Fatalf("day %d: %v", i, err)
		}
	}
	// Skip a day, then log again
	if err := ev.CheckAchievementsAt(ctx, "alice", domain.ActionDailyLog, nil, base.AddDate(0, 0, 4)); err != nil {
		t.Fatalf("after gap: %v", err)
	}

	ua := mustGet(t, db, "alice")
	tr := ua.Tracker("daily_streak_3")
	if tr.CurrentStreak != 1 {
		t.Errorf("streak = %d after gap, want 1", tr.CurrentStreak)
	}
	if tr.HighestStreak != 2 {
		t.Errorf("highest = %d, want 2 preserved", tr.HighestStreak)
	}
	if ua.HasEarned("daily_streak_3") {
		t.Error("daily_streak_3 should not be earned after a broken streak")
	}
}

func TestEvaluator_ConditionsGateSingle(t *testing.T) {
	ev, db := seededEvaluator(t, "alice")
	ctx := context.Background()

	// Late-night event without the qualifying condition data
	if err := ev.CheckAchievements(ctx, "alice", domain.ActionLateNightLog, map[string]string{"time_after": "21:00"}); err != nil {
		t.Fatalf("check: %v", err)
	}
	if mustGet(t, db, "alice").HasEarned("night_owl") {
		t.Error("night_owl should not be earned for a 21:00 condition value")
	}

	if err := ev.CheckAchievements(ctx, "alice", domain.ActionLateNightLog, map[string]string{"time_after": "22:00"}); err != nil {
		t.Fatalf("check: %v", err)
	}
	if !mustGet(t, db, "alice").HasEarned("night_owl") {
		t.Error("night_owl should be earned when the condition matches")
	}
}

func TestEvaluator_ActionFiltering(t *testing.T) {
	ev, db := seededEvaluator(t, "alice")

	if err := ev.CheckAchievements(context.Background(), "alice", domain.ActionPhotoLog, nil); err != nil {
		t.Fatalf("check: %v", err)
	}

	ua := mustGet(t, db, "alice")
	if ua.HasEarned("first_meal_log") {
		t.Error("a photo_log event must not trigger meal_log achievements")
	}
	if !ua.HasEarned("first_photo") {
		t.Error("first_photo should be earned")
	}
	if got := ua.Tracker("meals_10").CurrentCount; got != 0 {
		t.Errorf("meals_10 count = %d after photo event, want 0", got)
	}
}

func TestEvaluator_PointsAccumulate(t *testing.T) {
	ev, db := seededEvaluator(t, "alice")
	ctx := context.Background()

	// first_meal_log (10) + first_photo (10) + night_owl (15)
	ev.CheckAchievements(ctx, "alice", domain.ActionMealLog, nil)
	ev.CheckAchievements(ctx, "alice", domain.ActionPhotoLog, nil)
	ev.CheckAchievements(ctx, "alice", domain.ActionLateNightLog, map[string]string{"time_after": "22:00"})

	if got := mustGet(t, db, "alice").TotalPoints; got != 35 {
		t.Errorf("total points = %d, want 35", got)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Edge Cases
// ═══════════════════════════════════════════════════════════════════════════

func TestEvaluator_UninitializedUserIsNoOp(t *testing.T) {
	db := testDB(t)
	if _, err := achievement.SeedDefaults(db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	ev := achievement.NewEvaluator(db, db)

	if err := ev.CheckAchievements(context.Background(), "ghost", domain.ActionMealLog, nil); err != nil {
		t.Errorf("uninitialized user should be a silent no-op, got %v", err)
	}
	ua, err := db.Get("ghost")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ua != nil {
		t.Error("evaluation must not create a record for an uninitialized user")
	}
}

func TestEvaluator_EmptyUserID(t *testing.T) {
	ev, _ := seededEvaluator(t, "alice")

	if err := ev.CheckAchievements(context.Background(), "", domain.ActionMealLog, nil); err == nil {
		t.Error("empty user id should be an error")
	}
}

func TestEvaluator_CancelledContext(t *testing.T) {
	ev, _ := seededEvaluator(t, "alice")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := ev.CheckAchievements(ctx, "alice", domain.ActionMealLog, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

// failingStore wraps a real store and fails Award.
type failingStore struct {
	domain.ProgressStore
	awardErr error
}

func (f *failingStore) Award(userID, achievementID string, points int) error {
	return f.awardErr
}

func TestEvaluator_StoreErrorPropagates(t *testing.T) {
	db := testDB(t)
	if _, err := achievement.SeedDefaults(db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := db.Initialize("alice"); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	boom := errors.New("disk full")
	ev := achievement.NewEvaluator(db, &failingStore{ProgressStore: db, awardErr: boom})

	err := ev.CheckAchievements(context.Background(), "alice", domain.ActionMealLog, nil)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped store failure", err)
	}
}

// recordingNotifier captures award callbacks.
type recordingNotifier struct {
	mu     sync.Mutex
	awards []string
}

func (r *recordingNotifier) AchievementAwarded(userID string, def domain.AchievementDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.awards = append(r.awards, def.ID)
}

func TestEvaluator_NotifierCalledOnAward(t *testing.T) {
	ev, _ := seededEvaluator(t, "alice")
	rec := &recordingNotifier{}
	ev.SetNotifier(rec)

	ev.CheckAchievements(context.Background(), "alice", domain.ActionMealLog, nil)

	found := false
	for _, id := range rec.awards {
		if id == "first_meal_log" {
			found = true
		}
	}
	if !found {
		t.Errorf("notifier awards = %v, want first_meal_log", rec.awards)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Concurrency
// ═══════════════════════════════════════════════════════════════════════════

func TestEvaluator_ConcurrentEventsKeepPointsExact(t *testing.T) {
	ev, db := seededEvaluator(t, "alice")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ev.CheckAchievements(context.Background(), "alice", domain.ActionPhotoLog, nil)
		}()
	}
	wg.Wait()

	ua := mustGet(t, db, "alice")
	if ua.TotalPoints != 10 {
		t.Errorf("total points = %d after concurrent delivery, want exactly 10", ua.TotalPoints)
	}
	if got := ua.Tracker("photos_25").CurrentCount; got != 16 {
		t.Errorf("photos_25 count = %d, want 16", got)
	}
}

func TestEvaluator_ConcurrentUsersIndependent(t *testing.T) {
	db := testDB(t)
	if _, err := achievement.SeedDefaults(db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	ev := achievement.NewEvaluator(db, db)

	users := []string{"alice", "bob", "carol"}
	for _, u := range users {
		if _, err := db.Initialize(u); err != nil {
			t.Fatalf("initialize %s: %v", u, err)
		}
	}

	var wg sync.WaitGroup
	for _, u := range users {
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func(user string) {
				defer wg.Done()
				_ = ev.CheckAchievements(context.Background(), user, domain.ActionMealLog, nil)
			}(u)
		}
	}
	wg.Wait()

	for _, u := range users {
		ua := mustGet(t, db, u)
		if !ua.HasEarned("first_meal_log") {
			t.Errorf("%s: first_meal_log not earned", u)
		}
		if ua.TotalPoints != 10 {
			t.Errorf("%s: points = %d, want 10", u, ua.TotalPoints)
		}
		if got := ua.Tracker("meals_10").CurrentCount; got != 5 {
			t.Errorf("%s: meals_10 count = %d, want 5", u, got)
		}
	}
}
