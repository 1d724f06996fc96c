package achievement

import (
	"testing"
	"time"

	"github.com/bitewise-app/bitewise/internal/domain"
)

// memNotifStore is an in-memory NotificationStore.
type memNotifStore struct {
	inserted []domain.Notification
	failure  error
}

func (m *memNotifStore) InsertNotification(n domain.Notification) (int64, error) {
	if m.failure != nil {
		return 0, m.failure
	}
	m.inserted = append(m.inserted, n)
	return int64(len(m.inserted)), nil
}

func (m *memNotifStore) NotificationCountSince(userID string, since time.Time) (int, error) {
	count := 0
	for _, n := range m.inserted {
		if n.UserID == userID && !n.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func awardDef() domain.AchievementDefinition {
	return domain.AchievementDefinition{
		ID:          "first_meal_log",
		Name:        "First Bite",
		Description: "Log your first meal.",
		Reward:      domain.Reward{Points: 10},
	}
}

func notifierAt(store *memNotifStore, policy domain.NotificationPolicy, now time.Time) *AwardNotifier {
	n := NewAwardNotifier(store, policy)
	n.now = func() time.Time { return now }
	return n
}

func TestNotifier_QueuesAward(t *testing.T) {
	store := &memNotifStore{}
	noonLocal := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	n := notifierAt(store, domain.DefaultNotificationPolicy(), noonLocal)

	n.AchievementAwarded("alice", awardDef())

	if len(store.inserted) != 1 {
		t.Fatalf("inserted = %d, want 1", len(store.inserted))
	}
	got := store.inserted[0]
	if got.Type != domain.NotifyAchievement {
		t.Errorf("type = %s", got.Type)
	}
	if got.Title != "Achievement unlocked: First Bite" {
		t.Errorf("title = %q", got.Title)
	}
}

func TestNotifier_DailyCap(t *testing.T) {
	store := &memNotifStore{}
	noonLocal := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	policy := domain.NotificationPolicy{MaxPerDay: 2, QuietStart: "23:00", QuietEnd: "06:00"}
	n := notifierAt(store, policy, noonLocal)

	for i := 0; i < 5; i++ {
		n.AchievementAwarded("alice", awardDef())
	}

	if len(store.inserted) != 2 {
		t.Errorf("inserted = %d, want the cap of 2", len(store.inserted))
	}
}

func TestNotifier_QuietHours(t *testing.T) {
	store := &memNotifStore{}
	lateNight := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	n := notifierAt(store, domain.DefaultNotificationPolicy(), lateNight)

	n.AchievementAwarded("alice", awardDef())
	if len(store.inserted) != 0 {
		t.Error("awards inside quiet hours should not notify")
	}

	earlyMorning := time.Date(2026, 3, 11, 3, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return earlyMorning }
	n.AchievementAwarded("alice", awardDef())
	if len(store.inserted) != 0 {
		t.Error("quiet window wraps midnight, 03:00 is still quiet")
	}

	morning := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return morning }
	n.AchievementAwarded("alice", awardDef())
	if len(store.inserted) != 1 {
		t.Error("09:00 is outside quiet hours, should notify")
	}
}

func TestNotifier_StoreFailureSwallowed(t *testing.T) {
	store := &memNotifStore{failure: domain.ErrProfileNotFound}
	noonLocal := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	n := notifierAt(store, domain.DefaultNotificationPolicy(), noonLocal)

	// Must not panic or propagate: awards are durable regardless.
	n.AchievementAwarded("alice", awardDef())
}

func TestInQuietHours(t *testing.T) {
	tests := []struct {
		hour, minute int
		want         bool
	}{
		{22, 0, true},
		{23, 59, true},
		{0, 30, true},
		{7, 59, true},
		{8, 0, false},
		{12, 0, false},
		{21, 59, false},
	}
	for _, tt := range tests {
		now := time.Date(2026, 3, 10, tt.hour, tt.minute, 0, 0, time.UTC)
		if got := inQuietHours(now, "22:00", "08:00"); got != tt.want {
			t.Errorf("inQuietHours(%02d:%02d) = %v, want %v", tt.hour, tt.minute, got, tt.want)
		}
	}
}
