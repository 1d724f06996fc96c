package achievement

import (
	"fmt"
	"log"
	"time"

	"github.com/bitewise-app/bitewise/internal/domain"
)

// NotificationStore is the slice of storage the notifier needs.
type NotificationStore interface {
	InsertNotification(n domain.Notification) (int64, error)
	NotificationCountSince(userID string, since time.Time) (int, error)
}

// AwardNotifier queues an in-app notification when an achievement is
// awarded. Delivery is best effort: the award itself is already durable,
// so notification failures are logged and swallowed.
type AwardNotifier struct {
	store  NotificationStore
	policy domain.NotificationPolicy
	now    func() time.Time
}

// NewAwardNotifier creates a notifier with the given delivery policy.
func NewAwardNotifier(store NotificationStore, policy domain.NotificationPolicy) *AwardNotifier {
	return &AwardNotifier{store: store, policy: policy, now: time.Now}
}

// AchievementAwarded implements Notifier.
func (n *AwardNotifier) AchievementAwarded(userID string, def domain.AchievementDefinition) {
	now := n.now()
	if n.suppressed(userID, now) {
		return
	}
	notif := domain.Notification{
		UserID:    userID,
		Type:      domain.NotifyAchievement,
		Title:     "Achievement unlocked: " + def.Name,
		Body:      fmt.Sprintf("%s (+%d points)", def.Description, def.Reward.Points),
		CreatedAt: now,
	}
	if _, err := n.store.InsertNotification(notif); err != nil {
		log.Printf("[achievement] notification for %s/%s dropped: %v", userID, def.ID, err)
	}
}

func (n *AwardNotifier) suppressed(userID string, now time.Time) bool {
	if inQuietHours(now, n.policy.QuietStart, n.policy.QuietEnd) {
		return true
	}
	if n.policy.MaxPerDay <= 0 {
		return false
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	count, err := n.store.NotificationCountSince(userID, midnight)
	if err != nil {
		log.Printf("[achievement] notification count for %s unavailable: %v", userID, err)
		return false
	}
	return count >= n.policy.MaxPerDay
}

// inQuietHours reports whether now falls in the [start, end) window.
// A window where start > end wraps across midnight.
func inQuietHours(now time.Time, start, end string) bool {
	s, errS := time.Parse("15:04", start)
	e, errE := time.Parse("15:04", end)
	if errS != nil || errE != nil {
		return false
	}
	cur := now.Hour()*60 + now.Minute()
	sm := s.Hour()*60 + s.Minute()
	em := e.Hour()*60 + e.Minute()
	if sm <= em {
		return cur >= sm && cur < em
	}
	return cur >= sm || cur < em
}
