package achievement

import "sync"

// userLocks hands out one mutex per user ID so that overlapping
// evaluations for the same user serialize while different users run
// fully in parallel. Locks are never reclaimed; the map grows with the
// active user set, a few dozen bytes per user.
type userLocks struct {
	locks sync.Map
}

// get returns the mutex for a user, creating it on first use.
func (l *userLocks) get(userID string) *sync.Mutex {
	mu, _ := l.locks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
