// Package guard prevents concurrent or rapid repeated swap attempts for
// the same account.
package guard

import (
	"sync"
	"time"
)

// Guard is the reservation contract consumed by the swap pipeline
type Guard interface {
	// TryReserve records an attempt for the account and returns true, or
	// returns false if a reservation younger than the cooldown window exists.
	TryReserve(account string) bool

	// Release deletes the reservation immediately regardless of age.
	// Called on attempt failure to permit prompt retry; a no-op when no
	// reservation exists.
	Release(account string)
}

// CooldownGuard is an in-memory Guard backed by a mutex-guarded map from
// account to last-attempt time. A crash loses the map and permits one
// extra duplicate attempt, which the coordinator rejects downstream.
type CooldownGuard struct {
	window  time.Duration
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

var _ Guard = (*CooldownGuard)(nil)

// NewCooldownGuard creates a guard with the given cooldown window
func NewCooldownGuard(window time.Duration) *CooldownGuard {
	return &CooldownGuard{
		window:  window,
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (g *CooldownGuard) TryReserve(account string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if last, exists := g.entries[account]; exists {
		if now.Sub(last) < g.window {
			return false
		}
		// Window elapsed naturally, the stale entry is replaced below
	}

	g.entries[account] = now
	return true
}

func (g *CooldownGuard) Release(account string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.entries, account)
}

// ActiveReservations returns the number of accounts currently reserved,
// counting only entries still inside the cooldown window.
func (g *CooldownGuard) ActiveReservations() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	count := 0
	for account, last := range g.entries {
		if now.Sub(last) < g.window {
			count++
		} else {
			delete(g.entries, account)
		}
	}
	return count
}

// SetNowFunc overrides the time source, used by tests to simulate the
// passage of the cooldown window.
func (g *CooldownGuard) SetNowFunc(now func() time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.now = now
}
