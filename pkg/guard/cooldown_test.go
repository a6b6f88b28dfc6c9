package guard

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTryReserveBlocksWithinWindow(t *testing.T) {
	g := NewCooldownGuard(time.Hour)

	assert.True(t, g.TryReserve("acct-1"))
	assert.False(t, g.TryReserve("acct-1"), "second reserve inside the window must fail")
	assert.True(t, g.TryReserve("acct-2"), "other accounts are unaffected")
}

func TestTryReserveAfterWindowElapses(t *testing.T) {
	g := NewCooldownGuard(3600 * time.Second)

	base := time.Now()
	current := base
	g.SetNowFunc(func() time.Time { return current })

	assert.True(t, g.TryReserve("acct-1"))

	current = base.Add(10 * time.Second)
	assert.False(t, g.TryReserve("acct-1"), "reserved 10s ago with a 3600s cooldown")

	current = base.Add(3601 * time.Second)
	assert.True(t, g.TryReserve("acct-1"), "cooldown elapsed after 3601s")
}

func TestReleasePermitsImmediateRetry(t *testing.T) {
	g := NewCooldownGuard(time.Hour)

	assert.True(t, g.TryReserve("acct-1"))
	g.Release("acct-1")
	assert.True(t, g.TryReserve("acct-1"), "release must permit prompt retry")
}

func TestReleaseIdempotence(t *testing.T) {
	g := NewCooldownGuard(time.Hour)

	// Releasing a missing reservation is a no-op
	g.Release("never-reserved")

	assert.True(t, g.TryReserve("acct-1"))
	g.Release("acct-1")
	g.Release("acct-1")
	assert.True(t, g.TryReserve("acct-1"))
}

func TestConcurrentReserveMutualExclusion(t *testing.T) {
	g := NewCooldownGuard(time.Hour)

	const attempts = 32
	results := make(chan bool, attempts)

	var start sync.WaitGroup
	start.Add(1)

	var done sync.WaitGroup
	for i := 0; i < attempts; i++ {
		done.Add(1)
		go func() {
			defer done.Done()
			start.Wait()
			results <- g.TryReserve("acct-1")
		}()
	}
	start.Done()
	done.Wait()
	close(results)

	granted := 0
	for ok := range results {
		if ok {
			granted++
		}
	}
	assert.Equal(t, 1, granted, "exactly one concurrent reserve may win")
}

func TestActiveReservations(t *testing.T) {
	g := NewCooldownGuard(time.Hour)

	assert.Equal(t, 0, g.ActiveReservations())
	g.TryReserve("acct-1")
	g.TryReserve("acct-2")
	assert.Equal(t, 2, g.ActiveReservations())
	g.Release("acct-1")
	assert.Equal(t, 1, g.ActiveReservations())
}
