package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAdmitsFirstAndBlocksBurst(t *testing.T) {
	r := NewRateLimiter(time.Hour, time.Hour)
	defer r.Stop()

	assert.True(t, r.Allow(ClassMessage, 1))
	assert.False(t, r.Allow(ClassMessage, 1))
}

func TestRateLimiterIsPerUser(t *testing.T) {
	r := NewRateLimiter(time.Hour, time.Hour)
	defer r.Stop()

	assert.True(t, r.Allow(ClassMessage, 1))
	assert.True(t, r.Allow(ClassMessage, 2))
	assert.False(t, r.Allow(ClassMessage, 1))
}

func TestRateLimiterClassesAreIndependent(t *testing.T) {
	r := NewRateLimiter(time.Hour, time.Hour)
	defer r.Stop()

	assert.True(t, r.Allow(ClassMessage, 1))
	assert.True(t, r.Allow(ClassCallback, 1))
	assert.False(t, r.Allow(ClassMessage, 1))
	assert.False(t, r.Allow(ClassCallback, 1))
}

func TestRateLimiterRecoversAfterInterval(t *testing.T) {
	r := NewRateLimiter(20*time.Millisecond, 20*time.Millisecond)
	defer r.Stop()

	assert.True(t, r.Allow(ClassMessage, 1))
	assert.False(t, r.Allow(ClassMessage, 1))

	time.Sleep(30 * time.Millisecond)
	assert.True(t, r.Allow(ClassMessage, 1))
}

func TestRateLimiterZeroIntervalAdmitsEverything(t *testing.T) {
	r := NewRateLimiter(0, 0)
	defer r.Stop()

	for i := 0; i < 100; i++ {
		assert.True(t, r.Allow(ClassMessage, 1))
	}
	assert.Equal(t, 0, r.size())
}

func TestRateLimiterPrunesIdleEntries(t *testing.T) {
	r := NewRateLimiter(time.Hour, time.Hour)
	defer r.Stop()

	r.Allow(ClassMessage, 1)
	r.Allow(ClassCallback, 2)
	assert.Equal(t, 2, r.size())

	r.prune(time.Now().Add(11*time.Hour), 10*time.Hour)
	assert.Equal(t, 0, r.size())
}
