package bot

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNotifierRunsSubmittedTasks(t *testing.T) {
	n := NewNotifier(2, 16, zap.NewNop())

	var ran int64
	for i := 0; i < 5; i++ {
		n.Submit("count", func() error {
			atomic.AddInt64(&ran, 1)
			return nil
		})
	}
	n.Close()

	assert.Equal(t, int64(5), atomic.LoadInt64(&ran))
}

func TestNotifierContainsPanicsAndErrors(t *testing.T) {
	n := NewNotifier(1, 16, zap.NewNop())

	var ran bool
	n.Submit("boom", func() error { panic("boom") })
	n.Submit("fails", func() error { return errors.New("nope") })
	n.Submit("after", func() error {
		ran = true
		return nil
	})
	n.Close()

	assert.True(t, ran, "worker must survive a panicking task")
}

func TestNotifierDropsWhenQueueIsFull(t *testing.T) {
	n := NewNotifier(1, 1, zap.NewNop())

	block := make(chan struct{})
	n.Submit("blocker", func() error {
		<-block
		return nil
	})

	var dropped int64
	// The worker is busy and the queue holds one task; everything past
	// that is dropped on the floor.
	for i := 0; i < 10; i++ {
		n.Submit("burst", func() error {
			atomic.AddInt64(&dropped, 1)
			return nil
		})
	}
	close(block)
	n.Close()

	assert.LessOrEqual(t, atomic.LoadInt64(&dropped), int64(1))
}
