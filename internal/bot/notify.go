package bot

import (
	"sync"

	"go.uber.org/zap"
)

type task struct {
	name string
	fn   func() error
}

// Notifier runs fire-and-forget side-channel work (operator alerts) on a
// small worker pool. A failing or panicking task is logged and contained;
// it can never fail the user-facing flow that queued it.
type Notifier struct {
	tasks chan task
	wg    sync.WaitGroup
	log   *zap.Logger
	once  sync.Once
}

func NewNotifier(workers, queueSize int, log *zap.Logger) *Notifier {
	if workers < 1 {
		workers = 1
	}
	n := &Notifier{
		tasks: make(chan task, queueSize),
		log:   log,
	}
	n.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go n.worker()
	}
	return n
}

// Submit queues a task without blocking. When the queue is full the task
// is dropped and logged; operator notifications are best-effort.
func (n *Notifier) Submit(name string, fn func() error) {
	select {
	case n.tasks <- task{name: name, fn: fn}:
	default:
		n.log.Warn("notifier queue full, dropping task", zap.String("task", name))
	}
}

// Close drains queued tasks and stops the workers.
func (n *Notifier) Close() {
	n.once.Do(func() { close(n.tasks) })
	n.wg.Wait()
}

func (n *Notifier) worker() {
	defer n.wg.Done()
	for t := range n.tasks {
		n.run(t)
	}
}

func (n *Notifier) run(t task) {
	defer func() {
		if rec := recover(); rec != nil {
			n.log.Error("notifier task panicked",
				zap.String("task", t.name),
				zap.Any("panic", rec),
			)
		}
	}()
	if err := t.fn(); err != nil {
		n.log.Error("notifier task failed", zap.String("task", t.name), zap.Error(err))
	}
}
