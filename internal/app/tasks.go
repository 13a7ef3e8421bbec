package app

import (
	"sync"
	"time"
)

// TaskSet tracks cancelable phase-scoped timers. Callbacks run on their own
// goroutines and re-enter the machine through HandleAction, so firing never
// holds the room lock.
type TaskSet struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewTaskSet returns an empty task set.
func NewTaskSet() *TaskSet {
	return &TaskSet{timers: make(map[string]*time.Timer)}
}

// Schedule arms a named timer, replacing any previous timer with the same
// name.
func (t *TaskSet) Schedule(name string, d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if old, ok := t.timers[name]; ok {
		old.Stop()
	}
	t.timers[name] = time.AfterFunc(d, func() {
		t.forget(name)
		fn()
	})
}

func (t *TaskSet) forget(name string) {
	t.mu.Lock()
	delete(t.timers, name)
	t.mu.Unlock()
}

// Cancel stops one named timer if it is still armed.
func (t *TaskSet) Cancel(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if timer, ok := t.timers[name]; ok {
		timer.Stop()
		delete(t.timers, name)
	}
}

// CancelAll stops every armed timer. Called on every phase transition.
func (t *TaskSet) CancelAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for name, timer := range t.timers {
		timer.Stop()
		delete(t.timers, name)
	}
}

// Pending reports how many timers are armed.
func (t *TaskSet) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.timers)
}
