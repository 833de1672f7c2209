package interaction

import "sync"

// lanes serializes work per key. Waiters on the same key are granted in
// arrival order and at most one holds a key at a time.
type lanes struct {
	mu     sync.Mutex
	queues map[string][]chan struct{}
}

func newLanes() *lanes {
	return &lanes{queues: make(map[string][]chan struct{})}
}

// acquire blocks until key is granted or done is closed. The returned
// release must be called exactly once after a successful acquire.
func (l *lanes) acquire(done <-chan struct{}, key string) (func(), bool) {
	ch := make(chan struct{})

	l.mu.Lock()
	q := l.queues[key]
	l.queues[key] = append(q, ch)
	if len(q) == 0 {
		close(ch)
	}
	l.mu.Unlock()

	select {
	case <-ch:
		var once sync.Once
		return func() { once.Do(func() { l.drop(key, ch) }) }, true
	case <-done:
		l.drop(key, ch)
		return nil, false
	}
}

// drop removes ch from key's queue and promotes the next waiter when ch
// held the grant. A waiter that gave up after being granted passes it on.
func (l *lanes) drop(key string, ch chan struct{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.removeLocked(key, ch)
}

func (l *lanes) removeLocked(key string, ch chan struct{}) {
	q := l.queues[key]
	for i, c := range q {
		if c != ch {
			continue
		}
		next := append(q[:i:i], q[i+1:]...)
		if len(next) == 0 {
			delete(l.queues, key)
			return
		}
		l.queues[key] = next
		// Only the head is ever closed, so removing it promotes the next waiter
		if i == 0 {
			close(next[0])
		}
		return
	}
}

// pending reports how many callers hold or wait for key.
func (l *lanes) pending(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queues[key])
}
