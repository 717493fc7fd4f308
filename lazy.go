package sentex

import (
	"sync"
	"sync/atomic"
)

// lazy holds a value built at most once. A failed build leaves the slot
// empty so a later get builds again.
type lazy[T any] struct {
	mu    sync.Mutex
	done  atomic.Bool
	value T
}

func (l *lazy[T]) get(build func() (T, error)) (T, error) {
	if l.done.Load() {
		return l.value, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done.Load() {
		return l.value, nil
	}

	v, err := build()
	if err != nil {
		var zero T
		return zero, err
	}
	l.value = v
	l.done.Store(true)
	return v, nil
}

func (l *lazy[T]) loaded() bool {
	return l.done.Load()
}

// peek returns the held value without building it.
func (l *lazy[T]) peek() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.done.Load()
}
