// Package signal holds reactive state: a value plus the subscribers that are
// told whenever it is written.
package signal

import (
	"sync"

	"github.com/samber/lo"
)

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Signal is safe for concurrent use. Subscribers run outside the lock, in
// the order they subscribed, on the goroutine that wrote the value.
type Signal[T any] struct {
	mu     sync.RWMutex
	value  T
	subs   []subscriber[T]
	nextID uint64
}

func New[T any](initial T) *Signal[T] {
	return &Signal[T]{value: initial}
}

func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set stores v and notifies every subscriber.
func (s *Signal[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	subs := s.snapshot()
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(v)
	}
}

// Update modifies the value in place and notifies every subscriber.
func (s *Signal[T]) Update(fn func(*T)) {
	s.mu.Lock()
	fn(&s.value)
	v := s.value
	subs := s.snapshot()
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(v)
	}
}

// Subscribe registers fn for future writes. The returned function removes it.
func (s *Signal[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber[T]{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.subs = lo.Reject(s.subs, func(sub subscriber[T], _ int) bool {
				return sub.id == id
			})
			s.mu.Unlock()
		})
	}
}

// Watch is Subscribe plus an immediate call with the current value.
func (s *Signal[T]) Watch(fn func(T)) (unsubscribe func()) {
	unsubscribe = s.Subscribe(fn)
	fn(s.Get())
	return unsubscribe
}

func (s *Signal[T]) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

func (s *Signal[T]) snapshot() []subscriber[T] {
	return append([]subscriber[T](nil), s.subs...)
}
