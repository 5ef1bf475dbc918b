package signal

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetSet(t *testing.T) {
	s := New("initial")
	assert.Equal(t, "initial", s.Get())

	s.Set("next")
	assert.Equal(t, "next", s.Get())
}

func TestSubscribersNotifiedInOrder(t *testing.T) {
	s := New(0)
	var got []string

	s.Subscribe(func(v int) { got = append(got, "a") })
	s.Subscribe(func(v int) { got = append(got, "b") })
	s.Set(1)

	assert.Equal(t, []string{"a", "b"}, got)
}

func TestUnsubscribe(t *testing.T) {
	s := New(0)
	var calls int

	unsubscribe := s.Subscribe(func(int) { calls++ })
	s.Set(1)
	unsubscribe()
	unsubscribe()
	s.Set(2)

	assert.Equal(t, 1, calls)
	assert.Zero(t, s.Subscribers())
}

func TestUpdate(t *testing.T) {
	s := New([]string{"x"})
	var seen []string
	s.Subscribe(func(v []string) { seen = v })

	s.Update(func(v *[]string) { *v = append(*v, "y") })

	assert.Equal(t, []string{"x", "y"}, s.Get())
	assert.Equal(t, []string{"x", "y"}, seen)
}

func TestWatchRunsImmediately(t *testing.T) {
	s := New(7)
	var seen []int

	stop := s.Watch(func(v int) { seen = append(seen, v) })
	s.Set(8)
	stop()
	s.Set(9)

	assert.Equal(t, []int{7, 8}, seen)
}

func TestSubscriberMaySetAnotherSignal(t *testing.T) {
	a := New(0)
	b := New(0)
	a.Subscribe(func(v int) { b.Set(v * 2) })

	a.Set(21)

	assert.Equal(t, 42, b.Get())
}

func TestSubscriberMayUnsubscribeItself(t *testing.T) {
	s := New(0)
	var calls int
	var unsubscribe func()
	unsubscribe = s.Subscribe(func(int) {
		calls++
		unsubscribe()
	})

	s.Set(1)
	s.Set(2)

	assert.Equal(t, 1, calls)
}

func TestConcurrentSet(t *testing.T) {
	s := New(0)
	var mu sync.Mutex
	var calls int
	s.Subscribe(func(int) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			s.Set(v)
			_ = s.Get()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, calls)
}
