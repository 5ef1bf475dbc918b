package ws

import (
	"sync/atomic"
)

type eventKind int

const (
	eventOpen eventKind = iota
	eventClose
	eventError
	eventMessage
	numEvents
)

func (k eventKind) String() string {
	switch k {
	case eventOpen:
		return "open"
	case eventClose:
		return "close"
	case eventError:
		return "error"
	case eventMessage:
		return "message"
	default:
		return "unknown"
	}
}

// event is one lifecycle notification produced by the read side of a task.
type event struct {
	kind      eventKind
	frameType int
	data      []byte
	err       error
}

// listener is a registration guard. Once released its handler never runs again.
type listener struct {
	kind    eventKind
	handler atomic.Pointer[func(event)]
}

func newListener(kind eventKind, fn func(event)) *listener {
	l := &listener{kind: kind}
	l.handler.Store(&fn)
	return l
}

// fire runs the handler unless the guard was released. It reports whether
// the handler ran.
func (l *listener) fire(ev event) bool {
	fn := l.handler.Load()
	if fn == nil {
		return false
	}
	(*fn)(ev)
	return true
}

func (l *listener) release() {
	l.handler.Store(nil)
}

func (l *listener) attached() bool {
	return l.handler.Load() != nil
}

type listenerSet [numEvents]*listener

func (s *listenerSet) attach(kind eventKind, fn func(event)) {
	s[kind] = newListener(kind, fn)
}

func (s *listenerSet) fire(ev event) bool {
	if ev.kind < 0 || ev.kind >= numEvents {
		return false
	}
	l := s[ev.kind]
	if l == nil {
		return false
	}
	return l.fire(ev)
}

func (s *listenerSet) releaseAll() {
	for _, l := range s {
		if l != nil {
			l.release()
		}
	}
}
