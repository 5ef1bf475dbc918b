package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/xdimtech/go-wsecho/pkg/metrics"
)

const (
	DefaultQueueSize        = 256
	DefaultHandshakeTimeout = 10 * time.Second
)

type Option func(*Task)

func WithLogger(logger *zap.Logger) Option {
	return func(t *Task) {
		if logger != nil {
			t.logger = logger
		}
	}
}

func WithMetrics(c *metrics.Collector) Option {
	return func(t *Task) {
		t.metrics = c
	}
}

// WithDialer replaces the gorilla dialer. The dialer is copied.
func WithDialer(d *websocket.Dialer) Option {
	return func(t *Task) {
		if d != nil {
			t.dialer = *d
		}
	}
}

func WithHandshakeTimeout(timeout time.Duration) Option {
	return func(t *Task) {
		t.dialer.HandshakeTimeout = timeout
	}
}

// WithWriteTimeout bounds each Send. Zero means no deadline.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(t *Task) {
		t.writeTimeout = timeout
	}
}

// WithReadLimit caps the size of an incoming message. Zero means no limit.
func WithReadLimit(limit int64) Option {
	return func(t *Task) {
		t.readLimit = limit
	}
}

func WithCompression(enabled bool) Option {
	return func(t *Task) {
		t.dialer.EnableCompression = enabled
	}
}

func WithSubprotocols(protocols ...string) Option {
	return func(t *Task) {
		t.dialer.Subprotocols = lo.Uniq(append(t.dialer.Subprotocols, protocols...))
	}
}

// WithHeader adds handshake request headers.
func WithHeader(header http.Header) Option {
	return func(t *Task) {
		for key, values := range header {
			for _, value := range values {
				t.header.Add(key, value)
			}
		}
	}
}

// WithQueueSize sets how many undelivered events may be buffered before the
// read loop waits for the dispatcher.
func WithQueueSize(size int) Option {
	return func(t *Task) {
		if size > 0 {
			t.queueSize = size
		}
	}
}
