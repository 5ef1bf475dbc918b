package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wsecho"

const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// Collector counts socket activity. A nil *Collector is valid and records nothing.
type Collector struct {
	Frames       *prometheus.CounterVec
	Statuses     *prometheus.CounterVec
	DecodeErrors prometheus.Counter
	SendFailures prometheus.Counter
}

// NewCollector registers the socket metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		Frames: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "frames_total",
				Help:      "Frames sent and received, by direction and kind",
			},
			[]string{"direction", "kind"},
		),
		Statuses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "status_total",
				Help:      "Connection status notifications delivered",
			},
			[]string{"status"},
		),
		DecodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_errors_total",
			Help:      "Incoming frames dropped because they could not be decoded",
		}),
		SendFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "send_failures_total",
			Help:      "Outgoing frames the transport refused",
		}),
	}
}

func (c *Collector) Frame(direction, kind string) {
	if c == nil {
		return
	}
	c.Frames.WithLabelValues(direction, kind).Inc()
}

func (c *Collector) Status(status string) {
	if c == nil {
		return
	}
	c.Statuses.WithLabelValues(status).Inc()
}

func (c *Collector) DecodeError() {
	if c == nil {
		return
	}
	c.DecodeErrors.Inc()
}

func (c *Collector) SendFailure() {
	if c == nil {
		return
	}
	c.SendFailures.Inc()
}
