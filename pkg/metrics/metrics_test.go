package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.Frame(DirectionOut, "text")
	c.Frame(DirectionOut, "text")
	c.Frame(DirectionIn, "binary")
	c.Status("Opened")
	c.DecodeError()
	c.SendFailure()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Frames.WithLabelValues(DirectionOut, "text")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Frames.WithLabelValues(DirectionIn, "binary")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Statuses.WithLabelValues("Opened")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.DecodeErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.SendFailures))

	n, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.Frame(DirectionIn, "text")
		c.Status("Closed")
		c.DecodeError()
		c.SendFailure()
	})
}
