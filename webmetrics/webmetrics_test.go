package webmetrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("registers metrics", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		c, err := New(reg)
		require.NoError(t, err)
		require.NotNil(t, c)
	})

	t.Run("duplicate registration fails", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		_, err := New(reg)
		require.NoError(t, err)

		_, err = New(reg)
		assert.Error(t, err)
	})
}

func TestCollectorObserveRequest(t *testing.T) {
	t.Run("counts by status class", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		c, err := New(reg)
		require.NoError(t, err)

		c.ObserveRequest(200)
		c.ObserveRequest(204)
		c.ObserveRequest(404)
		c.ObserveRequest(303)

		assert.Equal(t, float64(2), testutil.ToFloat64(c.requestsTotal.WithLabelValues("2xx")))
		assert.Equal(t, float64(1), testutil.ToFloat64(c.requestsTotal.WithLabelValues("4xx")))
		assert.Equal(t, float64(1), testutil.ToFloat64(c.requestsTotal.WithLabelValues("3xx")))
	})

	t.Run("out of range codes count as other", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		c, err := New(reg)
		require.NoError(t, err)

		c.ObserveRequest(42)
		c.ObserveRequest(999)

		assert.Equal(t, float64(2), testutil.ToFloat64(c.requestsTotal.WithLabelValues("other")))
	})

	t.Run("nil collector is a no-op", func(t *testing.T) {
		var c *Collector
		assert.NotPanics(t, func() {
			c.ObserveRequest(200)
			c.SetMounts(3)
		})
	})
}

func TestCollectorSetMounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	c.SetMounts(5)
	assert.Equal(t, float64(5), testutil.ToFloat64(c.mounts))
}
