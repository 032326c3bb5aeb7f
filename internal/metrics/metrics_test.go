package metrics_test

import (
	"testing"

	"github.com/UnknownOlympus/cartograph/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	m.TaskProcessed.WithLabelValues(metrics.StatusSuccess).Inc()
	m.TaskProcessed.WithLabelValues(metrics.StatusNoMatch).Add(2)
	m.APIErrors.WithLabelValues("arcgis_list").Inc()
	m.RequestSeconds.WithLabelValues("arcgis_list").Observe(0.2)
	m.ActiveWorkers.Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(m.TaskProcessed.WithLabelValues(metrics.StatusSuccess)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.TaskProcessed.WithLabelValues(metrics.StatusNoMatch)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.APIErrors.WithLabelValues("arcgis_list")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ActiveWorkers), 0)

	count, err := testutil.GatherAndCount(reg, "geocoding_provider_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.Panics(t, func() { metrics.NewMetrics(reg) }, "duplicate registration must fail")
}
