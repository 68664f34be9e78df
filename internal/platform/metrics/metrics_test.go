package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistersOnRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("planner", reg)

	m.PlansTotal.WithLabelValues("OK").Inc()
	m.LegsPlanned.Add(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PlansTotal.WithLabelValues("OK")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.LegsPlanned))

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "planner_plans_total")
	assert.Contains(t, names, "planner_legs_planned_total")
}

func TestNewMetricsNilRegistererIsIsolated(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics("planner", nil)
		NewMetrics("planner", nil)
	})
}
