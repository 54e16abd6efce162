package router

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRouterMetrics_RegistersOnDefaultRegistry(t *testing.T) {
	m := initRouterMetrics("router_test")

	m.requestDuration.WithLabelValues("GET", "/api/v1/users", "200").Observe(0.01)
	m.requestTotal.WithLabelValues("GET", "/api/v1/users", "200").Inc()
	m.errorTotal.WithLabelValues("GET", "/api/v1/users", "http").Inc()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}

	assert.True(t, names["router_test_request_duration_seconds"])
	assert.True(t, names["router_test_requests_total"])
	assert.True(t, names["router_test_errors_total"])
}
