package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fpl-go-dashboard/internal/models"
)

func TestDashboardMetrics_Counters(t *testing.T) {
	m, err := NewDashboardMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	m.ObserveRequest("/players", "ok", 120*time.Millisecond)
	m.ObserveRequest("/players", "ok", 80*time.Millisecond)
	m.ObserveRequest("/players", "network_error", time.Millisecond)
	m.ObserveFeed("news", models.SourceStatic)
	m.ObservePageLoad("picks", "success", time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.backendRequestsTotal.WithLabelValues("/players", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.backendRequestsTotal.WithLabelValues("/players", "network_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.feedReadsTotal.WithLabelValues("news", "static")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pageLoadsTotal.WithLabelValues("picks", "success")))

	expected := `
# HELP fpl_feed_reads_total Total number of sidebar feed reads by serving source
# TYPE fpl_feed_reads_total counter
fpl_feed_reads_total{feed="news",source="static"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "fpl_feed_reads_total"))
}

func TestNewDashboardMetrics_DoubleRegisterFails(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := NewDashboardMetrics(registry)
	require.NoError(t, err)
	_, err = NewDashboardMetrics(registry)
	assert.Error(t, err)
}
