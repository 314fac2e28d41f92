package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestPerfStatsRecord(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	stats, err := newPerfStats(provider.Meter("test"))
	require.NoError(t, err)
	require.NoError(t, stats.record(context.Background()))

	var data metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &data))

	recorded := map[string]metricdata.Aggregation{}
	for _, scope := range data.ScopeMetrics {
		for _, m := range scope.Metrics {
			recorded[m.Name] = m.Data
		}
	}
	require.Contains(t, recorded, "cpu_usage")
	require.Contains(t, recorded, "allocated_mb")
	require.Contains(t, recorded, "live_objects")

	goroutines, ok := recorded["goroutine_count"].(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, goroutines.DataPoints, 1)
	require.Positive(t, goroutines.DataPoints[0].Value)
}
