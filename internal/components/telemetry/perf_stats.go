package telemetry

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type perfStats struct {
	cpu         metric.Float64Gauge
	memory      metric.Int64Gauge
	liveObjects metric.Int64Gauge
	goroutines  metric.Int64Gauge
}

func newPerfStats(meter metric.Meter) (perfStats, error) {
	cpuGauge, err := meter.Float64Gauge("cpu_usage", metric.WithUnit("%"))
	if err != nil {
		return perfStats{}, err
	}
	memoryGauge, err := meter.Int64Gauge("allocated_mb", metric.WithUnit("MB"))
	if err != nil {
		return perfStats{}, err
	}
	liveObjectsGauge, err := meter.Int64Gauge("live_objects")
	if err != nil {
		return perfStats{}, err
	}
	goroutineGauge, err := meter.Int64Gauge("goroutine_count")
	if err != nil {
		return perfStats{}, err
	}
	return perfStats{
		cpu:         cpuGauge,
		memory:      memoryGauge,
		liveObjects: liveObjectsGauge,
		goroutines:  goroutineGauge,
	}, nil
}

// record takes one sample, the memory and goroutine gauges are recorded even
// if reading the cpu usage fails.
func (p perfStats) record(ctx context.Context) error {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	p.memory.Record(ctx, int64(memStats.Alloc/1_000_000))
	p.liveObjects.Record(ctx, int64(memStats.Mallocs)-int64(memStats.Frees))
	p.goroutines.Record(ctx, int64(runtime.NumGoroutine()))

	// an interval of 0 compares against the previous call
	usage, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return fmt.Errorf("read cpu usage: %w", err)
	}
	if len(usage) == 0 {
		return fmt.Errorf("read cpu usage: no samples")
	}
	p.cpu.Record(ctx, usage[0])
	return nil
}

// InstrumentPerfStats records process cpu, memory and goroutine gauges every
// `interval` until ctx is done. It is meant for long running commands.
func InstrumentPerfStats(ctx context.Context, interval time.Duration, tel API) {
	stats, err := newPerfStats(otel.Meter("go.perf_stats"))
	if err != nil {
		tel.ReportBroken("perf_stats.init", err)
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				err := stats.record(ctx)
				if err != nil {
					tel.ReportWarning("perf_stats.record", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
