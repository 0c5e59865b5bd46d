package otel_test

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/emiliopalmerini/sensorystats/internal/adapters/otel"
	"github.com/emiliopalmerini/sensorystats/internal/domain"
	"github.com/emiliopalmerini/sensorystats/internal/ports"
)

var (
	_ ports.MetricsExporter = (*otel.Exporter)(nil)
	_ ports.MetricsExporter = (*otel.NoOpExporter)(nil)
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestExporter_RecordSession(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()

	exp, err := otel.NewExporterWithReader(ctx, reader)
	if err != nil {
		t.Fatalf("NewExporterWithReader failed: %v", err)
	}
	t.Cleanup(func() { _ = exp.Close(ctx) })

	sessions := []*domain.Session{
		{ID: "a", Theme: "Space", Duration: 1200, Touches: 189, Streaks: 15, CompletedFull: true},
		{ID: "b", Theme: "Space", Duration: 600, Touches: 11, Streaks: 2, CompletedFull: true},
	}
	for _, s := range sessions {
		if err := exp.RecordSession(ctx, s); err != nil {
			t.Fatalf("RecordSession failed: %v", err)
		}
	}

	metrics := collect(t, reader)

	sessionsSum, ok := metrics["sensorystats_sessions_total"].Data.(metricdata.Sum[int64])
	if !ok || len(sessionsSum.DataPoints) != 1 {
		t.Fatalf("unexpected sessions metric: %+v", metrics["sensorystats_sessions_total"])
	}
	if got := sessionsSum.DataPoints[0].Value; got != 2 {
		t.Errorf("sessions total = %d, want 2", got)
	}
	theme, _ := sessionsSum.DataPoints[0].Attributes.Value("theme")
	if theme.AsString() != "Space" {
		t.Errorf("theme attribute = %q, want Space", theme.AsString())
	}

	touchesSum, ok := metrics["sensorystats_session_touches_total"].Data.(metricdata.Sum[int64])
	if !ok || len(touchesSum.DataPoints) != 1 {
		t.Fatalf("unexpected touches metric: %+v", metrics["sensorystats_session_touches_total"])
	}
	if got := touchesSum.DataPoints[0].Value; got != 200 {
		t.Errorf("touches total = %d, want 200", got)
	}

	duration, ok := metrics["sensorystats_session_duration_seconds"].Data.(metricdata.Histogram[float64])
	if !ok || len(duration.DataPoints) != 1 {
		t.Fatalf("unexpected duration metric: %+v", metrics["sensorystats_session_duration_seconds"])
	}
	if dp := duration.DataPoints[0]; dp.Count != 2 || dp.Sum != 1800 {
		t.Errorf("duration histogram count=%d sum=%v, want 2 and 1800", dp.Count, dp.Sum)
	}
}

func TestNewExporter_Disabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  otel.Config
	}{
		{"disabled", otel.Config{Endpoint: "localhost:4317"}},
		{"no endpoint", otel.Config{Enabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := otel.NewExporter(context.Background(), tt.cfg); err == nil {
				t.Error("expected error for inactive config")
			}
		})
	}
}
