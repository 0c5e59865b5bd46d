package otel

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/emiliopalmerini/sensorystats/internal/domain"
)

const (
	serviceName    = "sensorystats"
	serviceVersion = "1.0.0"
)

// Exporter records play-session metrics and pushes them to an OTEL Collector.
type Exporter struct {
	provider      *sdkmetric.MeterProvider
	sessionsTotal metric.Int64Counter
	touchesTotal  metric.Int64Counter
	durationHist  metric.Float64Histogram
	streaksHist   metric.Int64Histogram
}

// NewExporter creates an exporter that ships metrics over OTLP gRPC.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Active() {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	return NewExporterWithReader(ctx, sdkmetric.NewPeriodicReader(exp))
}

// NewExporterWithReader builds the instruments on top of an arbitrary reader.
func NewExporterWithReader(ctx context.Context, reader sdkmetric.Reader) (*Exporter, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)
	meter := provider.Meter(serviceName)

	sessionsTotal, err := meter.Int64Counter(
		"sensorystats_sessions_total",
		metric.WithDescription("Total number of recorded play sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sessions counter: %w", err)
	}

	touchesTotal, err := meter.Int64Counter(
		"sensorystats_session_touches_total",
		metric.WithDescription("Total touches across recorded sessions"),
		metric.WithUnit("{touch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating touches counter: %w", err)
	}

	durationHist, err := meter.Float64Histogram(
		"sensorystats_session_duration_seconds",
		metric.WithDescription("Session duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	streaksHist, err := meter.Int64Histogram(
		"sensorystats_session_streaks",
		metric.WithDescription("Touch streaks per session"),
		metric.WithUnit("{streak}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating streaks histogram: %w", err)
	}

	return &Exporter{
		provider:      provider,
		sessionsTotal: sessionsTotal,
		touchesTotal:  touchesTotal,
		durationHist:  durationHist,
		streaksHist:   streaksHist,
	}, nil
}

// RecordSession records one newly created session.
func (e *Exporter) RecordSession(ctx context.Context, s *domain.Session) error {
	opt := metric.WithAttributes(
		attribute.String("theme", s.Theme),
		attribute.String("completed_full", strconv.FormatBool(s.CompletedFull)),
	)

	e.sessionsTotal.Add(ctx, 1, opt)
	e.touchesTotal.Add(ctx, int64(s.Touches), opt)
	e.durationHist.Record(ctx, float64(s.Duration), opt)
	e.streaksHist.Record(ctx, int64(s.Streaks), opt)

	return nil
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
