package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/accountd/accountd/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type appMetrics struct {
	authAttemptCounter metric.Int64Counter
	otpIssuedCounter   metric.Int64Counter
	otpConsumedCounter metric.Int64Counter
	mailDispatchCount  metric.Int64Counter
	idempotencyCounter metric.Int64Counter
	authReqDuration    metric.Float64Histogram
}

var (
	metricsMu sync.RWMutex
	metrics   *appMetrics
)

func InitMetrics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	if !cfg.OTELMetricsEnabled {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		logger.Info("otel metrics disabled")
		return mp, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTELExporterOTLPEndpoint)}
	if cfg.OTELExporterOTLPInsecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}

	res, err := serviceResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create metric resource: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.OTELMetricsExportInterval))
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
		sdkmetric.WithView(sdkmetric.NewView(
			sdkmetric.Instrument{Name: "auth.request.duration"},
			sdkmetric.Stream{
				Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
					Boundaries: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
				},
			},
		)),
	)
	otel.SetMeterProvider(mp)

	meter := mp.Meter("accountd")
	m := &appMetrics{}
	if m.authAttemptCounter, err = meter.Int64Counter("auth.attempts"); err != nil {
		return nil, err
	}
	if m.otpIssuedCounter, err = meter.Int64Counter("auth.otp.issued"); err != nil {
		return nil, err
	}
	if m.otpConsumedCounter, err = meter.Int64Counter("auth.otp.consumed"); err != nil {
		return nil, err
	}
	if m.mailDispatchCount, err = meter.Int64Counter("mail.dispatch"); err != nil {
		return nil, err
	}
	if m.idempotencyCounter, err = meter.Int64Counter("http.idempotency.events"); err != nil {
		return nil, err
	}
	if m.authReqDuration, err = meter.Float64Histogram("auth.request.duration",
		metric.WithUnit("s")); err != nil {
		return nil, err
	}

	metricsMu.Lock()
	metrics = m
	metricsMu.Unlock()
	logger.Info("otel metrics initialized", "endpoint", cfg.OTELExporterOTLPEndpoint)
	return mp, nil
}

func current() *appMetrics {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return metrics
}

// RecordAuthAttempt counts register/login/logout outcomes.
func RecordAuthAttempt(ctx context.Context, operation, outcome string) {
	if m := current(); m != nil {
		m.authAttemptCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("outcome", outcome),
		))
	}
}

func RecordOTPIssued(ctx context.Context, workflow, outcome string) {
	if m := current(); m != nil {
		m.otpIssuedCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("workflow", workflow),
			attribute.String("outcome", outcome),
		))
	}
}

func RecordOTPConsumed(ctx context.Context, workflow, outcome string) {
	if m := current(); m != nil {
		m.otpConsumedCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("workflow", workflow),
			attribute.String("outcome", outcome),
		))
	}
}

func RecordMailDispatch(ctx context.Context, kind, outcome string) {
	if m := current(); m != nil {
		m.mailDispatchCount.Add(ctx, 1, metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("outcome", outcome),
		))
	}
}

func RecordIdempotencyEvent(ctx context.Context, scope, event string) {
	if m := current(); m != nil {
		m.idempotencyCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("scope", scope),
			attribute.String("event", event),
		))
	}
}

func RecordAuthRequestDuration(ctx context.Context, operation, outcome string, d time.Duration) {
	if m := current(); m != nil {
		m.authReqDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("outcome", outcome),
		))
	}
}
