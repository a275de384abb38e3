package telemetry

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all custom metrics for the service
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal metric.Int64Counter
	HTTPDurationMs    metric.Float64Histogram

	// Business metrics
	WorkflowOutcomeTotal metric.Int64Counter
	PriceFallbackTotal   metric.Int64Counter
	RecordTotal          metric.Int64Counter
	ProfessionalTotal    metric.Int64Counter

	// Auth metrics
	AuthFailuresTotal       metric.Int64Counter
	PermissionCheckDuration metric.Float64Histogram
}

// InitMetrics initializes all custom metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("github.com/CuraLedger-Health/subscription-service")

	// HTTP request counter
	httpRequestsTotal, err := meter.Int64Counter(
		"http_server_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	// HTTP duration histogram
	httpDurationMs, err := meter.Float64Histogram(
		"http_server_duration_milliseconds",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	// Workflow outcome counter
	workflowOutcomeTotal, err := meter.Int64Counter(
		"subscription_workflow_outcome_total",
		metric.WithDescription("Total number of purchase workflow runs by final state"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	// Price fallback counter
	priceFallbackTotal, err := meter.Int64Counter(
		"price_fallback_total",
		metric.WithDescription("Total number of purchases that proceeded without an exchange rate"),
		metric.WithUnit("{fallback}"),
	)
	if err != nil {
		return nil, err
	}

	// Record counter
	recordTotal, err := meter.Int64Counter(
		"record_total",
		metric.WithDescription("Total number of patient record operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	// Professional counter
	professionalTotal, err := meter.Int64Counter(
		"professional_total",
		metric.WithDescription("Total number of health professional operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	// Auth failures counter
	authFailuresTotal, err := meter.Int64Counter(
		"auth_failures_total",
		metric.WithDescription("Total number of authentication failures"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	// Permission check duration histogram
	permissionCheckDuration, err := meter.Float64Histogram(
		"permission_check_duration_ms",
		metric.WithDescription("Permission check duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	log.Println("✓ Custom metrics initialized")

	return &Metrics{
		HTTPRequestsTotal:       httpRequestsTotal,
		HTTPDurationMs:          httpDurationMs,
		WorkflowOutcomeTotal:    workflowOutcomeTotal,
		PriceFallbackTotal:      priceFallbackTotal,
		RecordTotal:             recordTotal,
		ProfessionalTotal:       professionalTotal,
		AuthFailuresTotal:       authFailuresTotal,
		PermissionCheckDuration: permissionCheckDuration,
	}, nil
}

// RecordHTTPRequest records an HTTP request metric
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64) {
	attrs := []attribute.KeyValue{
		attribute.String("http_method", method),
		attribute.String("http_route", route),
		attribute.Int("http_status_code", statusCode),
	}

	m.HTTPRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.HTTPDurationMs.Record(ctx, durationMs, metric.WithAttributes(attrs...))
}

// RecordWorkflowOutcome records the final state of a purchase workflow run
func (m *Metrics) RecordWorkflowOutcome(ctx context.Context, state, planName string) {
	m.WorkflowOutcomeTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("state", state),
		attribute.String("plan", planName),
	))
}

// RecordPriceFallback records a purchase that proceeded with an unknown exchange rate
func (m *Metrics) RecordPriceFallback(ctx context.Context) {
	m.PriceFallbackTotal.Add(ctx, 1)
}

// RecordRecordOperation records a patient record operation metric
func (m *Metrics) RecordRecordOperation(ctx context.Context, operation string) {
	m.RecordTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// RecordProfessionalOperation records a health professional operation metric
func (m *Metrics) RecordProfessionalOperation(ctx context.Context, operation string) {
	m.ProfessionalTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// RecordAuthFailure records an authentication failure metric
func (m *Metrics) RecordAuthFailure(ctx context.Context, reason string) {
	m.AuthFailuresTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

// RecordPermissionCheck records a permission check duration metric
func (m *Metrics) RecordPermissionCheck(ctx context.Context, permission string, durationMs float64, allowed bool) {
	m.PermissionCheckDuration.Record(ctx, durationMs, metric.WithAttributes(
		attribute.String("permission", permission),
		attribute.Bool("allowed", allowed),
	))
}
