package observability

import (
	"context"
	"fmt"
	"time"

	"skillsync/internal/ai"
	"skillsync/internal/config"
	"skillsync/internal/errors"
	"skillsync/internal/session"
	"skillsync/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const tracerName = "skillsync.ai"

// Metrics holds all custom metrics for SkillSync. The zero value records
// nothing.
type Metrics struct {
	custom config.CustomMetricsConfig

	// AI operation metrics
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	// Business metrics
	AnalysesCompleted   metric.Int64Counter
	ReadinessScore      metric.Int64Histogram
	ResumeUploads       metric.Int64Counter
	ChatMessages        metric.Int64Counter
	NavigationRedirects metric.Int64Counter

	// Infrastructure metrics
	RateLimitHits  metric.Int64Counter
	ActiveSessions metric.Int64UpDownCounter
}

var _ session.Recorder = (*Metrics)(nil)

// NewMetrics creates the instruments enabled by custom
func NewMetrics(meter metric.Meter, custom config.CustomMetricsConfig) (*Metrics, error) {
	m := &Metrics{custom: custom}

	if custom.AIOperations.Enabled {
		if err := m.createAIMetrics(meter); err != nil {
			return nil, err
		}
	}
	if custom.BusinessMetrics.Enabled {
		if err := m.createBusinessMetrics(meter); err != nil {
			return nil, err
		}
	}
	if custom.Infrastructure.Enabled {
		if err := m.createInfrastructureMetrics(meter); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// createAIMetrics creates AI-related metrics
func (m *Metrics) createAIMetrics(meter metric.Meter) error {
	var err error

	m.AIProcessingTime, err = meter.Float64Histogram(
		"skillsync_ai_processing_duration_seconds",
		metric.WithDescription("Time spent processing AI requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI processing time metric: %w", err)
	}

	m.AIRequestCount, err = meter.Int64Counter(
		"skillsync_ai_requests_total",
		metric.WithDescription("Total number of AI requests"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI request count metric: %w", err)
	}

	m.AIErrorCount, err = meter.Int64Counter(
		"skillsync_ai_errors_total",
		metric.WithDescription("Total number of AI request errors"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI error count metric: %w", err)
	}

	m.AITokenUsage, err = meter.Int64Histogram(
		"skillsync_ai_token_usage",
		metric.WithDescription("Token usage for AI requests (input, output, total)"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI token usage metric: %w", err)
	}

	return nil
}

// createBusinessMetrics creates business-related metrics
func (m *Metrics) createBusinessMetrics(meter metric.Meter) error {
	var err error

	m.AnalysesCompleted, err = meter.Int64Counter(
		"skillsync_analyses_total",
		metric.WithDescription("Total number of skill gap analyses submitted"),
	)
	if err != nil {
		return fmt.Errorf("failed to create analyses metric: %w", err)
	}

	m.ReadinessScore, err = meter.Int64Histogram(
		"skillsync_career_readiness_score",
		metric.WithDescription("Career readiness score of completed analyses"),
		metric.WithUnit("%"),
		metric.WithExplicitBucketBoundaries(10, 20, 30, 40, 50, 60, 75, 90, 100),
	)
	if err != nil {
		return fmt.Errorf("failed to create readiness score metric: %w", err)
	}

	m.ResumeUploads, err = meter.Int64Counter(
		"skillsync_resume_uploads_total",
		metric.WithDescription("Total number of resume uploads"),
	)
	if err != nil {
		return fmt.Errorf("failed to create resume uploads metric: %w", err)
	}

	m.ChatMessages, err = meter.Int64Counter(
		"skillsync_chat_messages_total",
		metric.WithDescription("Total number of career assistant messages"),
	)
	if err != nil {
		return fmt.Errorf("failed to create chat messages metric: %w", err)
	}

	m.NavigationRedirects, err = meter.Int64Counter(
		"skillsync_navigation_redirects_total",
		metric.WithDescription("Navigations redirected to Gap Analysis for lack of a result"),
	)
	if err != nil {
		return fmt.Errorf("failed to create navigation redirects metric: %w", err)
	}

	return nil
}

// createInfrastructureMetrics creates rate limit and session metrics
func (m *Metrics) createInfrastructureMetrics(meter metric.Meter) error {
	var err error

	m.RateLimitHits, err = meter.Int64Counter(
		"skillsync_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	m.ActiveSessions, err = meter.Int64UpDownCounter(
		"skillsync_active_sessions",
		metric.WithDescription("Sessions currently held by the server"),
	)
	if err != nil {
		return fmt.Errorf("failed to create active sessions metric: %w", err)
	}

	return nil
}

// TrackAIOperation instruments one model call with a span, duration, count,
// error and token metrics
func (m *Metrics) TrackAIOperation(ctx context.Context, operation, model string, fn func(context.Context) (*ai.TokenUsage, error)) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ai."+operation)
	defer span.End()

	start := time.Now()
	usage, err := fn(ctx)
	duration := time.Since(start).Seconds()

	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.String("model", model),
		attribute.Bool("success", err == nil),
	}
	span.SetAttributes(attrs...)

	if m != nil && m.AIRequestCount != nil {
		m.recordAIMetrics(ctx, err, duration, usage, attrs)
	}
	if usage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", usage.InputTokens),
			attribute.Int64("ai.tokens.output", usage.OutputTokens),
			attribute.Int64("ai.tokens.total", usage.TotalTokens),
		)
	}
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", string(errors.TypeOf(err))))
	}

	return err
}

func (m *Metrics) recordAIMetrics(ctx context.Context, err error, duration float64, usage *ai.TokenUsage, attrs []attribute.KeyValue) {
	if m.custom.AIOperations.TrackDuration {
		m.AIProcessingTime.Record(ctx, duration, metric.WithAttributes(attrs...))
	}
	m.AIRequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err != nil {
		errAttrs := append(attrs[:len(attrs):len(attrs)], attribute.String("error_type", string(errors.TypeOf(err))))
		m.AIErrorCount.Add(ctx, 1, metric.WithAttributes(errAttrs...))
	}
	if usage != nil && m.custom.AIOperations.TrackTokenUsage {
		m.recordTokenMetrics(ctx, usage, attrs[:2])
	}
}

// recordTokenMetrics records individual token usage metrics
func (m *Metrics) recordTokenMetrics(ctx context.Context, usage *ai.TokenUsage, attrs []attribute.KeyValue) {
	tokenTypes := []struct {
		tokenType string
		value     int64
	}{
		{"input", usage.InputTokens},
		{"output", usage.OutputTokens},
		{"total", usage.TotalTokens},
	}

	for _, tt := range tokenTypes {
		tokenAttrs := append(attrs[:len(attrs):len(attrs)], attribute.String("token_type", tt.tokenType))
		m.AITokenUsage.Record(ctx, tt.value, metric.WithAttributes(tokenAttrs...))
	}
}

func (m *Metrics) business() bool {
	return m != nil && m.AnalysesCompleted != nil
}

func successAttrs(err error) metric.AddOption {
	return metric.WithAttributes(attribute.Bool("success", err == nil))
}

// ResumeUploaded counts a resume upload
func (m *Metrics) ResumeUploaded(ctx context.Context, err error) {
	if !m.business() || !m.custom.BusinessMetrics.TrackSessionActions {
		return
	}
	m.ResumeUploads.Add(ctx, 1, successAttrs(err))
}

// AnalysisFinished counts a submission and records the readiness score of a
// successful one
func (m *Metrics) AnalysisFinished(ctx context.Context, score int, err error) {
	if !m.business() {
		return
	}
	if m.custom.BusinessMetrics.TrackSuccessRates {
		m.AnalysesCompleted.Add(ctx, 1, successAttrs(err))
	}
	if err == nil && m.custom.BusinessMetrics.TrackReadiness {
		m.ReadinessScore.Record(ctx, int64(score))
	}
}

// ChatMessageSent counts a chat round trip
func (m *Metrics) ChatMessageSent(ctx context.Context, err error) {
	if !m.business() || !m.custom.BusinessMetrics.TrackSessionActions {
		return
	}
	m.ChatMessages.Add(ctx, 1, successAttrs(err))
}

// NavigationRedirected counts a guarded navigation
func (m *Metrics) NavigationRedirected(ctx context.Context, requested, shown types.Page) {
	if !m.business() || !m.custom.BusinessMetrics.TrackSessionActions {
		return
	}
	m.NavigationRedirects.Add(ctx, 1, metric.WithAttributes(
		attribute.String("requested", string(requested)),
		attribute.String("shown", string(shown)),
	))
}

// SessionsChanged adjusts the active sessions gauge
func (m *Metrics) SessionsChanged(ctx context.Context, delta int64) {
	if m == nil || m.ActiveSessions == nil || !m.custom.Infrastructure.TrackSessions {
		return
	}
	m.ActiveSessions.Add(ctx, delta)
}

// RateLimitHit counts a rejected request
func (m *Metrics) RateLimitHit(ctx context.Context, endpoint, method string) {
	if m == nil || m.RateLimitHits == nil || !m.custom.Infrastructure.TrackRateLimits {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("method", method),
	))
}
