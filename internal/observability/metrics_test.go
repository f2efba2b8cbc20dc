package observability

import (
	"context"
	"fmt"
	"testing"

	"skillsync/internal/ai"
	"skillsync/internal/config"
	"skillsync/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T, custom config.CustomMetricsConfig) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("test"), custom)
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestTrackAIOperation(t *testing.T) {
	m, reader := newTestMetrics(t, allCustomMetrics())

	err := m.TrackAIOperation(context.Background(), "analyze", "gemini-2.5-flash",
		func(context.Context) (*ai.TokenUsage, error) {
			return &ai.TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}, nil
		})
	require.NoError(t, err)

	modelErr := fmt.Errorf("model down")
	err = m.TrackAIOperation(context.Background(), "analyze", "gemini-2.5-flash",
		func(context.Context) (*ai.TokenUsage, error) { return nil, modelErr })
	assert.ErrorIs(t, err, modelErr)

	got := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, got["skillsync_ai_requests_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["skillsync_ai_errors_total"]))

	tokens, ok := got["skillsync_ai_token_usage"].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	assert.Len(t, tokens.DataPoints, 3) // input, output, total
}

func TestTrackAIOperationWithoutMetrics(t *testing.T) {
	var m *Metrics
	called := false
	err := m.TrackAIOperation(context.Background(), "extract", "", func(context.Context) (*ai.TokenUsage, error) {
		called = true
		return nil, nil
	})
	require.NoError(t, err)
	assert.True(t, called)

	// The zero value records nothing and must not panic.
	(&Metrics{}).AnalysisFinished(context.Background(), 80, nil)
	m.SessionsChanged(context.Background(), 1)
}

func TestRecorderEvents(t *testing.T) {
	m, reader := newTestMetrics(t, allCustomMetrics())
	ctx := context.Background()

	m.ResumeUploaded(ctx, nil)
	m.AnalysisFinished(ctx, 72, nil)
	m.AnalysisFinished(ctx, 0, fmt.Errorf("bad response"))
	m.ChatMessageSent(ctx, nil)
	m.NavigationRedirected(ctx, types.PageDashboard, types.PageGapAnalysis)
	m.SessionsChanged(ctx, 1)
	m.SessionsChanged(ctx, 1)
	m.SessionsChanged(ctx, -1)
	m.RateLimitHit(ctx, "/analyze", "POST")

	got := collect(t, reader)
	assert.Equal(t, int64(1), sumOf(t, got["skillsync_resume_uploads_total"]))
	assert.Equal(t, int64(2), sumOf(t, got["skillsync_analyses_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["skillsync_chat_messages_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["skillsync_navigation_redirects_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["skillsync_active_sessions"]))
	assert.Equal(t, int64(1), sumOf(t, got["skillsync_rate_limit_hits_total"]))

	scores, ok := got["skillsync_career_readiness_score"].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, scores.DataPoints, 1)
	assert.Equal(t, uint64(1), scores.DataPoints[0].Count)
	assert.Equal(t, int64(72), scores.DataPoints[0].Sum)
}

func TestDisabledMetricGroups(t *testing.T) {
	custom := allCustomMetrics()
	custom.BusinessMetrics.Enabled = false
	custom.Infrastructure.TrackSessions = false
	m, reader := newTestMetrics(t, custom)

	m.AnalysisFinished(context.Background(), 50, nil)
	m.SessionsChanged(context.Background(), 1)
	m.RateLimitHit(context.Background(), "/health", "GET")

	got := collect(t, reader)
	assert.NotContains(t, got, "skillsync_analyses_total")
	assert.NotContains(t, got, "skillsync_active_sessions")
	assert.Contains(t, got, "skillsync_rate_limit_hits_total")
}

func TestDisabledManager(t *testing.T) {
	om, err := NewObservabilityManager(ObservabilityConfig{Enabled: false})
	require.NoError(t, err)

	assert.NotNil(t, om.GetMetrics())
	assert.NoError(t, om.ServePrometheus(context.Background()))
	assert.NoError(t, om.Shutdown(context.Background()))
}
