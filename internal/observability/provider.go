package observability

import (
	"context"

	"skillsync/internal/ai"
	"skillsync/internal/config"
	"skillsync/internal/types"
)

// InstrumentedProvider records metrics for every model call made through the
// wrapped provider, including chat turns.
type InstrumentedProvider struct {
	ai.Provider
	metrics *Metrics
	models  map[string]string
}

// InstrumentProvider wraps p so that calls are tracked by m
func InstrumentProvider(p ai.Provider, m *Metrics, cfg *config.Config) *InstrumentedProvider {
	models := make(map[string]string, len(config.Operations))
	for _, op := range config.Operations {
		models[op] = cfg.GetOperationConfig(op).Model
	}
	return &InstrumentedProvider{Provider: p, metrics: m, models: models}
}

func (p *InstrumentedProvider) ExtractSkills(ctx context.Context, resumeText string) (string, *ai.TokenUsage, error) {
	var skills string
	var usage *ai.TokenUsage
	err := p.metrics.TrackAIOperation(ctx, config.OperationExtract, p.models[config.OperationExtract],
		func(ctx context.Context) (*ai.TokenUsage, error) {
			var err error
			skills, usage, err = p.Provider.ExtractSkills(ctx, resumeText)
			return usage, err
		})
	return skills, usage, err
}

func (p *InstrumentedProvider) AnalyzeGap(ctx context.Context, input types.AnalyzeGapInput) (types.AnalysisResult, *ai.TokenUsage, error) {
	var result types.AnalysisResult
	var usage *ai.TokenUsage
	err := p.metrics.TrackAIOperation(ctx, config.OperationAnalyze, p.models[config.OperationAnalyze],
		func(ctx context.Context) (*ai.TokenUsage, error) {
			var err error
			result, usage, err = p.Provider.AnalyzeGap(ctx, input)
			return usage, err
		})
	return result, usage, err
}

func (p *InstrumentedProvider) NewChatSession(ctx context.Context) (ai.ChatSession, error) {
	chat, err := p.Provider.NewChatSession(ctx)
	if err != nil {
		return nil, err
	}
	return &instrumentedChat{ChatSession: chat, metrics: p.metrics, model: p.models[config.OperationChat]}, nil
}

type instrumentedChat struct {
	ai.ChatSession
	metrics *Metrics
	model   string
}

func (c *instrumentedChat) Send(ctx context.Context, text string) (string, *ai.TokenUsage, error) {
	var reply string
	var usage *ai.TokenUsage
	err := c.metrics.TrackAIOperation(ctx, config.OperationChat, c.model,
		func(ctx context.Context) (*ai.TokenUsage, error) {
			var err error
			reply, usage, err = c.ChatSession.Send(ctx, text)
			return usage, err
		})
	return reply, usage, err
}
