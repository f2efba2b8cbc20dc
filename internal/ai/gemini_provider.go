package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"skillsync/internal/config"
	"skillsync/internal/errors"
	"skillsync/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

const tracerName = "skillsync.ai.gemini"

// operationClient is the client, breaker and settings of one operation
type operationClient struct {
	cfg     config.OperationAIConfig
	client  *genai.Client
	initErr error
	breaker *AICircuitBreaker
}

func (o *operationClient) timeout() time.Duration {
	if o.cfg.Timeout == nil {
		return 0
	}
	return *o.cfg.Timeout
}

func (o *operationClient) temperature() float32 {
	if o.cfg.Temperature == nil {
		return 0
	}
	return *o.cfg.Temperature
}

// withTimeout applies the operation timeout; zero or negative means none
func (o *operationClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d := o.timeout(); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return ctx, func() {}
}

// GeminiProvider implements Provider for Google Gemini
type GeminiProvider struct {
	ops               map[string]*operationClient
	prompts           *config.PromptStore
	modelBreaker      *ModelCircuitBreaker
	modelCheckTimeout time.Duration
	logger            *errors.Logger
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates one client per operation. A client that cannot be
// created (no API key, for instance) does not fail construction; calls of
// that operation fail with an UpstreamError instead, so features that do not
// need the model keep working.
func NewGeminiProvider(ctx context.Context, cfg *config.Config, logger *errors.Logger) (*GeminiProvider, error) {
	g := &GeminiProvider{
		ops:               make(map[string]*operationClient, len(config.Operations)),
		prompts:           cfg.Prompts,
		modelCheckTimeout: cfg.Observability.HealthCheck.AIModelCheckTimeout,
		logger:            logger,
	}
	if g.modelCheckTimeout <= 0 {
		g.modelCheckTimeout = 10 * time.Second
	}

	clients := make(map[string]*genai.Client)
	for _, name := range config.Operations {
		opCfg := cfg.GetOperationConfig(name)
		if opCfg.Provider != "" && opCfg.Provider != "gemini" {
			return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("Unsupported AI provider for %s: %s", name, opCfg.Provider), nil)
		}

		op := &operationClient{cfg: opCfg, breaker: NewAICircuitBreaker(&opCfg, logger)}
		if client, ok := clients[opCfg.APIKey]; ok {
			op.client = client
		} else {
			client, err := newGenaiClient(ctx, opCfg.APIKey, cfg.AI.BaseURL)
			if err != nil {
				op.initErr = err
				logger.Warn("Gemini client unavailable, calls will fail",
					"operation", name, "error", err.Error())
			} else {
				op.client = client
				clients[opCfg.APIKey] = client
			}
		}
		g.ops[name] = op

		logger.Debug("Initialized AI operation",
			"operation", name,
			"model", opCfg.Model,
			"timeout", op.timeout(),
			"temperature", op.temperature(),
			"circuit_breaker", opCfg.CircuitBreaker.Enabled)
	}

	analyzeCfg := g.ops[config.OperationAnalyze].cfg
	g.modelBreaker = NewModelCircuitBreaker(&analyzeCfg, logger)
	return g, nil
}

func newGenaiClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("no Gemini API key configured (set SKILLSYNC_AI_APIKEY or GEMINI_API_KEY)")
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
}

// executeAIOperation runs one generate call with tracing, timeout and the
// circuit breaker, then hands the reply text to parse.
func executeAIOperation[Out any](
	ctx context.Context,
	g *GeminiProvider,
	operation string,
	spanName string,
	userPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	parse func(text string) (Out, error),
	spanAttributes ...attribute.KeyValue,
) (Out, *TokenUsage, error) {
	var output Out
	op := g.ops[operation]

	ctx, span := otel.Tracer(tracerName).Start(ctx, "gemini."+spanName)
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.operation", operation),
		attribute.String("ai.model", op.cfg.Model),
		attribute.Float64("ai.temperature", float64(op.temperature())),
	)
	span.SetAttributes(spanAttributes...)

	if op.client == nil {
		err := missingClientError(operation, op.initErr)
		span.RecordError(err)
		span.SetStatus(codes.Error, "client unavailable")
		return output, nil, err
	}

	callCtx, cancel := op.withTimeout(ctx)
	defer cancel()

	result, err := op.breaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return op.client.Models.GenerateContent(callCtx, op.cfg.Model, genai.Text(userPrompt), genaiConfig)
	})
	if err != nil {
		appErr := upstreamError(operation, err)
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		span.SetStatus(codes.Error, appErr.Code)
		g.logger.LogError(appErr, "AI operation failed", "model", op.cfg.Model)
		return output, nil, appErr
	}

	tokenUsage := extractTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	output, err = parse(result.Text())
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		span.SetStatus(codes.Error, "unparseable response")
		g.logger.LogError(err, "AI response rejected", "operation", operation, "model", op.cfg.Model)
		return output, tokenUsage, err
	}

	span.SetAttributes(attribute.Bool("success", true))
	return output, tokenUsage, nil
}

// generateConfig builds the request config shared by the one-shot operations
func (g *GeminiProvider) generateConfig(operation string, system string) *genai.GenerateContentConfig {
	op := g.ops[operation]
	cfg := &genai.GenerateContentConfig{}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if t := op.temperature(); t > 0 {
		cfg.Temperature = genai.Ptr(t)
	}
	return cfg
}

// ExtractSkills implements Provider
func (g *GeminiProvider) ExtractSkills(ctx context.Context, resumeText string) (string, *TokenUsage, error) {
	if strings.TrimSpace(resumeText) == "" {
		return "", nil, errors.NewValidationError(errors.ErrCodeInvalidInput,
			"The resume does not contain any text.", nil)
	}

	prompts := promptsFor(g.prompts, config.OperationExtract)
	userPrompt := fmt.Sprintf(prompts.User, resumeText)
	genaiConfig := g.generateConfig(config.OperationExtract, prompts.System)

	return executeAIOperation(ctx, g, config.OperationExtract, "extract_skills", userPrompt, genaiConfig,
		func(text string) (string, error) { return strings.TrimSpace(text), nil },
		attribute.Int("input.resume_length", len(resumeText)),
	)
}

// AnalyzeGap implements Provider
func (g *GeminiProvider) AnalyzeGap(ctx context.Context, input types.AnalyzeGapInput) (types.AnalysisResult, *TokenUsage, error) {
	if strings.TrimSpace(input.UserSkills) == "" || strings.TrimSpace(input.JobDescription) == "" {
		return types.AnalysisResult{}, nil, errors.NewValidationError(errors.ErrCodeInvalidInput,
			"Please fill in both your skills and the job description.", nil)
	}

	prompts := promptsFor(g.prompts, config.OperationAnalyze)
	userPrompt := fmt.Sprintf(prompts.User, input.UserSkills, input.JobDescription)
	genaiConfig := g.generateConfig(config.OperationAnalyze, prompts.System)
	genaiConfig.ResponseMIMEType = "application/json"
	genaiConfig.ResponseSchema = analysisSchema()

	policy := g.ops[config.OperationAnalyze].cfg.PartitionPolicy
	result, usage, err := executeAIOperation(ctx, g, config.OperationAnalyze, "analyze_gap", userPrompt, genaiConfig,
		func(text string) (types.AnalysisResult, error) {
			result, err := ParseAnalysisResult(text)
			if err != nil {
				return result, err
			}
			return result, g.checkPartition(result, policy)
		},
		attribute.Int("input.skills_length", len(input.UserSkills)),
		attribute.Int("input.job_length", len(input.JobDescription)),
		attribute.String("ai.partition_policy", policy),
	)
	if err != nil {
		return types.AnalysisResult{}, usage, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Int("output.readiness_score", result.CareerReadinessScore),
			attribute.Int("output.gap_count", len(result.GapSkills)),
		)
	}
	return result, usage, nil
}

// checkPartition applies the partition policy to a parsed result
func (g *GeminiProvider) checkPartition(result types.AnalysisResult, policy string) error {
	report := CheckSkillPartition(result)
	if report.OK() {
		return nil
	}
	if policy == config.PartitionPolicyEnforce {
		return errors.NewMalformedResponseError(errors.ErrCodePartitionViolation,
			"The AI service returned an inconsistent skill breakdown. Please try again.",
			fmt.Errorf("skill partition violated: %s", report))
	}
	g.logger.Warn("Matched and gap skills do not partition the required skills",
		"details", report.String(),
		"policy", policy)
	return nil
}

// GetModelInfo checks the readiness and availability of the analyze model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	op := g.ops[config.OperationAnalyze]
	info := &ModelInfo{Name: op.cfg.Model}
	if op.client == nil {
		info.Error = fmt.Sprintf("Client unavailable: %v", op.initErr)
		return info
	}

	checkCtx, cancel := context.WithTimeout(ctx, g.modelCheckTimeout)
	defer cancel()

	model, err := g.modelBreaker.Execute(func() (*genai.Model, error) {
		return op.client.Models.Get(checkCtx, op.cfg.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		info.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", op.cfg.Model,
			"error", err.Error())
		return info
	}

	info.Available = true
	info.DisplayName = model.DisplayName
	info.Version = model.Version
	return info
}

// CircuitBreakerStats returns per-operation breaker statistics
func (g *GeminiProvider) CircuitBreakerStats() map[string]any {
	stats := make(map[string]any, len(g.ops)+2)
	healthy := g.modelBreaker.IsHealthy()
	for name, op := range g.ops {
		stats[name] = op.breaker.GetStats()
		healthy = healthy && op.breaker.IsHealthy()
	}
	stats["model_operations"] = g.modelBreaker.GetStats()
	stats["overall_healthy"] = healthy
	return stats
}

// Close implements Provider. The genai client holds no resources to release.
func (g *GeminiProvider) Close() error {
	return nil
}

// extractTokenUsage extracts token usage information from Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
