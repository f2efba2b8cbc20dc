package ai

import (
	"context"
	"strings"
	"sync"

	"skillsync/internal/config"
	"skillsync/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"
)

// geminiChat is a multi-turn conversation backed by genai.Chat. The genai
// chat appends to its history on every send, so sends are serialized.
type geminiChat struct {
	mu     sync.Mutex
	chat   *genai.Chat
	op     *operationClient
	logger *errors.Logger
}

// NewChatSession implements Provider
func (g *GeminiProvider) NewChatSession(ctx context.Context) (ChatSession, error) {
	op := g.ops[config.OperationChat]
	if op.client == nil {
		return nil, missingClientError(config.OperationChat, op.initErr)
	}

	prompts := promptsFor(g.prompts, config.OperationChat)
	chat, err := op.client.Chats.Create(ctx, op.cfg.Model, g.generateConfig(config.OperationChat, prompts.System), nil)
	if err != nil {
		return nil, upstreamError(config.OperationChat, err)
	}

	g.logger.Debug("Chat session created", "model", op.cfg.Model)
	return &geminiChat{chat: chat, op: op, logger: g.logger}, nil
}

// Send implements ChatSession
func (c *geminiChat) Send(ctx context.Context, text string) (string, *TokenUsage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "gemini.chat_send")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.operation", config.OperationChat),
		attribute.String("ai.model", c.op.cfg.Model),
		attribute.Int("input.message_length", len(text)),
	)

	callCtx, cancel := c.op.withTimeout(ctx)
	defer cancel()

	result, err := c.op.breaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return c.chat.Send(callCtx, genai.NewPartFromText(text))
	})
	if err != nil {
		appErr := upstreamError(config.OperationChat, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, appErr.Code)
		c.logger.LogError(appErr, "Chat message failed")
		return "", nil, appErr
	}

	usage := extractTokenUsage(result)
	if usage != nil {
		span.SetAttributes(attribute.Int64("ai.tokens.total", usage.TotalTokens))
	}
	span.SetAttributes(attribute.Bool("success", true))
	return strings.TrimSpace(result.Text()), usage, nil
}
