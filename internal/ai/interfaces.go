package ai

import (
	"context"

	"skillsync/internal/types"
)

// Provider is the analysis client used by the session layer, the CLI and the
// HTTP API. Every method returns token usage; callers may ignore it.
type Provider interface {
	// ExtractSkills returns the comma-separated skill list found in resume text
	ExtractSkills(ctx context.Context, resumeText string) (string, *TokenUsage, error)
	// AnalyzeGap compares user skills against a job description
	AnalyzeGap(ctx context.Context, input types.AnalyzeGapInput) (types.AnalysisResult, *TokenUsage, error)
	// NewChatSession starts a multi-turn conversation with the career assistant
	NewChatSession(ctx context.Context) (ChatSession, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	CircuitBreakerStats() map[string]any
	Close() error
}

// ChatSession is one conversation. The model keeps the history, so each Send
// sees the previous turns.
type ChatSession interface {
	Send(ctx context.Context, text string) (string, *TokenUsage, error)
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}
