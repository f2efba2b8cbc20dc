package ai

import (
	"context"
	"fmt"

	"skillsync/internal/config"
	"skillsync/internal/errors"
)

// NewProvider returns the Provider selected by the global AI configuration
func NewProvider(ctx context.Context, cfg *config.Config, logger *errors.Logger) (Provider, error) {
	logger.Debug("Initializing AI provider",
		"provider", cfg.AI.Provider,
		"model", cfg.AI.Model,
		"api_key", config.MaskSecret(cfg.AI.APIKey))

	switch cfg.AI.Provider {
	case "", "gemini":
		return NewGeminiProvider(ctx, cfg, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.AI.Provider), nil)
	}
}
