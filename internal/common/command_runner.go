package common

import (
	"context"
	"fmt"

	"skillsync/internal/ai"
	"skillsync/internal/errors"
)

// CreateInputFunc builds the input of an AI operation, usually from files
type CreateInputFunc[Input any] func() (Input, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// AIOperationFunc is a generic function signature for any AI operation with context and token usage.
type AIOperationFunc[Input, Output any] func(context.Context, Input) (Output, *ai.TokenUsage, error)

// RunAICommand encapsulates the common logic of CLI commands that call the
// model: build the input, run the operation, report token usage and write
// the formatted result.
func RunAICommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	out *OutputHandler,
	cmdConfig CommandConfig,
	createInput CreateInputFunc[Input],
	aiOperation AIOperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	input, err := createInput()
	if err != nil {
		return fmt.Errorf("failed to create input: %w", err)
	}

	if logDetails != nil {
		logDetails(input, cmdConfig)
	}

	result, tokenUsage, err := aiOperation(ctx, input)
	if err != nil {
		return err
	}

	if tokenUsage != nil {
		logger.Info("AI token usage",
			"input_tokens", tokenUsage.InputTokens,
			"output_tokens", tokenUsage.OutputTokens,
			"total_tokens", tokenUsage.TotalTokens)
	}

	return out.HandleOutput(result, cmdConfig)
}
