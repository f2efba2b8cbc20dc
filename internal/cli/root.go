package cli

import (
	"context"

	"skillsync/internal/ai"
	"skillsync/internal/common"
	"skillsync/internal/config"
	"skillsync/internal/errors"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootCmd = &cobra.Command{
	Use:   "skillsync",
	Short: "Compare your skills against a job description using AI",
	Long: `SkillSync compares your skills, typed in or extracted from a resume,
against a job description using a hosted generative model. It reports a
career readiness score, the skills you already match, the gaps to close and
learning recommendations, and ships standard learning roadmaps, a learning
calendar and a career assistant chat.`,
	SilenceUsage: true,
}

func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	// Attach the config and logger to the context, making them available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context") // Should not happen if properly initialized
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context") // Should not happen if properly initialized
}

// newProvider builds the model client for a command
var newProvider = func(ctx context.Context, cfg *config.Config, logger *errors.Logger) (ai.Provider, error) {
	return ai.NewProvider(ctx, cfg, logger)
}

// addOutputFlags registers --format and --output on cmd
func addOutputFlags(cmd *cobra.Command, cc *common.CommandConfig) {
	cmd.Flags().StringVarP(&cc.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&cc.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return getConfigFromContext(cmd.Context()).App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

// resolveOutput applies the configured default format and validates it
func resolveOutput(cmd *cobra.Command, cc common.CommandConfig) (common.CommandConfig, error) {
	cfg := getConfigFromContext(cmd.Context())
	format, err := common.ResolveOutputFormat(cc.OutputFormat, cfg.App.DefaultFormat, cfg.App.SupportedFormats)
	if err != nil {
		return cc, errors.NewValidationError(errors.ErrCodeInvalidFormat, err.Error(), nil)
	}
	cc.OutputFormat = format
	return cc, nil
}

func init() {
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(roadmapCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(communityCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
