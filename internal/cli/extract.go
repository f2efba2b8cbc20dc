package cli

import (
	"context"
	"fmt"

	"skillsync/internal/ai"
	"skillsync/internal/common"
	"skillsync/internal/types"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [resume-file]",
	Short: "Extract a comma-separated skill list from a resume",
	Long: `Read a resume (.txt, .md, .pdf, .doc or .docx) and ask the model for a
single comma-separated list of the technical skills, soft skills, languages
and tools it mentions. The list can be passed to 'skillsync analyze --skills'.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

var extractConfig common.CommandConfig

func init() {
	addOutputFlags(extractCmd, &extractConfig)
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	cmdConfig, err := resolveOutput(cmd, extractConfig)
	if err != nil {
		return err
	}

	provider, err := newProvider(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer func() { _ = provider.Close() }()

	fileProcessor := common.NewFileProcessor(logger, cfg.App.MaxFileSize)
	createInput := func() (types.ExtractSkillsInput, error) {
		text, err := fileProcessor.ReadDocument(args[0])
		if err != nil {
			return types.ExtractSkillsInput{}, err
		}
		return types.ExtractSkillsInput{ResumeText: text}, nil
	}

	logDetails := func(input types.ExtractSkillsInput, cc common.CommandConfig) {
		logger.Info("Starting skill extraction",
			"file", args[0],
			"resume_chars", len(input.ResumeText),
			"output_format", cc.OutputFormat)
	}

	extractOperation := func(ctx context.Context, input types.ExtractSkillsInput) (types.ExtractSkillsOutput, *ai.TokenUsage, error) {
		skills, usage, err := provider.ExtractSkills(ctx, input.ResumeText)
		return types.ExtractSkillsOutput{Skills: skills}, usage, err
	}

	err = common.RunAICommand(ctx, logger,
		common.NewOutputHandlerTo(cmd.OutOrStdout(), logger),
		cmdConfig, createInput, extractOperation, logDetails)
	if err != nil {
		return fmt.Errorf("failed to extract skills: %w", err)
	}
	logger.Info("Skill extraction completed successfully")
	return nil
}
