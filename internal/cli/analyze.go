package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"skillsync/internal/ai"
	"skillsync/internal/common"
	"skillsync/internal/errors"
	"skillsync/internal/session"
	"skillsync/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a skill gap analysis against a job description",
	Long: `Compare your skills against a job description and print your career
readiness dashboard and personalized learning recommendations.

Skills come from --skills or are extracted from a --resume file first.
The job description comes from a --job file or --job-text.

Examples:
  skillsync analyze --skills "React, SQL, Agile" --job job.txt
  skillsync analyze --resume cv.pdf --job job.md --format markdown -o report.md`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

var (
	analyzeConfig common.CommandConfig
	analyzeFlags  struct {
		skills  string
		resume  string
		job     string
		jobText string
	}
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFlags.skills, "skills", "", "Comma-separated list of your skills")
	analyzeCmd.Flags().StringVar(&analyzeFlags.resume, "resume", "", "Resume file to extract skills from (.txt, .md, .pdf, .doc, .docx)")
	analyzeCmd.Flags().StringVar(&analyzeFlags.job, "job", "", "Job description file")
	analyzeCmd.Flags().StringVar(&analyzeFlags.jobText, "job-text", "", "Job description text")
	analyzeCmd.MarkFlagsOneRequired("skills", "resume")
	analyzeCmd.MarkFlagsMutuallyExclusive("skills", "resume")
	analyzeCmd.MarkFlagsOneRequired("job", "job-text")
	analyzeCmd.MarkFlagsMutuallyExclusive("job", "job-text")
	addOutputFlags(analyzeCmd, &analyzeConfig)
}

// analyzeRequest is the gap analysis form as read from flags and files
type analyzeRequest struct {
	skills         string
	resumeName     string
	resume         []byte
	jobDescription string
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	cmdConfig, err := resolveOutput(cmd, analyzeConfig)
	if err != nil {
		return err
	}

	provider, err := newProvider(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer func() { _ = provider.Close() }()

	fileProcessor := common.NewFileProcessor(logger, cfg.App.MaxFileSize)
	createInput := func() (analyzeRequest, error) {
		req := analyzeRequest{skills: analyzeFlags.skills, jobDescription: analyzeFlags.jobText}
		if analyzeFlags.resume != "" {
			data, err := fileProcessor.ReadBytes(analyzeFlags.resume)
			if err != nil {
				return req, err
			}
			req.resumeName = filepath.Base(analyzeFlags.resume)
			req.resume = data
		}
		if analyzeFlags.job != "" {
			text, err := fileProcessor.ReadFile(analyzeFlags.job)
			if err != nil {
				return req, err
			}
			req.jobDescription = text
		}
		return req, nil
	}

	logDetails := func(req analyzeRequest, cc common.CommandConfig) {
		logger.Info("Starting skill gap analysis",
			"from_resume", req.resumeName != "",
			"skills_chars", len(req.skills),
			"job_chars", len(req.jobDescription),
			"output_format", cc.OutputFormat)
	}

	analyzeOperation := func(ctx context.Context, req analyzeRequest) (types.AnalysisResult, *ai.TokenUsage, error) {
		return runGapAnalysis(ctx, provider, logger, req)
	}

	err = common.RunAICommand(ctx, logger,
		common.NewOutputHandlerTo(cmd.OutOrStdout(), logger),
		cmdConfig, createInput, analyzeOperation, logDetails)
	if err != nil {
		return fmt.Errorf("failed to analyze skill gap: %w", err)
	}
	logger.Info("Skill gap analysis completed successfully")
	return nil
}

// runGapAnalysis drives the same session flow as the HTTP API: an optional
// resume upload fills the skills field, then the form is submitted. The
// returned usage covers both model calls.
func runGapAnalysis(ctx context.Context, provider ai.Provider, logger *errors.Logger, req analyzeRequest) (types.AnalysisResult, *ai.TokenUsage, error) {
	tracker := &usageTracker{Provider: provider}
	sess := session.New(tracker, session.WithLogger(logger))
	sess.Gap.SetJobDescription(req.jobDescription)
	if req.resume != nil {
		skills, err := sess.Gap.UploadResume(ctx, req.resumeName, req.resume)
		if err != nil {
			return types.AnalysisResult{}, tracker.Usage(), err
		}
		logger.Info("Skills extracted from resume", "skills", skills)
	} else {
		sess.Gap.SetSkills(req.skills)
	}
	result, err := sess.Gap.Submit(ctx)
	return result, tracker.Usage(), err
}

// usageTracker sums the token usage of the calls made through it
type usageTracker struct {
	ai.Provider

	mu    sync.Mutex
	total *ai.TokenUsage
}

func (u *usageTracker) ExtractSkills(ctx context.Context, resumeText string) (string, *ai.TokenUsage, error) {
	skills, usage, err := u.Provider.ExtractSkills(ctx, resumeText)
	u.add(usage)
	return skills, usage, err
}

func (u *usageTracker) AnalyzeGap(ctx context.Context, input types.AnalyzeGapInput) (types.AnalysisResult, *ai.TokenUsage, error) {
	result, usage, err := u.Provider.AnalyzeGap(ctx, input)
	u.add(usage)
	return result, usage, err
}

func (u *usageTracker) add(usage *ai.TokenUsage) {
	if usage == nil {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.total == nil {
		u.total = &ai.TokenUsage{}
	}
	u.total.InputTokens += usage.InputTokens
	u.total.OutputTokens += usage.OutputTokens
	u.total.TotalTokens += usage.TotalTokens
}

// Usage returns the summed usage, nil when no call reported any
func (u *usageTracker) Usage() *ai.TokenUsage {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.total == nil {
		return nil
	}
	total := *u.total
	return &total
}
