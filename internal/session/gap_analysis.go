package session

import (
	"context"
	"strings"

	"skillsync/internal/documents"
	"skillsync/internal/errors"
	"skillsync/internal/types"
)

// Form defaults
const (
	DefaultSkills         = "React, TypeScript, Node.js, Project Management, Agile, Figma"
	DefaultJobDescription = "We are seeking a Senior Frontend Engineer with over 5 years of experience to join our dynamic team. " +
		"The ideal candidate will be proficient in React, TypeScript, and modern JavaScript (ES6+). " +
		"Experience with state management libraries like Redux or MobX is essential. " +
		"You should have a strong understanding of GraphQL, RESTful APIs, and building scalable UI components. " +
		"Familiarity with cloud platforms like AWS or Azure, CI/CD pipelines, and design tools such as Figma is a big plus. " +
		"Strong communication skills and the ability to mentor junior developers are required."
)

// Progress phases reported while busy
const (
	PhaseParsingResume = "Parsing resume..."
	PhaseAnalyzing     = "Analyzing skill gap..."
)

const msgMissingInput = "Please fill in both your skills and the job description."

// ErrBusy is returned when a model call is already outstanding for the form
var ErrBusy = errors.NewConflictError(errors.ErrCodeOperationBusy,
	"Another operation is in progress. Please wait for it to finish.")

// Form is the gap analysis input
type Form struct {
	Skills         string `json:"skills"`
	JobDescription string `json:"jobDescription"`
}

// GapAnalysis is the controller behind the Gap Analysis page
type GapAnalysis struct {
	s *Session

	skills         string
	jobDescription string
	busy           bool
	phase          string
	lastError      string
}

// Form returns the current field values
func (g *GapAnalysis) Form() Form {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	return g.formLocked()
}

func (g *GapAnalysis) formLocked() Form {
	return Form{Skills: g.skills, JobDescription: g.jobDescription}
}

// SetSkills replaces the skills field. Fields stay editable while busy.
func (g *GapAnalysis) SetSkills(v string) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	g.s.touchLocked()
	g.skills = v
}

// SetJobDescription replaces the job description field
func (g *GapAnalysis) SetJobDescription(v string) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	g.s.touchLocked()
	g.jobDescription = v
}

// Busy returns whether a call is outstanding and its phase
func (g *GapAnalysis) Busy() (bool, string) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	return g.busy, g.phase
}

// LastError returns the message of the last failed action, if any
func (g *GapAnalysis) LastError() string {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	return g.lastError
}

// claimLocked marks the form busy for phase; it fails with ErrBusy when a call is
// already outstanding
func (g *GapAnalysis) claimLocked(phase string) error {
	if g.busy {
		return ErrBusy
	}
	g.busy = true
	g.phase = phase
	g.lastError = ""
	g.s.touchLocked()
	return nil
}

func (g *GapAnalysis) releaseLocked(err error) {
	g.busy = false
	g.phase = ""
	if err != nil {
		g.lastError = errors.UserMessage(err)
	}
}

// UploadResume decodes a resume file and replaces the skills field with the
// skills extracted from it. On any failure the skills are left unchanged.
func (g *GapAnalysis) UploadResume(ctx context.Context, filename string, data []byte) (string, error) {
	g.s.mu.Lock()
	if err := g.claimLocked(PhaseParsingResume); err != nil {
		g.s.mu.Unlock()
		return "", err
	}
	g.s.mu.Unlock()

	skills, err := g.extract(ctx, filename, data)

	g.s.mu.Lock()
	g.releaseLocked(err)
	if err == nil {
		g.skills = skills
	}
	g.s.mu.Unlock()

	g.s.recorder.ResumeUploaded(ctx, err)
	if err != nil {
		g.s.logger.LogError(err, "Resume upload failed", "filename", filename)
		return "", err
	}
	g.s.logger.Info("Resume parsed", "filename", filename)
	return skills, nil
}

func (g *GapAnalysis) extract(ctx context.Context, filename string, data []byte) (string, error) {
	text, err := documents.Decode(filename, data)
	if err != nil {
		return "", err
	}
	skills, _, err := g.s.provider.ExtractSkills(ctx, text)
	if err != nil {
		return "", err
	}
	return skills, nil
}

// Submit runs the gap analysis on the current form. A successful result
// replaces the session result and switches to the Dashboard; a failure only
// records LastError.
func (g *GapAnalysis) Submit(ctx context.Context) (types.AnalysisResult, error) {
	g.s.mu.Lock()
	input := types.AnalyzeGapInput{UserSkills: g.skills, JobDescription: g.jobDescription}
	if strings.TrimSpace(input.UserSkills) == "" || strings.TrimSpace(input.JobDescription) == "" {
		err := errors.NewValidationError(errors.ErrCodeInvalidInput, msgMissingInput, nil)
		if !g.busy {
			g.lastError = err.Message
		}
		g.s.mu.Unlock()
		return types.AnalysisResult{}, err
	}
	if err := g.claimLocked(PhaseAnalyzing); err != nil {
		g.s.mu.Unlock()
		return types.AnalysisResult{}, err
	}
	g.s.mu.Unlock()

	result, _, err := g.s.provider.AnalyzeGap(ctx, input)

	g.s.mu.Lock()
	g.releaseLocked(err)
	if err == nil {
		g.s.completeAnalysisLocked(result)
	}
	g.s.mu.Unlock()

	if err != nil {
		g.s.recorder.AnalysisFinished(ctx, 0, err)
		g.s.logger.LogError(err, "Gap analysis failed")
		return types.AnalysisResult{}, err
	}
	g.s.recorder.AnalysisFinished(ctx, result.CareerReadinessScore, nil)
	g.s.logger.Info("Gap analysis completed",
		"score", result.CareerReadinessScore,
		"matched", len(result.MatchedSkills),
		"gaps", len(result.GapSkills))
	return result.Clone(), nil
}
