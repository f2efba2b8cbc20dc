package types

import "strings"

// SkillCategory classifies a skill
type SkillCategory string

const (
	SkillTechnical SkillCategory = "technical"
	SkillSoft      SkillCategory = "soft"
	SkillTool      SkillCategory = "tool"
)

// ParseSkillCategory maps free text onto a known category, defaulting to technical
func ParseSkillCategory(s string) SkillCategory {
	switch SkillCategory(strings.ToLower(strings.TrimSpace(s))) {
	case SkillSoft:
		return SkillSoft
	case SkillTool:
		return SkillTool
	default:
		return SkillTechnical
	}
}

// Skill represents a single named skill
type Skill struct {
	Name     string        `json:"name"`
	Category SkillCategory `json:"type"`
}

// Key returns the identity used when matching skills by name
func (s Skill) Key() string {
	return strings.ToLower(strings.TrimSpace(s.Name))
}

// RecommendationKind is the kind of learning recommendation
type RecommendationKind string

const (
	KindCourse        RecommendationKind = "Course"
	KindCertification RecommendationKind = "Certification"
	KindProject       RecommendationKind = "Project"
	KindInternship    RecommendationKind = "Internship"
)

// RecommendationKinds lists the recognized kinds in display order
var RecommendationKinds = []RecommendationKind{KindCourse, KindCertification, KindProject, KindInternship}

// CoerceRecommendationKind returns the matching known kind, or Course for anything else
func CoerceRecommendationKind(s string) RecommendationKind {
	trimmed := strings.TrimSpace(s)
	for _, k := range RecommendationKinds {
		if strings.EqualFold(trimmed, string(k)) {
			return k
		}
	}
	return KindCourse
}

// Recommendation is a learning suggestion produced by an analysis
type Recommendation struct {
	Kind        RecommendationKind `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Platform    string             `json:"platform"`
	URL         string             `json:"url,omitempty"`
}

// AnalysisResult is the outcome of one skill gap analysis
type AnalysisResult struct {
	RequiredSkills       []Skill          `json:"requiredSkills"`
	MatchedSkills        []Skill          `json:"matchedSkills"`
	GapSkills            []Skill          `json:"gapSkills"`
	CareerReadinessScore int              `json:"careerReadinessScore"`
	Summary              string           `json:"summary"`
	Recommendations      []Recommendation `json:"recommendations"`
}

// Clone returns a deep copy so callers never share slices with the owner
func (r AnalysisResult) Clone() AnalysisResult {
	out := r
	out.RequiredSkills = append([]Skill(nil), r.RequiredSkills...)
	out.MatchedSkills = append([]Skill(nil), r.MatchedSkills...)
	out.GapSkills = append([]Skill(nil), r.GapSkills...)
	out.Recommendations = append([]Recommendation(nil), r.Recommendations...)
	return out
}

// AnalyzeGapInput is the input for a skill gap analysis
type AnalyzeGapInput struct {
	UserSkills     string `json:"userSkills"`
	JobDescription string `json:"jobDescription"`
}

// ExtractSkillsInput is the input for extracting skills from resume text
type ExtractSkillsInput struct {
	ResumeText string `json:"resumeText"`
}

// ExtractSkillsOutput holds the comma-separated skills returned by the model
type ExtractSkillsOutput struct {
	Skills string `json:"skills"`
}

// Page identifies one of the application views
type Page string

const (
	PageDashboard   Page = "Dashboard"
	PageGapAnalysis Page = "Gap Analysis"
	PageRoadmap     Page = "Roadmap"
	PageCalendar    Page = "Calendar"
	PageCommunity   Page = "Community"
)

// Pages lists every page in header order
var Pages = []Page{PageGapAnalysis, PageDashboard, PageRoadmap, PageCalendar, PageCommunity}

// ParsePage resolves a page name, accepting the display name or a compact slug
func ParsePage(s string) (Page, bool) {
	norm := strings.ToLower(strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.TrimSpace(s)))
	for _, p := range Pages {
		if strings.ToLower(strings.ReplaceAll(string(p), " ", "")) == norm {
			return p, true
		}
	}
	return "", false
}

// RequiresResult reports whether the page can only be shown after an analysis
func (p Page) RequiresResult() bool {
	return p == PageDashboard || p == PageRoadmap
}

// ChatSender identifies who wrote a chat message
type ChatSender string

const (
	SenderUser ChatSender = "user"
	SenderAI   ChatSender = "ai"
)

// ChatMessage is a single entry in the assistant transcript
type ChatMessage struct {
	Sender ChatSender `json:"sender"`
	Text   string     `json:"text"`
}
