package catalog

import (
	"strings"

	"skillsync/internal/types"
)

// View messages
const (
	MsgAllSkillsMatched     = "Congratulations! You have all the required skills for this role."
	MsgNoRecommendations    = "No specific recommendations were generated. Try refining the job description."
	MsgDashboardNeedsResult = "Please complete a Gap Analysis first to see your personalized career dashboard."
	MsgRoadmapNeedsResult   = "Complete a Gap Analysis to generate your personalized roadmap to success."
)

// PersonalTab is the roadmap tab built from the current analysis
const PersonalTab = "personal"

// BadgeColor returns the colour of a roadmap item badge for its type
func BadgeColor(itemType string) string {
	switch strings.ToLower(itemType) {
	case "course", "courses":
		return "blue"
	case "book", "ebook":
		return "green"
	case "article":
		return "yellow"
	case "paper":
		return "indigo"
	case "tutorial":
		return "purple"
	case "challenges":
		return "red"
	default:
		return "gray"
	}
}

// ScoreBand buckets a readiness score for display
type ScoreBand string

const (
	BandHigh   ScoreBand = "High"
	BandMedium ScoreBand = "Medium"
	BandLow    ScoreBand = "Low"
)

// BandFor returns the band of a readiness score
func BandFor(score int) ScoreBand {
	switch {
	case score >= 75:
		return BandHigh
	case score >= 40:
		return BandMedium
	default:
		return BandLow
	}
}

// ChartBar is one bar of the skill breakdown chart
type ChartBar struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Dashboard is the career readiness view of an analysis
type Dashboard struct {
	Score     int           `json:"careerReadinessScore"`
	Band      ScoreBand     `json:"band"`
	Summary   string        `json:"summary"`
	Chart     []ChartBar    `json:"chart"`
	Strengths []types.Skill `json:"strengths"`
	Gaps      []types.Skill `json:"gaps"`
	Message   string        `json:"message,omitempty"`
}

// NewDashboard derives the dashboard from a result
func NewDashboard(r types.AnalysisResult) Dashboard {
	matched, gaps := len(r.MatchedSkills), len(r.GapSkills)
	d := Dashboard{
		Score:   r.CareerReadinessScore,
		Band:    BandFor(r.CareerReadinessScore),
		Summary: r.Summary,
		Chart: []ChartBar{
			{Name: "Matched Skills", Count: matched},
			{Name: "Skill Gaps", Count: gaps},
			{Name: "Total Required", Count: matched + gaps},
		},
		Strengths: append([]types.Skill(nil), r.MatchedSkills...),
		Gaps:      append([]types.Skill(nil), r.GapSkills...),
	}
	if gaps == 0 {
		d.Message = MsgAllSkillsMatched
	}
	return d
}

// PersonalRoadmap is the recommendation plan for the current gaps
type PersonalRoadmap struct {
	GapSkills       []string               `json:"gapSkills"`
	Recommendations []types.Recommendation `json:"recommendations"`
	Message         string                 `json:"message,omitempty"`
}

// NewPersonalRoadmap derives the personal tab from a result
func NewPersonalRoadmap(r types.AnalysisResult) PersonalRoadmap {
	p := PersonalRoadmap{
		GapSkills:       make([]string, 0, len(r.GapSkills)),
		Recommendations: append([]types.Recommendation(nil), r.Recommendations...),
	}
	for _, s := range r.GapSkills {
		p.GapSkills = append(p.GapSkills, s.Name)
	}
	if len(p.Recommendations) == 0 {
		p.Message = MsgNoRecommendations
	}
	return p
}
