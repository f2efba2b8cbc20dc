package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"skillsync/internal/errors"
	"skillsync/internal/types"
)

type wireSkill struct {
	Name *string `json:"name"`
	Type string  `json:"type"`
}

type wireRecommendation struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Platform    string `json:"platform"`
	URL         string `json:"url"`
}

// wireAnalysis uses pointers so a missing field can be told apart from an empty one
type wireAnalysis struct {
	RequiredSkills       *[]wireSkill          `json:"requiredSkills"`
	MatchedSkills        *[]wireSkill          `json:"matchedSkills"`
	GapSkills            *[]wireSkill          `json:"gapSkills"`
	CareerReadinessScore *json.RawMessage      `json:"careerReadinessScore"`
	Summary              *string               `json:"summary"`
	Recommendations      *[]wireRecommendation `json:"recommendations"`
}

// CleanJSON strips surrounding whitespace and an optional markdown code fence
func CleanJSON(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the language tag, e.g. ```json
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func malformed(format string, args ...any) error {
	return errors.NewMalformedResponseError(errors.ErrCodeMalformedResponse,
		"The AI service returned an unexpected response. Please try again.", fmt.Errorf(format, args...))
}

// ParseAnalysisResult turns the model reply into an AnalysisResult. Any
// deviation from the expected shape yields a MalformedResponseError. Unknown
// recommendation kinds become Course and unknown skill categories become
// technical.
func ParseAnalysisResult(text string) (types.AnalysisResult, error) {
	cleaned := CleanJSON(text)
	if cleaned == "" {
		return types.AnalysisResult{}, malformed("empty response")
	}

	var wire wireAnalysis
	dec := json.NewDecoder(bytes.NewReader([]byte(cleaned)))
	dec.UseNumber()
	if err := dec.Decode(&wire); err != nil {
		return types.AnalysisResult{}, malformed("response is not valid JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return types.AnalysisResult{}, malformed("trailing data after JSON object")
	}

	switch {
	case wire.RequiredSkills == nil:
		return types.AnalysisResult{}, malformed("missing field requiredSkills")
	case wire.MatchedSkills == nil:
		return types.AnalysisResult{}, malformed("missing field matchedSkills")
	case wire.GapSkills == nil:
		return types.AnalysisResult{}, malformed("missing field gapSkills")
	case wire.CareerReadinessScore == nil:
		return types.AnalysisResult{}, malformed("missing field careerReadinessScore")
	case wire.Summary == nil:
		return types.AnalysisResult{}, malformed("missing field summary")
	case wire.Recommendations == nil:
		return types.AnalysisResult{}, malformed("missing field recommendations")
	}

	score, err := parseScore(*wire.CareerReadinessScore)
	if err != nil {
		return types.AnalysisResult{}, err
	}

	result := types.AnalysisResult{
		CareerReadinessScore: score,
		Summary:              strings.TrimSpace(*wire.Summary),
	}
	if result.RequiredSkills, err = convertSkills("requiredSkills", *wire.RequiredSkills); err != nil {
		return types.AnalysisResult{}, err
	}
	if result.MatchedSkills, err = convertSkills("matchedSkills", *wire.MatchedSkills); err != nil {
		return types.AnalysisResult{}, err
	}
	if result.GapSkills, err = convertSkills("gapSkills", *wire.GapSkills); err != nil {
		return types.AnalysisResult{}, err
	}

	result.Recommendations = make([]types.Recommendation, 0, len(*wire.Recommendations))
	for i, rec := range *wire.Recommendations {
		title := strings.TrimSpace(rec.Title)
		if title == "" {
			return types.AnalysisResult{}, malformed("recommendation %d has no title", i)
		}
		result.Recommendations = append(result.Recommendations, types.Recommendation{
			Kind:        types.CoerceRecommendationKind(rec.Type),
			Title:       title,
			Description: strings.TrimSpace(rec.Description),
			Platform:    strings.TrimSpace(rec.Platform),
			URL:         strings.TrimSpace(rec.URL),
		})
	}

	return result, nil
}

// parseScore accepts a JSON number, rounding fractions before the 0-100 range
// check. Quoted numbers are rejected.
func parseScore(raw json.RawMessage) (int, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, malformed("careerReadinessScore is not valid JSON: %w", err)
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, malformed("careerReadinessScore %s is not a number", string(raw))
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) {
		return 0, malformed("careerReadinessScore %s is not a number", n.String())
	}
	score := math.Round(f)
	if score < 0 || score > 100 {
		return 0, malformed("careerReadinessScore %s is outside 0-100", n.String())
	}
	return int(score), nil
}

func convertSkills(field string, in []wireSkill) ([]types.Skill, error) {
	out := make([]types.Skill, 0, len(in))
	for i, s := range in {
		if s.Name == nil || strings.TrimSpace(*s.Name) == "" {
			return nil, malformed("%s[%d] has no name", field, i)
		}
		out = append(out, types.Skill{
			Name:     strings.TrimSpace(*s.Name),
			Category: types.ParseSkillCategory(s.Type),
		})
	}
	return out, nil
}

// PartitionReport describes how the matched and gap lists deviate from the
// required list. Skills are compared by Skill.Key.
type PartitionReport struct {
	Overlap     []string // in both matched and gap
	Missing     []string // required but in neither list
	NotRequired []string // in matched or gap but not required
}

// OK reports whether matched and gap split the required skills exactly
func (r PartitionReport) OK() bool {
	return len(r.Overlap) == 0 && len(r.Missing) == 0 && len(r.NotRequired) == 0
}

func (r PartitionReport) String() string {
	var parts []string
	if len(r.Overlap) > 0 {
		parts = append(parts, "in both matched and gap: "+strings.Join(r.Overlap, ", "))
	}
	if len(r.Missing) > 0 {
		parts = append(parts, "required but unclassified: "+strings.Join(r.Missing, ", "))
	}
	if len(r.NotRequired) > 0 {
		parts = append(parts, "classified but not required: "+strings.Join(r.NotRequired, ", "))
	}
	return strings.Join(parts, "; ")
}

// CheckSkillPartition verifies matched ∩ gap = ∅ and matched ∪ gap = required
func CheckSkillPartition(result types.AnalysisResult) PartitionReport {
	keys := func(skills []types.Skill) map[string]string {
		m := make(map[string]string, len(skills))
		for _, s := range skills {
			m[s.Key()] = s.Name
		}
		return m
	}
	required := keys(result.RequiredSkills)
	matched := keys(result.MatchedSkills)
	gap := keys(result.GapSkills)

	var report PartitionReport
	for _, s := range result.MatchedSkills {
		if _, ok := gap[s.Key()]; ok {
			report.Overlap = append(report.Overlap, s.Name)
		}
	}
	for _, s := range result.RequiredSkills {
		_, inMatched := matched[s.Key()]
		_, inGap := gap[s.Key()]
		if !inMatched && !inGap {
			report.Missing = append(report.Missing, s.Name)
		}
	}
	seen := make(map[string]bool)
	for _, list := range [][]types.Skill{result.MatchedSkills, result.GapSkills} {
		for _, s := range list {
			if _, ok := required[s.Key()]; !ok && !seen[s.Key()] {
				seen[s.Key()] = true
				report.NotRequired = append(report.NotRequired, s.Name)
			}
		}
	}
	return report
}
