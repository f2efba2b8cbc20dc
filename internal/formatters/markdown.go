package formatters

import (
	"fmt"
	"strings"

	"skillsync/internal/catalog"
	"skillsync/internal/types"
)

// AnalysisMarkdownFormatter renders an analysis result as a markdown report
type AnalysisMarkdownFormatter struct{}

func (f *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}
	dash := catalog.NewDashboard(result)
	plan := catalog.NewPersonalRoadmap(result)

	var output strings.Builder

	output.WriteString("# Career Readiness Dashboard\n\n")
	output.WriteString(fmt.Sprintf("**Readiness Score:** %d%% (%s)\n\n", dash.Score, dash.Band))
	output.WriteString("## AI Summary\n\n")
	output.WriteString(dash.Summary)
	output.WriteString("\n\n")

	output.WriteString("## Skill Breakdown\n\n")
	output.WriteString("| | Count |\n|---|---|\n")
	for _, bar := range dash.Chart {
		output.WriteString(fmt.Sprintf("| %s | %d |\n", bar.Name, bar.Count))
	}
	output.WriteString("\n")

	output.WriteString(fmt.Sprintf("## Your Strengths (%d)\n\n", len(dash.Strengths)))
	for _, name := range skillNames(dash.Strengths) {
		output.WriteString(fmt.Sprintf("- ✅ %s\n", name))
	}
	output.WriteString(fmt.Sprintf("\n## Areas for Improvement (%d)\n\n", len(dash.Gaps)))
	if dash.Message != "" {
		output.WriteString(fmt.Sprintf("🎉 **%s**\n", dash.Message))
	}
	for _, name := range skillNames(dash.Gaps) {
		output.WriteString(fmt.Sprintf("- ❌ %s\n", name))
	}
	output.WriteString("\n")

	output.WriteString("## Your AI-Powered Recommendations\n\n")
	if len(plan.GapSkills) > 0 {
		output.WriteString(fmt.Sprintf("To bridge your skill gaps in: **%s**.\n\n", strings.Join(plan.GapSkills, ", ")))
	}
	if plan.Message != "" {
		output.WriteString(plan.Message + "\n")
	}
	for _, rec := range plan.Recommendations {
		output.WriteString(fmt.Sprintf("### %s\n\n", rec.Title))
		output.WriteString(fmt.Sprintf("*%s · %s*\n\n", rec.Kind, rec.Platform))
		if rec.Description != "" {
			output.WriteString(rec.Description + "\n\n")
		}
		if rec.URL != "" {
			output.WriteString(fmt.Sprintf("[Learn More →](%s)\n\n", rec.URL))
		}
	}

	return output.String(), nil
}

func (f *AnalysisMarkdownFormatter) SupportedType() string { return TypeAnalysis }

// SkillsMarkdownFormatter renders an extracted skill list as bullets
type SkillsMarkdownFormatter struct{}

func (f *SkillsMarkdownFormatter) Format(data any) (string, error) {
	out, ok := data.(types.ExtractSkillsOutput)
	if !ok {
		return "", fmt.Errorf("expected ExtractSkillsOutput, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Extracted Skills\n\n")
	for _, s := range strings.Split(out.Skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			output.WriteString("- " + s + "\n")
		}
	}
	return output.String(), nil
}

func (f *SkillsMarkdownFormatter) SupportedType() string { return TypeSkills }

// RoadmapMarkdownFormatter renders a static roadmap with badge colours
type RoadmapMarkdownFormatter struct{}

func (f *RoadmapMarkdownFormatter) Format(data any) (string, error) {
	r, ok := data.(catalog.Roadmap)
	if !ok {
		return "", fmt.Errorf("expected Roadmap, got %T", data)
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("# %s\n\n%s\n", r.Title, r.Description))
	for i, section := range r.Sections {
		output.WriteString(fmt.Sprintf("\n## %d. %s\n\n", i+1, section.Title))
		output.WriteString("| Item | Type | Badge |\n|---|---|---|\n")
		for _, item := range section.Items {
			output.WriteString(fmt.Sprintf("| %s | %s | %s |\n", item.Name, item.Type, catalog.BadgeColor(item.Type)))
		}
	}
	return output.String(), nil
}

func (f *RoadmapMarkdownFormatter) SupportedType() string { return TypeRoadmap }

// CalendarMarkdownFormatter renders a month as a markdown table
type CalendarMarkdownFormatter struct{}

func (f *CalendarMarkdownFormatter) Format(data any) (string, error) {
	m, ok := data.(catalog.CalendarMonth)
	if !ok {
		return "", fmt.Errorf("expected CalendarMonth, got %T", data)
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("# Learning Calendar: %s\n\n", m.Title))
	output.WriteString("| " + strings.Join(m.Weekdays[:], " | ") + " |\n")
	output.WriteString(strings.Repeat("|---", 7) + "|\n")

	for week := 0; week < len(m.Cells); week += 7 {
		row := make([]string, 7)
		for i := range row {
			if week+i >= len(m.Cells) {
				continue
			}
			cell := m.Cells[week+i]
			if cell.Blank() {
				continue
			}
			text := fmt.Sprintf("%d", cell.Day)
			if cell.Today {
				text = "**" + text + "**"
			}
			if cell.Event != nil {
				text += "<br>" + cell.Event.Title
			}
			row[i] = text
		}
		output.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}

	output.WriteString(fmt.Sprintf("\n← %s · %s →\n", m.Prev, m.Next))
	return output.String(), nil
}

func (f *CalendarMarkdownFormatter) SupportedType() string { return TypeCalendar }

// CommunityMarkdownFormatter renders the community links
type CommunityMarkdownFormatter struct{}

func (f *CommunityMarkdownFormatter) Format(data any) (string, error) {
	cards, ok := data.([]catalog.CommunityCard)
	if !ok {
		return "", fmt.Errorf("expected []CommunityCard, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Community Hub\n")
	for _, c := range cards {
		output.WriteString(fmt.Sprintf("\n## %s\n\n%s\n\n[%s](%s)\n", c.Title, c.Description, c.ButtonText, c.URL))
	}
	return output.String(), nil
}

func (f *CommunityMarkdownFormatter) SupportedType() string { return TypeCommunity }

// TranscriptMarkdownFormatter renders a chat transcript
type TranscriptMarkdownFormatter struct{}

func (f *TranscriptMarkdownFormatter) Format(data any) (string, error) {
	messages, ok := data.([]types.ChatMessage)
	if !ok {
		return "", fmt.Errorf("expected []ChatMessage, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Career Assistant\n\n")
	for _, m := range messages {
		who := "**You:**"
		if m.Sender == types.SenderAI {
			who = "**Assistant:**"
		}
		output.WriteString(fmt.Sprintf("%s %s\n\n", who, m.Text))
	}
	return output.String(), nil
}

func (f *TranscriptMarkdownFormatter) SupportedType() string { return TypeTranscript }
