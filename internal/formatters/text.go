package formatters

import (
	"fmt"
	"strings"

	"skillsync/internal/catalog"
	"skillsync/internal/types"
)

// AnalysisTextFormatter renders the dashboard and personal roadmap of a result
type AnalysisTextFormatter struct{}

func (f *AnalysisTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}
	dash := catalog.NewDashboard(result)
	plan := catalog.NewPersonalRoadmap(result)

	var output strings.Builder

	output.WriteString("=== CAREER READINESS ===\n")
	output.WriteString(fmt.Sprintf("Score: %d%% (%s)\n\n", dash.Score, dash.Band))
	output.WriteString("AI Summary:\n")
	output.WriteString(dash.Summary)
	output.WriteString("\n\n")

	output.WriteString("=== SKILL BREAKDOWN ===\n")
	for _, bar := range dash.Chart {
		output.WriteString(fmt.Sprintf("%-15s %3d %s\n", bar.Name+":", bar.Count, strings.Repeat("#", bar.Count)))
	}
	output.WriteString("\n")

	output.WriteString(fmt.Sprintf("Your Strengths (%d):\n", len(dash.Strengths)))
	for _, s := range dash.Strengths {
		output.WriteString(fmt.Sprintf("  + %s [%s]\n", s.Name, s.Category))
	}
	output.WriteString(fmt.Sprintf("\nAreas for Improvement (%d):\n", len(dash.Gaps)))
	if dash.Message != "" {
		output.WriteString("  " + dash.Message + "\n")
	}
	for _, s := range dash.Gaps {
		output.WriteString(fmt.Sprintf("  - %s [%s]\n", s.Name, s.Category))
	}
	output.WriteString("\n")

	output.WriteString("=== RECOMMENDATIONS ===\n")
	if plan.Message != "" {
		output.WriteString(plan.Message + "\n")
	}
	for i, rec := range plan.Recommendations {
		output.WriteString(fmt.Sprintf("%d. %s · %s\n", i+1, rec.Kind, rec.Platform))
		output.WriteString("   " + rec.Title + "\n")
		if rec.Description != "" {
			output.WriteString("   " + rec.Description + "\n")
		}
		if rec.URL != "" {
			output.WriteString("   " + rec.URL + "\n")
		}
	}

	return output.String(), nil
}

func (f *AnalysisTextFormatter) SupportedType() string { return TypeAnalysis }

// SkillsTextFormatter prints an extracted skill list as is
type SkillsTextFormatter struct{}

func (f *SkillsTextFormatter) Format(data any) (string, error) {
	out, ok := data.(types.ExtractSkillsOutput)
	if !ok {
		return "", fmt.Errorf("expected ExtractSkillsOutput, got %T", data)
	}
	return out.Skills + "\n", nil
}

func (f *SkillsTextFormatter) SupportedType() string { return TypeSkills }

// RoadmapTextFormatter renders a static roadmap
type RoadmapTextFormatter struct{}

func (f *RoadmapTextFormatter) Format(data any) (string, error) {
	r, ok := data.(catalog.Roadmap)
	if !ok {
		return "", fmt.Errorf("expected Roadmap, got %T", data)
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("=== %s ===\n%s\n", strings.ToUpper(r.Title), r.Description))
	for i, section := range r.Sections {
		output.WriteString(fmt.Sprintf("\n%d. %s\n", i+1, section.Title))
		for _, item := range section.Items {
			output.WriteString(fmt.Sprintf("   - %s [%s]\n", item.Name, item.Type))
		}
	}
	return output.String(), nil
}

func (f *RoadmapTextFormatter) SupportedType() string { return TypeRoadmap }

// CalendarTextFormatter renders a month grid followed by its events
type CalendarTextFormatter struct{}

func (f *CalendarTextFormatter) Format(data any) (string, error) {
	m, ok := data.(catalog.CalendarMonth)
	if !ok {
		return "", fmt.Errorf("expected CalendarMonth, got %T", data)
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("%s\n", m.Title))
	output.WriteString(strings.Join(m.Weekdays[:], " ") + "\n")

	var events []catalog.CalendarCell
	for i, cell := range m.Cells {
		switch {
		case cell.Blank():
			output.WriteString("   ")
		default:
			mark := " "
			if cell.Event != nil {
				mark = "*"
				events = append(events, cell)
			}
			if cell.Today {
				mark = "<"
			}
			output.WriteString(fmt.Sprintf("%2d%s", cell.Day, mark))
		}
		if i%7 == 6 {
			output.WriteString("\n")
		} else {
			output.WriteString(" ")
		}
	}
	output.WriteString("\n")

	if len(events) > 0 {
		output.WriteString("\nLearning events:\n")
		for _, cell := range events {
			output.WriteString(fmt.Sprintf("  %s  %s (%s)\n", cell.Date, cell.Event.Title, cell.Event.Platform))
		}
	}
	output.WriteString(fmt.Sprintf("\n< %s    %s >\n", m.Prev, m.Next))
	return output.String(), nil
}

func (f *CalendarTextFormatter) SupportedType() string { return TypeCalendar }

// CommunityTextFormatter lists the community links
type CommunityTextFormatter struct{}

func (f *CommunityTextFormatter) Format(data any) (string, error) {
	cards, ok := data.([]catalog.CommunityCard)
	if !ok {
		return "", fmt.Errorf("expected []CommunityCard, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== COMMUNITY HUB ===\n")
	for _, c := range cards {
		output.WriteString(fmt.Sprintf("\n%s\n%s\n%s: %s\n", c.Title, c.Description, c.ButtonText, c.URL))
	}
	return output.String(), nil
}

func (f *CommunityTextFormatter) SupportedType() string { return TypeCommunity }

// TranscriptTextFormatter prints a chat transcript
type TranscriptTextFormatter struct{}

func (f *TranscriptTextFormatter) Format(data any) (string, error) {
	messages, ok := data.([]types.ChatMessage)
	if !ok {
		return "", fmt.Errorf("expected []ChatMessage, got %T", data)
	}

	var output strings.Builder
	for _, m := range messages {
		who := "You"
		if m.Sender == types.SenderAI {
			who = "Assistant"
		}
		output.WriteString(fmt.Sprintf("%s: %s\n", who, m.Text))
	}
	return output.String(), nil
}

func (f *TranscriptTextFormatter) SupportedType() string { return TypeTranscript }
