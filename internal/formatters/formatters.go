package formatters

import (
	"encoding/json"
	"fmt"
	"sort"

	"skillsync/internal/catalog"
	"skillsync/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// Data type keys used by the registry
const (
	TypeAny        = "any"
	TypeAnalysis   = "AnalysisResult"
	TypeSkills     = "ExtractSkillsOutput"
	TypeRoadmap    = "Roadmap"
	TypeCalendar   = "CalendarMonth"
	TypeCommunity  = "Community"
	TypeTranscript = "Transcript"
)

// GlobalRegistry is the registry shared by the CLI and the HTTP server
var GlobalRegistry = NewFormatterRegistry()

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", TypeAny, &JSONFormatter{})
	for _, f := range []Formatter{
		&AnalysisTextFormatter{}, &SkillsTextFormatter{}, &RoadmapTextFormatter{},
		&CalendarTextFormatter{}, &CommunityTextFormatter{}, &TranscriptTextFormatter{},
	} {
		registry.RegisterFormatter("text", f.SupportedType(), f)
	}
	for _, f := range []Formatter{
		&AnalysisMarkdownFormatter{}, &SkillsMarkdownFormatter{}, &RoadmapMarkdownFormatter{},
		&CalendarMarkdownFormatter{}, &CommunityMarkdownFormatter{}, &TranscriptMarkdownFormatter{},
	} {
		registry.RegisterFormatter("markdown", f.SupportedType(), f)
	}

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters[TypeAny]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalysisResult:
		return TypeAnalysis
	case types.ExtractSkillsOutput:
		return TypeSkills
	case catalog.Roadmap:
		return TypeRoadmap
	case catalog.CalendarMonth:
		return TypeCalendar
	case []catalog.CommunityCard:
		return TypeCommunity
	case []types.ChatMessage:
		return TypeTranscript
	default:
		return TypeAny
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return TypeAny
}

func skillNames(skills []types.Skill) []string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	return names
}
