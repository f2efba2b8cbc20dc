package ai

import "google.golang.org/genai"

func skillListSchema(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: description,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name": {Type: genai.TypeString, Description: "Name of the skill."},
				"type": {Type: genai.TypeString, Description: "Type of skill: 'technical', 'soft', or 'tool'."},
			},
			Required: []string{"name", "type"},
		},
	}
}

// analysisSchema is the response schema for gap analysis. Enum-like fields
// are plain strings; the parser coerces them.
func analysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"requiredSkills": skillListSchema("List of all skills required by the job description."),
			"matchedSkills":  skillListSchema("List of user skills that match the job requirements."),
			"gapSkills":      skillListSchema("List of required skills that the user is missing."),
			"careerReadinessScore": {
				Type:        genai.TypeInteger,
				Description: "A score from 0 to 100 representing how well the user's skills match the job. Calculated as (matchedSkills / requiredSkills) * 100.",
			},
			"summary": {
				Type:        genai.TypeString,
				Description: "A brief, encouraging summary of the analysis and the user's career readiness.",
			},
			"recommendations": {
				Type:        genai.TypeArray,
				Description: "A personalized list of actionable recommendations to bridge the skill gap.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"type":        {Type: genai.TypeString, Description: "The type of recommendation: 'Course', 'Certification', 'Project', or 'Internship'."},
						"title":       {Type: genai.TypeString, Description: "Title of the recommended item."},
						"description": {Type: genai.TypeString, Description: "A short description of why this is recommended."},
						"platform":    {Type: genai.TypeString, Description: "The platform to find this item (e.g., Coursera, Udemy, GitHub)."},
						"url":         {Type: genai.TypeString, Description: "A direct URL to the recommended item."},
					},
					Required: []string{"type", "title", "description", "platform"},
				},
			},
		},
		Required: []string{"requiredSkills", "matchedSkills", "gapSkills", "careerReadinessScore", "summary", "recommendations"},
	}
}
