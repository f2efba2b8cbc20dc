package ai

import (
	"skillsync/internal/config"
)

// Prompt templates. The extract user prompt takes the resume text; the
// analyze user prompt takes the user skills and the job description.
const (
	defaultExtractSystemPrompt = `You extract skills from resumes. You list only skills that appear in the text and never add commentary.`

	defaultExtractUserPrompt = `From the resume text provided below, extract all technical skills, soft skills, programming languages, and tools.
Return them as a single comma-separated string. For example: "React, TypeScript, Project Management, Figma, SQL".
Do not include any other text or explanation.

RESUME TEXT:
---
%s
---`

	defaultAnalyzeSystemPrompt = `You are a career analyst. You compare a candidate's skills with job requirements accurately and return only the requested JSON.`

	defaultAnalyzeUserPrompt = `Analyze the skill gap between the user's skills and the provided job description.

USER'S SKILLS:
%s

JOB DESCRIPTION:
%s

Perform the following actions and return the result in the specified JSON format:
1. Extract all technical skills, soft skills, and specific tools mentioned in the job description.
2. Compare the user's skills with the extracted job requirements.
3. Identify which required skills the user possesses (matchedSkills) and which they are missing (gapSkills). Every required skill belongs to exactly one of the two lists; skills the user has that the job does not require belong to neither.
4. Calculate a 'careerReadinessScore' from 0-100 based on the formula: (number of matched skills / number of total required skills) * 100.
5. Write a brief, encouraging summary of the analysis.
6. Generate a list of 3-5 diverse and actionable recommendations (Courses, Certifications, Projects, Internships) to help the user bridge the identified skill gaps. For each recommendation, provide a title, a short description, the platform (e.g., Coursera, Udemy, GitHub, Kaggle), and a placeholder URL.`

	defaultChatSystemPrompt = `You are a friendly and helpful AI career assistant for an app called SkillSync. Your goal is to provide concise, actionable career advice, answer questions about job skills, resumes, and interview preparation. Keep your answers helpful and encouraging.`
)

var defaultPrompts = map[string]config.PromptSet{
	config.OperationExtract: {System: defaultExtractSystemPrompt, User: defaultExtractUserPrompt},
	config.OperationAnalyze: {System: defaultAnalyzeSystemPrompt, User: defaultAnalyzeUserPrompt},
	config.OperationChat:    {System: defaultChatSystemPrompt},
}

// resolvePrompt returns the first non-empty prompt
func resolvePrompt(prompts ...string) string {
	for _, p := range prompts {
		if p != "" {
			return p
		}
	}
	return ""
}

// promptsFor merges the configured overrides over the built-in prompts. The
// store is read on every call so reloaded prompt files apply immediately.
func promptsFor(store *config.PromptStore, operation string) config.PromptSet {
	override := store.Get(operation)
	builtin := defaultPrompts[operation]
	return config.PromptSet{
		System: resolvePrompt(override.System, builtin.System),
		User:   resolvePrompt(override.User, builtin.User),
	}
}
