package ai

import "strings"

// Intent is the topic a chat message is about
type Intent string

const (
	IntentImprovement     Intent = "improvement"
	IntentATSOptimization Intent = "ats_optimization"
	IntentSkillsGuidance  Intent = "skills_guidance"
	IntentSummaryHelp     Intent = "summary_help"
	IntentExperienceHelp  Intent = "experience_help"
	IntentFormatting      Intent = "formatting_design"
	IntentGeneral         Intent = "general"
)

// keywordRule matches a lowercased message containing any of its keywords
type keywordRule[T any] struct {
	keywords []string
	value    T
}

func (r keywordRule[T]) matches(lower string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// intentRules are checked in order; the first match wins
var intentRules = []keywordRule[Intent]{
	{keywords: []string{"improve", "better"}, value: IntentImprovement},
	{keywords: []string{"ats", "keywords"}, value: IntentATSOptimization},
	{keywords: []string{"skill"}, value: IntentSkillsGuidance},
	{keywords: []string{"summary", "objective"}, value: IntentSummaryHelp},
	{keywords: []string{"experience"}, value: IntentExperienceHelp},
	{keywords: []string{"template", "format"}, value: IntentFormatting},
}

// ClassifyIntent returns the intent of a chat message
func ClassifyIntent(message string) Intent {
	lower := strings.ToLower(message)
	for _, rule := range intentRules {
		if rule.matches(lower) {
			return rule.value
		}
	}
	return IntentGeneral
}

// directAnswers back an empty model reply
var directAnswers = map[Intent]string{
	IntentExperienceHelp:  "Use action verbs and quantify outcomes (e.g., 'Reduced costs by 18%'). Focus bullets on impact, not tasks.",
	IntentSummaryHelp:     "Write 2–3 sentences: title, years, top achievements, and target role. Keep it ATS-friendly.",
	IntentSkillsGuidance:  "Group skills by Technical/Soft, mirror keywords from the target JD, and keep names standard (e.g., React, Node.js, SQL).",
	IntentATSOptimization: "Extract keywords from target JDs, use standard titles, avoid tables/graphics, and keep layout simple for ATS.",
}

const defaultDirectAnswer = "Tell me which section (summary, experience, skills, ATS) you want to improve and your target role. I will give focused steps."

// DirectAnswer is the canned answer for an intent
func DirectAnswer(intent Intent) string {
	if answer, ok := directAnswers[intent]; ok {
		return answer
	}
	return defaultDirectAnswer
}

const (
	maxSuggestions = 5
	maxActions     = 3
	minSuggestions = 3
)

var suggestionRules = []keywordRule[[]string]{
	{keywords: []string{"experience"}, value: []string{"Start bullets with strong action verbs", "Add metrics (e.g., +25% conversion)"}},
	{keywords: []string{"skill"}, value: []string{"Group skills by Technical/Soft", "Match skills to JD keywords"}},
	{keywords: []string{"summary"}, value: []string{"Include title, years of experience, 2-3 key strengths"}},
	{keywords: []string{"ats", "keywords"}, value: []string{"Add industry keywords from target JD", "Keep layout ATS-friendly"}},
}

var genericSuggestions = []string{"Ensure consistent formatting", "Keep resume to 1–2 pages"}

var actionRules = []keywordRule[string]{
	{keywords: []string{"summary"}, value: "Use AI to generate a professional summary"},
	{keywords: []string{"ats", "keywords"}, value: "Run ATS analysis"},
	{keywords: []string{"improve", "experience"}, value: "Use AI text improvement for experience"},
	{keywords: []string{"skill"}, value: "Get skill optimization suggestions"},
}

// SuggestionsFor derives follow-up suggestions from the user's message
func SuggestionsFor(message string) []string {
	lower := strings.ToLower(message)
	var out []string
	for _, rule := range suggestionRules {
		if rule.matches(lower) {
			out = append(out, rule.value...)
		}
	}
	if len(out) < minSuggestions {
		out = append(out, genericSuggestions...)
	}
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// ActionsFor derives UI actions from the user's message
func ActionsFor(message string) []string {
	lower := strings.ToLower(message)
	out := []string{}
	for _, rule := range actionRules {
		if rule.matches(lower) {
			out = append(out, rule.value)
		}
	}
	if len(out) > maxActions {
		out = out[:maxActions]
	}
	return out
}
