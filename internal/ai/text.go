package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/resume-builder/internal/ats"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/types"
)

// Confidence values attached to section suggestions
const (
	ModelSuggestionConfidence    = 0.8
	FallbackSuggestionConfidence = 0.7
)

// MaxImprovements caps the ATS improvement list
const MaxImprovements = 3

// DefaultImprovements is returned when the model cannot supply improvements
var DefaultImprovements = []string{
	"Add metrics to experience descriptions",
	"Include relevant certifications",
	"Optimize for target job keywords",
}

// ImproveText rewrites text for the given context ("experience", "summary").
// The original text is returned, trimmed, when the model cannot help.
func (s *Service) ImproveText(ctx context.Context, text, textContext, jobDescription string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return text
	}
	if textContext == "" {
		textContext = "resume"
	}

	prompt := render("improve-text", map[string]string{"Context": textContext, "Text": text})
	if jd := strings.TrimSpace(jobDescription); jd != "" {
		prompt += render("improve-text-job", map[string]string{"JobDescription": jd})
	}
	prompt += render("improve-text-rules", nil)

	out, ok := s.generate(ctx, "improve text", prompt, llm.TierStandard)
	if !ok {
		return text
	}
	return strings.Trim(out, `"`)
}

// GenerateSummary writes a professional summary for the resume owner
func (s *Service) GenerateSummary(ctx context.Context, info types.PersonalInfo, experience []types.ExperienceItem, skills []types.SkillCategory, jobDescription string) string {
	flat := types.FlattenSkills(skills)

	experienceHint := "multiple"
	if len(experience) > 0 {
		experienceHint = strconv.Itoa(len(experience))
	}

	prompt := render("generate-summary", map[string]string{
		"Title":      info.Title,
		"Skills":     strings.Join(flat, ", "),
		"Experience": experienceHint,
	})
	if jd := strings.TrimSpace(jobDescription); jd != "" {
		prompt += render("generate-summary-job", map[string]string{"JobDescription": jd})
	}

	if out, ok := s.generate(ctx, "generate summary", prompt, llm.TierStandard); ok {
		return out
	}
	return FallbackSummary(info, experience, flat)
}

// FallbackSummary builds a summary from the resume data alone
func FallbackSummary(info types.PersonalInfo, experience []types.ExperienceItem, flatSkills []string) string {
	title := strings.TrimSpace(info.Title)
	if title == "" {
		title = "professional"
	}

	var sb strings.Builder
	sb.WriteString("Experienced " + title + " with a proven track record of success. ")

	if len(experience) > 0 {
		position := strings.TrimSpace(experience[0].Position)
		if position == "" {
			position = "various roles"
		}
		sb.WriteString("Skilled in " + position + " with strong leadership and analytical capabilities. ")
	}

	if len(flatSkills) > 0 {
		top := flatSkills
		if len(top) > 3 {
			top = top[:3]
		}
		sb.WriteString("Proficient in " + strings.Join(top, ", ") + " and committed to delivering excellent results.")
	} else {
		sb.WriteString("Committed to continuous professional growth and delivering exceptional results.")
	}

	return strings.TrimSpace(sb.String())
}

// sectionSuggestion is the JSON shape requested from the model
type sectionSuggestion struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	SuggestedText string `json:"suggestedText"`
}

// Suggestions returns improvement suggestions for one resume section
func (s *Service) Suggestions(ctx context.Context, resume *types.Resume, section string) []types.AIImprovementSuggestion {
	section = strings.TrimSpace(section)
	content := SectionText(resume, strings.ToLower(section))

	title := ""
	if resume != nil {
		title = resume.PersonalInfo.Title
	}
	task := render("section-suggestion", map[string]string{
		"Section": section,
		"Title":   title,
		"Content": content,
	})

	if out, ok := s.generateJSON(ctx, "suggestions", llm.BuildJSONPrompt(llm.SuggestionSchema(), task), llm.TierStandard); ok {
		suggestion := types.AIImprovementSuggestion{
			Section:      section,
			Field:        section,
			Type:         types.SuggestionImprovement,
			Title:        "AI Suggestion",
			Description:  out,
			OriginalText: content,
			Confidence:   ModelSuggestionConfidence,
		}
		var parsed sectionSuggestion
		if err := json.Unmarshal([]byte(out), &parsed); err == nil && strings.TrimSpace(parsed.Description) != "" {
			suggestion.Description = strings.TrimSpace(parsed.Description)
			suggestion.SuggestedText = strings.TrimSpace(parsed.SuggestedText)
		}
		return []types.AIImprovementSuggestion{suggestion}
	}

	return []types.AIImprovementSuggestion{{
		Section:     section,
		Field:       section,
		Type:        types.SuggestionImprovement,
		Title:       "General Improvement",
		Description: fmt.Sprintf("Consider enhancing the %s section with more specific details and achievements.", section),
		Confidence:  FallbackSuggestionConfidence,
	}}
}

// ATSImprovements asks the model for a short list of ATS improvements.
// Model output never affects the score.
func (s *Service) ATSImprovements(ctx context.Context, resume *types.Resume) []string {
	var skills, experience string
	if resume != nil {
		skills = strings.Join(types.FlattenSkills(resume.Skills), ", ")
		positions := make([]string, 0, len(resume.Experience))
		for _, e := range resume.Experience {
			positions = append(positions, strings.TrimSpace(e.Position+" at "+e.Company))
		}
		experience = strings.Join(positions, "; ")
	}

	prompt := render("ats-improvements", map[string]string{"Skills": skills, "Experience": experience})
	out, ok := s.generateJSON(ctx, "ats improvements", prompt, llm.TierLite)
	if !ok {
		return append([]string(nil), DefaultImprovements...)
	}

	var parsed struct {
		Improvements []string `json:"improvements"`
	}
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		return append([]string(nil), DefaultImprovements...)
	}

	improvements := make([]string, 0, MaxImprovements)
	for _, item := range parsed.Improvements {
		if item = strings.TrimSpace(item); item != "" {
			improvements = append(improvements, item)
		}
		if len(improvements) == MaxImprovements {
			break
		}
	}
	if len(improvements) == 0 {
		return append([]string(nil), DefaultImprovements...)
	}
	return improvements
}

// AnalyzeResume scores structured resume data and attaches improvements
func (s *Service) AnalyzeResume(ctx context.Context, resume *types.Resume, jobDescription string) *types.ATSReport {
	analysis := ats.Analyze(ats.FlattenResume(resume), jobDescription)
	return &types.ATSReport{
		ATSAnalysis:  *analysis,
		Keywords:     analysis.KeywordMatches,
		Improvements: s.ATSImprovements(ctx, resume),
	}
}

// SectionText renders the content of one named section as plain text.
// Unknown sections render the whole resume.
func SectionText(r *types.Resume, section string) string {
	if r == nil {
		return ""
	}

	var lines []string
	switch section {
	case "summary", "personalinfo":
		lines = append(lines, r.PersonalInfo.Summary)
	case "experience":
		for _, e := range r.Experience {
			lines = append(lines, e.Position+" at "+e.Company)
			lines = append(lines, e.Description...)
		}
	case "education":
		for _, e := range r.Education {
			lines = append(lines, e.Degree+", "+e.Institution)
			lines = append(lines, e.Description...)
		}
	case "skills":
		lines = append(lines, strings.Join(types.FlattenSkills(r.Skills), ", "))
	case "projects":
		for _, p := range r.Projects {
			lines = append(lines, p.Name+": "+p.Description)
		}
	case "certifications":
		for _, c := range r.Certifications {
			lines = append(lines, c.Name+" ("+c.Issuer+")")
		}
	case "achievements":
		for _, a := range r.Achievements {
			lines = append(lines, a.Title+": "+a.Description)
		}
	default:
		return ats.FlattenResume(r)
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
