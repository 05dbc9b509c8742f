// Package ats scores resume text for applicant-tracking-system compatibility.
//
// The scorer is a pure function of its input: a fixed keyword vocabulary and
// fixed formatting checks, so identical text always yields an identical result.
package ats

import (
	"math"
	"regexp"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// Vocabulary is the fixed, ordered list of domain-neutral keywords the scorer looks for
var Vocabulary = []string{
	"leadership",
	"management",
	"analysis",
	"communication",
	"teamwork",
	"project",
	"development",
	"strategic",
	"results",
	"achievement",
	"collaboration",
	"problem-solving",
	"innovation",
	"efficiency",
}

const (
	// MinLines is the line count below which a resume is flagged as too short
	MinLines = 10
	// IssuePenalty is subtracted from the formatting score per issue
	IssuePenalty = 15
	// PassingScore is the overall score below which keyword advice is given
	PassingScore = 70
	// MinKeywordMatches is the match count below which industry-term advice is given
	MinKeywordMatches = 5
)

// Formatting issue messages
const (
	IssueMarkup       = "Avoid HTML tags and special characters"
	IssueTooShort     = "Resume appears too short - consider adding more sections"
	IssueNoContact    = "Missing contact information"
	IssueNoExperience = "Missing work experience section"
	IssueNoSkills     = "Missing skills section"
)

// Suggestion messages
const (
	SuggestKeywords     = "Add more relevant keywords from job descriptions"
	SuggestFormatting   = "Improve formatting for better ATS compatibility"
	SuggestIndustry     = "Include more industry-relevant keywords"
	SuggestAchievements = "Add quantifiable achievements with numbers/percentages"
)

var (
	contactPattern    = regexp.MustCompile(`email|phone|@`)
	experiencePattern = regexp.MustCompile(`(?i)experience|work|employment|job`)
	skillsPattern     = regexp.MustCompile(`(?i)skills|technical|technologies`)
)

// formattingCheck flags one formatting problem. Checks run in table order.
type formattingCheck struct {
	issue   string
	flagged func(text, lower string) bool
}

var formattingChecks = []formattingCheck{
	{IssueMarkup, func(text, _ string) bool { return strings.ContainsAny(text, "<>") }},
	{IssueTooShort, func(text, _ string) bool { return len(strings.Split(text, "\n")) < MinLines }},
	{IssueNoContact, func(_, lower string) bool { return !contactPattern.MatchString(lower) }},
	{IssueNoExperience, func(text, _ string) bool { return !experiencePattern.MatchString(text) }},
	{IssueNoSkills, func(text, _ string) bool { return !skillsPattern.MatchString(text) }},
}

// Analyze scores resumeText against the fixed vocabulary and formatting checks.
//
// jobDescription is accepted for API compatibility but does not influence the
// keyword ratio, which is always computed against Vocabulary.
func Analyze(resumeText string, jobDescription string) *types.ATSAnalysis {
	lower := strings.ToLower(resumeText)

	formatting := CheckFormatting(resumeText)
	matches, missing := MatchKeywords(lower)

	ratio := float64(len(matches)) / float64(len(Vocabulary))
	score := int(math.Round((ratio*100 + float64(formatting.Score)) / 2))

	var suggestions []string
	if score < PassingScore {
		suggestions = append(suggestions, SuggestKeywords)
	}
	if len(formatting.Issues) > 0 {
		suggestions = append(suggestions, SuggestFormatting)
	}
	if len(matches) < MinKeywordMatches {
		suggestions = append(suggestions, SuggestIndustry)
	}
	if !strings.Contains(resumeText, "achieved") && !strings.Contains(resumeText, "accomplished") {
		suggestions = append(suggestions, SuggestAchievements)
	}

	return &types.ATSAnalysis{
		Score:           score,
		Suggestions:     nonNil(suggestions),
		KeywordMatches:  matches,
		MissingKeywords: missing,
		Formatting:      formatting,
	}
}

// CheckFormatting runs every formatting check against text.
// The score is 100 minus IssuePenalty per issue, floored at zero.
func CheckFormatting(text string) types.FormattingReport {
	lower := strings.ToLower(text)
	issues := []string{}
	for _, c := range formattingChecks {
		if c.flagged(text, lower) {
			issues = append(issues, c.issue)
		}
	}
	return types.FormattingReport{
		Score:  max(0, 100-IssuePenalty*len(issues)),
		Issues: issues,
	}
}

// MatchKeywords splits Vocabulary into terms found in lowerText and terms absent,
// both in vocabulary order. lowerText must already be lowercased.
func MatchKeywords(lowerText string) (matches, missing []string) {
	matches = []string{}
	missing = []string{}
	for _, kw := range Vocabulary {
		if strings.Contains(lowerText, kw) {
			matches = append(matches, kw)
		} else {
			missing = append(missing, kw)
		}
	}
	return matches, missing
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
