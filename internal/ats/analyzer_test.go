package ats

import (
	"math"
	"strings"
	"testing"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tenLineResume has no formatting issues and exactly two vocabulary keywords.
const tenLineResume = `Jane Doe
Email: jane@example.com
Work Experience
Senior Engineer at Acme
Led leadership initiatives
Handled management of vendors
Skills
Go, SQL
Education
BSc Computer Science`

func TestAnalyze_TwoKeywordsNoIssues(t *testing.T) {
	result := Analyze(tenLineResume, "")

	assert.Equal(t, 100, result.Formatting.Score)
	assert.Empty(t, result.Formatting.Issues)
	assert.Equal(t, []string{"leadership", "management"}, result.KeywordMatches)
	assert.Len(t, result.MissingKeywords, len(Vocabulary)-2)
	assert.Equal(t, 57, result.Score)
	assert.Equal(t, []string{SuggestKeywords, SuggestIndustry, SuggestAchievements}, result.Suggestions)
}

func TestAnalyze_MarkupShortNoContact(t *testing.T) {
	text := "<div>Work history</div>\nTechnical skills\nGo"

	result := Analyze(text, "")

	assert.Equal(t, []string{IssueMarkup, IssueTooShort, IssueNoContact}, result.Formatting.Issues)
	assert.Equal(t, 55, result.Formatting.Score)
	assert.Empty(t, result.KeywordMatches)
	assert.Equal(t, 28, result.Score)
	assert.Contains(t, result.Suggestions, SuggestFormatting)
}

func TestAnalyze_NoKeywords(t *testing.T) {
	result := Analyze("nothing to see here", "")

	assert.Empty(t, result.KeywordMatches)
	assert.NotNil(t, result.KeywordMatches)
	assert.Equal(t, Vocabulary, result.MissingKeywords)
}

func TestAnalyze_AllKeywords(t *testing.T) {
	text := strings.Join(Vocabulary, "\n") + "\nEmail: a@b.io\nWork experience\nSkills"

	result := Analyze(text, "")

	assert.Empty(t, result.MissingKeywords)
	assert.Equal(t, Vocabulary, result.KeywordMatches)
	assert.Equal(t, 100, result.Score)
	assert.Equal(t, []string{SuggestAchievements}, result.Suggestions)
}

func TestAnalyze_KeywordMatchIsCaseInsensitive(t *testing.T) {
	result := Analyze("LEADERSHIP and Innovation", "")
	assert.Equal(t, []string{"leadership", "innovation"}, result.KeywordMatches)
}

func TestAnalyze_EmptyText(t *testing.T) {
	result := Analyze("", "")

	assert.Equal(t, []string{IssueTooShort, IssueNoContact, IssueNoExperience, IssueNoSkills}, result.Formatting.Issues)
	assert.Equal(t, 40, result.Formatting.Score)
	assert.Equal(t, 20, result.Score)
}

func TestAnalyze_AchievementWording(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		suggest bool
	}{
		{"achieved", tenLineResume + "\nachieved 20% growth", false},
		{"accomplished", tenLineResume + "\naccomplished migration", false},
		{"capitalized does not count", tenLineResume + "\nAchieved 20% growth", true},
		{"neither", tenLineResume, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Analyze(tt.text, "")
			if tt.suggest {
				assert.Contains(t, result.Suggestions, SuggestAchievements)
			} else {
				assert.NotContains(t, result.Suggestions, SuggestAchievements)
			}
		})
	}
}

func TestAnalyze_JobDescriptionDoesNotChangeScore(t *testing.T) {
	without := Analyze(tenLineResume, "")
	with := Analyze(tenLineResume, "Looking for strategic innovation and teamwork")
	assert.Equal(t, without, with)
}

func TestAnalyze_Deterministic(t *testing.T) {
	assert.Equal(t, Analyze(tenLineResume, ""), Analyze(tenLineResume, ""))
}

func TestCheckFormatting_ScoreBounds(t *testing.T) {
	inputs := []string{
		"",
		"<>",
		tenLineResume,
		"<b>\n",
		strings.Repeat("line\n", 20),
	}

	for _, in := range inputs {
		report := CheckFormatting(in)
		assert.GreaterOrEqual(t, report.Score, 0)
		assert.LessOrEqual(t, report.Score, 100)
		assert.Equal(t, max(0, 100-IssuePenalty*len(report.Issues)), report.Score)
	}
}

func TestAnalyze_ScoreFormula(t *testing.T) {
	inputs := []string{"", tenLineResume, "project results\n<x>", strings.Join(Vocabulary, " ")}
	for _, in := range inputs {
		r := Analyze(in, "")
		ratio := float64(len(r.KeywordMatches)) / float64(len(Vocabulary)) * 100
		expected := int(math.Round((ratio + float64(r.Formatting.Score)) / 2))
		assert.Equal(t, expected, r.Score, "input %q", in)
		assert.GreaterOrEqual(t, r.Score, 0)
		assert.LessOrEqual(t, r.Score, 100)
	}
}

func TestFlattenResume(t *testing.T) {
	r := &types.Resume{
		PersonalInfo: types.PersonalInfo{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Phone:     "555-0100",
			Title:     "Engineer",
			Summary:   "Builds engines.",
		},
		Experience: []types.ExperienceItem{
			{Position: "Engineer", Company: "Babbage & Co", StartDate: "1842", Current: true, Description: []string{"Wrote the first program"}},
		},
		Skills: []types.SkillCategory{{Category: "Math", Skills: []string{"Analysis", "Algebra"}}},
	}

	text := FlattenResume(r)
	require.NotEmpty(t, text)

	assert.Contains(t, text, "Ada Lovelace")
	assert.Contains(t, text, "Email: ada@example.com")
	assert.Contains(t, text, "Work Experience")
	assert.Contains(t, text, "Engineer at Babbage & Co")
	assert.Contains(t, text, "1842 - Present")
	assert.Contains(t, text, "Math: Analysis, Algebra")
	assert.NotContains(t, text, "Education")

	result := Analyze(text, "")
	assert.NotContains(t, result.Formatting.Issues, IssueNoContact)
	assert.NotContains(t, result.Formatting.Issues, IssueNoExperience)
	assert.NotContains(t, result.Formatting.Issues, IssueNoSkills)
	assert.Contains(t, result.KeywordMatches, "analysis")
}

func TestFlattenResume_HeadingsDoNotScoreKeywords(t *testing.T) {
	r := &types.Resume{
		Projects:     []types.ProjectItem{{Name: "Compiler", Description: "Toy compiler"}},
		Achievements: []types.AchievementItem{{Title: "Hackathon winner", Description: "First place"}},
	}

	text := FlattenResume(r)
	assert.Contains(t, text, "Compiler")
	assert.Contains(t, text, "Hackathon winner")

	result := Analyze(text, "")
	assert.NotContains(t, result.KeywordMatches, "project")
	assert.NotContains(t, result.KeywordMatches, "achievement")
}

func TestFlattenResume_Nil(t *testing.T) {
	assert.Equal(t, "", FlattenResume(nil))
}
