package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintResume(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResume(&types.Resume{
		Template: "classic",
		PersonalInfo: types.PersonalInfo{
			FirstName: "Ada", LastName: "Lovelace", Title: "Software Engineer",
		},
		Experience: []types.ExperienceItem{
			{Position: "Engineer", Company: "Acme"},
			{Position: "Intern", Company: "Initech"},
			{Position: "Tutor", Company: "College"},
			{Position: "Clerk", Company: "Shop"},
		},
		Skills: []types.SkillCategory{{Category: "Languages", Skills: []string{"Go", "SQL"}}},
	})
	output := buf.String()

	assert.Contains(t, output, "RESUME")
	assert.Contains(t, output, "Ada Lovelace")
	assert.Contains(t, output, "Software Engineer")
	assert.Contains(t, output, "classic")
	assert.Contains(t, output, "Engineer at Acme")
	assert.Contains(t, output, "... and 1 more")
	assert.Contains(t, output, "Skills (2): Go, SQL")
}

func TestPrintResume_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintResume(nil)
	assert.Empty(t, buf.String())
}

func TestPrintATSAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintATSAnalysis(&types.ATSAnalysis{
		Score:           57,
		KeywordMatches:  []string{"leadership", "development"},
		MissingKeywords: []string{"management", "analysis", "communication", "teamwork", "project", "strategic"},
		Suggestions:     []string{"Add more industry-relevant keywords"},
		Formatting: types.FormattingReport{
			Score:  85,
			Issues: []string{"Contains HTML tags which may not be parsed correctly"},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "ATS ANALYSIS")
	assert.Contains(t, output, "ATS score:  57/100")
	assert.Contains(t, output, "Formatting: 85/100")
	assert.Contains(t, output, "Matched keywords (2)")
	assert.Contains(t, output, "... and 1 more")
	assert.Contains(t, output, "Contains HTML tags which may not be parsed correctly")
	assert.Contains(t, output, "Add more industry-relevant keywords")
	assert.NotContains(t, output, "strategic", "lists stop at five items")
}

func TestPrintATSAnalysis_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintATSAnalysis(nil)
	assert.Empty(t, buf.String())
}

func TestPrintValidation_Passed(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintValidation(nil)

	assert.Contains(t, buf.String(), "Validation passed")
}

func TestPrintValidation_Failed(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintValidation([]FieldProblem{
		{Field: "personalInfo.email", Message: "is required"},
		{Field: "title", Message: "Invalid type. Expected: string, given: integer"},
	})
	output := buf.String()

	assert.Contains(t, output, "VALIDATION ERRORS")
	assert.Contains(t, output, "Validation failed with 2 error(s)")
	assert.Contains(t, output, "⚠ personalInfo.email")
	assert.Contains(t, output, "is required")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 100))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth, line)
	}
	assert.Contains(t, buf.String(), "...")
}
