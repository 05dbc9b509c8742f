package rendering

import (
	"embed"
	"strings"
	"text/template"

	"github.com/jonathan/resume-builder/internal/types"
)

//go:embed templates/resume.tex.tmpl
var templateFS embed.FS

// accentColors maps template ids to the HTML accent color of their layout
var accentColors = map[string]string{
	"modern":    "1F4E79",
	"classic":   "000000",
	"creative":  "8E44AD",
	"minimal":   "333333",
	"executive": "0B3954",
	"tech":      "0E7C61",
	"elegant":   "6D4C41",
	"bold":      "C0392B",
	"academic":  "2C3E50",
	"startup":   "E67E22",
}

// AccentColor returns the accent for a template id. Unknown ids use the modern look.
func AccentColor(templateID string) string {
	if c, ok := accentColors[strings.ToLower(strings.TrimSpace(templateID))]; ok {
		return c
	}
	return accentColors[types.DefaultTemplate]
}

// TemplateData is the escaped view of a resume passed to the LaTeX template
type TemplateData struct {
	Accent         string
	Name           string
	Title          string
	Contact        string
	Links          []Link
	Summary        string
	Experience     []Entry
	Education      []Entry
	Skills         []SkillLine
	Projects       []Entry
	Certifications []Entry
	Achievements   []Entry
}

// Link is a hyperlink in the header
type Link struct {
	URL   string
	Label string
}

// Entry is one dated item of a section
type Entry struct {
	Heading    string
	Subheading string
	Dates      string
	Bullets    []string
}

// SkillLine is one skill category with its skills joined
type SkillLine struct {
	Category string
	Skills   string
}

var resumeTemplate = template.Must(
	template.New("resume.tex.tmpl").Delims("<<", ">>").ParseFS(templateFS, "templates/resume.tex.tmpl"),
)

// RenderLaTeX renders a resume as a LaTeX document. An empty templateID uses
// the resume's own template.
func RenderLaTeX(resume *types.Resume, templateID string) (string, error) {
	if resume == nil {
		return "", &RenderError{Message: "resume is required"}
	}
	if templateID == "" {
		templateID = resume.Template
	}

	data := BuildTemplateData(resume, templateID)

	var result strings.Builder
	if err := resumeTemplate.Execute(&result, data); err != nil {
		return "", &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}
	return result.String(), nil
}

// BuildTemplateData escapes every user-supplied field of the resume
func BuildTemplateData(r *types.Resume, templateID string) *TemplateData {
	p := r.PersonalInfo
	data := &TemplateData{
		Accent:  AccentColor(templateID),
		Name:    EscapeLaTeX(p.FullName()),
		Title:   EscapeLaTeX(p.Title),
		Contact: joinEscaped(" | ", p.Email, p.Phone, p.Location),
		Summary: EscapeLaTeX(strings.TrimSpace(p.Summary)),
	}

	for _, url := range []string{p.LinkedIn, p.Website} {
		if url = strings.TrimSpace(url); url != "" {
			data.Links = append(data.Links, Link{URL: escapeURL(url), Label: EscapeLaTeX(url)})
		}
	}

	for _, e := range r.Experience {
		end := e.EndDate
		if e.Current {
			end = "Present"
		}
		data.Experience = append(data.Experience, Entry{
			Heading:    EscapeLaTeX(e.Position),
			Subheading: joinEscaped(" | ", e.Company, e.Location),
			Dates:      DateRange(e.StartDate, end),
			Bullets:    escapeAll(e.Description),
		})
	}

	for _, e := range r.Education {
		end := e.EndDate
		if end == "" && e.StartDate != "" {
			end = "Present"
		}
		sub := joinEscaped(" | ", e.Institution, e.Location)
		if e.GPA != "" {
			sub += " | GPA: " + EscapeLaTeX(e.GPA)
		}
		data.Education = append(data.Education, Entry{
			Heading:    EscapeLaTeX(e.Degree),
			Subheading: sub,
			Dates:      DateRange(e.StartDate, end),
			Bullets:    escapeAll(e.Description),
		})
	}

	for _, s := range r.Skills {
		if len(s.Skills) == 0 {
			continue
		}
		data.Skills = append(data.Skills, SkillLine{
			Category: EscapeLaTeX(s.Category),
			Skills:   joinEscaped(", ", s.Skills...),
		})
	}

	for _, pr := range r.Projects {
		var lines []string
		if d := strings.TrimSpace(pr.Description); d != "" {
			lines = append(lines, EscapeLaTeX(d))
		}
		if len(pr.Technologies) > 0 {
			lines = append(lines, "Technologies: "+joinEscaped(", ", pr.Technologies...))
		}
		data.Projects = append(data.Projects, Entry{
			Heading:    EscapeLaTeX(pr.Name),
			Subheading: joinEscaped(" | ", pr.URL, pr.GitHub),
			Dates:      DateRange(pr.StartDate, pr.EndDate),
			Bullets:    lines,
		})
	}

	for _, c := range r.Certifications {
		data.Certifications = append(data.Certifications, Entry{
			Heading:    EscapeLaTeX(c.Name),
			Subheading: joinEscaped(" | ", c.Issuer, c.CredentialID),
			Dates:      EscapeLaTeX(c.Date),
		})
	}

	for _, a := range r.Achievements {
		var lines []string
		if d := strings.TrimSpace(a.Description); d != "" {
			lines = append(lines, EscapeLaTeX(d))
		}
		data.Achievements = append(data.Achievements, Entry{
			Heading: EscapeLaTeX(a.Title),
			Dates:   EscapeLaTeX(a.Date),
			Bullets: lines,
		})
	}

	return data
}

// DateRange formats "start -- end", collapsing missing halves
func DateRange(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return EscapeLaTeX(end)
	case end == "":
		return EscapeLaTeX(start)
	}
	return EscapeLaTeX(start) + " -- " + EscapeLaTeX(end)
}

// joinEscaped escapes and joins the non-blank parts
func joinEscaped(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, EscapeLaTeX(p))
		}
	}
	return strings.Join(kept, sep)
}

func escapeAll(lines []string) []string {
	var out []string
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, EscapeLaTeX(l))
		}
	}
	return out
}

// escapeURL escapes only the characters that break \href arguments
func escapeURL(url string) string {
	return strings.NewReplacer(`\`, "", "{", "", "}", "", "%", `\%`, "#", `\#`).Replace(url)
}
