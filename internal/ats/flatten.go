package ats

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// FlattenResume renders structured resume data as newline-separated plain text
// so it can be scored by Analyze. Empty sections are omitted. Headings avoid
// Vocabulary terms so only the user's own words score keywords.
func FlattenResume(r *types.Resume) string {
	if r == nil {
		return ""
	}

	var lines []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			lines = append(lines, s)
		}
	}

	p := r.PersonalInfo
	add(p.FullName())
	add(p.Title)
	if p.Email != "" {
		add("Email: " + p.Email)
	}
	if p.Phone != "" {
		add("Phone: " + p.Phone)
	}
	add(p.Location)
	add(p.LinkedIn)
	add(p.Website)

	if p.Summary != "" {
		add("Professional Summary")
		add(p.Summary)
	}

	if len(r.Experience) > 0 {
		add("Work Experience")
		for _, e := range r.Experience {
			add(fmt.Sprintf("%s at %s", e.Position, e.Company))
			add(dateRange(e.StartDate, e.EndDate, e.Current))
			add(e.Location)
			for _, d := range e.Description {
				add(d)
			}
		}
	}

	if len(r.Education) > 0 {
		add("Education")
		for _, e := range r.Education {
			add(fmt.Sprintf("%s, %s", e.Degree, e.Institution))
			add(dateRange(e.StartDate, e.EndDate, false))
			if e.GPA != "" {
				add("GPA: " + e.GPA)
			}
			for _, d := range e.Description {
				add(d)
			}
		}
	}

	if len(r.Skills) > 0 {
		add("Skills")
		for _, s := range r.Skills {
			add(fmt.Sprintf("%s: %s", s.Category, strings.Join(s.Skills, ", ")))
		}
	}

	if len(r.Projects) > 0 {
		add("Portfolio")
		for _, pr := range r.Projects {
			add(pr.Name)
			add(pr.Description)
			if len(pr.Technologies) > 0 {
				add("Technologies: " + strings.Join(pr.Technologies, ", "))
			}
		}
	}

	if len(r.Certifications) > 0 {
		add("Certifications")
		for _, c := range r.Certifications {
			add(strings.TrimSuffix(fmt.Sprintf("%s - %s", c.Name, c.Issuer), " - "))
		}
	}

	if len(r.Achievements) > 0 {
		add("Awards")
		for _, a := range r.Achievements {
			add(a.Title)
			add(a.Description)
		}
	}

	return strings.Join(lines, "\n")
}

// dateRange formats "start - end", using "Present" for current positions.
func dateRange(start, end string, current bool) string {
	if current {
		end = "Present"
	}
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start
	default:
		return end
	}
}
