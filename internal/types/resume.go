// Package types provides type definitions for structured data used throughout the resume-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTemplate is the template id assigned when a resume does not name one
const DefaultTemplate = "modern"

// KnownTemplates lists the template ids the renderer has a dedicated look for.
// Unknown ids are still accepted and rendered with the default look.
var KnownTemplates = []string{
	"modern",
	"classic",
	"creative",
	"minimal",
	"executive",
	"tech",
	"elegant",
	"bold",
	"academic",
	"startup",
}

// IsKnownTemplate reports whether id is one of KnownTemplates
func IsKnownTemplate(id string) bool {
	for _, t := range KnownTemplates {
		if t == id {
			return true
		}
	}
	return false
}

// PersonalInfo holds the contact header of a resume
type PersonalInfo struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	LinkedIn  string `json:"linkedin,omitempty" validate:"omitempty,url"`
	Website   string `json:"website,omitempty" validate:"omitempty,url"`
	Photo     string `json:"photo,omitempty"`
}

// FullName joins first and last name
func (p PersonalInfo) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// ExperienceItem is a single position in the work history
type ExperienceItem struct {
	ID          string   `json:"id"`
	Position    string   `json:"position" validate:"required"`
	Company     string   `json:"company" validate:"required"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate,omitempty"`
	Current     bool     `json:"current"`
	Location    string   `json:"location"`
	Description []string `json:"description"`
}

// EducationItem is a single degree or program
type EducationItem struct {
	ID          string   `json:"id"`
	Degree      string   `json:"degree" validate:"required"`
	Institution string   `json:"institution" validate:"required"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate,omitempty"`
	Location    string   `json:"location"`
	GPA         string   `json:"gpa,omitempty"`
	Description []string `json:"description,omitempty"`
}

// SkillCategory groups related skills under a heading such as "Languages"
type SkillCategory struct {
	Category string   `json:"category" validate:"required"`
	Skills   []string `json:"skills"`
}

// ProjectItem is a side or portfolio project
type ProjectItem struct {
	ID           string   `json:"id"`
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url,omitempty" validate:"omitempty,url"`
	GitHub       string   `json:"github,omitempty" validate:"omitempty,url"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
}

// CertificationItem is a professional certification
type CertificationItem struct {
	ID             string `json:"id"`
	Name           string `json:"name" validate:"required"`
	Issuer         string `json:"issuer"`
	Date           string `json:"date"`
	ExpirationDate string `json:"expirationDate,omitempty"`
	CredentialID   string `json:"credentialId,omitempty"`
	URL            string `json:"url,omitempty" validate:"omitempty,url"`
}

// AchievementItem is an award or notable accomplishment
type AchievementItem struct {
	ID          string `json:"id"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// Resume is the structured resume record owned by a single user
type Resume struct {
	ID             uuid.UUID           `json:"id"`
	UserID         uuid.UUID           `json:"userId" validate:"required"`
	Title          string              `json:"title" validate:"required"`
	PersonalInfo   PersonalInfo        `json:"personalInfo"`
	Experience     []ExperienceItem    `json:"experience" validate:"dive"`
	Education      []EducationItem     `json:"education" validate:"dive"`
	Skills         []SkillCategory     `json:"skills" validate:"dive"`
	Projects       []ProjectItem       `json:"projects" validate:"dive"`
	Certifications []CertificationItem `json:"certifications" validate:"dive"`
	Achievements   []AchievementItem   `json:"achievements" validate:"dive"`
	Template       string              `json:"template"`
	IsPublic       bool                `json:"isPublic"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// HasMinimalPersonalInfo reports whether the resume carries enough personal
// info to be persisted for the first time.
func (r *Resume) HasMinimalPersonalInfo() bool {
	p := r.PersonalInfo
	return strings.TrimSpace(p.FirstName) != "" &&
		strings.TrimSpace(p.LastName) != "" &&
		strings.TrimSpace(p.Email) != ""
}

// Normalize fills defaults and enforces field invariants in place.
// A current position never carries an end date.
func (r *Resume) Normalize() {
	if strings.TrimSpace(r.Template) == "" {
		r.Template = DefaultTemplate
	}
	for i := range r.Experience {
		if r.Experience[i].Current {
			r.Experience[i].EndDate = ""
		}
	}
	if r.Experience == nil {
		r.Experience = []ExperienceItem{}
	}
	if r.Education == nil {
		r.Education = []EducationItem{}
	}
	if r.Skills == nil {
		r.Skills = []SkillCategory{}
	}
	if r.Projects == nil {
		r.Projects = []ProjectItem{}
	}
	if r.Certifications == nil {
		r.Certifications = []CertificationItem{}
	}
	if r.Achievements == nil {
		r.Achievements = []AchievementItem{}
	}
}

// Validate validates the resume and every section item.
func (r *Resume) Validate() error {
	return validate.Struct(r)
}

// FlattenSkills returns every skill across categories in order
func FlattenSkills(categories []SkillCategory) []string {
	var out []string
	for _, c := range categories {
		out = append(out, c.Skills...)
	}
	return out
}

// ResumePatch carries a partial resume update. Nil fields are left untouched.
type ResumePatch struct {
	Title          *string              `json:"title,omitempty" validate:"omitempty,min=1"`
	PersonalInfo   *PersonalInfo        `json:"personalInfo,omitempty"`
	Experience     *[]ExperienceItem    `json:"experience,omitempty" validate:"omitempty,dive"`
	Education      *[]EducationItem     `json:"education,omitempty" validate:"omitempty,dive"`
	Skills         *[]SkillCategory     `json:"skills,omitempty" validate:"omitempty,dive"`
	Projects       *[]ProjectItem       `json:"projects,omitempty" validate:"omitempty,dive"`
	Certifications *[]CertificationItem `json:"certifications,omitempty" validate:"omitempty,dive"`
	Achievements   *[]AchievementItem   `json:"achievements,omitempty" validate:"omitempty,dive"`
	Template       *string              `json:"template,omitempty"`
	IsPublic       *bool                `json:"isPublic,omitempty"`
}

// Validate validates every supplied section in full.
func (p *ResumePatch) Validate() error {
	return validate.Struct(p)
}

// IsEmpty reports whether the patch changes nothing
func (p *ResumePatch) IsEmpty() bool {
	return p.Title == nil && p.PersonalInfo == nil && p.Experience == nil &&
		p.Education == nil && p.Skills == nil && p.Projects == nil &&
		p.Certifications == nil && p.Achievements == nil &&
		p.Template == nil && p.IsPublic == nil
}

// Apply copies supplied fields onto r and normalizes the result.
func (p *ResumePatch) Apply(r *Resume) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.PersonalInfo != nil {
		r.PersonalInfo = *p.PersonalInfo
	}
	if p.Experience != nil {
		r.Experience = *p.Experience
	}
	if p.Education != nil {
		r.Education = *p.Education
	}
	if p.Skills != nil {
		r.Skills = *p.Skills
	}
	if p.Projects != nil {
		r.Projects = *p.Projects
	}
	if p.Certifications != nil {
		r.Certifications = *p.Certifications
	}
	if p.Achievements != nil {
		r.Achievements = *p.Achievements
	}
	if p.Template != nil {
		r.Template = *p.Template
	}
	if p.IsPublic != nil {
		r.IsPublic = *p.IsPublic
	}
	r.Normalize()
}

// Merge returns a patch carrying p's fields overridden by next's.
// Used to coalesce drafts so an earlier edit is not lost to a later one.
func (p *ResumePatch) Merge(next *ResumePatch) *ResumePatch {
	if p == nil {
		return next
	}
	if next == nil {
		return p
	}
	merged := *p
	if next.Title != nil {
		merged.Title = next.Title
	}
	if next.PersonalInfo != nil {
		merged.PersonalInfo = next.PersonalInfo
	}
	if next.Experience != nil {
		merged.Experience = next.Experience
	}
	if next.Education != nil {
		merged.Education = next.Education
	}
	if next.Skills != nil {
		merged.Skills = next.Skills
	}
	if next.Projects != nil {
		merged.Projects = next.Projects
	}
	if next.Certifications != nil {
		merged.Certifications = next.Certifications
	}
	if next.Achievements != nil {
		merged.Achievements = next.Achievements
	}
	if next.Template != nil {
		merged.Template = next.Template
	}
	if next.IsPublic != nil {
		merged.IsPublic = next.IsPublic
	}
	return &merged
}
