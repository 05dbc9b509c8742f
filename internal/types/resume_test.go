package types

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validResume() *Resume {
	return &Resume{
		UserID: uuid.New(),
		Title:  "Backend Engineer",
		PersonalInfo: PersonalInfo{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Title:     "Software Engineer",
		},
		Experience: []ExperienceItem{
			{ID: "exp-1", Position: "Engineer", Company: "Analytical Engines", StartDate: "2020-01", Current: true, EndDate: "2021-01"},
		},
		Skills: []SkillCategory{{Category: "Languages", Skills: []string{"Go", "SQL"}}},
	}
}

func TestResume_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Resume)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid resume",
			mutate:  func(_ *Resume) {},
			wantErr: false,
		},
		{
			name:    "invalid email",
			mutate:  func(r *Resume) { r.PersonalInfo.Email = "not-an-email" },
			wantErr: true,
			errMsg:  "Resume.personalInfo.email",
		},
		{
			name:    "missing first name",
			mutate:  func(r *Resume) { r.PersonalInfo.FirstName = "" },
			wantErr: true,
			errMsg:  "Resume.personalInfo.firstName",
		},
		{
			name:    "missing title",
			mutate:  func(r *Resume) { r.Title = "" },
			wantErr: true,
			errMsg:  "Resume.title",
		},
		{
			name:    "missing user",
			mutate:  func(r *Resume) { r.UserID = uuid.Nil },
			wantErr: true,
			errMsg:  "Resume.userId",
		},
		{
			name:    "experience item without company",
			mutate:  func(r *Resume) { r.Experience[0].Company = "" },
			wantErr: true,
			errMsg:  "Resume.experience[0].company",
		},
		{
			name:    "bad linkedin url",
			mutate:  func(r *Resume) { r.PersonalInfo.LinkedIn = "linkedin" },
			wantErr: true,
			errMsg:  "Resume.personalInfo.linkedin",
		},
		{
			name:    "duplicate item ids are accepted",
			mutate:  func(r *Resume) { r.Experience = append(r.Experience, r.Experience[0]) },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validResume()
			tt.mutate(r)
			err := r.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResume_HasMinimalPersonalInfo(t *testing.T) {
	r := &Resume{}
	assert.False(t, r.HasMinimalPersonalInfo())

	r.PersonalInfo.FirstName = "Ada"
	r.PersonalInfo.LastName = "Lovelace"
	assert.False(t, r.HasMinimalPersonalInfo())

	r.PersonalInfo.Email = "  "
	assert.False(t, r.HasMinimalPersonalInfo())

	r.PersonalInfo.Email = "ada@example.com"
	assert.True(t, r.HasMinimalPersonalInfo())
}

func TestResume_Normalize(t *testing.T) {
	r := validResume()
	r.Template = ""
	r.Normalize()

	assert.Equal(t, DefaultTemplate, r.Template)
	assert.Empty(t, r.Experience[0].EndDate, "current position should not keep an end date")
	assert.NotNil(t, r.Education)
	assert.NotNil(t, r.Achievements)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"education":[]`)
}

func TestResumePatch_Apply(t *testing.T) {
	r := validResume()
	r.Normalize()

	var patch ResumePatch
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Staff Engineer","isPublic":true}`), &patch))
	assert.False(t, patch.IsEmpty())
	require.NoError(t, patch.Validate())

	patch.Apply(r)
	assert.Equal(t, "Staff Engineer", r.Title)
	assert.True(t, r.IsPublic)
	assert.Equal(t, "Ada", r.PersonalInfo.FirstName, "untouched sections survive")
	assert.Len(t, r.Skills, 1)
}

func TestResumePatch_ValidatesSuppliedSections(t *testing.T) {
	var patch ResumePatch
	require.NoError(t, json.Unmarshal([]byte(`{"personalInfo":{"firstName":"A","lastName":"B","email":"bad"}}`), &patch))
	assert.Error(t, patch.Validate())

	var empty ResumePatch
	assert.True(t, empty.IsEmpty())
	assert.NoError(t, empty.Validate())
}

func TestIsKnownTemplate(t *testing.T) {
	assert.True(t, IsKnownTemplate("modern"))
	assert.True(t, IsKnownTemplate("startup"))
	assert.False(t, IsKnownTemplate("neon"))
	assert.Len(t, KnownTemplates, 10)
}

func TestFlattenSkills(t *testing.T) {
	skills := []SkillCategory{
		{Category: "Languages", Skills: []string{"Go", "Python"}},
		{Category: "Cloud", Skills: []string{"AWS"}},
	}
	assert.Equal(t, []string{"Go", "Python", "AWS"}, FlattenSkills(skills))
	assert.Nil(t, FlattenSkills(nil))
}

func TestCreateUserRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request CreateUserRequest
		wantErr bool
	}{
		{"valid", CreateUserRequest{Username: "ada", Email: "ada@example.com", Password: "password123"}, false},
		{"missing username", CreateUserRequest{Email: "ada@example.com", Password: "password123"}, true},
		{"bad email", CreateUserRequest{Username: "ada", Email: "ada", Password: "password123"}, true},
		{"short password", CreateUserRequest{Username: "ada", Email: "ada@example.com", Password: "short"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResumePatch_Merge(t *testing.T) {
	first, second := "First", "Second"
	public := true
	skills := []SkillCategory{{Category: "Languages", Skills: []string{"Go"}}}

	earlier := &ResumePatch{Title: &first, Skills: &skills}
	later := &ResumePatch{Title: &second, IsPublic: &public}

	merged := earlier.Merge(later)
	require.NotNil(t, merged)
	assert.Equal(t, "Second", *merged.Title)
	assert.Equal(t, skills, *merged.Skills)
	assert.True(t, *merged.IsPublic)
	assert.Equal(t, "First", *earlier.Title, "receiver is not modified")

	var none *ResumePatch
	assert.Same(t, later, none.Merge(later))
	assert.Same(t, earlier, earlier.Merge(nil))
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	r := validResume()
	r.PersonalInfo.Email = ""
	r.Experience[0].Position = ""

	var fieldErrs validator.ValidationErrors
	require.ErrorAs(t, r.Validate(), &fieldErrs)

	namespaces := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		namespaces = append(namespaces, fe.Namespace())
	}
	assert.ElementsMatch(t, []string{"Resume.personalInfo.email", "Resume.experience[0].position"}, namespaces)
}
