package prompts

import (
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearCache resets the prompt and template caches between tests
func clearCache() {
	cacheMu.Lock()
	cache = make(map[string]map[string]string)
	templates = make(map[string]*template.Template)
	cacheMu.Unlock()
}

func TestGet_ValidPrompt(t *testing.T) {
	clearCache()

	prompt, err := Get(AIFile, "improve-text")
	require.NoError(t, err)
	assert.Contains(t, prompt, "more professional and impactful")
}

func TestGet_InvalidFile(t *testing.T) {
	clearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	clearCache()

	_, err := Get(AIFile, "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet(t *testing.T) {
	clearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
	assert.NotPanics(t, func() {
		assert.NotEmpty(t, MustGet(AIFile, "chat-system"))
	})
}

func TestRender(t *testing.T) {
	clearCache()

	tests := []struct {
		name string
		key  string
		data map[string]string
		want string
	}{
		{
			name: "improve text",
			key:  "improve-text",
			data: map[string]string{"Context": "experience", "Text": "did stuff"},
			want: `Improve this experience text to make it more professional and impactful: "did stuff"`,
		},
		{
			name: "target role",
			key:  "chat-target-role",
			data: map[string]string{"Title": "Data Engineer"},
			want: " The user target role is Data Engineer.",
		},
		{
			name: "section advice",
			key:  "section-advice",
			data: map[string]string{"Section": "skills"},
			want: "Give me specific advice on improving my skills section",
		},
		{
			name: "missing keys render empty",
			key:  "section-advice",
			data: map[string]string{},
			want: "Give me specific advice on improving my  section",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(AIFile, tt.key, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_ValuesAreNotReparsed(t *testing.T) {
	got, err := Render(AIFile, "section-advice", map[string]string{"Section": "{{.Title}}"})
	require.NoError(t, err)
	assert.Contains(t, got, "{{.Title}}")
}

func TestRender_UnknownKey(t *testing.T) {
	_, err := Render(AIFile, "missing", nil)
	assert.Error(t, err)
}

func TestCaching(t *testing.T) {
	clearCache()

	prompt1, err := Get(AIFile, "chat-system")
	require.NoError(t, err)
	prompt2, err := Get(AIFile, "chat-system")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
