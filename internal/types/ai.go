//nolint:revive // types is a standard Go package name pattern
package types

// FormattingReport is the formatting half of an ATS analysis
type FormattingReport struct {
	Score  int      `json:"score"`
	Issues []string `json:"issues"`
}

// ATSAnalysis is the deterministic compatibility assessment of resume text
type ATSAnalysis struct {
	Score           int              `json:"score"`
	Suggestions     []string         `json:"suggestions"`
	KeywordMatches  []string         `json:"keywordMatches"`
	MissingKeywords []string         `json:"missingKeywords"`
	Formatting      FormattingReport `json:"formatting"`
}

// ATSReport is the API shape of an analysis of structured resume data.
// Keywords mirrors KeywordMatches for clients that read the older field name.
type ATSReport struct {
	ATSAnalysis
	Keywords     []string `json:"keywords"`
	Improvements []string `json:"improvements"`
}

// SuggestionType classifies an AI improvement suggestion
type SuggestionType string

const (
	SuggestionImprovement  SuggestionType = "improvement"
	SuggestionOptimization SuggestionType = "optimization"
	SuggestionGrammar      SuggestionType = "grammar"
	SuggestionATS          SuggestionType = "ats"
)

// AIImprovementSuggestion is one actionable suggestion for a resume section
type AIImprovementSuggestion struct {
	Section       string         `json:"section"`
	Field         string         `json:"field"`
	Type          SuggestionType `json:"type"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	OriginalText  string         `json:"originalText,omitempty"`
	SuggestedText string         `json:"suggestedText,omitempty"`
	Confidence    float64        `json:"confidence"`
}

// ChatRole is the author of a chat message
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of a conversation with the resume assistant
type ChatMessage struct {
	Role    ChatRole `json:"role" validate:"required,oneof=user assistant"`
	Content string   `json:"content"`
}

// ChatResponse is the assistant's reply
type ChatResponse struct {
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
	Actions     []string `json:"actions"`
	Confidence  float64  `json:"confidence"`
}
