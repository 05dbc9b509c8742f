package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/types"
)

// Chat confidence values
const (
	ModelChatConfidence    = 0.9
	FallbackChatConfidence = 0.9
	DefaultChatConfidence  = 0.85
)

// HistoryTurns is how many prior messages are replayed to the model
const HistoryTurns = 4

// fallbackReplies answer without a model, keyed by message keywords in order
var fallbackReplies = []keywordRule[types.ChatResponse]{
	{
		keywords: []string{"experience"},
		value: types.ChatResponse{
			Message:     "Focus on achievements using action verbs and numbers. Example: 'Reduced page load time by 40% by optimizing bundle splitting and caching.'",
			Suggestions: []string{"Start bullets with verbs", "Quantify results", "Show impact"},
			Actions:     []string{"Use AI text improvement for experience"},
			Confidence:  FallbackChatConfidence,
		},
	},
	{
		keywords: []string{"summary"},
		value: types.ChatResponse{
			Message:     "Write 2–3 concise sentences: title, years, top achievements, and target role.",
			Suggestions: []string{"Lead with title/years", "Include 2–3 strengths", "Tailor to target role"},
			Actions:     []string{"Use AI to generate a professional summary"},
			Confidence:  FallbackChatConfidence,
		},
	},
	{
		keywords: []string{"ats", "keywords"},
		value: types.ChatResponse{
			Message:     "Pull keywords from target job descriptions, use standard skill names, and keep formatting simple for ATS parsing.",
			Suggestions: []string{"Extract keywords from JD", "Avoid tables/graphics", "Use standard titles"},
			Actions:     []string{"Run ATS analysis"},
			Confidence:  FallbackChatConfidence,
		},
	},
}

var defaultFallbackReply = types.ChatResponse{
	Message:     "Tell me which section you want to improve (summary, experience, skills, ATS). I will give focused, actionable steps.",
	Suggestions: []string{"Choose a section to focus", "Share target job title/JD"},
	Actions:     []string{"Run ATS analysis", "Generate a professional summary"},
	Confidence:  DefaultChatConfidence,
}

// FallbackReply answers a message without a model
func FallbackReply(message string) types.ChatResponse {
	lower := strings.ToLower(message)
	reply := defaultFallbackReply
	for _, rule := range fallbackReplies {
		if rule.matches(lower) {
			reply = rule.value
			break
		}
	}
	// copy slices so callers cannot mutate the shared tables
	reply.Suggestions = append([]string(nil), reply.Suggestions...)
	reply.Actions = append([]string(nil), reply.Actions...)
	return reply
}

// Chat answers a message from the user, optionally in the context of a resume
func (s *Service) Chat(ctx context.Context, message string, resume *types.Resume, history []types.ChatMessage) types.ChatResponse {
	return s.chat(ctx, message, resume, history, "")
}

// chat answers message. background is extra model context that never takes
// part in keyword matching.
func (s *Service) chat(ctx context.Context, message string, resume *types.Resume, history []types.ChatMessage, background string) types.ChatResponse {
	message = strings.TrimSpace(message)
	if !s.Available() {
		return FallbackReply(message)
	}

	intent := ClassifyIntent(message)
	answer, err := s.client.GenerateContent(ctx, chatPrompt(message, resume, history, background), llm.TierLite)
	if err != nil {
		log.Printf("[ai] chat failed: %v", err)
		return FallbackReply(message)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = DirectAnswer(intent)
	}

	return types.ChatResponse{
		Message:     answer,
		Suggestions: SuggestionsFor(message),
		Actions:     ActionsFor(message),
		Confidence:  ModelChatConfidence,
	}
}

// SectionAdvice asks for advice on one resume section
func (s *Service) SectionAdvice(ctx context.Context, section, content string) types.ChatResponse {
	message := render("section-advice", map[string]string{"Section": section})
	var background string
	if content = strings.TrimSpace(content); content != "" {
		background = render("section-content", map[string]string{"Section": section, "Content": content})
	}
	return s.chat(ctx, message, nil, nil, background)
}

// CareerAdvice asks for advice targeted at a job title
func (s *Service) CareerAdvice(ctx context.Context, jobTitle string, experience []types.ExperienceItem) types.ChatResponse {
	message := render("career-advice", map[string]string{"JobTitle": jobTitle})
	resume := &types.Resume{
		PersonalInfo: types.PersonalInfo{Title: jobTitle},
		Experience:   experience,
	}
	return s.Chat(ctx, message, resume, nil)
}

// ChatPrompt assembles the system prompt, recent history, and the new message
func ChatPrompt(message string, resume *types.Resume, history []types.ChatMessage) string {
	return chatPrompt(message, resume, history, "")
}

func chatPrompt(message string, resume *types.Resume, history []types.ChatMessage, background string) string {
	system := prompts.MustGet(prompts.AIFile, "chat-system")
	if resume != nil && strings.TrimSpace(resume.PersonalInfo.Title) != "" {
		system += render("chat-target-role", map[string]string{"Title": resume.PersonalInfo.Title})
	}
	if background != "" {
		system += "\n\n" + background
	}

	lines := []string{system}
	if len(history) > HistoryTurns {
		history = history[len(history)-HistoryTurns:]
	}
	for _, turn := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", strings.ToUpper(string(turn.Role)), turn.Content))
	}
	lines = append(lines, "USER: "+message, "ASSISTANT: ")

	return strings.Join(lines, "\n")
}
