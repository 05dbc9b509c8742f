// Package ai provides the resume assistant: text improvement, summary
// generation, section suggestions, and chat. Every operation degrades to a
// deterministic answer when no model is configured or the model fails.
package ai

import (
	"context"
	"log"
	"strings"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/prompts"
)

// Service answers AI requests using an optional LLM client
type Service struct {
	client llm.Client
}

// NewService creates a Service. A nil client means the model is unavailable.
func NewService(client llm.Client) *Service {
	return &Service{client: client}
}

// Available reports whether a model client is configured
func (s *Service) Available() bool {
	return s != nil && s.client != nil
}

// generate runs a text prompt and returns the trimmed answer.
// ok is false when the model is unavailable, errors, or returns nothing.
func (s *Service) generate(ctx context.Context, op, prompt string, tier llm.ModelTier) (string, bool) {
	if !s.Available() {
		return "", false
	}
	out, err := s.client.GenerateContent(ctx, prompt, tier)
	if err != nil {
		log.Printf("[ai] %s failed: %v", op, err)
		return "", false
	}
	out = strings.TrimSpace(out)
	return out, out != ""
}

// generateJSON runs a JSON prompt and returns the cleaned JSON block
func (s *Service) generateJSON(ctx context.Context, op, prompt string, tier llm.ModelTier) (string, bool) {
	if !s.Available() {
		return "", false
	}
	out, err := s.client.GenerateJSON(ctx, prompt, tier)
	if err != nil {
		log.Printf("[ai] %s failed: %v", op, err)
		return "", false
	}
	out = llm.CleanJSONBlock(out)
	return out, out != ""
}

// render fills an embedded prompt. The prompt file ships with the binary, so
// a failure here is a programming error and is logged rather than returned.
func render(key string, data map[string]string) string {
	out, err := prompts.Render(prompts.AIFile, key, data)
	if err != nil {
		log.Printf("[ai] prompt %s: %v", key, err)
	}
	return out
}
