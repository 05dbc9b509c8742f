package llm

import (
	"fmt"
	"strings"
)

// ResponseSchema describes the JSON object a prompt asks the model to return.
type ResponseSchema struct {
	Name        string        // Schema name, for logs
	Description string        // Task description placed before the output contract
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the expected output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint such as "string" or "[\"string\"]"
	Description string // Description for the model
	Required    bool
}

// BuildJSONPrompt appends an output contract for schema to a task prompt.
func BuildJSONPrompt(schema ResponseSchema, task string) string {
	var sb strings.Builder

	if schema.Description != "" {
		sb.WriteString(schema.Description)
		sb.WriteString("\n\n")
	}
	sb.WriteString(task)
	sb.WriteString("\n\nReturn ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = `"string"`
		}
		sb.WriteString(fmt.Sprintf("  %q: %s", field.Name, typeHint))
		if field.Required {
			sb.WriteString(" (required)")
		}
		if field.Description != "" {
			sb.WriteString(" // " + field.Description)
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\nNo markdown, no explanation, no code blocks.\n")

	return sb.String()
}

// SuggestionSchema is the output contract for a single section suggestion.
func SuggestionSchema() ResponseSchema {
	return ResponseSchema{
		Name:        "SectionSuggestion",
		Description: "You are an expert resume reviewer. Give one concrete, actionable improvement.",
		Fields: []SchemaField{
			{Name: "title", Description: "Short headline for the suggestion", Required: true},
			{Name: "description", Description: "What to change and why it helps", Required: true},
			{Name: "suggestedText", Description: "Replacement text for the section, if applicable"},
		},
	}
}
