package bankgen

import (
	"fmt"

	"github.com/abhisek/quizling/internal/llm"
)

// BankSchema is the response shape requested from the LLM for a bank of
// count questions. Ids, scoring and rewards are assigned locally, so the
// model only writes content. Schemas are named per count because the
// compiled form is cached by name.
func BankSchema(count int) *llm.Schema {
	return &llm.Schema{
		Name:        fmt.Sprintf("question-bank-%d", count),
		Description: "A short multiple-choice game for children aged 6-10",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{
					"type":        "string",
					"description": "Short, playful game title",
				},
				"subtitle": map[string]any{
					"type":        "string",
					"description": "One line shown under the title",
				},
				"questions": map[string]any{
					"type":     "array",
					"minItems": count,
					"maxItems": count,
					"items":    questionDefinition(),
				},
			},
			"required":             []any{"title", "subtitle", "questions"},
			"additionalProperties": false,
		},
	}
}

func questionDefinition() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{
				"type":        "string",
				"description": "The question, one or two short sentences",
			},
			"emoji": map[string]any{
				"type":        "string",
				"description": "A single emoji illustrating the question, or empty",
			},
			"story": map[string]any{
				"type":        "string",
				"description": "For story games, the short scene read before the question; otherwise empty",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "One kind sentence explaining the right answer",
			},
			"options": map[string]any{
				"type":        "array",
				"minItems":    2,
				"maxItems":    maxOptions,
				"description": "Between 2 and 4 options with exactly one correct",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"text":    map[string]any{"type": "string"},
						"emoji":   map[string]any{"type": "string"},
						"correct": map[string]any{"type": "boolean"},
					},
					"required":             []any{"text", "emoji", "correct"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"text", "emoji", "story", "explanation", "options"},
		"additionalProperties": false,
	}
}
