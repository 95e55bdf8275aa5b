package cardgen

import (
	"github.com/999aryaDharma/HackStack/internal/card"
	"github.com/999aryaDharma/HackStack/internal/llm"
)

// CardBatchSchema defines the JSON schema for card generation responses.
// Length limits mirror the card validator so most violations are caught
// by the provider before they reach it.
var CardBatchSchema = &llm.Schema{
	Name:        "card-batch",
	Description: "A batch of coding trivia flashcards",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cards": map[string]any{
				"type":     "array",
				"minItems": 1,
				"maxItems": DefaultConfig().MaxCards,
				"items":    cardSchema(),
			},
		},
		"required":             []any{"cards"},
		"additionalProperties": false,
	},
}

func cardSchema() map[string]any {
	langs := make([]any, len(card.SupportedLanguages))
	for i, l := range card.SupportedLanguages {
		langs[i] = l
	}
	difficulties := make([]any, len(card.Difficulties))
	for i, d := range card.Difficulties {
		difficulties[i] = string(d)
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"type": map[string]any{
				"type":        "string",
				"enum":        []any{"snippet", "quiz", "trivia"},
				"description": "snippet: predict the output of a short code block. quiz: a direct question. trivia: a fact about the language or its history.",
			},
			"lang": map[string]any{
				"type": "string",
				"enum": langs,
			},
			"difficulty": map[string]any{
				"type": "string",
				"enum": difficulties,
			},
			"question": map[string]any{
				"type":        "string",
				"maxLength":   500,
				"description": "The card front. Code goes inside the question using plain newlines, no markdown fences.",
			},
			"answer": map[string]any{
				"type":        "string",
				"maxLength":   200,
				"description": "The short correct answer",
			},
			"explanation": map[string]any{
				"type":        "string",
				"maxLength":   400,
				"description": "Why the answer is correct, in one or two sentences",
			},
			"taunt": map[string]any{
				"type":        "string",
				"maxLength":   200,
				"description": "A playful one-liner shown when the player gets it wrong",
			},
			"topic": map[string]any{
				"type":        "string",
				"maxLength":   80,
				"description": "Two to four word topic label, e.g. \"closures\" or \"slice aliasing\"",
			},
		},
		"required":             []any{"type", "lang", "difficulty", "question", "answer", "explanation", "taunt", "topic"},
		"additionalProperties": false,
	}
}
