// Package cardgen asks an LLM for batches of flashcards.
package cardgen

import (
	"context"

	"github.com/999aryaDharma/HackStack/internal/card"
)

// Request describes the batch of cards to generate.
type Request struct {
	Language   string
	Topics     []string
	Difficulty card.Difficulty
	Count      int

	// PreviousTopics are topics generated recently for the same language
	// and difficulty. The generator is asked to avoid them.
	PreviousTopics []string
}

// Generator produces candidate cards. Candidates are unvalidated; callers
// run them through a card.Validator before use.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]card.Candidate, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req Request) ([]card.Candidate, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) ([]card.Candidate, error) {
	return f(ctx, req)
}
