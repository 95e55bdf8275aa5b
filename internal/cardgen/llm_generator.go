package cardgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/999aryaDharma/HackStack/internal/card"
	"github.com/999aryaDharma/HackStack/internal/llm"
)

// ErrEmptyBatch is returned when the model answers with no cards.
var ErrEmptyBatch = errors.New("model returned no cards")

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

type batchOutput struct {
	Cards []card.Candidate `json:"cards"`
}

// Generate asks the model for req.Count cards. The count is clamped to
// Config.MaxCards and surplus cards in the response are dropped.
func (g *LLMGenerator) Generate(ctx context.Context, req Request) ([]card.Candidate, error) {
	if req.Count <= 0 {
		return nil, nil
	}
	count := req.Count
	if g.config.MaxCards > 0 && count > g.config.MaxCards {
		count = g.config.MaxCards
	}

	if llm.PurposeFrom(ctx) == "unknown" {
		ctx = llm.WithPurpose(ctx, llm.PurposeCardGen)
	}

	llmReq := llm.UserRequest(systemPrompt, buildUserMessage(req, count, g.config), CardBatchSchema, g.config.tokenBudget(count))
	llmReq.Temperature = g.config.Temperature

	resp, err := g.provider.Generate(ctx, llmReq)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var out batchOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	if len(out.Cards) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(out.Cards) > count {
		out.Cards = out.Cards[:count]
	}

	model := resp.Model
	if model == "" {
		model = g.provider.ModelID()
	}
	for i := range out.Cards {
		out.Cards[i].ID = ""
		out.Cards[i].Source = string(card.SourceGenerated)
		out.Cards[i].Model = model
	}
	return out.Cards, nil
}
