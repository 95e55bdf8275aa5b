package cardgen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// MaxCards caps how many cards a single request may ask for.
	MaxCards int

	// BaseTokens and TokensPerCard size the response budget:
	// BaseTokens + TokensPerCard*count, capped at MaxTokens.
	BaseTokens    int
	TokensPerCard int
	MaxTokens     int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxPreviousTopics is the maximum number of previous topics
	// to include in the prompt for deduplication.
	MaxPreviousTopics int
}

// DefaultConfig returns a Config with recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxCards:          10,
		BaseTokens:        256,
		TokensPerCard:     320,
		MaxTokens:         4096,
		Temperature:       0.9,
		MaxPreviousTopics: 20,
	}
}

func (c Config) tokenBudget(count int) int {
	n := c.BaseTokens + c.TokensPerCard*count
	if c.MaxTokens > 0 && n > c.MaxTokens {
		n = c.MaxTokens
	}
	return n
}
