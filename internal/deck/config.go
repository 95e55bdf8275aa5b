package deck

import (
	"log/slog"
	"time"

	"github.com/999aryaDharma/HackStack/internal/card"
	"github.com/999aryaDharma/HackStack/internal/clock"
)

// Config controls cache freshness, eviction and generation limits.
type Config struct {
	// CacheTTL is how long generated cards are served from the cache.
	CacheTTL time.Duration

	// EvictionAge is the age past which ClearOldCache deletes generated cards.
	EvictionAge time.Duration

	// PrefetchCount is the batch size Prefetch uses when asked for zero cards.
	PrefetchCount int

	// GeneratorTimeout bounds every generator call. Expiry is treated like
	// any other generator failure.
	GeneratorTimeout time.Duration

	// MaxPreviousTopics caps the topics remembered per language and
	// difficulty for de-duplication.
	MaxPreviousTopics int
}

// DefaultConfig returns the standard pipeline settings.
func DefaultConfig() Config {
	return Config{
		CacheTTL:          7 * 24 * time.Hour,
		EvictionAge:       30 * 24 * time.Hour,
		PrefetchCount:     5,
		GeneratorTimeout:  20 * time.Second,
		MaxPreviousTopics: 20,
	}
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(p *Pipeline) { p.cfg = cfg }
}

// WithClock sets the clock used for cache age math.
func WithClock(c clock.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// WithLogger sets the pipeline logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithBundle replaces the embedded bundled deck used for fallback.
func WithBundle(cards []card.Card) Option {
	return func(p *Pipeline) { p.bundle = cards }
}
