package cardgen

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/999aryaDharma/HackStack/internal/card"
)

type rateLimited struct {
	next    Generator
	limiter *rate.Limiter
}

// WithRateLimit throttles g to perMinute requests per minute. Callers
// block until a slot frees up or their context ends. A non-positive limit
// returns g unchanged.
func WithRateLimit(g Generator, perMinute int) Generator {
	if perMinute <= 0 {
		return g
	}
	return &rateLimited{
		next:    g,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
	}
}

func (r *rateLimited) Generate(ctx context.Context, req Request) ([]card.Candidate, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for generation slot: %w", err)
	}
	return r.next.Generate(ctx, req)
}
