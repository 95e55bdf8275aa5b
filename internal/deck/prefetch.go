package deck

import (
	"context"

	"github.com/999aryaDharma/HackStack/internal/card"
	"github.com/999aryaDharma/HackStack/internal/llm"
)

// PrefetchResult is the outcome of a background generation.
type PrefetchResult struct {
	Cards []card.Card
	Err   error

	// Shared is true when the result came from a generation started by a
	// concurrent Prefetch for the same loadout.
	Shared bool
}

// Prefetch generates count cards (PrefetchCount when count <= 0) for the
// loadout in the background and caches them. It returns at once; the
// result arrives on the returned channel, which is buffered and receives
// exactly one value. The cache is not consulted first.
//
// Generation is detached from ctx cancellation, so a session that ends
// early still lets the batch land in the cache. Concurrent prefetches for
// the same loadout share a single generator call.
func (p *Pipeline) Prefetch(ctx context.Context, loadout card.Loadout, count int) <-chan PrefetchResult {
	if count <= 0 {
		count = p.cfg.PrefetchCount
	}
	ch := make(chan PrefetchResult, 1)
	bg := llm.WithPurpose(context.WithoutCancel(ctx), llm.PurposePrefetch)

	go func() {
		v, err, shared := p.flight.Do(loadout.Key(), func() (any, error) {
			return p.generate(bg, loadout, count)
		})
		cards, _ := v.([]card.Card)
		if err != nil {
			p.logger.Debug("prefetch failed", "lang", loadout.Language, "error", err)
		}
		ch <- PrefetchResult{Cards: cards, Err: err, Shared: shared}
	}()
	return ch
}
