// Package deck supplies cards to a session: cached generated cards first,
// then fresh cards from the generator, then the bundled deck when the
// generator is unavailable.
package deck

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/sync/singleflight"

	"github.com/999aryaDharma/HackStack/internal/card"
	"github.com/999aryaDharma/HackStack/internal/cardgen"
	"github.com/999aryaDharma/HackStack/internal/clock"
	"github.com/999aryaDharma/HackStack/internal/store"
)

// Repository is the subset of the record store the pipeline needs.
type Repository interface {
	Query(ctx context.Context, q store.CardQuery) ([]card.Record, error)
	InsertIfAbsent(ctx context.Context, rec card.Record) (bool, error)
	Delete(ctx context.Context, q store.CardQuery) (int, error)
}

// Validator turns generator output into cards.
type Validator interface {
	Validate(c card.Candidate) (card.Card, error)
}

// Pipeline fetches cards for loadouts. It is safe for concurrent use.
type Pipeline struct {
	repo   Repository
	gen    cardgen.Generator
	val    Validator
	cfg    Config
	clock  clock.Clock
	logger *slog.Logger

	bundle []card.Card
	topics *topicMemory
	flight singleflight.Group
}

// New creates a pipeline. Without WithBundle the embedded deck is used.
func New(repo Repository, gen cardgen.Generator, val Validator, opts ...Option) *Pipeline {
	p := &Pipeline{
		repo:   repo,
		gen:    gen,
		val:    val,
		cfg:    DefaultConfig(),
		clock:  clock.System{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bundle == nil {
		bundle, err := Bundled()
		if err != nil {
			p.logger.Error("load bundled deck", "error", err)
		}
		p.bundle = bundle
	}
	p.topics = newTopicMemory(p.cfg.MaxPreviousTopics)
	return p
}

// FetchCards returns up to count cards for the loadout. Cached generated
// cards younger than CacheTTL come first; any shortfall is generated and
// cached. When generation fails the result is topped up from the bundled
// deck instead, so a generator outage never surfaces here. Store errors
// are returned.
func (p *Pipeline) FetchCards(ctx context.Context, loadout card.Loadout, count int) ([]card.Card, error) {
	if count <= 0 {
		return nil, nil
	}

	cached, err := p.cached(ctx, loadout, count)
	if err != nil {
		return nil, err
	}
	if len(cached) >= count {
		return cached[:count], nil
	}

	fresh, err := p.generate(ctx, loadout, count-len(cached))
	var genErr *GeneratorError
	switch {
	case errors.As(err, &genErr):
		p.logger.Warn("card generation failed, using bundled cards",
			"lang", loadout.Language, "difficulty", loadout.Difficulty, "error", genErr.Err)
		return p.fallback(loadout, cached, count), nil
	case err != nil:
		return nil, err
	}
	return append(cached, fresh...), nil
}

func (p *Pipeline) cached(ctx context.Context, loadout card.Loadout, count int) ([]card.Card, error) {
	recs, err := p.repo.Query(ctx, store.CardQuery{
		Language:     loadout.Language,
		Difficulty:   loadout.Difficulty,
		Source:       card.SourceGenerated,
		CreatedAfter: p.clock.Now().Add(-p.cfg.CacheTTL),
		Limit:        count,
	})
	if err != nil {
		return nil, fmt.Errorf("query card cache: %w", err)
	}
	cards := make([]card.Card, len(recs))
	for i, rec := range recs {
		cards[i] = rec.Card
	}
	return cards, nil
}

// generate calls the generator under GeneratorTimeout, keeps the valid
// candidates for the loadout and caches them. Generation failures are
// returned as *GeneratorError; cache write failures are returned as is.
func (p *Pipeline) generate(ctx context.Context, loadout card.Loadout, count int) ([]card.Card, error) {
	key := topicKey(loadout)
	req := cardgen.Request{
		Language:       loadout.Language,
		Topics:         loadout.Topics,
		Difficulty:     loadout.Difficulty,
		Count:          count,
		PreviousTopics: p.topics.recent(key),
	}

	gctx, cancel := context.WithTimeout(ctx, p.cfg.GeneratorTimeout)
	defer cancel()
	candidates, err := p.gen.Generate(gctx, req)
	if err != nil {
		return nil, &GeneratorError{Err: err}
	}

	cards := p.validate(candidates, loadout)
	if len(cards) == 0 {
		return nil, &GeneratorError{Err: ErrNoValidCards}
	}
	if len(cards) > count {
		cards = cards[:count]
	}

	topics := make([]string, 0, len(cards))
	for _, c := range cards {
		if _, err := p.repo.InsertIfAbsent(ctx, card.NewRecord(c)); err != nil {
			return nil, fmt.Errorf("cache generated card %s: %w", c.ID, err)
		}
		topics = append(topics, c.Topic)
	}
	p.topics.remember(key, topics...)

	return cards, nil
}

// validate drops candidates that fail validation or do not match the
// requested language and difficulty.
func (p *Pipeline) validate(candidates []card.Candidate, loadout card.Loadout) []card.Card {
	cards := make([]card.Card, 0, len(candidates))
	for _, cand := range candidates {
		c, err := p.val.Validate(cand)
		if err != nil {
			p.logger.Debug("dropped invalid card", "error", err)
			continue
		}
		if c.Language != loadout.Language || c.Difficulty != loadout.Difficulty {
			p.logger.Debug("dropped off-loadout card",
				"lang", c.Language, "difficulty", c.Difficulty)
			continue
		}
		cards = append(cards, c)
	}
	if dropped := len(candidates) - len(cards); dropped > 0 {
		p.logger.Debug("generator batch filtered", "kept", len(cards), "dropped", dropped)
	}
	return cards
}

// fallback tops up have to count with bundled cards of the loadout
// language. Cards of the requested difficulty come first, then the nearest
// tiers, so the result can hold other difficulties. It returns fewer than
// count cards once the language's bundle is exhausted.
func (p *Pipeline) fallback(loadout card.Loadout, have []card.Card, count int) []card.Card {
	seen := make(map[string]bool, len(have))
	for _, c := range have {
		seen[c.ID] = true
	}

	pool := make([]card.Card, 0, len(p.bundle))
	for _, c := range p.bundle {
		if c.Language == loadout.Language && !seen[c.ID] {
			pool = append(pool, c)
		}
	}
	slices.SortStableFunc(pool, func(a, b card.Card) int {
		return cmp.Compare(difficultyDistance(a.Difficulty, loadout.Difficulty),
			difficultyDistance(b.Difficulty, loadout.Difficulty))
	})

	out := have
	for _, c := range pool {
		if len(out) >= count {
			break
		}
		out = append(out, c)
	}
	return out
}

func difficultyDistance(a, b card.Difficulty) int {
	d := slices.Index(card.Difficulties, a) - slices.Index(card.Difficulties, b)
	if d < 0 {
		return -d
	}
	return d
}

func topicKey(l card.Loadout) string {
	return l.Language + "|" + string(l.Difficulty)
}

// ClearOldCache deletes generated cards older than EvictionAge and
// returns how many were removed.
func (p *Pipeline) ClearOldCache(ctx context.Context) (int, error) {
	n, err := p.repo.Delete(ctx, store.CardQuery{
		Source:        card.SourceGenerated,
		CreatedBefore: p.clock.Now().Add(-p.cfg.EvictionAge),
	})
	if err != nil {
		return 0, fmt.Errorf("clear old cache: %w", err)
	}
	if n > 0 {
		p.logger.Info("evicted old generated cards", "count", n)
	}
	return n, nil
}
