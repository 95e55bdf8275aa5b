// Package session drives one play session: it keeps the card queue fed
// from the deck pipeline and turns each answer into a review update.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/999aryaDharma/HackStack/internal/card"
	"github.com/999aryaDharma/HackStack/internal/clock"
	"github.com/999aryaDharma/HackStack/internal/deck"
	"github.com/999aryaDharma/HackStack/internal/review"
	"github.com/999aryaDharma/HackStack/internal/srs"
)

// Supplier provides cards. Implemented by *deck.Pipeline.
type Supplier interface {
	FetchCards(ctx context.Context, loadout card.Loadout, count int) ([]card.Card, error)
	Prefetch(ctx context.Context, loadout card.Loadout, count int) <-chan deck.PrefetchResult
	ClearOldCache(ctx context.Context) (int, error)
}

// Reviewer persists answers. Implemented by *review.Service.
type Reviewer interface {
	RecordReview(ctx context.Context, id string, outcome srs.Outcome) (card.Record, error)
	AddToReviewDeck(ctx context.Context, c card.Card) (card.Record, error)
}

// AnswerResult describes the effect of one answer.
type AnswerResult struct {
	Quality srs.Quality
	XP      int
	Combo   int

	// Record is the stored review state after the answer. It is the zero
	// value when a correct answer targeted a card that was never stored.
	Record card.Record
}

// Session is a single play-through of a loadout. It is owned by one
// goroutine and is not safe for concurrent use.
type Session struct {
	ID      string
	Loadout card.Loadout

	supply        Supplier
	reviews       Reviewer
	clock         clock.Clock
	logger        *slog.Logger
	prefetchCount int

	queue     *Queue
	queued    map[string]bool
	pending   <-chan deck.PrefetchResult
	stats     Stats
	startedAt time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used for session timing.
func WithClock(c clock.Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithPrefetchCount sets how many cards each refill asks for. Zero leaves
// the choice to the supplier.
func WithPrefetchCount(n int) Option {
	return func(s *Session) { s.prefetchCount = n }
}

// New creates a session for loadout. Call Start before Next.
func New(loadout card.Loadout, supply Supplier, reviews Reviewer, opts ...Option) *Session {
	s := &Session{
		ID:      shortuuid.New(),
		Loadout: loadout,
		supply:  supply,
		reviews: reviews,
		clock:   clock.System{},
		logger:  slog.Default(),
		queue:   &Queue{},
		queued:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session", s.ID)
	return s
}

// Start fills the queue with SessionLength cards.
func (s *Session) Start(ctx context.Context) error {
	s.startedAt = s.clock.Now()
	cards, err := s.supply.FetchCards(ctx, s.Loadout, s.Loadout.SessionLength)
	if err != nil {
		return fmt.Errorf("fetch session cards: %w", err)
	}
	s.queue.SetQueue(nil)
	clear(s.queued)
	s.enqueue(cards)
	s.logger.Info("session started",
		"lang", s.Loadout.Language, "difficulty", s.Loadout.Difficulty, "cards", s.queue.Len())
	return nil
}

// Next returns the next card. Arrived prefetch results are appended
// first, and consuming a card at the low-water mark requests a refill. It
// returns false when no card is available right now; a refill may still
// be in flight.
func (s *Session) Next(ctx context.Context) (card.Card, bool) {
	s.drain()
	c, ok := s.queue.Consume()
	if ok && s.queue.NeedsRefill() && s.pending == nil {
		s.pending = s.supply.Prefetch(ctx, s.Loadout, s.prefetchCount)
	}
	return c, ok
}

// Refilling reports whether a prefetch is in flight.
func (s *Session) Refilling() bool {
	return s.pending != nil
}

// WaitPrefetch blocks until the in-flight prefetch, if any, has been
// added to the queue.
func (s *Session) WaitPrefetch(ctx context.Context) error {
	if s.pending == nil {
		return nil
	}
	select {
	case res := <-s.pending:
		s.pending = nil
		s.absorb(res)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) drain() {
	if s.pending == nil {
		return
	}
	select {
	case res := <-s.pending:
		s.pending = nil
		s.absorb(res)
	default:
	}
}

func (s *Session) absorb(res deck.PrefetchResult) {
	if res.Err != nil {
		s.logger.Warn("prefetch failed", "error", res.Err)
		return
	}
	added := s.enqueue(res.Cards)
	s.logger.Debug("prefetch landed", "cards", added, "shared", res.Shared)
}

// enqueue appends cards not already queued in this session.
func (s *Session) enqueue(cards []card.Card) int {
	fresh := make([]card.Card, 0, len(cards))
	for _, c := range cards {
		if s.queued[c.ID] {
			continue
		}
		s.queued[c.ID] = true
		fresh = append(fresh, c)
	}
	s.queue.AddCards(fresh)
	return len(fresh)
}

// Answer records the player's answer to c. A correct answer updates the
// card's schedule; a wrong one puts the card in the review deck. Store
// failures are returned and end the session.
func (s *Session) Answer(ctx context.Context, c card.Card, outcome srs.Outcome) (AnswerResult, error) {
	res := AnswerResult{Quality: srs.Classify(outcome)}

	var err error
	if outcome.Correct {
		res.Record, err = s.reviews.RecordReview(ctx, c.ID, outcome)
		if errors.Is(err, review.ErrNotFound) {
			// Bundled and fallback cards are only stored once missed.
			err = nil
		}
	} else {
		res.Record, err = s.reviews.AddToReviewDeck(ctx, c)
	}
	if err != nil {
		return AnswerResult{}, fmt.Errorf("record answer for %s: %w", c.ID, err)
	}

	res.XP = s.stats.Record(c.Difficulty, outcome.Correct)
	res.Combo = s.stats.Combo
	return res, nil
}

// Stats returns the running totals.
func (s *Session) Stats() Stats {
	return s.stats
}

// Queue exposes the underlying queue for inspection.
func (s *Session) Queue() *Queue {
	return s.queue
}

// End closes the session and sweeps the generated-card cache. Sweep
// failures are logged, not returned.
func (s *Session) End(ctx context.Context) Summary {
	evicted, err := s.supply.ClearOldCache(ctx)
	if err != nil {
		s.logger.Warn("cache sweep failed", "error", err)
	}
	sum := Summary{
		SessionID: s.ID,
		Loadout:   s.Loadout,
		Duration:  s.clock.Now().Sub(s.startedAt),
		Stats:     s.stats,
		Accuracy:  s.stats.Accuracy(),
		Evicted:   evicted,
	}
	s.logger.Info("session ended",
		"answered", sum.Stats.Answered, "correct", sum.Stats.Correct, "xp", sum.Stats.XP)
	return sum
}
