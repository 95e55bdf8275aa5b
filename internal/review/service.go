// Package review persists spaced-repetition state for cards: it selects
// due and overdue cards and applies review outcomes through the SM-2
// engine.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/999aryaDharma/HackStack/internal/card"
	"github.com/999aryaDharma/HackStack/internal/clock"
	"github.com/999aryaDharma/HackStack/internal/srs"
	"github.com/999aryaDharma/HackStack/internal/store"
)

// ErrNotFound is returned when a review targets an unknown card id.
var ErrNotFound = store.ErrNotFound

// Default result caps for due and overdue selection.
const (
	DefaultDueLimit     = 20
	DefaultOverdueLimit = 50
)

// Repository is the subset of the record store the service needs.
type Repository interface {
	Get(ctx context.Context, id string) (card.Record, error)
	Insert(ctx context.Context, rec card.Record) error
	Update(ctx context.Context, rec card.Record) error
	Query(ctx context.Context, q store.CardQuery) ([]card.Record, error)
	Count(ctx context.Context, q store.CardQuery) (int, error)
}

// Stats are dashboard counts over the whole store.
type Stats struct {
	DueToday int
	Overdue  int
	Learning int
	Mastered int
}

// Service applies review outcomes to stored cards.
type Service struct {
	repo   Repository
	clock  clock.Clock
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used for due-date math.
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New creates a review service backed by repo.
func New(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		clock:  clock.System{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DueCards returns up to limit cards that are due now: unscheduled, in
// status new, or with a next review at or before now.
func (s *Service) DueCards(ctx context.Context, limit int) ([]card.Record, error) {
	if limit <= 0 {
		limit = DefaultDueLimit
	}
	recs, err := s.repo.Query(ctx, store.CardQuery{DueBy: s.clock.Now(), Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("due cards: %w", err)
	}
	return recs, nil
}

// OverdueCards returns up to limit cards whose next review passed more than
// a day ago.
func (s *Service) OverdueCards(ctx context.Context, limit int) ([]card.Record, error) {
	if limit <= 0 {
		limit = DefaultOverdueLimit
	}
	recs, err := s.repo.Query(ctx, store.CardQuery{ReviewBefore: s.overdueCutoff(), Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("overdue cards: %w", err)
	}
	return recs, nil
}

func (s *Service) overdueCutoff() time.Time {
	return s.clock.Now().Add(-24 * time.Hour)
}

// RecordReview grades the outcome, advances the card's review state and
// persists it. It returns ErrNotFound if id is unknown.
func (s *Service) RecordReview(ctx context.Context, id string, outcome srs.Outcome) (card.Record, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return card.Record{}, fmt.Errorf("record review: %w", err)
	}

	q := srs.Classify(outcome)
	applyReview(&rec, q, outcome, s.clock.Now())

	if err := s.repo.Update(ctx, rec); err != nil {
		return card.Record{}, fmt.Errorf("record review: %w", err)
	}

	s.logger.Debug("review recorded",
		"card", rec.ID,
		"quality", int(q),
		"interval", rec.Interval,
		"ease", rec.EaseFactor,
		"status", rec.Status,
	)
	return rec, nil
}

// applyReview mutates rec for one graded review at now.
func applyReview(rec *card.Record, q srs.Quality, outcome srs.Outcome, now time.Time) {
	next := srs.Next(rec.State, q)
	rec.State = next
	rec.Mastery = srs.MasteryScore(next)
	rec.Status = srs.LifecycleStatus(next)
	if rec.Status == srs.StatusNew {
		// A reset card has been seen, so it is learning rather than new.
		rec.Status = srs.StatusLearning
	}
	rec.NextReview = srs.NextReview(now, next.Interval)

	rec.TimesSeen++
	if outcome.Correct {
		rec.TimesCorrect++
	} else {
		rec.TimesWrong++
	}
	if outcome.Measured() {
		n := float64(rec.LatencySamples)
		sample := float64(outcome.ResponseTime.Milliseconds())
		rec.AvgResponseMs = int(math.Round((float64(rec.AvgResponseMs)*n + sample) / (n + 1)))
		rec.LatencySamples++
	}
}

// AddToReviewDeck schedules a missed card. A card already in the store is
// re-failed through RecordReview; an unknown card is inserted in status
// learning with one wrong answer on record.
func (s *Service) AddToReviewDeck(ctx context.Context, c card.Card) (card.Record, error) {
	_, err := s.repo.Get(ctx, c.ID)
	switch {
	case err == nil:
		return s.RecordReview(ctx, c.ID, srs.Outcome{Correct: false})
	case !errors.Is(err, ErrNotFound):
		return card.Record{}, fmt.Errorf("add to review deck: %w", err)
	}

	now := s.clock.Now()
	if c.CreatedAt.IsZero() || c.CreatedAt.After(now) {
		c.CreatedAt = now
	}
	c.Source = card.SourceSessionAdded

	rec := card.NewRecord(c)
	rec.Status = srs.StatusLearning
	rec.NextReview = srs.NextReview(now, rec.Interval)
	rec.TimesSeen = 1
	rec.TimesWrong = 1

	if err := s.repo.Insert(ctx, rec); err != nil {
		return card.Record{}, fmt.Errorf("add to review deck: %w", err)
	}
	s.logger.Debug("card added to review deck", "card", rec.ID, "lang", rec.Language)
	return rec, nil
}

// Stats returns dashboard counts. The four counts run concurrently and are
// independent of each other.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	now := s.clock.Now()
	var st Stats

	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int, q store.CardQuery) {
		g.Go(func() error {
			n, err := s.repo.Count(gctx, q)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}
	count(&st.DueToday, store.CardQuery{DueBy: now})
	count(&st.Overdue, store.CardQuery{ReviewBefore: s.overdueCutoff()})
	count(&st.Learning, store.CardQuery{Status: srs.StatusLearning})
	count(&st.Mastered, store.CardQuery{Status: srs.StatusMastered})

	if err := g.Wait(); err != nil {
		return Stats{}, fmt.Errorf("review stats: %w", err)
	}
	return st, nil
}
