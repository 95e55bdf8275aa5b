package session_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/999aryaDharma/HackStack/internal/card"
	"github.com/999aryaDharma/HackStack/internal/cardgen"
	"github.com/999aryaDharma/HackStack/internal/clock"
	"github.com/999aryaDharma/HackStack/internal/deck"
	"github.com/999aryaDharma/HackStack/internal/review"
	"github.com/999aryaDharma/HackStack/internal/session"
	"github.com/999aryaDharma/HackStack/internal/srs"
	"github.com/999aryaDharma/HackStack/internal/store/storetest"
)

var start = time.Date(2026, 2, 1, 20, 0, 0, 0, time.UTC)

func cards(prefix string, n int) []card.Card {
	out := make([]card.Card, n)
	for i := range out {
		out[i] = card.Card{
			ID:         fmt.Sprintf("%s%d", prefix, i),
			Language:   "Go",
			Difficulty: card.DifficultyMedium,
		}
	}
	return out
}

// fakeSupplier serves a fixed initial deck and hands out prefetch
// channels the test resolves by hand.
type fakeSupplier struct {
	initial    []card.Card
	fetchErr   error
	prefetches []chan deck.PrefetchResult
	counts     []int
	clearErr   error
	cleared    int
}

func (f *fakeSupplier) FetchCards(_ context.Context, _ card.Loadout, count int) ([]card.Card, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.initial[:min(count, len(f.initial))], nil
}

func (f *fakeSupplier) Prefetch(_ context.Context, _ card.Loadout, count int) <-chan deck.PrefetchResult {
	ch := make(chan deck.PrefetchResult, 1)
	f.prefetches = append(f.prefetches, ch)
	f.counts = append(f.counts, count)
	return ch
}

func (f *fakeSupplier) ClearOldCache(context.Context) (int, error) {
	f.cleared++
	return 2, f.clearErr
}

func (f *fakeSupplier) resolve(i int, res deck.PrefetchResult) {
	f.prefetches[i] <- res
}

type fakeReviewer struct {
	reviewed []string
	added    []string
	err      error
	notFound bool
}

func (f *fakeReviewer) RecordReview(_ context.Context, id string, _ srs.Outcome) (card.Record, error) {
	f.reviewed = append(f.reviewed, id)
	if f.notFound {
		return card.Record{}, fmt.Errorf("get card: %w", review.ErrNotFound)
	}
	return card.Record{Card: card.Card{ID: id}}, f.err
}

func (f *fakeReviewer) AddToReviewDeck(_ context.Context, c card.Card) (card.Record, error) {
	f.added = append(f.added, c.ID)
	return card.Record{Card: c, Status: srs.StatusLearning}, f.err
}

var loadout = card.Loadout{Language: "Go", Difficulty: card.DifficultyMedium, SessionLength: 12}

func newSession(t *testing.T, sup *fakeSupplier, rev *fakeReviewer) *session.Session {
	t.Helper()
	s := session.New(loadout, sup, rev,
		session.WithClock(clock.NewFixed(start)),
		session.WithPrefetchCount(5))
	require.NoError(t, s.Start(context.Background()))
	return s
}

func TestSession_StartFillsQueue(t *testing.T) {
	sup := &fakeSupplier{initial: cards("c", 20)}
	s := newSession(t, sup, &fakeReviewer{})

	assert.Equal(t, 12, s.Queue().Len())
	assert.Equal(t, 0, s.Queue().Cursor())
	assert.NotEmpty(t, s.ID)
}

func TestSession_StartPropagatesStoreError(t *testing.T) {
	storeErr := errors.New("database is locked")
	sup := &fakeSupplier{fetchErr: storeErr}
	s := session.New(loadout, sup, &fakeReviewer{})

	err := s.Start(context.Background())
	assert.ErrorIs(t, err, storeErr)
}

func TestSession_PrefetchAtLowWaterMark(t *testing.T) {
	sup := &fakeSupplier{initial: cards("c", 12)}
	s := newSession(t, sup, &fakeReviewer{})
	ctx := context.Background()

	for range 8 {
		_, ok := s.Next(ctx)
		require.True(t, ok)
	}
	assert.Empty(t, sup.prefetches, "no prefetch above the low-water mark")

	_, ok := s.Next(ctx)
	require.True(t, ok)
	require.Len(t, sup.prefetches, 1)
	assert.Equal(t, 5, sup.counts[0])
	assert.True(t, s.Refilling())

	sup.resolve(0, deck.PrefetchResult{Cards: cards("p", 5)})
	require.NoError(t, s.WaitPrefetch(ctx))

	assert.Equal(t, 17, s.Queue().Len())
	assert.Equal(t, 9, s.Queue().Cursor())
	assert.False(t, s.Refilling())
}

func TestSession_SinglePrefetchInFlight(t *testing.T) {
	sup := &fakeSupplier{initial: cards("c", 4)}
	s := newSession(t, sup, &fakeReviewer{})
	ctx := context.Background()

	for range 4 {
		_, ok := s.Next(ctx)
		require.True(t, ok)
	}
	_, ok := s.Next(ctx)
	assert.False(t, ok, "queue exhausted while prefetch is in flight")
	assert.Len(t, sup.prefetches, 1)
}

func TestSession_NextDrainsArrivedPrefetch(t *testing.T) {
	sup := &fakeSupplier{initial: cards("c", 3)}
	s := newSession(t, sup, &fakeReviewer{})
	ctx := context.Background()

	_, _ = s.Next(ctx)
	require.Len(t, sup.prefetches, 1)
	sup.resolve(0, deck.PrefetchResult{Cards: cards("p", 5)})

	// Consumes c1 after appending the prefetched cards.
	c, ok := s.Next(ctx)
	require.True(t, ok)
	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, 8, s.Queue().Len())
}

func TestSession_PrefetchErrorIsSwallowed(t *testing.T) {
	sup := &fakeSupplier{initial: cards("c", 2)}
	s := newSession(t, sup, &fakeReviewer{})
	ctx := context.Background()

	_, _ = s.Next(ctx)
	sup.resolve(0, deck.PrefetchResult{Err: &deck.GeneratorError{Err: errors.New("quota")}})
	require.NoError(t, s.WaitPrefetch(ctx))
	assert.Equal(t, 2, s.Queue().Len())

	// The next low-water consume retries.
	_, ok := s.Next(ctx)
	require.True(t, ok)
	assert.Len(t, sup.prefetches, 2)
}

func TestSession_SkipsDuplicateCards(t *testing.T) {
	sup := &fakeSupplier{initial: cards("c", 3)}
	s := newSession(t, sup, &fakeReviewer{})
	ctx := context.Background()

	_, _ = s.Next(ctx)
	sup.resolve(0, deck.PrefetchResult{Cards: append(cards("c", 2), cards("p", 1)...), Shared: true})
	require.NoError(t, s.WaitPrefetch(ctx))

	assert.Equal(t, 4, s.Queue().Len())
}

func TestSession_WaitPrefetchHonoursContext(t *testing.T) {
	sup := &fakeSupplier{initial: cards("c", 1)}
	s := newSession(t, sup, &fakeReviewer{})

	_, _ = s.Next(context.Background())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.WaitPrefetch(ctx), context.Canceled)
	assert.True(t, s.Refilling())
}

func TestSession_WaitPrefetchWithoutPending(t *testing.T) {
	s := newSession(t, &fakeSupplier{initial: cards("c", 10)}, &fakeReviewer{})
	assert.NoError(t, s.WaitPrefetch(context.Background()))
}

func TestSession_AnswerCorrect(t *testing.T) {
	rev := &fakeReviewer{}
	s := newSession(t, &fakeSupplier{initial: cards("c", 10)}, rev)
	ctx := context.Background()
	c, _ := s.Next(ctx)

	res, err := s.Answer(ctx, c, srs.Outcome{Correct: true, ResponseTime: time.Second})
	require.NoError(t, err)

	assert.Equal(t, []string{"c0"}, rev.reviewed)
	assert.Empty(t, rev.added)
	assert.Equal(t, srs.QualityPerfect, res.Quality)
	assert.Equal(t, 20, res.XP)
	assert.Equal(t, 1, res.Combo)
	assert.Equal(t, "c0", res.Record.ID)
}

func TestSession_AnswerCorrectOnUnstoredCard(t *testing.T) {
	rev := &fakeReviewer{notFound: true}
	s := newSession(t, &fakeSupplier{initial: cards("c", 10)}, rev)
	ctx := context.Background()
	c, _ := s.Next(ctx)

	res, err := s.Answer(ctx, c, srs.Outcome{Correct: true})
	require.NoError(t, err)
	assert.Equal(t, 20, res.XP)
	assert.Empty(t, res.Record.ID)
}

func TestSession_AnswerWrongAddsToReviewDeck(t *testing.T) {
	rev := &fakeReviewer{}
	s := newSession(t, &fakeSupplier{initial: cards("c", 10)}, rev)
	ctx := context.Background()

	c0, _ := s.Next(ctx)
	_, err := s.Answer(ctx, c0, srs.Outcome{Correct: true})
	require.NoError(t, err)
	c1, _ := s.Next(ctx)
	res, err := s.Answer(ctx, c1, srs.Outcome{Correct: false, ResponseTime: time.Second})
	require.NoError(t, err)

	assert.Equal(t, []string{"c1"}, rev.added)
	assert.Equal(t, srs.QualityBlackout, res.Quality)
	assert.Zero(t, res.XP)
	assert.Zero(t, res.Combo)
	st := s.Stats()
	assert.Equal(t, 2, st.Answered)
	assert.Equal(t, 1, st.Wrong)
	assert.Equal(t, 1, st.BestCombo)
}

func TestSession_AnswerStoreErrorIsFatal(t *testing.T) {
	storeErr := errors.New("disk full")
	rev := &fakeReviewer{err: storeErr}
	s := newSession(t, &fakeSupplier{initial: cards("c", 10)}, rev)
	ctx := context.Background()
	c, _ := s.Next(ctx)

	_, err := s.Answer(ctx, c, srs.Outcome{Correct: false})
	assert.ErrorIs(t, err, storeErr)
	assert.Zero(t, s.Stats().Answered)
}

func TestSession_EndSweepsCache(t *testing.T) {
	sup := &fakeSupplier{initial: cards("c", 10), clearErr: errors.New("sweep failed")}
	clk := clock.NewFixed(start)
	s := session.New(loadout, sup, &fakeReviewer{}, session.WithClock(clk))
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))

	c, _ := s.Next(ctx)
	_, err := s.Answer(ctx, c, srs.Outcome{Correct: true})
	require.NoError(t, err)
	clk.Advance(3 * time.Minute)

	sum := s.End(ctx)
	assert.Equal(t, 1, sup.cleared)
	assert.Equal(t, s.ID, sum.SessionID)
	assert.Equal(t, 3*time.Minute, sum.Duration)
	assert.Equal(t, 1, sum.Stats.Correct)
	assert.Equal(t, 1.0, sum.Accuracy)
}

func TestSession_EndToEndWithBundledFallback(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFixed(start)
	repo := storetest.Open(t).CardRepo()
	offline := cardgen.GeneratorFunc(func(context.Context, cardgen.Request) ([]card.Candidate, error) {
		return nil, errors.New("offline")
	})
	pipeline := deck.New(repo, offline, card.NewValidator(card.WithClock(clk)), deck.WithClock(clk))
	reviews := review.New(repo, review.WithClock(clk))

	s := session.New(card.Loadout{Language: "Go", Difficulty: card.DifficultyEasy, SessionLength: 3},
		pipeline, reviews, session.WithClock(clk))
	require.NoError(t, s.Start(ctx))
	require.Equal(t, 3, s.Queue().Len())

	c, ok := s.Next(ctx)
	require.True(t, ok)
	res, err := s.Answer(ctx, c, srs.Outcome{Correct: false, ResponseTime: 4 * time.Second})
	require.NoError(t, err)

	assert.Equal(t, srs.StatusLearning, res.Record.Status)
	stored, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, card.SourceSessionAdded, stored.Source)
	assert.Equal(t, 1, stored.TimesWrong)

	require.NoError(t, s.WaitPrefetch(ctx))
	s.End(ctx)
}

func TestSession_EmptyQueueDoesNotRefire(t *testing.T) {
	sup := &fakeSupplier{initial: cards("c", 1)}
	s := newSession(t, sup, &fakeReviewer{})
	ctx := context.Background()

	_, ok := s.Next(ctx)
	require.True(t, ok)
	sup.resolve(0, deck.PrefetchResult{})
	require.NoError(t, s.WaitPrefetch(ctx))

	_, ok = s.Next(ctx)
	assert.False(t, ok)
	assert.False(t, s.Refilling())
	assert.Len(t, sup.prefetches, 1)
}
