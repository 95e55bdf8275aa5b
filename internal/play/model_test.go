package play

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/999aryaDharma/HackStack/internal/card"
	"github.com/999aryaDharma/HackStack/internal/clock"
	"github.com/999aryaDharma/HackStack/internal/deck"
	"github.com/999aryaDharma/HackStack/internal/review"
	"github.com/999aryaDharma/HackStack/internal/session"
	"github.com/999aryaDharma/HackStack/internal/srs"
)

type stubSupplier struct{ cards []card.Card }

func (s *stubSupplier) FetchCards(_ context.Context, _ card.Loadout, n int) ([]card.Card, error) {
	return s.cards[:min(n, len(s.cards))], nil
}

func (s *stubSupplier) Prefetch(context.Context, card.Loadout, int) <-chan deck.PrefetchResult {
	ch := make(chan deck.PrefetchResult, 1)
	ch <- deck.PrefetchResult{}
	return ch
}

func (s *stubSupplier) ClearOldCache(context.Context) (int, error) { return 0, nil }

type stubReviewer struct{ outcomes []srs.Outcome }

func (r *stubReviewer) RecordReview(_ context.Context, id string, o srs.Outcome) (card.Record, error) {
	r.outcomes = append(r.outcomes, o)
	return card.Record{}, fmt.Errorf("get %s: %w", id, review.ErrNotFound)
}

func (r *stubReviewer) AddToReviewDeck(_ context.Context, c card.Card) (card.Record, error) {
	r.outcomes = append(r.outcomes, srs.Outcome{})
	return card.Record{Card: c, Status: srs.StatusLearning, State: srs.Initial()}, nil
}

func testCards(n int) []card.Card {
	out := make([]card.Card, n)
	for i := range out {
		out[i] = card.Card{
			ID:         fmt.Sprintf("c%d", i),
			Type:       card.TypeQuiz,
			Language:   "Go",
			Difficulty: card.DifficultyEasy,
			Question:   fmt.Sprintf("Question %d", i),
			Answer:     "42",
			Taunt:      "So close.",
		}
	}
	return out
}

// step runs cmd and feeds its message back into the model until no
// command is left.
func step(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		if i > 20 {
			t.Fatal("command loop did not settle")
		}
		var next tea.Model
		next, cmd = m.Update(cmd())
		m = next.(Model)
	}
	return m
}

func press(t *testing.T, m Model, key string) Model {
	t.Helper()
	next, cmd := m.handleKey(key)
	return step(t, next.(Model), cmd)
}

func newModel(t *testing.T, n int) (Model, *stubReviewer, *clock.Fixed) {
	t.Helper()
	clk := clock.NewFixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	rev := &stubReviewer{}
	sess := session.New(card.Loadout{Language: "Go", Difficulty: card.DifficultyEasy, SessionLength: n},
		&stubSupplier{cards: testCards(n)}, rev, session.WithClock(clk))
	m := New(context.Background(), sess, clk)
	return step(t, m, m.startCmd()), rev, clk
}

func TestModel_StartsOnFirstCard(t *testing.T) {
	m, _, _ := newModel(t, 5)

	if m.phase != phaseQuestion {
		t.Fatalf("expected question phase, got %d", m.phase)
	}
	if m.current.ID != "c0" {
		t.Errorf("expected c0, got %s", m.current.ID)
	}
}

func TestModel_FlipThenSwipeRight(t *testing.T) {
	m, rev, clk := newModel(t, 5)

	clk.Advance(2 * time.Second)
	m = press(t, m, "space")
	if m.phase != phaseAnswer {
		t.Fatalf("expected answer phase, got %d", m.phase)
	}
	clk.Advance(5 * time.Second)
	m = press(t, m, "right")

	if m.phase != phaseFeedback {
		t.Fatalf("expected feedback phase, got %d", m.phase)
	}
	if len(rev.outcomes) != 1 || !rev.outcomes[0].Correct {
		t.Fatalf("expected one correct outcome, got %+v", rev.outcomes)
	}
	if rev.outcomes[0].ResponseTime != 2*time.Second {
		t.Errorf("latency should be time to flip, got %v", rev.outcomes[0].ResponseTime)
	}
	if m.last.Result.XP != 10 {
		t.Errorf("expected 10 XP, got %d", m.last.Result.XP)
	}

	m = press(t, m, "x")
	if m.current.ID != "c1" || m.phase != phaseQuestion {
		t.Errorf("expected next card, got %s in phase %d", m.current.ID, m.phase)
	}
}

func TestModel_BlindSwipeLeft(t *testing.T) {
	m, rev, clk := newModel(t, 5)

	clk.Advance(4 * time.Second)
	m = press(t, m, "left")

	if len(rev.outcomes) != 1 || rev.outcomes[0].Correct {
		t.Fatalf("expected one wrong outcome, got %+v", rev.outcomes)
	}
	if m.last.Correct {
		t.Error("expected wrong answer feedback")
	}
	if got := m.renderFeedback(80); !strings.Contains(got, "So close.") {
		t.Error("expected taunt in feedback")
	}
}

func TestModel_EndsWhenDeckRunsDry(t *testing.T) {
	m, _, _ := newModel(t, 1)

	m = press(t, m, "right")
	m = press(t, m, "enter")

	if m.phase != phaseSummary {
		t.Fatalf("expected summary phase, got %d", m.phase)
	}
	if m.summary.Stats.Answered != 1 {
		t.Errorf("expected 1 answer in summary, got %d", m.summary.Stats.Answered)
	}
}

func TestModel_QuitEndsSession(t *testing.T) {
	m, _, _ := newModel(t, 5)

	m = press(t, m, "q")
	if m.phase != phaseSummary {
		t.Fatalf("expected summary phase, got %d", m.phase)
	}
	if _, cmd := m.handleKey("q"); cmd == nil {
		t.Error("expected quit command from summary")
	}
}

func TestModel_IgnoresKeysWhileBusy(t *testing.T) {
	m, rev, _ := newModel(t, 5)
	m.busy = true

	next, cmd := m.handleKey("right")
	if cmd != nil || len(rev.outcomes) != 0 {
		t.Error("expected key to be ignored while busy")
	}
	if next.(Model).phase != phaseQuestion {
		t.Error("phase changed while busy")
	}
}

func TestRenderDueList(t *testing.T) {
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	overdue := card.NewRecord(testCards(1)[0])
	overdue.NextReview = now.Add(-72 * time.Hour)
	fresh := card.NewRecord(testCards(2)[1])

	out := RenderDueList([]card.Record{overdue, fresh}, now, 120)
	if !strings.Contains(out, "overdue 3d") {
		t.Errorf("missing overdue label in %q", out)
	}
	if !strings.Contains(out, "new") {
		t.Errorf("missing new label in %q", out)
	}
	if RenderDueList(nil, now, 120) == "" {
		t.Error("expected empty-state message")
	}
}
