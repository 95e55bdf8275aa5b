package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/999aryaDharma/HackStack/internal/card"
	"github.com/999aryaDharma/HackStack/internal/srs"
	"github.com/999aryaDharma/HackStack/internal/store"
	"github.com/999aryaDharma/HackStack/internal/store/storetest"
)

var baseTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newRecord(id, lang string) card.Record {
	return card.NewRecord(card.Card{
		ID:          id,
		Type:        card.TypeTrivia,
		Language:    lang,
		Difficulty:  card.DifficultyMedium,
		Question:    "Q " + id,
		Answer:      "A " + id,
		Explanation: "E " + id,
		Source:      card.SourceGenerated,
		Model:       "test-model",
		CreatedAt:   baseTime,
	})
}

func ids(recs []card.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func TestCardRepo_InsertGetRoundTrip(t *testing.T) {
	repo := storetest.Open(t).CardRepo()
	ctx := context.Background()

	rec := newRecord("c1", "Go")
	rec.Taunt = "skill issue"
	rec.Topic = "goroutines"
	require.NoError(t, repo.Insert(ctx, rec))

	got, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.False(t, got.Scheduled())
}

func TestCardRepo_GetMissing(t *testing.T) {
	repo := storetest.Open(t).CardRepo()

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCardRepo_InsertDuplicateFails(t *testing.T) {
	repo := storetest.Open(t).CardRepo()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newRecord("c1", "Go")))
	assert.Error(t, repo.Insert(ctx, newRecord("c1", "Go")))
}

func TestCardRepo_InsertIfAbsent(t *testing.T) {
	repo := storetest.Open(t).CardRepo()
	ctx := context.Background()

	ok, err := repo.InsertIfAbsent(ctx, newRecord("c1", "Go"))
	require.NoError(t, err)
	assert.True(t, ok)

	dup := newRecord("c1", "Rust")
	ok, err = repo.InsertIfAbsent(ctx, dup)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Go", got.Language, "existing record must not be overwritten")
}

func TestCardRepo_Update(t *testing.T) {
	repo := storetest.Open(t).CardRepo()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, newRecord("c1", "Go")))

	rec, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	rec.State = srs.State{Interval: 6, EaseFactor: 2.6, Repetitions: 2}
	rec.Status = srs.StatusReview
	rec.Mastery = 52
	rec.NextReview = baseTime.Add(6 * 24 * time.Hour)
	rec.TimesSeen = 2
	rec.TimesCorrect = 2
	rec.AvgResponseMs = 2100
	rec.LatencySamples = 2
	require.NoError(t, repo.Update(ctx, rec))

	got, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.True(t, got.Scheduled())

	// Clearing the schedule stores NULL again.
	rec.NextReview = time.Time{}
	require.NoError(t, repo.Update(ctx, rec))
	got, err = repo.Get(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, got.Scheduled())
}

func TestCardRepo_UpdateMissing(t *testing.T) {
	repo := storetest.Open(t).CardRepo()

	err := repo.Update(context.Background(), newRecord("ghost", "Go"))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCardRepo_QueryDue(t *testing.T) {
	repo := storetest.Open(t).CardRepo()
	ctx := context.Background()
	now := baseTime.Add(48 * time.Hour)

	unscheduled := newRecord("unscheduled", "Go")
	unscheduled.Status = srs.StatusLearning
	unscheduled.Repetitions = 0

	past := newRecord("past", "Go")
	past.Status = srs.StatusReview
	past.Repetitions = 2
	past.NextReview = now.Add(-time.Hour)

	exact := newRecord("exact", "Go")
	exact.Status = srs.StatusReview
	exact.Repetitions = 2
	exact.NextReview = now

	future := newRecord("future", "Go")
	future.Status = srs.StatusReview
	future.Repetitions = 2
	future.NextReview = now.Add(time.Hour)

	futureNew := newRecord("future-new", "Go")
	futureNew.NextReview = now.Add(72 * time.Hour)

	for _, r := range []card.Record{future, exact, past, unscheduled, futureNew} {
		require.NoError(t, repo.Insert(ctx, r))
	}

	got, err := repo.Query(ctx, store.CardQuery{DueBy: now})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"unscheduled", "past", "exact", "future-new"}, ids(got))
	assert.Equal(t, "unscheduled", got[0].ID, "unscheduled cards sort first")

	limited, err := repo.Query(ctx, store.CardQuery{DueBy: now, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	n, err := repo.Count(ctx, store.CardQuery{DueBy: now, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 4, n, "count ignores limit")
}

func TestCardRepo_QueryReviewBefore(t *testing.T) {
	repo := storetest.Open(t).CardRepo()
	ctx := context.Background()
	cutoff := baseTime.Add(24 * time.Hour)

	old := newRecord("old", "Go")
	old.NextReview = cutoff.Add(-time.Minute)
	recent := newRecord("recent", "Go")
	recent.NextReview = cutoff.Add(time.Minute)
	unscheduled := newRecord("unscheduled", "Go")

	for _, r := range []card.Record{old, recent, unscheduled} {
		require.NoError(t, repo.Insert(ctx, r))
	}

	got, err := repo.Query(ctx, store.CardQuery{ReviewBefore: cutoff})
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, ids(got))
}

func TestCardRepo_QueryFilters(t *testing.T) {
	repo := storetest.Open(t).CardRepo()
	ctx := context.Background()

	goEasy := newRecord("go-easy", "Go")
	goEasy.Difficulty = card.DifficultyEasy
	goHard := newRecord("go-hard", "Go")
	goHard.Difficulty = card.DifficultyHard
	goBundled := newRecord("go-bundled", "Go")
	goBundled.Source = card.SourceBundled
	goBundled.Difficulty = card.DifficultyHard
	rustOld := newRecord("rust-old", "Rust")
	rustOld.CreatedAt = baseTime.Add(-40 * 24 * time.Hour)

	for _, r := range []card.Record{goEasy, goHard, goBundled, rustOld} {
		require.NoError(t, repo.Insert(ctx, r))
	}

	tests := []struct {
		name string
		q    store.CardQuery
		want []string
	}{
		{"language", store.CardQuery{Language: "Rust"}, []string{"rust-old"}},
		{"difficulty", store.CardQuery{Difficulty: card.DifficultyHard}, []string{"go-hard", "go-bundled"}},
		{"source", store.CardQuery{Source: card.SourceBundled}, []string{"go-bundled"}},
		{"created after", store.CardQuery{CreatedAfter: baseTime.Add(-24 * time.Hour)}, []string{"go-easy", "go-hard", "go-bundled"}},
		{"created before", store.CardQuery{CreatedBefore: baseTime.Add(-30 * 24 * time.Hour)}, []string{"rust-old"}},
		{"combined", store.CardQuery{Language: "Go", Source: card.SourceGenerated, Difficulty: card.DifficultyHard}, []string{"go-hard"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Query(ctx, tt.q)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, ids(got))
		})
	}
}

func TestCardRepo_QueryPreferDifficulty(t *testing.T) {
	repo := storetest.Open(t).CardRepo()
	ctx := context.Background()

	for i, d := range []card.Difficulty{card.DifficultyEasy, card.DifficultyHard, card.DifficultyMedium, card.DifficultyHard} {
		r := newRecord(string(d)+"-"+string(rune('a'+i)), "Go")
		r.Difficulty = d
		require.NoError(t, repo.Insert(ctx, r))
	}

	got, err := repo.Query(ctx, store.CardQuery{Language: "Go", PreferDifficulty: card.DifficultyHard})
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, card.DifficultyHard, got[0].Difficulty)
	assert.Equal(t, card.DifficultyHard, got[1].Difficulty)
}

func TestCardRepo_Delete(t *testing.T) {
	repo := storetest.Open(t).CardRepo()
	ctx := context.Background()

	fresh := newRecord("fresh", "Go")
	stale := newRecord("stale", "Go")
	stale.CreatedAt = baseTime.Add(-31 * 24 * time.Hour)
	staleBundled := newRecord("stale-bundled", "Go")
	staleBundled.CreatedAt = stale.CreatedAt
	staleBundled.Source = card.SourceBundled
	for _, r := range []card.Record{fresh, stale, staleBundled} {
		require.NoError(t, repo.Insert(ctx, r))
	}

	n, err := repo.Delete(ctx, store.CardQuery{
		Source:        card.SourceGenerated,
		CreatedBefore: baseTime.Add(-30 * 24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = repo.Get(ctx, "stale")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = repo.Get(ctx, "stale-bundled")
	assert.NoError(t, err)

	_, err = repo.Delete(ctx, store.CardQuery{})
	assert.Error(t, err, "unfiltered delete must be refused")
}

func TestCardRepo_StoreErrorsAreWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	diskErr := errors.New("disk I/O error")
	mock.ExpectQuery("SELECT .+ FROM `cards`").WillReturnError(diskErr)
	mock.ExpectExec("UPDATE `cards`").WillReturnError(diskErr)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM `cards`").WillReturnError(diskErr)
	mock.ExpectExec("DELETE FROM `cards`").WillReturnError(diskErr)

	repo := store.NewCardRepo(db)
	ctx := context.Background()

	_, err = repo.Get(ctx, "c1")
	assert.ErrorIs(t, err, diskErr)
	assert.NotErrorIs(t, err, store.ErrNotFound)

	err = repo.Update(ctx, newRecord("c1", "Go"))
	assert.ErrorIs(t, err, diskErr)

	_, err = repo.Count(ctx, store.CardQuery{Status: srs.StatusLearning})
	assert.ErrorIs(t, err, diskErr)

	_, err = repo.Delete(ctx, store.CardQuery{Source: card.SourceGenerated})
	assert.ErrorIs(t, err, diskErr)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepo_UpdateZeroRowsIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE `cards` SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err = store.NewCardRepo(db).Update(context.Background(), newRecord("c1", "Go"))
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
