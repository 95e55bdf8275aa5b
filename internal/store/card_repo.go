package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"github.com/999aryaDharma/HackStack/internal/card"
	"github.com/999aryaDharma/HackStack/internal/srs"
)

const cardsTable = "cards"

var cardColumns = []string{
	"id", "type", "lang", "difficulty", "question", "answer", "explanation",
	"taunt", "topic", "source", "model", "created_at",
	"status", "mastery", "interval_days", "ease_factor", "repetitions",
	"next_review", "times_seen", "times_correct", "times_wrong", "avg_response_ms",
	"latency_samples",
}

// cardRow is the on-disk shape of a card record.
type cardRow struct {
	ID             string        `db:"id"`
	Type           string        `db:"type"`
	Lang           string        `db:"lang"`
	Difficulty     string        `db:"difficulty"`
	Question       string        `db:"question"`
	Answer         string        `db:"answer"`
	Explanation    string        `db:"explanation"`
	Taunt          string        `db:"taunt"`
	Topic          string        `db:"topic"`
	Source         string        `db:"source"`
	Model          string        `db:"model"`
	CreatedAt      int64         `db:"created_at"`
	Status         string        `db:"status"`
	Mastery        int           `db:"mastery"`
	IntervalDays   int           `db:"interval_days"`
	EaseFactor     float64       `db:"ease_factor"`
	Repetitions    int           `db:"repetitions"`
	NextReview     sql.NullInt64 `db:"next_review"`
	TimesSeen      int           `db:"times_seen"`
	TimesCorrect   int           `db:"times_correct"`
	TimesWrong     int           `db:"times_wrong"`
	AvgResponseMs  int           `db:"avg_response_ms"`
	LatencySamples int           `db:"latency_samples"`
}

func (r cardRow) record() card.Record {
	rec := card.Record{
		Card: card.Card{
			ID:          r.ID,
			Type:        card.Type(r.Type),
			Language:    r.Lang,
			Difficulty:  card.Difficulty(r.Difficulty),
			Question:    r.Question,
			Answer:      r.Answer,
			Explanation: r.Explanation,
			Taunt:       r.Taunt,
			Topic:       r.Topic,
			Source:      card.Source(r.Source),
			Model:       r.Model,
			CreatedAt:   fromMillis(r.CreatedAt),
		},
		State: srs.State{
			Interval:    r.IntervalDays,
			EaseFactor:  r.EaseFactor,
			Repetitions: r.Repetitions,
		},
		Status:         srs.Status(r.Status),
		Mastery:        r.Mastery,
		TimesSeen:      r.TimesSeen,
		TimesCorrect:   r.TimesCorrect,
		TimesWrong:     r.TimesWrong,
		AvgResponseMs:  r.AvgResponseMs,
		LatencySamples: r.LatencySamples,
	}
	if r.NextReview.Valid {
		rec.NextReview = fromMillis(r.NextReview.Int64)
	}
	return rec
}

func nextReviewValue(rec card.Record) any {
	if !rec.Scheduled() {
		return nil
	}
	return toMillis(rec.NextReview)
}

func recordValues(rec card.Record) []any {
	return []any{
		rec.ID, string(rec.Type), rec.Language, string(rec.Difficulty),
		rec.Question, rec.Answer, rec.Explanation,
		rec.Taunt, rec.Topic, string(rec.Source), rec.Model, toMillis(rec.CreatedAt),
		string(rec.Status), rec.Mastery, rec.Interval, rec.EaseFactor, rec.Repetitions,
		nextReviewValue(rec), rec.TimesSeen, rec.TimesCorrect, rec.TimesWrong, rec.AvgResponseMs,
		rec.LatencySamples,
	}
}

// CardRepo stores card records. It is safe for concurrent use.
type CardRepo struct {
	db *sqlx.DB
}

var _ CardStore = (*CardRepo)(nil)

// NewCardRepo wraps an already-migrated database handle.
func NewCardRepo(db *sql.DB) *CardRepo {
	return &CardRepo{db: sqlx.NewDb(db, "sqlite")}
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// Get returns the record with the given id, or ErrNotFound.
func (r *CardRepo) Get(ctx context.Context, id string) (card.Record, error) {
	query, args := builder().
		Select(cardColumns...).
		From(entsql.Table(cardsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	var row cardRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return card.Record{}, fmt.Errorf("get card %s: %w", id, ErrNotFound)
		}
		return card.Record{}, fmt.Errorf("get card %s: %w", id, err)
	}
	return row.record(), nil
}

// Insert adds a new record. Inserting an existing id is an error.
func (r *CardRepo) Insert(ctx context.Context, rec card.Record) error {
	query, args := builder().
		Insert(cardsTable).
		Columns(cardColumns...).
		Values(recordValues(rec)...).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert card %s: %w", rec.ID, err)
	}
	return nil
}

// InsertIfAbsent adds rec unless a record with the same id exists. It
// reports whether a row was written.
func (r *CardRepo) InsertIfAbsent(ctx context.Context, rec card.Record) (bool, error) {
	query, args := builder().
		Insert(cardsTable).
		Columns(cardColumns...).
		Values(recordValues(rec)...).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert card %s: %w", rec.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert card %s: rows affected: %w", rec.ID, err)
	}
	return n > 0, nil
}

// Update overwrites the scheduling state and counters of an existing
// record. Content fields are immutable once stored.
func (r *CardRepo) Update(ctx context.Context, rec card.Record) error {
	query, args := builder().
		Update(cardsTable).
		Set("status", string(rec.Status)).
		Set("mastery", rec.Mastery).
		Set("interval_days", rec.Interval).
		Set("ease_factor", rec.EaseFactor).
		Set("repetitions", rec.Repetitions).
		Set("next_review", nextReviewValue(rec)).
		Set("times_seen", rec.TimesSeen).
		Set("times_correct", rec.TimesCorrect).
		Set("times_wrong", rec.TimesWrong).
		Set("avg_response_ms", rec.AvgResponseMs).
		Set("latency_samples", rec.LatencySamples).
		Where(entsql.EQ("id", rec.ID)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update card %s: %w", rec.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update card %s: rows affected: %w", rec.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("update card %s: %w", rec.ID, ErrNotFound)
	}
	return nil
}

// Query returns the records matching q.
func (r *CardRepo) Query(ctx context.Context, q CardQuery) ([]card.Record, error) {
	sel := builder().
		Select(cardColumns...).
		From(entsql.Table(cardsTable))
	if p := q.predicate(); p != nil {
		sel.Where(p)
	}

	switch {
	case q.PreferDifficulty != "":
		sel.OrderExpr(entsql.Expr("CASE WHEN `difficulty` = ? THEN 0 ELSE 1 END", string(q.PreferDifficulty)))
		sel.OrderBy(entsql.Desc("created_at"), "id")
	case !q.DueBy.IsZero() || !q.ReviewBefore.IsZero():
		// SQLite sorts NULL first, so unscheduled cards lead.
		sel.OrderBy("next_review", "id")
	default:
		sel.OrderBy(entsql.Desc("created_at"), "id")
	}
	if q.Limit > 0 {
		sel.Limit(q.Limit)
	}

	query, args := sel.Query()
	var rows []cardRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}

	out := make([]card.Record, len(rows))
	for i, row := range rows {
		out[i] = row.record()
	}
	return out, nil
}

// Count returns the number of records matching q. Limit is ignored.
func (r *CardRepo) Count(ctx context.Context, q CardQuery) (int, error) {
	sel := builder().
		Select().
		Count().
		From(entsql.Table(cardsTable))
	if p := q.predicate(); p != nil {
		sel.Where(p)
	}

	query, args := sel.Query()
	var n int
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return n, nil
}

// Delete removes the records matching q and returns how many were removed.
// An empty query is refused rather than wiping the table.
func (r *CardRepo) Delete(ctx context.Context, q CardQuery) (int, error) {
	p := q.predicate()
	if p == nil {
		return 0, errors.New("delete cards: refusing unfiltered delete")
	}
	query, args := builder().
		Delete(cardsTable).
		Where(p).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete cards: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete cards: rows affected: %w", err)
	}
	return int(n), nil
}

// predicate translates q into a WHERE clause, or nil when q has no filters.
func (q CardQuery) predicate() *entsql.Predicate {
	var preds []*entsql.Predicate
	if q.Language != "" {
		preds = append(preds, entsql.EQ("lang", q.Language))
	}
	if q.Difficulty != "" {
		preds = append(preds, entsql.EQ("difficulty", string(q.Difficulty)))
	}
	if q.Source != "" {
		preds = append(preds, entsql.EQ("source", string(q.Source)))
	}
	if q.Status != "" {
		preds = append(preds, entsql.EQ("status", string(q.Status)))
	}
	if !q.DueBy.IsZero() {
		preds = append(preds, entsql.Or(
			entsql.IsNull("next_review"),
			entsql.LTE("next_review", toMillis(q.DueBy)),
			entsql.EQ("status", string(srs.StatusNew)),
		))
	}
	if !q.ReviewBefore.IsZero() {
		preds = append(preds,
			entsql.NotNull("next_review"),
			entsql.LTE("next_review", toMillis(q.ReviewBefore)),
		)
	}
	if !q.CreatedAfter.IsZero() {
		preds = append(preds, entsql.GTE("created_at", toMillis(q.CreatedAfter)))
	}
	if !q.CreatedBefore.IsZero() {
		preds = append(preds, entsql.LT("created_at", toMillis(q.CreatedBefore)))
	}

	switch len(preds) {
	case 0:
		return nil
	case 1:
		return preds[0]
	default:
		return entsql.And(preds...)
	}
}
