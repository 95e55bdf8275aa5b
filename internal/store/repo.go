package store

import (
	"context"
	"errors"
	"time"

	"github.com/999aryaDharma/HackStack/internal/card"
	"github.com/999aryaDharma/HackStack/internal/srs"
)

// ErrNotFound is returned when a card id does not exist.
var ErrNotFound = errors.New("card not found")

// CardQuery filters card records. Zero-valued fields are ignored; set
// fields are combined with AND.
type CardQuery struct {
	Language   string
	Difficulty card.Difficulty
	Source     card.Source
	Status     srs.Status

	// DueBy selects cards that are unscheduled, in status new, or whose
	// next review is at or before DueBy.
	DueBy time.Time

	// ReviewBefore selects scheduled cards whose next review is at or
	// before ReviewBefore.
	ReviewBefore time.Time

	CreatedAfter  time.Time // created_at >= CreatedAfter
	CreatedBefore time.Time // created_at < CreatedBefore

	// PreferDifficulty orders cards of this tier first without excluding
	// the others.
	PreferDifficulty card.Difficulty

	Limit int // max results (0 = unlimited)
}

// CardStore is the full set of card operations the domain packages use.
type CardStore interface {
	Get(ctx context.Context, id string) (card.Record, error)
	Insert(ctx context.Context, rec card.Record) error
	InsertIfAbsent(ctx context.Context, rec card.Record) (bool, error)
	Update(ctx context.Context, rec card.Record) error
	Query(ctx context.Context, q CardQuery) ([]card.Record, error)
	Count(ctx context.Context, q CardQuery) (int, error)
	Delete(ctx context.Context, q CardQuery) (int, error)
}

// QueryOpts configures LLM event queries.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // exact purpose match
	From    time.Time
	To      time.Time
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage for one purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int
}

// EventRepo provides append access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}
