package play

import (
	"github.com/999aryaDharma/HackStack/internal/card"
	"github.com/999aryaDharma/HackStack/internal/session"
)

// startedMsg reports that the session queue was filled.
type startedMsg struct {
	Err error
}

// nextCardMsg carries the next card, or OK=false when the queue is dry.
type nextCardMsg struct {
	Card card.Card
	OK   bool

	// Refilling is true when a prefetch is still in flight.
	Refilling bool
}

// refilledMsg is sent when an awaited prefetch has landed.
type refilledMsg struct {
	Err error
}

// answeredMsg reports a persisted answer.
type answeredMsg struct {
	Result  session.AnswerResult
	Correct bool
	Err     error
}

// endedMsg carries the summary of a finished session.
type endedMsg struct {
	Summary session.Summary
}
