package session

import "github.com/999aryaDharma/HackStack/internal/card"

// LowWaterMark is the remaining-card count at or below which the queue
// asks for a refill.
const LowWaterMark = 3

// Queue is an ordered list of cards with a read cursor. It is not safe
// for concurrent use.
type Queue struct {
	cards  []card.Card
	cursor int
}

// NewQueue returns a queue holding cards.
func NewQueue(cards []card.Card) *Queue {
	q := &Queue{}
	q.SetQueue(cards)
	return q
}

// SetQueue replaces the contents and rewinds the cursor.
func (q *Queue) SetQueue(cards []card.Card) {
	q.cards = append([]card.Card(nil), cards...)
	q.cursor = 0
}

// Consume returns the card under the cursor and advances it. It returns
// false when the queue is exhausted.
func (q *Queue) Consume() (card.Card, bool) {
	if q.cursor >= len(q.cards) {
		return card.Card{}, false
	}
	c := q.cards[q.cursor]
	q.cursor++
	return c, true
}

// NeedsRefill reports whether the unconsumed tail has shrunk to the low
// water mark.
func (q *Queue) NeedsRefill() bool {
	return q.Remaining() <= LowWaterMark
}

// AddCards appends cards without moving the cursor.
func (q *Queue) AddCards(cards []card.Card) {
	q.cards = append(q.cards, cards...)
}

// Remaining is the number of unconsumed cards.
func (q *Queue) Remaining() int { return len(q.cards) - q.cursor }

// Len is the total number of cards, consumed or not.
func (q *Queue) Len() int { return len(q.cards) }

// Cursor is the index of the next card Consume will return.
func (q *Queue) Cursor() int { return q.cursor }
