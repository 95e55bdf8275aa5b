// Package srs implements the SM-2 review state machine used to schedule
// cards: interval and ease updates, mastery scoring and lifecycle status.
// Everything here is pure; callers supply the current time.
package srs

import (
	"math"
	"time"
)

// State is the scheduling triple carried by every card.
type State struct {
	Interval    int     `json:"interval"`
	EaseFactor  float64 `json:"ease_factor"`
	Repetitions int     `json:"repetitions"`
}

// Initial returns the state assigned to a card the moment it is created.
func Initial() State {
	return State{
		Interval:    InitialInterval,
		EaseFactor:  InitialEaseFactor,
		Repetitions: 0,
	}
}

// normalize clamps a possibly corrupt state into the valid domain.
func (s State) normalize() State {
	if s.Interval < 1 {
		s.Interval = 1
	}
	if s.Repetitions < 0 {
		s.Repetitions = 0
	}
	if s.EaseFactor < MinEaseFactor || math.IsNaN(s.EaseFactor) {
		s.EaseFactor = MinEaseFactor
	}
	return s
}

// Next computes the state after a review graded with quality q.
//
// A failed recall (q < 3) restarts the schedule. A success advances the
// repetition count: 1 day after the first success, 6 days after the second,
// then the previous interval multiplied by the new ease.
func Next(cur State, q Quality) State {
	cur = cur.normalize()
	q = q.Clamp()

	ease := nextEase(cur.EaseFactor, q)

	if q < PassingQuality {
		return State{
			Interval:    InitialInterval,
			EaseFactor:  ease,
			Repetitions: 0,
		}
	}

	reps := cur.Repetitions + 1
	var interval int
	switch reps {
	case 1:
		interval = InitialInterval
	case 2:
		interval = SecondInterval
	default:
		interval = int(math.Round(float64(cur.Interval) * ease))
	}
	if interval < 1 {
		interval = 1
	}

	return State{
		Interval:    interval,
		EaseFactor:  ease,
		Repetitions: reps,
	}
}

// nextEase applies the SM-2 ease update with the 1.3 floor.
func nextEase(ease float64, q Quality) float64 {
	miss := float64(5 - q)
	ease += 0.1 - miss*(0.08+miss*0.02)
	return math.Max(MinEaseFactor, ease)
}

// NextReview returns the moment a card with the given interval becomes due.
func NextReview(now time.Time, intervalDays int) time.Time {
	if intervalDays < 1 {
		intervalDays = 1
	}
	return now.Add(time.Duration(intervalDays) * 24 * time.Hour)
}

// MasteryScore is a 0-100 display metric: ease contributes 40%, the
// repetition count (capped at 10) contributes 60%.
func MasteryScore(s State) int {
	s = s.normalize()
	easeShare := clamp01((s.EaseFactor - MinEaseFactor) / (InitialEaseFactor - MinEaseFactor))
	repShare := clamp01(float64(s.Repetitions) / MasteryRepetitionCap)
	return int(math.Round(100 * (0.4*easeShare + 0.6*repShare)))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
