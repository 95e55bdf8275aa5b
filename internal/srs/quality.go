package srs

import "time"

// Quality is an SM-2 recall grade from 0 (blackout) to 5 (perfect).
type Quality int

const (
	QualityBlackout  Quality = 0
	QualityWrong     Quality = 1
	QualityFamiliar  Quality = 2
	QualityEffortful Quality = 3
	QualityHesitant  Quality = 4
	QualityPerfect   Quality = 5
)

// Clamp bounds q to [0, 5].
func (q Quality) Clamp() Quality {
	if q < QualityBlackout {
		return QualityBlackout
	}
	if q > QualityPerfect {
		return QualityPerfect
	}
	return q
}

// Latency thresholds mapping a correct swipe to a quality grade. Anything
// at or above SteadyAnswer, however slow, grades as QualityEffortful.
const (
	FastAnswer   = 3 * time.Second
	SteadyAnswer = 7 * time.Second
)

// Outcome is a single swipe result reported by gameplay.
type Outcome struct {
	Correct bool

	// ResponseTime is how long the player took. Zero or negative means the
	// latency was not measured.
	ResponseTime time.Duration
}

// Measured reports whether the outcome carries a latency sample.
func (o Outcome) Measured() bool {
	return o.ResponseTime > 0
}

// Classify maps a binary swipe plus latency onto the 0-5 quality scale.
// Wrong answers score 0 regardless of speed. Correct answers never score
// below 3, so qualities 1 and 2 are unreachable from a swipe.
func Classify(o Outcome) Quality {
	if !o.Correct {
		return QualityBlackout
	}
	if !o.Measured() {
		return QualityHesitant
	}
	switch {
	case o.ResponseTime < FastAnswer:
		return QualityPerfect
	case o.ResponseTime < SteadyAnswer:
		return QualityHesitant
	default:
		return QualityEffortful
	}
}
