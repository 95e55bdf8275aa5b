package srs

// InitialInterval is the interval in days assigned to a freshly created card.
const InitialInterval = 1

// SecondInterval is the interval after the second consecutive success.
const SecondInterval = 6

// InitialEaseFactor is the ease every card starts with.
const InitialEaseFactor = 2.5

// MinEaseFactor is the hard floor for the ease factor.
const MinEaseFactor = 1.3

// PassingQuality is the lowest quality counted as a successful recall.
const PassingQuality Quality = 3

// MasteryRepetitionCap is the repetition count at which the repetition
// share of the mastery score saturates.
const MasteryRepetitionCap = 10

// Mastery score thresholds for lifecycle status.
const (
	ReviewThreshold   = 50
	MasteredThreshold = 80
)
