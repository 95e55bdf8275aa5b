package srs

// Status is the lifecycle stage of a card.
type Status string

const (
	StatusNew      Status = "new"
	StatusLearning Status = "learning"
	StatusReview   Status = "review"
	StatusMastered Status = "mastered"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusLearning, StatusReview, StatusMastered:
		return true
	}
	return false
}

// LifecycleStatus derives the status from repetitions and mastery score.
func LifecycleStatus(s State) Status {
	if s.Repetitions <= 0 {
		return StatusNew
	}
	mastery := MasteryScore(s)
	switch {
	case mastery < ReviewThreshold:
		return StatusLearning
	case mastery < MasteredThreshold:
		return StatusReview
	default:
		return StatusMastered
	}
}
