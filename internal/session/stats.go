package session

import (
	"time"

	"github.com/999aryaDharma/HackStack/internal/card"
)

// XP rewards.
const (
	ComboBonusStep = 2
	MaxComboBonus  = 20
)

var baseXP = map[card.Difficulty]int{
	card.DifficultyEasy:   10,
	card.DifficultyMedium: 20,
	card.DifficultyHard:   35,
	card.DifficultyGod:    50,
}

// XPFor returns the XP a correct answer earns at the given tier with combo
// consecutive correct answers, including this one.
func XPFor(d card.Difficulty, combo int) int {
	bonus := ComboBonusStep * (combo - 1)
	bonus = max(0, min(bonus, MaxComboBonus))
	return baseXP[d] + bonus
}

// Stats accumulates the player's results for one session.
type Stats struct {
	Answered  int
	Correct   int
	Wrong     int
	Combo     int
	BestCombo int
	XP        int
}

// Record adds one answer and returns the XP it earned.
func (s *Stats) Record(d card.Difficulty, correct bool) int {
	s.Answered++
	if !correct {
		s.Wrong++
		s.Combo = 0
		return 0
	}
	s.Correct++
	s.Combo++
	s.BestCombo = max(s.BestCombo, s.Combo)
	xp := XPFor(d, s.Combo)
	s.XP += xp
	return xp
}

// Accuracy is Correct / Answered, or 0 before the first answer.
func (s Stats) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered)
}

// Summary is shown when a session ends.
type Summary struct {
	SessionID string
	Loadout   card.Loadout
	Duration  time.Duration
	Stats     Stats
	Accuracy  float64
	Evicted   int
}
