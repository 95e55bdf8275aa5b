package session

import (
	"testing"

	"github.com/999aryaDharma/HackStack/internal/card"
)

func TestXPFor(t *testing.T) {
	tests := []struct {
		diff  card.Difficulty
		combo int
		want  int
	}{
		{card.DifficultyEasy, 1, 10},
		{card.DifficultyMedium, 1, 20},
		{card.DifficultyHard, 1, 35},
		{card.DifficultyGod, 1, 50},
		{card.DifficultyEasy, 2, 12},
		{card.DifficultyEasy, 5, 18},
		{card.DifficultyEasy, 11, 30},
		{card.DifficultyEasy, 40, 30},
		{card.DifficultyGod, 0, 50},
	}
	for _, tt := range tests {
		if got := XPFor(tt.diff, tt.combo); got != tt.want {
			t.Errorf("XPFor(%s, %d) = %d, want %d", tt.diff, tt.combo, got, tt.want)
		}
	}
}

func TestStats_Record(t *testing.T) {
	var s Stats
	s.Record(card.DifficultyEasy, true)
	s.Record(card.DifficultyEasy, true)
	s.Record(card.DifficultyEasy, true)
	if xp := s.Record(card.DifficultyEasy, false); xp != 0 {
		t.Errorf("wrong answer earned %d XP", xp)
	}
	s.Record(card.DifficultyHard, true)

	if s.Answered != 5 || s.Correct != 4 || s.Wrong != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if s.Combo != 1 || s.BestCombo != 3 {
		t.Errorf("expected combo 1 best 3, got %d %d", s.Combo, s.BestCombo)
	}
	// 10 + 12 + 14 + 35
	if s.XP != 71 {
		t.Errorf("expected 71 XP, got %d", s.XP)
	}
	if s.Accuracy() != 0.8 {
		t.Errorf("expected accuracy 0.8, got %v", s.Accuracy())
	}
}

func TestStats_AccuracyBeforeAnswers(t *testing.T) {
	var s Stats
	if s.Accuracy() != 0 {
		t.Errorf("expected 0, got %v", s.Accuracy())
	}
}
