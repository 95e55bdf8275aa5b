// Package card defines the flashcard model shared by the store, the
// generator and the gameplay loop, plus the validator that turns raw
// generator output into cards.
package card

import (
	"slices"
	"strings"
	"time"

	"github.com/999aryaDharma/HackStack/internal/srs"
)

// Type is the presentation style of a card.
type Type string

const (
	TypeSnippet Type = "snippet"
	TypeQuiz    Type = "quiz"
	TypeTrivia  Type = "trivia"
)

// Difficulty is the tier a card was generated for.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyGod    Difficulty = "god"
)

// Difficulties lists every tier from easiest to hardest.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyGod}

// Valid reports whether d is a known tier.
func (d Difficulty) Valid() bool {
	return slices.Contains(Difficulties, d)
}

// Source records how a card entered the store.
type Source string

const (
	SourceGenerated    Source = "generated"
	SourceBundled      Source = "bundled"
	SourceSessionAdded Source = "session-added"
)

// SupportedLanguages are the canonical language tags cards may carry.
var SupportedLanguages = []string{
	"JS", "TS", "Python", "Go", "Rust", "Java", "C++", "C#", "SQL", "Bash",
}

var languageAliases = map[string]string{
	"js":         "JS",
	"javascript": "JS",
	"ts":         "TS",
	"typescript": "TS",
	"python":     "Python",
	"py":         "Python",
	"go":         "Go",
	"golang":     "Go",
	"rust":       "Rust",
	"rs":         "Rust",
	"java":       "Java",
	"c++":        "C++",
	"cpp":        "C++",
	"c#":         "C#",
	"csharp":     "C#",
	"cs":         "C#",
	"sql":        "SQL",
	"bash":       "Bash",
	"sh":         "Bash",
	"shell":      "Bash",
}

// ParseLanguage maps a user or model supplied language name onto its
// canonical tag. It returns false for unsupported languages.
func ParseLanguage(s string) (string, bool) {
	lang, ok := languageAliases[strings.ToLower(strings.TrimSpace(s))]
	return lang, ok
}

// Card is the content of a flashcard.
type Card struct {
	ID          string
	Type        Type
	Language    string
	Difficulty  Difficulty
	Question    string
	Answer      string
	Explanation string
	Taunt       string
	Topic       string
	Source      Source
	Model       string
	CreatedAt   time.Time
}

// Record is a card together with its scheduling state and counters.
type Record struct {
	Card
	srs.State

	Status  srs.Status
	Mastery int

	// NextReview is the zero time when the card has never been scheduled,
	// which makes it due immediately.
	NextReview time.Time

	TimesSeen    int
	TimesCorrect int
	TimesWrong   int

	// AvgResponseMs is the mean of LatencySamples measured answers.
	AvgResponseMs  int
	LatencySamples int
}

// Scheduled reports whether the record carries a next review time.
func (r Record) Scheduled() bool {
	return !r.NextReview.IsZero()
}

// NewRecord wraps a freshly created card with the initial review state.
func NewRecord(c Card) Record {
	st := srs.Initial()
	return Record{
		Card:    c,
		State:   st,
		Status:  srs.StatusNew,
		Mastery: srs.MasteryScore(st),
	}
}

// Loadout is the player's chosen session configuration.
type Loadout struct {
	Language      string
	Topics        []string
	Difficulty    Difficulty
	SessionLength int
}

// Key identifies loadouts that would request the same cards. Topic order
// and case do not matter.
func (l Loadout) Key() string {
	topics := make([]string, 0, len(l.Topics))
	for _, t := range l.Topics {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			topics = append(topics, t)
		}
	}
	slices.Sort(topics)
	topics = slices.Compact(topics)
	return l.Language + "|" + string(l.Difficulty) + "|" + strings.Join(topics, ",")
}
