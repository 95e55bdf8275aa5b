package cardgen

import (
	"fmt"
	"strings"

	"github.com/999aryaDharma/HackStack/internal/card"
)

const systemPrompt = `You write flashcards for a fast swipe-to-answer coding trivia game.

Rules:
- Generate exactly the requested number of cards for the given language and difficulty.
- Mix card types: "snippet" (what does this code print or return), "quiz" (direct question) and "trivia" (facts about the language, its tooling or history).
- Snippets must be short (at most 12 lines) and runnable as written. Do not wrap code in markdown fences.
- Answers must be short and unambiguous: a value, a keyword or a few words.
- Every answer must be correct for the current stable release of the language.
- The explanation says why the answer is right in one or two sentences.
- The taunt is a light-hearted jab shown when the player misses. Keep it friendly.
- Give each card a short topic label and do not reuse any topic from the "avoid" list.
- Never produce two cards on the same topic in one batch.`

var difficultyGuide = map[card.Difficulty]string{
	card.DifficultyEasy:   "syntax and everyday standard library behaviour a beginner meets in the first month",
	card.DifficultyMedium: "common gotchas and idioms a working developer should know",
	card.DifficultyHard:   "edge cases of the type system, concurrency or memory model",
	card.DifficultyGod:    "obscure specification corners that surprise experts",
}

// buildUserMessage constructs the user message from a Request and Config limits.
func buildUserMessage(req Request, count int, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Language: %s\n", req.Language)
	fmt.Fprintf(&b, "Difficulty: %s (%s)\n", req.Difficulty, difficultyGuide[req.Difficulty])
	fmt.Fprintf(&b, "Number of cards: %d\n", count)
	if len(req.Topics) > 0 {
		fmt.Fprintf(&b, "Focus topics: %s\n", strings.Join(req.Topics, ", "))
	} else {
		b.WriteString("Focus topics: any\n")
	}

	b.WriteString("\nAvoid these recent topics:\n")
	b.WriteString(buildAvoidList(req.PreviousTopics, cfg.MaxPreviousTopics))

	return b.String()
}

// buildAvoidList formats previous topics for the prompt, respecting the max
// limit. Returns "None" if there are no previous topics.
func buildAvoidList(topics []string, limit int) string {
	if len(topics) == 0 {
		return "None"
	}

	// Keep only the most recent N topics.
	if limit > 0 && len(topics) > limit {
		topics = topics[len(topics)-limit:]
	}

	var b strings.Builder
	for i, t := range topics {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t)
	}
	return strings.TrimRight(b.String(), "\n")
}
