// Package theme holds the terminal palette and shared lipgloss styles.
package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/999aryaDharma/HackStack/internal/card"
)

// Color palette. Terminal-green on slate.
var (
	Primary   = lipgloss.Color("#22D3EE") // Cyan
	Secondary = lipgloss.Color("#A3E635") // Lime
	Accent    = lipgloss.Color("#F59E0B") // Amber, used for XP
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0B1120") // Near black
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Code = lipgloss.NewStyle().
		Foreground(Secondary).
		Background(BgDark).
		Padding(0, 1)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	XP = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
)

var difficultyColors = map[card.Difficulty]string{
	card.DifficultyEasy:   "#22C55E",
	card.DifficultyMedium: "#EAB308",
	card.DifficultyHard:   "#F97316",
	card.DifficultyGod:    "#D946EF",
}

// Difficulty renders a difficulty badge.
func Difficulty(d card.Difficulty) string {
	c, ok := difficultyColors[d]
	if !ok {
		c = "#94A3B8"
	}
	return lipgloss.NewStyle().
		Foreground(BgDark).
		Background(lipgloss.Color(c)).
		Bold(true).
		Padding(0, 1).
		Render(string(d))
}
