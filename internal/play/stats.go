package play

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/999aryaDharma/HackStack/internal/card"
	"github.com/999aryaDharma/HackStack/internal/review"
	"github.com/999aryaDharma/HackStack/internal/ui/components"
	"github.com/999aryaDharma/HackStack/internal/ui/theme"
)

// RenderStats renders the review dashboard printed by `hackstack stats`.
func RenderStats(st review.Stats) string {
	row := func(label string, n int, style lipgloss.Style) string {
		return fmt.Sprintf("%-12s %s", label, style.Render(fmt.Sprintf("%5d", n)))
	}
	lines := []string{
		theme.Title.Render("Review deck"),
		"",
		row("Due today", st.DueToday, theme.XP),
		row("Overdue", st.Overdue, theme.Incorrect),
		row("Learning", st.Learning, theme.Body),
		row("Mastered", st.Mastered, theme.Correct),
	}
	return theme.Card.Render(strings.Join(lines, "\n"))
}

// RenderDueList renders one line per record with its mastery bar and
// when it is due relative to now.
func RenderDueList(recs []card.Record, now time.Time, width int) string {
	if len(recs) == 0 {
		return theme.Hint.Render("Nothing due. Go play.")
	}

	var b strings.Builder
	for _, rec := range recs {
		q := strings.Join(strings.Fields(rec.Question), " ")
		if r := []rune(q); len(r) > 48 {
			q = string(r[:47]) + "…"
		}
		fmt.Fprintf(&b, "%-6s %-8s %-9s %-50s ", rec.Language, rec.Difficulty, rec.Status, q)
		b.WriteString(components.NewProgressBar("", float64(rec.Mastery)/100, true, max(width-90, 16)).View())
		b.WriteString("  ")
		b.WriteString(theme.Subtitle.Render(dueLabel(rec, now)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func dueLabel(rec card.Record, now time.Time) string {
	if !rec.Scheduled() {
		return "new"
	}
	d := rec.NextReview.Sub(now)
	switch {
	case d <= -24*time.Hour:
		return fmt.Sprintf("overdue %dd", int(-d/(24*time.Hour)))
	case d <= 0:
		return "due now"
	default:
		return "due in " + d.Round(time.Minute).String()
	}
}
