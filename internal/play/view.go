package play

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/999aryaDharma/HackStack/internal/card"
	"github.com/999aryaDharma/HackStack/internal/ui/layout"
	"github.com/999aryaDharma/HackStack/internal/ui/theme"
)

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	st := m.sess.Stats()
	header := layout.RenderHeader(m.title(), st.XP, st.Combo, m.width)
	footer := layout.RenderFooter(m.keyHints(), m.width)
	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	v.SetContent(layout.RenderFrame(header, m.content(m.width, contentHeight), footer, m.width, m.height))
	return v
}

func (m Model) title() string {
	lo := m.sess.Loadout
	return fmt.Sprintf("%s / %s", lo.Language, lo.Difficulty)
}

func (m Model) keyHints() []layout.KeyHint {
	switch m.phase {
	case phaseQuestion:
		return []layout.KeyHint{
			{Key: "Space", Description: "Flip"},
			{Key: "→", Description: "Knew it"},
			{Key: "←", Description: "Missed it"},
			{Key: "Q", Description: "End"},
		}
	case phaseAnswer:
		return []layout.KeyHint{
			{Key: "→", Description: "Knew it"},
			{Key: "←", Description: "Missed it"},
		}
	case phaseFeedback:
		return []layout.KeyHint{{Key: "any key", Description: "Next card"}}
	case phaseSummary, phaseError:
		return []layout.KeyHint{{Key: "Q", Description: "Quit"}}
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

func (m Model) content(width, height int) string {
	var body string
	switch m.phase {
	case phaseLoading:
		body = m.spinner.View() + theme.Hint.Render(" Shuffling the deck...")
	case phaseWaiting:
		body = m.spinner.View() + theme.Hint.Render(" Fetching more cards...")
	case phaseQuestion:
		body = renderCard(m.current, false, width)
	case phaseAnswer:
		body = renderCard(m.current, true, width)
	case phaseFeedback:
		body = m.renderFeedback(width)
	case phaseSummary:
		body = m.renderSummary()
	case phaseError:
		body = theme.Incorrect.Render("Something went wrong") + "\n\n" + theme.Body.Render(m.err.Error())
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func cardWidth(width int) int {
	return min(max(width-8, 20), 72)
}

func renderCard(c card.Card, flipped bool, width int) string {
	w := cardWidth(width)
	var b strings.Builder

	b.WriteString(theme.Difficulty(c.Difficulty))
	b.WriteString("  ")
	b.WriteString(theme.Subtitle.Render(string(c.Type)))
	if c.Topic != "" {
		b.WriteString(theme.Subtitle.Render(" · " + c.Topic))
	}
	b.WriteString("\n\n")

	if c.Type == card.TypeSnippet {
		b.WriteString(theme.Code.Render(c.Question))
	} else {
		b.WriteString(theme.Body.Width(w - 6).Render(c.Question))
	}

	if flipped {
		b.WriteString("\n\n")
		b.WriteString(theme.Title.Render(c.Answer))
		if c.Explanation != "" {
			b.WriteString("\n\n")
			b.WriteString(theme.Hint.Width(w - 6).Render(c.Explanation))
		}
	}

	return theme.Card.Width(w).Render(b.String())
}

func (m Model) renderFeedback(width int) string {
	w := cardWidth(width)
	res := m.last.Result
	var b strings.Builder

	if m.last.Correct {
		b.WriteString(theme.Correct.Render("Nailed it"))
		b.WriteString("  ")
		b.WriteString(theme.XP.Render(fmt.Sprintf("+%d XP", res.XP)))
		if res.Combo > 1 {
			b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  combo x%d", res.Combo)))
		}
	} else {
		b.WriteString(theme.Incorrect.Render("Missed"))
		if m.current.Taunt != "" {
			b.WriteString("\n\n")
			b.WriteString(theme.Hint.Width(w - 6).Render(m.current.Taunt))
		}
		b.WriteString("\n\n")
		b.WriteString(theme.Body.Render("Answer: ") + theme.Title.Render(m.current.Answer))
	}

	if rec := res.Record; rec.ID != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("next review in %s · mastery %d",
			humanizeDays(rec.Interval), rec.Mastery)))
	}
	return theme.Card.Width(w).Render(b.String())
}

func (m Model) renderSummary() string {
	s := m.summary
	st := s.Stats
	lines := []string{
		theme.Title.Render("Session complete"),
		"",
		fmt.Sprintf("Cards answered  %d", st.Answered),
		fmt.Sprintf("Correct         %d (%d%%)", st.Correct, int(s.Accuracy*100)),
		fmt.Sprintf("Best combo      %d", st.BestCombo),
		theme.XP.Render(fmt.Sprintf("XP earned       %d", st.XP)),
		theme.Subtitle.Render(fmt.Sprintf("Time            %s", s.Duration.Round(time.Second))),
	}
	return theme.Card.Render(strings.Join(lines, "\n"))
}

func humanizeDays(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
