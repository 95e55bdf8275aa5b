// Package play is the terminal front end of a session: flip a card, then
// swipe right if you knew it or left if you did not.
package play

import (
	"context"
	"fmt"
	"os"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/999aryaDharma/HackStack/internal/card"
	"github.com/999aryaDharma/HackStack/internal/clock"
	"github.com/999aryaDharma/HackStack/internal/session"
	"github.com/999aryaDharma/HackStack/internal/srs"
	"github.com/999aryaDharma/HackStack/internal/ui/theme"
)

type phase int

const (
	phaseLoading  phase = iota // Filling the queue
	phaseQuestion              // Card front showing
	phaseAnswer                // Card flipped
	phaseFeedback              // Result of the last swipe
	phaseWaiting               // Queue dry, prefetch in flight
	phaseSummary               // Session over
	phaseError
)

// Model is the Bubble Tea model for one session. Session calls run inside
// commands one at a time; the model never issues a second while one is
// outstanding.
type Model struct {
	ctx   context.Context
	sess  *session.Session
	clock clock.Clock

	phase   phase
	busy    bool
	current card.Card
	shownAt time.Time
	elapsed time.Duration // time to flip, or zero if swiped blind

	last    answeredMsg
	summary session.Summary
	err     error

	spinner spinner.Model

	width  int
	height int
}

// New creates a Model for sess. Start is called from Init.
func New(ctx context.Context, sess *session.Session, clk clock.Clock) Model {
	if clk == nil {
		clk = clock.System{}
	}
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.XP))
	return Model{ctx: ctx, sess: sess, clock: clk, phase: phaseLoading, busy: true, spinner: sp}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.startCmd(), m.spinner.Tick)
}

func (m Model) startCmd() tea.Cmd {
	return func() tea.Msg {
		return startedMsg{Err: m.sess.Start(m.ctx)}
	}
}

func (m Model) nextCmd() tea.Cmd {
	return func() tea.Msg {
		c, ok := m.sess.Next(m.ctx)
		return nextCardMsg{Card: c, OK: ok, Refilling: m.sess.Refilling()}
	}
}

func (m Model) waitCmd() tea.Cmd {
	return func() tea.Msg {
		return refilledMsg{Err: m.sess.WaitPrefetch(m.ctx)}
	}
}

func (m Model) answerCmd(c card.Card, outcome srs.Outcome) tea.Cmd {
	return func() tea.Msg {
		res, err := m.sess.Answer(m.ctx, c, outcome)
		return answeredMsg{Result: res, Correct: outcome.Correct, Err: err}
	}
}

func (m Model) endCmd() tea.Cmd {
	return func() tea.Msg {
		return endedMsg{Summary: m.sess.End(m.ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case startedMsg:
		if msg.Err != nil {
			return m.fail(msg.Err)
		}
		return m, m.nextCmd()

	case nextCardMsg:
		return m.handleNext(msg)

	case refilledMsg:
		if msg.Err != nil {
			return m.fail(msg.Err)
		}
		return m, m.nextCmd()

	case answeredMsg:
		if msg.Err != nil {
			return m.fail(msg.Err)
		}
		m.last = msg
		m.phase = phaseFeedback
		m.busy = false
		return m, nil

	case endedMsg:
		m.summary = msg.Summary
		m.phase = phaseSummary
		m.busy = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m Model) handleNext(msg nextCardMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.OK:
		m.current = msg.Card
		m.shownAt = m.clock.Now()
		m.elapsed = 0
		m.phase = phaseQuestion
		m.busy = false
		return m, nil
	case msg.Refilling:
		m.phase = phaseWaiting
		return m, m.waitCmd()
	default:
		m.phase = phaseSummary
		return m, m.endCmd()
	}
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if m.phase == phaseSummary || m.phase == phaseError {
		if key == "q" || key == "esc" || key == "enter" {
			return m, tea.Quit
		}
		return m, nil
	}
	if m.busy {
		return m, nil
	}

	switch key {
	case "q", "esc":
		m.busy = true
		return m, m.endCmd()
	}

	switch m.phase {
	case phaseQuestion:
		switch key {
		case "space", " ", "enter":
			m.elapsed = m.clock.Now().Sub(m.shownAt)
			m.phase = phaseAnswer
			return m, nil
		case "right", "l", "y":
			return m.swipe(true)
		case "left", "h", "n":
			return m.swipe(false)
		}
	case phaseAnswer:
		switch key {
		case "right", "l", "y":
			return m.swipe(true)
		case "left", "h", "n":
			return m.swipe(false)
		}
	case phaseFeedback:
		m.busy = true
		return m, m.nextCmd()
	}
	return m, nil
}

// swipe records the answer. The latency is the time to flip when the card
// was flipped, otherwise the time to swipe.
func (m Model) swipe(correct bool) (tea.Model, tea.Cmd) {
	latency := m.elapsed
	if m.phase == phaseQuestion {
		latency = m.clock.Now().Sub(m.shownAt)
	}
	m.busy = true
	return m, m.answerCmd(m.current, srs.Outcome{Correct: correct, ResponseTime: latency})
}

func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	m.err = err
	m.phase = phaseError
	m.busy = false
	return m, nil
}

// Run starts the Bubble Tea program and returns the session summary.
func Run(ctx context.Context, sess *session.Session) (session.Summary, error) {
	p := tea.NewProgram(New(ctx, sess, clock.System{}))
	final, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return session.Summary{}, err
	}
	m, _ := final.(Model)
	if m.err != nil {
		return m.summary, m.err
	}
	return m.summary, nil
}
