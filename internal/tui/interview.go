// Package tui is the interactive terminal client for the interview
// engine: one question on screen, answer by typing, skip or shuffle
// with a keystroke.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/google/uuid"

	"github.com/abhisek/memora/internal/catalog"
	"github.com/abhisek/memora/internal/entitlement"
	"github.com/abhisek/memora/internal/intake"
	"github.com/abhisek/memora/internal/interview"
	"github.com/abhisek/memora/internal/router"
	"github.com/abhisek/memora/internal/session"
)

type mode int

const (
	modeIdle mode = iota
	modeQuestion
	modeTyping
	modeBusy
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	packStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	questionStyle = lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.RoundedBorder())
	followupStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("114"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type questionMsg struct {
	q   *interview.NextQuestion
	err error
}

type answeredMsg struct {
	followup string
	err      error
}

type skippedMsg struct {
	err error
}

// Model is the interview TUI state.
type Model struct {
	svc      *interview.Service
	pipeline *intake.Pipeline
	userID   int64

	mode     mode
	question *interview.NextQuestion
	input    textarea.Model
	followup string
	notice   string
	err      error
	width    int
	height   int
}

// New builds the interview model. The pipeline may be nil; answers are
// then recorded without the cleaning and classification steps.
func New(svc *interview.Service, pipeline *intake.Pipeline, userID int64) Model {
	ta := textarea.New()
	ta.Placeholder = "Расскажите, что помните..."
	ta.CharLimit = 0

	return Model{
		svc:      svc,
		pipeline: pipeline,
		userID:   userID,
		input:    ta,
	}
}

func (m Model) Init() tea.Cmd {
	return m.fetchQuestion("")
}

func (m Model) fetchQuestion(pack catalog.Pack) tea.Cmd {
	svc, uid := m.svc, m.userID
	return func() tea.Msg {
		ctx := context.Background()
		q, err := svc.GetNextQuestion(ctx, uid, pack)
		if errors.Is(err, session.ErrAlreadyPending) {
			// Resume an interrupted session: pick the pending
			// question back up so it can be answered or skipped.
			if pending, perr := svc.Pending(ctx, uid); perr == nil && pending != nil {
				return questionMsg{q: pending}
			}
		}
		return questionMsg{q: q, err: err}
	}
}

func (m Model) shuffle() tea.Cmd {
	svc, uid := m.svc, m.userID
	return func() tea.Msg {
		q, err := svc.Shuffle(context.Background(), uid)
		return questionMsg{q: q, err: err}
	}
}

func (m Model) submitAnswer(text string) tea.Cmd {
	svc, pipeline, uid := m.svc, m.pipeline, m.userID
	questionID := m.question.QuestionID
	return func() tea.Msg {
		ctx := context.Background()
		if pipeline != nil {
			res, err := pipeline.IngestText(ctx, uid, questionID, text)
			if err != nil {
				return answeredMsg{err: err}
			}
			return answeredMsg{followup: res.Followup}
		}
		res, err := svc.Answer(ctx, uid, questionID, uuid.NewString())
		if err != nil {
			return answeredMsg{err: err}
		}
		return answeredMsg{followup: res.Followup}
	}
}

func (m Model) skip() tea.Cmd {
	svc, uid := m.svc, m.userID
	questionID := m.question.QuestionID
	return func() tea.Msg {
		return skippedMsg{err: svc.Skip(context.Background(), uid, questionID)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(min(m.width-6, 76))
		return m, nil

	case questionMsg:
		m.mode = modeQuestion
		m.err = nil
		m.notice = ""
		if msg.err != nil {
			m.question = nil
			m.err = msg.err
			m.mode = modeIdle
			return m, nil
		}
		m.question = msg.q
		m.followup = ""
		return m, nil

	case answeredMsg:
		if msg.err != nil {
			m.err = msg.err
			m.mode = modeQuestion
			return m, nil
		}
		m.question = nil
		m.followup = msg.followup
		m.notice = "Воспоминание записано."
		m.mode = modeIdle
		return m, nil

	case skippedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.mode = modeQuestion
			return m, nil
		}
		m.question = nil
		m.notice = "Вопрос пропущен."
		m.mode = modeIdle
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.mode == modeTyping {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.mode == modeTyping {
		switch msg.String() {
		case "esc":
			m.mode = modeQuestion
			m.input.Blur()
			return m, nil
		case "ctrl+d":
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.input.Reset()
			m.input.Blur()
			m.mode = modeBusy
			return m, m.submitAnswer(text)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "n", "enter":
		if m.mode == modeIdle {
			m.mode = modeBusy
			return m, m.fetchQuestion("")
		}
	case "a":
		if m.mode == modeQuestion && m.question != nil {
			m.mode = modeTyping
			return m, m.input.Focus()
		}
	case "s":
		if m.mode == modeQuestion && m.question != nil {
			m.mode = modeBusy
			return m, m.skip()
		}
	case "r":
		if m.mode == modeQuestion && m.question != nil {
			m.mode = modeBusy
			return m, m.shuffle()
		}
	}
	return m, nil
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.SetContent(m.render())
	return v
}

func (m Model) render() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("memora") + "\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(describeError(m.err)) + "\n\n")
	case m.notice != "":
		b.WriteString(m.notice + "\n")
		if m.followup != "" {
			b.WriteString(followupStyle.Render("Ещё один вопрос: "+m.followup) + "\n")
		}
		b.WriteString("\n")
	}

	if m.question != nil {
		b.WriteString(packStyle.Render(catalog.DisplayName(m.question.Pack)) + "\n")
		b.WriteString(questionStyle.Render(m.question.Text) + "\n\n")
	}

	if m.mode == modeTyping {
		b.WriteString(m.input.View() + "\n")
		b.WriteString(hintStyle.Render("Ctrl+D отправить · Esc отмена") + "\n")
	} else if m.question != nil {
		b.WriteString(hintStyle.Render("a ответить · s пропустить · r другой вопрос · q выход") + "\n")
	} else {
		b.WriteString(hintStyle.Render("n следующий вопрос · q выход") + "\n")
	}

	return b.String()
}

// describeError renders the engine's sentinel errors in the user's
// language; anything else passes through.
func describeError(err error) string {
	switch {
	case errors.Is(err, entitlement.ErrUpgradeRequired):
		return "Бесплатный лимит исчерпан. Оформите подписку, чтобы продолжить."
	case errors.Is(err, router.ErrExhausted):
		return "Вопросы закончились. Расскажите что-нибудь в свободной форме!"
	case errors.Is(err, session.ErrAlreadyPending):
		return "Сначала ответьте на текущий вопрос или пропустите его."
	default:
		return fmt.Sprintf("Ошибка: %v", err)
	}
}

// Run starts the interview TUI.
func Run(svc *interview.Service, pipeline *intake.Pipeline, userID int64) error {
	p := tea.NewProgram(New(svc, pipeline, userID))
	_, err := p.Run()
	return err
}
