// Package tui provides an interactive terminal front-end for asking
// questions against the knowledge base. It follows the Elm
// architecture via Bubble Tea: a single model, messages for completed
// queries, and a view composed with lipgloss.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/campuskit/courseqa/internal/core/domain"
	"github.com/campuskit/courseqa/internal/core/ports/driving"
)

// askTimeout bounds a single question end to end, embedding included.
const askTimeout = 3 * time.Minute

// answerMsg carries a completed query back to the model.
type answerMsg struct {
	question string
	answer   domain.Answer
	err      error
}

// Model is the Bubble Tea model for the ask loop.
type Model struct {
	query    driving.QueryService
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   Styles

	status  string
	asking  bool
	ready   bool
	history []answerMsg
}

// New creates a new TUI model backed by the query service.
func New(query driving.QueryService) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		query:    query,
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		styles:   NewStyles(DefaultTheme()),
		status:   "Ready. Type a question.",
	}
}

// Init initialises the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, frameH := m.styles.AnswerBox.GetFrameSize()
		_, inputH := m.styles.InputBox.GetFrameSize()
		reserved := 2 + inputH + 1 + 1 // title, input frame, input line, status
		vh := msg.Height - reserved - frameH
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width-2)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderHistory())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.String() == "esc" {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.asking {
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				return m, nil
			}
			m.asking = true
			m.status = "Thinking..."
			m.input.SetValue("")
			return m, tea.Batch(m.spinner.Tick, askCmd(m.query, q))
		}

	case answerMsg:
		m.asking = false
		if msg.err != nil {
			m.status = m.styles.ErrorText.Render("Error: " + msg.err.Error())
		} else {
			m.status = fmt.Sprintf("Answered %q", msg.question)
			m.history = append(m.history, msg)
		}
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if m.asking {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View renders the layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	title := m.styles.Title.Render("Course Q&A")
	body := m.styles.AnswerBox.Render(m.viewport.View())
	input := m.styles.InputBox.Render(m.input.View())
	status := m.styles.Status.Render(m.status)
	if m.asking {
		status = m.spinner.View() + " " + status
	}
	return title + "\n" + body + "\n" + input + "\n" + status
}

func (m Model) renderHistory() string {
	if len(m.history) == 0 {
		return "No questions asked yet."
	}
	var b strings.Builder
	for i, h := range m.history {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.styles.Title.Render("Q: " + h.question))
		b.WriteString("\n\n")
		b.WriteString(h.answer.Text)
		if len(h.answer.Citations) > 0 {
			b.WriteString("\n\nSources:\n")
			for _, c := range h.answer.Citations {
				b.WriteString("  " + m.styles.Link.Render(c.URL))
				if c.Text != "" {
					b.WriteString(" " + m.styles.Status.Render(c.Text))
				}
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

// askCmd runs the query off the UI loop.
func askCmd(query driving.QueryService, question string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
		defer cancel()
		answer, err := query.Ask(ctx, question, "")
		return answerMsg{question: question, answer: answer, err: err}
	}
}

// Run starts the TUI program and blocks until it exits.
func Run(query driving.QueryService) error {
	p := tea.NewProgram(New(query), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
