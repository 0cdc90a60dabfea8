package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sqlpilot/internal/recovery"
)

// Step-2 field order.
const (
	resetNewPassword = iota
	resetConfirm
	resetA1
	resetA2
	resetA3
	resetFieldCount
)

// RecoveryPage renders the two-step password recovery flow. The actual state
// machine lives in internal/recovery; this page only collects input for the
// current state and displays the fetched questions as labels.
type RecoveryPage struct {
	machine recovery.Machine

	username textinput.Model
	answers  [resetFieldCount]textinput.Model
	focus    int

	loading bool
	message string

	width  int
	styles Styles
}

// NewRecoveryPage builds the recovery form in AwaitingUsername.
func NewRecoveryPage(styles Styles) RecoveryPage {
	user := textinput.New()
	user.Placeholder = "Enter your Username"
	user.CharLimit = 64
	user.Focus()

	placeholders := [resetFieldCount]string{
		"New Password",
		"Confirm New Password",
		"Answer 1",
		"Answer 2",
		"Answer 3",
	}

	var p RecoveryPage
	for i := range p.answers {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 128
		if i == resetNewPassword || i == resetConfirm {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		p.answers[i] = in
	}

	p.username = user
	p.machine = recovery.New()
	p.styles = styles
	return p
}

// Reset discards all recovery state and returns to AwaitingUsername.
func (p RecoveryPage) Reset() RecoveryPage {
	fresh := NewRecoveryPage(p.styles)
	fresh.width = p.width
	return fresh
}

// ChallengeReceived transitions to AwaitingAnswers with the fetched
// questions.
func (p RecoveryPage) ChallengeReceived(username string, questions [3]string) RecoveryPage {
	p.machine = p.machine.QuestionsFetched(username, questions)
	p.loading = false
	p.message = ""
	p.focus = 0
	p.username.Blur()
	for i := range p.answers {
		p.answers[i].Blur()
	}
	p.answers[resetNewPassword].Focus()
	return p
}

// Rejected keeps the current state and shows the failure detail. On a wrong
// answers rejection the fetched questions are preserved; only the message
// changes.
func (p RecoveryPage) Rejected(detail string) RecoveryPage {
	p.loading = false
	p.message = detail
	return p
}

// Update handles key input for whichever state is active.
func (p RecoveryPage) Update(msg tea.Msg) (RecoveryPage, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			if p.machine.Step() == recovery.AwaitingAnswers {
				return p.goBack(), nil
			}
			return p, func() tea.Msg { return GotoLoginMsg{} }
		case "ctrl+l":
			// Explicit cancel to login from either state.
			return p, func() tea.Msg { return GotoLoginMsg{} }
		case "enter":
			return p.submit()
		case "tab", "down":
			return p.moveFocus(1), nil
		case "shift+tab", "up":
			return p.moveFocus(-1), nil
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	if p.machine.Step() == recovery.AwaitingUsername {
		p.username, cmd = p.username.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		for i := range p.answers {
			p.answers[i], cmd = p.answers[i].Update(msg)
			cmds = append(cmds, cmd)
		}
	}
	return p, tea.Batch(cmds...)
}

// goBack discards the fetched questions and returns to step 1.
func (p RecoveryPage) goBack() RecoveryPage {
	p.machine = p.machine.Back()
	p.message = ""
	p.loading = false
	p.focus = 0
	for i := range p.answers {
		p.answers[i].SetValue("")
		p.answers[i].Blur()
	}
	p.username.Focus()
	return p
}

func (p RecoveryPage) moveFocus(delta int) RecoveryPage {
	if p.machine.Step() != recovery.AwaitingAnswers {
		return p
	}
	p.answers[p.focus].Blur()
	p.focus = (p.focus + delta + resetFieldCount) % resetFieldCount
	p.answers[p.focus].Focus()
	return p
}

func (p RecoveryPage) submit() (RecoveryPage, tea.Cmd) {
	if p.loading {
		return p, nil
	}

	if p.machine.Step() == recovery.AwaitingUsername {
		user := strings.TrimSpace(p.username.Value())
		if user == "" {
			p.message = "Username is required."
			return p, nil
		}
		p.loading = true
		p.message = ""
		return p, func() tea.Msg { return RecoveryLookupMsg{Username: user} }
	}

	answers := [3]string{
		strings.TrimSpace(p.answers[resetA1].Value()),
		strings.TrimSpace(p.answers[resetA2].Value()),
		strings.TrimSpace(p.answers[resetA3].Value()),
	}
	newPW := p.answers[resetNewPassword].Value()
	confirm := p.answers[resetConfirm].Value()

	if err := recovery.ValidateReset(newPW, confirm, answers); err != nil {
		p.message = err.Error()
		return p, nil
	}

	req, err := p.machine.ResetRequest(newPW, answers)
	if err != nil {
		p.message = err.Error()
		return p, nil
	}

	p.loading = true
	p.message = ""
	return p, func() tea.Msg { return RecoveryResetMsg{Request: req} }
}

// SetSize records the available width.
func (p *RecoveryPage) SetSize(w, _ int) {
	p.width = w
	inner := w - 10
	if inner > 56 {
		inner = 56
	}
	if inner > 0 {
		p.username.Width = inner
		for i := range p.answers {
			p.answers[i].Width = inner
		}
	}
}

// View renders the active step.
func (p RecoveryPage) View() string {
	s := p.styles

	var body string
	var help string
	if questions, ok := p.machine.Questions(); ok {
		body = lipgloss.JoinVertical(lipgloss.Left,
			s.Title.Render("Reset Password (Step 2 of 2)"),
			s.Label.Render("New Password"),
			p.answers[resetNewPassword].View(),
			p.answers[resetConfirm].View(),
			"",
			s.Label.Render("Provide Recovery Answers"),
			s.Muted.Render("Please answer the questions below exactly as you saved them:"),
			s.Bold.Render(questions[0]),
			p.answers[resetA1].View(),
			s.Bold.Render(questions[1]),
			p.answers[resetA2].View(),
			s.Bold.Render(questions[2]),
			p.answers[resetA3].View(),
		)
		help = "enter: reset password • esc: go back to step 1 • ctrl+l: back to login"
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left,
			s.Title.Render("Reset Password (Step 1 of 2)"),
			s.Label.Render("Confirm Username"),
			p.username.View(),
		)
		help = "enter: verify questions • esc: back to login"
	}

	status := ""
	switch {
	case p.loading && p.machine.Step() == recovery.AwaitingUsername:
		status = s.Muted.Render("Searching...")
	case p.loading:
		status = s.Muted.Render("Resetting...")
	case p.message != "":
		status = s.Error.Render(p.message)
	}

	card := s.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, body, "", status))
	return s.Content.Render(lipgloss.JoinVertical(lipgloss.Left, card, s.Footer.Render(help)))
}
