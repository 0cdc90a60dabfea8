package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sqlpilot/internal/api"
)

// Field order inside RegisterPage.inputs.
const (
	regUsername = iota
	regPassword
	regConfirm
	regFullName
	regQ1
	regA1
	regQ2
	regA2
	regQ3
	regA3
	regFieldCount
)

// RegisterPage collects the registration payload: account details plus
// exactly three recovery question/answer pairs. All checks are local and
// reject without a network call; only a clean form is submitted.
type RegisterPage struct {
	inputs [regFieldCount]textinput.Model
	focus  int

	loading bool
	message string

	width  int
	styles Styles
}

// NewRegisterPage builds the registration form.
func NewRegisterPage(styles Styles) RegisterPage {
	placeholders := [regFieldCount]string{
		"Username (Required)",
		"Password (Required)",
		"Confirm Password (Required)",
		"Full Name (Optional)",
		"Question 1 (e.g., Pet's name)",
		"Answer 1",
		"Question 2 (e.g., Birth city)",
		"Answer 2",
		"Question 3 (e.g., Maiden name)",
		"Answer 3",
	}

	var p RegisterPage
	for i := range p.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 128
		if i == regPassword || i == regConfirm {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		p.inputs[i] = in
	}
	p.inputs[regUsername].Focus()
	p.styles = styles
	return p
}

// Reset clears the form.
func (p RegisterPage) Reset() RegisterPage {
	for i := range p.inputs {
		p.inputs[i].SetValue("")
		p.inputs[i].Blur()
	}
	p.inputs[regUsername].Focus()
	p.focus = 0
	p.loading = false
	p.message = ""
	return p
}

// SetMessage shows the failure detail under the form.
func (p RegisterPage) SetMessage(msg string) RegisterPage {
	p.message = msg
	p.loading = false
	return p
}

// Update handles key input.
func (p RegisterPage) Update(msg tea.Msg) (RegisterPage, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return p.moveFocus(1), nil
		case "shift+tab", "up":
			return p.moveFocus(-1), nil
		case "enter":
			return p.submit()
		case "esc":
			return p, func() tea.Msg { return GotoLoginMsg{} }
		}
	}

	var cmds []tea.Cmd
	for i := range p.inputs {
		var cmd tea.Cmd
		p.inputs[i], cmd = p.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return p, tea.Batch(cmds...)
}

func (p RegisterPage) moveFocus(delta int) RegisterPage {
	p.inputs[p.focus].Blur()
	p.focus = (p.focus + delta + regFieldCount) % regFieldCount
	p.inputs[p.focus].Focus()
	return p
}

// submit runs the local checks and emits RegisterSubmitMsg only when they
// all pass. ValidationError paths never reach the network.
func (p RegisterPage) submit() (RegisterPage, tea.Cmd) {
	if p.loading {
		return p, nil
	}

	get := func(i int) string { return strings.TrimSpace(p.inputs[i].Value()) }

	required := []int{regUsername, regPassword, regConfirm, regQ1, regA1, regQ2, regA2, regQ3, regA3}
	for _, i := range required {
		if get(i) == "" {
			p.message = "Please fill in all required fields."
			return p, nil
		}
	}
	if p.inputs[regPassword].Value() != p.inputs[regConfirm].Value() {
		p.message = "Password and Confirm Password must match."
		return p, nil
	}

	req := api.RegisterRequest{
		User: api.RegisterUser{
			Username: get(regUsername),
			Password: p.inputs[regPassword].Value(),
			FullName: get(regFullName),
		},
		Recovery: api.RecoverySet{
			Question1: get(regQ1), Answer1: get(regA1),
			Question2: get(regQ2), Answer2: get(regA2),
			Question3: get(regQ3), Answer3: get(regA3),
		},
	}

	p.loading = true
	p.message = ""
	return p, func() tea.Msg { return RegisterSubmitMsg{Request: req} }
}

// SetSize records the available width.
func (p *RegisterPage) SetSize(w, _ int) {
	p.width = w
	inner := w - 10
	if inner > 56 {
		inner = 56
	}
	if inner > 0 {
		for i := range p.inputs {
			p.inputs[i].Width = inner
		}
	}
}

// View renders the registration card.
func (p RegisterPage) View() string {
	s := p.styles

	account := lipgloss.JoinVertical(lipgloss.Left,
		s.Label.Render("User Details"),
		p.inputs[regUsername].View(),
		p.inputs[regPassword].View(),
		p.inputs[regConfirm].View(),
		p.inputs[regFullName].View(),
	)

	recovery := lipgloss.JoinVertical(lipgloss.Left,
		s.Label.Render("Password Recovery Questions (Required)"),
		s.Muted.Render("These answers will be used to reset your password."),
		p.inputs[regQ1].View(),
		p.inputs[regA1].View(),
		p.inputs[regQ2].View(),
		p.inputs[regA2].View(),
		p.inputs[regQ3].View(),
		p.inputs[regA3].View(),
	)

	status := ""
	switch {
	case p.loading:
		status = s.Muted.Render("Registering...")
	case p.message != "":
		status = s.Error.Render(p.message)
	}

	help := s.Footer.Render("enter: register and log in • tab: next field • esc: back to login")

	card := s.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, account, "", recovery, "", status))
	return s.Content.Render(lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Register Account"), card, help))
}
