package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// LoginPage collects username and password. Both fields are required; no
// strength checks beyond that, the server is the judge.
type LoginPage struct {
	username textinput.Model
	password textinput.Model
	focus    int

	loading bool
	message string
	isError bool

	width  int
	styles Styles
}

// NewLoginPage builds the login form.
func NewLoginPage(styles Styles) LoginPage {
	user := textinput.New()
	user.Placeholder = "Username"
	user.CharLimit = 64
	user.Focus()

	pass := textinput.New()
	pass.Placeholder = "Password"
	pass.CharLimit = 128
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	return LoginPage{username: user, password: pass, styles: styles}
}

// Reset clears inputs and messages, e.g. after a logout.
func (p LoginPage) Reset() LoginPage {
	p.username.SetValue("")
	p.password.SetValue("")
	p.username.Focus()
	p.password.Blur()
	p.focus = 0
	p.loading = false
	p.message = ""
	p.isError = false
	return p
}

// SetMessage shows a status line under the form. Used both for errors
// ("Login Failed: ...") and for notices carried over from other views
// ("Password reset successful! ...").
func (p LoginPage) SetMessage(msg string, isError bool) LoginPage {
	p.message = msg
	p.isError = isError
	p.loading = false
	return p
}

// SetLoading toggles the in-flight indicator; every completion path must
// turn it back off.
func (p LoginPage) SetLoading(v bool) LoginPage {
	p.loading = v
	return p
}

// Update handles key input.
func (p LoginPage) Update(msg tea.Msg) (LoginPage, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "shift+tab", "up", "down":
			p = p.cycleFocus(key.String() == "shift+tab" || key.String() == "up")
			return p, nil
		case "enter":
			return p.submit()
		case "f2":
			return p, func() tea.Msg { return GotoRegisterMsg{} }
		case "f3":
			return p, func() tea.Msg { return GotoRecoveryMsg{} }
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	p.username, cmd = p.username.Update(msg)
	cmds = append(cmds, cmd)
	p.password, cmd = p.password.Update(msg)
	cmds = append(cmds, cmd)
	return p, tea.Batch(cmds...)
}

func (p LoginPage) cycleFocus(backwards bool) LoginPage {
	if backwards {
		p.focus = (p.focus + 1) % 2 // two fields, same either way
	} else {
		p.focus = (p.focus + 1) % 2
	}
	if p.focus == 0 {
		p.username.Focus()
		p.password.Blur()
	} else {
		p.username.Blur()
		p.password.Focus()
	}
	return p
}

func (p LoginPage) submit() (LoginPage, tea.Cmd) {
	if p.loading {
		return p, nil
	}
	user := strings.TrimSpace(p.username.Value())
	pass := p.password.Value()
	if user == "" || pass == "" {
		p.message = "Username and password are required."
		p.isError = true
		return p, nil
	}
	p.loading = true
	p.message = ""
	return p, func() tea.Msg { return LoginSubmitMsg{Username: user, Password: pass} }
}

// SetSize records the available width.
func (p *LoginPage) SetSize(w, _ int) {
	p.width = w
	inner := w - 10
	if inner > 48 {
		inner = 48
	}
	if inner > 0 {
		p.username.Width = inner
		p.password.Width = inner
	}
}

// View renders the login card.
func (p LoginPage) View() string {
	s := p.styles

	title := s.Title.Render("Welcome to the Text-to-SQL System")
	sub := s.Subtitle.Render("Please log in to access the SQL Query Generator and history features.")

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Label.Render("User Login"),
		"",
		p.username.View(),
		p.password.View(),
	)

	status := ""
	switch {
	case p.loading:
		status = s.Muted.Render("Logging In...")
	case p.message != "" && p.isError:
		status = s.Error.Render(p.message)
	case p.message != "":
		status = s.Success.Render(p.message)
	}

	help := s.Footer.Render("enter: log in • f2: register • f3: forgot password • ctrl+c: quit")

	card := s.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, form, "", status))
	return s.Content.Render(lipgloss.JoinVertical(lipgloss.Left, title, sub, "", card, help))
}
