package dashboard

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const (
	headerHeight = 1
	footerHeight = 1
)

// layoutPanels pushes the current terminal size down to the three dashboard
// panels. The schema list takes the left third; the right column is split
// between the query panel and the history table.
func (m *Model) layoutPanels() {
	if m.width == 0 || m.height == 0 {
		return
	}

	contentH := m.height - headerHeight - footerHeight
	if contentH < 6 {
		contentH = 6
	}

	leftW := m.width * 35 / 100
	if leftW < 28 {
		leftW = 28
	}
	rightW := m.width - leftW
	if rightW < 40 {
		rightW = m.width - 28
	}

	queryH := contentH * 60 / 100
	historyH := contentH - queryH

	m.schema.SetSize(leftW, contentH)
	m.query.SetSize(rightW, queryH)
	m.history.SetSize(rightW, historyH)

	m.login.SetSize(m.width, contentH)
	m.register.SetSize(m.width, contentH)
	m.recovery.SetSize(m.width, contentH)
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.view {
	case ViewLogin:
		return m.renderAuthScreen("Sign In", m.login.View())
	case ViewRegister:
		return m.renderAuthScreen("Create Account", m.register.View())
	case ViewRecovery:
		return m.renderAuthScreen("Password Recovery", m.recovery.View())
	default:
		return m.renderDashboard()
	}
}

func (m Model) renderAuthScreen(title, body string) string {
	header := m.styles.Header.Width(m.width).Render(" SQLPilot " + m.styles.Muted.Render("| "+title))
	content := m.styles.Content.Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, header, content, m.renderFooter())
}

func (m Model) renderDashboard() string {
	header := m.styles.Header.Width(m.width).Render(fmt.Sprintf(
		" SQLPilot %s",
		m.styles.Muted.Render("| "+m.coord.Username()),
	))

	left := m.panelFrame(m.schema.View(), m.focus == FocusSchema)
	topRight := m.panelFrame(m.query.View(), m.focus == FocusQuery)
	bottomRight := m.panelFrame(m.history.View(), m.focus == FocusHistory)

	right := lipgloss.JoinVertical(lipgloss.Left, topRight, bottomRight)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter())
}

// panelFrame highlights the focused panel's border.
func (m Model) panelFrame(body string, focused bool) string {
	style := m.styles.Panel
	if focused {
		style = style.BorderForeground(m.styles.Theme.Primary)
	}
	return style.Render(body)
}

func (m Model) renderFooter() string {
	var left string
	if m.busy > 0 {
		left = m.spinner.View() + " working"
	}

	var help string
	switch m.view {
	case ViewDashboard:
		help = "f1 schemas • f2 query • f3 history • ctrl+x logout • ctrl+c quit"
	case ViewLogin:
		help = "enter sign in • f2 register • f3 recovery • ctrl+c quit"
	case ViewRegister:
		help = "enter submit • esc back to login • ctrl+c quit"
	case ViewRecovery:
		help = "enter submit • esc back • ctrl+l cancel • ctrl+c quit"
	}

	if left != "" {
		left += "  "
	}
	return m.styles.Footer.Width(m.width).Render(" " + left + m.styles.Muted.Render(help))
}
