package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"sqlpilot/internal/api"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// QueryPage is the generation panel: a question textarea, the intent
// recognition toggle and the result pane. The generated SQL is rendered
// through glamour as a fenced code block.
type QueryPage struct {
	question  textarea.Model
	result    viewport.Model
	useIntent bool

	lastSQL string // raw SQL of the last success, for the clipboard
	loading bool
	message string

	selected    *api.SchemaContext
	focusResult bool

	width, height int
	styles        Styles
}

// NewQueryPage builds the generation panel. Intent recognition defaults to
// on.
func NewQueryPage(styles Styles) QueryPage {
	q := textarea.New()
	q.Placeholder = "Enter your natural language question"
	q.CharLimit = 0
	q.ShowLineNumbers = false
	q.Focus()

	vp := viewport.New(0, 0)
	vp.SetContent(styles.Muted.Render("Generated SQL will appear here."))

	return QueryPage{question: q, result: vp, useIntent: true, styles: styles}
}

// SetSelected updates the schema context banner. nil clears it.
func (p QueryPage) SetSelected(sc *api.SchemaContext) QueryPage {
	if sc == nil {
		p.selected = nil
		return p
	}
	copied := *sc
	p.selected = &copied
	return p
}

// SetResult displays a completed generation.
func (p QueryPage) SetResult(res api.GenerationResult) QueryPage {
	p.loading = false
	p.message = ""
	if res.Succeeded {
		p.lastSQL = res.SQL
		p.result.SetContent(p.renderSQL(res.SQL))
	} else {
		p.lastSQL = ""
		p.result.SetContent(p.styles.Error.Render("Status: FAILED\n" + res.ErrorMessage))
	}
	return p
}

// SetFailure displays a client-side failure (transport, auth) in the result
// pane.
func (p QueryPage) SetFailure(msg string) QueryPage {
	p.loading = false
	p.lastSQL = ""
	p.result.SetContent(p.styles.Error.Render("Status: FAILED\n" + msg))
	return p
}

// renderSQL runs the SQL through glamour; on a render failure the raw text
// is shown instead.
func (p QueryPage) renderSQL(sql string) string {
	width := p.result.Width
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return sql
	}
	out, err := r.Render(fmt.Sprintf("```sql\n%s\n```", sql))
	if err != nil {
		return sql
	}
	return p.styles.Success.Render("Status: SUCCESS") + "\n" + out
}

// Update handles key input.
func (p QueryPage) Update(msg tea.Msg) (QueryPage, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+g":
			return p.submit()
		case "ctrl+t":
			p.useIntent = !p.useIntent
			return p, nil
		case "ctrl+y":
			if p.lastSQL != "" {
				if err := clipboardWriteAll(p.lastSQL); err != nil {
					p.message = "Failed to copy SQL to clipboard."
				} else {
					p.message = "Copied SQL to clipboard."
				}
			}
			return p, nil
		case "ctrl+r":
			p.focusResult = !p.focusResult
			if p.focusResult {
				p.question.Blur()
			} else {
				p.question.Focus()
			}
			return p, nil
		}
	}

	var cmd tea.Cmd
	if p.focusResult {
		p.result, cmd = p.result.Update(msg)
	} else {
		p.question, cmd = p.question.Update(msg)
	}
	return p, cmd
}

func (p QueryPage) submit() (QueryPage, tea.Cmd) {
	if p.loading {
		return p, nil
	}
	question := strings.TrimSpace(p.question.Value())
	if question == "" {
		p.message = "Enter a question first."
		return p, nil
	}
	p.loading = true
	p.message = ""
	useIntent := p.useIntent
	return p, func() tea.Msg { return GenerateMsg{Question: question, UseIntent: useIntent} }
}

// SetSize updates the panel dimensions.
func (p *QueryPage) SetSize(w, h int) {
	p.width = w
	p.height = h

	p.question.SetWidth(w - 4)
	p.question.SetHeight(3)

	resultH := h - 10
	if resultH < 3 {
		resultH = 3
	}
	p.result.Width = w - 4
	p.result.Height = resultH
}

// View renders the panel.
func (p QueryPage) View() string {
	s := p.styles

	banner := ""
	if p.selected != nil {
		banner = s.Info.Render(fmt.Sprintf("Table: %s", p.selected.TableName)) + "\n" +
			s.Muted.Render(truncate(p.selected.DDLContext, 80))
	} else {
		banner = s.Muted.Render("No schema selected. Generation runs without table context.")
	}

	toggle := "[ ] Use Query Intent Recognition"
	if p.useIntent {
		toggle = "[x] Use Query Intent Recognition"
	}

	status := ""
	switch {
	case p.loading:
		status = s.Muted.Render("Generating...")
	case p.message != "":
		status = s.Info.Render(p.message)
	}

	help := s.Footer.Render("ctrl+g: generate • ctrl+t: toggle intent • ctrl+y: copy SQL • ctrl+r: scroll result")

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Label.Render("SQL Query Generator"),
		banner,
		p.question.View(),
		s.Muted.Render(toggle),
		status,
		p.result.View(),
		help,
	)
}

func truncate(v string, n int) string {
	v = strings.ReplaceAll(v, "\n", " ")
	if len(v) <= n {
		return v
	}
	return v[:n-3] + "..."
}
