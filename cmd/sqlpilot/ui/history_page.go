package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sqlpilot/internal/api"
)

// HistoryPage shows the per-user query history. It is read-only apart from
// the clear-all operation, which requires confirmation before the request is
// issued.
type HistoryPage struct {
	table   table.Model
	records []api.HistoryRecord

	confirmingClear bool
	loading         bool
	message         string
	isError         bool

	username string

	width, height int
	styles        Styles
}

// NewHistoryPage builds the history panel for username.
func NewHistoryPage(styles Styles, username string) HistoryPage {
	cols := []table.Column{
		{Title: "Date & Time", Width: 19},
		{Title: "Status", Width: 8},
		{Title: "Question", Width: 30},
		{Title: "Generated SQL", Width: 40},
	}
	tbl := table.New(table.WithColumns(cols), table.WithFocused(true))

	ts := table.DefaultStyles()
	ts.Header = ts.Header.Bold(true).Foreground(styles.Theme.Primary).
		BorderStyle(lipgloss.NormalBorder()).BorderForeground(styles.Theme.Border).BorderBottom(true)
	ts.Selected = ts.Selected.Background(styles.Theme.Secondary).Foreground(styles.Theme.Foreground)
	tbl.SetStyles(ts)

	return HistoryPage{table: tbl, username: username, styles: styles}
}

// SetRecords replaces the table contents after a fetch.
func (p HistoryPage) SetRecords(records []api.HistoryRecord) HistoryPage {
	p.records = records
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		sql := ""
		if r.GeneratedSQL != nil {
			sql = *r.GeneratedSQL
		}
		rows = append(rows, table.Row{
			r.GmtCreate.Local().Format(time.DateTime),
			r.Status,
			r.Question,
			sql,
		})
	}
	p.table.SetRows(rows)
	p.loading = false
	p.message = ""
	return p
}

// SetMessage shows a banner under the table.
func (p HistoryPage) SetMessage(msg string, isError bool) HistoryPage {
	p.message = msg
	p.isError = isError
	p.loading = false
	return p
}

// SetLoading toggles the in-flight flag.
func (p HistoryPage) SetLoading(v bool) HistoryPage {
	p.loading = v
	return p
}

// Cleared empties the table after a successful clear-all.
func (p HistoryPage) Cleared() HistoryPage {
	p.records = nil
	p.table.SetRows(nil)
	p.loading = false
	p.message = "History cleared successfully."
	p.isError = false
	return p
}

// Update handles key input.
func (p HistoryPage) Update(msg tea.Msg) (HistoryPage, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if p.confirmingClear {
			switch key.String() {
			case "y", "Y":
				p.confirmingClear = false
				p.loading = true
				return p, func() tea.Msg { return HistoryClearMsg{} }
			case "n", "N", "esc":
				p.confirmingClear = false
				return p, nil
			}
			return p, nil
		}

		switch key.String() {
		case "r":
			p.loading = true
			p.message = ""
			return p, func() tea.Msg { return HistoryRefreshMsg{} }
		case "x":
			if len(p.records) > 0 && !p.loading {
				p.confirmingClear = true
			}
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return p, cmd
}

// SetSize updates the panel dimensions.
func (p *HistoryPage) SetSize(w, h int) {
	p.width = w
	p.height = h

	tableH := h - 5
	if tableH < 3 {
		tableH = 3
	}
	p.table.SetHeight(tableH)

	// Reflow columns: timestamps and status are fixed, the rest splits
	// between question and SQL.
	remaining := w - 19 - 8 - 6
	if remaining < 20 {
		remaining = 20
	}
	p.table.SetColumns([]table.Column{
		{Title: "Date & Time", Width: 19},
		{Title: "Status", Width: 8},
		{Title: "Question", Width: remaining * 2 / 5},
		{Title: "Generated SQL", Width: remaining * 3 / 5},
	})
}

// renderCursorStatus color-codes the highlighted row's outcome.
func (p HistoryPage) renderCursorStatus() string {
	i := p.table.Cursor()
	if i < 0 || i >= len(p.records) {
		return ""
	}
	r := p.records[i]
	if r.Status == api.StatusSuccess {
		return p.styles.Success.Render(r.Status)
	}
	return p.styles.Error.Render(r.Status)
}

// View renders the panel.
func (p HistoryPage) View() string {
	s := p.styles

	header := s.Label.Render("Query History") + " " + s.Muted.Render("User: "+p.username)

	if p.confirmingClear {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			s.Warning.Render("Are you sure you want to delete all query history?"),
			s.Footer.Render("y: clear all • n/esc: cancel"),
		)
	}

	status := ""
	switch {
	case p.loading:
		status = s.Muted.Render("Loading...")
	case p.message != "" && p.isError:
		status = s.Error.Render(p.message)
	case p.message != "":
		status = s.Success.Render(p.message)
	case len(p.records) == 0:
		status = s.Muted.Render("No history found for this user.")
	default:
		status = p.renderCursorStatus()
	}

	help := s.Footer.Render("r: refresh • x: clear all • ↑/↓: scroll")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		p.table.View(),
		status,
		help,
	)
}
