package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sqlpilot/internal/api"
)

type schemaMode int

const (
	schemaList schemaMode = iota
	schemaForm
	schemaConfirmDelete
)

// schemaItem adapts api.SchemaContext to list.Item.
type schemaItem struct {
	sc api.SchemaContext
}

func (i schemaItem) Title() string { return i.sc.TableName }
func (i schemaItem) Description() string {
	ddl := strings.ReplaceAll(i.sc.DDLContext, "\n", " ")
	if len(ddl) > 60 {
		ddl = ddl[:57] + "..."
	}
	return ddl
}
func (i schemaItem) FilterValue() string { return i.sc.TableName + " " + i.sc.DDLContext }

// SchemaPage is the schema context registry panel: list, add/edit form and
// delete confirmation. After any mutation the parent refetches the full list;
// the panel never patches locally, the server is the source of truth.
type SchemaPage struct {
	list list.Model
	mode schemaMode

	// Add/edit form. In edit mode the table name is the identity key and is
	// not editable.
	tableName textinput.Model
	ddl       textarea.Model
	editing   bool
	formFocus int

	pendingDelete string

	username string
	selected string // table name currently selected for generation

	loading bool
	message string
	isError bool

	width, height int
	styles        Styles
}

// NewSchemaPage builds the schema manager panel for username.
func NewSchemaPage(styles Styles, username string) SchemaPage {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Schema Manager"
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().Bold(true).Foreground(styles.Theme.Primary)

	name := textinput.New()
	name.Placeholder = "Table Name (e.g., employees)"
	name.CharLimit = 128

	ddl := textarea.New()
	ddl.Placeholder = "Full DDL Context (e.g., CREATE TABLE employees (id INT, name VARCHAR...))"
	ddl.CharLimit = 0
	ddl.ShowLineNumbers = false

	return SchemaPage{list: l, tableName: name, ddl: ddl, username: username, styles: styles}
}

// SetSchemas replaces the list after a fetch. Loading is cleared: the fetch
// is the completion path.
func (p SchemaPage) SetSchemas(schemas []api.SchemaContext) SchemaPage {
	items := make([]list.Item, 0, len(schemas))
	for _, sc := range schemas {
		items = append(items, schemaItem{sc: sc})
	}
	p.list.SetItems(items)
	p.loading = false
	return p
}

// SetMessage shows a banner; isError picks the styling.
func (p SchemaPage) SetMessage(msg string, isError bool) SchemaPage {
	p.message = msg
	p.isError = isError
	p.loading = false
	return p
}

// SetLoading toggles the in-flight flag.
func (p SchemaPage) SetLoading(v bool) SchemaPage {
	p.loading = v
	return p
}

// SetSelected records which table is the current generation context so the
// list can badge it.
func (p SchemaPage) SetSelected(tableName string) SchemaPage {
	p.selected = tableName
	return p
}

// SaveSucceeded closes the form after a successful create/update.
func (p SchemaPage) SaveSucceeded(msg string) SchemaPage {
	p.mode = schemaList
	p.message = msg
	p.isError = false
	p.loading = false
	return p
}

// Update handles key input for the active mode.
func (p SchemaPage) Update(msg tea.Msg) (SchemaPage, tea.Cmd) {
	switch p.mode {
	case schemaForm:
		return p.updateForm(msg)
	case schemaConfirmDelete:
		return p.updateConfirm(msg)
	default:
		return p.updateList(msg)
	}
}

func (p SchemaPage) updateList(msg tea.Msg) (SchemaPage, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && p.list.FilterState() != list.Filtering {
		switch key.String() {
		case "enter":
			if item, ok := p.list.SelectedItem().(schemaItem); ok {
				p.selected = item.sc.TableName
				sc := item.sc
				return p, func() tea.Msg { return SchemaSelectedMsg{Schema: sc} }
			}
			return p, nil
		case "a":
			return p.openForm(nil), nil
		case "e":
			if item, ok := p.list.SelectedItem().(schemaItem); ok {
				sc := item.sc
				return p.openForm(&sc), nil
			}
			return p, nil
		case "d", "delete":
			if item, ok := p.list.SelectedItem().(schemaItem); ok {
				p.mode = schemaConfirmDelete
				p.pendingDelete = item.sc.TableName
			}
			return p, nil
		case "r":
			p.loading = true
			p.message = ""
			return p, func() tea.Msg { return SchemaReloadMsg{} }
		}
	}

	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return p, cmd
}

func (p SchemaPage) openForm(edit *api.SchemaContext) SchemaPage {
	p.mode = schemaForm
	p.editing = edit != nil
	p.message = ""
	if edit != nil {
		p.tableName.SetValue(edit.TableName)
		p.ddl.SetValue(edit.DDLContext)
		// Identity is immutable; start on the only editable field.
		p.formFocus = 1
		p.tableName.Blur()
		p.ddl.Focus()
	} else {
		p.tableName.SetValue("")
		p.ddl.SetValue("")
		p.formFocus = 0
		p.tableName.Focus()
		p.ddl.Blur()
	}
	return p
}

func (p SchemaPage) updateForm(msg tea.Msg) (SchemaPage, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			p.mode = schemaList
			p.message = ""
			return p, nil
		case "tab", "shift+tab":
			if !p.editing {
				if p.formFocus == 0 {
					p.formFocus = 1
					p.tableName.Blur()
					p.ddl.Focus()
				} else {
					p.formFocus = 0
					p.ddl.Blur()
					p.tableName.Focus()
				}
			}
			return p, nil
		case "ctrl+s":
			return p.submitForm()
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	if p.formFocus == 0 && !p.editing {
		p.tableName, cmd = p.tableName.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		p.ddl, cmd = p.ddl.Update(msg)
		cmds = append(cmds, cmd)
	}
	return p, tea.Batch(cmds...)
}

func (p SchemaPage) submitForm() (SchemaPage, tea.Cmd) {
	if p.loading {
		return p, nil
	}
	name := strings.TrimSpace(p.tableName.Value())
	ddl := strings.TrimSpace(p.ddl.Value())
	if name == "" || ddl == "" {
		p.message = "Table name and DDL context are both required."
		p.isError = true
		return p, nil
	}

	sc := api.SchemaContext{TableName: name, DDLContext: ddl, Operator: p.username}
	isEdit := p.editing
	p.loading = true
	p.message = ""
	return p, func() tea.Msg { return SchemaSaveMsg{Schema: sc, IsEdit: isEdit} }
}

func (p SchemaPage) updateConfirm(msg tea.Msg) (SchemaPage, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "y", "Y":
			name := p.pendingDelete
			p.mode = schemaList
			p.pendingDelete = ""
			p.loading = true
			return p, func() tea.Msg { return SchemaDeleteMsg{TableName: name} }
		case "n", "N", "esc":
			p.mode = schemaList
			p.pendingDelete = ""
			return p, nil
		}
	}
	return p, nil
}

// SetSize updates the panel dimensions.
func (p *SchemaPage) SetSize(w, h int) {
	p.width = w
	p.height = h

	chromeW, chromeH := 4, 4
	p.list.SetSize(w-chromeW, h-chromeH)
	p.tableName.Width = w - chromeW - 2
	p.ddl.SetWidth(w - chromeW - 2)
	p.ddl.SetHeight(6)
}

// View renders the panel for the active mode.
func (p SchemaPage) View() string {
	s := p.styles

	var body string
	var help string
	switch p.mode {
	case schemaForm:
		title := "Add New Schema"
		nameView := p.tableName.View()
		if p.editing {
			title = "Edit Schema: " + p.tableName.Value()
			nameView = s.Muted.Render(p.tableName.Value() + " (name is not editable)")
		}
		body = lipgloss.JoinVertical(lipgloss.Left,
			s.Label.Render(title),
			nameView,
			p.ddl.View(),
		)
		help = "ctrl+s: save • tab: switch field • esc: cancel"

	case schemaConfirmDelete:
		body = s.Warning.Render(fmt.Sprintf("Are you sure you want to delete the schema for '%s'?", p.pendingDelete))
		help = "y: delete • n/esc: cancel"

	default:
		body = p.list.View()
		help = "enter: select • a: add • e: edit • d: delete • r: refresh • /: filter"
	}

	status := ""
	switch {
	case p.loading:
		status = s.Muted.Render("Loading schemas...")
	case p.message != "" && p.isError:
		status = s.Error.Render(p.message)
	case p.message != "":
		status = s.Success.Render(p.message)
	}

	selectedLine := ""
	if p.selected != "" && p.mode == schemaList {
		selectedLine = s.SelectedBadge.Render("selected: " + p.selected)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		selectedLine,
		status,
		s.Footer.Render(help),
	)
}
