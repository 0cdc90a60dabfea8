package dashboard

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"sqlpilot/internal/api"
)

// Completion messages. Every one carries the coordinator generation it was
// issued under; Update discards completions whose generation no longer
// matches (the session they belong to is gone).

type loginDoneMsg struct {
	gen   uint64
	creds api.Credentials
	err   error
}

type registerDoneMsg struct {
	gen   uint64
	creds api.Credentials
	err   error
}

type questionsDoneMsg struct {
	gen       uint64
	username  string
	questions [3]string
	err       error
}

type resetDoneMsg struct {
	gen uint64
	err error
}

type schemasDoneMsg struct {
	gen     uint64
	schemas []api.SchemaContext
	err     error
}

type schemaSavedMsg struct {
	gen    uint64
	schema api.SchemaContext
	isEdit bool
	err    error
}

type schemaDeletedMsg struct {
	gen       uint64
	tableName string
	err       error
}

type generateDoneMsg struct {
	gen    uint64
	result api.GenerationResult
	err    error
}

type historyDoneMsg struct {
	gen     uint64
	records []api.HistoryRecord
	err     error
}

type historyClearedMsg struct {
	gen     uint64
	cleared bool
	err     error
}

func (m Model) loginCmd(username, password string) tea.Cmd {
	gen := m.coord.Generation()
	client := m.client
	return func() tea.Msg {
		creds, err := client.Login(context.Background(), username, password)
		return loginDoneMsg{gen: gen, creds: creds, err: err}
	}
}

func (m Model) registerCmd(req api.RegisterRequest) tea.Cmd {
	gen := m.coord.Generation()
	client := m.client
	return func() tea.Msg {
		creds, err := client.Register(context.Background(), req)
		return registerDoneMsg{gen: gen, creds: creds, err: err}
	}
}

func (m Model) questionsCmd(username string) tea.Cmd {
	gen := m.coord.Generation()
	client := m.client
	return func() tea.Msg {
		questions, err := client.RecoveryQuestions(context.Background(), username)
		return questionsDoneMsg{gen: gen, username: username, questions: questions, err: err}
	}
}

func (m Model) resetCmd(req api.ResetRequest) tea.Cmd {
	gen := m.coord.Generation()
	client := m.client
	return func() tea.Msg {
		err := client.ResetPassword(context.Background(), req)
		return resetDoneMsg{gen: gen, err: err}
	}
}

func (m Model) listSchemasCmd() tea.Cmd {
	gen := m.coord.Generation()
	client := m.client
	username := m.coord.Username()
	return func() tea.Msg {
		schemas, err := client.ListSchemas(context.Background(), username)
		return schemasDoneMsg{gen: gen, schemas: schemas, err: err}
	}
}

func (m Model) saveSchemaCmd(sc api.SchemaContext, isEdit bool) tea.Cmd {
	gen := m.coord.Generation()
	client := m.client
	token := m.coord.Token()
	return func() tea.Msg {
		err := client.SaveSchema(context.Background(), token, sc)
		return schemaSavedMsg{gen: gen, schema: sc, isEdit: isEdit, err: err}
	}
}

func (m Model) deleteSchemaCmd(tableName string) tea.Cmd {
	gen := m.coord.Generation()
	client := m.client
	token := m.coord.Token()
	username := m.coord.Username()
	return func() tea.Msg {
		err := client.DeleteSchema(context.Background(), token, tableName, username)
		return schemaDeletedMsg{gen: gen, tableName: tableName, err: err}
	}
}

func (m Model) generateCmd(req api.GenerationRequest) tea.Cmd {
	gen := m.coord.Generation()
	client := m.client
	token := m.coord.Token()
	return func() tea.Msg {
		result, err := client.GenerateSQL(context.Background(), token, req)
		return generateDoneMsg{gen: gen, result: result, err: err}
	}
}

func (m Model) listHistoryCmd() tea.Cmd {
	gen := m.coord.Generation()
	client := m.client
	token := m.coord.Token()
	username := m.coord.Username()
	return func() tea.Msg {
		records, err := client.ListHistory(context.Background(), token, username)
		return historyDoneMsg{gen: gen, records: records, err: err}
	}
}

func (m Model) clearHistoryCmd() tea.Cmd {
	gen := m.coord.Generation()
	client := m.client
	token := m.coord.Token()
	username := m.coord.Username()
	return func() tea.Msg {
		cleared, err := client.ClearHistory(context.Background(), token, username)
		return historyClearedMsg{gen: gen, cleared: cleared, err: err}
	}
}
