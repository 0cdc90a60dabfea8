package dashboard

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"sqlpilot/cmd/sqlpilot/ui"
	"sqlpilot/internal/api"
)

// Update routes messages: global keys first, then panel intents, then
// network completions. Every completion is generation-guarded — a response
// that raced a logout is dropped, never applied.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+x":
			if m.view == ViewDashboard {
				m.coord.Logout()
				return m.exitToLogin("", false), nil
			}
		case "f1", "f2", "f3":
			if m.view == ViewDashboard {
				switch msg.String() {
				case "f1":
					m.focus = FocusSchema
				case "f2":
					m.focus = FocusQuery
				case "f3":
					m.focus = FocusHistory
				}
				return m, nil
			}
		}
		return m.routeToActiveView(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case spinner.TickMsg:
		if m.busy == 0 {
			return m, nil // stop ticking once idle
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	// ------------------------------------------------------------------
	// Panel intents
	// ------------------------------------------------------------------

	case ui.GotoLoginMsg:
		m.view = ViewLogin
		m.login = m.login.Reset()
		return m, nil

	case ui.GotoRegisterMsg:
		m.view = ViewRegister
		m.register = m.register.Reset()
		return m, nil

	case ui.GotoRecoveryMsg:
		m.view = ViewRecovery
		m.recovery = m.recovery.Reset()
		return m, nil

	case ui.LoginSubmitMsg:
		return m.dispatch(m.loginCmd(msg.Username, msg.Password))

	case ui.RegisterSubmitMsg:
		return m.dispatch(m.registerCmd(msg.Request))

	case ui.RecoveryLookupMsg:
		return m.dispatch(m.questionsCmd(msg.Username))

	case ui.RecoveryResetMsg:
		return m.dispatch(m.resetCmd(msg.Request))

	case ui.LogoutMsg:
		m.coord.Logout()
		return m.exitToLogin("", false), nil

	case ui.AuthExpiredMsg:
		return m.authExpired(msg.Detail), nil

	case ui.SchemaSelectedMsg:
		m.coord.Select(msg.Schema)
		sel := msg.Schema
		m.query = m.query.SetSelected(&sel)
		m.schema = m.schema.SetSelected(sel.TableName)
		return m, nil

	case ui.SchemaSaveMsg:
		return m.dispatch(m.saveSchemaCmd(msg.Schema, msg.IsEdit))

	case ui.SchemaDeleteMsg:
		return m.dispatch(m.deleteSchemaCmd(msg.TableName))

	case ui.SchemaReloadMsg:
		return m.dispatch(m.listSchemasCmd())

	case ui.GenerateMsg:
		return m.handleGenerate(msg)

	case ui.HistoryRefreshMsg:
		return m.dispatch(m.listHistoryCmd())

	case ui.HistoryClearMsg:
		return m.dispatch(m.clearHistoryCmd())

	// ------------------------------------------------------------------
	// Network completions
	// ------------------------------------------------------------------

	case loginDoneMsg:
		return m.handleLoginDone(msg)
	case registerDoneMsg:
		return m.handleRegisterDone(msg)
	case questionsDoneMsg:
		return m.handleQuestionsDone(msg)
	case resetDoneMsg:
		return m.handleResetDone(msg)
	case schemasDoneMsg:
		return m.handleSchemasDone(msg)
	case schemaSavedMsg:
		return m.handleSchemaSaved(msg)
	case schemaDeletedMsg:
		return m.handleSchemaDeleted(msg)
	case generateDoneMsg:
		return m.handleGenerateDone(msg)
	case historyDoneMsg:
		return m.handleHistoryDone(msg)
	case historyClearedMsg:
		return m.handleHistoryCleared(msg)
	}

	return m.routeToActiveView(msg)
}

// dispatch starts a network command and keeps the spinner alive while
// anything is in flight.
func (m Model) dispatch(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	wasIdle := m.busy == 0
	m.busy++
	if wasIdle {
		return m, tea.Batch(cmd, m.spinner.Tick)
	}
	return m, cmd
}

// settle accounts for one completed call.
func (m Model) settle() Model {
	if m.busy > 0 {
		m.busy--
	}
	return m
}

// stale reports whether a completion belongs to a session that is no longer
// active.
func (m Model) stale(gen uint64) bool {
	if !m.coord.Current(gen) {
		m.log.Debug("discarding stale completion", zap.Uint64("issued_gen", gen))
		return true
	}
	return false
}

// authExpired handles any 401: global logout plus the session-expired notice
// on the login form.
func (m Model) authExpired(detail string) Model {
	if detail == "" {
		detail = api.SessionExpiredMessage
	}
	m.coord.AuthExpired()
	return m.exitToLogin(detail, true)
}

// routeToActiveView forwards a message to whichever page owns the focus.
func (m Model) routeToActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ViewLogin:
		m.login, cmd = m.login.Update(msg)
	case ViewRegister:
		m.register, cmd = m.register.Update(msg)
	case ViewRecovery:
		m.recovery, cmd = m.recovery.Update(msg)
	case ViewDashboard:
		// Key input goes only to the focused panel; everything else fans
		// out to all three.
		if _, isKey := msg.(tea.KeyMsg); isKey {
			switch m.focus {
			case FocusSchema:
				m.schema, cmd = m.schema.Update(msg)
			case FocusQuery:
				m.query, cmd = m.query.Update(msg)
			case FocusHistory:
				m.history, cmd = m.history.Update(msg)
			}
		} else {
			var cmds []tea.Cmd
			var c tea.Cmd
			m.schema, c = m.schema.Update(msg)
			cmds = append(cmds, c)
			m.query, c = m.query.Update(msg)
			cmds = append(cmds, c)
			m.history, c = m.history.Update(msg)
			cmds = append(cmds, c)
			cmd = tea.Batch(cmds...)
		}
	}
	return m, cmd
}

// handleGenerate fails fast without a network call when no session is
// present; otherwise it annotates the request with the selected schema.
func (m Model) handleGenerate(msg ui.GenerateMsg) (tea.Model, tea.Cmd) {
	if !m.coord.LoggedIn() {
		m.query = m.query.SetFailure("Authentication required. Please log in.")
		return m, nil
	}

	req := api.GenerationRequest{
		Question:          msg.Question,
		NeedPredictIntent: msg.UseIntent,
		Operator:          m.coord.Username(),
	}
	if sel, ok := m.coord.Selection(); ok {
		table := sel.TableName
		ddl := sel.DDLContext
		req.TableName = &table
		req.DDLContext = &ddl
	}
	return m.dispatch(m.generateCmd(req))
}

func (m Model) handleLoginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	m = m.settle()
	if m.stale(msg.gen) {
		return m, nil
	}
	if msg.err != nil {
		m.login = m.login.SetMessage("Login Failed: "+msg.err.Error(), true)
		return m, nil
	}
	return m.enterDashboard(msg.creds)
}

func (m Model) handleRegisterDone(msg registerDoneMsg) (tea.Model, tea.Cmd) {
	m = m.settle()
	if m.stale(msg.gen) {
		return m, nil
	}
	if msg.err != nil {
		m.register = m.register.SetMessage("Registration Failed: " + msg.err.Error())
		return m, nil
	}
	// Registration implies login: the token is already live.
	return m.enterDashboard(msg.creds)
}

func (m Model) handleQuestionsDone(msg questionsDoneMsg) (tea.Model, tea.Cmd) {
	m = m.settle()
	if m.stale(msg.gen) {
		return m, nil
	}
	if msg.err != nil {
		m.recovery = m.recovery.Rejected("Error: " + msg.err.Error())
		return m, nil
	}
	m.recovery = m.recovery.ChallengeReceived(msg.username, msg.questions)
	return m, nil
}

func (m Model) handleResetDone(msg resetDoneMsg) (tea.Model, tea.Cmd) {
	m = m.settle()
	if m.stale(msg.gen) {
		return m, nil
	}
	if msg.err != nil {
		// Wrong answers: stay in AwaitingAnswers, questions preserved.
		m.recovery = m.recovery.Rejected("Reset Failed: " + msg.err.Error())
		return m, nil
	}
	m.recovery = m.recovery.Reset()
	m.view = ViewLogin
	m.login = m.login.Reset().SetMessage("Password reset successful! Please log in with your new password.", false)
	return m, nil
}

func (m Model) handleSchemasDone(msg schemasDoneMsg) (tea.Model, tea.Cmd) {
	m = m.settle()
	if m.stale(msg.gen) {
		return m, nil
	}
	if msg.err != nil {
		var authErr *api.AuthError
		if errors.As(msg.err, &authErr) {
			return m.authExpired(authErr.Detail), nil
		}
		// Non-fatal: banner plus an empty list.
		m.schema = m.schema.SetSchemas(nil).SetMessage("Failed to load schemas. Session may have expired.", true)
		return m, nil
	}
	m.schema = m.schema.SetSchemas(msg.schemas)
	return m, nil
}

func (m Model) handleSchemaSaved(msg schemaSavedMsg) (tea.Model, tea.Cmd) {
	m = m.settle()
	if m.stale(msg.gen) {
		return m, nil
	}
	if msg.err != nil {
		var authErr *api.AuthError
		if errors.As(msg.err, &authErr) {
			return m.authExpired(authErr.Detail), nil
		}
		m.schema = m.schema.SetMessage("Operation Failed: "+msg.err.Error(), true)
		return m, nil
	}

	verb := "Added"
	if msg.isEdit {
		verb = "Updated"
		// Reconcile the selection copy if the edited table is selected.
		m.coord.SchemaUpdated(msg.schema)
		if sel, ok := m.coord.Selection(); ok && sel.TableName == msg.schema.TableName {
			m.query = m.query.SetSelected(&sel)
		}
	}
	m.schema = m.schema.SaveSucceeded(fmt.Sprintf("%s schema for %s successfully!", verb, msg.schema.TableName))

	// The server is the source of truth: always refetch after a mutation.
	return m.dispatch(m.listSchemasCmd())
}

func (m Model) handleSchemaDeleted(msg schemaDeletedMsg) (tea.Model, tea.Cmd) {
	m = m.settle()
	if m.stale(msg.gen) {
		return m, nil
	}
	if msg.err != nil {
		var authErr *api.AuthError
		if errors.As(msg.err, &authErr) {
			return m.authExpired(authErr.Detail), nil
		}
		m.schema = m.schema.SetMessage("Deletion Failed: "+msg.err.Error(), true)
		return m, nil
	}

	// Clear the selection iff it named the deleted table.
	m.coord.SchemaDeleted(msg.tableName)
	if _, ok := m.coord.Selection(); !ok {
		m.query = m.query.SetSelected(nil)
		m.schema = m.schema.SetSelected("")
	}
	m.schema = m.schema.SetMessage(fmt.Sprintf("Schema '%s' deleted successfully.", msg.tableName), false)

	return m.dispatch(m.listSchemasCmd())
}

func (m Model) handleGenerateDone(msg generateDoneMsg) (tea.Model, tea.Cmd) {
	m = m.settle()
	if m.stale(msg.gen) {
		return m, nil
	}
	if msg.err != nil {
		var authErr *api.AuthError
		if errors.As(msg.err, &authErr) {
			// The distinguishable session-expired result: global logout.
			return m.authExpired(authErr.Detail), nil
		}
		m.query = m.query.SetFailure(msg.err.Error())
		return m, nil
	}

	m.query = m.query.SetResult(msg.result)
	if !msg.result.Succeeded {
		return m, nil
	}

	// Exactly one epoch bump per successful generation; the epoch change is
	// what forces the history refetch.
	m.coord.GenerationSucceeded()
	if m.coord.HistoryEpoch() != m.lastEpoch {
		m.lastEpoch = m.coord.HistoryEpoch()
		m.history = m.history.SetLoading(true)
		return m.dispatch(m.listHistoryCmd())
	}
	return m, nil
}

func (m Model) handleHistoryDone(msg historyDoneMsg) (tea.Model, tea.Cmd) {
	m = m.settle()
	if m.stale(msg.gen) {
		return m, nil
	}
	if msg.err != nil {
		var authErr *api.AuthError
		if errors.As(msg.err, &authErr) {
			return m.authExpired(authErr.Detail), nil
		}
		m.history = m.history.SetMessage(msg.err.Error(), true)
		return m, nil
	}
	m.history = m.history.SetRecords(msg.records)
	return m, nil
}

func (m Model) handleHistoryCleared(msg historyClearedMsg) (tea.Model, tea.Cmd) {
	m = m.settle()
	if m.stale(msg.gen) {
		return m, nil
	}
	if msg.err != nil {
		var authErr *api.AuthError
		if errors.As(msg.err, &authErr) {
			return m.authExpired(authErr.Detail), nil
		}
		m.history = m.history.SetMessage("Failed to delete history.", true)
		return m, nil
	}
	if msg.cleared {
		m.history = m.history.Cleared()
	} else {
		m.history = m.history.SetMessage("Nothing to delete.", false)
	}
	return m, nil
}
