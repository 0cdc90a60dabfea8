// Package dashboard is the top-level Bubble Tea model for sqlpilot. It owns
// the workspace coordinator (session, selected schema, history epoch),
// renders the auth views while logged out and the three-panel dashboard
// while logged in, and is the only place network calls are issued from.
package dashboard

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"sqlpilot/cmd/sqlpilot/ui"
	"sqlpilot/internal/api"
	"sqlpilot/internal/workspace"
)

// ViewMode selects which screen is rendered.
type ViewMode int

const (
	ViewLogin ViewMode = iota
	ViewRegister
	ViewRecovery
	ViewDashboard
)

// FocusPanel names the dashboard panel receiving key input.
type FocusPanel int

const (
	FocusSchema FocusPanel = iota
	FocusQuery
	FocusHistory
)

// Model composes the panels around the workspace coordinator.
type Model struct {
	client *api.Client
	coord  *workspace.Coordinator
	log    *zap.Logger
	styles ui.Styles

	view  ViewMode
	focus FocusPanel

	login    ui.LoginPage
	register ui.RegisterPage
	recovery ui.RecoveryPage
	schema   ui.SchemaPage
	query    ui.QueryPage
	history  ui.HistoryPage

	spinner spinner.Model
	busy    int // in-flight network calls; spinner runs while > 0

	// lastEpoch is the history epoch last seen by the history panel; any
	// divergence forces a refetch.
	lastEpoch int

	width, height int
}

// New builds the model. The coordinator should already have restored any
// persisted session; when it is logged in the dashboard opens directly.
func New(client *api.Client, coord *workspace.Coordinator, styles ui.Styles, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	m := Model{
		client:   client,
		coord:    coord,
		log:      log,
		styles:   styles,
		spinner:  sp,
		login:    ui.NewLoginPage(styles),
		register: ui.NewRegisterPage(styles),
		recovery: ui.NewRecoveryPage(styles),
		query:    ui.NewQueryPage(styles),
	}
	m.schema = ui.NewSchemaPage(styles, coord.Username())
	m.history = ui.NewHistoryPage(styles, coord.Username())

	if coord.LoggedIn() {
		m.view = ViewDashboard
	}
	return m
}

// Init kicks off the initial fetches when a persisted session was restored.
func (m Model) Init() tea.Cmd {
	if m.view != ViewDashboard {
		return nil
	}
	m.log.Debug("booting into dashboard from restored session")
	return tea.Batch(
		m.listSchemasCmd(),
		m.listHistoryCmd(),
	)
}

// enterDashboard performs the LoggedOut -> LoggedIn transition: the
// coordinator takes the credentials, user-scoped panels are rebuilt fresh,
// and both the schema list and the history are fetched for the new user.
func (m Model) enterDashboard(creds api.Credentials) (Model, tea.Cmd) {
	m.coord.LoginSucceeded(creds)

	m.schema = ui.NewSchemaPage(m.styles, creds.Username)
	m.query = ui.NewQueryPage(m.styles)
	m.history = ui.NewHistoryPage(m.styles, creds.Username)
	m.lastEpoch = m.coord.HistoryEpoch()
	m.layoutPanels()

	m.view = ViewDashboard
	m.focus = FocusQuery
	m.busy = 0

	return m, tea.Batch(m.listSchemasCmd(), m.listHistoryCmd())
}

// exitToLogin performs the LoggedIn -> LoggedOut transition. message, when
// non-empty, is shown on the login form (e.g. the session-expired notice).
func (m Model) exitToLogin(message string, isError bool) Model {
	m.view = ViewLogin
	m.focus = FocusSchema
	m.busy = 0
	m.login = m.login.Reset()
	if message != "" {
		m.login = m.login.SetMessage(message, isError)
	}
	m.register = m.register.Reset()
	m.recovery = m.recovery.Reset()
	return m
}
