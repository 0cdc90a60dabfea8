package ui

import "sqlpilot/internal/api"

// Intent messages emitted by the panels. Panels never touch the network
// themselves; they announce what the user asked for and the dashboard issues
// the call, so auth state keeps a single owner.

// Auth view navigation.
type (
	GotoLoginMsg    struct{}
	GotoRegisterMsg struct{}
	GotoRecoveryMsg struct{}
)

// LoginSubmitMsg carries validated login form input.
type LoginSubmitMsg struct {
	Username string
	Password string
}

// RegisterSubmitMsg carries a locally validated registration payload.
type RegisterSubmitMsg struct {
	Request api.RegisterRequest
}

// RecoveryLookupMsg asks for the recovery questions of Username (step 1).
type RecoveryLookupMsg struct {
	Username string
}

// RecoveryResetMsg carries the assembled step-2 reset payload.
type RecoveryResetMsg struct {
	Request api.ResetRequest
}

// SchemaSelectedMsg reports that the user picked a schema context for
// generation.
type SchemaSelectedMsg struct {
	Schema api.SchemaContext
}

// SchemaSaveMsg asks to create (IsEdit=false) or update (IsEdit=true) a
// schema context.
type SchemaSaveMsg struct {
	Schema api.SchemaContext
	IsEdit bool
}

// SchemaDeleteMsg asks to delete the named schema context. Emitted only
// after the user confirmed the prompt.
type SchemaDeleteMsg struct {
	TableName string
}

// SchemaReloadMsg asks for a full list refetch.
type SchemaReloadMsg struct{}

// GenerateMsg asks to submit a generation request.
type GenerateMsg struct {
	Question  string
	UseIntent bool
}

// HistoryRefreshMsg asks for a history refetch.
type HistoryRefreshMsg struct{}

// HistoryClearMsg asks to delete all history. Emitted only after the user
// confirmed the prompt.
type HistoryClearMsg struct{}

// LogoutMsg is the explicit logout request.
type LogoutMsg struct{}

// AuthExpiredMsg is raised by any panel whose call came back 401; the
// dashboard reacts with a global logout.
type AuthExpiredMsg struct {
	Detail string
}
