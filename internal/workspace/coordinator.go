// Package workspace owns the cross-panel shared state: the session, the
// selected schema context, and the history epoch. All panels read from and
// signal into this single node; none of them hold their own copy of auth
// state. The coordinator is driven from the Bubble Tea update loop and is
// therefore single-threaded by construction — no locking.
package workspace

import (
	"go.uber.org/zap"

	"sqlpilot/internal/api"
	"sqlpilot/internal/session"
)

// SessionStore is the durable mirror of the session. Satisfied by
// *session.Store.
type SessionStore interface {
	Save(session.Session) error
	Load() (session.Session, bool)
	Clear() error
}

// Coordinator is the top-level state owner (LoggedOut <-> LoggedIn).
type Coordinator struct {
	store SessionStore
	log   *zap.Logger

	sess      *session.Session
	selection *api.SchemaContext
	epoch     int

	// generation increments on every login and logout. Async completions
	// carry the generation they were issued under; a mismatch means the
	// response belongs to a previous session and must be discarded.
	generation uint64
}

// New builds a coordinator in the LoggedOut state.
func New(store SessionStore, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{store: store, log: log}
}

// RestoreFromStore loads a persisted session on boot. Returns true when a
// complete session was found and the coordinator is now LoggedIn.
func (c *Coordinator) RestoreFromStore() bool {
	if c.store == nil {
		return false
	}
	sess, ok := c.store.Load()
	if !ok {
		return false
	}
	c.sess = &sess
	c.generation++
	c.log.Info("session restored", zap.String("username", sess.Username))
	return true
}

// LoggedIn reports whether a session is present.
func (c *Coordinator) LoggedIn() bool { return c.sess != nil }

// Session returns the current session, if any.
func (c *Coordinator) Session() (session.Session, bool) {
	if c.sess == nil {
		return session.Session{}, false
	}
	return *c.sess, true
}

// Token returns the bearer token, or "" when logged out.
func (c *Coordinator) Token() string {
	if c.sess == nil {
		return ""
	}
	return c.sess.Token
}

// Username returns the logged-in username, or "" when logged out.
func (c *Coordinator) Username() string {
	if c.sess == nil {
		return ""
	}
	return c.sess.Username
}

// LoginSucceeded transitions LoggedOut -> LoggedIn from a successful login
// or registration: session set and persisted, any prior selection cleared so
// it cannot leak across users.
func (c *Coordinator) LoginSucceeded(creds api.Credentials) {
	sess := session.Session{Token: creds.Token, Username: creds.Username}
	c.sess = &sess
	c.selection = nil
	c.generation++
	if c.store != nil {
		if err := c.store.Save(sess); err != nil {
			c.log.Warn("failed to persist session", zap.Error(err))
		}
	}
	c.log.Info("logged in", zap.String("username", creds.Username))
}

// Logout transitions LoggedIn -> LoggedOut: session cleared from memory and
// durable storage, selection cleared. Safe to call when already logged out.
func (c *Coordinator) Logout() {
	c.sess = nil
	c.selection = nil
	c.generation++
	if c.store != nil {
		if err := c.store.Clear(); err != nil {
			c.log.Warn("failed to clear persisted session", zap.Error(err))
		}
	}
	c.log.Info("logged out")
}

// AuthExpired is the implicit logout path taken when any downstream call
// reports a 401. State-wise identical to Logout.
func (c *Coordinator) AuthExpired() {
	c.log.Warn("session expired, forcing logout")
	c.Logout()
}

// Generation returns the stale-response guard value to capture when issuing
// an async call.
func (c *Coordinator) Generation() uint64 { return c.generation }

// Current reports whether a completion issued under gen still belongs to the
// active session.
func (c *Coordinator) Current(gen uint64) bool { return gen == c.generation }

// Select records the schema context used to annotate generation requests.
// The value is copied; later registry edits do not bleed through except via
// SchemaUpdated.
func (c *Coordinator) Select(sc api.SchemaContext) {
	copied := sc
	c.selection = &copied
}

// Selection returns a copy of the selected schema context, if any.
func (c *Coordinator) Selection() (api.SchemaContext, bool) {
	if c.selection == nil {
		return api.SchemaContext{}, false
	}
	return *c.selection, true
}

// SchemaDeleted reconciles the selection after a registry delete: the
// selection is cleared iff it names the deleted table.
func (c *Coordinator) SchemaDeleted(tableName string) {
	if c.selection != nil && c.selection.TableName == tableName {
		c.selection = nil
	}
}

// SchemaUpdated reconciles the selection after a registry edit: the held
// copy is refreshed iff the table names match. TableName itself never
// changes — it is the identity key.
func (c *Coordinator) SchemaUpdated(sc api.SchemaContext) {
	if c.selection != nil && c.selection.TableName == sc.TableName {
		copied := sc
		c.selection = &copied
	}
}

// GenerationSucceeded bumps the history epoch by exactly one. Failed
// generations never touch the epoch.
func (c *Coordinator) GenerationSucceeded() {
	c.epoch++
}

// HistoryEpoch is the cache-busting counter history panels watch: any change
// means "must refetch".
func (c *Coordinator) HistoryEpoch() int { return c.epoch }
