package workspace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlpilot/internal/api"
	"sqlpilot/internal/session"
)

// fakeStore records what the coordinator does to durable storage.
type fakeStore struct {
	sess    *session.Session
	saveErr error
}

func (f *fakeStore) Save(s session.Session) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.sess = &s
	return nil
}

func (f *fakeStore) Load() (session.Session, bool) {
	if f.sess == nil {
		return session.Session{}, false
	}
	return *f.sess, true
}

func (f *fakeStore) Clear() error {
	f.sess = nil
	return nil
}

func TestLoginSucceeded_SetsAndPersistsSession(t *testing.T) {
	t.Parallel()
	fs := &fakeStore{}
	c := New(fs, nil)

	c.LoginSucceeded(api.Credentials{Token: "tok-1", Username: "alice"})

	require.True(t, c.LoggedIn())
	assert.Equal(t, "tok-1", c.Token())
	assert.Equal(t, "alice", c.Username())
	require.NotNil(t, fs.sess)
	assert.Equal(t, session.Session{Token: "tok-1", Username: "alice"}, *fs.sess)
}

func TestLoginSucceeded_ClearsPriorSelection(t *testing.T) {
	t.Parallel()
	c := New(&fakeStore{}, nil)
	c.LoginSucceeded(api.Credentials{Token: "tok-1", Username: "alice"})
	c.Select(api.SchemaContext{TableName: "orders"})

	c.LoginSucceeded(api.Credentials{Token: "tok-2", Username: "bob"})

	_, ok := c.Selection()
	assert.False(t, ok, "a new user must not inherit the previous user's selection")
}

func TestLogout_ClearsMemoryAndStore(t *testing.T) {
	t.Parallel()
	fs := &fakeStore{}
	c := New(fs, nil)
	c.LoginSucceeded(api.Credentials{Token: "tok-1", Username: "alice"})
	c.Select(api.SchemaContext{TableName: "orders"})

	c.Logout()

	assert.False(t, c.LoggedIn())
	assert.Empty(t, c.Token())
	assert.Nil(t, fs.sess)
	_, ok := c.Selection()
	assert.False(t, ok)
}

func TestAuthExpired_BehavesLikeLogout(t *testing.T) {
	t.Parallel()
	fs := &fakeStore{}
	c := New(fs, nil)
	c.LoginSucceeded(api.Credentials{Token: "tok-1", Username: "alice"})

	c.AuthExpired()

	assert.False(t, c.LoggedIn())
	assert.Nil(t, fs.sess)
}

func TestLoginSucceeded_PersistFailure_SessionStillLive(t *testing.T) {
	t.Parallel()
	fs := &fakeStore{saveErr: errors.New("disk full")}
	c := New(fs, nil)

	c.LoginSucceeded(api.Credentials{Token: "tok-1", Username: "alice"})

	// The in-memory session wins; only the durable mirror is lost.
	assert.True(t, c.LoggedIn())
}

func TestRestoreFromStore(t *testing.T) {
	t.Parallel()
	fs := &fakeStore{sess: &session.Session{Token: "tok-1", Username: "alice"}}
	c := New(fs, nil)

	require.True(t, c.RestoreFromStore())
	assert.Equal(t, "alice", c.Username())

	empty := New(&fakeStore{}, nil)
	assert.False(t, empty.RestoreFromStore())
}

func TestSelection_CopiedByValue(t *testing.T) {
	t.Parallel()
	c := New(&fakeStore{}, nil)
	sc := api.SchemaContext{TableName: "orders", DDLContext: "v1"}
	c.Select(sc)

	sc.DDLContext = "mutated"

	got, ok := c.Selection()
	require.True(t, ok)
	assert.Equal(t, "v1", got.DDLContext)
}

func TestSchemaDeleted_ClearsOnlyMatchingSelection(t *testing.T) {
	t.Parallel()
	c := New(&fakeStore{}, nil)
	c.Select(api.SchemaContext{TableName: "orders"})

	c.SchemaDeleted("users")
	_, ok := c.Selection()
	assert.True(t, ok, "deleting a non-selected schema must leave selection untouched")

	c.SchemaDeleted("orders")
	_, ok = c.Selection()
	assert.False(t, ok)
}

func TestSchemaUpdated_RefreshesMatchingSelection(t *testing.T) {
	t.Parallel()
	c := New(&fakeStore{}, nil)
	c.Select(api.SchemaContext{TableName: "orders", DDLContext: "v1"})

	c.SchemaUpdated(api.SchemaContext{TableName: "users", DDLContext: "other"})
	got, _ := c.Selection()
	assert.Equal(t, "v1", got.DDLContext, "editing a different schema must not touch selection")

	c.SchemaUpdated(api.SchemaContext{TableName: "orders", DDLContext: "v2"})
	got, _ = c.Selection()
	assert.Equal(t, "v2", got.DDLContext)
	assert.Equal(t, "orders", got.TableName)
}

func TestHistoryEpoch_IncrementsOnlyOnSuccess(t *testing.T) {
	t.Parallel()
	c := New(&fakeStore{}, nil)

	assert.Equal(t, 0, c.HistoryEpoch())

	c.GenerationSucceeded()
	assert.Equal(t, 1, c.HistoryEpoch())

	c.GenerationSucceeded()
	c.GenerationSucceeded()
	assert.Equal(t, 3, c.HistoryEpoch())
}

func TestGeneration_GuardsStaleResponses(t *testing.T) {
	t.Parallel()
	c := New(&fakeStore{}, nil)
	c.LoginSucceeded(api.Credentials{Token: "tok-1", Username: "alice"})

	issued := c.Generation()
	require.True(t, c.Current(issued))

	// A logout between issue and completion invalidates the response.
	c.Logout()
	assert.False(t, c.Current(issued), "a response issued before logout must be discarded")

	// So does a fresh login by another user.
	c.LoginSucceeded(api.Credentials{Token: "tok-2", Username: "bob"})
	assert.False(t, c.Current(issued))
}

func TestScenario_LoginSelectGenerate(t *testing.T) {
	t.Parallel()
	fs := &fakeStore{}
	c := New(fs, nil)

	c.LoginSucceeded(api.Credentials{Token: "tok-1", Username: "alice"})
	c.Select(api.SchemaContext{TableName: "orders", DDLContext: "CREATE TABLE orders(id INT)"})
	c.GenerationSucceeded()

	assert.Equal(t, 1, c.HistoryEpoch())
	sel, ok := c.Selection()
	require.True(t, ok)
	assert.Equal(t, "orders", sel.TableName)
	require.NotNil(t, fs.sess)
}
