package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, zap.NewNop()), srv
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/auth/token", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "alice", body["username"])
		require.Equal(t, "pw1", body["password"])

		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-123"})
	}))

	creds, err := c.Login(context.Background(), "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", creds.Token)
	assert.Equal(t, "alice", creds.Username)
}

func TestLogin_BadCredentials_ServerDetail(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect username or password"})
	}))

	_, err := c.Login(context.Background(), "alice", "wrong")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Incorrect username or password", authErr.Detail)
}

func TestLogin_BadCredentials_FallbackDetail(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.Login(context.Background(), "alice", "wrong")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid credentials.", authErr.Detail)
}

func TestLogin_EmptyToken_IsTransportError(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))

	_, err := c.Login(context.Background(), "alice", "pw1")
	var te *TransportError
	require.ErrorAs(t, err, &te)
}

func TestLogin_ServerUnreachable(t *testing.T) {
	t.Parallel()
	c := NewClient("http://127.0.0.1:1", time.Second, zap.NewNop())

	_, err := c.Login(context.Background(), "alice", "pw1")
	var te *TransportError
	require.ErrorAs(t, err, &te)
}

func TestRegister_Success_TokenIssuedImmediately(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/register", r.URL.Path)

		var body RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "bob", body.User.Username)
		require.Equal(t, "Pet's name", body.Recovery.Question1)
		require.Equal(t, "rex", body.Recovery.Answer1)

		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-reg"})
	}))

	creds, err := c.Register(context.Background(), RegisterRequest{
		User: RegisterUser{Username: "bob", Password: "secret1", FullName: "Bob B"},
		Recovery: RecoverySet{
			Question1: "Pet's name", Answer1: "rex",
			Question2: "Birth city", Answer2: "berlin",
			Question3: "Maiden name", Answer3: "smith",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, Credentials{Token: "tok-reg", Username: "bob"}, creds)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Username already registered"})
	}))

	_, err := c.Register(context.Background(), RegisterRequest{User: RegisterUser{Username: "bob", Password: "x"}})
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Username already registered", ce.Detail)
}

func TestRecoveryQuestions_Success(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/reset-password/questions", r.URL.Path)
		json.NewEncoder(w).Encode(map[string][]string{
			"questions": {"Pet's name?", "Birth city?", "Maiden name?"},
		})
	}))

	qs, err := c.RecoveryQuestions(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, [3]string{"Pet's name?", "Birth city?", "Maiden name?"}, qs)
}

func TestRecoveryQuestions_UnknownUsername(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.RecoveryQuestions(context.Background(), "nobody")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Username not found or recovery not set up.", nf.Detail)
}

func TestRecoveryQuestions_WrongCount_IsTransportError(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string][]string{"questions": {"only one"}})
	}))

	_, err := c.RecoveryQuestions(context.Background(), "alice")
	var te *TransportError
	require.ErrorAs(t, err, &te)
}

func TestResetPassword_EchoesQuestionsBack(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body ResetRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "alice", body.Username)
		require.Equal(t, "newpw1", body.NewPassword)
		// Questions must ride back alongside the answers.
		require.Equal(t, "Pet's name?", body.RecoverySet.Question1)
		require.Equal(t, "rex", body.RecoverySet.Answer1)
		w.WriteHeader(http.StatusOK)
	}))

	err := c.ResetPassword(context.Background(), ResetRequest{
		Username:    "alice",
		NewPassword: "newpw1",
		RecoverySet: RecoverySet{
			Question1: "Pet's name?", Answer1: "rex",
			Question2: "Birth city?", Answer2: "berlin",
			Question3: "Maiden name?", Answer3: "smith",
		},
	})
	require.NoError(t, err)
}

func TestResetPassword_WrongAnswers(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	err := c.ResetPassword(context.Background(), ResetRequest{Username: "alice"})
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Incorrect recovery answers provided.", ce.Detail)
}
