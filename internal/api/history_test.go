package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListHistory(t *testing.T) {
	t.Parallel()
	sql := "SELECT * FROM orders;"
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/history/alice", r.URL.Path)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]HistoryRecord{
			{ID: 101, GmtCreate: time.Date(2025, 12, 13, 18, 30, 0, 0, time.UTC),
				Question: "show all orders", GeneratedSQL: &sql, Status: StatusSuccess},
			{ID: 100, Question: "nonsense", Status: StatusFailed},
		})
	}))

	records, err := c.ListHistory(context.Background(), "tok-1", "alice")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 101, records[0].ID)
	require.NotNil(t, records[0].GeneratedSQL)
	assert.Equal(t, sql, *records[0].GeneratedSQL)
	assert.Nil(t, records[1].GeneratedSQL)
	assert.Equal(t, StatusFailed, records[1].Status)
}

func TestListHistory_Unauthorized_IsAuthError(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.ListHistory(context.Background(), "stale", "alice")
	var ae *AuthError
	require.ErrorAs(t, err, &ae)
}

func TestClearHistory_ReturnsServerBoolean(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "DELETE", r.Method)
		require.Equal(t, "/history/alice", r.URL.Path)
		json.NewEncoder(w).Encode(true)
	}))

	cleared, err := c.ClearHistory(context.Background(), "tok-1", "alice")
	require.NoError(t, err)
	assert.True(t, cleared)
}

func TestClearHistory_MalformedBody_IsTransportError(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))

	_, err := c.ClearHistory(context.Background(), "tok-1", "alice")
	var te *TransportError
	require.ErrorAs(t, err, &te)
}
