package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSQL_Success(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/generate_sql", r.URL.Path)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		var body GenerationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "show all orders", body.Question)
		require.True(t, body.NeedPredictIntent)
		require.NotNil(t, body.TableName)
		require.Equal(t, "orders", *body.TableName)

		sql := "SELECT * FROM orders;"
		json.NewEncoder(w).Encode(generateResponse{Status: StatusSuccess, ResultData: &sql})
	}))

	table := "orders"
	ddl := "CREATE TABLE orders(id INT)"
	res, err := c.GenerateSQL(context.Background(), "tok-1", GenerationRequest{
		Question:          "show all orders",
		NeedPredictIntent: true,
		Operator:          "alice",
		TableName:         &table,
		DDLContext:        &ddl,
	})
	require.NoError(t, err)
	assert.True(t, res.Succeeded)
	assert.Equal(t, "SELECT * FROM orders;", res.SQL)
}

func TestGenerateSQL_NoSchemaSelected_SendsNulls(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		// Generation without a selected schema is a valid narrower mode;
		// the json null must be explicit, not omitted.
		assert.Equal(t, "null", string(raw["table_name"]))
		assert.Equal(t, "null", string(raw["ddl_context"]))

		sql := "SELECT 1;"
		json.NewEncoder(w).Encode(generateResponse{Status: StatusSuccess, ResultData: &sql})
	}))

	_, err := c.GenerateSQL(context.Background(), "tok-1", GenerationRequest{
		Question: "anything", Operator: "alice",
	})
	require.NoError(t, err)
}

func TestGenerateSQL_ServerReportedFailure_IsResultNotError(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{
			Status:       StatusFailed,
			ErrorContext: &errorContext{ErrorMessage: "intent not recognized"},
		})
	}))

	res, err := c.GenerateSQL(context.Background(), "tok-1", GenerationRequest{Question: "?"})
	require.NoError(t, err)
	assert.False(t, res.Succeeded)
	assert.Equal(t, "intent not recognized", res.ErrorMessage)
}

func TestGenerateSQL_Unauthorized_UsesSessionExpiredMessage(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.GenerateSQL(context.Background(), "stale", GenerationRequest{Question: "?"})
	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, SessionExpiredMessage, ae.Detail)
}

func TestGenerateSQL_SuccessWithoutResultData_IsFailure(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Status: StatusSuccess})
	}))

	res, err := c.GenerateSQL(context.Background(), "tok-1", GenerationRequest{Question: "?"})
	require.NoError(t, err)
	assert.False(t, res.Succeeded)
	assert.NotEmpty(t, res.ErrorMessage)
}
