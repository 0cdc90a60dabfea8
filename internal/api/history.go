package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

const fallbackHistory = "Could not fetch history. Ensure the backend is running and the token is valid."

// ListHistory fetches the query history for username, newest ordering as the
// server returns it. A 401 escalates to AuthError so the history panel can
// signal a global logout.
func (c *Client) ListHistory(ctx context.Context, token, username string) ([]HistoryRecord, error) {
	var out []HistoryRecord
	err := c.do(ctx, "GET", "/history/"+url.PathEscape(username), token, nil, &out)
	if err != nil {
		var he *httpError
		if errors.As(err, &he) {
			if he.StatusCode == http.StatusUnauthorized {
				return nil, &AuthError{Detail: "Session expired. Logging out..."}
			}
			return nil, &TransportError{Op: "list history: " + detailOr(he, fallbackHistory)}
		}
		return nil, err
	}
	return out, nil
}

// ClearHistory deletes all history rows for username. The server answers
// with a bare boolean; false means nothing was deleted.
func (c *Client) ClearHistory(ctx context.Context, token, username string) (bool, error) {
	var cleared bool
	err := c.do(ctx, "DELETE", "/history/"+url.PathEscape(username), token, nil, &cleared)
	if err != nil {
		var he *httpError
		if errors.As(err, &he) {
			if he.StatusCode == http.StatusUnauthorized {
				return false, &AuthError{Detail: "Session expired. Logging out..."}
			}
			return false, &TransportError{Op: "clear history: " + detailOr(he, "Failed to delete history.")}
		}
		return false, err
	}
	return cleared, nil
}
