package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

const fallbackSchemaSave = "Check table name uniqueness or input."

// ListSchemas returns the schema contexts registered for username, in server
// order.
func (c *Client) ListSchemas(ctx context.Context, username string) ([]SchemaContext, error) {
	var out []SchemaContext
	err := c.do(ctx, "GET", "/schema/all/"+url.PathEscape(username), "", nil, &out)
	if err != nil {
		var he *httpError
		if errors.As(err, &he) {
			if he.StatusCode == http.StatusUnauthorized {
				return nil, &AuthError{Detail: detailOr(he, "Session expired.")}
			}
			return nil, &TransportError{Op: "list schemas: " + detailOr(he, "server error")}
		}
		return nil, err
	}
	return out, nil
}

// SaveSchema creates or updates a schema context. The server upserts on
// (table_name, operator), so the same call backs both the Add and Edit forms;
// a duplicate table name on create comes back as a ConflictError.
func (c *Client) SaveSchema(ctx context.Context, token string, sc SchemaContext) error {
	err := c.do(ctx, "POST", "/schema", token, sc, nil)
	if err != nil {
		var he *httpError
		if errors.As(err, &he) {
			if he.StatusCode == http.StatusUnauthorized {
				return &AuthError{Detail: detailOr(he, "Session expired.")}
			}
			return &ConflictError{Detail: detailOr(he, fallbackSchemaSave)}
		}
		return err
	}
	return nil
}

// DeleteSchema removes the named schema context for username. Confirmation
// is the caller's job; by the time this is invoked the user has already said
// yes.
func (c *Client) DeleteSchema(ctx context.Context, token, tableName, username string) error {
	path := "/schema/" + url.PathEscape(tableName) + "/" + url.PathEscape(username)
	err := c.do(ctx, "DELETE", path, token, nil, nil)
	if err != nil {
		var he *httpError
		if errors.As(err, &he) {
			if he.StatusCode == http.StatusUnauthorized {
				return &AuthError{Detail: detailOr(he, "Session expired.")}
			}
			return &TransportError{Op: "delete schema: " + detailOr(he, "server error")}
		}
		return err
	}
	return nil
}
