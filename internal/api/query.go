package api

import (
	"context"
	"errors"
	"net/http"
)

// Messages surfaced by the generate path. SessionExpiredMessage is the
// distinguishable marker the composing layer keys a global logout on.
const (
	SessionExpiredMessage  = "Session expired or invalid token. Please log in again."
	fallbackGenerate       = "Network or internal server error."
	fallbackGenerateResult = "Generation failed."
)

// GenerateSQL submits a generation request and normalizes the outcome into a
// GenerationResult. Transport and auth failures are returned as errors; a
// server-side FAILED status is not an error from the client's point of view —
// it is a well-formed result carrying the error message.
func (c *Client) GenerateSQL(ctx context.Context, token string, req GenerationRequest) (GenerationResult, error) {
	var resp generateResponse
	err := c.do(ctx, "POST", "/generate_sql", token, req, &resp)
	if err != nil {
		var he *httpError
		if errors.As(err, &he) {
			if he.StatusCode == http.StatusUnauthorized {
				return GenerationResult{}, &AuthError{Detail: SessionExpiredMessage}
			}
			return GenerationResult{}, &TransportError{Op: "generate: " + detailOr(he, fallbackGenerate)}
		}
		return GenerationResult{}, err
	}

	if resp.Status == StatusSuccess && resp.ResultData != nil {
		return GenerationResult{Succeeded: true, SQL: *resp.ResultData}, nil
	}

	msg := fallbackGenerateResult
	if resp.ErrorContext != nil && resp.ErrorContext.ErrorMessage != "" {
		msg = resp.ErrorContext.ErrorMessage
	}
	return GenerationResult{Succeeded: false, ErrorMessage: msg}, nil
}
