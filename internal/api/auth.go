package api

import (
	"context"
	"errors"
)

// Fallback messages, used verbatim when the server sends no detail.
const (
	fallbackLogin    = "Invalid credentials."
	fallbackRegister = "Username may already exist or system error."
	fallbackLookup   = "Username not found or recovery not set up."
	fallbackReset    = "Incorrect recovery answers provided."
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Login exchanges a username/password pair for a bearer token. The password
// is never logged and never retained past the round-trip.
func (c *Client) Login(ctx context.Context, username, password string) (Credentials, error) {
	var resp tokenResponse
	err := c.do(ctx, "POST", "/auth/token", "", loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		var he *httpError
		if errors.As(err, &he) {
			return Credentials{}, &AuthError{Detail: detailOr(he, fallbackLogin)}
		}
		return Credentials{}, err
	}
	if resp.AccessToken == "" {
		return Credentials{}, &TransportError{Op: "login: empty access token"}
	}
	return Credentials{Token: resp.AccessToken, Username: username}, nil
}

// Register creates the account and returns a live session in the same call:
// the server issues the token immediately, so registration implies login.
// Field-level validation (non-empty, password confirmation) happens in the
// form before this is ever reached.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (Credentials, error) {
	var resp tokenResponse
	err := c.do(ctx, "POST", "/auth/register", "", req, &resp)
	if err != nil {
		var he *httpError
		if errors.As(err, &he) {
			return Credentials{}, &ConflictError{Detail: detailOr(he, fallbackRegister)}
		}
		return Credentials{}, err
	}
	if resp.AccessToken == "" {
		return Credentials{}, &TransportError{Op: "register: empty access token"}
	}
	return Credentials{Token: resp.AccessToken, Username: req.User.Username}, nil
}

type usernameRequest struct {
	Username string `json:"username"`
}

type questionsResponse struct {
	Questions []string `json:"questions"`
}

// RecoveryQuestions is step 1 of password recovery: look up the three
// recovery questions registered for username. The server returns exactly
// three; anything else is treated as a malformed response.
func (c *Client) RecoveryQuestions(ctx context.Context, username string) ([3]string, error) {
	var resp questionsResponse
	err := c.do(ctx, "POST", "/auth/reset-password/questions", "", usernameRequest{Username: username}, &resp)
	if err != nil {
		var he *httpError
		if errors.As(err, &he) {
			return [3]string{}, &NotFoundError{Detail: detailOr(he, fallbackLookup)}
		}
		return [3]string{}, err
	}
	if len(resp.Questions) != 3 {
		return [3]string{}, &TransportError{Op: "recovery questions: expected 3 questions"}
	}
	return [3]string{resp.Questions[0], resp.Questions[1], resp.Questions[2]}, nil
}

// ResetPassword is step 2: the fetched questions are echoed back inside
// req.RecoverySet alongside the user's answers so the server can re-verify
// the pairing. A rejection (wrong answers) is a ConflictError — shown inline,
// recovery state unchanged.
func (c *Client) ResetPassword(ctx context.Context, req ResetRequest) error {
	err := c.do(ctx, "POST", "/auth/reset-password", "", req, nil)
	if err != nil {
		var he *httpError
		if errors.As(err, &he) {
			return &ConflictError{Detail: detailOr(he, fallbackReset)}
		}
		return err
	}
	return nil
}
