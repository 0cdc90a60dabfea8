package api

import "fmt"

// The client sorts every failure into one of five buckets. Panels decide how
// to present a failure from its bucket alone; the detail string is whatever
// the server sent (or a fallback) and is shown verbatim.

// ValidationError is raised locally before any network call is made
// (mismatched passwords, missing required fields). The request never leaves
// the client.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return e.Detail }

// AuthError means the server rejected the bearer credential (401). Any
// AuthError from an authenticated call must escalate to a global logout.
type AuthError struct {
	Detail string
}

func (e *AuthError) Error() string { return e.Detail }

// ConflictError means the mutation collided with existing state, e.g. a
// duplicate table name. State on both sides is unchanged.
type ConflictError struct {
	Detail string
}

func (e *ConflictError) Error() string { return e.Detail }

// NotFoundError means the named entity does not exist (unknown username
// during recovery). The caller stays in its current state.
type NotFoundError struct {
	Detail string
}

func (e *NotFoundError) Error() string { return e.Detail }

// TransportError covers everything between the client and a well-formed
// server response: unreachable host, timeouts, malformed JSON.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *TransportError) Unwrap() error { return e.Err }
