// Package recovery implements the two-step password recovery flow as an
// explicit state machine: AwaitingUsername -> AwaitingAnswers -> done. The
// fetched questions live only inside the AwaitingAnswers state, so building
// a reset request without them is unrepresentable.
package recovery

import (
	"sqlpilot/internal/api"
)

// Step names the machine's states.
type Step int

const (
	AwaitingUsername Step = iota
	AwaitingAnswers
)

// Machine is a value type; transitions return the next machine. The zero
// value is the initial AwaitingUsername state.
type Machine struct {
	step      Step
	username  string
	questions [3]string
}

// New returns a machine in AwaitingUsername.
func New() Machine { return Machine{} }

// Step reports the current state.
func (m Machine) Step() Step { return m.step }

// Username returns the username the challenge was fetched for. Empty in
// AwaitingUsername.
func (m Machine) Username() string { return m.username }

// Questions returns the fetched recovery questions and whether they are
// available (only in AwaitingAnswers).
func (m Machine) Questions() ([3]string, bool) {
	if m.step != AwaitingAnswers {
		return [3]string{}, false
	}
	return m.questions, true
}

// QuestionsFetched transitions to AwaitingAnswers carrying the server's
// challenge. Called only after a successful question lookup.
func (m Machine) QuestionsFetched(username string, questions [3]string) Machine {
	return Machine{step: AwaitingAnswers, username: username, questions: questions}
}

// Back discards the fetched questions and returns to AwaitingUsername. Always
// available from AwaitingAnswers; a no-op in AwaitingUsername.
func (m Machine) Back() Machine { return Machine{} }

// ValidateReset performs the local step-2 checks: the two password fields
// must match and nothing may be empty. On failure a ValidationError is
// returned and no network call may be made.
func ValidateReset(newPassword, confirmPassword string, answers [3]string) error {
	if newPassword == "" || confirmPassword == "" {
		return &api.ValidationError{Detail: "Please fill in all required fields."}
	}
	for _, a := range answers {
		if a == "" {
			return &api.ValidationError{Detail: "Please fill in all required fields."}
		}
	}
	if newPassword != confirmPassword {
		return &api.ValidationError{Detail: "New Password and Confirm New Password must match."}
	}
	return nil
}

// ResetRequest assembles the step-2 payload, echoing the stored questions
// back alongside the user's answers. Fails when called outside
// AwaitingAnswers — the only way to obtain the questions is to have fetched
// them.
func (m Machine) ResetRequest(newPassword string, answers [3]string) (api.ResetRequest, error) {
	if m.step != AwaitingAnswers {
		return api.ResetRequest{}, &api.ValidationError{Detail: "No recovery challenge in progress."}
	}
	return api.ResetRequest{
		Username:    m.username,
		NewPassword: newPassword,
		RecoverySet: api.RecoverySet{
			Question1: m.questions[0], Answer1: answers[0],
			Question2: m.questions[1], Answer2: answers[1],
			Question3: m.questions[2], Answer3: answers[2],
		},
	}, nil
}
