package recovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlpilot/internal/api"
)

var testQuestions = [3]string{"Pet's name?", "Birth city?", "Maiden name?"}

func TestInitialState(t *testing.T) {
	t.Parallel()
	m := New()

	assert.Equal(t, AwaitingUsername, m.Step())
	_, ok := m.Questions()
	assert.False(t, ok)
}

func TestQuestionsFetched_TransitionsToAwaitingAnswers(t *testing.T) {
	t.Parallel()
	m := New().QuestionsFetched("alice", testQuestions)

	assert.Equal(t, AwaitingAnswers, m.Step())
	assert.Equal(t, "alice", m.Username())

	qs, ok := m.Questions()
	require.True(t, ok)
	assert.Equal(t, testQuestions, qs)
}

func TestBack_DiscardsQuestions(t *testing.T) {
	t.Parallel()
	m := New().QuestionsFetched("alice", testQuestions).Back()

	assert.Equal(t, AwaitingUsername, m.Step())
	assert.Empty(t, m.Username())
	_, ok := m.Questions()
	assert.False(t, ok)
}

func TestWrongAnswers_StatePreserved(t *testing.T) {
	t.Parallel()
	// A rejected reset leaves the machine untouched: same state, same
	// questions. The machine is a value, so "remaining" is the absence of
	// a transition.
	m := New().QuestionsFetched("alice", testQuestions)

	_, err := m.ResetRequest("newpw", [3]string{"a", "b", "c"})
	require.NoError(t, err)

	assert.Equal(t, AwaitingAnswers, m.Step())
	qs, ok := m.Questions()
	require.True(t, ok)
	assert.Equal(t, testQuestions, qs)
}

func TestResetRequest_EchoesQuestions(t *testing.T) {
	t.Parallel()
	m := New().QuestionsFetched("alice", testQuestions)

	req, err := m.ResetRequest("newpw1", [3]string{"rex", "berlin", "smith"})
	require.NoError(t, err)

	assert.Equal(t, "alice", req.Username)
	assert.Equal(t, "newpw1", req.NewPassword)
	assert.Equal(t, api.RecoverySet{
		Question1: "Pet's name?", Answer1: "rex",
		Question2: "Birth city?", Answer2: "berlin",
		Question3: "Maiden name?", Answer3: "smith",
	}, req.RecoverySet)
}

func TestResetRequest_WithoutChallenge_Fails(t *testing.T) {
	t.Parallel()
	m := New()

	_, err := m.ResetRequest("newpw", [3]string{"a", "b", "c"})
	var ve *api.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestValidateReset(t *testing.T) {
	t.Parallel()
	full := [3]string{"a", "b", "c"}

	assert.NoError(t, ValidateReset("abcdef", "abcdef", full))

	var ve *api.ValidationError
	assert.ErrorAs(t, ValidateReset("abcdef", "abcdeg", full), &ve)
	assert.ErrorAs(t, ValidateReset("", "", full), &ve)
	assert.ErrorAs(t, ValidateReset("abcdef", "abcdef", [3]string{"a", "", "c"}), &ve)
}
