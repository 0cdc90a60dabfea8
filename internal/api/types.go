package api

import "time"

// Wire types for the Text-to-SQL service. Field names track the server's
// JSON contract exactly; see the endpoint list in the package doc on Client.

// Credentials is what a successful login or registration yields: the bearer
// token plus the username it was issued for. The pair travels together — a
// token without its username is useless to the panels.
type Credentials struct {
	Token    string
	Username string
}

// RegisterUser is the user sub-object of a registration payload.
type RegisterUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

// RecoverySet carries the three recovery question/answer pairs. Registration
// sends the user's chosen pairs; password reset echoes the fetched questions
// back alongside the user-supplied answers so the server can re-verify the
// pairing.
type RecoverySet struct {
	Question1 string `json:"question_1"`
	Answer1   string `json:"answer_1"`
	Question2 string `json:"question_2"`
	Answer2   string `json:"answer_2"`
	Question3 string `json:"question_3"`
	Answer3   string `json:"answer_3"`
}

// RegisterRequest is the composite registration payload.
type RegisterRequest struct {
	User     RegisterUser `json:"user"`
	Recovery RecoverySet  `json:"recovery"`
}

// ResetRequest is the step-2 payload of the password recovery flow.
type ResetRequest struct {
	Username    string      `json:"username"`
	NewPassword string      `json:"new_password"`
	RecoverySet RecoverySet `json:"recovery_set"`
}

// SchemaContext is a named table definition a user registers so it can be
// attached to a generation request for grounding. TableName is the identity
// key and is immutable after creation; only DDLContext may change.
type SchemaContext struct {
	ID         int    `json:"id,omitempty"`
	TableName  string `json:"table_name"`
	DDLContext string `json:"ddl_context"`
	Operator   string `json:"operator"`
}

// GenerationRequest is the /generate_sql payload. TableName and DDLContext
// are null when no schema is selected; generation without schema context is
// a valid, narrower mode.
type GenerationRequest struct {
	Question          string  `json:"question"`
	NeedPredictIntent bool    `json:"need_predict_intent"`
	Operator          string  `json:"operator"`
	TableName         *string `json:"table_name"`
	DDLContext        *string `json:"ddl_context"`
}

// Generation statuses as the server spells them.
const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// GenerationResult normalizes the generate response into a single shape:
// either SQL text or an error message, discriminated by Succeeded.
type GenerationResult struct {
	Succeeded    bool
	SQL          string
	ErrorMessage string
}

// errorContext mirrors the server's failure envelope. Only error_message is
// surfaced to the user.
type errorContext struct {
	ErrorMessage string `json:"error_message"`
	ErrorType    string `json:"error_type,omitempty"`
}

type generateResponse struct {
	Status       string        `json:"status"`
	ResultData   *string       `json:"result_data"`
	ErrorContext *errorContext `json:"error_context"`
}

// HistoryRecord is one row of the per-user query history, read-only from the
// client's perspective.
type HistoryRecord struct {
	ID           int       `json:"id"`
	GmtCreate    time.Time `json:"gmt_create"`
	Question     string    `json:"question"`
	GeneratedSQL *string   `json:"generated_sql"`
	Status       string    `json:"status"`
}
