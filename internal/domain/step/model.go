package step

import "time"

// Type classifies what kind of check a step represents.
type Type string

const (
	TypeCheck     Type = "check"
	TypeDocument  Type = "document"
	TypeMicroFlow Type = "micro_flow"
)

// Status represents the workflow status of a step.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusSkipped    Status = "skipped"
)

// Source records how a step entered the session workflow.
type Source string

const (
	SourceInitial  Source = "initial"
	SourceAdded    Source = "added"
	SourceBranched Source = "branched"
)

// Step is one question/check unit within a session's ordered workflow.
// Steps are owned by their session and are never deleted; only the
// session workflow service transitions their status.
type Step struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Order     int       `json:"order"`
	Type      Type      `json:"type"`
	Prompt    string    `json:"prompt"`
	TargetID  *string   `json:"target_id,omitempty"`
	Status    Status    `json:"status"`
	Source    Source    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ParseType validates a stored step type.
func ParseType(value string) (Type, error) {
	switch Type(value) {
	case TypeCheck, TypeDocument, TypeMicroFlow:
		return Type(value), nil
	}
	return "", &UnknownEnumError{Field: "type", Value: value}
}

// ParseStatus validates a stored step status.
func ParseStatus(value string) (Status, error) {
	switch Status(value) {
	case StatusPending, StatusInProgress, StatusCompleted, StatusSkipped:
		return Status(value), nil
	}
	return "", &UnknownEnumError{Field: "status", Value: value}
}

// ParseSource validates a stored step source. An empty value defaults to
// "initial"; anything else outside the closed set is a data-integrity error.
func ParseSource(value string) (Source, error) {
	if value == "" {
		return SourceInitial, nil
	}
	switch Source(value) {
	case SourceInitial, SourceAdded, SourceBranched:
		return Source(value), nil
	}
	return "", &UnknownEnumError{Field: "source", Value: value}
}
