package session

import (
	"strings"
	"time"
)

// Status represents the lifecycle status of an inspection session.
// Transitions are monotonic: created -> in_progress -> completed.
type Status string

const (
	StatusCreated    Status = "created"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// minGoalLength is the policy threshold below which a goal is considered too
// vague to plan against.
const minGoalLength = 3

// Intent is the user-stated inspection goal plus optional constraints.
// Immutable once constructed.
type Intent struct {
	Goal        string         `json:"goal"`
	Constraints map[string]any `json:"constraints,omitempty"`
}

// NewIntent validates and constructs an intent. A goal that is empty after
// trimming is rejected outright; a goal shorter than the clarification
// threshold yields ErrClarificationNeeded so the caller can ask the user for
// more detail instead of hard-failing.
func NewIntent(goal string, constraints map[string]any) (Intent, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return Intent{}, ErrInvalidInput
	}
	if len(goal) < minGoalLength {
		return Intent{}, ErrClarificationNeeded
	}
	return Intent{Goal: goal, Constraints: constraints}, nil
}

// Target identifies what is being inspected (e.g. a vehicle or property).
type Target struct {
	Type        string  `json:"type"`
	Identifier  *string `json:"identifier,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
}

// InspectionSession is the aggregate root for one guided inspection.
// TenantID and CreatedBy are set at construction and never change. Status,
// CompletedAt and RecordID are mutated only through StartProgress and
// Complete; no other component writes them.
type InspectionSession struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenant_id"`
	Status      Status     `json:"status"`
	Intent      Intent     `json:"intent"`
	Target      *Target    `json:"target,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CreatedBy   string     `json:"created_by"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	RecordID    *string    `json:"record_id,omitempty"`
}

// NewSession constructs a session in the created state.
func NewSession(id, tenantID, createdBy string, intent Intent, target *Target, now time.Time) (*InspectionSession, error) {
	if tenantID == "" || createdBy == "" {
		return nil, ErrInvalidInput
	}
	return &InspectionSession{
		ID:        id,
		TenantID:  tenantID,
		Status:    StatusCreated,
		Intent:    intent,
		Target:    target,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: createdBy,
	}, nil
}

// StartProgress transitions created -> in_progress. Calling it on a session
// that is already past created is a contract violation.
func (s *InspectionSession) StartProgress(now time.Time) error {
	if s.Status != StatusCreated {
		return ErrInvalidTransition
	}
	s.Status = StatusInProgress
	s.UpdatedAt = now
	return nil
}

// Complete transitions the session to completed. It is idempotent: repeating
// it on a completed session is a no-op, so retried completion requests never
// error and never touch CompletedAt or RecordID again.
func (s *InspectionSession) Complete(recordID string, now time.Time) {
	if s.Status == StatusCompleted {
		return
	}
	s.Status = StatusCompleted
	s.CompletedAt = &now
	if recordID != "" {
		s.RecordID = &recordID
	}
	s.UpdatedAt = now
}

// ParseStatus validates a stored session status.
func ParseStatus(value string) (Status, error) {
	switch Status(value) {
	case StatusCreated, StatusInProgress, StatusCompleted:
		return Status(value), nil
	}
	return "", ErrUnknownStatus
}
