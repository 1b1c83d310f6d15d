package observation

import (
	"strings"
	"time"
)

// Priority ranks how urgent a recorded finding is.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityNormal   Priority = "normal"
	PriorityLow      Priority = "low"
)

// Observation is a user-submitted answer or finding recorded against a step.
// Observations are append-only; after creation only the evidence-id linkage
// may grow.
type Observation struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	StepID      string    `json:"step_id"`
	Content     string    `json:"content"`
	Priority    Priority  `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by"`
	EvidenceIDs []string  `json:"evidence_ids"`
}

// New constructs an observation, enforcing the required-field invariants.
func New(id, sessionID, stepID, content, createdBy string, priority Priority, createdAt time.Time) (*Observation, error) {
	if stepID == "" || createdBy == "" {
		return nil, ErrInvalidObservation
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrInvalidObservation
	}
	return &Observation{
		ID:        id,
		SessionID: sessionID,
		StepID:    stepID,
		Content:   strings.TrimSpace(content),
		Priority:  priority,
		CreatedAt: createdAt,
		CreatedBy: createdBy,
	}, nil
}

// ParsePriority validates a stored priority. An empty value defaults to
// "normal" per the storage contract; unknown values are rejected.
func ParsePriority(value string) (Priority, error) {
	if value == "" {
		return PriorityNormal, nil
	}
	switch Priority(value) {
	case PriorityCritical, PriorityNormal, PriorityLow:
		return Priority(value), nil
	}
	return "", ErrUnknownPriority
}

// PriorityOrDefault coerces caller-supplied priority text to a valid value.
// The submit path is tolerant: unknown values become "normal" instead of
// rejecting the answer.
func PriorityOrDefault(value string) Priority {
	p, err := ParsePriority(value)
	if err != nil {
		return PriorityNormal
	}
	return p
}
