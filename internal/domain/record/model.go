package record

import "time"

// Finding is one observation projected into the record summary.
type Finding struct {
	StepID      string   `json:"stepId"`
	Content     string   `json:"content"`
	Priority    string   `json:"priority"`
	CreatedBy   string   `json:"createdBy"`
	EvidenceIDs []string `json:"evidenceIds"`
}

// IncompleteStep is a step that was never answered.
type IncompleteStep struct {
	StepID string `json:"stepId"`
	Prompt string `json:"prompt"`
}

// EvidenceRef is a reserved extension point for summarized evidence.
type EvidenceRef struct {
	EvidenceID string `json:"evidenceId"`
	Type       string `json:"type"`
}

// FollowUp is a reserved extension point for recommended follow-up actions.
type FollowUp struct {
	Description string `json:"description"`
}

// Summary is the decision-ready digest of a completed session. All four
// sequences are always present in the output shape, even when empty, so
// downstream consumers never special-case absence.
type Summary struct {
	Findings        []Finding        `json:"findings"`
	EvidenceSummary []EvidenceRef    `json:"evidenceSummary"`
	Incomplete      []IncompleteStep `json:"incomplete"`
	FollowUps       []FollowUp       `json:"followUps"`
}

// Record is the derived summary of a completed inspection session. It is not
// authoritative state: it is recomputed from the persisted steps,
// observations and evidence on every request.
type Record struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"sessionId"`
	TenantID    string    `json:"tenantId"`
	Summary     Summary   `json:"summary"`
	GeneratedAt time.Time `json:"generatedAt"`
	Version     int       `json:"version"`
}
