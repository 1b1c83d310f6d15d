package observation

import "time"

// EvidenceType classifies an evidence artifact.
type EvidenceType string

const (
	EvidenceNote        EvidenceType = "note"
	EvidencePhoto       EvidenceType = "photo"
	EvidenceMeasurement EvidenceType = "measurement"
	EvidenceFile        EvidenceType = "file"
)

// Evidence is a file-backed or inline artifact attached to an observation.
// Exactly one of StoragePath or Payload must be present: StoragePath for
// binary/file-backed evidence, Payload for inline structured data.
// Immutable after creation.
type Evidence struct {
	ID            string         `json:"id"`
	SessionID     string         `json:"session_id"`
	ObservationID string         `json:"observation_id"`
	Type          EvidenceType   `json:"type"`
	StoragePath   *string        `json:"storage_path,omitempty"`
	Payload       map[string]any `json:"payload,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	CreatedBy     string         `json:"created_by"`
}

// NewEvidence constructs evidence, enforcing the one-of invariant.
func NewEvidence(id, sessionID, observationID, createdBy string, typ EvidenceType, storagePath string, payload map[string]any, createdAt time.Time) (*Evidence, error) {
	if observationID == "" || createdBy == "" {
		return nil, ErrInvalidEvidence
	}
	if storagePath == "" && payload == nil {
		return nil, ErrInvalidEvidence
	}
	ev := &Evidence{
		ID:            id,
		SessionID:     sessionID,
		ObservationID: observationID,
		Type:          typ,
		Payload:       payload,
		CreatedAt:     createdAt,
		CreatedBy:     createdBy,
	}
	if storagePath != "" {
		ev.StoragePath = &storagePath
	}
	return ev, nil
}

// ParseEvidenceType validates a stored evidence type.
func ParseEvidenceType(value string) (EvidenceType, error) {
	switch EvidenceType(value) {
	case EvidenceNote, EvidencePhoto, EvidenceMeasurement, EvidenceFile:
		return EvidenceType(value), nil
	}
	return "", ErrUnknownEvidenceType
}
