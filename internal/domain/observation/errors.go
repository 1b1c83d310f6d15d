package observation

import "errors"

var (
	// ErrInvalidObservation indicates missing required observation fields.
	ErrInvalidObservation = errors.New("invalid observation")
	// ErrInvalidEvidence indicates evidence with neither storage path nor payload.
	ErrInvalidEvidence = errors.New("invalid evidence: storage path or payload required")
	// ErrUnknownPriority indicates a stored priority outside the closed set.
	ErrUnknownPriority = errors.New("unknown observation priority")
	// ErrUnknownEvidenceType indicates a stored evidence type outside the closed set.
	ErrUnknownEvidenceType = errors.New("unknown evidence type")
)
