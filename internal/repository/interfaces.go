package repository

import (
	"context"

	"github.com/fieldcheck/inspectd/internal/domain/observation"
	"github.com/fieldcheck/inspectd/internal/domain/step"
)

// All stores are tenant-partitioned: the partition key is always
// (tenantID, sessionID, ...) and no operation reads or writes across a
// tenant boundary.

// SessionRepository is declared in the session package (as
// session.SessionRepository) because session's service depends on this
// package for ErrNotFound; declaring it here would import the session
// package back and create an import cycle.

// StepRepository manages step persistence
type StepRepository interface {
	Save(ctx context.Context, tenantID, sessionID string, st *step.Step) error
	ListBySession(ctx context.Context, tenantID, sessionID string) ([]step.Step, error)
}

// ObservationRepository manages observation persistence
type ObservationRepository interface {
	Save(ctx context.Context, tenantID, sessionID string, obs *observation.Observation) error
	Get(ctx context.Context, tenantID, sessionID, id string) (*observation.Observation, error)
	ListForStep(ctx context.Context, tenantID, sessionID, stepID string) ([]observation.Observation, error)
	SetEvidenceIDs(ctx context.Context, tenantID, sessionID, id string, evidenceIDs []string) error
}

// EvidenceRepository manages evidence persistence
type EvidenceRepository interface {
	Save(ctx context.Context, tenantID, sessionID string, ev *observation.Evidence) error
}
