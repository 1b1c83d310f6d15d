package session

import (
	"context"

	"github.com/fieldcheck/inspectd/internal/domain/observation"
	"github.com/fieldcheck/inspectd/internal/domain/step"
)

// SessionRepository provides tenant-scoped persistence for sessions.
type SessionRepository interface {
	Save(ctx context.Context, tenantID string, sess *InspectionSession) error
	Get(ctx context.Context, tenantID, id string) (*InspectionSession, error)
}

// StepRepository provides tenant-scoped persistence for steps.
// ListBySession returns steps ordered by their presentation order.
type StepRepository interface {
	Save(ctx context.Context, tenantID, sessionID string, st *step.Step) error
	ListBySession(ctx context.Context, tenantID, sessionID string) ([]step.Step, error)
}

// ObservationRepository provides tenant-scoped persistence for observations.
type ObservationRepository interface {
	Save(ctx context.Context, tenantID, sessionID string, obs *observation.Observation) error
	Get(ctx context.Context, tenantID, sessionID, id string) (*observation.Observation, error)
	ListForStep(ctx context.Context, tenantID, sessionID, stepID string) ([]observation.Observation, error)
	SetEvidenceIDs(ctx context.Context, tenantID, sessionID, id string, evidenceIDs []string) error
}

// EvidenceRepository provides tenant-scoped persistence for evidence.
type EvidenceRepository interface {
	Save(ctx context.Context, tenantID, sessionID string, ev *observation.Evidence) error
}

// PlannedStep is a step proposal produced by a planner before the workflow
// service materializes it into a persisted Step.
type PlannedStep struct {
	Order  int
	Type   step.Type
	Prompt string
}

// NextPlan describes what, if anything, follows an answered step.
type NextPlan struct {
	CompletedStepID string
	Prompt          string
	HasNext         bool
}

// Planner produces the steps for a stated goal and decides what prompt comes
// after an answer. The core makes no assumption about the planning algorithm;
// it only requires at least one step and a human-readable first prompt. A
// planner failure is surfaced as a retryable condition, never fabricated
// steps.
type Planner interface {
	PlanInitialSteps(ctx context.Context, goal string, constraints map[string]any) ([]PlannedStep, string, error)
	PlanNextPrompt(ctx context.Context, currentStepID, answer string, steps []step.Step) (NextPlan, error)
}
