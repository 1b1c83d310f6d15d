package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fieldcheck/inspectd/internal/domain/observation"
	"github.com/fieldcheck/inspectd/internal/domain/session"
	"github.com/fieldcheck/inspectd/internal/domain/step"
)

// SessionRepository is a mock for repository.SessionRepository.
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Save(ctx context.Context, tenantID string, sess *session.InspectionSession) error {
	args := m.Called(ctx, tenantID, sess)
	return args.Error(0)
}

func (m *SessionRepository) Get(ctx context.Context, tenantID, id string) (*session.InspectionSession, error) {
	args := m.Called(ctx, tenantID, id)
	if sess, ok := args.Get(0).(*session.InspectionSession); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

// StepRepository is a mock for repository.StepRepository.
type StepRepository struct {
	mock.Mock
}

func (m *StepRepository) Save(ctx context.Context, tenantID, sessionID string, st *step.Step) error {
	args := m.Called(ctx, tenantID, sessionID, st)
	return args.Error(0)
}

func (m *StepRepository) ListBySession(ctx context.Context, tenantID, sessionID string) ([]step.Step, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if list, ok := args.Get(0).([]step.Step); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ObservationRepository is a mock for repository.ObservationRepository.
type ObservationRepository struct {
	mock.Mock
}

func (m *ObservationRepository) Save(ctx context.Context, tenantID, sessionID string, obs *observation.Observation) error {
	args := m.Called(ctx, tenantID, sessionID, obs)
	return args.Error(0)
}

func (m *ObservationRepository) Get(ctx context.Context, tenantID, sessionID, id string) (*observation.Observation, error) {
	args := m.Called(ctx, tenantID, sessionID, id)
	if obs, ok := args.Get(0).(*observation.Observation); ok {
		return obs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ObservationRepository) ListForStep(ctx context.Context, tenantID, sessionID, stepID string) ([]observation.Observation, error) {
	args := m.Called(ctx, tenantID, sessionID, stepID)
	if list, ok := args.Get(0).([]observation.Observation); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ObservationRepository) SetEvidenceIDs(ctx context.Context, tenantID, sessionID, id string, evidenceIDs []string) error {
	args := m.Called(ctx, tenantID, sessionID, id, evidenceIDs)
	return args.Error(0)
}

// EvidenceRepository is a mock for repository.EvidenceRepository.
type EvidenceRepository struct {
	mock.Mock
}

func (m *EvidenceRepository) Save(ctx context.Context, tenantID, sessionID string, ev *observation.Evidence) error {
	args := m.Called(ctx, tenantID, sessionID, ev)
	return args.Error(0)
}

// Planner is a mock for session.Planner.
type Planner struct {
	mock.Mock
}

func (m *Planner) PlanInitialSteps(ctx context.Context, goal string, constraints map[string]any) ([]session.PlannedStep, string, error) {
	args := m.Called(ctx, goal, constraints)
	var planned []session.PlannedStep
	if list, ok := args.Get(0).([]session.PlannedStep); ok {
		planned = list
	}
	return planned, args.String(1), args.Error(2)
}

func (m *Planner) PlanNextPrompt(ctx context.Context, currentStepID, answer string, steps []step.Step) (session.NextPlan, error) {
	args := m.Called(ctx, currentStepID, answer, steps)
	plan, _ := args.Get(0).(session.NextPlan)
	return plan, args.Error(1)
}
