package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/fieldcheck/inspectd/internal/domain/observation"
	"github.com/fieldcheck/inspectd/internal/domain/record"
	"github.com/fieldcheck/inspectd/internal/domain/step"
	"github.com/fieldcheck/inspectd/internal/repository"
)

// EvidencePolicy carries the configured evidence limits. The allowed type set
// and size limits are configuration inputs, not hardcoded here.
type EvidencePolicy struct {
	AllowedTypes      []string
	MaxPayloadBytes   int
	MaxPerObservation int
}

// Allows reports whether the policy permits the given evidence type.
func (p EvidencePolicy) Allows(typ string) bool {
	return slices.Contains(p.AllowedTypes, typ)
}

// Service orchestrates the inspection session workflow: it owns the session
// aggregate's transitions and sequences calls to the planner and the stores.
type Service struct {
	sessions     SessionRepository
	steps        StepRepository
	observations ObservationRepository
	evidence     EvidenceRepository
	planner      Planner
	policy       EvidencePolicy
	logger       *slog.Logger
}

// NewService creates a new workflow service.
func NewService(
	sessions SessionRepository,
	steps StepRepository,
	observations ObservationRepository,
	evidence EvidenceRepository,
	planner Planner,
	policy EvidencePolicy,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sessions:     sessions,
		steps:        steps,
		observations: observations,
		evidence:     evidence,
		planner:      planner,
		policy:       policy,
		logger:       logger,
	}
}

// Prompt is the question currently presented to the user.
type Prompt struct {
	StepID string    `json:"stepId"`
	Text   string    `json:"text"`
	Type   step.Type `json:"type"`
}

// CreateRequest describes a session creation request.
type CreateRequest struct {
	CreatedBy   string
	Goal        string
	Constraints map[string]any
	Target      *Target
}

// CreateResult holds the created session and its initial workflow.
type CreateResult struct {
	SessionID     string
	Status        Status
	InitialSteps  []step.Step
	CurrentPrompt *Prompt
}

// SessionView supports client-side resumption of an interrupted session.
type SessionView struct {
	SessionID     string
	Status        Status
	CurrentPrompt *Prompt
	TotalSteps    int
}

// AnswerRequest describes an answer submission.
type AnswerRequest struct {
	CreatedBy string
	Answer    string
	Priority  string
}

// StepCompleted describes the step an answer closed out.
type StepCompleted struct {
	StepID string      `json:"stepId"`
	Order  int         `json:"order"`
	Type   step.Type   `json:"type"`
	Status step.Status `json:"status"`
}

// AnswerResult holds the outcome of an answer submission.
type AnswerResult struct {
	HasNext       bool
	Prompt        *Prompt
	StepCompleted *StepCompleted
	SessionStatus Status
}

// EvidenceRequest describes an evidence attachment request.
type EvidenceRequest struct {
	CreatedBy     string
	ObservationID string
	Type          string
	StoragePath   string
	Payload       map[string]any
}

// CreateSession builds an intent, creates the session aggregate, moves it to
// in_progress, asks the planner for the initial steps and persists everything.
func (s *Service) CreateSession(ctx context.Context, tenantID string, req CreateRequest) (*CreateResult, error) {
	intent, err := NewIntent(req.Goal, req.Constraints)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sess, err := NewSession(uuid.NewString(), tenantID, req.CreatedBy, intent, req.Target, now)
	if err != nil {
		return nil, err
	}
	if err := sess.StartProgress(now); err != nil {
		return nil, err
	}

	planned, firstPrompt, err := s.planner.PlanInitialSteps(ctx, intent.Goal, intent.Constraints)
	if err != nil {
		return nil, unavailable("planning initial steps", err)
	}

	if err := s.sessions.Save(ctx, tenantID, sess); err != nil {
		return nil, unavailable("saving session", err)
	}

	steps := make([]step.Step, 0, len(planned))
	for _, p := range planned {
		st := step.Step{
			ID:        uuid.NewString(),
			SessionID: sess.ID,
			Order:     p.Order,
			Type:      p.Type,
			Prompt:    p.Prompt,
			Status:    step.StatusPending,
			Source:    step.SourceInitial,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.steps.Save(ctx, tenantID, sess.ID, &st); err != nil {
			return nil, unavailable("saving step", err)
		}
		steps = append(steps, st)
	}

	result := &CreateResult{
		SessionID:    sess.ID,
		Status:       sess.Status,
		InitialSteps: steps,
	}
	if len(steps) > 0 {
		result.CurrentPrompt = &Prompt{StepID: steps[0].ID, Text: firstPrompt, Type: steps[0].Type}
	}

	s.logger.Info("session created", "tenant", tenantID, "session", sess.ID, "steps", len(steps))
	return result, nil
}

// GetSession returns the session's status and the prompt to resume from.
func (s *Service) GetSession(ctx context.Context, tenantID, sessionID string) (*SessionView, error) {
	sess, err := s.loadSession(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}

	steps, err := s.steps.ListBySession(ctx, tenantID, sessionID)
	if err != nil {
		return nil, unavailable("loading steps", err)
	}

	view := &SessionView{
		SessionID:  sess.ID,
		Status:     sess.Status,
		TotalSteps: len(steps),
	}
	if current := currentStep(steps); current != nil {
		view.CurrentPrompt = &Prompt{StepID: current.ID, Text: current.Prompt, Type: current.Type}
	}
	return view, nil
}

// SubmitAnswer records an observation against the first step, completes that
// step and asks the planner what comes next. A session without steps is a
// valid terminal state and yields HasNext=false rather than an error.
func (s *Service) SubmitAnswer(ctx context.Context, tenantID, sessionID string, req AnswerRequest) (*AnswerResult, error) {
	sess, err := s.loadSession(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}

	steps, err := s.steps.ListBySession(ctx, tenantID, sessionID)
	if err != nil {
		return nil, unavailable("loading steps", err)
	}
	if len(steps) == 0 {
		return &AnswerResult{HasNext: false, SessionStatus: sess.Status}, nil
	}

	now := time.Now().UTC()
	current := steps[0]
	obs, err := observation.New(
		uuid.NewString(),
		sessionID,
		current.ID,
		req.Answer,
		req.CreatedBy,
		observation.PriorityOrDefault(req.Priority),
		now,
	)
	if err != nil {
		return nil, ErrInvalidInput
	}
	if err := s.observations.Save(ctx, tenantID, sessionID, obs); err != nil {
		return nil, unavailable("saving observation", err)
	}

	current.Status = step.StatusCompleted
	current.UpdatedAt = now
	if err := s.steps.Save(ctx, tenantID, sessionID, &current); err != nil {
		return nil, unavailable("saving step", err)
	}
	steps[0] = current

	plan, err := s.planner.PlanNextPrompt(ctx, current.ID, obs.Content, steps)
	if err != nil {
		return nil, unavailable("planning next prompt", err)
	}

	result := &AnswerResult{
		HasNext: plan.HasNext,
		StepCompleted: &StepCompleted{
			StepID: current.ID,
			Order:  current.Order,
			Type:   current.Type,
			Status: current.Status,
		},
		SessionStatus: sess.Status,
	}
	if plan.Prompt != "" {
		result.Prompt = &Prompt{Text: plan.Prompt, Type: step.TypeCheck}
	}
	return result, nil
}

// AddEvidence attaches evidence to an observation and links its id back onto
// the observation's evidence list. Allowed types and the payload size limit
// come from the configured policy.
func (s *Service) AddEvidence(ctx context.Context, tenantID, sessionID string, req EvidenceRequest) (string, error) {
	if _, err := s.loadSession(ctx, tenantID, sessionID); err != nil {
		return "", err
	}

	if req.ObservationID == "" {
		return "", fmt.Errorf("%w: observationId is required", ErrInvalidInput)
	}
	typ, err := observation.ParseEvidenceType(req.Type)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !s.policy.Allows(req.Type) {
		return "", fmt.Errorf("%w: evidence type %q not allowed", ErrInvalidInput, req.Type)
	}
	if req.Payload != nil && s.policy.MaxPayloadBytes > 0 {
		encoded, err := json.Marshal(req.Payload)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if len(encoded) > s.policy.MaxPayloadBytes {
			return "", fmt.Errorf("%w: payload exceeds %d bytes", ErrInvalidInput, s.policy.MaxPayloadBytes)
		}
	}

	obs, err := s.observations.Get(ctx, tenantID, sessionID, req.ObservationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("%w: unknown observation", ErrInvalidInput)
		}
		return "", unavailable("loading observation", err)
	}
	if s.policy.MaxPerObservation > 0 && len(obs.EvidenceIDs) >= s.policy.MaxPerObservation {
		return "", fmt.Errorf("%w: observation already has %d evidence items", ErrInvalidInput, len(obs.EvidenceIDs))
	}

	ev, err := observation.NewEvidence(
		uuid.NewString(),
		sessionID,
		req.ObservationID,
		req.CreatedBy,
		typ,
		req.StoragePath,
		req.Payload,
		time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.evidence.Save(ctx, tenantID, sessionID, ev); err != nil {
		return "", unavailable("saving evidence", err)
	}
	linked := append(append([]string{}, obs.EvidenceIDs...), ev.ID)
	if err := s.observations.SetEvidenceIDs(ctx, tenantID, sessionID, obs.ID, linked); err != nil {
		return "", unavailable("linking evidence", err)
	}

	return ev.ID, nil
}

// CompleteSession marks a session completed. Only the original creator may
// complete it; repeated completion requests are no-ops.
func (s *Service) CompleteSession(ctx context.Context, tenantID, sessionID, requestingUserID string) (*InspectionSession, error) {
	sess, err := s.loadSession(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.CreatedBy != requestingUserID {
		return nil, ErrForbidden
	}

	sess.Complete("", time.Now().UTC())
	if err := s.sessions.Save(ctx, tenantID, sess); err != nil {
		return nil, unavailable("saving session", err)
	}

	s.logger.Info("session completed", "tenant", tenantID, "session", sessionID)
	return sess, nil
}

// GetRecord derives the decision-ready record from the session's persisted
// steps and observations. The record is recomputed on every request; it is
// only available once the session is completed.
func (s *Service) GetRecord(ctx context.Context, tenantID, sessionID string) (*record.Record, error) {
	sess, err := s.loadSession(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status != StatusCompleted {
		return nil, ErrRecordNotAvailable
	}

	steps, err := s.steps.ListBySession(ctx, tenantID, sessionID)
	if err != nil {
		return nil, unavailable("loading steps", err)
	}

	obsByStep := make(map[string][]observation.Observation, len(steps))
	for _, st := range steps {
		list, err := s.observations.ListForStep(ctx, tenantID, sessionID, st.ID)
		if err != nil {
			return nil, unavailable("loading observations", err)
		}
		obsByStep[st.ID] = list
	}

	rec := record.Build(tenantID, sessionID, steps, obsByStep, time.Now().UTC())
	return &rec, nil
}

func (s *Service) loadSession(ctx context.Context, tenantID, sessionID string) (*InspectionSession, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}
	sess, err := s.sessions.Get(ctx, tenantID, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, unavailable("loading session", err)
	}
	return sess, nil
}

// currentStep picks the step to resume from: the first pending step, falling
// back to the first step when none are pending.
func currentStep(steps []step.Step) *step.Step {
	for i := range steps {
		if steps[i].Status == step.StatusPending {
			return &steps[i]
		}
	}
	if len(steps) > 0 {
		return &steps[0]
	}
	return nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
