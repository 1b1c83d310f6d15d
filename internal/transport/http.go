package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fieldcheck/inspectd/internal/domain/record"
	"github.com/fieldcheck/inspectd/internal/domain/session"
	"github.com/fieldcheck/inspectd/internal/domain/step"
)

// WorkflowService defines the session operations exposed over HTTP.
type WorkflowService interface {
	CreateSession(ctx context.Context, tenantID string, req session.CreateRequest) (*session.CreateResult, error)
	GetSession(ctx context.Context, tenantID, sessionID string) (*session.SessionView, error)
	SubmitAnswer(ctx context.Context, tenantID, sessionID string, req session.AnswerRequest) (*session.AnswerResult, error)
	AddEvidence(ctx context.Context, tenantID, sessionID string, req session.EvidenceRequest) (string, error)
	CompleteSession(ctx context.Context, tenantID, sessionID, requestingUserID string) (*session.InspectionSession, error)
	GetRecord(ctx context.Context, tenantID, sessionID string) (*record.Record, error)
}

// Server wires HTTP handlers for the inspection API.
type Server struct {
	workflow WorkflowService
}

// NewRouter creates the API router with auth and metrics middleware.
func NewRouter(workflow WorkflowService, authMiddleware func(http.Handler) http.Handler, metrics *Metrics) *chi.Mux {
	r := chi.NewRouter()
	srv := &Server{workflow: workflow}

	r.Get("/health", srv.handleHealth)
	if metrics != nil {
		r.Handle("/metrics", metrics.Handler())
	}

	r.Route("/api/v1/tenants/{tenantID}/inspection_sessions", func(r chi.Router) {
		if metrics != nil {
			r.Use(metrics.Middleware)
		}
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}
		r.Post("/", srv.handleCreateSession)
		r.Get("/{sessionID}", srv.handleGetSession)
		r.Post("/{sessionID}/next", srv.handleSubmitAnswer)
		r.Post("/{sessionID}/evidence", srv.handleAddEvidence)
		r.Post("/{sessionID}/complete", srv.handleCompleteSession)
		r.Get("/{sessionID}/record", srv.handleGetRecord)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type intentBody struct {
	Goal        string         `json:"goal"`
	Constraints map[string]any `json:"constraints,omitempty"`
}

type targetBody struct {
	Type        string  `json:"type"`
	Identifier  *string `json:"identifier,omitempty"`
	DisplayName *string `json:"displayName,omitempty"`
}

type createSessionBody struct {
	Intent *intentBody `json:"intent"`
	Target *targetBody `json:"target,omitempty"`
}

type promptResponse struct {
	StepID string `json:"stepId,omitempty"`
	Text   string `json:"text"`
	Type   string `json:"type"`
}

type stepResponse struct {
	StepID string `json:"stepId"`
	Order  int    `json:"order"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

type createSessionResponse struct {
	SessionID     string          `json:"sessionId"`
	Status        string          `json:"status"`
	InitialSteps  []stepResponse  `json:"initialSteps"`
	CurrentPrompt *promptResponse `json:"currentPrompt,omitempty"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	userID, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var body createSessionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Intent == nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "intent is required")
		return
	}

	req := session.CreateRequest{
		CreatedBy:   userID,
		Goal:        body.Intent.Goal,
		Constraints: body.Intent.Constraints,
	}
	if body.Target != nil {
		req.Target = &session.Target{
			Type:        body.Target.Type,
			Identifier:  body.Target.Identifier,
			DisplayName: body.Target.DisplayName,
		}
	}

	result, err := s.workflow.CreateSession(r.Context(), tenantID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := createSessionResponse{
		SessionID:    result.SessionID,
		Status:       string(result.Status),
		InitialSteps: toStepResponses(result.InitialSteps),
	}
	if result.CurrentPrompt != nil {
		resp.CurrentPrompt = toPromptResponse(result.CurrentPrompt)
	}
	writeJSON(w, http.StatusCreated, resp)
}

type getSessionResponse struct {
	SessionID     string          `json:"sessionId"`
	Status        string          `json:"status"`
	CurrentPrompt *promptResponse `json:"currentPrompt,omitempty"`
	Progress      progressInfo    `json:"progress"`
}

type progressInfo struct {
	TotalSteps int `json:"totalSteps"`
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	sessionID := chi.URLParam(r, "sessionID")

	view, err := s.workflow.GetSession(r.Context(), tenantID, sessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := getSessionResponse{
		SessionID: view.SessionID,
		Status:    string(view.Status),
		Progress:  progressInfo{TotalSteps: view.TotalSteps},
	}
	if view.CurrentPrompt != nil {
		resp.CurrentPrompt = toPromptResponse(view.CurrentPrompt)
	}
	writeJSON(w, http.StatusOK, resp)
}

type submitAnswerBody struct {
	Answer      string `json:"answer,omitempty"`
	Observation string `json:"observation,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

type submitAnswerResponse struct {
	HasNext       bool            `json:"hasNext"`
	Prompt        *promptResponse `json:"prompt"`
	StepCompleted *stepResponse   `json:"stepCompleted"`
	SessionStatus string          `json:"sessionStatus"`
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	sessionID := chi.URLParam(r, "sessionID")
	userID, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var body submitAnswerBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "answer or observation is required")
		return
	}
	answer := body.Answer
	if answer == "" {
		answer = body.Observation
	}

	result, err := s.workflow.SubmitAnswer(r.Context(), tenantID, sessionID, session.AnswerRequest{
		CreatedBy: userID,
		Answer:    answer,
		Priority:  body.Priority,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := submitAnswerResponse{
		HasNext:       result.HasNext,
		SessionStatus: string(result.SessionStatus),
	}
	if result.Prompt != nil {
		resp.Prompt = toPromptResponse(result.Prompt)
	}
	if result.StepCompleted != nil {
		resp.StepCompleted = &stepResponse{
			StepID: result.StepCompleted.StepID,
			Order:  result.StepCompleted.Order,
			Type:   string(result.StepCompleted.Type),
			Status: string(result.StepCompleted.Status),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type addEvidenceBody struct {
	ObservationID string         `json:"observationId"`
	Type          string         `json:"type"`
	StoragePath   string         `json:"storagePath,omitempty"`
	Payload       map[string]any `json:"payload,omitempty"`
}

func (s *Server) handleAddEvidence(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	sessionID := chi.URLParam(r, "sessionID")
	userID, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var body addEvidenceBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}

	evidenceID, err := s.workflow.AddEvidence(r.Context(), tenantID, sessionID, session.EvidenceRequest{
		CreatedBy:     userID,
		ObservationID: body.ObservationID,
		Type:          body.Type,
		StoragePath:   body.StoragePath,
		Payload:       body.Payload,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"evidenceId": evidenceID})
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	sessionID := chi.URLParam(r, "sessionID")
	userID, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	sess, err := s.workflow.CompleteSession(r.Context(), tenantID, sessionID, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"sessionId": sess.ID,
		"status":    string(sess.Status),
	})
}

type recordResponse struct {
	SessionID   string         `json:"sessionId"`
	Summary     record.Summary `json:"summary"`
	GeneratedAt string         `json:"generatedAt"`
	Version     int            `json:"version"`
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	sessionID := chi.URLParam(r, "sessionID")

	rec, err := s.workflow.GetRecord(r.Context(), tenantID, sessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recordResponse{
		SessionID:   rec.SessionID,
		Summary:     rec.Summary,
		GeneratedAt: rec.GeneratedAt.Format(time.RFC3339),
		Version:     rec.Version,
	})
}

func toPromptResponse(p *session.Prompt) *promptResponse {
	return &promptResponse{StepID: p.StepID, Text: p.Text, Type: string(p.Type)}
}

func toStepResponses(steps []step.Step) []stepResponse {
	out := make([]stepResponse, 0, len(steps))
	for _, st := range steps {
		out = append(out, stepResponse{
			StepID: st.ID,
			Order:  st.Order,
			Type:   string(st.Type),
			Status: string(st.Status),
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
