package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fieldcheck/inspectd/internal/domain/record"
	"github.com/fieldcheck/inspectd/internal/domain/session"
)

type targetInput struct {
	Type        string  `json:"type" jsonschema:"target kind, e.g. site, asset or vehicle"`
	Identifier  *string `json:"identifier,omitempty" jsonschema:"external identifier of the target"`
	DisplayName *string `json:"displayName,omitempty" jsonschema:"human-readable target name"`
}

type promptOutput struct {
	StepID string `json:"stepId,omitempty"`
	Text   string `json:"text"`
	Type   string `json:"type"`
}

type stepOutput struct {
	StepID string `json:"stepId"`
	Order  int    `json:"order"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

type createSessionInput struct {
	UserID      string         `json:"userId" jsonschema:"identifier of the user starting the inspection"`
	Goal        string         `json:"goal" jsonschema:"what the user wants to inspect"`
	Constraints map[string]any `json:"constraints,omitempty" jsonschema:"optional constraints such as time limits"`
	Target      *targetInput   `json:"target,omitempty" jsonschema:"optional subject of the inspection"`
}

type createSessionOutput struct {
	SessionID     string        `json:"sessionId"`
	Status        string        `json:"status"`
	InitialSteps  []stepOutput  `json:"initialSteps"`
	CurrentPrompt *promptOutput `json:"currentPrompt,omitempty"`
}

type getSessionInput struct {
	SessionID string `json:"sessionId" jsonschema:"inspection session identifier"`
}

type getSessionOutput struct {
	SessionID     string        `json:"sessionId"`
	Status        string        `json:"status"`
	CurrentPrompt *promptOutput `json:"currentPrompt,omitempty"`
	TotalSteps    int           `json:"totalSteps"`
}

type submitAnswerInput struct {
	UserID    string `json:"userId" jsonschema:"identifier of the answering user"`
	SessionID string `json:"sessionId" jsonschema:"inspection session identifier"`
	Answer    string `json:"answer" jsonschema:"what the user observed for the current prompt"`
	Priority  string `json:"priority,omitempty" jsonschema:"observation priority: low, normal, high or critical"`
}

type submitAnswerOutput struct {
	HasNext       bool          `json:"hasNext"`
	Prompt        *promptOutput `json:"prompt,omitempty"`
	StepCompleted *stepOutput   `json:"stepCompleted,omitempty"`
	SessionStatus string        `json:"sessionStatus"`
}

type addEvidenceInput struct {
	UserID        string         `json:"userId" jsonschema:"identifier of the attaching user"`
	SessionID     string         `json:"sessionId" jsonschema:"inspection session identifier"`
	ObservationID string         `json:"observationId" jsonschema:"observation the evidence belongs to"`
	Type          string         `json:"type" jsonschema:"evidence type, e.g. note, photo, measurement or file"`
	StoragePath   string         `json:"storagePath,omitempty" jsonschema:"reference to externally stored content"`
	Payload       map[string]any `json:"payload,omitempty" jsonschema:"inline evidence content"`
}

type addEvidenceOutput struct {
	EvidenceID string `json:"evidenceId"`
}

type completeSessionInput struct {
	UserID    string `json:"userId" jsonschema:"identifier of the requesting user; must be the session owner"`
	SessionID string `json:"sessionId" jsonschema:"inspection session identifier"`
}

type completeSessionOutput struct {
	SessionID string `json:"sessionId"`
	Status    string `json:"status"`
}

type getRecordInput struct {
	SessionID string `json:"sessionId" jsonschema:"inspection session identifier"`
}

type getRecordOutput struct {
	SessionID   string         `json:"sessionId"`
	Summary     record.Summary `json:"summary"`
	GeneratedAt string         `json:"generatedAt"`
	Version     int            `json:"version"`
}

func registerTools(server *sdkmcp.Server, workflow WorkflowService) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_inspection_session",
		Description: "Start a guided inspection session for a goal and optional target",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in createSessionInput) (*sdkmcp.CallToolResult, createSessionOutput, error) {
		req := session.CreateRequest{
			CreatedBy:   in.UserID,
			Goal:        in.Goal,
			Constraints: in.Constraints,
		}
		if in.Target != nil {
			req.Target = &session.Target{
				Type:        in.Target.Type,
				Identifier:  in.Target.Identifier,
				DisplayName: in.Target.DisplayName,
			}
		}

		result, err := workflow.CreateSession(ctx, getTenantID(ctx), req)
		if err != nil {
			return nil, createSessionOutput{}, toolError(err)
		}

		out := createSessionOutput{
			SessionID:    result.SessionID,
			Status:       string(result.Status),
			InitialSteps: make([]stepOutput, 0, len(result.InitialSteps)),
		}
		for _, st := range result.InitialSteps {
			out.InitialSteps = append(out.InitialSteps, stepOutput{
				StepID: st.ID,
				Order:  st.Order,
				Type:   string(st.Type),
				Status: string(st.Status),
			})
		}
		if result.CurrentPrompt != nil {
			out.CurrentPrompt = toPromptOutput(result.CurrentPrompt)
		}
		return nil, out, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_inspection_session",
		Description: "Get the current status and prompt of an inspection session",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in getSessionInput) (*sdkmcp.CallToolResult, getSessionOutput, error) {
		view, err := workflow.GetSession(ctx, getTenantID(ctx), in.SessionID)
		if err != nil {
			return nil, getSessionOutput{}, toolError(err)
		}

		out := getSessionOutput{
			SessionID:  view.SessionID,
			Status:     string(view.Status),
			TotalSteps: view.TotalSteps,
		}
		if view.CurrentPrompt != nil {
			out.CurrentPrompt = toPromptOutput(view.CurrentPrompt)
		}
		return nil, out, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "submit_answer",
		Description: "Record the user's answer to the current prompt as an observation",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in submitAnswerInput) (*sdkmcp.CallToolResult, submitAnswerOutput, error) {
		result, err := workflow.SubmitAnswer(ctx, getTenantID(ctx), in.SessionID, session.AnswerRequest{
			CreatedBy: in.UserID,
			Answer:    in.Answer,
			Priority:  in.Priority,
		})
		if err != nil {
			return nil, submitAnswerOutput{}, toolError(err)
		}

		out := submitAnswerOutput{
			HasNext:       result.HasNext,
			SessionStatus: string(result.SessionStatus),
		}
		if result.Prompt != nil {
			out.Prompt = toPromptOutput(result.Prompt)
		}
		if result.StepCompleted != nil {
			out.StepCompleted = &stepOutput{
				StepID: result.StepCompleted.StepID,
				Order:  result.StepCompleted.Order,
				Type:   string(result.StepCompleted.Type),
				Status: string(result.StepCompleted.Status),
			}
		}
		return nil, out, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_evidence",
		Description: "Attach evidence (note, photo reference, measurement or file) to an observation",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in addEvidenceInput) (*sdkmcp.CallToolResult, addEvidenceOutput, error) {
		evidenceID, err := workflow.AddEvidence(ctx, getTenantID(ctx), in.SessionID, session.EvidenceRequest{
			CreatedBy:     in.UserID,
			ObservationID: in.ObservationID,
			Type:          in.Type,
			StoragePath:   in.StoragePath,
			Payload:       in.Payload,
		})
		if err != nil {
			return nil, addEvidenceOutput{}, toolError(err)
		}
		return nil, addEvidenceOutput{EvidenceID: evidenceID}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "complete_inspection_session",
		Description: "Complete an inspection session; only the session owner may do this",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in completeSessionInput) (*sdkmcp.CallToolResult, completeSessionOutput, error) {
		sess, err := workflow.CompleteSession(ctx, getTenantID(ctx), in.SessionID, in.UserID)
		if err != nil {
			return nil, completeSessionOutput{}, toolError(err)
		}
		return nil, completeSessionOutput{
			SessionID: sess.ID,
			Status:    string(sess.Status),
		}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_inspection_record",
		Description: "Fetch the summarized findings of a completed inspection session",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in getRecordInput) (*sdkmcp.CallToolResult, getRecordOutput, error) {
		rec, err := workflow.GetRecord(ctx, getTenantID(ctx), in.SessionID)
		if err != nil {
			return nil, getRecordOutput{}, toolError(err)
		}
		return nil, getRecordOutput{
			SessionID:   rec.SessionID,
			Summary:     rec.Summary,
			GeneratedAt: rec.GeneratedAt.Format(time.RFC3339),
			Version:     rec.Version,
		}, nil
	})
}

func toPromptOutput(p *session.Prompt) *promptOutput {
	return &promptOutput{StepID: p.StepID, Text: p.Text, Type: string(p.Type)}
}

// toolError rewrites domain sentinels into messages an MCP client can relay
// to the user verbatim.
func toolError(err error) error {
	switch {
	case errors.Is(err, session.ErrClarificationNeeded):
		return errors.New("please describe the inspection goal in more detail")
	case errors.Is(err, session.ErrSessionNotFound):
		return errors.New("session not found")
	case errors.Is(err, session.ErrRecordNotAvailable):
		return errors.New("record not available until the session is completed")
	case errors.Is(err, session.ErrForbidden):
		return errors.New("only the session owner can complete the inspection")
	case errors.Is(err, session.ErrInvalidInput):
		return err
	case errors.Is(err, session.ErrUnavailable):
		return errors.New("service unavailable, retry when connected")
	default:
		return fmt.Errorf("internal error: %w", err)
	}
}
