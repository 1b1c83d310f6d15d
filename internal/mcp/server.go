package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fieldcheck/inspectd/internal/domain/record"
	"github.com/fieldcheck/inspectd/internal/domain/session"
)

// WorkflowService defines the session operations exposed as MCP tools.
type WorkflowService interface {
	CreateSession(ctx context.Context, tenantID string, req session.CreateRequest) (*session.CreateResult, error)
	GetSession(ctx context.Context, tenantID, sessionID string) (*session.SessionView, error)
	SubmitAnswer(ctx context.Context, tenantID, sessionID string, req session.AnswerRequest) (*session.AnswerResult, error)
	AddEvidence(ctx context.Context, tenantID, sessionID string, req session.EvidenceRequest) (string, error)
	CompleteSession(ctx context.Context, tenantID, sessionID, requestingUserID string) (*session.InspectionSession, error)
	GetRecord(ctx context.Context, tenantID, sessionID string) (*record.Record, error)
}

// Config contains server configuration.
type Config struct {
	Workflow      WorkflowService
	Resolver      TenantResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "inspectd",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	// Stdio mode is local-only, so auth is always skipped there.
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(noAuthMiddleware("default"))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Workflow)

	return server
}

const serverInstructions = `inspectd guides structured inspection sessions.

Start with create_inspection_session, giving the user's goal (and optionally a
target such as a site or asset). The server responds with a prompt asking what
to check first. Record what the user reports with submit_answer; attach
supporting material with add_evidence. When the user is done, call
complete_inspection_session, then fetch the summarized findings with
get_inspection_record.`
