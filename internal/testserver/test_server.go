package testserver

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fieldcheck/inspectd/internal/domain/session"
	"github.com/fieldcheck/inspectd/internal/planner"
	"github.com/fieldcheck/inspectd/internal/sqlite"
	"github.com/fieldcheck/inspectd/internal/transport"
)

// TestServer runs the full HTTP API against an in-memory database. Auth is
// disabled, so requests identify the user with the X-User-Id header.
type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Workflow *session.Service
}

func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	workflow := session.NewService(
		sqlite.NewSessionRepository(db),
		sqlite.NewStepRepository(db),
		sqlite.NewObservationRepository(db),
		sqlite.NewEvidenceRepository(db),
		planner.NewStatic(),
		session.EvidencePolicy{
			AllowedTypes:      []string{"note", "photo", "measurement", "file"},
			MaxPayloadBytes:   10 * 1024 * 1024,
			MaxPerObservation: 20,
		},
		nil,
	)

	router := transport.NewRouter(workflow, transport.AuthMiddleware(false, ""), nil)
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:   server,
		DB:       db,
		Workflow: workflow,
	}
}
