package sqlite

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fieldcheck/inspectd/internal/domain/session"
	"github.com/fieldcheck/inspectd/internal/domain/step"
)

// NewTestDB creates an in-memory database with the schema applied. Each test
// gets its own database keyed by the test name.
func NewTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// seedSession persists an in-progress session for repository tests that need
// to satisfy foreign keys.
func seedSession(t *testing.T, db *DB, tenantID, sessionID, createdBy string) *session.InspectionSession {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	intent, err := session.NewIntent("inspect pump station 4", nil)
	require.NoError(t, err)
	sess, err := session.NewSession(sessionID, tenantID, createdBy, intent, nil, now)
	require.NoError(t, err)
	require.NoError(t, sess.StartProgress(now))
	require.NoError(t, NewSessionRepository(db).Save(context.Background(), tenantID, sess))
	return sess
}

// seedStep persists a pending step owned by the given session.
func seedStep(t *testing.T, db *DB, tenantID, sessionID, stepID string, order int) step.Step {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	st := step.Step{
		ID:        stepID,
		SessionID: sessionID,
		Order:     order,
		Type:      step.TypeCheck,
		Prompt:    fmt.Sprintf("prompt %d", order),
		Status:    step.StatusPending,
		Source:    step.SourceInitial,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, NewStepRepository(db).Save(context.Background(), tenantID, sessionID, &st))
	return st
}

func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	for _, table := range []string{"inspection_sessions", "steps", "observations", "evidence", "api_keys"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	db := NewTestDB(t)

	st := step.Step{
		ID:        "st1",
		SessionID: "no-such-session",
		Type:      step.TypeCheck,
		Prompt:    "orphan",
		Status:    step.StatusPending,
		Source:    step.SourceInitial,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	err := NewStepRepository(db).Save(context.Background(), "tenant1", "no-such-session", &st)
	require.Error(t, err)
}
