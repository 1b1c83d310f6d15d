package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fieldcheck/inspectd/internal/domain/observation"
	"github.com/fieldcheck/inspectd/internal/repository"
)

func seedObservation(t *testing.T, db *DB, tenantID, sessionID, stepID, id, content string) *observation.Observation {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	obs, err := observation.New(id, sessionID, stepID, content, "user1", observation.PriorityNormal, now)
	require.NoError(t, err)
	require.NoError(t, NewObservationRepository(db).Save(context.Background(), tenantID, sessionID, obs))
	return obs
}

func TestObservationRepository_SaveAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewObservationRepository(db)
	ctx := context.Background()

	seedSession(t, db, "tenant1", "s1", "user1")
	seedStep(t, db, "tenant1", "s1", "st1", 0)
	seedObservation(t, db, "tenant1", "s1", "st1", "obs1", "valve is leaking")

	loaded, err := repo.Get(ctx, "tenant1", "s1", "obs1")
	require.NoError(t, err)
	require.Equal(t, "valve is leaking", loaded.Content)
	require.Equal(t, observation.PriorityNormal, loaded.Priority)
	require.Equal(t, "st1", loaded.StepID)
	require.NotNil(t, loaded.EvidenceIDs)
	require.Empty(t, loaded.EvidenceIDs)
}

func TestObservationRepository_GetNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewObservationRepository(db)

	seedSession(t, db, "tenant1", "s1", "user1")

	_, err := repo.Get(context.Background(), "tenant1", "s1", "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestObservationRepository_ListForStep(t *testing.T) {
	db := NewTestDB(t)
	repo := NewObservationRepository(db)
	ctx := context.Background()

	seedSession(t, db, "tenant1", "s1", "user1")
	seedStep(t, db, "tenant1", "s1", "st1", 0)
	seedStep(t, db, "tenant1", "s1", "st2", 1)
	seedObservation(t, db, "tenant1", "s1", "st1", "obs1", "first")
	seedObservation(t, db, "tenant1", "s1", "st1", "obs2", "second")
	seedObservation(t, db, "tenant1", "s1", "st2", "obs3", "other step")

	list, err := repo.ListForStep(ctx, "tenant1", "s1", "st1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "obs1", list[0].ID)
	require.Equal(t, "obs2", list[1].ID)
}

func TestObservationRepository_SetEvidenceIDs(t *testing.T) {
	db := NewTestDB(t)
	repo := NewObservationRepository(db)
	ctx := context.Background()

	seedSession(t, db, "tenant1", "s1", "user1")
	seedStep(t, db, "tenant1", "s1", "st1", 0)
	seedObservation(t, db, "tenant1", "s1", "st1", "obs1", "finding")

	require.NoError(t, repo.SetEvidenceIDs(ctx, "tenant1", "s1", "obs1", []string{"e1", "e2"}))

	loaded, err := repo.Get(ctx, "tenant1", "s1", "obs1")
	require.NoError(t, err)
	require.Equal(t, []string{"e1", "e2"}, loaded.EvidenceIDs)
}

func TestObservationRepository_SetEvidenceIDsNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewObservationRepository(db)

	seedSession(t, db, "tenant1", "s1", "user1")

	err := repo.SetEvidenceIDs(context.Background(), "tenant1", "s1", "missing", []string{"e1"})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEvidenceRepository_Save(t *testing.T) {
	db := NewTestDB(t)
	repo := NewEvidenceRepository(db)
	ctx := context.Background()

	seedSession(t, db, "tenant1", "s1", "user1")
	seedStep(t, db, "tenant1", "s1", "st1", 0)
	seedObservation(t, db, "tenant1", "s1", "st1", "obs1", "finding")

	now := time.Now().UTC().Truncate(time.Second)
	ev, err := observation.NewEvidence("e1", "s1", "obs1", "user1", observation.EvidenceMeasurement, "", map[string]any{"psi": 42.5}, now)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, "tenant1", "s1", ev))

	var payload string
	require.NoError(t, db.QueryRow(`SELECT payload FROM evidence WHERE id = 'e1'`).Scan(&payload))
	require.Contains(t, payload, "42.5")
}

func TestEvidenceRepository_SaveUnknownObservation(t *testing.T) {
	db := NewTestDB(t)
	repo := NewEvidenceRepository(db)
	ctx := context.Background()

	seedSession(t, db, "tenant1", "s1", "user1")

	now := time.Now().UTC()
	ev, err := observation.NewEvidence("e1", "s1", "ghost", "user1", observation.EvidenceNote, "path", nil, now)
	require.NoError(t, err)

	err = repo.Save(ctx, "tenant1", "s1", ev)
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}
