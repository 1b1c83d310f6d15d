package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fieldcheck/inspectd/internal/domain/observation"
	"github.com/fieldcheck/inspectd/internal/repository"
)

// ObservationRepository implements repository.ObservationRepository for SQLite
type ObservationRepository struct {
	db *DB
}

// NewObservationRepository creates a new ObservationRepository
func NewObservationRepository(db *DB) *ObservationRepository {
	return &ObservationRepository{db: db}
}

// Save inserts an observation. Observations are append-only; the only later
// mutation is the evidence-id linkage via SetEvidenceIDs.
func (r *ObservationRepository) Save(ctx context.Context, tenantID, sessionID string, obs *observation.Observation) error {
	evidenceIDs, err := json.Marshal(orEmpty(obs.EvidenceIDs))
	if err != nil {
		return fmt.Errorf("failed to encode evidence ids: %w", err)
	}

	query := `
		INSERT INTO observations (
			id, tenant_id, session_id, step_id, content, priority,
			created_at, created_by, evidence_ids
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		obs.ID,
		tenantID,
		sessionID,
		obs.StepID,
		obs.Content,
		obs.Priority,
		obs.CreatedAt,
		obs.CreatedBy,
		string(evidenceIDs),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to save observation: %w", err)
	}

	return nil
}

// Get retrieves an observation by ID within the tenant partition
func (r *ObservationRepository) Get(ctx context.Context, tenantID, sessionID, id string) (*observation.Observation, error) {
	query := `
		SELECT id, session_id, step_id, content, priority, created_at, created_by, evidence_ids
		FROM observations
		WHERE id = ? AND tenant_id = ? AND session_id = ?
	`

	row := r.db.QueryRowContext(ctx, query, id, tenantID, sessionID)
	obs, err := scanObservation(row.Scan)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get observation: %w", err)
	}
	return obs, nil
}

// ListForStep returns observations recorded against a step, oldest first
func (r *ObservationRepository) ListForStep(ctx context.Context, tenantID, sessionID, stepID string) ([]observation.Observation, error) {
	query := `
		SELECT id, session_id, step_id, content, priority, created_at, created_by, evidence_ids
		FROM observations
		WHERE tenant_id = ? AND session_id = ? AND step_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID, sessionID, stepID)
	if err != nil {
		return nil, fmt.Errorf("failed to list observations: %w", err)
	}
	defer rows.Close()

	var observations []observation.Observation
	for rows.Next() {
		obs, err := scanObservation(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		observations = append(observations, *obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating observations: %w", err)
	}

	return observations, nil
}

// SetEvidenceIDs replaces the ordered evidence-id linkage on an observation
func (r *ObservationRepository) SetEvidenceIDs(ctx context.Context, tenantID, sessionID, id string, evidenceIDs []string) error {
	encoded, err := json.Marshal(orEmpty(evidenceIDs))
	if err != nil {
		return fmt.Errorf("failed to encode evidence ids: %w", err)
	}

	query := `
		UPDATE observations
		SET evidence_ids = ?
		WHERE id = ? AND tenant_id = ? AND session_id = ?
	`

	result, err := r.db.ExecContext(ctx, query, string(encoded), id, tenantID, sessionID)
	if err != nil {
		return fmt.Errorf("failed to link evidence: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func scanObservation(scan func(...any) error) (*observation.Observation, error) {
	var obs observation.Observation
	var priority string
	var evidenceIDs string
	if err := scan(
		&obs.ID,
		&obs.SessionID,
		&obs.StepID,
		&obs.Content,
		&priority,
		&obs.CreatedAt,
		&obs.CreatedBy,
		&evidenceIDs,
	); err != nil {
		return nil, err
	}

	parsed, err := observation.ParsePriority(priority)
	if err != nil {
		return nil, fmt.Errorf("observation %s: %w", obs.ID, err)
	}
	obs.Priority = parsed

	if err := json.Unmarshal([]byte(evidenceIDs), &obs.EvidenceIDs); err != nil {
		return nil, fmt.Errorf("observation %s: decoding evidence ids: %w", obs.ID, err)
	}
	return &obs, nil
}

func orEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
