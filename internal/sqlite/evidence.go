package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fieldcheck/inspectd/internal/domain/observation"
	"github.com/fieldcheck/inspectd/internal/repository"
)

// EvidenceRepository implements repository.EvidenceRepository for SQLite
type EvidenceRepository struct {
	db *DB
}

// NewEvidenceRepository creates a new EvidenceRepository
func NewEvidenceRepository(db *DB) *EvidenceRepository {
	return &EvidenceRepository{db: db}
}

// Save inserts evidence. Evidence is immutable after creation.
func (r *EvidenceRepository) Save(ctx context.Context, tenantID, sessionID string, ev *observation.Evidence) error {
	var payload any
	if ev.Payload != nil {
		encoded, err := json.Marshal(ev.Payload)
		if err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
		payload = string(encoded)
	}

	query := `
		INSERT INTO evidence (
			id, tenant_id, session_id, observation_id, type,
			storage_path, payload, created_at, created_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		ev.ID,
		tenantID,
		sessionID,
		ev.ObservationID,
		ev.Type,
		ev.StoragePath,
		payload,
		ev.CreatedAt,
		ev.CreatedBy,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to save evidence: %w", err)
	}

	return nil
}
