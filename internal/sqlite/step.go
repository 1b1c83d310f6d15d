package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fieldcheck/inspectd/internal/domain/step"
	"github.com/fieldcheck/inspectd/internal/repository"
)

// StepRepository implements repository.StepRepository for SQLite
type StepRepository struct {
	db *DB
}

// NewStepRepository creates a new StepRepository
func NewStepRepository(db *DB) *StepRepository {
	return &StepRepository{db: db}
}

// Save inserts or updates a step within the tenant partition
func (r *StepRepository) Save(ctx context.Context, tenantID, sessionID string, st *step.Step) error {
	query := `
		INSERT INTO steps (
			id, tenant_id, session_id, step_order, type, prompt,
			target_id, status, source, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			prompt = excluded.prompt,
			updated_at = excluded.updated_at
		WHERE steps.tenant_id = excluded.tenant_id AND steps.session_id = excluded.session_id
	`

	_, err := r.db.ExecContext(ctx, query,
		st.ID,
		tenantID,
		sessionID,
		st.Order,
		st.Type,
		st.Prompt,
		st.TargetID,
		st.Status,
		st.Source,
		st.CreatedAt,
		st.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to save step: %w", err)
	}

	return nil
}

// ListBySession returns the session's steps ordered by presentation order
func (r *StepRepository) ListBySession(ctx context.Context, tenantID, sessionID string) ([]step.Step, error) {
	query := `
		SELECT id, session_id, step_order, type, prompt, target_id,
		       status, source, created_at, updated_at
		FROM steps
		WHERE tenant_id = ? AND session_id = ?
		ORDER BY step_order ASC
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list steps: %w", err)
	}
	defer rows.Close()

	var steps []step.Step
	for rows.Next() {
		var st step.Step
		var typ, status, source string
		var targetID sql.NullString
		if err := rows.Scan(
			&st.ID,
			&st.SessionID,
			&st.Order,
			&typ,
			&st.Prompt,
			&targetID,
			&status,
			&source,
			&st.CreatedAt,
			&st.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		if st.Type, err = step.ParseType(typ); err != nil {
			return nil, fmt.Errorf("failed to decode step %s: %w", st.ID, err)
		}
		if st.Status, err = step.ParseStatus(status); err != nil {
			return nil, fmt.Errorf("failed to decode step %s: %w", st.ID, err)
		}
		if st.Source, err = step.ParseSource(source); err != nil {
			return nil, fmt.Errorf("failed to decode step %s: %w", st.ID, err)
		}
		if targetID.Valid {
			st.TargetID = &targetID.String
		}
		steps = append(steps, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating steps: %w", err)
	}

	return steps, nil
}
