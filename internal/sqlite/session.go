package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fieldcheck/inspectd/internal/domain/session"
	"github.com/fieldcheck/inspectd/internal/repository"
)

// SessionRepository implements repository.SessionRepository for SQLite
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save inserts or updates a session. The update path is guarded by tenant id
// so a write can never cross a tenant partition.
func (r *SessionRepository) Save(ctx context.Context, tenantID string, sess *session.InspectionSession) error {
	constraints, err := marshalNullable(sess.Intent.Constraints)
	if err != nil {
		return fmt.Errorf("failed to encode constraints: %w", err)
	}
	target, err := marshalNullable(sess.Target)
	if err != nil {
		return fmt.Errorf("failed to encode target: %w", err)
	}

	query := `
		INSERT INTO inspection_sessions (
			id, tenant_id, status, intent_goal, intent_constraints, target,
			created_at, updated_at, created_by, completed_at, record_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at,
			completed_at = excluded.completed_at,
			record_id = excluded.record_id
		WHERE inspection_sessions.tenant_id = excluded.tenant_id
	`

	_, err = r.db.ExecContext(ctx, query,
		sess.ID,
		tenantID,
		sess.Status,
		sess.Intent.Goal,
		constraints,
		target,
		sess.CreatedAt,
		sess.UpdatedAt,
		sess.CreatedBy,
		sess.CompletedAt,
		sess.RecordID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID within the tenant partition
func (r *SessionRepository) Get(ctx context.Context, tenantID, id string) (*session.InspectionSession, error) {
	query := `
		SELECT
			id, tenant_id, status, intent_goal, intent_constraints, target,
			created_at, updated_at, created_by, completed_at, record_id
		FROM inspection_sessions
		WHERE id = ? AND tenant_id = ?
	`

	var sess session.InspectionSession
	var status string
	var constraints sql.NullString
	var target sql.NullString
	var completedAt sql.NullTime
	var recordID sql.NullString
	err := r.db.QueryRowContext(ctx, query, id, tenantID).Scan(
		&sess.ID,
		&sess.TenantID,
		&status,
		&sess.Intent.Goal,
		&constraints,
		&target,
		&sess.CreatedAt,
		&sess.UpdatedAt,
		&sess.CreatedBy,
		&completedAt,
		&recordID,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	sess.Status, err = session.ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	if constraints.Valid {
		if err := json.Unmarshal([]byte(constraints.String), &sess.Intent.Constraints); err != nil {
			return nil, fmt.Errorf("failed to decode constraints: %w", err)
		}
	}
	if target.Valid {
		if err := json.Unmarshal([]byte(target.String), &sess.Target); err != nil {
			return nil, fmt.Errorf("failed to decode target: %w", err)
		}
	}
	if completedAt.Valid {
		sess.CompletedAt = &completedAt.Time
	}
	if recordID.Valid {
		sess.RecordID = &recordID.String
	}

	return &sess, nil
}

// marshalNullable encodes a value as JSON, passing nil through as SQL NULL.
func marshalNullable(v any) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		if val == nil {
			return nil, nil
		}
	case *session.Target:
		if val == nil {
			return nil, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
