package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"nbms/internal/approval/models"
	governance "nbms/internal/governance/models"
	"nbms/internal/sentinel"
	id "nbms/pkg/domain"
)

// dbExecutor abstracts *sql.DB and *sql.Tx so the store works inside a
// transaction runner.
type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore persists approvals in the instance_approvals table.
type PostgresStore struct {
	db dbExecutor
}

func NewPostgresStore(db dbExecutor) *PostgresStore {
	return &PostgresStore{db: db}
}

// WithExecutor returns a store bound to the given executor, typically a
// transaction.
func (s *PostgresStore) WithExecutor(db dbExecutor) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, key models.Key) (*models.Approval, error) {
	query := `
		SELECT id, instance_id, object_kind, object_id, scope, decision, note, decided_by, decided_at
		FROM instance_approvals
		WHERE instance_id = $1 AND object_kind = $2 AND object_id = $3 AND scope = $4`

	row := s.db.QueryRowContext(ctx, query, key.InstanceID.String(), string(key.Object.Kind), key.Object.ID.String(), key.Scope)

	var (
		approval                        models.Approval
		rawID, rawInstance, rawObject   string
		rawKind, rawDecision, decidedBy string
	)
	err := row.Scan(&rawID, &rawInstance, &rawKind, &rawObject, &approval.Key.Scope, &rawDecision, &approval.Note, &decidedBy, &approval.DecidedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if approval.ID, err = id.ParseApprovalID(rawID); err != nil {
		return nil, err
	}
	if approval.Key.InstanceID, err = id.ParseInstanceID(rawInstance); err != nil {
		return nil, err
	}
	if approval.Key.Object.ID, err = id.ParseObjectID(rawObject); err != nil {
		return nil, err
	}
	if approval.DecidedBy, err = id.ParseUserID(decidedBy); err != nil {
		return nil, err
	}
	approval.Key.Object.Kind = governance.Kind(rawKind)
	approval.Decision = models.Decision(rawDecision)
	approval.DecidedAt = approval.DecidedAt.UTC()
	return &approval, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, approval *models.Approval) error {
	query := `
		INSERT INTO instance_approvals (id, instance_id, object_kind, object_id, scope, decision, note, decided_by, decided_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (instance_id, object_kind, object_id, scope) DO UPDATE
		SET decision = EXCLUDED.decision,
		    note = EXCLUDED.note,
		    decided_by = EXCLUDED.decided_by,
		    decided_at = EXCLUDED.decided_at`

	_, err := s.db.ExecContext(ctx, query,
		approval.ID.String(),
		approval.Key.InstanceID.String(),
		string(approval.Key.Object.Kind),
		approval.Key.Object.ID.String(),
		approval.Key.Scope,
		string(approval.Decision),
		approval.Note,
		approval.DecidedBy.String(),
		approval.DecidedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (s *PostgresStore) ListApprovedRefs(ctx context.Context, instanceID id.InstanceID, kind governance.Kind, scope string) ([]governance.Ref, error) {
	query := `
		SELECT object_id
		FROM instance_approvals
		WHERE instance_id = $1 AND object_kind = $2 AND scope = $3 AND decision = $4
		ORDER BY object_id`

	rows, err := s.db.QueryContext(ctx, query, instanceID.String(), string(kind), scope, string(models.DecisionApproved))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []governance.Ref
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		objectID, err := id.ParseObjectID(raw)
		if err != nil {
			return nil, err
		}
		refs = append(refs, governance.Ref{Kind: kind, ID: objectID})
	}
	return refs, rows.Err()
}
