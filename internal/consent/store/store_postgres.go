package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"nbms/internal/consent/models"
	governance "nbms/internal/governance/models"
	"nbms/internal/sentinel"
	id "nbms/pkg/domain"
)

// PostgresStore persists consent records in PostgreSQL. The consents table
// carries a unique index on (object_kind, object_id, instance_id) with a
// NULL instance_id marking the global record; upserts ride that constraint.
type PostgresStore struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPostgres constructs a PostgreSQL-backed consent store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// NewPostgresTx constructs a PostgreSQL-backed consent store bound to a transaction.
func NewPostgresTx(tx *sql.Tx) *PostgresStore {
	return &PostgresStore{tx: tx}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer() dbExecutor {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *PostgresStore) Get(ctx context.Context, scope models.Scope) (*models.Record, error) {
	query := `
		SELECT id, object_kind, object_id, instance_id, status, note, decided_by, decided_at, created_at
		FROM consents
		WHERE object_kind = $1 AND object_id = $2 AND instance_id IS NOT DISTINCT FROM $3
	`
	record, err := scanRecord(s.execer().QueryRowContext(ctx, query,
		string(scope.Object.Kind), uuid.UUID(scope.Object.ID), instanceParam(scope.InstanceID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get consent: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, record *models.Record) error {
	if record == nil {
		return fmt.Errorf("consent record is required")
	}
	if record.ID.IsNil() {
		record.ID = id.NewConsentID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	var decidedBy any
	if record.DecidedBy != nil {
		decidedBy = uuid.UUID(*record.DecidedBy)
	}

	query := `
		INSERT INTO consents (id, object_kind, object_id, instance_id, status, note, decided_by, decided_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (object_kind, object_id, instance_id)
		DO UPDATE SET status = EXCLUDED.status,
		              note = EXCLUDED.note,
		              decided_by = EXCLUDED.decided_by,
		              decided_at = EXCLUDED.decided_at
		RETURNING id, created_at
	`
	var storedID uuid.UUID
	err := s.execer().QueryRowContext(ctx, query,
		uuid.UUID(record.ID),
		string(record.Scope.Object.Kind),
		uuid.UUID(record.Scope.Object.ID),
		instanceParam(record.Scope.InstanceID),
		string(record.Status),
		record.Note,
		decidedBy,
		record.DecidedAt,
		record.CreatedAt,
	).Scan(&storedID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert consent: %w", err)
	}
	record.ID = id.ConsentID(storedID)
	return nil
}

func (s *PostgresStore) CreateIfAbsent(ctx context.Context, record *models.Record) error {
	if record == nil {
		return fmt.Errorf("consent record is required")
	}
	if record.ID.IsNil() {
		record.ID = id.NewConsentID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	var decidedBy any
	if record.DecidedBy != nil {
		decidedBy = uuid.UUID(*record.DecidedBy)
	}

	query := `
		INSERT INTO consents (id, object_kind, object_id, instance_id, status, note, decided_by, decided_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (object_kind, object_id, instance_id) DO NOTHING
	`
	_, err := s.execer().ExecContext(ctx, query,
		uuid.UUID(record.ID),
		string(record.Scope.Object.Kind),
		uuid.UUID(record.Scope.Object.ID),
		instanceParam(record.Scope.InstanceID),
		string(record.Status),
		record.Note,
		decidedBy,
		record.DecidedAt,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create consent if absent: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByObject(ctx context.Context, ref governance.Ref) ([]*models.Record, error) {
	query := `
		SELECT id, object_kind, object_id, instance_id, status, note, decided_by, decided_at, created_at
		FROM consents
		WHERE object_kind = $1 AND object_id = $2
		ORDER BY created_at
	`
	rows, err := s.execer().QueryContext(ctx, query, string(ref.Kind), uuid.UUID(ref.ID))
	if err != nil {
		return nil, fmt.Errorf("list consents: %w", err)
	}
	defer rows.Close()

	var records []*models.Record
	for rows.Next() {
		record, err := scanRecordRows(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consents: %w", err)
	}
	return records, nil
}

func instanceParam(instanceID id.InstanceID) any {
	if instanceID.IsNil() {
		return nil
	}
	return uuid.UUID(instanceID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.Record, error) {
	var (
		record     models.Record
		recordID   uuid.UUID
		objectKind string
		objectID   uuid.UUID
		instanceID *uuid.UUID
		decidedBy  *uuid.UUID
		status     string
	)
	if err := row.Scan(&recordID, &objectKind, &objectID, &instanceID,
		&status, &record.Note, &decidedBy, &record.DecidedAt, &record.CreatedAt); err != nil {
		return nil, err
	}
	record.ID = id.ConsentID(recordID)
	record.Scope.Object = governance.Ref{Kind: governance.Kind(objectKind), ID: id.ObjectID(objectID)}
	if instanceID != nil {
		record.Scope.InstanceID = id.InstanceID(*instanceID)
	}
	if decidedBy != nil {
		userID := id.UserID(*decidedBy)
		record.DecidedBy = &userID
	}
	record.Status = models.Status(status)
	return &record, nil
}

func scanRecordRows(rows *sql.Rows) (*models.Record, error) {
	record, err := scanRecord(rows)
	if err != nil {
		return nil, fmt.Errorf("scan consent: %w", err)
	}
	return record, nil
}
