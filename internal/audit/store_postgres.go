package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	governance "nbms/internal/governance/models"
	id "nbms/pkg/domain"
)

// PostgresStore persists audit events in PostgreSQL. Append-only: the schema
// carries no UPDATE path and PurgeOlderThan is the only DELETE.
type PostgresStore struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPostgres constructs a PostgreSQL-backed audit store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// NewPostgresTx constructs a PostgreSQL-backed audit store bound to a
// transaction, so audit writes commit atomically with the state change they
// describe.
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

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	if event.ID.IsNil() {
		event.ID = id.NewEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	metadata, err := json.Marshal(RedactMetadata(event.Metadata))
	if err != nil {
		return fmt.Errorf("marshal audit metadata: %w", err)
	}

	var actorID any
	if event.ActorID != nil {
		actorID = uuid.UUID(*event.ActorID)
	}

	query := `
		INSERT INTO audit_events (id, occurred_at, actor_id, action, object_kind, object_id, request_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = s.execer().ExecContext(ctx, query,
		uuid.UUID(event.ID),
		event.Timestamp,
		actorID,
		event.Action,
		string(event.Object.Kind),
		uuid.UUID(event.Object.ID),
		event.RequestID,
		metadata,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByObject(ctx context.Context, ref governance.Ref) ([]Event, error) {
	query := `
		SELECT id, occurred_at, actor_id, action, object_kind, object_id, request_id, metadata
		FROM audit_events
		WHERE object_kind = $1 AND object_id = $2
		ORDER BY occurred_at
	`
	rows, err := s.execer().QueryContext(ctx, query, string(ref.Kind), uuid.UUID(ref.ID))
	if err != nil {
		return nil, fmt.Errorf("list audit events by object: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *PostgresStore) ListByActor(ctx context.Context, actorID id.UserID) ([]Event, error) {
	query := `
		SELECT id, occurred_at, actor_id, action, object_kind, object_id, request_id, metadata
		FROM audit_events
		WHERE actor_id = $1
		ORDER BY occurred_at
	`
	rows, err := s.execer().QueryContext(ctx, query, uuid.UUID(actorID))
	if err != nil {
		return nil, fmt.Errorf("list audit events by actor: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *PostgresStore) CountByObjectAction(ctx context.Context, ref governance.Ref, action string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM audit_events
		WHERE object_kind = $1 AND object_id = $2 AND action = $3
	`
	var count int
	err := s.execer().QueryRowContext(ctx, query, string(ref.Kind), uuid.UUID(ref.ID), action).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count audit events: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := s.execer().ExecContext(ctx, `DELETE FROM audit_events WHERE occurred_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge audit events: %w", err)
	}
	purged, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge audit events: %w", err)
	}
	return int(purged), nil
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var (
			event      Event
			eventID    uuid.UUID
			actorID    *uuid.UUID
			objectKind string
			objectID   uuid.UUID
			metadata   []byte
		)
		if err := rows.Scan(&eventID, &event.Timestamp, &actorID, &event.Action,
			&objectKind, &objectID, &event.RequestID, &metadata); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.ID = id.EventID(eventID)
		if actorID != nil {
			userID := id.UserID(*actorID)
			event.ActorID = &userID
		}
		event.Object = governance.Ref{Kind: governance.Kind(objectKind), ID: id.ObjectID(objectID)}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &event.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal audit metadata: %w", err)
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
