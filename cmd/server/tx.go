package main

import (
	"context"
	"database/sql"

	approvalservice "nbms/internal/approval/service"
	approvalstore "nbms/internal/approval/store"
	"nbms/internal/audit"
	consentservice "nbms/internal/consent/service"
	consentstore "nbms/internal/consent/store"
	"nbms/internal/platform/database"
	"nbms/internal/workflow"
)

// The SQL transaction runners bind each service's store bundle to one
// database transaction, so a state write and its audit event commit or roll
// back together. The shard key the memory runners use for lock striping is
// irrelevant here; row locks do the serializing.

type workflowPostgresTx struct {
	pool *database.Pool
	// Governed objects live in memory in every deployment; only the audit
	// trail, consents, and approvals are database-backed.
	objects workflow.ObjectStore
}

func newWorkflowPostgresTx(pool *database.Pool, objects workflow.ObjectStore) *workflowPostgresTx {
	return &workflowPostgresTx{pool: pool, objects: objects}
}

func (t *workflowPostgresTx) RunInTx(ctx context.Context, _ string, fn func(stores workflow.Stores) error) error {
	return t.pool.RunInTx(ctx, func(tx *sql.Tx) error {
		return fn(workflow.Stores{
			Objects: t.objects,
			Events:  audit.NewPostgresTx(tx),
		})
	})
}

type consentPostgresTx struct {
	pool *database.Pool
}

func newConsentPostgresTx(pool *database.Pool) *consentPostgresTx {
	return &consentPostgresTx{pool: pool}
}

func (t *consentPostgresTx) RunInTx(ctx context.Context, _ string, fn func(stores consentservice.Stores) error) error {
	return t.pool.RunInTx(ctx, func(tx *sql.Tx) error {
		return fn(consentservice.Stores{
			Consents: consentstore.NewPostgresTx(tx),
			Events:   audit.NewPostgresTx(tx),
		})
	})
}

type approvalPostgresTx struct {
	pool *database.Pool
}

func newApprovalPostgresTx(pool *database.Pool) *approvalPostgresTx {
	return &approvalPostgresTx{pool: pool}
}

func (t *approvalPostgresTx) RunInTx(ctx context.Context, _ string, fn func(stores approvalservice.Stores) error) error {
	return t.pool.RunInTx(ctx, func(tx *sql.Tx) error {
		return fn(approvalservice.Stores{
			Approvals: approvalstore.NewPostgresStore(tx),
			Events:    audit.NewPostgresTx(tx),
		})
	})
}
