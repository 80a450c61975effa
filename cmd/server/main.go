package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	approvalservice "nbms/internal/approval/service"
	approvalstore "nbms/internal/approval/store"
	"nbms/internal/audit"
	"nbms/internal/auth"
	"nbms/internal/authz"
	consentservice "nbms/internal/consent/service"
	consentstore "nbms/internal/consent/store"
	"nbms/internal/instance"
	"nbms/internal/notify"
	"nbms/internal/platform/config"
	"nbms/internal/platform/database"
	"nbms/internal/platform/logger"
	"nbms/internal/platform/metrics"
	"nbms/internal/readiness"
	"nbms/internal/readiness/tracer"
	"nbms/internal/report"
	httptransport "nbms/internal/transport/http"
	"nbms/internal/workflow"
	"nbms/migrations"
)

// main wires the governance services and keeps the server lifecycle small.
// Business rules live in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing nbms",
		"addr", cfg.Addr,
		"database", cfg.DatabaseURL != "",
		"check_sections", cfg.CheckSections,
	)

	m := metrics.New()
	grants := authz.NewInMemoryGrantStore()
	engine := authz.NewEngine(authz.WithLogger(log), authz.WithGrantStore(grants))
	sink := notify.NewSlogSink(log)

	objects := workflow.NewInMemoryObjectStore()
	instances := instance.NewInMemoryStore()
	sections := report.NewInMemorySectionStore()

	var (
		pool        *database.Pool
		events      audit.Store
		consents    consentstore.Store
		approvals   approvalstore.Store
		workflowTx  workflow.TxRunner
		consentTx   consentservice.TxRunner
		approvalTx  approvalservice.TxRunner
		healthCheck func() error
	)

	if cfg.DatabaseURL != "" {
		dbCfg := database.DefaultConfig()
		dbCfg.URL = cfg.DatabaseURL
		var err error
		pool, err = database.New(dbCfg)
		if err != nil {
			log.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := pool.ApplyMigrations(migrateCtx, migrations.FS); err != nil {
			cancel()
			log.Error("migrations failed", "error", err)
			os.Exit(1)
		}
		cancel()

		events = audit.NewPostgres(pool.DB())
		consents = consentstore.NewPostgres(pool.DB())
		approvals = approvalstore.NewPostgresStore(pool.DB())
		workflowTx = newWorkflowPostgresTx(pool, objects)
		consentTx = newConsentPostgresTx(pool)
		approvalTx = newApprovalPostgresTx(pool)
		healthCheck = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(ctx)
		}
	} else {
		memEvents := audit.NewInMemoryStore()
		memConsents := consentstore.New()
		memApprovals := approvalstore.New()
		events = memEvents
		consents = memConsents
		approvals = memApprovals
		workflowTx = workflow.NewMemoryTx(workflow.Stores{Objects: objects, Events: memEvents})
		consentTx = consentservice.NewMemoryTx(consentservice.Stores{Consents: memConsents, Events: memEvents})
		approvalTx = approvalservice.NewMemoryTx(approvalservice.Stores{Approvals: memApprovals, Events: memEvents})

		seedCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := seedDemoData(seedCtx, objects, instances, grants, log); err != nil {
			cancel()
			log.Error("seeding failed", "error", err)
			os.Exit(1)
		}
		cancel()
	}

	auditorOpts := []audit.PublisherOption{
		audit.WithPublisherLogger(log),
		audit.WithEmitCounter(m.AuditEventsEmitted),
	}
	if cfg.AuditBuffer > 0 {
		auditorOpts = append(auditorOpts, audit.WithAsyncBuffer(cfg.AuditBuffer))
	}
	auditor := audit.NewPublisher(events, auditorOpts...)
	defer auditor.Close()

	workflowSvc := workflow.NewService(engine, workflowTx, nil,
		workflow.WithMetrics(m), workflow.WithLogger(log))
	consentSvc := consentservice.NewService(consentTx, consents, sink,
		consentservice.WithMetrics(m), consentservice.WithLogger(log))
	approvalSvc := approvalservice.NewService(engine, consentSvc, approvalTx, approvals, sink,
		approvalservice.WithMetrics(m), approvalservice.WithLogger(log))

	readinessOpts := []readiness.Option{
		readiness.WithMetrics(m),
		readiness.WithLogger(log),
		readiness.WithTracer(tracer.NewOTel()),
	}
	if cfg.CheckSections {
		readinessOpts = append(readinessOpts,
			readiness.WithSectionReader(report.NewCompleteness(sections, cfg.RequiredSections)))
	}
	calculator := readiness.NewCalculator(engine,
		workflow.NewIndicatorCatalog(objects), consentSvc, approvalSvc, readinessOpts...)

	tokens := auth.NewTokenService(cfg.JWTSigningKey, "nbms", cfg.TokenTTL)

	handler := httptransport.NewHandler(httptransport.Deps{
		Engine:    engine,
		Workflow:  workflowSvc,
		Consent:   consentSvc,
		Approvals: approvalSvc,
		Readiness: calculator,
		Auditor:   auditor,
		Events:    events,
		Objects:   objects,
		Instances: instances,
		Sections:  sections,
		Tokens:    tokens,

		TokenSecret: cfg.TokenSecretHash,

		Metrics: m,
		Logger:  log,
		Health:  healthCheck,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httptransport.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
