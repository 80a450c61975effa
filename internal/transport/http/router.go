// Package httptransport is the thin HTTP layer over the governance core.
// Handlers translate requests into explicit (actor, object, instance)
// arguments for the services and translate domain errors back into JSON;
// no business rule lives here.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	approvalservice "nbms/internal/approval/service"
	"nbms/internal/audit"
	"nbms/internal/auth"
	"nbms/internal/authz"
	consentservice "nbms/internal/consent/service"
	"nbms/internal/instance"
	"nbms/internal/platform/metrics"
	"nbms/internal/platform/middleware"
	"nbms/internal/readiness"
	"nbms/internal/report"
	"nbms/internal/workflow"
)

// Deps bundles everything the HTTP layer delegates to.
type Deps struct {
	Engine    *authz.Engine
	Workflow  *workflow.Service
	Consent   *consentservice.Service
	Approvals *approvalservice.Service
	Readiness *readiness.Calculator
	Auditor   *audit.Publisher
	Events    audit.Store
	Objects   *workflow.InMemoryObjectStore
	Instances instance.Store
	Sections  report.SectionStore
	Tokens    *auth.TokenService

	// TokenSecret is the bcrypt hash gating the token endpoint. Empty
	// leaves the endpoint open, which is only acceptable in development.
	TokenSecret string

	Metrics *metrics.Metrics
	Logger  *slog.Logger
	Health  func() error
}

// Handler handles all governance endpoints.
type Handler struct {
	deps Deps
}

func NewHandler(deps Deps) *Handler {
	return &Handler{deps: deps}
}

// NewRouter wires all public endpoints with the middleware stack.
func NewRouter(h *Handler) http.Handler {
	logger := h.deps.Logger
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.NewMetadata(middleware.MetadataConfig{}).Handler)
	r.Use(middleware.Logger(logger))
	if h.deps.Metrics != nil {
		r.Use(middleware.Latency(h.deps.Metrics.EndpointLatency))
	}
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)
	r.Use(auth.Middleware(h.deps.Tokens))

	r.Get("/healthz", h.handleHealthz)
	r.Get("/readyz", h.handleReadyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/token", h.handleIssueToken)

		r.Get("/indicators", h.handleListIndicators)
		r.Get("/objects/{kind}/{objectID}", h.handleGetObject)
		r.Post("/objects/{kind}/{objectID}/submit", h.transition(workflow.ActionSubmitForReview))
		r.Post("/objects/{kind}/{objectID}/approve", h.transition(workflow.ActionApprove))
		r.Post("/objects/{kind}/{objectID}/reject", h.transition(workflow.ActionReject))
		r.Post("/objects/{kind}/{objectID}/publish", h.transition(workflow.ActionPublish))
		r.Post("/objects/{kind}/{objectID}/archive", h.transition(workflow.ActionArchive))

		r.Get("/instances", h.handleListInstances)
		r.Post("/instances/{instanceID}/freeze", h.handleFreezeInstance)

		r.Get("/instances/{instanceID}/consents/{kind}/{objectID}", h.handleGetConsent)
		r.Put("/instances/{instanceID}/consents/{kind}/{objectID}", h.handleSetConsent)
		r.Put("/consents/{kind}/{objectID}", h.handleSetGlobalConsent)

		r.Post("/instances/{instanceID}/approvals/{kind}/{objectID}", h.handleApprove)
		r.Post("/instances/{instanceID}/approvals/{kind}/{objectID}/revoke", h.handleRevoke)
		r.Get("/instances/{instanceID}/approvals", h.handleListApprovals)

		r.Get("/instances/{instanceID}/readiness", h.handleReadiness)

		r.Get("/instances/{instanceID}/sections", h.handleListSections)
		r.Put("/instances/{instanceID}/sections/{key}", h.handleUpsertSection)

		r.Get("/audit/{kind}/{objectID}", h.handleListAudit)
		r.Post("/audit/purge", h.handlePurgeAudit)
	})

	return r
}
