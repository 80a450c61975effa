package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	approvalservice "nbms/internal/approval/service"
	approvalstore "nbms/internal/approval/store"
	"nbms/internal/audit"
	"nbms/internal/auth"
	"nbms/internal/authz"
	consentservice "nbms/internal/consent/service"
	consentstore "nbms/internal/consent/store"
	governance "nbms/internal/governance/models"
	"nbms/internal/instance"
	"nbms/internal/notify"
	"nbms/internal/readiness"
	"nbms/internal/report"
	"nbms/internal/workflow"
	id "nbms/pkg/domain"
	"nbms/pkg/secrets"
	"nbms/pkg/testutil"
)

// RouterSuite exercises the HTTP surface end to end against memory-backed
// services: real engine, real services, real stores, no mocks.
type RouterSuite struct {
	suite.Suite

	router    http.Handler
	tokens    *auth.TokenService
	objects   *workflow.InMemoryObjectStore
	instances *instance.InMemoryStore
	sections  *report.InMemorySectionStore
	events    *audit.InMemoryStore
	sink      *notify.MemorySink
	grants    *authz.InMemoryGrantStore

	instanceID id.InstanceID
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.grants = authz.NewInMemoryGrantStore()
	engine := authz.NewEngine(authz.WithGrantStore(s.grants))

	s.objects = workflow.NewInMemoryObjectStore()
	s.events = audit.NewInMemoryStore()
	s.sink = notify.NewMemorySink()

	auditor := audit.NewPublisher(s.events)

	workflowSvc := workflow.NewService(engine,
		workflow.NewMemoryTx(workflow.Stores{Objects: s.objects, Events: s.events}),
		nil, workflow.WithLogger(logger))

	consents := consentstore.New()
	consentSvc := consentservice.NewService(
		consentservice.NewMemoryTx(consentservice.Stores{Consents: consents, Events: s.events}),
		consents, s.sink, consentservice.WithLogger(logger))

	approvals := approvalstore.New()
	approvalSvc := approvalservice.NewService(engine, consentSvc,
		approvalservice.NewMemoryTx(approvalservice.Stores{Approvals: approvals, Events: s.events}),
		approvals, s.sink, approvalservice.WithLogger(logger))

	s.sections = report.NewInMemorySectionStore()

	calculator := readiness.NewCalculator(engine,
		workflow.NewIndicatorCatalog(s.objects), consentSvc, approvalSvc,
		readiness.WithLogger(logger))

	s.instances = instance.NewInMemoryStore()
	s.instanceID = testutil.TestIDs.InstanceID1
	require.NoError(s.T(), s.instances.Save(context.Background(), &governance.ReportingInstance{
		ID:        s.instanceID,
		Cycle:     "NR7",
		Status:    governance.InstanceDraft,
		CreatedAt: time.Now(),
	}))

	s.tokens = auth.NewTokenService("router-test-secret", "nbms-test", time.Hour)

	handler := NewHandler(Deps{
		Engine:    engine,
		Workflow:  workflowSvc,
		Consent:   consentSvc,
		Approvals: approvalSvc,
		Readiness: calculator,
		Auditor:   auditor,
		Events:    s.events,
		Objects:   s.objects,
		Instances: s.instances,
		Sections:  s.sections,
		Tokens:    s.tokens,
		Logger:    logger,
	})
	s.router = NewRouter(handler)
}

func (s *RouterSuite) tokenFor(actor governance.Actor) string {
	token, err := s.tokens.Issue(actor, time.Now())
	require.NoError(s.T(), err)
	return token
}

func (s *RouterSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(s.T(), err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "203.0.113.47:51234"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) decode(rec *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (s *RouterSuite) seedIndicator(build func(*testutil.IndicatorBuilder) *testutil.IndicatorBuilder) *governance.Indicator {
	b := testutil.NewIndicatorBuilder()
	if build != nil {
		b = build(b)
	}
	indicator := b.Build()
	require.NoError(s.T(), s.objects.Save(context.Background(), indicator))
	return indicator
}

func (s *RouterSuite) contributor() governance.Actor {
	return testutil.NewActorBuilder().
		WithID(testutil.TestIDs.UserID1).
		WithOrg(testutil.TestIDs.OrgID1).
		WithRoles(governance.RoleContributor).
		Build()
}

func (s *RouterSuite) steward() governance.Actor {
	return testutil.NewActorBuilder().
		WithID(testutil.TestIDs.UserID2).
		WithOrg(testutil.TestIDs.OrgID1).
		WithRoles(governance.RoleDataSteward, governance.RoleSecretariat).
		Build()
}

func (s *RouterSuite) admin() governance.Actor {
	return testutil.NewActorBuilder().
		WithID(id.NewUserID()).
		WithOrg(testutil.TestIDs.OrgID1).
		WithRoles(governance.RoleSystemAdmin).
		Build()
}

func (s *RouterSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(s.T(), http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/readyz", "", nil)
	assert.Equal(s.T(), http.StatusOK, rec.Code)
}

func (s *RouterSuite) TestIssueToken() {
	rec := s.do(http.MethodPost, "/v1/auth/token", "", map[string]any{
		"user_id":      testutil.TestIDs.UserID1.String(),
		"display_name": "Test Steward",
		"org_id":       testutil.TestIDs.OrgID1.String(),
		"roles":        []string{"data_steward"},
	})
	require.Equal(s.T(), http.StatusOK, rec.Code)
	body := s.decode(rec)
	assert.NotEmpty(s.T(), body["access_token"])
	assert.Equal(s.T(), "Bearer", body["token_type"])
}

func (s *RouterSuite) TestWorkflowTransitions() {
	indicator := s.seedIndicator(nil)
	base := "/v1/objects/indicator/" + indicator.ID.String()

	s.Run("anonymous submit is unauthenticated", func() {
		rec := s.do(http.MethodPost, base+"/submit", "", nil)
		assert.Equal(s.T(), http.StatusUnauthorized, rec.Code)
		assert.Equal(s.T(), "unauthenticated", s.decode(rec)["error"])
	})

	s.Run("creator submits for review", func() {
		rec := s.do(http.MethodPost, base+"/submit", s.tokenFor(s.contributor()), nil)
		require.Equal(s.T(), http.StatusOK, rec.Code)
		assert.Equal(s.T(), "pending_review", s.decode(rec)["status"])
	})

	s.Run("contributor cannot approve", func() {
		rec := s.do(http.MethodPost, base+"/approve", s.tokenFor(s.contributor()),
			map[string]string{"note": "self serve"})
		assert.Equal(s.T(), http.StatusForbidden, rec.Code)
	})

	s.Run("steward approves with note", func() {
		rec := s.do(http.MethodPost, base+"/approve", s.tokenFor(s.steward()),
			map[string]string{"note": "checked against methodology"})
		require.Equal(s.T(), http.StatusOK, rec.Code)
		body := s.decode(rec)
		assert.Equal(s.T(), "approved", body["status"])
		assert.Equal(s.T(), "checked against methodology", body["review_note"])
	})

	s.Run("publish from approved", func() {
		rec := s.do(http.MethodPost, base+"/publish", s.tokenFor(s.steward()), nil)
		require.Equal(s.T(), http.StatusOK, rec.Code)
		assert.Equal(s.T(), "published", s.decode(rec)["status"])
	})

	s.Run("publish again fails the status precondition", func() {
		rec := s.do(http.MethodPost, base+"/publish", s.tokenFor(s.steward()), nil)
		assert.Equal(s.T(), http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("unknown kind is invalid input", func() {
		rec := s.do(http.MethodPost, "/v1/objects/widget/"+indicator.ID.String()+"/submit",
			s.tokenFor(s.steward()), nil)
		assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
	})

	s.Run("missing object is not found", func() {
		rec := s.do(http.MethodPost, "/v1/objects/indicator/"+id.NewObjectID().String()+"/submit",
			s.tokenFor(s.steward()), nil)
		assert.Equal(s.T(), http.StatusNotFound, rec.Code)
	})
}

func (s *RouterSuite) TestGetObjectVisibility() {
	published := s.seedIndicator(func(b *testutil.IndicatorBuilder) *testutil.IndicatorBuilder {
		return b.WithStatus(governance.StatusPublished).WithSensitivity(governance.SensitivityPublic)
	})
	internal := s.seedIndicator(func(b *testutil.IndicatorBuilder) *testutil.IndicatorBuilder {
		return b.WithStatus(governance.StatusPublished).WithSensitivity(governance.SensitivityInternal)
	})

	s.Run("anonymous sees published public", func() {
		rec := s.do(http.MethodGet, "/v1/objects/indicator/"+published.ID.String(), "", nil)
		assert.Equal(s.T(), http.StatusOK, rec.Code)
	})

	s.Run("anonymous cannot see internal, masked as not found", func() {
		rec := s.do(http.MethodGet, "/v1/objects/indicator/"+internal.ID.String(), "", nil)
		assert.Equal(s.T(), http.StatusNotFound, rec.Code)
	})

	s.Run("same-org actor sees internal", func() {
		rec := s.do(http.MethodGet, "/v1/objects/indicator/"+internal.ID.String(),
			s.tokenFor(s.contributor()), nil)
		assert.Equal(s.T(), http.StatusOK, rec.Code)
	})
}

func (s *RouterSuite) TestListIndicators() {
	s.seedIndicator(func(b *testutil.IndicatorBuilder) *testutil.IndicatorBuilder {
		return b.WithCode("IND-1.1").WithStatus(governance.StatusPublished).WithSensitivity(governance.SensitivityPublic)
	})
	s.seedIndicator(func(b *testutil.IndicatorBuilder) *testutil.IndicatorBuilder {
		return b.WithCode("IND-2.1").WithStatus(governance.StatusDraft)
	})

	s.Run("anonymous sees only published public", func() {
		rec := s.do(http.MethodGet, "/v1/indicators", "", nil)
		require.Equal(s.T(), http.StatusOK, rec.Code)
		indicators := s.decode(rec)["indicators"].([]any)
		require.Len(s.T(), indicators, 1)
		assert.Equal(s.T(), "IND-1.1", indicators[0].(map[string]any)["code"])
	})

	s.Run("steward sees org drafts too", func() {
		rec := s.do(http.MethodGet, "/v1/indicators", s.tokenFor(s.steward()), nil)
		require.Equal(s.T(), http.StatusOK, rec.Code)
		assert.Len(s.T(), s.decode(rec)["indicators"].([]any), 2)
	})

	s.Run("permission filter includes granted objects", func() {
		internal := s.seedIndicator(func(b *testutil.IndicatorBuilder) *testutil.IndicatorBuilder {
			return b.WithCode("IND-3.1").WithStatus(governance.StatusPublished).WithSensitivity(governance.SensitivityInternal)
		})
		outsider := testutil.NewActorBuilder().
			WithID(testutil.TestIDs.UserID2).
			WithOrg(testutil.TestIDs.OrgID2).
			WithRoles(governance.RoleViewer).
			Build()

		// No grant: the filter stays at the public subset.
		rec := s.do(http.MethodGet, "/v1/indicators?permission=view", s.tokenFor(outsider), nil)
		require.Equal(s.T(), http.StatusOK, rec.Code)
		require.Len(s.T(), s.decode(rec)["indicators"].([]any), 1)

		require.NoError(s.T(), s.grants.Save(context.Background(), authz.Grant{
			ActorID:    outsider.ID,
			Object:     internal.Ref(),
			Permission: "view",
		}))

		rec = s.do(http.MethodGet, "/v1/indicators?permission=view", s.tokenFor(outsider), nil)
		require.Equal(s.T(), http.StatusOK, rec.Code)
		codes := map[string]bool{}
		for _, raw := range s.decode(rec)["indicators"].([]any) {
			codes[raw.(map[string]any)["code"].(string)] = true
		}
		assert.Equal(s.T(), map[string]bool{"IND-1.1": true, "IND-3.1": true}, codes)
	})
}

func (s *RouterSuite) TestConsentEndpoints() {
	iplc := s.seedIndicator(func(b *testutil.IndicatorBuilder) *testutil.IndicatorBuilder {
		return b.WithStatus(governance.StatusPublished).WithSensitivity(governance.SensitivityIPLC)
	})
	path := "/v1/instances/" + s.instanceID.String() + "/consents/indicator/" + iplc.ID.String()

	communityRep := testutil.NewActorBuilder().
		WithID(id.NewUserID()).
		WithOrg(testutil.TestIDs.OrgID1).
		WithRoles(governance.RoleCommunityRep).
		Build()

	s.Run("consent defaults to required", func() {
		rec := s.do(http.MethodGet, path, s.tokenFor(s.steward()), nil)
		require.Equal(s.T(), http.StatusOK, rec.Code)
		body := s.decode(rec)
		assert.Equal(s.T(), "required", body["status"])
		assert.Equal(s.T(), true, body["requires_consent"])
	})

	s.Run("steward cannot decide iplc consent", func() {
		rec := s.do(http.MethodPut, path, s.tokenFor(s.steward()),
			map[string]string{"status": "granted"})
		assert.Equal(s.T(), http.StatusForbidden, rec.Code)
	})

	s.Run("community representative grants", func() {
		rec := s.do(http.MethodPut, path, s.tokenFor(communityRep),
			map[string]string{"status": "granted", "note": "community assembly 2026-08"})
		require.Equal(s.T(), http.StatusOK, rec.Code)
		assert.Equal(s.T(), "granted", s.decode(rec)["status"])

		rec = s.do(http.MethodGet, path, s.tokenFor(s.steward()), nil)
		require.Equal(s.T(), http.StatusOK, rec.Code)
		assert.Equal(s.T(), "granted", s.decode(rec)["status"])
	})

	s.Run("required is not an explicit decision", func() {
		rec := s.do(http.MethodPut, path, s.tokenFor(communityRep),
			map[string]string{"status": "required"})
		assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
	})

	s.Run("global consent applies absent an instance record", func() {
		other := s.seedIndicator(func(b *testutil.IndicatorBuilder) *testutil.IndicatorBuilder {
			return b.WithStatus(governance.StatusPublished).WithSensitivity(governance.SensitivityIPLC)
		})
		rec := s.do(http.MethodPut, "/v1/consents/indicator/"+other.ID.String(),
			s.tokenFor(communityRep), map[string]string{"status": "granted"})
		require.Equal(s.T(), http.StatusOK, rec.Code)

		rec = s.do(http.MethodGet,
			"/v1/instances/"+s.instanceID.String()+"/consents/indicator/"+other.ID.String(),
			s.tokenFor(s.steward()), nil)
		require.Equal(s.T(), http.StatusOK, rec.Code)
		assert.Equal(s.T(), "granted", s.decode(rec)["status"])
	})
}

func (s *RouterSuite) TestApprovalEndpoints() {
	indicator := s.seedIndicator(func(b *testutil.IndicatorBuilder) *testutil.IndicatorBuilder {
		return b.WithStatus(governance.StatusPublished).WithSensitivity(governance.SensitivityPublic)
	})
	base := "/v1/instances/" + s.instanceID.String() + "/approvals/indicator/" + indicator.ID.String()

	s.Run("steward approves for instance", func() {
		rec := s.do(http.MethodPost, base, s.tokenFor(s.steward()),
			map[string]string{"note": "cleared for NR7"})
		require.Equal(s.T(), http.StatusOK, rec.Code)
		body := s.decode(rec)
		assert.Equal(s.T(), "approved", body["decision"])
		assert.Equal(s.T(), "export", body["scope"])
	})

	s.Run("approved set lists the ref", func() {
		rec := s.do(http.MethodGet,
			"/v1/instances/"+s.instanceID.String()+"/approvals?kind=indicator",
			s.tokenFor(s.steward()), nil)
		require.Equal(s.T(), http.StatusOK, rec.Code)
		approved := s.decode(rec)["approved"].([]any)
		require.Len(s.T(), approved, 1)
		assert.Equal(s.T(), indicator.ID.String(), approved[0].(map[string]any)["object_id"])
	})

	s.Run("revoke empties the set", func() {
		rec := s.do(http.MethodPost, base+"/revoke", s.tokenFor(s.steward()),
			map[string]string{"note": "withdrawn pending review"})
		require.Equal(s.T(), http.StatusOK, rec.Code)
		assert.Equal(s.T(), "revoked", s.decode(rec)["decision"])

		rec = s.do(http.MethodGet,
			"/v1/instances/"+s.instanceID.String()+"/approvals?kind=indicator",
			s.tokenFor(s.steward()), nil)
		require.Equal(s.T(), http.StatusOK, rec.Code)
		assert.Empty(s.T(), s.decode(rec)["approved"])
	})

	s.Run("consent gate blocks and notifies", func() {
		iplc := s.seedIndicator(func(b *testutil.IndicatorBuilder) *testutil.IndicatorBuilder {
			return b.WithStatus(governance.StatusPublished).WithSensitivity(governance.SensitivityIPLC)
		})
		rec := s.do(http.MethodPost,
			"/v1/instances/"+s.instanceID.String()+"/approvals/indicator/"+iplc.ID.String(),
			s.tokenFor(s.steward()), nil)
		assert.Equal(s.T(), http.StatusForbidden, rec.Code)
		assert.Equal(s.T(), "missing_consent", s.decode(rec)["error"])
		assert.NotEmpty(s.T(), s.sink.SentTo(testutil.TestIDs.UserID2))
	})

	s.Run("contributor cannot approve", func() {
		rec := s.do(http.MethodPost, base, s.tokenFor(s.contributor()), nil)
		assert.Equal(s.T(), http.StatusForbidden, rec.Code)
	})

	s.Run("unknown instance is not found", func() {
		rec := s.do(http.MethodPost,
			"/v1/instances/"+testutil.TestIDs.InstanceID2.String()+"/approvals/indicator/"+indicator.ID.String(),
			s.tokenFor(s.steward()), nil)
		assert.Equal(s.T(), http.StatusNotFound, rec.Code)
	})
}

func (s *RouterSuite) TestReadinessEndpoint() {
	s.seedIndicator(func(b *testutil.IndicatorBuilder) *testutil.IndicatorBuilder {
		return b.WithCode("IND-1.1").WithStatus(governance.StatusPublished).
			WithSensitivity(governance.SensitivityPublic).FullyLinked()
	})
	path := "/v1/instances/" + s.instanceID.String() + "/readiness"

	s.Run("complete indicator is ready", func() {
		rec := s.do(http.MethodGet, path, s.tokenFor(s.steward()), nil)
		require.Equal(s.T(), http.StatusOK, rec.Code)
		body := s.decode(rec)
		summary := body["summary"].(map[string]any)
		assert.Equal(s.T(), true, summary["overall_ready"])
		assert.Equal(s.T(), float64(1), summary["indicator_count"])
	})

	s.Run("unlinked indicator blocks", func() {
		s.seedIndicator(func(b *testutil.IndicatorBuilder) *testutil.IndicatorBuilder {
			return b.WithCode("IND-2.1").WithStatus(governance.StatusPublished).
				WithSensitivity(governance.SensitivityPublic)
		})
		rec := s.do(http.MethodGet, path, s.tokenFor(s.steward()), nil)
		require.Equal(s.T(), http.StatusOK, rec.Code)
		summary := s.decode(rec)["summary"].(map[string]any)
		assert.Equal(s.T(), false, summary["overall_ready"])
		assert.Equal(s.T(), float64(1), summary["blocking_gap_count"])
	})

	s.Run("selected scope follows approvals", func() {
		rec := s.do(http.MethodGet, path+"?scope=selected", s.tokenFor(s.steward()), nil)
		require.Equal(s.T(), http.StatusOK, rec.Code)
		summary := s.decode(rec)["summary"].(map[string]any)
		assert.Equal(s.T(), float64(0), summary["indicator_count"])
	})

	s.Run("invalid scope rejected", func() {
		rec := s.do(http.MethodGet, path+"?scope=everything", s.tokenFor(s.steward()), nil)
		assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
	})
}

func (s *RouterSuite) TestFreezeInstance() {
	path := "/v1/instances/" + s.instanceID.String() + "/freeze"

	s.Run("contributor cannot freeze", func() {
		rec := s.do(http.MethodPost, path, s.tokenFor(s.contributor()), nil)
		assert.Equal(s.T(), http.StatusForbidden, rec.Code)
	})

	s.Run("admin freezes once", func() {
		rec := s.do(http.MethodPost, path, s.tokenFor(s.admin()), nil)
		require.Equal(s.T(), http.StatusOK, rec.Code)
		assert.Equal(s.T(), true, s.decode(rec)["frozen"])

		rec = s.do(http.MethodPost, path, s.tokenFor(s.admin()), nil)
		assert.Equal(s.T(), http.StatusConflict, rec.Code)
	})
}

func (s *RouterSuite) TestSectionEndpoints() {
	base := "/v1/instances/" + s.instanceID.String() + "/sections"

	s.Run("contributor cannot edit sections", func() {
		rec := s.do(http.MethodPut, base+"/section_i_priorities", s.tokenFor(s.contributor()),
			map[string]string{"content": "nope"})
		assert.Equal(s.T(), http.StatusForbidden, rec.Code)
	})

	s.Run("steward writes and lists sections", func() {
		rec := s.do(http.MethodPut, base+"/section_i_priorities", s.tokenFor(s.steward()),
			map[string]string{"content": "National priorities narrative."})
		require.Equal(s.T(), http.StatusOK, rec.Code)
		assert.Equal(s.T(), true, s.decode(rec)["filled"])

		rec = s.do(http.MethodGet, base, s.tokenFor(s.steward()), nil)
		require.Equal(s.T(), http.StatusOK, rec.Code)
		assert.Len(s.T(), s.decode(rec)["sections"].([]any), 1)
	})

	s.Run("frozen instance rejects edits", func() {
		rec := s.do(http.MethodPost, "/v1/instances/"+s.instanceID.String()+"/freeze",
			s.tokenFor(s.admin()), nil)
		require.Equal(s.T(), http.StatusOK, rec.Code)

		rec = s.do(http.MethodPut, base+"/section_ii_implementation", s.tokenFor(s.steward()),
			map[string]string{"content": "too late"})
		assert.Equal(s.T(), http.StatusForbidden, rec.Code)
		assert.Equal(s.T(), "instance_frozen", s.decode(rec)["error"])
	})
}

func (s *RouterSuite) TestAuditEndpoints() {
	indicator := s.seedIndicator(nil)
	rec := s.do(http.MethodPost, "/v1/objects/indicator/"+indicator.ID.String()+"/submit",
		s.tokenFor(s.contributor()), nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	trail := "/v1/audit/indicator/" + indicator.ID.String()

	s.Run("contributor cannot read the trail", func() {
		rec := s.do(http.MethodGet, trail, s.tokenFor(s.contributor()), nil)
		assert.Equal(s.T(), http.StatusForbidden, rec.Code)
	})

	s.Run("admin reads the trail", func() {
		rec := s.do(http.MethodGet, trail, s.tokenFor(s.admin()), nil)
		require.Equal(s.T(), http.StatusOK, rec.Code)
		events := s.decode(rec)["events"].([]any)
		require.Len(s.T(), events, 1)
		assert.Equal(s.T(), "submit_for_review", events[0].(map[string]any)["action"])
	})

	s.Run("purge requires a system admin", func() {
		rec := s.do(http.MethodPost, "/v1/audit/purge", s.tokenFor(s.steward()),
			map[string]string{"older_than": "720h"})
		assert.Equal(s.T(), http.StatusForbidden, rec.Code)
	})

	s.Run("system admin purges by age", func() {
		rec := s.do(http.MethodPost, "/v1/audit/purge", s.tokenFor(s.admin()),
			map[string]string{"older_than": "720h"})
		require.Equal(s.T(), http.StatusOK, rec.Code)
		assert.Equal(s.T(), float64(0), s.decode(rec)["purged"])
	})

	s.Run("malformed duration is invalid input", func() {
		rec := s.do(http.MethodPost, "/v1/audit/purge", s.tokenFor(s.admin()),
			map[string]string{"older_than": "soon"})
		assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
	})
}

func TestIssueTokenSecretGate(t *testing.T) {
	hash, err := secrets.Hash("shared-api-secret")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(Deps{
		Engine:      authz.NewEngine(),
		Tokens:      auth.NewTokenService("gate-test-secret", "nbms-test", time.Hour),
		TokenSecret: hash,
		Logger:      logger,
	})
	router := NewRouter(handler)

	body, err := json.Marshal(map[string]any{
		"user_id": testutil.TestIDs.UserID1.String(),
	})
	require.NoError(t, err)

	t.Run("missing secret is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/token", bytes.NewReader(body))
		req.RemoteAddr = "203.0.113.47:51234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("matching secret passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/token", bytes.NewReader(body))
		req.RemoteAddr = "203.0.113.47:51234"
		req.Header.Set("X-Auth-Secret", "shared-api-secret")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func (s *RouterSuite) TestInvalidToken() {
	rec := s.do(http.MethodGet, "/v1/indicators", "not-a-jwt", nil)
	assert.Equal(s.T(), http.StatusUnauthorized, rec.Code)
}
