// Package main is a diagnostics CLI that runs the export-readiness
// calculator over the built-in demo dataset and prints the JSON report.
// Useful for inspecting how consent and approval state shift the verdict
// without standing up the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	approvalservice "nbms/internal/approval/service"
	approvalstore "nbms/internal/approval/store"
	"nbms/internal/audit"
	"nbms/internal/authz"
	consentservice "nbms/internal/consent/service"
	consentstore "nbms/internal/consent/store"
	governance "nbms/internal/governance/models"
	"nbms/internal/notify"
	"nbms/internal/readiness"
	"nbms/internal/workflow"
	id "nbms/pkg/domain"
)

func main() {
	scopeFlag := flag.String("scope", "all", "Readiness scope: all or selected")
	grantConsent := flag.Bool("grant-consent", false, "Grant consent for the IPLC-sensitive demo indicator first")
	approveAll := flag.Bool("approve-all", false, "Approve every demo indicator for the instance first")
	flag.Parse()

	scope := readiness.Scope(*scopeFlag)
	if !scope.IsValid() {
		fmt.Fprintf(os.Stderr, "unknown scope %q, want all or selected\n", *scopeFlag)
		os.Exit(1)
	}

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := authz.NewEngine()
	sink := notify.NewMemorySink()

	objects := workflow.NewInMemoryObjectStore()
	events := audit.NewInMemoryStore()
	consents := consentstore.New()
	approvals := approvalstore.New()

	consentSvc := consentservice.NewService(
		consentservice.NewMemoryTx(consentservice.Stores{Consents: consents, Events: events}),
		consents, sink, consentservice.WithLogger(logger))
	approvalSvc := approvalservice.NewService(engine, consentSvc,
		approvalservice.NewMemoryTx(approvalservice.Stores{Approvals: approvals, Events: events}),
		approvals, sink, approvalservice.WithLogger(logger))

	instance, indicators := seedDemo(ctx, objects)

	steward := governance.Actor{
		ID:    id.NewUserID(),
		Roles: []governance.Role{governance.RoleDataSteward, governance.RoleCommunityRep},
	}
	org := demoOrgID
	steward.OrgID = &org

	if *grantConsent {
		for _, indicator := range indicators {
			if indicator.GovernedMeta.Sensitivity != governance.SensitivityIPLC {
				continue
			}
			if _, err := consentSvc.Set(ctx, steward, instance.ID, indicator, "granted", "granted via readiness CLI"); err != nil {
				fatalf("grant consent: %v", err)
			}
		}
	}
	if *approveAll {
		for _, indicator := range indicators {
			_, err := approvalSvc.ApproveForInstance(ctx, steward, instance, indicator, approvalservice.Request{
				Note: "approved via readiness CLI",
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "skipping %s: %v\n", indicator.Code, err)
			}
		}
	}

	calculator := readiness.NewCalculator(engine,
		workflow.NewIndicatorCatalog(objects), consentSvc, approvalSvc,
		readiness.WithLogger(logger))

	report, err := calculator.Compute(ctx, steward, instance, scope)
	if err != nil {
		fatalf("compute readiness: %v", err)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fatalf("marshal report: %v", err)
	}
	fmt.Println(string(out))
}

var demoOrgID = id.OrgID(uuid.MustParse("0be31f66-1111-4000-8000-000000000001"))

func seedDemo(ctx context.Context, objects *workflow.InMemoryObjectStore) (*governance.ReportingInstance, []*governance.Indicator) {
	org := demoOrgID
	creator := id.NewUserID()
	published := func(sensitivity governance.Sensitivity) governance.Meta {
		return governance.Meta{
			Status:      governance.StatusPublished,
			Sensitivity: sensitivity,
			OrgID:       &org,
			CreatedBy:   &creator,
		}
	}

	target := id.NewObjectID()
	link := id.NewObjectID()

	indicators := []*governance.Indicator{
		{
			ID:                    id.NewObjectID(),
			Code:                  "IND-1.1",
			Name:                  "Protected area coverage",
			GovernedMeta:          published(governance.SensitivityPublic),
			TargetID:              &target,
			FrameworkMappingIDs:   []id.ObjectID{link},
			MonitoringProgrammeID: &link,
			DatasetCatalogID:      &link,
			MethodologyVersionID:  &link,
		},
		{
			ID:           id.NewObjectID(),
			Code:         "IND-2.1",
			Name:         "Invasive species eradication progress",
			GovernedMeta: published(governance.SensitivityInternal),
			TargetID:     &target,
		},
		{
			ID:                    id.NewObjectID(),
			Code:                  "IND-3.1",
			Name:                  "Traditional knowledge in land management",
			GovernedMeta:          published(governance.SensitivityIPLC),
			TargetID:              &target,
			FrameworkMappingIDs:   []id.ObjectID{link},
			MonitoringProgrammeID: &link,
			DatasetCatalogID:      &link,
			MethodologyVersionID:  &link,
		},
	}
	for _, indicator := range indicators {
		if err := objects.Save(ctx, indicator); err != nil {
			fatalf("seed objects: %v", err)
		}
	}

	return &governance.ReportingInstance{
		ID:        id.NewInstanceID(),
		Cycle:     "NR7",
		Status:    governance.InstanceDraft,
		CreatedAt: time.Now(),
	}, indicators
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
