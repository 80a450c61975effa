package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"nbms/internal/authz"
	governance "nbms/internal/governance/models"
	"nbms/internal/instance"
	"nbms/internal/workflow"
	id "nbms/pkg/domain"
)

// Deterministic demo IDs so curl examples and the readiness CLI work out of
// the box against a fresh memory-backed server.
var (
	demoOrgID      = id.OrgID(uuid.MustParse("0be31f66-1111-4000-8000-000000000001"))
	demoStewardID  = id.UserID(uuid.MustParse("0be31f66-2222-4000-8000-000000000001"))
	demoReviewerID = id.UserID(uuid.MustParse("0be31f66-2222-4000-8000-000000000002"))
	demoInstanceID = id.InstanceID(uuid.MustParse("0be31f66-3333-4000-8000-000000000001"))

	demoTargetID    = id.ObjectID(uuid.MustParse("0be31f66-4444-4000-8000-000000000001"))
	demoFrameworkID = id.ObjectID(uuid.MustParse("0be31f66-4444-4000-8000-000000000002"))
	demoDatasetID   = id.ObjectID(uuid.MustParse("0be31f66-4444-4000-8000-000000000003"))
)

// seedDemoData loads a small governed-object set into the memory stores:
// one reporting instance, a national target, three indicators covering the
// interesting readiness cases (complete, gappy, consent-gated), and one
// object-level grant so the permission-filtered listing has data.
func seedDemoData(ctx context.Context, objects *workflow.InMemoryObjectStore, instances instance.Store, grants authz.GrantStore, logger *slog.Logger) error {
	now := time.Now()

	if err := instances.Save(ctx, &governance.ReportingInstance{
		ID:        demoInstanceID,
		Cycle:     "NR7",
		Status:    governance.InstanceDraft,
		CreatedAt: now,
	}); err != nil {
		return err
	}

	steward := demoStewardID
	org := demoOrgID
	published := func(sensitivity governance.Sensitivity) governance.Meta {
		return governance.Meta{
			Status:      governance.StatusPublished,
			Sensitivity: sensitivity,
			OrgID:       &org,
			CreatedBy:   &steward,
		}
	}

	seeds := []governance.Governed{
		&governance.NationalTarget{
			ID:           demoTargetID,
			Code:         "NT-1",
			Title:        "Protect 30 percent of terrestrial area by 2030",
			GovernedMeta: published(governance.SensitivityPublic),
		},
		&governance.Indicator{
			ID:                    id.ObjectID(uuid.MustParse("0be31f66-5555-4000-8000-000000000001")),
			Code:                  "IND-1.1",
			Name:                  "Protected area coverage",
			GovernedMeta:          published(governance.SensitivityPublic),
			TargetID:              &demoTargetID,
			FrameworkMappingIDs:   []id.ObjectID{demoFrameworkID},
			MonitoringProgrammeID: &demoFrameworkID,
			DatasetCatalogID:      &demoDatasetID,
			MethodologyVersionID:  &demoDatasetID,
		},
		&governance.Indicator{
			ID:           id.ObjectID(uuid.MustParse("0be31f66-5555-4000-8000-000000000002")),
			Code:         "IND-2.1",
			Name:         "Invasive species eradication progress",
			GovernedMeta: published(governance.SensitivityInternal),
			TargetID:     &demoTargetID,
		},
		&governance.Indicator{
			ID:                    id.ObjectID(uuid.MustParse("0be31f66-5555-4000-8000-000000000003")),
			Code:                  "IND-3.1",
			Name:                  "Traditional knowledge in land management",
			GovernedMeta:          published(governance.SensitivityIPLC),
			TargetID:              &demoTargetID,
			FrameworkMappingIDs:   []id.ObjectID{demoFrameworkID},
			MonitoringProgrammeID: &demoFrameworkID,
			DatasetCatalogID:      &demoDatasetID,
			MethodologyVersionID:  &demoDatasetID,
		},
	}

	for _, obj := range seeds {
		if err := objects.Save(ctx, obj); err != nil {
			return err
		}
	}

	// The demo reviewer may view the internal indicator across org lines.
	if err := grants.Save(ctx, authz.Grant{
		ActorID:    demoReviewerID,
		Object:     governance.Ref{Kind: governance.KindIndicator, ID: id.ObjectID(uuid.MustParse("0be31f66-5555-4000-8000-000000000002"))},
		Permission: "view",
	}); err != nil {
		return err
	}

	logger.Info("seeded demo data",
		"instance_id", demoInstanceID.String(),
		"objects", len(seeds),
	)
	return nil
}
