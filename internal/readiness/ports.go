package readiness

import (
	"context"

	governance "nbms/internal/governance/models"
	id "nbms/pkg/domain"
)

// IndicatorSource supplies the indicators a readiness run evaluates.
type IndicatorSource interface {
	// ListAll returns every indicator in the system, unfiltered.
	ListAll(ctx context.Context) ([]*governance.Indicator, error)
	// ListByRefs returns the indicators matching the given refs. Refs that
	// resolve to nothing are skipped, not errors: an approval may outlive
	// its object.
	ListByRefs(ctx context.Context, refs []governance.Ref) ([]*governance.Indicator, error)
}

// ConsentReader is the slice of the consent gate the calculator reads.
type ConsentReader interface {
	RequiresConsent(obj governance.Governed) bool
	Granted(ctx context.Context, instanceID id.InstanceID, obj governance.Governed) (bool, error)
}

// ApprovalReader resolves the instance's approved export set.
type ApprovalReader interface {
	ApprovedRefs(ctx context.Context, instanceID id.InstanceID, kind governance.Kind, scope string) ([]governance.Ref, error)
}

// SectionReader reports narrative sections still lacking content for the
// instance. Only consulted when section completeness is enabled.
type SectionReader interface {
	MissingSections(ctx context.Context, instanceID id.InstanceID) ([]string, error)
}
