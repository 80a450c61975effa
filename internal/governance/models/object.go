package models

import (
	id "nbms/pkg/domain"
	dErrors "nbms/pkg/domain-errors"
)

// Kind names a governed object type (the content-type half of a Ref).
type Kind string

const (
	KindIndicator      Kind = "indicator"
	KindNationalTarget Kind = "national_target"
	KindDataset        Kind = "dataset"
	KindDatasetRelease Kind = "dataset_release"
	KindEvidence       Kind = "evidence"
	KindFramework      Kind = "framework"
	KindSpatialLayer   Kind = "spatial_layer"
)

// KnownKinds enumerates the governed object types for input validation.
var KnownKinds = map[Kind]bool{
	KindIndicator:      true,
	KindNationalTarget: true,
	KindDataset:        true,
	KindDatasetRelease: true,
	KindEvidence:       true,
	KindFramework:      true,
	KindSpatialLayer:   true,
}

// ParseKind validates and parses a kind string.
// Use at trust boundaries for external input.
func ParseKind(s string) (Kind, error) {
	kind := Kind(s)
	if !KnownKinds[kind] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown object kind: "+s)
	}
	return kind, nil
}

// Ref identifies a governed object across types: (content type, object ID).
// It is the key shape shared by consent records, export approvals, grants,
// and audit events.
type Ref struct {
	Kind Kind
	ID   id.ObjectID
}

func (r Ref) String() string {
	return string(r.Kind) + ":" + r.ID.String()
}

// IsZero reports whether the ref is unset.
func (r Ref) IsZero() bool {
	return r.Kind == "" || r.ID.IsNil()
}

// Meta carries the governed attributes every domain entity shares. Status
// and sensitivity are independent axes: a published object can be any
// sensitivity level.
type Meta struct {
	Status      Status
	Sensitivity Sensitivity
	OrgID       *id.OrgID
	CreatedBy   *id.UserID
	ReviewNote  string
	// ExportApproved is the legacy global export gate used by bulk payload
	// building. Instance-scoped export approval lives in the approval
	// registry and is authoritative for a specific report.
	ExportApproved bool
	// ConsentRequired forces consent gating even below the IPLC tier, for
	// records flagged sensitive by agreement rather than classification.
	ConsentRequired bool
}

// Governed is any domain entity subject to the authorization, workflow,
// consent, and approval rules.
type Governed interface {
	Ref() Ref
	Meta() *Meta
}

// CreatedByActor reports whether the actor created the object.
// Anonymous actors never own anything.
func CreatedByActor(obj Governed, actor Actor) bool {
	if !actor.Authenticated() {
		return false
	}
	createdBy := obj.Meta().CreatedBy
	return createdBy != nil && *createdBy == actor.ID
}

// Indicator is a biodiversity indicator, the unit the readiness calculator
// evaluates. Link fields reference the supporting records a complete
// indicator must carry before export.
type Indicator struct {
	ID           id.ObjectID
	Code         string
	Name         string
	GovernedMeta Meta

	TargetID              *id.ObjectID
	FrameworkMappingIDs   []id.ObjectID
	MonitoringProgrammeID *id.ObjectID
	DatasetCatalogID      *id.ObjectID
	MethodologyVersionID  *id.ObjectID
}

func (i *Indicator) Ref() Ref    { return Ref{Kind: KindIndicator, ID: i.ID} }
func (i *Indicator) Meta() *Meta { return &i.GovernedMeta }

// NationalTarget is a national biodiversity target.
type NationalTarget struct {
	ID           id.ObjectID
	Code         string
	Title        string
	GovernedMeta Meta
}

func (t *NationalTarget) Ref() Ref    { return Ref{Kind: KindNationalTarget, ID: t.ID} }
func (t *NationalTarget) Meta() *Meta { return &t.GovernedMeta }
