// Package readiness computes the export-eligibility verdict for a reporting
// instance. The calculator is strictly read-only: it aggregates workflow,
// consent, and approval state into a report and never writes any of it back,
// so it is safe to run repeatedly from dashboards and the CLI.
package readiness

// Scope selects which indicators a readiness run evaluates.
type Scope string

const (
	// ScopeAll evaluates every indicator visible to the calling actor.
	ScopeAll Scope = "all"
	// ScopeSelected evaluates only indicators approved for the instance.
	ScopeSelected Scope = "selected"
)

// IsValid checks if the scope is one of the supported enum values.
func (s Scope) IsValid() bool {
	return s == ScopeAll || s == ScopeSelected
}

// Gap names reported in the per-indicator missing list.
const (
	GapTarget      = "national target link"
	GapFramework   = "framework alignment"
	GapMonitoring  = "monitoring programme link"
	GapDataset     = "dataset catalogue link"
	GapMethodology = "methodology version"
	GapConsent     = "consent not granted"
	GapSensitivity = "sensitivity clearance"
)

// IndicatorReadiness is the per-indicator slice of the report. The JSON
// field names are a de facto contract with the report-export layer; renames
// break downstream consumers.
type IndicatorReadiness struct {
	IndicatorID string `json:"indicator_id"`
	Code        string `json:"code"`
	Name        string `json:"name"`

	HasTarget             bool `json:"has_target"`
	HasFrameworkAlignment bool `json:"has_framework_alignment"`
	HasMonitoringLink     bool `json:"has_monitoring_link"`
	HasDatasetLink        bool `json:"has_dataset_link"`
	HasMethodology        bool `json:"has_methodology"`
	ConsentBlocked        bool `json:"consent_blocked"`
	SensitivityBlocked    bool `json:"sensitivity_blocked"`

	Blocker bool     `json:"blocker"`
	Missing []string `json:"missing"`
}

// Summary is the roll-up verdict for the instance.
type Summary struct {
	OverallReady     bool `json:"overall_ready"`
	BlockingGapCount int  `json:"blocking_gap_count"`
	IndicatorCount   int  `json:"indicator_count"`
	ReadyCount       int  `json:"ready_count"`
}

// Details carries run parameters and section-level findings.
type Details struct {
	InstanceID      string   `json:"instance_id"`
	InstanceLabel   string   `json:"instance_label"`
	Scope           Scope    `json:"scope"`
	SectionsChecked bool     `json:"sections_checked"`
	MissingSections []string `json:"missing_sections"`
}

// Report is the full readiness output. It contains no timestamps or other
// run-varying data: two runs with no intervening state change must serialize
// to byte-identical JSON.
type Report struct {
	Summary      Summary              `json:"summary"`
	PerIndicator []IndicatorReadiness `json:"per_indicator"`
	Details      Details              `json:"details"`
}
