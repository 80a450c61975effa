package models

import (
	"fmt"

	dErrors "nbms/pkg/domain-errors"
)

// Sensitivity classifies how widely a governed object may be seen. The
// levels are not ordered - each carries distinct visibility semantics.
type Sensitivity string

const (
	// SensitivityPublic objects are world-readable once published.
	SensitivityPublic Sensitivity = "public"
	// SensitivityInternal objects are readable within the owning organisation.
	SensitivityInternal Sensitivity = "internal"
	// SensitivityRestricted objects are readable within the owning
	// organisation, subject to the same rules as internal today but kept
	// distinct so policy can diverge without a data migration.
	SensitivityRestricted Sensitivity = "restricted"
	// SensitivityIPLC marks Indigenous Peoples and Local Communities data.
	// Visibility additionally requires the community representative role,
	// and export requires explicit consent.
	SensitivityIPLC Sensitivity = "iplc_sensitive"
)

// ValidSensitivities is the single source of truth for classification levels.
var ValidSensitivities = map[Sensitivity]bool{
	SensitivityPublic:     true,
	SensitivityInternal:   true,
	SensitivityRestricted: true,
	SensitivityIPLC:       true,
}

// IsValid checks if the sensitivity is one of the supported enum values.
func (s Sensitivity) IsValid() bool {
	return ValidSensitivities[s]
}

// ParseSensitivity validates and parses a sensitivity string.
// Use at trust boundaries for external input.
func ParseSensitivity(s string) (Sensitivity, error) {
	sensitivity := Sensitivity(s)
	if !sensitivity.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("invalid sensitivity: %q", s))
	}
	return sensitivity, nil
}
