package readiness

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	approvalmodels "nbms/internal/approval/models"
	"nbms/internal/authz"
	governance "nbms/internal/governance/models"
	"nbms/internal/readiness/mocks"
	id "nbms/pkg/domain"
	dErrors "nbms/pkg/domain-errors"
)

type CalculatorSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	indicators *mocks.MockIndicatorSource
	consent    *mocks.MockConsentReader
	approvals  *mocks.MockApprovalReader
	sections   *mocks.MockSectionReader
	calc       *Calculator

	org      id.OrgID
	steward  governance.Actor
	instance *governance.ReportingInstance
}

func TestCalculatorSuite(t *testing.T) {
	suite.Run(t, new(CalculatorSuite))
}

func (s *CalculatorSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.indicators = mocks.NewMockIndicatorSource(s.ctrl)
	s.consent = mocks.NewMockConsentReader(s.ctrl)
	s.approvals = mocks.NewMockApprovalReader(s.ctrl)
	s.sections = mocks.NewMockSectionReader(s.ctrl)
	s.calc = NewCalculator(authz.NewEngine(), s.indicators, s.consent, s.approvals)

	s.org = id.NewOrgID()
	s.steward = governance.Actor{ID: id.NewUserID(), OrgID: &s.org, Roles: []governance.Role{governance.RoleDataSteward}}
	s.instance = &governance.ReportingInstance{
		ID:           id.NewInstanceID(),
		Cycle:        "NR7",
		VersionLabel: "v1",
		CreatedAt:    time.Now().UTC(),
	}
}

func (s *CalculatorSuite) TearDownTest() {
	s.ctrl.Finish()
}

// complete returns an indicator with every supporting link populated.
func (s *CalculatorSuite) complete(code string) *governance.Indicator {
	target := id.NewObjectID()
	monitoring := id.NewObjectID()
	dataset := id.NewObjectID()
	methodology := id.NewObjectID()
	return &governance.Indicator{
		ID:   id.NewObjectID(),
		Code: code,
		Name: "Indicator " + code,
		GovernedMeta: governance.Meta{
			Status:      governance.StatusPublished,
			Sensitivity: governance.SensitivityPublic,
			OrgID:       &s.org,
		},
		TargetID:              &target,
		FrameworkMappingIDs:   []id.ObjectID{id.NewObjectID()},
		MonitoringProgrammeID: &monitoring,
		DatasetCatalogID:      &dataset,
		MethodologyVersionID:  &methodology,
	}
}

func (s *CalculatorSuite) TestCompleteIndicatorIsReady() {
	ind := s.complete("IND-1.1")
	s.indicators.EXPECT().ListAll(gomock.Any()).Return([]*governance.Indicator{ind}, nil)
	s.consent.EXPECT().RequiresConsent(ind).Return(false)

	report, err := s.calc.Compute(context.Background(), s.steward, s.instance, ScopeAll)
	s.Require().NoError(err)

	s.True(report.Summary.OverallReady)
	s.Equal(0, report.Summary.BlockingGapCount)
	s.Equal(1, report.Summary.ReadyCount)
	s.Require().Len(report.PerIndicator, 1)
	entry := report.PerIndicator[0]
	s.True(entry.HasTarget)
	s.True(entry.HasFrameworkAlignment)
	s.True(entry.HasMonitoringLink)
	s.True(entry.HasDatasetLink)
	s.True(entry.HasMethodology)
	s.False(entry.Blocker)
	s.Empty(entry.Missing)
}

func (s *CalculatorSuite) TestMissingLinksAreNamedGaps() {
	ind := s.complete("IND-2.1")
	ind.TargetID = nil
	ind.MethodologyVersionID = nil
	s.indicators.EXPECT().ListAll(gomock.Any()).Return([]*governance.Indicator{ind}, nil)
	s.consent.EXPECT().RequiresConsent(ind).Return(false)

	report, err := s.calc.Compute(context.Background(), s.steward, s.instance, ScopeAll)
	s.Require().NoError(err)

	s.False(report.Summary.OverallReady)
	s.Equal(1, report.Summary.BlockingGapCount)
	entry := report.PerIndicator[0]
	s.True(entry.Blocker)
	s.Equal([]string{GapTarget, GapMethodology}, entry.Missing)
}

func (s *CalculatorSuite) TestConsentBlocksIPLCIndicator() {
	ind := s.complete("IND-3.1")
	ind.GovernedMeta.Sensitivity = governance.SensitivityIPLC
	s.indicators.EXPECT().ListAll(gomock.Any()).Return([]*governance.Indicator{ind}, nil)
	s.consent.EXPECT().RequiresConsent(ind).Return(true)
	s.consent.EXPECT().Granted(gomock.Any(), s.instance.ID, ind).Return(false, nil)

	report, err := s.calc.Compute(context.Background(), s.steward, s.instance, ScopeAll)
	s.Require().NoError(err)

	entry := report.PerIndicator[0]
	s.True(entry.ConsentBlocked)
	s.True(entry.SensitivityBlocked)
	s.True(entry.Blocker)
	s.Equal([]string{GapConsent, GapSensitivity}, entry.Missing)
}

func (s *CalculatorSuite) TestFlaggedConsentWithoutIPLCSensitivity() {
	ind := s.complete("IND-3.2")
	ind.GovernedMeta.ConsentRequired = true
	s.indicators.EXPECT().ListAll(gomock.Any()).Return([]*governance.Indicator{ind}, nil)
	s.consent.EXPECT().RequiresConsent(ind).Return(true)
	s.consent.EXPECT().Granted(gomock.Any(), s.instance.ID, ind).Return(false, nil)

	report, err := s.calc.Compute(context.Background(), s.steward, s.instance, ScopeAll)
	s.Require().NoError(err)

	entry := report.PerIndicator[0]
	s.True(entry.ConsentBlocked)
	s.False(entry.SensitivityBlocked)
	s.Equal([]string{GapConsent}, entry.Missing)
}

func (s *CalculatorSuite) TestGrantedConsentClearsBlock() {
	ind := s.complete("IND-3.3")
	ind.GovernedMeta.Sensitivity = governance.SensitivityIPLC
	s.indicators.EXPECT().ListAll(gomock.Any()).Return([]*governance.Indicator{ind}, nil)
	s.consent.EXPECT().RequiresConsent(ind).Return(true)
	s.consent.EXPECT().Granted(gomock.Any(), s.instance.ID, ind).Return(true, nil)

	report, err := s.calc.Compute(context.Background(), s.steward, s.instance, ScopeAll)
	s.Require().NoError(err)

	entry := report.PerIndicator[0]
	s.False(entry.ConsentBlocked)
	s.False(entry.SensitivityBlocked)
	s.True(report.Summary.OverallReady)
}

func (s *CalculatorSuite) TestScopeAllFiltersByVisibility() {
	mine := s.complete("IND-4.1")
	otherOrg := id.NewOrgID()
	hidden := s.complete("IND-4.2")
	hidden.GovernedMeta.Status = governance.StatusDraft
	hidden.GovernedMeta.OrgID = &otherOrg
	s.indicators.EXPECT().ListAll(gomock.Any()).Return([]*governance.Indicator{mine, hidden}, nil)
	s.consent.EXPECT().RequiresConsent(mine).Return(false)

	report, err := s.calc.Compute(context.Background(), s.steward, s.instance, ScopeAll)
	s.Require().NoError(err)

	s.Require().Len(report.PerIndicator, 1)
	s.Equal("IND-4.1", report.PerIndicator[0].Code)
}

func (s *CalculatorSuite) TestScopeSelectedUsesApprovedSet() {
	ind := s.complete("IND-5.1")
	refs := []governance.Ref{ind.Ref()}
	s.approvals.EXPECT().
		ApprovedRefs(gomock.Any(), s.instance.ID, governance.KindIndicator, approvalmodels.DefaultScope).
		Return(refs, nil)
	s.indicators.EXPECT().ListByRefs(gomock.Any(), refs).Return([]*governance.Indicator{ind}, nil)
	s.consent.EXPECT().RequiresConsent(ind).Return(false)

	report, err := s.calc.Compute(context.Background(), s.steward, s.instance, ScopeSelected)
	s.Require().NoError(err)

	s.Require().Len(report.PerIndicator, 1)
	s.Equal(ScopeSelected, report.Details.Scope)
}

func (s *CalculatorSuite) TestOutputSortedByCode() {
	third := s.complete("IND-9.1")
	first := s.complete("IND-1.1")
	second := s.complete("IND-5.1")
	s.indicators.EXPECT().ListAll(gomock.Any()).
		Return([]*governance.Indicator{third, first, second}, nil)
	s.consent.EXPECT().RequiresConsent(gomock.Any()).Return(false).Times(3)

	report, err := s.calc.Compute(context.Background(), s.steward, s.instance, ScopeAll)
	s.Require().NoError(err)

	s.Equal("IND-1.1", report.PerIndicator[0].Code)
	s.Equal("IND-5.1", report.PerIndicator[1].Code)
	s.Equal("IND-9.1", report.PerIndicator[2].Code)
}

func (s *CalculatorSuite) TestMissingSectionsBlockReadiness() {
	calc := NewCalculator(authz.NewEngine(), s.indicators, s.consent, s.approvals,
		WithSectionReader(s.sections))
	ind := s.complete("IND-6.1")
	s.indicators.EXPECT().ListAll(gomock.Any()).Return([]*governance.Indicator{ind}, nil).Times(2)
	s.consent.EXPECT().RequiresConsent(ind).Return(false).Times(2)
	s.sections.EXPECT().MissingSections(gomock.Any(), s.instance.ID).
		Return([]string{"section_iv_means_of_implementation"}, nil)

	report, err := calc.Compute(context.Background(), s.steward, s.instance, ScopeAll)
	s.Require().NoError(err)
	s.False(report.Summary.OverallReady)
	s.Equal(0, report.Summary.BlockingGapCount)
	s.True(report.Details.SectionsChecked)
	s.Equal([]string{"section_iv_means_of_implementation"}, report.Details.MissingSections)

	// All sections filled: the same indicator set is now ready.
	s.sections.EXPECT().MissingSections(gomock.Any(), s.instance.ID).Return(nil, nil)
	report, err = calc.Compute(context.Background(), s.steward, s.instance, ScopeAll)
	s.Require().NoError(err)
	s.True(report.Summary.OverallReady)
}

func (s *CalculatorSuite) TestRepeatedRunsAreByteIdentical() {
	mixed := s.complete("IND-7.2")
	mixed.DatasetCatalogID = nil
	iplc := s.complete("IND-7.1")
	iplc.GovernedMeta.Sensitivity = governance.SensitivityIPLC
	s.indicators.EXPECT().ListAll(gomock.Any()).
		Return([]*governance.Indicator{mixed, iplc}, nil).Times(2)
	s.consent.EXPECT().RequiresConsent(mixed).Return(false).Times(2)
	s.consent.EXPECT().RequiresConsent(iplc).Return(true).Times(2)
	s.consent.EXPECT().Granted(gomock.Any(), s.instance.ID, iplc).Return(false, nil).Times(2)

	first, err := s.calc.Compute(context.Background(), s.steward, s.instance, ScopeAll)
	s.Require().NoError(err)
	second, err := s.calc.Compute(context.Background(), s.steward, s.instance, ScopeAll)
	s.Require().NoError(err)

	firstJSON, err := json.Marshal(first)
	s.Require().NoError(err)
	secondJSON, err := json.Marshal(second)
	s.Require().NoError(err)
	s.Equal(firstJSON, secondJSON)
}

func (s *CalculatorSuite) TestInvalidInput() {
	_, err := s.calc.Compute(context.Background(), s.steward, nil, ScopeAll)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = s.calc.Compute(context.Background(), s.steward, s.instance, Scope("everything"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
