package readiness

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	approvalmodels "nbms/internal/approval/models"
	"nbms/internal/authz"
	governance "nbms/internal/governance/models"
	"nbms/internal/platform/metrics"
	"nbms/internal/readiness/tracer"
	dErrors "nbms/pkg/domain-errors"
)

// defaultConcurrency bounds the per-indicator fan-out. Consent lookups hit
// the store, so unbounded parallelism just moves the queue into the pool.
const defaultConcurrency = 8

// Calculator computes readiness reports. All dependencies are read-only.
type Calculator struct {
	engine      *authz.Engine
	indicators  IndicatorSource
	consent     ConsentReader
	approvals   ApprovalReader
	sections    SectionReader
	tracer      tracer.Tracer
	metrics     *metrics.Metrics
	logger      *slog.Logger
	concurrency int
}

// Option configures the Calculator.
type Option func(*Calculator)

// WithSectionReader enables the narrative-section completeness check.
// Without it, overall readiness considers indicators only.
func WithSectionReader(r SectionReader) Option {
	return func(c *Calculator) {
		c.sections = r
	}
}

// WithTracer sets the tracer for readiness runs.
func WithTracer(t tracer.Tracer) Option {
	return func(c *Calculator) {
		c.tracer = t
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Calculator) {
		c.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Calculator) {
		c.logger = l
	}
}

// WithConcurrency bounds the indicator evaluation fan-out.
func WithConcurrency(n int) Option {
	return func(c *Calculator) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// NewCalculator creates the readiness calculator.
func NewCalculator(engine *authz.Engine, indicators IndicatorSource, consent ConsentReader, approvals ApprovalReader, opts ...Option) *Calculator {
	if engine == nil {
		panic("readiness.NewCalculator: authorization engine is required")
	}
	if indicators == nil {
		panic("readiness.NewCalculator: indicator source is required")
	}
	if consent == nil {
		panic("readiness.NewCalculator: consent reader is required")
	}
	if approvals == nil {
		panic("readiness.NewCalculator: approval reader is required")
	}
	c := &Calculator{
		engine:      engine,
		indicators:  indicators,
		consent:     consent,
		approvals:   approvals,
		tracer:      tracer.NewNoop(),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute evaluates every indicator in scope and returns the readiness
// report. ScopeAll covers the indicators visible to the actor; ScopeSelected
// covers the instance's approved export set. Output ordering is stable
// (indicators sorted by code, then ID) so repeated runs with unchanged state
// serialize identically.
func (c *Calculator) Compute(ctx context.Context, actor governance.Actor, instance *governance.ReportingInstance, scope Scope) (report *Report, err error) {
	if instance == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "reporting instance is required")
	}
	if !scope.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "readiness scope must be \"all\" or \"selected\"")
	}

	started := time.Now()
	ctx, span := c.tracer.Start(ctx, tracer.SpanCompute,
		tracer.String(tracer.AttrInstanceID, instance.ID.String()),
		tracer.String(tracer.AttrScope, string(scope)),
	)
	defer func() { span.End(err) }()

	indicators, err := c.gather(ctx, actor, instance, scope)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(tracer.Int64(tracer.AttrIndicatorCount, int64(len(indicators))))

	perIndicator, err := c.evaluate(ctx, instance, indicators)
	if err != nil {
		return nil, err
	}

	details := Details{
		InstanceID:      instance.ID.String(),
		InstanceLabel:   instance.Label(),
		Scope:           scope,
		MissingSections: []string{},
	}
	if c.sections != nil {
		missing, sectionErr := c.sections.MissingSections(ctx, instance.ID)
		if sectionErr != nil {
			return nil, dErrors.Wrap(sectionErr, dErrors.CodeInternal, "failed to check section completeness")
		}
		sort.Strings(missing)
		details.SectionsChecked = true
		details.MissingSections = append(details.MissingSections, missing...)
	}

	summary := Summary{IndicatorCount: len(perIndicator)}
	for _, ind := range perIndicator {
		if ind.Blocker {
			summary.BlockingGapCount++
		} else {
			summary.ReadyCount++
		}
	}
	summary.OverallReady = summary.BlockingGapCount == 0 && len(details.MissingSections) == 0

	span.SetAttributes(
		tracer.Int64(tracer.AttrBlockingGaps, int64(summary.BlockingGapCount)),
		tracer.Bool(tracer.AttrOverallReady, summary.OverallReady),
	)
	c.observe(started, summary)
	return &Report{Summary: summary, PerIndicator: perIndicator, Details: details}, nil
}

// gather resolves the indicator set for the scope and sorts it into the
// report's stable order.
func (c *Calculator) gather(ctx context.Context, actor governance.Actor, instance *governance.ReportingInstance, scope Scope) ([]*governance.Indicator, error) {
	var (
		indicators []*governance.Indicator
		err        error
	)
	switch scope {
	case ScopeSelected:
		var refs []governance.Ref
		refs, err = c.approvals.ApprovedRefs(ctx, instance.ID, governance.KindIndicator, approvalmodels.DefaultScope)
		if err == nil {
			indicators, err = c.indicators.ListByRefs(ctx, refs)
		}
	default:
		indicators, err = c.indicators.ListAll(ctx)
		if err == nil {
			indicators = c.visibleTo(actor, indicators)
		}
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load indicators")
	}

	sort.Slice(indicators, func(i, j int) bool {
		if indicators[i].Code != indicators[j].Code {
			return indicators[i].Code < indicators[j].Code
		}
		return indicators[i].ID.String() < indicators[j].ID.String()
	})
	return indicators, nil
}

func (c *Calculator) visibleTo(actor governance.Actor, indicators []*governance.Indicator) []*governance.Indicator {
	visible := make([]*governance.Indicator, 0, len(indicators))
	for _, ind := range indicators {
		if c.engine.CanView(actor, ind) {
			visible = append(visible, ind)
		}
	}
	return visible
}

// evaluate fans out over the indicators with bounded concurrency and
// reassembles results in input order.
func (c *Calculator) evaluate(ctx context.Context, instance *governance.ReportingInstance, indicators []*governance.Indicator) ([]IndicatorReadiness, error) {
	results := make([]IndicatorReadiness, len(indicators))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, ind := range indicators {
		i, ind := i, ind
		g.Go(func() error {
			entry, err := c.evaluateOne(ctx, instance, ind)
			if err != nil {
				return err
			}
			results[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Calculator) evaluateOne(ctx context.Context, instance *governance.ReportingInstance, ind *governance.Indicator) (IndicatorReadiness, error) {
	entry := IndicatorReadiness{
		IndicatorID:           ind.ID.String(),
		Code:                  ind.Code,
		Name:                  ind.Name,
		HasTarget:             ind.TargetID != nil,
		HasFrameworkAlignment: len(ind.FrameworkMappingIDs) > 0,
		HasMonitoringLink:     ind.MonitoringProgrammeID != nil,
		HasDatasetLink:        ind.DatasetCatalogID != nil,
		HasMethodology:        ind.MethodologyVersionID != nil,
		Missing:               []string{},
	}

	if c.consent.RequiresConsent(ind) {
		granted, err := c.consent.Granted(ctx, instance.ID, ind)
		if err != nil {
			return IndicatorReadiness{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve consent for "+ind.Code)
		}
		if !granted {
			entry.ConsentBlocked = true
			entry.SensitivityBlocked = ind.GovernedMeta.Sensitivity == governance.SensitivityIPLC
		}
	}

	if !entry.HasTarget {
		entry.Missing = append(entry.Missing, GapTarget)
	}
	if !entry.HasFrameworkAlignment {
		entry.Missing = append(entry.Missing, GapFramework)
	}
	if !entry.HasMonitoringLink {
		entry.Missing = append(entry.Missing, GapMonitoring)
	}
	if !entry.HasDatasetLink {
		entry.Missing = append(entry.Missing, GapDataset)
	}
	if !entry.HasMethodology {
		entry.Missing = append(entry.Missing, GapMethodology)
	}
	if entry.ConsentBlocked {
		entry.Missing = append(entry.Missing, GapConsent)
	}
	if entry.SensitivityBlocked {
		entry.Missing = append(entry.Missing, GapSensitivity)
	}
	entry.Blocker = len(entry.Missing) > 0
	return entry, nil
}

func (c *Calculator) observe(started time.Time, summary Summary) {
	if c.metrics != nil {
		c.metrics.ReadinessRuns.Inc()
		c.metrics.ReadinessLatency.Observe(time.Since(started).Seconds())
		c.metrics.ReadinessBlockers.Set(float64(summary.BlockingGapCount))
	}
	if c.logger != nil {
		c.logger.Debug("readiness computed",
			"indicators", summary.IndicatorCount,
			"blocking_gaps", summary.BlockingGapCount,
			"overall_ready", summary.OverallReady,
		)
	}
}
