// Package pipeline orchestrates a full analysis run: climatology baseline
// per site, input inventory, per-day classification, and report assembly.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reefwatch/coral-alert-etl/internal/domain"
	"github.com/reefwatch/coral-alert-etl/internal/inventory"
	"github.com/reefwatch/coral-alert-etl/internal/observability"
	"github.com/reefwatch/coral-alert-etl/internal/report"
)

// Lister enumerates the candidate point-sample files for a run.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}

// SampleReader loads one point-sample file.
type SampleReader interface {
	ReadSample(ctx context.Context, path string, kind domain.VariableKind) (domain.StressSample, error)
}

// BaselineReader loads the twelve monthly mean SSTs for a site.
type BaselineReader interface {
	ReadMonthlyMeans(ctx context.Context, siteCode string) (domain.MonthlyMeanSet, error)
}

// ReportWriter persists a rendered site report.
type ReportWriter interface {
	WriteReport(ctx context.Context, series domain.SiteSeries, rendered string) error
}

// AlertPublisher delivers end-of-run alert summaries. A nil publisher
// disables publication.
type AlertPublisher interface {
	PublishSummaries(ctx context.Context, summaries []domain.AlertSummary) error
}

// Site pairs a monitoring-site code with its report display name.
type Site struct {
	Code string
	Name string
}

// Deps are the pipeline's collaborators.
type Deps struct {
	Lister    Lister
	Samples   SampleReader
	Baselines BaselineReader
	Reports   ReportWriter
	Alerts    AlertPublisher // optional
}

// Options tune run behavior.
type Options struct {
	// SiteWorkers bounds how many sites are analyzed concurrently. Sites
	// share no mutable state, so any bound ≥ 1 is safe. Defaults to 1.
	SiteWorkers int
	// GapPolicy selects rolling-window behavior across missing calendar
	// days; see domain.GapPolicy.
	GapPolicy domain.GapPolicy
}

// Pipeline runs the per-site bleaching analysis.
type Pipeline struct {
	deps    Deps
	sites   []Site
	logger  *slog.Logger
	metrics *observability.Metrics
	opts    Options
	ready   atomic.Bool
}

// New creates a Pipeline over the given collaborators and site registry.
func New(deps Deps, sites []Site, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	if opts.SiteWorkers < 1 {
		opts.SiteWorkers = 1
	}
	if opts.GapPolicy == "" {
		opts.GapPolicy = domain.GapAdvancePerCall
	}
	return &Pipeline{
		deps:    deps,
		sites:   sites,
		logger:  logger,
		metrics: metrics,
		opts:    opts,
	}
}

// CheckReadiness returns nil once at least one site report has been
// written, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no site report produced yet")
	}
	return nil
}

// Run executes one full analysis pass over every configured site. Per-site
// failures degrade (logged, counted) and do not stop other sites; only an
// unlistable input collection or context cancellation aborts the run.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("analysis run started",
		"sites", len(p.sites),
		"workers", p.opts.SiteWorkers,
		"gap_policy", string(p.opts.GapPolicy),
	)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	paths, err := p.deps.Lister.List(ctx)
	if err != nil {
		return fmt.Errorf("list input files: %w", err)
	}

	codes := make([]string, len(p.sites))
	for i, s := range p.sites {
		codes[i] = s.Code
	}
	inv, skips := inventory.Resolve(paths, codes)
	p.metrics.FilesSkipped.WithLabelValues("no_site").Add(float64(skips.NoSite))
	p.metrics.FilesSkipped.WithLabelValues("no_date").Add(float64(skips.NoDate))
	p.metrics.FilesSkipped.WithLabelValues("unknown_kind").Add(float64(skips.UnknownKind))
	if skips.Total() > 0 {
		p.logger.Warn("input files skipped",
			"no_site", skips.NoSite, "no_date", skips.NoDate, "unknown_kind", skips.UnknownKind)
	}

	var (
		mu        sync.Mutex
		summaries []domain.AlertSummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.SiteWorkers)
	for _, site := range p.sites {
		g.Go(func() error {
			series, ok := p.processSite(gctx, site, inv)
			if !ok {
				p.metrics.SitesFailed.Inc()
				return gctx.Err()
			}
			p.metrics.SitesProcessed.Inc()
			p.ready.Store(true)

			mu.Lock()
			summaries = append(summaries, domain.NewAlertSummary(series))
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return p.publishSummaries(ctx, summaries)
}

// processSite runs the baseline-analyze-report cycle for one site. Returns
// ok=false when no report was produced; that is a degraded outcome, not a
// run failure.
func (p *Pipeline) processSite(ctx context.Context, site Site, inv inventory.Inventory) (domain.SiteSeries, bool) {
	start := time.Now()
	logger := p.logger.With("site", site.Code)

	baseline, degraded := p.loadBaseline(ctx, site, logger)
	analyzer := domain.NewRegionAnalyzer(site.Code, site.Name, baseline, p.opts.GapPolicy)

	var records []domain.DailyRecord
	for _, dateStr := range inv.Dates(site.Code) {
		if ctx.Err() != nil {
			return domain.SiteSeries{}, false
		}
		rec, ok := p.processDate(ctx, analyzer, site, inv.FileSet(site.Code, dateStr), dateStr, logger)
		if ok {
			records = append(records, rec)
		}
	}

	if len(records) == 0 {
		logger.Warn("no valid daily data, site skipped")
		return domain.SiteSeries{}, false
	}

	lon, lat, _ := analyzer.Centroid()
	series := domain.SiteSeries{
		SiteCode:         site.Code,
		SiteName:         site.Name,
		Baseline:         baseline,
		BaselineDegraded: degraded,
		CenterLon:        lon,
		CenterLat:        lat,
		Records:          records,
	}

	rendered, err := report.Render(series)
	if err != nil {
		logger.Error("assemble report failed", "error", err)
		return domain.SiteSeries{}, false
	}
	for _, warning := range report.Warnings(series) {
		logger.Warn("report warning", "warning", warning)
	}
	if err := p.deps.Reports.WriteReport(ctx, series, rendered); err != nil {
		logger.Error("write report failed", "error", err)
		return domain.SiteSeries{}, false
	}

	last := records[len(records)-1]
	p.metrics.SiteDHW.WithLabelValues(site.Code).Set(last.DHW)
	p.metrics.SiteAlertLevel.WithLabelValues(site.Code).Set(float64(last.BAA))
	p.metrics.SiteProcessingDuration.Observe(time.Since(start).Seconds())

	logger.Info("site report written",
		"days", len(records),
		"latest_dhw", last.DHW,
		"latest_baa", last.BAA.String(),
		"baseline_degraded", degraded,
	)
	return series, true
}

// loadBaseline computes the site baseline, degrading to the zero baseline
// when the climatology is missing or incomplete.
func (p *Pipeline) loadBaseline(ctx context.Context, site Site, logger *slog.Logger) (domain.ClimatologyBaseline, bool) {
	means, err := p.deps.Baselines.ReadMonthlyMeans(ctx, site.Code)
	if err == nil {
		baseline, cerr := domain.ComputeBaseline(site.Code, means)
		if cerr == nil {
			return baseline, false
		}
		err = cerr
	}

	logger.Warn("climatology unavailable, continuing with zero baseline", "error", err)
	p.metrics.BaselinesDegraded.Inc()
	return domain.ZeroBaseline(site.Code), true
}

// processDate feeds one calendar day through the analyzer. Every failure is
// a counted skip.
func (p *Pipeline) processDate(ctx context.Context, analyzer *domain.RegionAnalyzer, site Site, fs inventory.FileSet, dateStr string, logger *slog.Logger) (domain.DailyRecord, bool) {
	if !fs.Analyzable() {
		p.metrics.DaysSkipped.WithLabelValues("missing_hs").Inc()
		return domain.DailyRecord{}, false
	}

	date, err := time.Parse(inventory.DateLayout, dateStr)
	if err != nil {
		p.metrics.DaysSkipped.WithLabelValues("read_error").Inc()
		logger.Warn("unparsable date, day skipped", "date", dateStr, "error", err)
		return domain.DailyRecord{}, false
	}

	hs, err := p.deps.Samples.ReadSample(ctx, fs.HS, domain.VariableHS)
	if err != nil {
		p.metrics.DaysSkipped.WithLabelValues("read_error").Inc()
		logger.Warn("hotspot sample unreadable, day skipped", "date", dateStr, "error", err)
		return domain.DailyRecord{}, false
	}
	hs.SiteCode = site.Code
	hs.Date = date

	sst := p.readOptional(ctx, fs.SST, domain.VariableSST, site.Code, date, logger)
	ssta := p.readOptional(ctx, fs.SSTA, domain.VariableSSTA, site.Code, date, logger)

	rec, err := analyzer.ProcessDay(date, hs, sst, ssta)
	if err != nil {
		reason := "analyze_error"
		if errors.Is(err, domain.ErrEmptyHotSpotSample) {
			reason = "empty_hs"
		}
		p.metrics.DaysSkipped.WithLabelValues(reason).Inc()
		logger.Warn("day skipped", "date", dateStr, "error", err)
		return domain.DailyRecord{}, false
	}

	p.metrics.DaysProcessed.Inc()
	return rec, true
}

// readOptional loads an SST or SSTA sample when a file was resolved. Read
// failures degrade the variable to absent rather than skipping the day.
func (p *Pipeline) readOptional(ctx context.Context, path string, kind domain.VariableKind, siteCode string, date time.Time, logger *slog.Logger) *domain.StressSample {
	if path == "" {
		return nil
	}
	sample, err := p.deps.Samples.ReadSample(ctx, path, kind)
	if err != nil {
		logger.Warn("optional sample unreadable, sentinel values substituted",
			"kind", string(kind), "date", date.Format(time.DateOnly), "error", err)
		return nil
	}
	sample.SiteCode = siteCode
	sample.Date = date
	return &sample
}

// publishSummaries delivers one alert summary per completed site, sorted by
// site code for deterministic output.
func (p *Pipeline) publishSummaries(ctx context.Context, summaries []domain.AlertSummary) error {
	if p.deps.Alerts == nil || len(summaries) == 0 {
		return nil
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].SiteCode < summaries[j].SiteCode })

	if err := p.deps.Alerts.PublishSummaries(ctx, summaries); err != nil {
		return fmt.Errorf("publish alert summaries: %w", err)
	}
	p.metrics.SummariesPublished.Add(float64(len(summaries)))
	p.logger.Info("alert summaries published", "count", len(summaries))
	return nil
}
