package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reefwatch/coral-alert-etl/internal/domain"
	"github.com/reefwatch/coral-alert-etl/internal/observability"
	"github.com/reefwatch/coral-alert-etl/internal/pipeline"
)

// --- mocks ---

type memLister struct {
	paths []string
	err   error
}

func (m *memLister) List(_ context.Context) ([]string, error) {
	return m.paths, m.err
}

type memSamples struct {
	samples map[string]domain.StressSample
	errs    map[string]error
}

func (m *memSamples) ReadSample(_ context.Context, path string, kind domain.VariableKind) (domain.StressSample, error) {
	if err, ok := m.errs[path]; ok {
		return domain.StressSample{}, err
	}
	s, ok := m.samples[path]
	if !ok {
		return domain.StressSample{}, fmt.Errorf("no sample fixture for %s", path)
	}
	s.Kind = kind
	return s, nil
}

type memBaselines struct {
	means map[string]domain.MonthlyMeanSet
}

func (m *memBaselines) ReadMonthlyMeans(_ context.Context, siteCode string) (domain.MonthlyMeanSet, error) {
	means, ok := m.means[siteCode]
	if !ok {
		return nil, fmt.Errorf("no climatology for site %s", siteCode)
	}
	return means, nil
}

type memReports struct {
	mu       sync.Mutex
	series   map[string]domain.SiteSeries
	rendered map[string]string
}

func (m *memReports) WriteReport(_ context.Context, series domain.SiteSeries, rendered string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.series == nil {
		m.series = make(map[string]domain.SiteSeries)
		m.rendered = make(map[string]string)
	}
	m.series[series.SiteCode] = series
	m.rendered[series.SiteCode] = rendered
	return nil
}

type memPublisher struct {
	mu        sync.Mutex
	summaries []domain.AlertSummary
	err       error
}

func (m *memPublisher) PublishSummaries(_ context.Context, summaries []domain.AlertSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries = append(m.summaries, summaries...)
	return m.err
}

// --- fixtures ---

var (
	runStart   = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	fullMeans  = domain.MonthlyMeanSet{26.1, 26.8, 27.4, 28.9, 28.2, 27.0, 26.5, 26.2, 26.9, 27.8, 28.5, 27.1}
	threeSites = []pipeline.Site{
		{Code: "GM", Name: "Gili Matra"},
		{Code: "GN", Name: "Gita Nada"},
		{Code: "NP", Name: "Nusa Penida"},
	}
)

func gridSample(value float64) domain.StressSample {
	var s domain.StressSample
	for i := 0; i < 4; i++ {
		s.Points = append(s.Points, domain.SamplePoint{
			Lon:   116.0 + float64(i)*0.05,
			Lat:   -8.5,
			Value: value,
		})
	}
	return s
}

// buildRun creates 90 days of HS/SST/SSTA fixtures for three sites, with
// HS files missing for ten days (days 20-29) at site GN.
func buildRun() (*memLister, *memSamples) {
	lister := &memLister{}
	samples := &memSamples{samples: make(map[string]domain.StressSample)}

	for _, code := range []string{"gm", "gn", "np"} {
		for d := 0; d < 90; d++ {
			date := runStart.AddDate(0, 0, d).Format("20060102")
			skipHS := code == "gn" && d >= 19 && d < 29

			if !skipHS {
				path := fmt.Sprintf("%s_hs_%s.xyz", code, date)
				lister.paths = append(lister.paths, path)
				samples.samples[path] = gridSample(1.4)
			}
			sstPath := fmt.Sprintf("%s_sst_%s.xyz", code, date)
			lister.paths = append(lister.paths, sstPath)
			samples.samples[sstPath] = gridSample(29.0)

			sstaPath := fmt.Sprintf("%s_ssta_%s.xyz", code, date)
			lister.paths = append(lister.paths, sstaPath)
			samples.samples[sstaPath] = gridSample(1.0)
		}
	}
	return lister, samples
}

func newPipeline(deps pipeline.Deps, opts pipeline.Options) (*pipeline.Pipeline, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	return pipeline.New(deps, threeSites, slog.Default(), metrics, opts), metrics
}

// --- tests ---

func TestPipeline_Run_EndToEnd(t *testing.T) {
	lister, samples := buildRun()
	reports := &memReports{}
	publisher := &memPublisher{}
	baselines := &memBaselines{means: map[string]domain.MonthlyMeanSet{
		"GM": fullMeans,
		"NP": fullMeans,
		// GN intentionally missing: degraded baseline path.
	}}

	p, metrics := newPipeline(pipeline.Deps{
		Lister:    lister,
		Samples:   samples,
		Baselines: baselines,
		Reports:   reports,
		Alerts:    publisher,
	}, pipeline.Options{SiteWorkers: 3})

	require.Error(t, p.CheckReadiness(context.Background()))
	require.NoError(t, p.Run(context.Background()))
	require.NoError(t, p.CheckReadiness(context.Background()))

	require.Len(t, reports.series, 3)

	// Sites with complete input produce one record per day.
	gm := reports.series["GM"]
	assert.Len(t, gm.Records, 90)
	assert.Equal(t, 28.9, gm.Baseline.MMM)
	assert.False(t, gm.BaselineDegraded)

	// The site missing ten HS days produces exactly 80 records, with no
	// compensating window adjustment: the window advanced once per
	// processed day, so DHW is 80 days of 1.4/7.
	gn := reports.series["GN"]
	require.Len(t, gn.Records, 80)
	assert.InDelta(t, 80*0.2, gn.Records[79].DHW, 1e-9)
	assert.True(t, gn.BaselineDegraded)
	assert.Zero(t, gn.Baseline.MMM)

	// A full 90-day site saturates the 84-slot window.
	assert.InDelta(t, 84*0.2, gm.Records[89].DHW, 1e-9)
	assert.Equal(t, domain.AlertLevel2, gm.Records[89].BAA)

	// Cross-variable sampling picked up the aligned SST/SSTA grids.
	assert.InDelta(t, 29.0, gm.Records[0].SSTAtP90, 1e-9)
	assert.InDelta(t, 1.0, gm.Records[0].SSTAAtP90, 1e-9)

	// One summary per site, sorted by code, degraded flag carried through.
	require.Len(t, publisher.summaries, 3)
	assert.Equal(t, "GM", publisher.summaries[0].SiteCode)
	assert.Equal(t, "GN", publisher.summaries[1].SiteCode)
	assert.Equal(t, "NP", publisher.summaries[2].SiteCode)
	assert.True(t, publisher.summaries[1].BaselineDegraded)
	assert.Equal(t, domain.AlertLevel2, publisher.summaries[0].AlertLevel)

	assert.InDelta(t, 260, testutil.ToFloat64(metrics.DaysProcessed), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.BaselinesDegraded), 1e-9)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.SummariesPublished), 1e-9)
}

func TestPipeline_Run_SiteWithoutDataIsSkipped(t *testing.T) {
	// Only GM has input; GN and NP produce nothing but do not fail the run.
	lister := &memLister{paths: []string{"gm_hs_20240301.xyz"}}
	samples := &memSamples{samples: map[string]domain.StressSample{
		"gm_hs_20240301.xyz": gridSample(0.5),
	}}
	reports := &memReports{}

	p, metrics := newPipeline(pipeline.Deps{
		Lister:    lister,
		Samples:   samples,
		Baselines: &memBaselines{means: map[string]domain.MonthlyMeanSet{"GM": fullMeans}},
		Reports:   reports,
	}, pipeline.Options{})

	require.NoError(t, p.Run(context.Background()))

	require.Len(t, reports.series, 1)
	assert.Contains(t, reports.series, "GM")
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.SitesFailed), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.SitesProcessed), 1e-9)
}

func TestPipeline_Run_UnreadableHotSpotSkipsDay(t *testing.T) {
	lister := &memLister{paths: []string{"gm_hs_20240301.xyz", "gm_hs_20240302.xyz"}}
	samples := &memSamples{
		samples: map[string]domain.StressSample{"gm_hs_20240302.xyz": gridSample(0.5)},
		errs:    map[string]error{"gm_hs_20240301.xyz": errors.New("corrupt file")},
	}
	reports := &memReports{}

	p, _ := newPipeline(pipeline.Deps{
		Lister:    lister,
		Samples:   samples,
		Baselines: &memBaselines{means: map[string]domain.MonthlyMeanSet{"GM": fullMeans}},
		Reports:   reports,
	}, pipeline.Options{})

	require.NoError(t, p.Run(context.Background()))

	require.Len(t, reports.series["GM"].Records, 1)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), reports.series["GM"].Records[0].Date)
}

func TestPipeline_Run_ListFailureAborts(t *testing.T) {
	p, _ := newPipeline(pipeline.Deps{
		Lister:    &memLister{err: errors.New("directory unreadable")},
		Samples:   &memSamples{},
		Baselines: &memBaselines{},
		Reports:   &memReports{},
	}, pipeline.Options{})

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list input files")
}

func TestPipeline_Run_NilPublisherIsFine(t *testing.T) {
	lister := &memLister{paths: []string{"gm_hs_20240301.xyz"}}
	samples := &memSamples{samples: map[string]domain.StressSample{
		"gm_hs_20240301.xyz": gridSample(0.5),
	}}

	p, _ := newPipeline(pipeline.Deps{
		Lister:    lister,
		Samples:   samples,
		Baselines: &memBaselines{means: map[string]domain.MonthlyMeanSet{"GM": fullMeans}},
		Reports:   &memReports{},
	}, pipeline.Options{})

	require.NoError(t, p.Run(context.Background()))
}

func TestPipeline_Run_PublisherFailureSurfaces(t *testing.T) {
	lister := &memLister{paths: []string{"gm_hs_20240301.xyz"}}
	samples := &memSamples{samples: map[string]domain.StressSample{
		"gm_hs_20240301.xyz": gridSample(0.5),
	}}
	publisher := &memPublisher{err: errors.New("broker down")}

	p, _ := newPipeline(pipeline.Deps{
		Lister:    lister,
		Samples:   samples,
		Baselines: &memBaselines{means: map[string]domain.MonthlyMeanSet{"GM": fullMeans}},
		Reports:   &memReports{},
		Alerts:    publisher,
	}, pipeline.Options{})

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish alert summaries")
}
