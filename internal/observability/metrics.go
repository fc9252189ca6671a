package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// bleaching-analysis run.
type Metrics struct {
	SitesProcessed prometheus.Counter
	SitesFailed    prometheus.Counter
	DaysProcessed  prometheus.Counter
	DaysSkipped    *prometheus.CounterVec // labels: reason={missing_hs,empty_hs,read_error,analyze_error}
	FilesSkipped   *prometheus.CounterVec // labels: reason={no_site,no_date,unknown_kind}

	BaselinesDegraded prometheus.Counter
	SummariesPublished prometheus.Counter

	SiteDHW        *prometheus.GaugeVec // label: site; latest DHW per site
	SiteAlertLevel *prometheus.GaugeVec // label: site; latest BAA per site

	SiteProcessingDuration prometheus.Histogram
	PipelineRunning        prometheus.Gauge
}

// NewMetrics creates and registers all run metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SitesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reefwatch",
			Name:      "sites_processed_total",
			Help:      "Sites for which a report was produced.",
		}),
		SitesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reefwatch",
			Name:      "sites_failed_total",
			Help:      "Sites that produced no report.",
		}),
		DaysProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reefwatch",
			Name:      "days_processed_total",
			Help:      "Daily records produced across all sites.",
		}),
		DaysSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reefwatch",
			Name:      "days_skipped_total",
			Help:      "Days skipped during analysis, by reason.",
		}, []string{"reason"}),
		FilesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reefwatch",
			Name:      "files_skipped_total",
			Help:      "Input files discarded by the inventory resolver, by reason.",
		}, []string{"reason"}),
		BaselinesDegraded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reefwatch",
			Name:      "baselines_degraded_total",
			Help:      "Sites that fell back to the zero climatology baseline.",
		}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reefwatch",
			Name:      "alert_summaries_published_total",
			Help:      "Alert summaries published to the sink topic.",
		}),
		SiteDHW: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "reefwatch",
			Name:      "site_dhw",
			Help:      "Latest Degree Heating Weeks value per site.",
		}, []string{"site"}),
		SiteAlertLevel: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "reefwatch",
			Name:      "site_alert_level",
			Help:      "Latest 7-day composite bleaching alert level per site (0-4).",
		}, []string{"site"}),
		SiteProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "reefwatch",
			Name:      "site_processing_duration_seconds",
			Help:      "Duration of a complete per-site baseline-analyze-report cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "reefwatch",
			Name:      "pipeline_running",
			Help:      "1 while the analysis run is active, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.SitesProcessed,
		m.SitesFailed,
		m.DaysProcessed,
		m.DaysSkipped,
		m.FilesSkipped,
		m.BaselinesDegraded,
		m.SummariesPublished,
		m.SiteDHW,
		m.SiteAlertLevel,
		m.SiteProcessingDuration,
		m.PipelineRunning,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SitesProcessed:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "reefwatch", Name: "sites_processed_total"}),
		SitesFailed:            prometheus.NewCounter(prometheus.CounterOpts{Namespace: "reefwatch", Name: "sites_failed_total"}),
		DaysProcessed:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "reefwatch", Name: "days_processed_total"}),
		DaysSkipped:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "reefwatch", Name: "days_skipped_total"}, []string{"reason"}),
		FilesSkipped:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "reefwatch", Name: "files_skipped_total"}, []string{"reason"}),
		BaselinesDegraded:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "reefwatch", Name: "baselines_degraded_total"}),
		SummariesPublished:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "reefwatch", Name: "alert_summaries_published_total"}),
		SiteDHW:                prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "reefwatch", Name: "site_dhw"}, []string{"site"}),
		SiteAlertLevel:         prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "reefwatch", Name: "site_alert_level"}, []string{"site"}),
		SiteProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "reefwatch", Name: "site_processing_duration_seconds"}),
		PipelineRunning:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "reefwatch", Name: "pipeline_running"}),
	}
}
