package domain

import "time"

// MissingValue marks an SST or SSTA field that could not be sampled.
const MissingValue = -999.0

// DailyRecord is one site's analysis result for one calendar day.
type DailyRecord struct {
	Date      time.Time  `json:"date"`
	SSTMin    float64    `json:"sst_min"`
	SSTMax    float64    `json:"sst_max"`
	SSTAtP90  float64    `json:"sst_at_p90"`
	SSTAAtP90 float64    `json:"ssta_at_p90"`
	HSP90     float64    `json:"hs_p90"` // clamped to ≥ 0 for reporting
	DHW       float64    `json:"dhw"`
	BAA       AlertLevel `json:"baa"`

	ProcessedAt time.Time `json:"processed_at"`
}

// SiteSeries is a site's completed run output: baseline, fixed centroid,
// and daily records in increasing date order.
type SiteSeries struct {
	SiteCode string
	SiteName string
	Baseline ClimatologyBaseline

	// BaselineDegraded is set when the climatology was incomplete and the
	// zero baseline was substituted, so the misleading report header is
	// never silent.
	BaselineDegraded bool

	CenterLon float64
	CenterLat float64
	Records   []DailyRecord
}

// AlertSummary is the per-site end-of-run notification payload.
type AlertSummary struct {
	SiteCode         string     `json:"site_code"`
	SiteName         string     `json:"site_name"`
	Date             time.Time  `json:"date"`
	AlertLevel       AlertLevel `json:"alert_level"`
	AlertName        string     `json:"alert_name"`
	DHW              float64    `json:"dhw"`
	HSP90            float64    `json:"hs_p90"`
	BaselineDegraded bool       `json:"baseline_degraded"`
	GeneratedAt      time.Time  `json:"generated_at"`
}

// NewAlertSummary condenses a completed series into its latest alert state.
// The series must have at least one record.
func NewAlertSummary(series SiteSeries) AlertSummary {
	last := series.Records[len(series.Records)-1]
	return AlertSummary{
		SiteCode:         series.SiteCode,
		SiteName:         series.SiteName,
		Date:             last.Date,
		AlertLevel:       last.BAA,
		AlertName:        last.BAA.String(),
		DHW:              last.DHW,
		HSP90:            last.HSP90,
		BaselineDegraded: series.BaselineDegraded,
		GeneratedAt:      clock.Now(),
	}
}
