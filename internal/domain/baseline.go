package domain

import (
	"fmt"
	"time"
)

// monthsPerYear is the required length of a usable MonthlyMeanSet.
const monthsPerYear = 12

// MonthlyMeanSet holds the long-term monthly mean SSTs for a site,
// January through December, each a spatial average over the site polygon.
type MonthlyMeanSet []float64

// ClimatologyBaseline is the per-site bleaching baseline. Immutable once
// computed: MMM is the maximum of the twelve monthly means, which are kept
// in calendar order for reporting.
type ClimatologyBaseline struct {
	SiteCode     string
	MMM          float64
	MonthlyMeans [monthsPerYear]float64
}

// IncompleteBaselineError reports a monthly mean set that cannot produce a
// baseline. Callers are expected to substitute ZeroBaseline and carry on in
// degraded mode rather than abort.
type IncompleteBaselineError struct {
	SiteCode      string
	MissingMonths []time.Month
	Got           int
}

func (e *IncompleteBaselineError) Error() string {
	if len(e.MissingMonths) > 0 {
		return fmt.Sprintf("incomplete climatology for site %s: months %v not finite", e.SiteCode, e.MissingMonths)
	}
	return fmt.Sprintf("incomplete climatology for site %s: got %d monthly means, want %d", e.SiteCode, e.Got, monthsPerYear)
}

// ComputeBaseline reduces a monthly mean set to a ClimatologyBaseline.
// It succeeds only when all twelve entries are present and finite; MMM is
// their maximum.
func ComputeBaseline(siteCode string, means MonthlyMeanSet) (ClimatologyBaseline, error) {
	if len(means) != monthsPerYear {
		return ClimatologyBaseline{}, &IncompleteBaselineError{SiteCode: siteCode, Got: len(means)}
	}

	var missing []time.Month
	for i, v := range means {
		if !isFinite(v) {
			missing = append(missing, time.Month(i+1))
		}
	}
	if len(missing) > 0 {
		return ClimatologyBaseline{}, &IncompleteBaselineError{SiteCode: siteCode, MissingMonths: missing, Got: monthsPerYear}
	}

	baseline := ClimatologyBaseline{SiteCode: siteCode}
	copy(baseline.MonthlyMeans[:], means)
	baseline.MMM = means[0]
	for _, v := range means[1:] {
		if v > baseline.MMM {
			baseline.MMM = v
		}
	}
	return baseline, nil
}

// ZeroBaseline is the documented degraded-mode substitute when the
// climatology is incomplete: MMM 0 and twelve zero monthly means.
func ZeroBaseline(siteCode string) ClimatologyBaseline {
	return ClimatologyBaseline{SiteCode: siteCode}
}
