// Package report renders a completed site series into the fixed-format
// NOAA-style bleaching report.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/reefwatch/coral-alert-etl/internal/domain"
)

const (
	// dhwValidAfterDays is how long after the first record the 84-day DHW
	// window is guaranteed full.
	dhwValidAfterDays = 84
	// baaValidAfterDays extends that by the 7-day BAA window.
	baaValidAfterDays = 7

	dateLayout = "2006 01 02"

	columnHeader = "YYYY MM DD SST_MIN SST_MAX SST@90th_HS SSTA@90th_HS 90th_HS>0 DHW_from_90th_HS>1 BAA_7day_max"
)

// ErrNoRecords signals a series with no processed days; no report is
// produced for it.
var ErrNoRecords = errors.New("site series has no daily records")

// ValidityDates returns the dates after which the DHW and BAA values are
// backed by fully populated windows. Records before them are still emitted;
// the dates are informational annotations in the report header.
func ValidityDates(firstRecord time.Time) (dhwValid, baaValid time.Time) {
	dhwValid = firstRecord.AddDate(0, 0, dhwValidAfterDays)
	baaValid = dhwValid.AddDate(0, 0, baaValidAfterDays)
	return dhwValid, baaValid
}

// Render assembles the site report: metadata header, climatology baseline,
// validity dates, and one fixed-width row per processed day.
func Render(series domain.SiteSeries) (string, error) {
	if len(series.Records) == 0 {
		return "", fmt.Errorf("%w: site %s", ErrNoRecords, series.SiteCode)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Name:\n%s\n\n", series.SiteName)
	fmt.Fprintf(&b, "Polygon Middle Longitude:\n%.4f \n\n", series.CenterLon)
	fmt.Fprintf(&b, "Polygon Middle Latitude:\n%.4f \n\n", series.CenterLat)

	fmt.Fprintf(&b, "Averaged Maximum Monthly Mean:\n%.4f\n\n", series.Baseline.MMM)

	means := make([]string, len(series.Baseline.MonthlyMeans))
	for i, v := range series.Baseline.MonthlyMeans {
		means[i] = fmt.Sprintf("%.4f", v)
	}
	fmt.Fprintf(&b, "Averaged Monthly Mean (Jan-Dec):\n%s\n\n", strings.Join(means, " "))

	dhwValid, baaValid := ValidityDates(series.Records[0].Date)
	fmt.Fprintf(&b, "First Valid DHW Date:\n%s\n\n", dhwValid.Format(dateLayout))
	fmt.Fprintf(&b, "First Valid BAA Date:\n%s\n\n", baaValid.Format(dateLayout))

	b.WriteString(columnHeader + "\n")
	for _, rec := range series.Records {
		fmt.Fprintf(&b, "%4d %02d %02d %7.4f %7.4f %11.4f %12.4f %9.4f %18.4f %12d\n",
			rec.Date.Year(), int(rec.Date.Month()), rec.Date.Day(),
			rec.SSTMin, rec.SSTMax,
			rec.SSTAtP90, rec.SSTAAtP90,
			rec.HSP90,
			rec.DHW,
			int(rec.BAA),
		)
	}

	return b.String(), nil
}

// Warnings returns per-site warning annotations that accompany a report but
// are not part of its fixed body format.
func Warnings(series domain.SiteSeries) []string {
	var warnings []string
	if series.BaselineDegraded {
		warnings = append(warnings,
			fmt.Sprintf("site %s: climatology incomplete, zero baseline substituted; MMM and monthly means in this report are placeholders", series.SiteCode))
	}
	return warnings
}
