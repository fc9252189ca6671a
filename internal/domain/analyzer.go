package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	// dhwWindowDays is the DHW accumulation window: 12 weeks.
	dhwWindowDays = 84
	// baaWindowDays is the BAA composite window.
	baaWindowDays = 7
	// stressThreshold is the HotSpot p90 below which a day contributes no
	// accumulated stress.
	stressThreshold = 1.0
	// daysPerWeek converts a daily HotSpot reading to its weekly equivalent.
	daysPerWeek = 7.0
)

// GapPolicy selects how the rolling windows behave across missing calendar
// days between processed dates.
type GapPolicy string

const (
	// GapAdvancePerCall advances the windows once per processed day and
	// ignores calendar gaps. This is the observed upstream behavior and the
	// default.
	GapAdvancePerCall GapPolicy = "advance-per-call"

	// GapZeroFill pushes a zero-stress, level-0 entry for every missing
	// calendar day before the new day is processed, keeping the windows
	// aligned with elapsed time.
	GapZeroFill GapPolicy = "zero-fill"
)

// ParseGapPolicy validates a configured gap policy string.
func ParseGapPolicy(s string) (GapPolicy, error) {
	switch GapPolicy(s) {
	case GapAdvancePerCall, GapZeroFill:
		return GapPolicy(s), nil
	case "":
		return GapAdvancePerCall, nil
	default:
		return "", fmt.Errorf("unknown gap policy %q (want %q or %q)", s, GapAdvancePerCall, GapZeroFill)
	}
}

var (
	// ErrEmptyHotSpotSample signals a day with no usable HotSpot points.
	// The day is skipped; the analyzer state does not advance.
	ErrEmptyHotSpotSample = errors.New("hotspot sample has no usable points")

	// ErrOutOfOrderDate signals a ProcessDay call whose date is not
	// strictly after the previous call's date.
	ErrOutOfOrderDate = errors.New("dates must be strictly increasing per site")
)

// RegionAnalyzer is the per-site classification state machine. It owns the
// 84-day stress window, the 7-day alert window, and the lazily fixed site
// centroid. It is not safe for concurrent use; run one analyzer per site.
type RegionAnalyzer struct {
	siteCode string
	siteName string
	baseline ClimatologyBaseline
	policy   GapPolicy

	stress *stressWindow
	alerts *alertWindow

	centerLon float64
	centerLat float64
	coordSet  bool

	lastSeen      time.Time // any accepted call, including skipped days
	lastProcessed time.Time // successful calls only, drives gap filling
	seenAny       bool
	processedAny  bool
}

// NewRegionAnalyzer creates the analyzer for one site.
func NewRegionAnalyzer(siteCode, siteName string, baseline ClimatologyBaseline, policy GapPolicy) *RegionAnalyzer {
	if policy == "" {
		policy = GapAdvancePerCall
	}
	return &RegionAnalyzer{
		siteCode: siteCode,
		siteName: siteName,
		baseline: baseline,
		policy:   policy,
		stress:   newStressWindow(dhwWindowDays),
		alerts:   newAlertWindow(baaWindowDays),
	}
}

// SiteCode returns the analyzer's site code.
func (a *RegionAnalyzer) SiteCode() string { return a.siteCode }

// Baseline returns the climatology baseline the analyzer was built with.
func (a *RegionAnalyzer) Baseline() ClimatologyBaseline { return a.baseline }

// Centroid returns the fixed site centroid. ok is false until the first
// successfully processed day.
func (a *RegionAnalyzer) Centroid() (lon, lat float64, ok bool) {
	return a.centerLon, a.centerLat, a.coordSet
}

// ProcessDay advances the analyzer by one calendar day. hs is mandatory;
// sst and ssta may be nil. Dates must be strictly increasing across calls.
//
// A day whose HotSpot sample is empty after cleaning returns
// ErrEmptyHotSpotSample and leaves the rolling windows untouched. SST and
// SSTA lookup failures degrade to MissingValue per field and never fail
// the day.
func (a *RegionAnalyzer) ProcessDay(date time.Time, hs StressSample, sst, ssta *StressSample) (DailyRecord, error) {
	if a.seenAny && !date.After(a.lastSeen) {
		return DailyRecord{}, fmt.Errorf("%w: site %s got %s after %s", ErrOutOfOrderDate,
			a.siteCode, date.Format(time.DateOnly), a.lastSeen.Format(time.DateOnly))
	}
	a.lastSeen = date
	a.seenAny = true

	cleaned := hs.Clean()
	if len(cleaned.Points) == 0 {
		return DailyRecord{}, ErrEmptyHotSpotSample
	}

	if a.policy == GapZeroFill && a.processedAny {
		a.fillGap(date)
	}

	// Fix the polygon centroid from the first usable HotSpot cloud; never
	// recomputed afterward.
	if !a.coordSet {
		a.centerLon, a.centerLat, _ = cleaned.Centroid()
		a.coordSet = true
	}

	values := cleaned.Values()
	hsP90 := Percentile(values, 90)

	// The pixel whose HotSpot value is closest to the p90 represents the
	// day for cross-variable sampling.
	rep := cleaned.Points[nearestValueIndex(values, hsP90)]

	sstAtP90, sstMin, sstMax := sampleSST(rep, sst)
	sstaAtP90 := sampleAt(rep, ssta)

	dailyStress := 0.0
	if hsP90 >= stressThreshold {
		dailyStress = hsP90 / daysPerWeek
	}
	a.stress.Push(dailyStress)
	dhw := a.stress.Sum()

	a.alerts.Push(ClassifyAlert(hsP90, dhw))

	a.lastProcessed = date
	a.processedAny = true

	return DailyRecord{
		Date:        date,
		SSTMin:      sstMin,
		SSTMax:      sstMax,
		SSTAtP90:    sstAtP90,
		SSTAAtP90:   sstaAtP90,
		HSP90:       math.Max(0, hsP90),
		DHW:         dhw,
		BAA:         a.alerts.Max(),
		ProcessedAt: clock.Now(),
	}, nil
}

// fillGap pushes neutral window entries for calendar days between the last
// processed date and the new one.
func (a *RegionAnalyzer) fillGap(date time.Time) {
	missing := int(date.Sub(a.lastProcessed).Hours()/24) - 1
	for i := 0; i < missing; i++ {
		a.stress.Push(0)
		a.alerts.Push(AlertNoStress)
	}
}

// sampleSST extracts the SST at the representative pixel plus the min and
// max over the whole sample. Each field degrades to MissingValue
// independently.
func sampleSST(rep SamplePoint, sst *StressSample) (atP90, min, max float64) {
	atP90 = sampleAt(rep, sst)
	min, max = MissingValue, MissingValue
	if sst == nil {
		return atP90, min, max
	}
	first := true
	for _, p := range sst.Points {
		if !isFinite(p.Value) {
			continue
		}
		if first {
			min, max = p.Value, p.Value
			first = false
			continue
		}
		if p.Value < min {
			min = p.Value
		}
		if p.Value > max {
			max = p.Value
		}
	}
	return atP90, min, max
}

// sampleAt reads a cross-variable value at the representative HotSpot
// pixel. The lookup is coordinate-keyed; when the coordinate is absent from
// the sample the positional index assumption of the upstream tool no longer
// holds and the field degrades to MissingValue.
func sampleAt(rep SamplePoint, sample *StressSample) float64 {
	if sample == nil {
		return MissingValue
	}
	v, ok := sample.valueAt(rep.Lon, rep.Lat)
	if !ok || !isFinite(v) {
		return MissingValue
	}
	return v
}
