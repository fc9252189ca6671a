// Package inventory classifies incoming point-sample files by site, date,
// and variable kind, producing the per-site processing plan for a run.
package inventory

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/reefwatch/coral-alert-etl/internal/domain"
)

// DateLayout is the 8-digit date embedded in input filenames.
const DateLayout = "20060102"

// dateRe extracts the first 8-digit run of a filename.
var dateRe = regexp.MustCompile(`\d{8}`)

// FileSet holds the per-variable file paths resolved for one site and date.
type FileSet struct {
	HS   string
	SST  string
	SSTA string
}

// Analyzable reports whether the date can be processed at all: the HotSpot
// file is mandatory, SST and SSTA are optional.
func (fs FileSet) Analyzable() bool { return fs.HS != "" }

// SkipStats counts files the resolver discarded, by reason. All skips are
// non-fatal.
type SkipStats struct {
	NoSite      int
	NoDate      int
	UnknownKind int
}

// Total returns the number of skipped files.
func (s SkipStats) Total() int { return s.NoSite + s.NoDate + s.UnknownKind }

// Inventory maps site code → date string (YYYYMMDD) → FileSet.
type Inventory map[string]map[string]FileSet

// Sites returns the site codes present in the inventory, sorted.
func (inv Inventory) Sites() []string {
	codes := make([]string, 0, len(inv))
	for code := range inv {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Dates returns the date strings resolved for a site in increasing order.
func (inv Inventory) Dates(site string) []string {
	dates := make([]string, 0, len(inv[site]))
	for d := range inv[site] {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// FileSet returns the resolved files for one site and date.
func (inv Inventory) FileSet(site, date string) FileSet {
	return inv[site][date]
}

// Resolve classifies a flat collection of file paths against the known site
// codes. Files matching no site, carrying no parseable date, or of unknown
// variable kind are skipped and counted, never fatal. For duplicate
// site/date/kind matches the last file wins.
func Resolve(paths []string, siteCodes []string) (Inventory, SkipStats) {
	inv := make(Inventory)
	var stats SkipStats

	for _, path := range paths {
		name := strings.ToLower(filepath.Base(path))

		site := matchSite(name, siteCodes)
		if site == "" {
			stats.NoSite++
			continue
		}

		date := dateRe.FindString(name)
		if date == "" {
			stats.NoDate++
			continue
		}
		if _, err := time.Parse(DateLayout, date); err != nil {
			stats.NoDate++
			continue
		}

		kind := classifyKind(name)
		if kind == domain.VariableUnknown {
			stats.UnknownKind++
			continue
		}

		if inv[site] == nil {
			inv[site] = make(map[string]FileSet)
		}
		fs := inv[site][date]
		switch kind {
		case domain.VariableHS:
			fs.HS = path
		case domain.VariableSST:
			fs.SST = path
		case domain.VariableSSTA:
			fs.SSTA = path
		}
		inv[site][date] = fs
	}

	return inv, stats
}

// matchSite finds the first configured site whose code appears as a
// "<code>_" token in the lowercased filename.
func matchSite(name string, siteCodes []string) string {
	for _, code := range siteCodes {
		if strings.Contains(name, strings.ToLower(code)+"_") {
			return code
		}
	}
	return ""
}

// classifyKind resolves the variable kind by priority-ordered substring
// match: hotspot/hs before ssta before sst, so that "ssta" files are never
// mistaken for plain "sst".
func classifyKind(name string) domain.VariableKind {
	switch {
	case strings.Contains(name, "hotspot"), strings.Contains(name, "hs"):
		return domain.VariableHS
	case strings.Contains(name, "ssta"):
		return domain.VariableSSTA
	case strings.Contains(name, "sst"):
		return domain.VariableSST
	default:
		return domain.VariableUnknown
	}
}
