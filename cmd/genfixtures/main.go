// Command genfixtures generates synthetic XYZ point-sample files and
// monthly-means climatology files for local runs and test setups. It uses
// the actual domain analyzer so the fixture alert levels match real
// pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genfixtures \
//	  -out-dir data/xyz \
//	  -climatology-dir data/climatology \
//	  -sites GM:Gili_Matra,GN:Gita_Nada,NP:Nusa_Penida \
//	  -start 2024-03-01 -days 120
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/reefwatch/coral-alert-etl/internal/domain"
)

type siteDef struct {
	code string
	name string
	lon  float64
	lat  float64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "data/xyz", "output directory for XYZ sample files")
	climDir := flag.String("climatology-dir", "data/climatology", "output directory for monthly-means files")
	sitesArg := flag.String("sites", "GM:Gili_Matra,GN:Gita_Nada,NP:Nusa_Penida", "comma-separated code:name site list")
	startArg := flag.String("start", "2024-03-01", "first sample date (YYYY-MM-DD)")
	days := flag.Int("days", 120, "number of consecutive days to generate")
	seed := flag.Int64("seed", 42, "random seed for reproducible fixtures")
	flag.Parse()

	sites, err := parseSites(*sitesArg)
	if err != nil {
		return err
	}
	start, err := time.Parse(time.DateOnly, *startArg)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}
	if *days < 1 {
		return fmt.Errorf("-days must be positive, got %d", *days)
	}

	// Fixed clock for reproducible ProcessedAt timestamps in the summary.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.July, 1, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	for _, dir := range []string{*outDir, *climDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	rng := rand.New(rand.NewSource(*seed))
	for _, site := range sites {
		if err := generateSite(site, start, *days, *outDir, *climDir, rng); err != nil {
			return fmt.Errorf("site %s: %w", site.code, err)
		}
	}
	return nil
}

func parseSites(arg string) ([]siteDef, error) {
	var sites []siteDef
	for i, entry := range strings.Split(arg, ",") {
		code, name, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok || code == "" || name == "" {
			return nil, fmt.Errorf("invalid site entry %q at position %d, want code:name", entry, i)
		}
		// Spread the sites along the Lombok strait.
		sites = append(sites, siteDef{
			code: code,
			name: strings.ReplaceAll(name, "_", " "),
			lon:  115.5 + 0.4*float64(i),
			lat:  -8.7 + 0.1*float64(i),
		})
	}
	return sites, nil
}

// generateSite writes one climatology file plus per-day hs, sst, and ssta
// XYZ files. Stress ramps up over the run so that fixtures exercise every
// alert level from Watch through Alert Level 2.
func generateSite(site siteDef, start time.Time, days int, outDir, climDir string, rng *rand.Rand) error {
	means := monthlyMeans(site.lat, rng)
	if err := writeClimatology(climDir, site.code, means); err != nil {
		return err
	}

	baseline, err := domain.ComputeBaseline(site.code, means)
	if err != nil {
		return err
	}
	analyzer := domain.NewRegionAnalyzer(site.code, site.name, baseline, domain.GapAdvancePerCall)

	var last domain.DailyRecord
	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d)
		// Heat ramp peaking a third of the way in, cooling off after.
		ramp := math.Sin(math.Pi * float64(d) / float64(days) * 1.5)
		sstBase := baseline.MMM - 0.5 + 2.5*math.Max(0, ramp)

		hs := samplePoints(site, date, func(jitter float64) float64 {
			return math.Max(0, sstBase+jitter-baseline.MMM)
		}, rng)
		sst := samplePoints(site, date, func(jitter float64) float64 {
			return sstBase + jitter
		}, rng)
		ssta := samplePoints(site, date, func(jitter float64) float64 {
			return sstBase + jitter - means[date.Month()-1]
		}, rng)

		if err := writeXYZ(outDir, site.code, "hs", date, hs); err != nil {
			return err
		}
		if err := writeXYZ(outDir, site.code, "sst", date, sst); err != nil {
			return err
		}
		if err := writeXYZ(outDir, site.code, "ssta", date, ssta); err != nil {
			return err
		}

		rec, err := analyzer.ProcessDay(date, hs, &sst, &ssta)
		if err != nil {
			return fmt.Errorf("analyze %s: %w", date.Format(time.DateOnly), err)
		}
		last = rec
	}

	log.Printf("%s: %d days, final dhw=%.2f baa=%s", site.code, days, last.DHW, last.BAA)
	return nil
}

// monthlyMeans builds a plausible tropical climatology: warm year-round with
// a mild seasonal cycle, slightly cooler at higher latitude.
func monthlyMeans(lat float64, rng *rand.Rand) domain.MonthlyMeanSet {
	means := make(domain.MonthlyMeanSet, 12)
	base := 28.5 - 0.2*math.Abs(lat)
	for m := range means {
		seasonal := 0.8 * math.Cos(2*math.Pi*float64(m-1)/12)
		means[m] = base + seasonal + 0.1*rng.Float64()
	}
	return means
}

// samplePoints lays a 4x4 grid around the site center and fills values via
// the supplied function of a per-point jitter term.
func samplePoints(site siteDef, date time.Time, value func(jitter float64) float64, rng *rand.Rand) domain.StressSample {
	sample := domain.StressSample{SiteCode: site.code, Date: date}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			sample.Points = append(sample.Points, domain.SamplePoint{
				Lon:   site.lon + 0.05*float64(i),
				Lat:   site.lat + 0.05*float64(j),
				Value: value(0.3 * (rng.Float64() - 0.5)),
			})
		}
	}
	return sample
}

func writeXYZ(dir, code, kind string, date time.Time, sample domain.StressSample) error {
	name := fmt.Sprintf("crw_%s_%s_%s.xyz", strings.ToLower(code), kind, date.Format("20060102"))
	var b strings.Builder
	for _, p := range sample.Points {
		fmt.Fprintf(&b, "%.4f %.4f %.4f\n", p.Lon, p.Lat, p.Value)
	}
	return os.WriteFile(filepath.Join(dir, name), []byte(b.String()), 0o644)
}

func writeClimatology(dir, code string, means domain.MonthlyMeanSet) error {
	fields := make([]string, len(means))
	for i, m := range means {
		fields[i] = fmt.Sprintf("%.4f", m)
	}
	path := filepath.Join(dir, strings.ToLower(code)+"_monthly_means.txt")
	return os.WriteFile(path, []byte(strings.Join(fields, " ")+"\n"), 0o644)
}
