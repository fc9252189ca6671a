// Package textfile adapts the pipeline's file collaborators to plain text
// inputs: XYZ point-sample files, monthly-means climatology files, and the
// rendered report output.
package textfile

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/reefwatch/coral-alert-etl/internal/domain"
)

// Lister enumerates the XYZ files of the input directory.
type Lister struct {
	dir string
}

// NewLister creates a Lister over the given directory.
func NewLister(dir string) *Lister {
	return &Lister{dir: dir}
}

// List returns the paths of all .xyz files in the input directory.
func (l *Lister) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir %s: %w", l.dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".xyz") {
			paths = append(paths, filepath.Join(l.dir, e.Name()))
		}
	}
	return paths, nil
}

// SampleReader parses whitespace-separated "lon lat value" XYZ files.
type SampleReader struct {
	logger *slog.Logger
}

// NewSampleReader creates a SampleReader.
func NewSampleReader(logger *slog.Logger) *SampleReader {
	return &SampleReader{logger: logger}
}

// ReadSample loads one XYZ file. Blank lines, comment lines, and rows that
// do not parse as three floats are skipped; NaN values are kept and left to
// the analyzer's cleaning step.
func (r *SampleReader) ReadSample(_ context.Context, path string, kind domain.VariableKind) (domain.StressSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.StressSample{}, fmt.Errorf("open sample %s: %w", path, err)
	}
	defer f.Close()

	sample := domain.StressSample{Kind: kind}
	scanner := bufio.NewScanner(f)
	skipped := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		point, ok := parseXYZRow(line)
		if !ok {
			skipped++
			continue
		}
		sample.Points = append(sample.Points, point)
	}
	if err := scanner.Err(); err != nil {
		return domain.StressSample{}, fmt.Errorf("read sample %s: %w", path, err)
	}
	if skipped > 0 {
		r.logger.Debug("malformed sample rows skipped", "path", path, "rows", skipped)
	}
	return sample, nil
}

func parseXYZRow(line string) (domain.SamplePoint, bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return domain.SamplePoint{}, false
	}
	lon, err1 := strconv.ParseFloat(fields[0], 64)
	lat, err2 := strconv.ParseFloat(fields[1], 64)
	value, err3 := strconv.ParseFloat(fields[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return domain.SamplePoint{}, false
	}
	return domain.SamplePoint{Lon: lon, Lat: lat, Value: value}, true
}

// MonthlyMeansReader loads per-site climatology files: twelve whitespace-
// separated monthly mean SSTs, January through December, named
// "<code>_monthly_means.txt" in the climatology directory.
type MonthlyMeansReader struct {
	dir string
}

// NewMonthlyMeansReader creates a MonthlyMeansReader over the climatology
// directory.
func NewMonthlyMeansReader(dir string) *MonthlyMeansReader {
	return &MonthlyMeansReader{dir: dir}
}

// ReadMonthlyMeans loads a site's monthly mean set. The values may be split
// across lines; anything that is not a float is an error because a partial
// climatology must not silently pass as complete.
func (r *MonthlyMeansReader) ReadMonthlyMeans(_ context.Context, siteCode string) (domain.MonthlyMeanSet, error) {
	path := filepath.Join(r.dir, strings.ToLower(siteCode)+"_monthly_means.txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read climatology %s: %w", path, err)
	}

	var means domain.MonthlyMeanSet
	for _, field := range strings.Fields(string(data)) {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("climatology %s: bad value %q", path, field)
		}
		means = append(means, v)
	}
	return means, nil
}

// ReportWriter writes rendered site reports into the output directory.
type ReportWriter struct {
	dir string
}

// NewReportWriter creates a ReportWriter over the output directory.
func NewReportWriter(dir string) *ReportWriter {
	return &ReportWriter{dir: dir}
}

// WriteReport stores the report as "<Site_Name>_NOAA_Report.txt", creating
// the output directory if needed.
func (w *ReportWriter) WriteReport(_ context.Context, series domain.SiteSeries, rendered string) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", w.dir, err)
	}
	path := filepath.Join(w.dir, ReportFilename(series.SiteName))
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

// ReportFilename derives the report file name from the site display name.
func ReportFilename(siteName string) string {
	return strings.ReplaceAll(siteName, " ", "_") + "_NOAA_Report.txt"
}
