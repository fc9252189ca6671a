package domain

import (
	"math"
	"time"
)

// VariableKind identifies which satellite variable a point sample carries.
type VariableKind string

const (
	VariableHS      VariableKind = "HS"
	VariableSST     VariableKind = "SST"
	VariableSSTA    VariableKind = "SSTA"
	VariableUnknown VariableKind = "UNKNOWN"
)

// SamplePoint is one masked raster pixel: a coordinate and its value.
type SamplePoint struct {
	Lon   float64
	Lat   float64
	Value float64
}

// StressSample is the point-value collection for one site, one date, and
// one variable.
type StressSample struct {
	SiteCode string
	Date     time.Time
	Kind     VariableKind
	Points   []SamplePoint
}

// Clean returns a copy of the sample with every point dropped whose
// coordinate or value is NaN or infinite.
func (s StressSample) Clean() StressSample {
	cleaned := StressSample{SiteCode: s.SiteCode, Date: s.Date, Kind: s.Kind}
	for _, p := range s.Points {
		if isFinite(p.Lon) && isFinite(p.Lat) && isFinite(p.Value) {
			cleaned.Points = append(cleaned.Points, p)
		}
	}
	return cleaned
}

// Values returns the point values in sample order.
func (s StressSample) Values() []float64 {
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		values[i] = p.Value
	}
	return values
}

// Centroid returns the arithmetic mean of all point coordinates.
// The second return is false when the sample is empty.
func (s StressSample) Centroid() (lon, lat float64, ok bool) {
	if len(s.Points) == 0 {
		return 0, 0, false
	}
	for _, p := range s.Points {
		lon += p.Lon
		lat += p.Lat
	}
	n := float64(len(s.Points))
	return lon / n, lat / n, true
}

// valueAt looks up a point value by exact coordinate. The first occurrence
// of a duplicated coordinate wins.
func (s StressSample) valueAt(lon, lat float64) (float64, bool) {
	for _, p := range s.Points {
		if p.Lon == lon && p.Lat == lat {
			return p.Value, true
		}
	}
	return 0, false
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
