package domain

// AlertLevel is the discrete CRW bleaching alert classification.
type AlertLevel int

const (
	AlertNoStress AlertLevel = iota
	AlertWatch
	AlertWarning
	AlertLevel1
	AlertLevel2
)

func (l AlertLevel) String() string {
	switch l {
	case AlertNoStress:
		return "No Stress"
	case AlertWatch:
		return "Watch"
	case AlertWarning:
		return "Warning"
	case AlertLevel1:
		return "Alert Level 1"
	case AlertLevel2:
		return "Alert Level 2"
	default:
		return "Unknown"
	}
}

// ClassifyAlert maps a day's HotSpot p90 and current DHW to its daily alert
// level. The cutoffs are absolute (1 °C HotSpot, 4 and 8 DHW), not relative
// to the site baseline.
func ClassifyAlert(hsP90, dhw float64) AlertLevel {
	switch {
	case hsP90 <= 0:
		return AlertNoStress
	case hsP90 < 1:
		return AlertWatch
	case dhw < 4:
		return AlertWarning
	case dhw < 8:
		return AlertLevel1
	default:
		return AlertLevel2
	}
}
