package models

import "time"

// VehicleCount holds the directional counts for the current report period.
// Total is maintained incrementally alongside In and Out; the
// Total == In + Out invariant must hold after every update.
type VehicleCount struct {
	In    int `json:"in"`
	Out   int `json:"out"`
	Total int `json:"total"`
}

// ReportCount is the count block of a persisted report.
type ReportCount struct {
	Total    int `json:"total"`
	Incoming int `json:"incoming"`
	Outgoing int `json:"outgoing"`
}

// ReportRate is the per-minute rate block of a persisted report.
type ReportRate struct {
	Total    float64 `json:"total"`
	Incoming float64 `json:"incoming"`
	Outgoing float64 `json:"outgoing"`
}

// Report is an immutable snapshot of one reporting period. It is built
// once when the scheduler fires and never mutated afterwards.
type Report struct {
	Timestamp        time.Time   `json:"timestamp"`
	DurationMinutes  float64     `json:"duration_minutes"`
	VehicleCount     ReportCount `json:"vehicle_count"`
	AveragePerMinute ReportRate  `json:"average_per_minute"`
}

// NewReport builds a report from the period's counts and duration. The
// caller guarantees a positive duration; intervals are validated at the
// control surface.
func NewReport(ts time.Time, duration time.Duration, counts VehicleCount) Report {
	minutes := duration.Minutes()
	return Report{
		Timestamp:       ts,
		DurationMinutes: minutes,
		VehicleCount: ReportCount{
			Total:    counts.Total,
			Incoming: counts.In,
			Outgoing: counts.Out,
		},
		AveragePerMinute: ReportRate{
			Total:    float64(counts.Total) / minutes,
			Incoming: float64(counts.In) / minutes,
			Outgoing: float64(counts.Out) / minutes,
		},
	}
}
