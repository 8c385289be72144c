package domain

import (
	"math"
	"time"
)

// Default dashboard counters, shown until the upstream API supplies values.
const (
	DefaultTotalHotspots = 47
	DefaultActiveAlerts  = 12
	DefaultCriticalZones = 5
)

// DashboardStats holds the headline counters of the dashboard.
type DashboardStats struct {
	TotalHotspots int       `json:"totalHotspots"`
	ActiveAlerts  int       `json:"activeAlerts"`
	CriticalZones int       `json:"criticalZones"`
	Source        string    `json:"source"` // "default" or "upstream"
	FetchedAt     time.Time `json:"fetchedAt,omitzero"`
}

// DefaultStats returns the built-in demo counters.
func DefaultStats() DashboardStats {
	return DashboardStats{
		TotalHotspots: DefaultTotalHotspots,
		ActiveAlerts:  DefaultActiveAlerts,
		CriticalZones: DefaultCriticalZones,
		Source:        "default",
	}
}

// StatsPayload is the upstream JSON body. Every field is optional.
type StatsPayload struct {
	TotalHotspots float64 `json:"totalHotspots"`
	ActiveAlerts  float64 `json:"activeAlerts"`
	CriticalZones float64 `json:"criticalZones"`
}

// MergeStats applies an upstream payload over the defaults. A missing or zero
// field keeps its default.
func MergeStats(p StatsPayload, fetchedAt time.Time) DashboardStats {
	s := DefaultStats()
	s.TotalHotspots = orDefault(p.TotalHotspots, DefaultTotalHotspots)
	s.ActiveAlerts = orDefault(p.ActiveAlerts, DefaultActiveAlerts)
	s.CriticalZones = orDefault(p.CriticalZones, DefaultCriticalZones)
	s.Source = "upstream"
	s.FetchedAt = fetchedAt
	return s
}

// orDefault rounds v to the nearest whole count and clamps it to
// [0, math.MaxInt32]. Zero and non-finite values keep the default; a
// fraction that rounds to zero is shown as zero.
func orDefault(v float64, def int) int {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return int(min(max(math.Round(v), 0), math.MaxInt32))
}
