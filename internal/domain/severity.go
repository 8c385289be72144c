package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSeverity is returned when a severity label is not recognised.
var ErrUnknownSeverity = errors.New("unknown severity")

// Severity is the ordered alert level of a hotspot.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists every severity from least to most severe.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// ParseSeverity normalizes s (case-insensitive, surrounding space ignored).
func ParseSeverity(s string) (Severity, error) {
	v := Severity(strings.ToLower(strings.TrimSpace(s)))
	if v.Rank() == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownSeverity, s)
	}
	return v, nil
}

// Rank orders severities from 1 (low) to 4 (critical). Unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// Color is the marker colour used for the severity on the map.
func (s Severity) Color() string {
	switch s {
	case SeverityCritical:
		return "#ef4444"
	case SeverityHigh:
		return "#f97316"
	case SeverityMedium:
		return "#3b82f6"
	case SeverityLow:
		return "#22c55e"
	default:
		return "#6b7280"
	}
}

// SeverityFilter restricts a view to one severity, or to none when All.
type SeverityFilter string

// SeverityAll disables severity filtering.
const SeverityAll SeverityFilter = "all"

// ParseSeverityFilter accepts "all", the empty string (treated as all), or any
// severity label.
func ParseSeverityFilter(s string) (SeverityFilter, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" || trimmed == string(SeverityAll) {
		return SeverityAll, nil
	}
	sev, err := ParseSeverity(trimmed)
	if err != nil {
		return "", err
	}
	return SeverityFilter(sev), nil
}

// Matches reports whether a hotspot with severity s passes the filter.
func (f SeverityFilter) Matches(s Severity) bool {
	return f == SeverityAll || f == "" || Severity(f) == s
}
