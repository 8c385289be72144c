package mapview

import (
	"strings"

	"github.com/couchcryptid/hotspot-map-service/internal/domain"
)

// Filter is the text query and severity restriction applied to the map.
type Filter struct {
	Query    string                `json:"query"`
	Severity domain.SeverityFilter `json:"severity"`
}

// Matches reports whether h passes both the query and the severity filter.
// The query matches location or ward, case-insensitively.
func (f Filter) Matches(h domain.Hotspot) bool {
	if !f.Severity.Matches(h.Severity) {
		return false
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(h.Location), q) ||
		strings.Contains(strings.ToLower(h.Ward), q)
}

// Visible returns the hotspots passing f, in input order.
func Visible(hotspots []domain.Hotspot, f Filter) []domain.Hotspot {
	out := make([]domain.Hotspot, 0, len(hotspots))
	for _, h := range hotspots {
		if f.Matches(h) {
			out = append(out, h)
		}
	}
	return out
}

// State is the filter plus the single selected hotspot.
type State struct {
	filter   Filter
	selected *domain.Hotspot
}

// NewState returns an empty query, severity "all" and no selection.
func NewState() *State {
	return &State{filter: Filter{Severity: domain.SeverityAll}}
}

func (s *State) Filter() Filter { return s.filter }

func (s *State) SetQuery(q string) { s.filter.Query = q }

func (s *State) SetSeverity(f domain.SeverityFilter) {
	if f == "" {
		f = domain.SeverityAll
	}
	s.filter.Severity = f
}

// Select replaces the selection with h. The filter is not consulted.
func (s *State) Select(h domain.Hotspot) {
	s.selected = &h
}

func (s *State) ClearSelection() { s.selected = nil }

// Selected returns the selected hotspot, if any.
func (s *State) Selected() (domain.Hotspot, bool) {
	if s.selected == nil {
		return domain.Hotspot{}, false
	}
	return *s.selected, true
}
