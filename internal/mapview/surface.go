package mapview

import "github.com/couchcryptid/hotspot-map-service/internal/domain"

// Marker radii in canvas pixels.
const (
	MarkerRadius         = 12.0
	SelectedMarkerRadius = 16.0
)

// Marker is one hotspot drawn on a surface, positioned in canvas pixels.
type Marker struct {
	ID       int             `json:"id"`
	Position Point           `json:"position"`
	Severity domain.Severity `json:"severity"`
	Color    string          `json:"color"`
	Label    string          `json:"label"`
	Selected bool            `json:"selected"`
}

// Radius is the drawn radius of the marker.
func (m Marker) Radius() float64 {
	if m.Selected {
		return SelectedMarkerRadius
	}
	return MarkerRadius
}

// Surface is a rendering target for the map. Implementations place markers in
// canvas space and draw every marker and background layer through the single
// transform passed to SetView.
type Surface interface {
	// Project converts coordinates to canvas pixels.
	Project(c domain.Coordinates) Point
	// AddMarker draws m, replacing any marker with the same ID.
	AddMarker(m Marker)
	// RemoveMarker removes the marker with the given ID, if present.
	RemoveMarker(id int)
	// SetView sets the canvas→screen transform.
	SetView(t Affine)
}
