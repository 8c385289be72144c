package mapview

import (
	"slices"

	"github.com/couchcryptid/hotspot-map-service/internal/domain"
)

// View is a serializable snapshot of a controller.
type View struct {
	Zoom      float64         `json:"zoom"`
	Pan       Point           `json:"pan"`
	Transform Affine          `json:"transform"`
	Gesture   string          `json:"gesture"`
	Filter    Filter          `json:"filter"`
	Selected  *domain.Hotspot `json:"selected"`
	Markers   []Marker        `json:"markers"`
	Empty     bool            `json:"empty"`
}

// Snapshot captures the current view. Markers are ordered by ID.
func (c *Controller) Snapshot() View {
	v := View{
		Zoom:      c.viewport.Zoom(),
		Pan:       c.viewport.Pan(),
		Transform: c.viewport.Transform(),
		Gesture:   c.Gesture().String(),
		Filter:    c.state.Filter(),
		Markers:   make([]Marker, 0, len(c.drawn)),
	}
	if sel, ok := c.state.Selected(); ok {
		v.Selected = &sel
	}
	for _, m := range c.drawn {
		v.Markers = append(v.Markers, m)
	}
	slices.SortFunc(v.Markers, func(a, b Marker) int { return a.ID - b.ID })
	v.Empty = len(v.Markers) == 0
	return v
}
