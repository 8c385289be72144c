package mapview

import "math"

// Zoom limits and step size.
const (
	MinZoom     = 0.5
	MaxZoom     = 3.0
	ZoomStep    = 0.2
	DefaultZoom = 1.0
)

// Viewport tracks the zoom level, the pan offset and an in-progress drag.
type Viewport struct {
	zoom    float64
	pan     Point
	panning bool
	anchor  Point
}

// NewViewport returns a viewport at zoom 1 and pan (0,0).
func NewViewport() *Viewport {
	return &Viewport{zoom: DefaultZoom}
}

func (v *Viewport) Zoom() float64 { return v.zoom }
func (v *Viewport) Pan() Point    { return v.pan }
func (v *Viewport) Panning() bool { return v.panning }

// ZoomIn raises the zoom by one step, stopping at MaxZoom.
func (v *Viewport) ZoomIn() {
	v.zoom = clampZoom(roundZoom(v.zoom + ZoomStep))
}

// ZoomOut lowers the zoom by one step, stopping at MinZoom.
func (v *Viewport) ZoomOut() {
	v.zoom = clampZoom(roundZoom(v.zoom - ZoomStep))
}

// SetZoom sets an explicit zoom, clamped to the allowed range.
// NaN resets to the default.
func (v *Viewport) SetZoom(z float64) {
	if math.IsNaN(z) {
		z = DefaultZoom
	}
	v.zoom = clampZoom(roundZoom(z))
}

// SetPan sets an explicit pan offset.
func (v *Viewport) SetPan(p Point) {
	v.pan = p
}

// Reset restores zoom 1 and pan (0,0). An active drag is cancelled.
func (v *Viewport) Reset() {
	v.zoom = DefaultZoom
	v.pan = Point{}
	v.panning = false
	v.anchor = Point{}
}

// BeginPan starts a drag at pointer position p.
func (v *Viewport) BeginPan(p Point) {
	v.panning = true
	v.anchor = p.Sub(v.pan)
}

// UpdatePan moves the map so the drag anchor follows p. No-op when not panning.
func (v *Viewport) UpdatePan(p Point) {
	if !v.panning {
		return
	}
	v.pan = p.Sub(v.anchor)
}

// EndPan finishes a drag. Safe to call when not panning.
func (v *Viewport) EndPan() {
	v.panning = false
}

// Transform is the composed canvas→screen transform.
func (v *Viewport) Transform() Affine {
	return Affine{Scale: v.zoom, TX: v.pan.X, TY: v.pan.Y}
}

// CenterOn pans so that canvas point p is drawn at screen point center under
// the current zoom.
func (v *Viewport) CenterOn(p, center Point) {
	v.pan = Point{X: center.X - v.zoom*p.X, Y: center.Y - v.zoom*p.Y}
}

func clampZoom(z float64) float64 {
	return math.Min(math.Max(z, MinZoom), MaxZoom)
}

// roundZoom snaps to 1e-9 so repeated steps do not accumulate float error.
func roundZoom(z float64) float64 {
	return math.Round(z*1e9) / 1e9
}
