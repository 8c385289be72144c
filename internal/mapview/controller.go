package mapview

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/hotspot-map-service/internal/domain"
)

// ErrUnknownHotspot is returned when an event names a hotspot ID that is not
// in the current collection.
var ErrUnknownHotspot = errors.New("unknown hotspot")

// GestureState is the state of the drag gesture machine.
type GestureState int

const (
	GestureIdle GestureState = iota
	GesturePanning
)

func (g GestureState) String() string {
	if g == GesturePanning {
		return "panning"
	}
	return "idle"
}

// Target is what a pointer-down landed on: a marker, or the background when
// HotspotID is zero.
type Target struct {
	HotspotID int
}

// Background is the map area outside any marker.
var Background = Target{}

// MarkerTarget targets the marker of hotspot id.
func MarkerTarget(id int) Target { return Target{HotspotID: id} }

func (t Target) IsMarker() bool { return t.HotspotID != 0 }

// Options tune the controller. The zero value reproduces the plain
// target-based click/drag behaviour.
type Options struct {
	// Projection defaults to DefaultProjection when zero.
	Projection Projection

	// DragThreshold is the distance in screen pixels the pointer must travel
	// from the press point before a background drag moves the map. Zero pans
	// on the first move.
	DragThreshold float64

	// RecenterOnSelect pans the viewport so a newly selected hotspot sits at
	// the canvas centre.
	RecenterOnSelect bool
}

// Controller applies pointer gestures and commands to a Viewport and a State,
// and keeps a Surface in sync with the result.
type Controller struct {
	projection Projection
	opts       Options
	viewport   *Viewport
	state      *State
	surface    Surface

	hotspots []domain.Hotspot
	byID     map[int]int
	drawn    map[int]Marker

	pressOrigin Point
	dragging    bool
}

// NewController builds a controller over hotspots and draws the initial view
// on surface.
func NewController(surface Surface, hotspots []domain.Hotspot, opts Options) *Controller {
	if opts.Projection == (Projection{}) {
		opts.Projection = DefaultProjection
	}
	c := &Controller{
		projection: opts.Projection,
		opts:       opts,
		viewport:   NewViewport(),
		state:      NewState(),
		surface:    surface,
		drawn:      make(map[int]Marker),
	}
	c.SetHotspots(hotspots)
	return c
}

// Gesture reports the current gesture state.
func (c *Controller) Gesture() GestureState {
	if c.viewport.Panning() {
		return GesturePanning
	}
	return GestureIdle
}

func (c *Controller) Viewport() *Viewport { return c.viewport }
func (c *Controller) State() *State       { return c.state }

// Visible is the filtered hotspot list.
func (c *Controller) Visible() []domain.Hotspot {
	return Visible(c.hotspots, c.state.Filter())
}

// SetHotspots replaces the collection. A selected hotspot is re-pointed at
// the record with the same ID, or cleared when that ID is gone.
func (c *Controller) SetHotspots(hotspots []domain.Hotspot) {
	c.hotspots = hotspots
	c.byID = make(map[int]int, len(hotspots))
	for i, h := range hotspots {
		c.byID[h.ID] = i
	}
	if sel, ok := c.state.Selected(); ok {
		if i, found := c.byID[sel.ID]; found {
			c.state.Select(c.hotspots[i])
		} else {
			c.state.ClearSelection()
		}
	}
	c.sync()
}

// PointerDown starts a pan on the background, or selects the targeted marker.
func (c *Controller) PointerDown(p Point, target Target) error {
	if target.IsMarker() {
		return c.Select(target.HotspotID)
	}
	c.viewport.BeginPan(p)
	c.pressOrigin = p
	c.dragging = c.opts.DragThreshold <= 0
	c.sync()
	return nil
}

// PointerMove drags the map while a pan is active.
func (c *Controller) PointerMove(p Point) {
	if !c.viewport.Panning() {
		return
	}
	if !c.dragging {
		if p.Dist(c.pressOrigin) < c.opts.DragThreshold {
			return
		}
		c.dragging = true
	}
	c.viewport.UpdatePan(p)
	c.sync()
}

// PointerUp ends a pan. The release point is ignored: the pan stays where
// the last move left it.
func (c *Controller) PointerUp(_ Point) { c.endGesture() }

// PointerLeave ends a pan when the pointer exits the map, wherever it is.
func (c *Controller) PointerLeave(_ Point) { c.endGesture() }

// endGesture is shared by both exit paths so they leave identical state.
func (c *Controller) endGesture() {
	if !c.viewport.Panning() {
		return
	}
	c.viewport.EndPan()
	c.dragging = false
	c.sync()
}

func (c *Controller) ZoomIn() {
	c.viewport.ZoomIn()
	c.sync()
}

func (c *Controller) ZoomOut() {
	c.viewport.ZoomOut()
	c.sync()
}

// ResetView restores the default zoom and pan. Filter and selection are kept.
func (c *Controller) ResetView() {
	c.viewport.Reset()
	c.dragging = false
	c.sync()
}

// SetViewport restores an explicit zoom and pan, e.g. from a saved view.
func (c *Controller) SetViewport(zoom float64, pan Point) {
	c.viewport.SetZoom(zoom)
	c.viewport.SetPan(pan)
	c.sync()
}

func (c *Controller) SetQuery(q string) {
	c.state.SetQuery(q)
	c.sync()
}

func (c *Controller) SetSeverity(f domain.SeverityFilter) {
	c.state.SetSeverity(f)
	c.sync()
}

// Select selects hotspot id. The hotspot does not need to be visible.
func (c *Controller) Select(id int) error {
	i, ok := c.byID[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownHotspot, id)
	}
	h := c.hotspots[i]
	c.state.Select(h)
	if c.opts.RecenterOnSelect {
		c.viewport.CenterOn(c.projection.Project(h.Coordinates), c.projection.Center())
	}
	c.sync()
	return nil
}

// Dismiss clears the selection.
func (c *Controller) Dismiss() {
	c.state.ClearSelection()
	c.sync()
}

// TargetAt hit-tests a screen point against the visible markers. When
// markers overlap the one drawn last (highest ID) wins.
func (c *Controller) TargetAt(screen Point) Target {
	p := c.viewport.Transform().Invert(screen)
	best := Background
	for _, m := range c.drawn {
		if p.Dist(m.Position) > m.Radius() {
			continue
		}
		if m.ID > best.HotspotID {
			best = MarkerTarget(m.ID)
		}
	}
	return best
}

// sync reconciles the surface with the visible set and the current transform.
func (c *Controller) sync() {
	sel, hasSel := c.state.Selected()
	visible := c.Visible()
	keep := make(map[int]struct{}, len(visible))

	for _, h := range visible {
		keep[h.ID] = struct{}{}
		m := Marker{
			ID:       h.ID,
			Position: c.surface.Project(h.Coordinates),
			Severity: h.Severity,
			Color:    h.Severity.Color(),
			Label:    h.Location,
			Selected: hasSel && sel.ID == h.ID,
		}
		if prev, ok := c.drawn[h.ID]; ok && prev == m {
			continue
		}
		c.surface.AddMarker(m)
		c.drawn[h.ID] = m
	}
	for id := range c.drawn {
		if _, ok := keep[id]; !ok {
			c.surface.RemoveMarker(id)
			delete(c.drawn, id)
		}
	}
	c.surface.SetView(c.viewport.Transform())
}
