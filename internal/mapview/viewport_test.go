package mapview

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewport_Initial(t *testing.T) {
	v := NewViewport()
	assert.Equal(t, 1.0, v.Zoom())
	assert.Equal(t, Point{}, v.Pan())
	assert.False(t, v.Panning())
	assert.Equal(t, Identity, v.Transform())
}

func TestViewport_ZoomInOutRoundTrip(t *testing.T) {
	for _, start := range []float64{0.7, 1.0, 1.6, 2.2} {
		v := NewViewport()
		v.SetZoom(start)
		v.ZoomIn()
		v.ZoomOut()
		assert.InDelta(t, start, v.Zoom(), 1e-9, "start %v", start)
	}
}

func TestViewport_ZoomClamps(t *testing.T) {
	v := NewViewport()
	for range 20 {
		v.ZoomIn()
	}
	assert.Equal(t, MaxZoom, v.Zoom())

	for range 40 {
		v.ZoomOut()
	}
	assert.Equal(t, MinZoom, v.Zoom())

	// Clamp hit: in/out no longer returns to the start.
	v.SetZoom(2.9)
	v.ZoomIn()
	assert.Equal(t, MaxZoom, v.Zoom())
	v.ZoomOut()
	assert.InDelta(t, 2.8, v.Zoom(), 1e-9)
}

func TestViewport_ZoomAlwaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	v := NewViewport()
	for range 10_000 {
		if rng.IntN(2) == 0 {
			v.ZoomIn()
		} else {
			v.ZoomOut()
		}
		if v.Zoom() < MinZoom || v.Zoom() > MaxZoom {
			t.Fatalf("zoom %v escaped [%v, %v]", v.Zoom(), MinZoom, MaxZoom)
		}
	}
}

func TestViewport_NoDriftAfterManySteps(t *testing.T) {
	v := NewViewport()
	for range 5 {
		v.ZoomIn()
	}
	for range 5 {
		v.ZoomOut()
	}
	assert.Equal(t, 1.0, v.Zoom())
}

func TestViewport_Reset(t *testing.T) {
	v := NewViewport()
	v.ZoomIn()
	v.BeginPan(Point{X: 10, Y: 10})
	v.UpdatePan(Point{X: 110, Y: -40})

	v.Reset()

	assert.Equal(t, 1.0, v.Zoom())
	assert.Equal(t, Point{}, v.Pan())
	assert.False(t, v.Panning())
}

func TestViewport_PanGesture(t *testing.T) {
	v := NewViewport()
	v.SetPan(Point{X: 20, Y: 5})

	v.BeginPan(Point{X: 100, Y: 100})
	v.UpdatePan(Point{X: 150, Y: 90})
	assert.Equal(t, Point{X: 70, Y: -5}, v.Pan())

	v.EndPan()
	v.UpdatePan(Point{X: 500, Y: 500})
	assert.Equal(t, Point{X: 70, Y: -5}, v.Pan(), "update after end is a no-op")

	v.EndPan()
	assert.False(t, v.Panning(), "EndPan is idempotent")
}

func TestViewport_UpdateWithoutBeginIsNoop(t *testing.T) {
	v := NewViewport()
	v.UpdatePan(Point{X: 42, Y: 42})
	assert.Equal(t, Point{}, v.Pan())
}

func TestViewport_PanUnbounded(t *testing.T) {
	v := NewViewport()
	v.BeginPan(Point{})
	v.UpdatePan(Point{X: -1e6, Y: 1e6})
	assert.Equal(t, Point{X: -1e6, Y: 1e6}, v.Pan())
}

func TestViewport_CenterOn(t *testing.T) {
	v := NewViewport()
	v.ZoomIn()
	target := Point{X: 409.664, Y: 306.844}
	center := DefaultProjection.Center()

	v.CenterOn(target, center)

	got := v.Transform().Apply(target)
	assert.InDelta(t, center.X, got.X, 1e-9)
	assert.InDelta(t, center.Y, got.Y, 1e-9)
}
