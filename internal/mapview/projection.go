package mapview

import (
	"math"

	"github.com/couchcryptid/hotspot-map-service/internal/domain"
)

// Point is a position in canvas or screen pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Projection maps geographic coordinates onto a fixed logical canvas.
type Projection struct {
	Width  float64 // canvas width in pixels
	Height float64 // canvas height in pixels
	Lat0   float64 // calibration latitude, lands at the vertical centre
	Lng0   float64 // calibration longitude, lands at the horizontal centre
	Scale  float64 // pixels per degree
}

// DefaultProjection is calibrated for Delhi.
var DefaultProjection = Projection{
	Width:  800,
	Height: 600,
	Lat0:   28.8,
	Lng0:   77.0,
	Scale:  40,
}

// Project converts c to canvas pixels. It is a pure function of c and the
// projection constants.
func (p Projection) Project(c domain.Coordinates) Point {
	return Point{
		X: (c.Lng-p.Lng0)*p.Scale + p.Width/2,
		Y: (p.Lat0-c.Lat)*p.Scale + p.Height/2,
	}
}

// Center is the canvas midpoint.
func (p Projection) Center() Point {
	return Point{X: p.Width / 2, Y: p.Height / 2}
}

// Affine is a uniform scale followed by a translation:
// Apply(p) = (TX + Scale*p.X, TY + Scale*p.Y).
type Affine struct {
	Scale float64 `json:"scale"`
	TX    float64 `json:"tx"`
	TY    float64 `json:"ty"`
}

// Identity leaves points unchanged.
var Identity = Affine{Scale: 1}

// Apply maps a canvas point to the screen.
func (a Affine) Apply(p Point) Point {
	return Point{X: a.TX + a.Scale*p.X, Y: a.TY + a.Scale*p.Y}
}

// Invert maps a screen point back to the canvas. Scale must be non-zero.
func (a Affine) Invert(p Point) Point {
	return Point{X: (p.X - a.TX) / a.Scale, Y: (p.Y - a.TY) / a.Scale}
}
