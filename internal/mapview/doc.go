// Package mapview holds the interactive hotspot map: a fixed linear
// projection, a pan/zoom viewport, the filter/selection state, and the
// controller that turns pointer gestures and commands into state changes.
//
// # Projection
//
// Coordinates are projected onto an 800×600 logical canvas with a local
// equirectangular approximation calibrated on (28.8°N, 77.0°E) at 40 pixels
// per degree:
//
//	x = (lng - 77.0) * 40 + 400
//	y = (28.8 - lat) * 40 + 300
//
// The approximation is only meaningful near the calibration point. It is not
// a general-purpose map projection and does not model the Earth's curvature.
//
// # Viewport
//
// The screen position of a projected point is pan + zoom*p, applied as one
// [Affine] transform shared by every marker and background layer. Zoom is
// clamped to [0.5, 3.0] in steps of 0.2; pan is unbounded.
//
// # Selection
//
// Selection is independent of the filter. Narrowing the query or severity so
// that the selected hotspot is no longer visible keeps it selected until the
// user dismisses it or selects another hotspot.
//
// # Concurrency
//
// Nothing in this package is safe for concurrent use. A [Controller] is owned
// by a single event loop (one WebSocket session, one request) and every
// method runs to completion before the next event is applied.
package mapview
