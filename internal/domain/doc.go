// Package domain models water-logging hotspots reported across a city.
//
// # Hotspots
//
// A hotspot is a fixed point (usually an underpass, bridge or junction) where
// rainwater accumulates. Each record carries:
//
//	ID           unique positive integer, stable for the record's lifetime
//	Location     display name, e.g. "ITO Crossing"
//	Ward, Zone   administrative labels, e.g. "Ward 12", "Central Delhi"
//	Severity     low < medium < high < critical
//	WaterLevel   percentage of the local alert gauge, 0–100
//	UpdatedAt    time of the last reading
//	Coordinates  WGS-84 latitude/longitude in decimal degrees
//
// Hotspots are read-only once constructed. Consumers filter and select
// references to them but never mutate a record in place.
//
// # Feed Messages
//
// The live feed publishes one JSON object per hotspot update:
//
//	{"id":1,"location":"ITO Crossing","ward":"Ward 12","zone":"Central Delhi",
//	 "severity":"critical","waterLevel":85,"updatedAt":"2025-01-04T10:30:00Z",
//	 "coordinates":{"lat":28.6289,"lng":77.2416}}
//
// A message with "removed": true deletes the hotspot with that ID. A message
// without coordinates may be enriched by forward geocoding the location and
// zone, see [EnrichWithGeocoding].
//
// # Coordinates
//
// Coordinates are not range-checked. Out-of-range values project off-canvas
// or overlap other markers; that is rendered as-is rather than rejected.
//
// # Dashboard Counters
//
// [DashboardStats] holds the three headline counters of the dashboard. Each
// counter falls back to its default (47, 12, 5) when the upstream value is
// missing or zero.
package domain
