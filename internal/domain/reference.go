package domain

import "time"

// ReferenceHotspots returns the six compiled-in demo hotspots, with UpdatedAt
// set relative to now.
func ReferenceHotspots(now time.Time) []Hotspot {
	ago := func(mins int) time.Time { return now.Add(-time.Duration(mins) * time.Minute) }
	return []Hotspot{
		{
			ID: 1, Location: "ITO Crossing", Ward: "Ward 12", Zone: "Central Delhi",
			Severity: SeverityCritical, WaterLevel: 85, UpdatedAt: ago(5),
			Coordinates: Coordinates{Lat: 28.6289, Lng: 77.2416},
		},
		{
			ID: 2, Location: "Minto Bridge", Ward: "Ward 8", Zone: "Central Delhi",
			Severity: SeverityHigh, WaterLevel: 72, UpdatedAt: ago(12),
			Coordinates: Coordinates{Lat: 28.6304, Lng: 77.2177},
		},
		{
			ID: 3, Location: "Pul Prahladpur", Ward: "Ward 45", Zone: "South Delhi",
			Severity: SeverityMedium, WaterLevel: 45, UpdatedAt: ago(20),
			Coordinates: Coordinates{Lat: 28.4955, Lng: 77.2707},
		},
		{
			ID: 4, Location: "Rajghat", Ward: "Ward 15", Zone: "Central Delhi",
			Severity: SeverityHigh, WaterLevel: 68, UpdatedAt: ago(8),
			Coordinates: Coordinates{Lat: 28.6419, Lng: 77.2506},
		},
		{
			ID: 5, Location: "Nizamuddin Bridge", Ward: "Ward 18", Zone: "South Delhi",
			Severity: SeverityCritical, WaterLevel: 92, UpdatedAt: ago(3),
			Coordinates: Coordinates{Lat: 28.5889, Lng: 77.2502},
		},
		{
			ID: 6, Location: "Tilak Bridge", Ward: "Ward 10", Zone: "Central Delhi",
			Severity: SeverityMedium, WaterLevel: 55, UpdatedAt: ago(15),
			Coordinates: Coordinates{Lat: 28.6185, Lng: 77.2426},
		},
	}
}
