package domain

import (
	"context"
	"fmt"
	"time"
)

// Coordinates is a WGS-84 latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// IsZero reports whether both components are unset.
func (c Coordinates) IsZero() bool {
	return c.Lat == 0 && c.Lng == 0
}

// Hotspot is a single water-logging point.
type Hotspot struct {
	ID          int         `json:"id" yaml:"id"`
	Location    string      `json:"location" yaml:"location"`
	Ward        string      `json:"ward" yaml:"ward"`
	Zone        string      `json:"zone" yaml:"zone"`
	Severity    Severity    `json:"severity" yaml:"severity"`
	WaterLevel  float64     `json:"waterLevel" yaml:"water_level"`
	UpdatedAt   time.Time   `json:"updatedAt" yaml:"updated_at"`
	Coordinates Coordinates `json:"coordinates" yaml:"coordinates"`

	// Geocoding enrichment, set only when coordinates came from a geocoder.
	FormattedAddress string  `json:"formattedAddress,omitempty" yaml:"-"`
	GeoConfidence    float64 `json:"geoConfidence,omitempty" yaml:"-"`
	GeoSource        string  `json:"geoSource,omitempty" yaml:"-"` // "forward", "original", "failed"
}

// LastUpdated renders UpdatedAt relative to now, e.g. "5 mins ago".
func (h Hotspot) LastUpdated(now time.Time) string {
	if h.UpdatedAt.IsZero() {
		return "unknown"
	}
	d := now.Sub(h.UpdatedAt)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "min")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	default:
		return plural(int(d/(24*time.Hour)), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// HotspotMessage is the JSON payload published on the hotspot feed topic.
type HotspotMessage struct {
	ID          int          `json:"id"`
	Location    string       `json:"location"`
	Ward        string       `json:"ward"`
	Zone        string       `json:"zone"`
	Severity    string       `json:"severity"`
	WaterLevel  float64      `json:"waterLevel"`
	UpdatedAt   *time.Time   `json:"updatedAt,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Removed     bool         `json:"removed,omitempty"`
}

// FeedMessage is an unprocessed message read from the feed topic.
type FeedMessage struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// HotspotUpdate is the parsed form of a feed message: either an upsert of
// Hotspot or, when Removed is set, a deletion of Hotspot.ID.
type HotspotUpdate struct {
	Hotspot Hotspot
	Removed bool
}

// Message converts h into its feed representation.
func (h Hotspot) Message() HotspotMessage {
	msg := HotspotMessage{
		ID:         h.ID,
		Location:   h.Location,
		Ward:       h.Ward,
		Zone:       h.Zone,
		Severity:   string(h.Severity),
		WaterLevel: h.WaterLevel,
	}
	if !h.UpdatedAt.IsZero() {
		t := h.UpdatedAt
		msg.UpdatedAt = &t
	}
	if !h.Coordinates.IsZero() {
		c := h.Coordinates
		msg.Coordinates = &c
	}
	return msg
}
