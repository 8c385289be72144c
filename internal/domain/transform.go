package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidHotspot wraps every validation failure.
var ErrInvalidHotspot = errors.New("invalid hotspot")

// ParseFeedMessage deserializes a feed message into a HotspotUpdate.
//
// UpdatedAt falls back to the message timestamp, then to the package clock.
// Removal messages only need an ID.
func ParseFeedMessage(msg FeedMessage) (HotspotUpdate, error) {
	var rec HotspotMessage
	if err := json.Unmarshal(msg.Value, &rec); err != nil {
		return HotspotUpdate{}, fmt.Errorf("parse feed message: %w", err)
	}

	if rec.Removed {
		if rec.ID <= 0 {
			return HotspotUpdate{}, fmt.Errorf("%w: removal without id", ErrInvalidHotspot)
		}
		return HotspotUpdate{Hotspot: Hotspot{ID: rec.ID}, Removed: true}, nil
	}

	sev, err := ParseSeverity(rec.Severity)
	if err != nil {
		return HotspotUpdate{}, fmt.Errorf("%w: id %d: %w", ErrInvalidHotspot, rec.ID, err)
	}

	h := Hotspot{
		ID:         rec.ID,
		Location:   strings.TrimSpace(rec.Location),
		Ward:       strings.TrimSpace(rec.Ward),
		Zone:       strings.TrimSpace(rec.Zone),
		Severity:   sev,
		WaterLevel: rec.WaterLevel,
	}
	switch {
	case rec.UpdatedAt != nil:
		h.UpdatedAt = rec.UpdatedAt.UTC()
	case !msg.Timestamp.IsZero():
		h.UpdatedAt = msg.Timestamp.UTC()
	default:
		h.UpdatedAt = clock.Now().UTC()
	}
	if rec.Coordinates != nil {
		h.Coordinates = *rec.Coordinates
	}

	if err := Validate(h); err != nil {
		return HotspotUpdate{}, err
	}
	return HotspotUpdate{Hotspot: h}, nil
}

// Validate checks a single hotspot. Coordinates are not range checked, only
// required to be finite so they can be encoded as JSON.
func Validate(h Hotspot) error {
	var errs []error
	if h.ID <= 0 {
		errs = append(errs, fmt.Errorf("id must be positive, got %d", h.ID))
	}
	if h.Location == "" {
		errs = append(errs, errors.New("location is required"))
	}
	if h.Severity.Rank() == 0 {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownSeverity, h.Severity))
	}
	if !(h.WaterLevel >= 0 && h.WaterLevel <= 100) {
		errs = append(errs, fmt.Errorf("water level %v outside [0, 100]", h.WaterLevel))
	}
	if !finite(h.Coordinates.Lat) || !finite(h.Coordinates.Lng) {
		errs = append(errs, fmt.Errorf("coordinates (%v, %v) must be finite", h.Coordinates.Lat, h.Coordinates.Lng))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: id %d: %w", ErrInvalidHotspot, h.ID, errors.Join(errs...))
}

// ValidateCollection validates every hotspot and checks IDs are unique.
func ValidateCollection(hotspots []Hotspot) error {
	var errs []error
	seen := make(map[int]int, len(hotspots))
	for i, h := range hotspots {
		if err := Validate(h); err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
		}
		if first, ok := seen[h.ID]; ok {
			errs = append(errs, fmt.Errorf("%w: record %d: duplicate id %d (first at record %d)", ErrInvalidHotspot, i, h.ID, first))
			continue
		}
		seen[h.ID] = i
	}
	return errors.Join(errs...)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
