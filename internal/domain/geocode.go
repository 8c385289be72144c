package domain

import (
	"context"
	"log/slog"
)

// EnrichWithGeocoding fills in coordinates for a hotspot that arrived without
// them. If geocoder is nil, the hotspot already has coordinates, or geocoding
// fails, the hotspot is returned with GeoSource set accordingly (graceful
// degradation).
func EnrichWithGeocoding(ctx context.Context, h Hotspot, geocoder Geocoder, logger *slog.Logger) Hotspot {
	if geocoder == nil {
		return h
	}
	if !h.Coordinates.IsZero() || h.Location == "" {
		h.GeoSource = "original"
		return h
	}

	// Wards are numbered ("Ward 12"); the zone is the geocodable area.
	result, err := geocoder.ForwardGeocode(ctx, h.Location, h.Zone)
	if err != nil {
		logger.Warn("forward geocoding failed",
			"hotspot_id", h.ID,
			"location", h.Location,
			"zone", h.Zone,
			"error", err,
		)
		h.GeoSource = "failed"
		return h
	}
	if result.Lat == 0 && result.Lng == 0 {
		h.GeoSource = "original"
		return h
	}

	h.Coordinates = Coordinates{Lat: result.Lat, Lng: result.Lng}
	h.FormattedAddress = result.FormattedAddress
	h.GeoConfidence = result.Confidence
	h.GeoSource = "forward"
	return h
}
