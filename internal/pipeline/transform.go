package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/hotspot-map-service/internal/domain"
)

// HotspotTransformer implements Transformer by parsing feed messages and
// geocoding hotspots that arrive without coordinates.
type HotspotTransformer struct {
	geocoder domain.Geocoder
	logger   *slog.Logger
}

// NewTransformer creates a HotspotTransformer. Pass a nil geocoder to disable
// geocoding enrichment.
func NewTransformer(geocoder domain.Geocoder, logger *slog.Logger) *HotspotTransformer {
	return &HotspotTransformer{
		geocoder: geocoder,
		logger:   logger,
	}
}

func (t *HotspotTransformer) Transform(ctx context.Context, msg domain.FeedMessage) (domain.HotspotUpdate, error) {
	u, err := domain.ParseFeedMessage(msg)
	if err != nil {
		return domain.HotspotUpdate{}, err
	}
	if !u.Removed {
		u.Hotspot = domain.EnrichWithGeocoding(ctx, u.Hotspot, t.geocoder, t.logger)
	}
	return u, nil
}
