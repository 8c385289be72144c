package provider

import (
	"context"
	"slices"

	"github.com/couchcryptid/hotspot-map-service/internal/domain"
)

// Static serves a fixed collection.
type Static struct {
	hotspots []domain.Hotspot
}

// NewStatic copies hotspots into a new provider.
func NewStatic(hotspots []domain.Hotspot) *Static {
	return &Static{hotspots: slices.Clone(hotspots)}
}

// NewReference serves the six compiled-in demo hotspots.
func NewReference() *Static {
	return NewStatic(domain.ReferenceHotspots(domain.Now()))
}

func (s *Static) Hotspots(_ context.Context) ([]domain.Hotspot, error) {
	return slices.Clone(s.hotspots), nil
}

// CheckReadiness always succeeds; the collection is available from the start.
func (s *Static) CheckReadiness(_ context.Context) error { return nil }
