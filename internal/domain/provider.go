package domain

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a hotspot ID is not in the collection.
var ErrNotFound = errors.New("hotspot not found")

// HotspotProvider supplies the current hotspot collection. Implementations
// return a slice the caller may keep; it is never mutated afterwards.
type HotspotProvider interface {
	Hotspots(ctx context.Context) ([]Hotspot, error)
}

// FindHotspot returns the hotspot with the given ID from p.
func FindHotspot(ctx context.Context, p HotspotProvider, id int) (Hotspot, error) {
	hs, err := p.Hotspots(ctx)
	if err != nil {
		return Hotspot{}, err
	}
	for _, h := range hs {
		if h.ID == id {
			return h, nil
		}
	}
	return Hotspot{}, ErrNotFound
}
