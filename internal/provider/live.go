package provider

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/couchcryptid/hotspot-map-service/internal/domain"
)

// Live holds the hotspot snapshot maintained by the feed pipeline.
// It implements pipeline.BatchLoader and is safe for concurrent use.
type Live struct {
	mu     sync.RWMutex
	byID   map[int]domain.Hotspot
	order  []int
	loaded bool
	logger *slog.Logger
}

// NewLive creates a live provider seeded with initial (which may be empty).
// A non-empty seed can be served straight away, so it counts as loaded.
func NewLive(initial []domain.Hotspot, logger *slog.Logger) *Live {
	l := &Live{
		byID:   make(map[int]domain.Hotspot, len(initial)),
		loaded: len(initial) > 0,
		logger: logger,
	}
	for _, h := range initial {
		l.upsert(h)
	}
	return l
}

// Hotspots returns a copy of the snapshot in first-seen order.
func (l *Live) Hotspots(_ context.Context) ([]domain.Hotspot, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Hotspot, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.byID[id])
	}
	return out, nil
}

// LoadBatch applies updates in order: upserts replace by ID, removals delete.
func (l *Live) LoadBatch(_ context.Context, updates []domain.HotspotUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, u := range updates {
		if u.Removed {
			l.remove(u.Hotspot.ID)
			continue
		}
		l.upsert(u.Hotspot)
	}
	l.loaded = true
	l.logger.Debug("hotspot snapshot updated", "updates", len(updates), "hotspots", len(l.order))
	return nil
}

// CheckReadiness reports ready once there is a seed or the feed has delivered
// at least one batch.
func (l *Live) CheckReadiness(_ context.Context) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.loaded {
		return errors.New("hotspot feed has not delivered any updates yet")
	}
	return nil
}

func (l *Live) upsert(h domain.Hotspot) {
	if _, ok := l.byID[h.ID]; !ok {
		l.order = append(l.order, h.ID)
	}
	l.byID[h.ID] = h
}

func (l *Live) remove(id int) {
	if _, ok := l.byID[id]; !ok {
		return
	}
	delete(l.byID, id)
	l.order = slices.DeleteFunc(l.order, func(v int) bool { return v == id })
}
