package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/hotspot-map-service/internal/domain"
	"github.com/robfig/cron/v3"
)

// StatsFetcher retrieves the current dashboard counters.
type StatsFetcher interface {
	FetchStats(ctx context.Context) (domain.DashboardStats, error)
}

// Service publishes the last known dashboard counters. It starts with the
// built-in defaults and only replaces them on a successful fetch.
type Service struct {
	fetcher StatsFetcher
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.RWMutex
	current domain.DashboardStats

	cron *cron.Cron
}

// NewService creates a Service. timeout bounds each refresh.
func NewService(fetcher StatsFetcher, timeout time.Duration, logger *slog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		timeout: timeout,
		logger:  logger,
		current: domain.DefaultStats(),
	}
}

// Current returns the last known counters.
func (s *Service) Current() domain.DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Refresh fetches once. On failure it logs a warning, keeps the previous
// value and returns the error.
func (s *Service) Refresh(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	stats, err := s.fetcher.FetchStats(ctx)
	if err != nil {
		s.logger.Warn("dashboard stats fetch failed, keeping last known value", "error", err)
		return err
	}

	s.mu.Lock()
	s.current = stats
	s.mu.Unlock()
	s.logger.Debug("dashboard stats refreshed",
		"total_hotspots", stats.TotalHotspots,
		"active_alerts", stats.ActiveAlerts,
		"critical_zones", stats.CriticalZones,
	)
	return nil
}

// Start performs an initial refresh and, if schedule is non-empty, schedules
// further refreshes with a standard cron spec (e.g. "@every 1m"). Overlapping
// runs are skipped. Refreshes are bound to ctx.
func (s *Service) Start(ctx context.Context, schedule string) error {
	_ = s.Refresh(ctx)
	if schedule == "" {
		return nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(schedule, func() { _ = s.Refresh(ctx) }); err != nil {
		return fmt.Errorf("schedule dashboard stats refresh: %w", err)
	}
	c.Start()
	s.cron = c
	s.logger.Info("dashboard stats refresh scheduled", "schedule", schedule)
	return nil
}

// Stop halts scheduled refreshes and waits for a running one to finish.
func (s *Service) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}
