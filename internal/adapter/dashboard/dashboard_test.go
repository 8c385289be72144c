package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/hotspot-map-service/internal/domain"
	"github.com/couchcryptid/hotspot-map-service/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api", time.Second, observability.NewMetricsForTesting(), discardLogger())
}

func freezeClock(t *testing.T) time.Time {
	t.Helper()
	now := time.Date(2025, 7, 14, 10, 30, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { domain.SetClock(nil) })
	return now
}

// --- Client ---

func TestClient_FetchStats_FullPayload(t *testing.T) {
	now := freezeClock(t)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/dashboard/stats", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalHotspots":60,"activeAlerts":20,"criticalZones":9}`))
	})

	got, err := c.FetchStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DashboardStats{
		TotalHotspots: 60, ActiveAlerts: 20, CriticalZones: 9,
		Source: "upstream", FetchedAt: now,
	}, got)
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.StatsFetches.WithLabelValues("success")), 0)
}

func TestClient_FetchStats_MissingAndZeroFieldsFallBack(t *testing.T) {
	freezeClock(t)
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"totalHotspots":0,"activeAlerts":3}`))
	})

	got, err := c.FetchStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTotalHotspots, got.TotalHotspots)
	assert.Equal(t, 3, got.ActiveAlerts)
	assert.Equal(t, domain.DefaultCriticalZones, got.CriticalZones)
}

func TestClient_FetchStats_EmptyObject(t *testing.T) {
	freezeClock(t)
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	got, err := c.FetchStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 47, got.TotalHotspots)
	assert.Equal(t, 12, got.ActiveAlerts)
	assert.Equal(t, 5, got.CriticalZones)
}

func TestClient_FetchStats_Non2xx(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("maintenance"))
	})

	_, err := c.FetchStats(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.StatsFetches.WithLabelValues("error")), 0)
}

func TestClient_FetchStats_InvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := c.FetchStats(context.Background())
	require.Error(t, err)
}

func TestClient_FetchStats_Unreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1/api", 200*time.Millisecond, observability.NewMetricsForTesting(), discardLogger())
	_, err := c.FetchStats(context.Background())
	require.Error(t, err)
}

// --- Service ---

type stubFetcher struct {
	mu    sync.Mutex
	stats domain.DashboardStats
	err   error
	calls int
}

func (s *stubFetcher) FetchStats(context.Context) (domain.DashboardStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.stats, s.err
}

func (s *stubFetcher) set(stats domain.DashboardStats, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats, s.err = stats, err
}

func (s *stubFetcher) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestService_StartsWithDefaults(t *testing.T) {
	svc := NewService(&stubFetcher{}, time.Second, discardLogger())
	assert.Equal(t, domain.DefaultStats(), svc.Current())
}

func TestService_RefreshKeepsLastKnownOnFailure(t *testing.T) {
	f := &stubFetcher{}
	svc := NewService(f, time.Second, discardLogger())

	f.set(domain.DashboardStats{}, errors.New("connection refused"))
	require.Error(t, svc.Refresh(context.Background()))
	assert.Equal(t, domain.DefaultStats(), svc.Current(), "defaults survive a failed first fetch")

	fresh := domain.DashboardStats{TotalHotspots: 51, ActiveAlerts: 14, CriticalZones: 6, Source: "upstream"}
	f.set(fresh, nil)
	require.NoError(t, svc.Refresh(context.Background()))
	assert.Equal(t, fresh, svc.Current())

	f.set(domain.DashboardStats{}, errors.New("timeout"))
	require.Error(t, svc.Refresh(context.Background()))
	assert.Equal(t, fresh, svc.Current(), "a later failure keeps the last fetched value")
}

func TestService_StartWithoutScheduleFetchesOnce(t *testing.T) {
	f := &stubFetcher{stats: domain.DashboardStats{TotalHotspots: 1, Source: "upstream"}}
	svc := NewService(f, time.Second, discardLogger())

	require.NoError(t, svc.Start(context.Background(), ""))
	defer svc.Stop()

	assert.Equal(t, 1, f.Calls())
	assert.Equal(t, 1, svc.Current().TotalHotspots)
}

func TestService_StartSchedulesRefresh(t *testing.T) {
	f := &stubFetcher{}
	svc := NewService(f, time.Second, discardLogger())

	require.NoError(t, svc.Start(context.Background(), "@every 1s"))
	defer svc.Stop()

	assert.Eventually(t, func() bool { return f.Calls() >= 2 }, 3*time.Second, 50*time.Millisecond)
}

func TestService_StartRejectsBadSchedule(t *testing.T) {
	svc := NewService(&stubFetcher{}, time.Second, discardLogger())
	require.Error(t, svc.Start(context.Background(), "every minute please"))
	svc.Stop()
}
