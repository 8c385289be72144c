// Package dashboard fetches the headline dashboard counters from the upstream
// API and keeps the last known value fresh on a schedule.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/hotspot-map-service/internal/domain"
	"github.com/couchcryptid/hotspot-map-service/internal/observability"
)

const statsPath = "/dashboard/stats"

// Client reads dashboard counters from {apiBase}/dashboard/stats.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a stats client. apiBase must not end in a slash.
func NewClient(apiBase string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    apiBase,
		metrics:    metrics,
		logger:     logger,
	}
}

// FetchStats performs one GET and merges the body over the default counters.
// Transport errors, non-2xx statuses and undecodable bodies are returned as
// errors; callers decide whether to keep a previous value.
func (c *Client) FetchStats(ctx context.Context) (domain.DashboardStats, error) {
	stats, err := c.doRequest(ctx)
	if err != nil {
		c.metrics.StatsFetches.WithLabelValues("error").Inc()
		return domain.DashboardStats{}, err
	}
	c.metrics.StatsFetches.WithLabelValues("success").Inc()
	return stats, nil
}

func (c *Client) doRequest(ctx context.Context) (domain.DashboardStats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+statsPath, nil)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("dashboard stats request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.DashboardStats{}, fmt.Errorf("dashboard stats API returned %d: %s", resp.StatusCode, body)
	}

	var payload domain.StatsPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("decode dashboard stats: %w", err)
	}
	return domain.MergeStats(payload, domain.Now().UTC()), nil
}
