package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/hotspot-map-service/internal/domain"
	"github.com/couchcryptid/hotspot-map-service/internal/observability"
)

const (
	defaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"
	placeTypes     = "poi,address,neighborhood,locality,place"
)

// APIError is returned when Mapbox answers with a non-200 status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mapbox API error: status %d: %s", e.StatusCode, e.Body)
}

// Client implements domain.Geocoder using the Mapbox Geocoding API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	proximity  *domain.Coordinates
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Mapbox geocoding client.
func NewClient(token string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		metrics:    metrics,
		logger:     logger,
	}
}

// WithProximity biases results toward c, normally the map's calibration
// point, so bridge and crossing names resolve inside the mapped city.
func (c *Client) WithProximity(p domain.Coordinates) *Client {
	c.proximity = &p
	return c
}

// ForwardGeocode converts a hotspot location within an area (ward or zone)
// to coordinates. An empty FormattedAddress means Mapbox found nothing.
func (c *Client) ForwardGeocode(ctx context.Context, name, area string) (domain.GeocodingResult, error) {
	query := name
	if area != "" {
		query = name + ", " + area
	}

	start := time.Now()
	result, err := c.lookup(ctx, c.forwardURL(query))
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())

	outcome := "success"
	switch {
	case err != nil:
		outcome = "error"
	case result.FormattedAddress == "":
		outcome = "empty"
		c.logger.Debug("mapbox returned no features", "query", query)
	}
	c.metrics.GeocodeRequests.WithLabelValues(outcome).Inc()
	return result, err
}

func (c *Client) forwardURL(query string) string {
	params := url.Values{}
	params.Set("access_token", c.token)
	params.Set("limit", "1")
	params.Set("types", placeTypes)
	if c.proximity != nil {
		params.Set("proximity", strconv.FormatFloat(c.proximity.Lng, 'f', -1, 64)+","+
			strconv.FormatFloat(c.proximity.Lat, 'f', -1, 64))
	}
	return c.baseURL + "/" + url.PathEscape(query) + ".json?" + params.Encode()
}

func (c *Client) lookup(ctx context.Context, fullURL string) (domain.GeocodingResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("forward geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.GeocodingResult{}, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("decode response: %w", err)
	}
	if len(payload.Features) == 0 {
		return domain.GeocodingResult{}, nil
	}
	return payload.Features[0].result(), nil
}

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Center    []float64 `json:"center"` // [lng, lat]
	PlaceName string    `json:"place_name"`
	Text      string    `json:"text"`
	Relevance float64   `json:"relevance"`
}

func (f feature) result() domain.GeocodingResult {
	r := domain.GeocodingResult{
		FormattedAddress: f.PlaceName,
		PlaceName:        f.Text,
		Confidence:       f.Relevance,
	}
	if len(f.Center) == 2 {
		r.Lng, r.Lat = f.Center[0], f.Center[1]
	}
	return r
}
