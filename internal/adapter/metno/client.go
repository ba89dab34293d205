// Package metno fetches point forecasts from the MET Norway
// locationforecast 2.0 API. MET Norway's terms require an identifying
// User-Agent, at most four decimals of coordinate precision, and respect
// for the Expires header; the client and cache here honor all three.
package metno

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

	"golang.org/x/time/rate"

	"github.com/couchcryptid/weather-insight/internal/domain"
	"github.com/couchcryptid/weather-insight/internal/observability"
)

const upstream = "metno"

// Forecast is a fetched timeseries together with the upstream's freshness hint.
type Forecast struct {
	Entries []domain.ForecastEntry
	// Expires is when the upstream expects new data; zero if it sent no header.
	Expires time.Time
}

// Client implements domain.ForecastFetcher against a locationforecast endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a client for baseURL (the ".../locationforecast/2.0/complete"
// endpoint) allowing rps requests per second with the given burst.
func NewClient(baseURL, userAgent string, timeout time.Duration, rps float64, burst int, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		userAgent:  userAgent,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		metrics:    metrics,
		logger:     logger,
	}
}

// Fetch returns the raw timeseries for a coordinate.
func (c *Client) Fetch(ctx context.Context, lat, lon float64) ([]domain.ForecastEntry, error) {
	f, err := c.FetchForecast(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	return f.Entries, nil
}

// FetchForecast returns the timeseries and the upstream Expires time.
func (c *Client) FetchForecast(ctx context.Context, lat, lon float64) (Forecast, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Forecast{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	start := time.Now()
	f, err := c.doRequest(ctx, lat, lon)
	c.metrics.UpstreamDuration.WithLabelValues(upstream).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(upstream, "error").Inc()
		c.logger.Warn("met.no request failed", "lat", lat, "lon", lon, "error", err)
		return Forecast{}, err
	}
	c.metrics.UpstreamRequests.WithLabelValues(upstream, "success").Inc()
	c.logger.Debug("fetched forecast", "lat", lat, "lon", lon, "entries", len(f.Entries), "expires", f.Expires)
	return f, nil
}

func (c *Client) doRequest(ctx context.Context, lat, lon float64) (Forecast, error) {
	params := url.Values{
		"lat": {formatCoord(lat)},
		"lon": {formatCoord(lon)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Forecast{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Forecast{}, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Forecast{}, fmt.Errorf("met.no API error: status %d: %s", resp.StatusCode, body)
	}

	var payload domain.LocationForecast
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Forecast{}, fmt.Errorf("decode response: %w", err)
	}

	f := Forecast{Entries: payload.Properties.Timeseries}
	if v := resp.Header.Get("Expires"); v != "" {
		if t, err := http.ParseTime(v); err == nil {
			f.Expires = t
		}
	}
	return f, nil
}

// formatCoord rounds to the four decimals the API accepts.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
