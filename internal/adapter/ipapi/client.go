package ipapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/couchcryptid/weather-insight/internal/domain"
	"github.com/couchcryptid/weather-insight/internal/observability"
)

const upstream = "ipapi"

// ErrLookupFailed is returned when ip-api answers with status "fail".
var ErrLookupFailed = errors.New("ip lookup failed")

// Client implements domain.LocationResolver using the ip-api.com JSON API.
type Client struct {
	http    *resty.Client
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewClient creates an ip-api client rooted at baseURL, e.g. "http://ip-api.com/json".
func NewClient(baseURL, userAgent string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("User-Agent", userAgent).
			SetHeader("Accept", "application/json").
			SetTimeout(timeout),
		metrics: metrics,
		logger:  logger,
	}
}

// Resolve looks up the location of ip. An empty ip resolves the caller's own address.
func (c *Client) Resolve(ctx context.Context, ip string) (domain.Location, error) {
	start := time.Now()
	loc, err := c.resolve(ctx, ip)
	c.metrics.UpstreamDuration.WithLabelValues(upstream).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(upstream, "error").Inc()
		c.logger.Warn("ip-api lookup failed", "ip", ip, "error", err)
		return domain.Location{}, err
	}
	c.metrics.UpstreamRequests.WithLabelValues(upstream, "success").Inc()
	return loc, nil
}

func (c *Client) resolve(ctx context.Context, ip string) (domain.Location, error) {
	var body response
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("ip", ip).
		SetQueryParam("fields", "status,message,country,city,lat,lon,timezone,query").
		SetResult(&body).
		Get("/{ip}")
	if err != nil {
		return domain.Location{}, fmt.Errorf("ip-api request: %w", err)
	}
	if !resp.IsSuccess() {
		return domain.Location{}, fmt.Errorf("ip-api error: status %d: %s", resp.StatusCode(), resp.String())
	}
	if body.Status != "success" {
		msg := body.Message
		if msg == "" {
			msg = "status " + body.Status
		}
		return domain.Location{}, fmt.Errorf("%w: %s: %s", ErrLookupFailed, ip, msg)
	}
	if body.Timezone == "" {
		return domain.Location{}, fmt.Errorf("%w: %s: response has no timezone", ErrLookupFailed, ip)
	}

	return domain.Location{
		City:     body.City,
		Country:  body.Country,
		Lat:      body.Lat,
		Lon:      body.Lon,
		Timezone: body.Timezone,
	}, nil
}

// ip-api response body.

type response struct {
	Status   string  `json:"status"`
	Message  string  `json:"message"`
	Country  string  `json:"country"`
	City     string  `json:"city"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Timezone string  `json:"timezone"`
	Query    string  `json:"query"`
}
