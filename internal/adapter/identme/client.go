// Package identme discovers the service's public IP address via ident.me.
package identme

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/couchcryptid/weather-insight/internal/observability"
)

const upstream = "identme"

// Client implements domain.IPLookup.
type Client struct {
	http    *resty.Client
	url     string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewClient creates a client that reads a plain-text address from url.
func NewClient(url, userAgent string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		http: resty.New().
			SetHeader("User-Agent", userAgent).
			SetTimeout(timeout),
		url:     url,
		metrics: metrics,
		logger:  logger,
	}
}

// PublicIP returns the address the upstream sees requests coming from.
func (c *Client) PublicIP(ctx context.Context) (string, error) {
	start := time.Now()
	ip, err := c.publicIP(ctx)
	c.metrics.UpstreamDuration.WithLabelValues(upstream).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(upstream, "error").Inc()
		return "", err
	}
	c.metrics.UpstreamRequests.WithLabelValues(upstream, "success").Inc()
	c.logger.Debug("discovered public ip", "ip", ip)
	return ip, nil
}

func (c *Client) publicIP(ctx context.Context) (string, error) {
	resp, err := c.http.R().SetContext(ctx).Get(c.url)
	if err != nil {
		return "", fmt.Errorf("ident.me request: %w", err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("ident.me error: status %d: %s", resp.StatusCode(), resp.String())
	}

	ip := strings.TrimSpace(resp.String())
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("ident.me returned %q, not an IP address", ip)
	}
	return ip, nil
}
