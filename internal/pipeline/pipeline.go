package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/weather-insight/internal/domain"
	"github.com/couchcryptid/weather-insight/internal/observability"
)

// Pipeline composes a weather report for an IP address: locate, fetch,
// analyze, render, and optionally publish.
type Pipeline struct {
	lookup      domain.IPLookup
	resolver    domain.LocationResolver
	fetcher     domain.ForecastFetcher
	transformer Transformer
	publisher   domain.ReportPublisher
	logger      *slog.Logger
	metrics     *observability.Metrics
	draining    atomic.Bool

	publishTimeout time.Duration
}

// DefaultPublishTimeout bounds how long a report waits on the sink.
const DefaultPublishTimeout = 2 * time.Second

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPublishTimeout overrides DefaultPublishTimeout. Non-positive values are ignored.
func WithPublishTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.publishTimeout = d
		}
	}
}

// New creates a Pipeline. publisher may be nil to skip publishing.
func New(
	lookup domain.IPLookup,
	resolver domain.LocationResolver,
	fetcher domain.ForecastFetcher,
	transformer Transformer,
	publisher domain.ReportPublisher,
	logger *slog.Logger,
	metrics *observability.Metrics,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		lookup:         lookup,
		resolver:       resolver,
		fetcher:        fetcher,
		transformer:    transformer,
		publisher:      publisher,
		logger:         logger,
		metrics:        metrics,
		publishTimeout: DefaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil while the pipeline accepts requests.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.draining.Load() {
		return errors.New("pipeline is shutting down")
	}
	return nil
}

// Drain marks the pipeline as shutting down so readiness probes fail.
func (p *Pipeline) Drain() {
	p.draining.Store(true)
}

// Process builds the report for ip. An empty ip means the service's own
// public address. Errors are *StageError values.
func (p *Pipeline) Process(ctx context.Context, ip string) (domain.WeatherReport, error) {
	report, err := p.process(ctx, ip)
	if err != nil {
		stage := StageOf(err)
		p.metrics.Reports.WithLabelValues("error").Inc()
		p.metrics.StageErrors.WithLabelValues(stage).Inc()
		p.logger.Warn("weather report failed", "ip", ip, "stage", stage, "error", err)
		return domain.WeatherReport{}, err
	}
	p.metrics.Reports.WithLabelValues("success").Inc()

	p.publish(ctx, report)
	return report, nil
}

func (p *Pipeline) process(ctx context.Context, ip string) (domain.WeatherReport, error) {
	if ip == "" {
		discovered, err := p.lookup.PublicIP(ctx)
		if err != nil {
			return domain.WeatherReport{}, &StageError{Stage: StageIPLookup, Err: err}
		}
		ip = discovered
	}

	loc, err := p.resolver.Resolve(ctx, ip)
	if err != nil {
		return domain.WeatherReport{}, &StageError{Stage: StageResolve, Err: err}
	}

	entries, err := p.fetcher.Fetch(ctx, loc.Lat, loc.Lon)
	if err != nil {
		return domain.WeatherReport{}, &StageError{Stage: StageFetch, Err: err}
	}

	report, err := p.transformer.Transform(entries, loc, ip)
	if err != nil {
		if StageOf(err) == "" {
			err = &StageError{Stage: StageTransform, Err: err}
		}
		return domain.WeatherReport{}, err
	}

	p.logger.Info("weather report composed",
		"id", report.ID,
		"ip", ip,
		"city", loc.City,
		"country", loc.Country,
		"climatic", report.Label,
		"entries", len(entries),
	)
	return report, nil
}

// publish forwards the report to the sink. Failures are logged and counted
// but never fail the request. The write is bounded by publishTimeout and
// survives the caller hanging up.
func (p *Pipeline) publish(ctx context.Context, report domain.WeatherReport) {
	if p.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.publishTimeout)
	defer cancel()

	if err := p.publisher.Publish(ctx, report); err != nil {
		p.metrics.ReportsPublished.WithLabelValues("error").Inc()
		p.logger.Error("publish report failed", "id", report.ID, "error", err)
		return
	}
	p.metrics.ReportsPublished.WithLabelValues("success").Inc()
}
