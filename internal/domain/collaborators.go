package domain

import "context"

// LocationResolver turns an IP address or host name into a place.
type LocationResolver interface {
	Resolve(ctx context.Context, ip string) (Location, error)
}

// IPLookup discovers the service's own public address.
type IPLookup interface {
	PublicIP(ctx context.Context) (string, error)
}

// ForecastFetcher returns the ordered raw timeseries for a coordinate.
type ForecastFetcher interface {
	Fetch(ctx context.Context, lat, lon float64) ([]ForecastEntry, error)
}

// ChartRenderer turns a temperature series into display artifacts. The
// artifacts are opaque to the rest of the service.
type ChartRenderer interface {
	Render(series TemperatureSeries) (Graphs, error)
}

// ReportPublisher forwards finished reports to downstream consumers.
type ReportPublisher interface {
	Publish(ctx context.Context, report WeatherReport) error
}
