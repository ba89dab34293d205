package pipeline

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/couchcryptid/weather-insight/internal/domain"
)

// Transformer turns a fetched forecast into a finished report for a location.
type Transformer interface {
	Transform(entries []domain.ForecastEntry, loc domain.Location, ip string) (domain.WeatherReport, error)
}

// ForecastTransformer implements Transformer using the domain transforms and
// a chart renderer.
type ForecastTransformer struct {
	renderer domain.ChartRenderer
	logger   *slog.Logger
}

// NewTransformer creates a ForecastTransformer.
func NewTransformer(renderer domain.ChartRenderer, logger *slog.Logger) *ForecastTransformer {
	return &ForecastTransformer{renderer: renderer, logger: logger}
}

// Transform runs the analysis, writes the headline and climatic text, and
// renders the charts. Failures come back as *StageError.
func (t *ForecastTransformer) Transform(entries []domain.ForecastEntry, loc domain.Location, ip string) (domain.WeatherReport, error) {
	insights, err := domain.Analyze(entries, loc.Timezone)
	if err != nil {
		return domain.WeatherReport{}, &StageError{Stage: StageTransform, Err: err}
	}

	graphs, err := t.renderer.Render(insights.Series)
	if err != nil {
		return domain.WeatherReport{}, &StageError{Stage: StageRender, Err: err}
	}

	now := domain.Now()
	if insights.Climatic == domain.Unknown {
		t.logger.Debug("no climatic rule matched",
			"temperature", insights.Current.AirTemperature,
			"humidity", insights.Current.RelativeHumidity,
			"cloud", insights.Current.CloudAreaFraction,
			"wind", insights.Current.WindSpeed,
		)
	}

	return domain.WeatherReport{
		ID:           uuid.NewString(),
		Graphs:       graphs,
		Headline:     domain.Headline(insights.Current.AirTemperature, loc),
		Climatic:     domain.ClimaticText(insights.Climatic, now, insights.Series.Zone),
		Forecast:     insights.Forecast,
		IPAddress:    ip,
		WeatherIcons: insights.Icons,
		Label:        insights.Climatic,
		Location:     loc,
		GeneratedAt:  now.UTC(),
	}, nil
}
