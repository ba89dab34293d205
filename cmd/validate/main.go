// Command validate runs integrity checks over a saved locationforecast
// payload: timestamp ordering, the 14-row window, horizon indexing, icon
// presence, the climatic classifier, and chart rendering. When given a report
// fixture it also checks that the fixture matches what the service would
// compose from the payload today.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -forecast internal/pipeline/testdata/locationforecast_oslo.json \
//	  -zone Europe/Oslo \
//	  -report testdata/report_synthetic.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/couchcryptid/weather-insight/internal/adapter/plotly"
	"github.com/couchcryptid/weather-insight/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	forecastPath := flag.String("forecast", "", "path to a locationforecast 2.0 JSON payload")
	zone := flag.String("zone", "UTC", "IANA zone of the forecast location")
	reportPath := flag.String("report", "", "optional path to a composed report fixture")
	flag.Parse()

	if *forecastPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(os.Stdout, *forecastPath, *zone, *reportPath))
}

func run(out io.Writer, forecastPath, zone, reportPath string) int {
	fmt.Fprintln(out, "=== Forecast Integrity Validation ===")
	fmt.Fprintln(out)

	entries, err := loadForecast(forecastPath)
	if err != nil {
		fmt.Fprintf(out, "FATAL: load forecast: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateTimeseries(entries),
		validateWindow(entries, zone),
		validateIcons(entries),
		validateCharts(entries, zone),
	}
	label, current := classify(entries)

	if reportPath != "" {
		report, err := loadReport(reportPath)
		if err != nil {
			fmt.Fprintf(out, "FATAL: load report: %v\n", err)
			return 1
		}
		phases = append(phases, validateReport(entries, zone, report))
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Entries: %d, zone %s\n", len(entries), zone)
	if current != nil {
		fmt.Fprintf(out, "Current: %.1f°C, %.1f%% humidity, %.1f%% cloud, %.1f m/s -> %s\n",
			current.AirTemperature, current.RelativeHumidity, current.CloudAreaFraction, current.WindSpeed, label)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// ── Data loading ──

func loadForecast(path string) ([]domain.ForecastEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc domain.LocationForecast
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc.Properties.Timeseries, nil
}

func loadReport(path string) (domain.WeatherReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.WeatherReport{}, err
	}
	var report domain.WeatherReport
	if err := json.Unmarshal(data, &report); err != nil {
		return domain.WeatherReport{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return report, nil
}

// ── Phases ──

func validateTimeseries(entries []domain.ForecastEntry) *phase {
	p := &phase{name: "Timeseries ordering and completeness"}
	if len(entries) == 0 {
		p.errorf("timeseries is empty")
		return p
	}

	var prev time.Time
	for i, e := range entries {
		t, err := domain.ParseTimestamp(e.Time)
		if err != nil {
			p.errorf("entry %d: %v", i, err)
			continue
		}
		if !prev.IsZero() && !t.After(prev) {
			p.errorf("entry %d (%s) is not after entry %d", i, e.Time, i-1)
		}
		prev = t

		if _, err := e.Data.Instant.Details.Get(domain.FieldAirTemperature); err != nil {
			p.errorf("entry %d: %v", i, err)
		}
		if i < domain.WindowSize {
			if _, err := domain.NormalizeEntry(e); err != nil {
				p.errorf("window entry %d: %v", i, err)
			}
		}
	}
	return p
}

func validateWindow(entries []domain.ForecastEntry, zone string) *phase {
	p := &phase{name: "Forecast window and horizons"}

	w, err := domain.BuildForecastWindow(entries, zone)
	if err != nil {
		p.errorf("build window: %v", err)
		return p
	}
	snaps, err := w.Snapshots()
	if err != nil {
		p.errorf("snapshots: %v", err)
		return p
	}

	for _, h := range domain.Horizons {
		key := domain.HorizonKey(h)
		want := w.Rows[h+1].Snapshot()
		if diff := cmp.Diff(want, snaps[key]); diff != "" {
			p.errorf("horizon %s does not read row %d (-want +got):\n%s", key, h+1, diff)
		}
	}
	return p
}

func validateIcons(entries []domain.ForecastEntry) *phase {
	p := &phase{name: "Weather icons"}
	if len(entries) < 2 {
		p.errorf("need at least 2 entries, have %d", len(entries))
		return p
	}
	if _, err := domain.ResolveIcons(entries[1]); err != nil {
		p.errorf("%v", err)
	}
	return p
}

func validateCharts(entries []domain.ForecastEntry, zone string) *phase {
	p := &phase{name: "Chart rendering"}

	series, err := domain.BuildTemperatureSeries(entries, zone)
	if err != nil {
		p.errorf("temperature series: %v", err)
		return p
	}

	short, err := plotly.ShortRange(series)
	if err != nil {
		p.errorf("24h chart: %v", err)
	} else if n := len(short.Data[0].X); n > 24 {
		p.errorf("24h chart has %d points, want at most 24", n)
	}

	long, err := plotly.LongRange(series)
	if err != nil {
		p.errorf("10d chart: %v", err)
		return p
	}
	for i, d := range plotly.DailyExtremes(series) {
		if d.Min > d.Max {
			p.errorf("day %d (%s): min %.1f above max %.1f", i, d.Day.Format("2006-01-02"), d.Min, d.Max)
		}
	}
	if len(long.Data) != 2 {
		p.errorf("10d chart has %d traces, want 2", len(long.Data))
	}
	return p
}

// classify runs the classifier on the current hour. It never fails a run:
// Unknown is a valid outcome.
func classify(entries []domain.ForecastEntry) (domain.ClimaticLabel, *domain.Reading) {
	if len(entries) == 0 {
		return domain.Unknown, nil
	}
	r, err := domain.NormalizeEntry(entries[0])
	if err != nil {
		return domain.Unknown, nil
	}
	return domain.Classify(domain.ConditionsFromReading(r)), &r
}

func validateReport(entries []domain.ForecastEntry, zone string, report domain.WeatherReport) *phase {
	p := &phase{name: "Report fixture consistency"}

	insights, err := domain.Analyze(entries, zone)
	if err != nil {
		p.errorf("analyze: %v", err)
		return p
	}

	if diff := cmp.Diff(insights.Forecast, report.Forecast); diff != "" {
		p.errorf("forecast mismatch (-derived +fixture):\n%s", diff)
	}
	if diff := cmp.Diff(insights.Icons, report.WeatherIcons); diff != "" {
		p.errorf("icons mismatch (-derived +fixture):\n%s", diff)
	}

	want := string(insights.Climatic) + " • "
	if len(report.Climatic) < len(want) || report.Climatic[:len(want)] != want {
		p.errorf("climatic %q does not start with %q", report.Climatic, want)
	}
	if len(report.Graphs.ShortRange) == 0 || len(report.Graphs.LongRange) == 0 {
		p.errorf("report is missing a chart")
	}
	return p
}
