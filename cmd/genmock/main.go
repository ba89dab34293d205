// Command genmock writes a synthetic locationforecast 2.0 payload, and
// optionally the weather report the service would compose from it. The report
// is produced by the real pipeline transformer under a fixed clock so fixtures
// stay reproducible.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out internal/pipeline/testdata/locationforecast_synthetic.json \
//	  -report-out testdata/report_synthetic.json \
//	  -start 2024-06-01T12:00:00Z -zone Europe/Oslo
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/weather-insight/internal/adapter/plotly"
	"github.com/couchcryptid/weather-insight/internal/domain"
	"github.com/couchcryptid/weather-insight/internal/pipeline"
)

// options are the parsed command-line flags.
type options struct {
	out       string
	reportOut string
	start     time.Time
	hours     int
	hourly    int
	seed      uint64
	loc       domain.Location
}

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	doc := generate(opts)
	if err := writeJSON(opts.out, doc); err != nil {
		return fmt.Errorf("writing forecast payload: %w", err)
	}
	fmt.Fprintf(stderr, "wrote %d entries: %s\n", len(doc.Properties.Timeseries), opts.out)

	if opts.reportOut == "" {
		return nil
	}

	report, err := composeReport(doc.Properties.Timeseries, opts)
	if err != nil {
		return fmt.Errorf("composing report: %w", err)
	}
	if err := writeJSON(opts.reportOut, report); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	fmt.Fprintf(stderr, "wrote report (%s): %s\n", report.Label, opts.reportOut)
	return nil
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("genmock", flag.ContinueOnError)
	fs.SetOutput(stderr)

	out := fs.String("out", "", "output path for the locationforecast payload")
	reportOut := fs.String("report-out", "", "optional output path for the composed report")
	start := fs.String("start", "2024-06-01T12:00:00Z", "timestamp of the first entry (RFC3339)")
	hours := fs.Int("hours", 60, "number of timeseries entries")
	hourly := fs.Int("hourly", 48, "entries at hourly spacing before switching to 6-hourly")
	seed := fs.Uint64("seed", 1, "seed for value jitter")
	zone := fs.String("zone", "Europe/Oslo", "IANA zone of the location")
	city := fs.String("city", "Oslo", "location city")
	country := fs.String("country", "Norway", "location country")
	lat := fs.Float64("lat", 59.9139, "location latitude")
	lon := fs.Float64("lon", 10.7522, "location longitude")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if *out == "" {
		fs.Usage()
		return options{}, errors.New("missing required flag: -out")
	}
	if *hours < domain.WindowSize {
		return options{}, fmt.Errorf("-hours must be at least %d", domain.WindowSize)
	}

	t0, err := domain.ParseTimestamp(*start)
	if err != nil {
		return options{}, fmt.Errorf("-start: %w", err)
	}
	if _, err := domain.LoadZone(*zone); err != nil {
		return options{}, fmt.Errorf("-zone: %w", err)
	}

	return options{
		out:       *out,
		reportOut: *reportOut,
		start:     t0.Truncate(time.Hour),
		hours:     *hours,
		hourly:    *hourly,
		seed:      *seed,
		loc: domain.Location{
			City: *city, Country: *country,
			Lat: *lat, Lon: *lon,
			Timezone: *zone,
		},
	}, nil
}

// composeReport runs the pipeline transformer over the generated entries with
// the clock frozen at the first entry.
func composeReport(entries []domain.ForecastEntry, opts options) (domain.WeatherReport, error) {
	domain.SetClock(clockwork.NewFakeClockAt(opts.start.Add(5 * time.Minute)))
	defer domain.SetClock(nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	transformer := pipeline.NewTransformer(plotly.NewRenderer(), logger)

	report, err := transformer.Transform(entries, opts.loc, "198.51.100.4")
	if err != nil {
		return domain.WeatherReport{}, err
	}
	// Report IDs are random; pin one so regenerated fixtures diff cleanly.
	report.ID = fmt.Sprintf("genmock-%d", opts.seed)
	return report, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", " ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
