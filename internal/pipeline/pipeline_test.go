package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-insight/internal/domain"
	"github.com/couchcryptid/weather-insight/internal/observability"
	"github.com/couchcryptid/weather-insight/internal/pipeline"
)

// --- mocks ---

type mockLookup struct {
	ip    string
	err   error
	calls int
}

func (m *mockLookup) PublicIP(_ context.Context) (string, error) {
	m.calls++
	return m.ip, m.err
}

type mockResolver struct {
	loc    domain.Location
	err    error
	gotIPs []string
}

func (m *mockResolver) Resolve(_ context.Context, ip string) (domain.Location, error) {
	m.gotIPs = append(m.gotIPs, ip)
	return m.loc, m.err
}

type mockFetcher struct {
	entries []domain.ForecastEntry
	err     error
	gotLat  float64
	gotLon  float64
}

func (m *mockFetcher) Fetch(_ context.Context, lat, lon float64) ([]domain.ForecastEntry, error) {
	m.gotLat, m.gotLon = lat, lon
	return m.entries, m.err
}

type stubRenderer struct {
	err    error
	points int
}

func (s *stubRenderer) Render(series domain.TemperatureSeries) (domain.Graphs, error) {
	s.points = series.Len()
	if s.err != nil {
		return domain.Graphs{}, s.err
	}
	return domain.Graphs{
		ShortRange: json.RawMessage(`{"data":[]}`),
		LongRange:  json.RawMessage(`{"data":[]}`),
	}, nil
}

type mockPublisher struct {
	published []domain.WeatherReport
	err       error
	onPublish func()
	ctxErr    error
}

func (m *mockPublisher) Publish(ctx context.Context, r domain.WeatherReport) error {
	if m.onPublish != nil {
		m.onPublish()
	}
	m.ctxErr = ctx.Err()
	m.published = append(m.published, r)
	return m.err
}

// blockingPublisher waits for its context, like a stalled broker.
type blockingPublisher struct {
	err error
}

func (b *blockingPublisher) Publish(ctx context.Context, _ domain.WeatherReport) error {
	<-ctx.Done()
	b.err = ctx.Err()
	return b.err
}

var oslo = domain.Location{City: "Oslo", Country: "Norway", Lat: 59.9139, Lon: 10.7522, Timezone: "Europe/Oslo"}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadFixture(t *testing.T) []domain.ForecastEntry {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "locationforecast_oslo.json"))
	require.NoError(t, err)

	var doc domain.LocationForecast
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc.Properties.Timeseries
}

func freezeClock(t *testing.T) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.June, 1, 12, 5, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })
}

type harness struct {
	lookup    *mockLookup
	resolver  *mockResolver
	fetcher   *mockFetcher
	renderer  *stubRenderer
	publisher *mockPublisher
	metrics   *observability.Metrics
	pipeline  *pipeline.Pipeline
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		lookup:    &mockLookup{ip: "198.51.100.4"},
		resolver:  &mockResolver{loc: oslo},
		fetcher:   &mockFetcher{entries: loadFixture(t)},
		renderer:  &stubRenderer{},
		publisher: &mockPublisher{},
		metrics:   observability.NewMetricsForTesting(),
	}
	h.pipeline = pipeline.New(h.lookup, h.resolver, h.fetcher,
		pipeline.NewTransformer(h.renderer, discardLogger()), h.publisher, discardLogger(), h.metrics)
	return h
}

// --- tests ---

func TestPipeline_Process_HappyPath(t *testing.T) {
	freezeClock(t)
	h := newHarness(t)

	report, err := h.pipeline.Process(context.Background(), "203.0.113.7")
	require.NoError(t, err)

	assert.Equal(t, 0, h.lookup.calls, "explicit ip skips discovery")
	assert.Equal(t, []string{"203.0.113.7"}, h.resolver.gotIPs)
	assert.Equal(t, oslo.Lat, h.fetcher.gotLat)
	assert.Equal(t, oslo.Lon, h.fetcher.gotLon)
	assert.Equal(t, 60, h.renderer.points)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "203.0.113.7", report.IPAddress)
	assert.Equal(t, "It's 11°C (51°F) in Oslo, Norway right now.", report.Headline)
	assert.Equal(t, "Cloudy • Sat 01, 02:05 PM", report.Climatic)
	assert.Equal(t, domain.Cloudy, report.Label)
	assert.Equal(t, oslo, report.Location)
	assert.Equal(t, time.Date(2024, time.June, 1, 12, 5, 0, 0, time.UTC), report.GeneratedAt)

	require.Len(t, h.publisher.published, 1)
	assert.Equal(t, report.ID, h.publisher.published[0].ID)
}

func TestPipeline_Process_DiscoversPublicIP(t *testing.T) {
	h := newHarness(t)

	report, err := h.pipeline.Process(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 1, h.lookup.calls)
	assert.Equal(t, []string{"198.51.100.4"}, h.resolver.gotIPs)
	assert.Equal(t, "198.51.100.4", report.IPAddress)
}

func TestPipeline_Process_StageErrors(t *testing.T) {
	upstream := errors.New("connection refused")

	tests := []struct {
		name      string
		ip        string
		setup     func(h *harness)
		wantStage string
		wantMsg   string
		dataError bool
	}{
		{"ip lookup", "", func(h *harness) { h.lookup.err = upstream }, pipeline.StageIPLookup, "discover public ip", false},
		{"resolve", "1.2.3.4", func(h *harness) { h.resolver.err = upstream }, pipeline.StageResolve, "resolve location", false},
		{"fetch", "1.2.3.4", func(h *harness) { h.fetcher.err = upstream }, pipeline.StageFetch, "fetch forecast", false},
		{"short forecast", "1.2.3.4", func(h *harness) { h.fetcher.entries = h.fetcher.entries[:5] }, pipeline.StageTransform, "analyze forecast", true},
		{"bad timezone", "1.2.3.4", func(h *harness) { h.resolver.loc.Timezone = "" }, pipeline.StageTransform, "analyze forecast", true},
		{"render", "1.2.3.4", func(h *harness) { h.renderer.err = upstream }, pipeline.StageRender, "render charts", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tt.setup(h)

			_, err := h.pipeline.Process(context.Background(), tt.ip)
			require.Error(t, err)
			assert.Equal(t, tt.wantStage, pipeline.StageOf(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Equal(t, tt.dataError, domain.IsDataError(err))
			assert.Empty(t, h.publisher.published, "failed reports are not published")
		})
	}
}

func TestPipeline_Process_PublishFailureIsNotFatal(t *testing.T) {
	h := newHarness(t)
	h.publisher.err = errors.New("broker unavailable")

	report, err := h.pipeline.Process(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	assert.NotEmpty(t, report.ID)
	assert.Len(t, h.publisher.published, 1)
}

func TestPipeline_Process_StalledPublisherIsBounded(t *testing.T) {
	h := newHarness(t)
	stalled := &blockingPublisher{}
	p := pipeline.New(h.lookup, h.resolver, h.fetcher,
		pipeline.NewTransformer(h.renderer, discardLogger()), stalled, discardLogger(), h.metrics,
		pipeline.WithPublishTimeout(20*time.Millisecond))

	start := time.Now()
	report, err := p.Process(context.Background(), "203.0.113.7")

	require.NoError(t, err)
	assert.NotEmpty(t, report.ID)
	assert.Less(t, time.Since(start), time.Second)
	assert.ErrorIs(t, stalled.err, context.DeadlineExceeded)
}

func TestPipeline_Process_PublishOutlivesCanceledRequest(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	h.publisher.onPublish = cancel

	_, err := h.pipeline.Process(ctx, "203.0.113.7")
	require.NoError(t, err)
	require.Len(t, h.publisher.published, 1)
	assert.NoError(t, h.publisher.ctxErr, "publish context must not follow the request")
}

func TestPipeline_Process_NilPublisher(t *testing.T) {
	h := newHarness(t)
	p := pipeline.New(h.lookup, h.resolver, h.fetcher,
		pipeline.NewTransformer(h.renderer, discardLogger()), nil, discardLogger(), h.metrics)

	_, err := p.Process(context.Background(), "1.2.3.4")
	require.NoError(t, err)
}

func TestPipeline_Process_UniqueIDs(t *testing.T) {
	h := newHarness(t)

	a, err := h.pipeline.Process(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	b, err := h.pipeline.Process(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestPipeline_CheckReadiness(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.pipeline.CheckReadiness(context.Background()))

	h.pipeline.Drain()
	err := h.pipeline.CheckReadiness(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shutting down")
}

func TestStageError_Unwrap(t *testing.T) {
	err := &pipeline.StageError{Stage: pipeline.StageFetch, Err: domain.ErrInsufficientData}
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
	assert.True(t, domain.IsDataError(err))
	assert.Equal(t, "", pipeline.StageOf(errors.New("plain")))
}
