package metno

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-insight/internal/observability"
)

const (
	testUserAgent = "weather-insight-test/1.0 test@example.com"

	samplePayload = `{
  "type": "Feature",
  "geometry": {"type": "Point", "coordinates": [10.7522, 59.9139, 12]},
  "properties": {
    "meta": {"updated_at": "2024-06-01T11:32:00Z", "units": {"air_temperature": "celsius"}},
    "timeseries": [
      {
        "time": "2024-06-01T12:00:00Z",
        "data": {
          "instant": {"details": {
            "air_pressure_at_sea_level": 1012.4,
            "air_temperature": 17.3,
            "cloud_area_fraction": 42.2,
            "cloud_area_fraction_medium": 10.5,
            "dew_point_temperature": 8.1,
            "relative_humidity": 55.0,
            "wind_speed": 3.4
          }},
          "next_1_hours": {"summary": {"symbol_code": "partlycloudy_day"}, "details": {"precipitation_amount": 0.0}},
          "next_6_hours": {"summary": {"symbol_code": "fair_day"}},
          "next_12_hours": {"summary": {"symbol_code": "cloudy"}}
        }
      },
      {
        "time": "2024-06-01T13:00:00Z",
        "data": {"instant": {"details": {"air_temperature": 18.0}}}
      }
    ]
  }
}`
)

func testClient(baseURL string) *Client {
	return NewClient(baseURL, testUserAgent, 5*time.Second, 100, 10,
		observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_FetchForecast_Success(t *testing.T) {
	expires := time.Date(2024, time.June, 1, 12, 30, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "59.9139", r.URL.Query().Get("lat"))
		assert.Equal(t, "10.7522", r.URL.Query().Get("lon"))

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Expires", expires.Format(http.TimeFormat))
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	f, err := testClient(srv.URL).FetchForecast(context.Background(), 59.913868, 10.752245)
	require.NoError(t, err)

	require.Len(t, f.Entries, 2)
	assert.True(t, expires.Equal(f.Expires))

	first := f.Entries[0]
	assert.Equal(t, "2024-06-01T12:00:00Z", first.Time)
	require.NotNil(t, first.Data.Instant.Details.AirTemperature)
	assert.Equal(t, 17.3, *first.Data.Instant.Details.AirTemperature)
	assert.Equal(t, 10.5, *first.Data.Instant.Details.CloudAreaFractionMedium)
	require.NotNil(t, first.Data.Next6Hours)
	assert.Equal(t, "fair_day", first.Data.Next6Hours.Summary.SymbolCode)

	second := f.Entries[1]
	assert.Nil(t, second.Data.Instant.Details.WindSpeed, "absent fields stay nil")
	assert.Nil(t, second.Data.Next1Hours)
}

func TestClient_Fetch_NoExpiresHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	entries, err := c.Fetch(context.Background(), 59.9, 10.7)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	f, err := c.FetchForecast(context.Background(), 59.9, 10.7)
	require.NoError(t, err)
	assert.True(t, f.Expires.IsZero())
}

func TestClient_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"forbidden without user agent", http.StatusForbidden, "identify yourself", "status 403"},
		{"not modified", http.StatusNotModified, "", "status 304"},
		{"server error", http.StatusInternalServerError, "boom", "status 500"},
		{"bad json", http.StatusOK, "{not json", "decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := testClient(srv.URL).Fetch(context.Background(), 1, 2)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestClient_Fetch_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testUserAgent, 5*time.Second, 0.01, 1,
		observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := c.Fetch(context.Background(), 1, 2)
	require.NoError(t, err, "the burst allows one immediate request")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Fetch(ctx, 1, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait canceled")
}

func TestFormatCoord(t *testing.T) {
	assert.Equal(t, "59.9139", formatCoord(59.913868))
	assert.Equal(t, "-77.5000", formatCoord(-77.5))
}
