//go:build smoke

package ipapi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-insight/internal/observability"
)

// These tests hit the real ip-api.com service.
// Run with: go test -tags=smoke ./internal/adapter/ipapi/ -v -count=1

func TestSmoke_Resolve(t *testing.T) {
	c := NewClient("http://ip-api.com/json", "weather-insight-smoke/1.0", 10*time.Second,
		observability.NewMetricsForTesting(), testLogger())

	loc, err := c.Resolve(context.Background(), "8.8.8.8")
	require.NoError(t, err)

	assert.NotEmpty(t, loc.Country)
	assert.NotEmpty(t, loc.Timezone)
	assert.NotZero(t, loc.Lat)
}

func TestSmoke_ResolvePrivateRangeFails(t *testing.T) {
	c := NewClient("http://ip-api.com/json", "weather-insight-smoke/1.0", 10*time.Second,
		observability.NewMetricsForTesting(), testLogger())

	_, err := c.Resolve(context.Background(), "10.0.0.1")
	assert.ErrorIs(t, err, ErrLookupFailed)
}
