package domain

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zone lookups must not depend on the host zoneinfo
)

// Field names an instantaneous detail by its wire key.
type Field string

const (
	FieldAirTemperature          Field = "air_temperature"
	FieldRelativeHumidity        Field = "relative_humidity"
	FieldCloudAreaFraction       Field = "cloud_area_fraction"
	FieldCloudAreaFractionMedium Field = "cloud_area_fraction_medium"
	FieldWindSpeed               Field = "wind_speed"
	FieldDewPointTemperature     Field = "dew_point_temperature"
	FieldAirPressureAtSeaLevel   Field = "air_pressure_at_sea_level"
)

// zonedLayouts cover ISO-8601 offsets RFC 3339 rejects: basic "+0000",
// hour-only "+02", a space separator, and minute precision.
var zonedLayouts = []string{
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999-07",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
}

// unzonedLayouts are accepted for timestamps without an offset; they are read as UTC.
var unzonedLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Reading is a validated, typed forecast entry.
type Reading struct {
	Time                    time.Time // UTC
	AirTemperature          float64
	RelativeHumidity        float64
	CloudAreaFraction       float64
	CloudAreaFractionMedium float64
	WindSpeed               float64
	DewPointTemperature     float64
	AirPressureAtSeaLevel   float64
}

// Get returns the value of field f, or ErrMissingField when the provider omitted it.
func (d InstantDetails) Get(f Field) (float64, error) {
	var v *float64
	switch f {
	case FieldAirTemperature:
		v = d.AirTemperature
	case FieldRelativeHumidity:
		v = d.RelativeHumidity
	case FieldCloudAreaFraction:
		v = d.CloudAreaFraction
	case FieldCloudAreaFractionMedium:
		v = d.CloudAreaFractionMedium
	case FieldWindSpeed:
		v = d.WindSpeed
	case FieldDewPointTemperature:
		v = d.DewPointTemperature
	case FieldAirPressureAtSeaLevel:
		v = d.AirPressureAtSeaLevel
	}
	if v == nil {
		return 0, fmt.Errorf("%w: %s", ErrMissingField, f)
	}
	return *v, nil
}

// NormalizeEntry parses the entry's timestamp and requires every tracked
// instantaneous field to be present.
func NormalizeEntry(e ForecastEntry) (Reading, error) {
	t, err := ParseTimestamp(e.Time)
	if err != nil {
		return Reading{}, err
	}

	r := Reading{Time: t}
	targets := []struct {
		field Field
		dst   *float64
	}{
		{FieldAirTemperature, &r.AirTemperature},
		{FieldRelativeHumidity, &r.RelativeHumidity},
		{FieldCloudAreaFraction, &r.CloudAreaFraction},
		{FieldCloudAreaFractionMedium, &r.CloudAreaFractionMedium},
		{FieldWindSpeed, &r.WindSpeed},
		{FieldDewPointTemperature, &r.DewPointTemperature},
		{FieldAirPressureAtSeaLevel, &r.AirPressureAtSeaLevel},
	}
	for _, tg := range targets {
		v, err := e.Data.Instant.Details.Get(tg.field)
		if err != nil {
			return Reading{}, fmt.Errorf("entry %s: %w", e.Time, err)
		}
		*tg.dst = v
	}
	return r, nil
}

// ParseTimestamp reads an ISO-8601 timestamp in extended or basic offset
// form. Values without an offset are taken to be UTC. The result is always in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	for _, layout := range unzonedLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
}

// LoadZone resolves an IANA zone name. The empty name and "Local" are
// rejected because they do not identify a place.
func LoadZone(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimezone, name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimezone, name)
	}
	return loc, nil
}
