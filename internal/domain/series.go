package domain

import (
	"fmt"
	"sort"
	"time"
)

// SeriesPoint is one air temperature value (°C) at a zone-converted instant.
type SeriesPoint struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
}

// TemperatureSeries is the air temperature forecast converted to a target zone.
// Points are ordered by time.
type TemperatureSeries struct {
	Zone   *time.Location `json:"-"`
	Points []SeriesPoint  `json:"points"`
}

// Len returns the number of points.
func (s TemperatureSeries) Len() int { return len(s.Points) }

// Slice returns points [from, to) clamped to the series bounds.
func (s TemperatureSeries) Slice(from, to int) []SeriesPoint {
	if from < 0 {
		from = 0
	}
	if to > len(s.Points) {
		to = len(s.Points)
	}
	if from >= to {
		return nil
	}
	return s.Points[from:to]
}

// BuildTemperatureSeries projects every entry's air temperature onto its
// timestamp, converted into zone. The wall clock shifts with the conversion;
// the instant does not.
func BuildTemperatureSeries(entries []ForecastEntry, zone string) (TemperatureSeries, error) {
	loc, err := LoadZone(zone)
	if err != nil {
		return TemperatureSeries{}, err
	}

	points := make([]SeriesPoint, 0, len(entries))
	for _, e := range entries {
		t, err := ParseTimestamp(e.Time)
		if err != nil {
			return TemperatureSeries{}, err
		}
		temp, err := e.Data.Instant.Details.Get(FieldAirTemperature)
		if err != nil {
			return TemperatureSeries{}, fmt.Errorf("entry %s: %w", e.Time, err)
		}
		points = append(points, SeriesPoint{Time: t.In(loc), Temperature: temp})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Time.Before(points[j].Time)
	})

	return TemperatureSeries{Zone: loc, Points: points}, nil
}
