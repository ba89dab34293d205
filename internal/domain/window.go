package domain

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"
)

// WindowSize is the number of leading entries kept for horizon snapshots:
// the current hour plus the following thirteen, enough to reach index 13.
const WindowSize = 14

// Horizons are the forward offsets, in hours, reported in a forecast summary.
var Horizons = []int{1, 6, 12}

// HorizonKey formats a horizon as its response key, e.g. "6h".
func HorizonKey(hours int) string {
	return strconv.Itoa(hours) + "h"
}

// WindowRow is one timestamped row of climatic details.
type WindowRow struct {
	Time        time.Time
	DewPoint    float64
	WindSpeed   float64 // m/s
	Humidity    float64
	CloudArea   float64 // medium-level cloud fraction
	Pressure    float64
	Temperature float64
}

// ForecastWindow is the table of details for the first WindowSize entries,
// ordered by zone-converted time.
type ForecastWindow struct {
	Rows []WindowRow
}

// HorizonSnapshot is the display form of one window row.
type HorizonSnapshot struct {
	Pressure    string `json:"Pressure"`
	Temperature string `json:"Temperature"`
	Cloud       string `json:"Cloud"`
	Humidity    string `json:"Humidity"`
	DewPoint    string `json:"Dew point"`
	Wind        string `json:"Wind"`
}

// BuildForecastWindow normalizes the first WindowSize entries into a table
// keyed by timestamps converted to zone.
func BuildForecastWindow(entries []ForecastEntry, zone string) (ForecastWindow, error) {
	if len(entries) < WindowSize {
		return ForecastWindow{}, fmt.Errorf("%w: have %d entries, need %d", ErrInsufficientData, len(entries), WindowSize)
	}
	loc, err := LoadZone(zone)
	if err != nil {
		return ForecastWindow{}, err
	}

	rows := make([]WindowRow, 0, WindowSize)
	for _, e := range entries[:WindowSize] {
		r, err := NormalizeEntry(e)
		if err != nil {
			return ForecastWindow{}, err
		}
		rows = append(rows, WindowRow{
			Time:        r.Time.In(loc),
			DewPoint:    r.DewPointTemperature,
			WindSpeed:   r.WindSpeed,
			Humidity:    r.RelativeHumidity,
			CloudArea:   r.CloudAreaFractionMedium,
			Pressure:    r.AirPressureAtSeaLevel,
			Temperature: r.AirTemperature,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Time.Before(rows[j].Time)
	})

	return ForecastWindow{Rows: rows}, nil
}

// Row returns the row a horizon reads. Index 0 is "now", so the snapshot for
// +h hours sits at index h+1.
func (w ForecastWindow) Row(hours int) (WindowRow, error) {
	i := hours + 1
	if i < 0 || i >= len(w.Rows) {
		return WindowRow{}, fmt.Errorf("%w: no row %d for horizon %s", ErrInsufficientData, i, HorizonKey(hours))
	}
	return w.Rows[i], nil
}

// Snapshots formats the row for each of Horizons.
func (w ForecastWindow) Snapshots() (map[string]HorizonSnapshot, error) {
	out := make(map[string]HorizonSnapshot, len(Horizons))
	for _, h := range Horizons {
		row, err := w.Row(h)
		if err != nil {
			return nil, err
		}
		out[HorizonKey(h)] = row.Snapshot()
	}
	return out, nil
}

// Snapshot renders the row with unit suffixes. Wind is converted from m/s to
// km/h and rounded to one decimal.
func (r WindowRow) Snapshot() HorizonSnapshot {
	return HorizonSnapshot{
		Pressure:    formatValue(r.Pressure) + "hPa",
		Temperature: formatValue(r.Temperature) + "°C",
		Cloud:       formatValue(r.CloudArea) + "%",
		Humidity:    formatValue(r.Humidity) + "%",
		DewPoint:    formatValue(r.DewPoint) + "°",
		Wind:        formatValue(MetersPerSecondToKmh(r.WindSpeed)) + "km/h",
	}
}

// ExtractForecast builds the window and returns its horizon snapshots.
func ExtractForecast(entries []ForecastEntry, zone string) (map[string]HorizonSnapshot, error) {
	w, err := BuildForecastWindow(entries, zone)
	if err != nil {
		return nil, err
	}
	return w.Snapshots()
}

// formatValue prints the shortest representation that round-trips, always
// keeping a decimal point: 85 -> "85.0", 1013.25 -> "1013.25".
func formatValue(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if v == math.Trunc(v) {
		s += ".0"
	}
	return s
}
