// Package plotly renders temperature series as plotly.js figure documents.
package plotly

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/couchcryptid/weather-insight/internal/domain"
)

const (
	// The short-range chart skips the current and next hour and shows the
	// following 24 points.
	shortRangeFrom = 2
	shortRangeTo   = 26

	temperatureTitle = "Temperature (°C)"
	maxColor         = "#ec3453"
	minColor         = "#0099cc"
	lineColor        = "#2C3E50"
)

// Renderer implements domain.ChartRenderer.
type Renderer struct{}

// NewRenderer creates a chart renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// Render builds the 24-hour line chart and the daily max/min bar chart.
func (r *Renderer) Render(series domain.TemperatureSeries) (domain.Graphs, error) {
	short, err := ShortRange(series)
	if err != nil {
		return domain.Graphs{}, err
	}
	long, err := LongRange(series)
	if err != nil {
		return domain.Graphs{}, err
	}

	shortJSON, err := json.Marshal(short)
	if err != nil {
		return domain.Graphs{}, fmt.Errorf("encode 24h chart: %w", err)
	}
	longJSON, err := json.Marshal(long)
	if err != nil {
		return domain.Graphs{}, fmt.Errorf("encode 10d chart: %w", err)
	}
	return domain.Graphs{ShortRange: shortJSON, LongRange: longJSON}, nil
}

// ShortRange is a spline of the next 24 hourly temperatures, labelled with the
// local hour and the rounded value.
func ShortRange(series domain.TemperatureSeries) (Figure, error) {
	points := series.Slice(shortRangeFrom, shortRangeTo)
	if len(points) == 0 {
		return Figure{}, fmt.Errorf("%w: no points for the 24h chart", domain.ErrInsufficientData)
	}

	x := make([]string, len(points))
	y := make([]float64, len(points))
	text := make([]string, len(points))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, p := range points {
		x[i] = p.Time.Format("3 PM")
		y[i] = p.Temperature
		text[i] = strconv.FormatFloat(math.RoundToEven(p.Temperature), 'f', 0, 64)
		lo = math.Min(lo, p.Temperature)
		hi = math.Max(hi, p.Temperature)
	}

	layout := baseLayout("<b> 24 Hour Forecast </b>", 280, "Time")
	layout.YAxis.Range = []float64{lo - 0.5, hi + 0.5}

	return Figure{
		Data: []Trace{{
			Type:          "scatter",
			Mode:          "lines+markers+text",
			X:             x,
			Y:             y,
			Text:          text,
			TextPosition:  "top center",
			HoverTemplate: "<b>Time</b>: %{x}<br><b>Temp</b>: %{y}°C<br>",
			Line:          &Line{Color: lineColor, Width: 2, Shape: "spline", Smoothing: 1},
			Marker:        &Marker{Size: 4},
		}},
		Layout: layout,
	}, nil
}

// DailyExtreme is the highest and lowest temperature on one local calendar day.
type DailyExtreme struct {
	Day      time.Time // local midnight
	Max, Min float64
}

// DailyExtremes groups the series by calendar day in its zone.
func DailyExtremes(series domain.TemperatureSeries) []DailyExtreme {
	var out []DailyExtreme
	for _, p := range series.Points {
		y, m, d := p.Time.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, p.Time.Location())
		if n := len(out); n > 0 && out[n-1].Day.Equal(day) {
			out[n-1].Max = math.Max(out[n-1].Max, p.Temperature)
			out[n-1].Min = math.Min(out[n-1].Min, p.Temperature)
			continue
		}
		out = append(out, DailyExtreme{Day: day, Max: p.Temperature, Min: p.Temperature})
	}
	return out
}

// LongRange is a grouped bar chart of daily maxima and minima.
func LongRange(series domain.TemperatureSeries) (Figure, error) {
	days := DailyExtremes(series)
	if len(days) == 0 {
		return Figure{}, fmt.Errorf("%w: no points for the 10d chart", domain.ErrInsufficientData)
	}

	x := make([]string, len(days))
	maxes := make([]float64, len(days))
	mins := make([]float64, len(days))
	for i, d := range days {
		x[i] = d.Day.Format("2006-01-02")
		maxes[i] = d.Max
		mins[i] = d.Min
	}

	layout := baseLayout("<b> 10 Day Forecast </b>", 250, "Day")
	layout.BarMode = "group"

	bar := func(name, color string, y []float64) Trace {
		return Trace{
			Type:          "bar",
			Name:          name,
			X:             x,
			Y:             y,
			HoverTemplate: "<b>%{y}°C</b>",
			Marker:        &Marker{Color: color},
			OffsetGroup:   name,
		}
	}
	return Figure{
		Data:   []Trace{bar("max", maxColor, maxes), bar("min", minColor, mins)},
		Layout: layout,
	}, nil
}

func baseLayout(title string, height int, xTitle string) Layout {
	return Layout{
		Title:        Title{Text: title},
		Height:       height,
		PaperBgColor: "#F9F9F9",
		PlotBgColor:  "#F9F9F9",
		Font:         Font{Color: "#000000", Family: "serif"},
		XAxis:        Axis{Title: Title{Text: "<b>" + xTitle + "</b>"}, FixedRange: true, ShowGrid: true, GridColor: "lightgray"},
		YAxis:        Axis{Title: Title{Text: temperatureTitle}, FixedRange: true, ShowGrid: true, GridColor: "lightgray"},
		Margin:       Margin{L: 30, T: 30, R: 10, B: 10},
		HoverMode:    "x unified",
		Legend:       Legend{Title: Title{Text: temperatureTitle}},
	}
}
