package http

import (
	"encoding/json"

	"github.com/couchcryptid/weather-insight/internal/domain"
)

type errorBody struct {
	Error string `json:"error"`
}

// HeaderPayload is the headline part of a report.
type HeaderPayload struct {
	Climatic string `json:"climatic"`
	Header   string `json:"header"`
}

// UpdatePayload is the chart and forecast part of a report.
type UpdatePayload struct {
	Graph1   json.RawMessage                   `json:"graph1"`
	Graph2   json.RawMessage                   `json:"graph2"`
	Icons    map[string]string                 `json:"icons"`
	Forecast map[string]domain.HorizonSnapshot `json:"forecast"`
}

func headerPayload(r domain.WeatherReport) HeaderPayload {
	return HeaderPayload{Climatic: r.Climatic, Header: r.Headline}
}

func updatePayload(r domain.WeatherReport) UpdatePayload {
	return UpdatePayload{
		Graph1:   r.Graphs.ShortRange,
		Graph2:   r.Graphs.LongRange,
		Icons:    r.WeatherIcons,
		Forecast: r.Forecast,
	}
}
