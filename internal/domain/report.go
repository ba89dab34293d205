package domain

import (
	"encoding/json"
	"time"
)

// Location is the place an IP address resolves to.
type Location struct {
	City     string  `json:"city"`
	Country  string  `json:"country"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Timezone string  `json:"timezone"`
}

// Graphs holds the two rendered charts: the next 24 hours and the daily
// extremes over the whole forecast range.
type Graphs struct {
	ShortRange json.RawMessage `json:"24h"`
	LongRange  json.RawMessage `json:"10d"`
}

// Insights is everything derived from one forecast payload, before the
// location-dependent text is assembled.
type Insights struct {
	Series      TemperatureSeries
	Forecast    map[string]HorizonSnapshot
	Icons       map[string]string
	Current     Reading
	Climatic    ClimaticLabel
	MatchedRule Band
}

// WeatherReport is the composed response handed to transports.
type WeatherReport struct {
	ID           string                     `json:"id"`
	Graphs       Graphs                     `json:"graphs"`
	Headline     string                     `json:"headline"`
	Climatic     string                     `json:"climatic"`
	Forecast     map[string]HorizonSnapshot `json:"forecast"`
	IPAddress    string                     `json:"ip_address"`
	WeatherIcons map[string]string          `json:"weather_icons"`
	Label        ClimaticLabel              `json:"-"`
	Location     Location                   `json:"-"`
	GeneratedAt  time.Time                  `json:"generated_at"`
}
