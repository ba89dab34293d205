package domain

import (
	"fmt"
	"time"
)

// climaticStampLayout renders like "Tue 07, 03:04 PM".
const climaticStampLayout = "Mon 02, 03:04 PM"

// Analyze runs the pure transforms over one forecast payload. Entry 0 is the
// current hour and feeds the classifier; icons come from entry 1.
func Analyze(entries []ForecastEntry, zone string) (Insights, error) {
	forecast, err := ExtractForecast(entries, zone)
	if err != nil {
		return Insights{}, fmt.Errorf("forecast window: %w", err)
	}

	series, err := BuildTemperatureSeries(entries, zone)
	if err != nil {
		return Insights{}, fmt.Errorf("temperature series: %w", err)
	}

	icons, err := ResolveIcons(entries[1])
	if err != nil {
		return Insights{}, fmt.Errorf("weather icons: %w", err)
	}

	current, err := NormalizeEntry(entries[0])
	if err != nil {
		return Insights{}, fmt.Errorf("current conditions: %w", err)
	}

	conditions := ConditionsFromReading(current)
	insights := Insights{
		Series:   series,
		Forecast: forecast,
		Icons:    icons,
		Current:  current,
		Climatic: Unknown,
	}
	if rule, ok := MatchRule(conditions); ok {
		insights.Climatic = rule.Label
		insights.MatchedRule = rule.Band
	}
	return insights, nil
}

// Headline summarizes the current temperature for a place, e.g.
// "It's 21°C (70°F) in Oslo, Norway right now."
func Headline(tempC float64, loc Location) string {
	return fmt.Sprintf("It's %.0f°C (%.0f°F) in %s, %s right now.",
		tempC, CelsiusToFahrenheit(tempC), loc.City, loc.Country)
}

// ClimaticText appends the local time to a label: "Cloudy • Tue 07, 03:04 PM".
func ClimaticText(label ClimaticLabel, now time.Time, zone *time.Location) string {
	if zone != nil {
		now = now.In(zone)
	}
	return string(label) + " • " + now.Format(climaticStampLayout)
}
