package domain

import (
	"time"
)

var fixtureStart = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func ptr(v float64) *float64 { return &v }

// fixtureEntry builds the i-th hourly entry. Values grow with i so every row
// of a window is distinguishable.
func fixtureEntry(i int) ForecastEntry {
	fi := float64(i)
	return ForecastEntry{
		Time: fixtureStart.Add(time.Duration(i) * time.Hour).Format(time.RFC3339),
		Data: EntryData{
			Instant: Instant{Details: InstantDetails{
				AirTemperature:          ptr(10 + fi),
				RelativeHumidity:        ptr(50 + fi),
				CloudAreaFraction:       ptr(20 + fi),
				CloudAreaFractionMedium: ptr(30 + fi),
				WindSpeed:               ptr(1 + 0.5*fi),
				DewPointTemperature:     ptr(5 + 0.25*fi),
				AirPressureAtSeaLevel:   ptr(1000.5 + fi),
			}},
			Next1Hours:  &Period{Summary: PeriodSummary{SymbolCode: "partlycloudy_day"}},
			Next6Hours:  &Period{Summary: PeriodSummary{SymbolCode: "lightrain"}},
			Next12Hours: &Period{Summary: PeriodSummary{SymbolCode: "cloudy"}},
		},
	}
}

func fixtureEntries(n int) []ForecastEntry {
	entries := make([]ForecastEntry, n)
	for i := range entries {
		entries[i] = fixtureEntry(i)
	}
	return entries
}
