package main

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/couchcryptid/weather-insight/internal/domain"
)

// generate builds a payload whose values follow a daily cycle: warmest mid
// afternoon local time, most humid before dawn.
func generate(opts options) domain.LocationForecast {
	zone, _ := domain.LoadZone(opts.loc.Timezone) // validated by parseFlags
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))

	var doc domain.LocationForecast
	doc.Type = "Feature"
	doc.Properties.Meta.UpdatedAt = opts.start.Add(-30 * time.Minute).Format(time.RFC3339)
	doc.Properties.Meta.Units = map[string]string{
		"air_pressure_at_sea_level":  "hPa",
		"air_temperature":            "celsius",
		"cloud_area_fraction":        "%",
		"cloud_area_fraction_medium": "%",
		"dew_point_temperature":      "celsius",
		"relative_humidity":          "%",
		"wind_speed":                 "m/s",
	}

	t := opts.start
	entries := make([]domain.ForecastEntry, 0, opts.hours)
	for i := range opts.hours {
		entries = append(entries, entryAt(t, i, opts.hours, i < opts.hourly, zone, rng))
		if i+1 < opts.hourly {
			t = t.Add(time.Hour)
		} else {
			t = t.Add(6 * time.Hour)
		}
	}
	doc.Properties.Timeseries = entries
	return doc
}

func entryAt(t time.Time, i, total int, hourly bool, zone *time.Location, rng *rand.Rand) domain.ForecastEntry {
	local := t.In(zone)
	hour := float64(local.Hour()) + float64(local.Minute())/60
	// Peaks at 15:00 local, troughs at 03:00.
	phase := math.Cos((hour - 15) / 24 * 2 * math.Pi)
	drift := float64(i) / float64(total)

	temp := round1(14 + 6*phase + 2*drift + jitter(rng, 0.6))
	humidity := clamp(round1(68-18*phase+jitter(rng, 4)), 5, 100)
	cloud := clamp(round1(45+30*math.Sin(float64(i)/7)+jitter(rng, 8)), 0, 100)
	cloudMedium := clamp(round1(cloud*0.8+jitter(rng, 5)), 0, 100)
	wind := math.Max(0, round1(3.5+1.5*phase+jitter(rng, 0.8)))
	dewPoint := round1(temp - (100-humidity)/5)
	pressure := round1(1013 + 4*math.Sin(float64(i)/18) + jitter(rng, 0.4))

	details := domain.InstantDetails{
		AirTemperature:          &temp,
		RelativeHumidity:        &humidity,
		CloudAreaFraction:       &cloud,
		CloudAreaFractionMedium: &cloudMedium,
		WindSpeed:               &wind,
		DewPointTemperature:     &dewPoint,
		AirPressureAtSeaLevel:   &pressure,
	}

	code := symbolCode(cloud, humidity, local.Hour())
	data := domain.EntryData{
		Instant:     domain.Instant{Details: details},
		Next6Hours:  period(code),
		Next12Hours: period(symbolCode(cloud, humidity-5, 12)),
	}
	// The provider stops sending hourly periods once spacing widens.
	if hourly {
		data.Next1Hours = period(code)
	}
	return domain.ForecastEntry{Time: t.UTC().Format(time.RFC3339), Data: data}
}

func period(code string) *domain.Period {
	return &domain.Period{
		Summary: domain.PeriodSummary{SymbolCode: code},
		Details: map[string]float64{"precipitation_amount": 0},
	}
}

func symbolCode(cloud, humidity float64, localHour int) string {
	if humidity >= 85 {
		return "lightrain"
	}
	suffix := "_day"
	if localHour < 6 || localHour >= 21 {
		suffix = "_night"
	}
	switch {
	case cloud < 20:
		return "clearsky" + suffix
	case cloud < 45:
		return "fair" + suffix
	case cloud < 75:
		return "partlycloudy" + suffix
	default:
		return "cloudy"
	}
}

func jitter(rng *rand.Rand, spread float64) float64 {
	return (rng.Float64()*2 - 1) * spread
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func clamp(v, lo, hi float64) float64 { return math.Min(hi, math.Max(lo, v)) }
