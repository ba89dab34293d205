package domain

// LocationForecast is the subset of a locationforecast 2.0 response body the
// service reads. Everything it needs lives under properties.timeseries.
type LocationForecast struct {
	Type       string `json:"type"`
	Properties struct {
		Meta struct {
			UpdatedAt string            `json:"updated_at"`
			Units     map[string]string `json:"units,omitempty"`
		} `json:"meta"`
		Timeseries []ForecastEntry `json:"timeseries"`
	} `json:"properties"`
}

// ForecastEntry is one element of the upstream timeseries. Entries arrive
// ordered by time ascending, hourly for the first couple of days; index 0 is
// the current hour.
type ForecastEntry struct {
	Time string    `json:"time"`
	Data EntryData `json:"data"`
}

// EntryData groups the instantaneous reading with the period summaries.
// A period block is nil when the provider omitted it.
type EntryData struct {
	Instant     Instant `json:"instant"`
	Next1Hours  *Period `json:"next_1_hours,omitempty"`
	Next6Hours  *Period `json:"next_6_hours,omitempty"`
	Next12Hours *Period `json:"next_12_hours,omitempty"`
}

// Instant wraps the details valid at the entry's timestamp.
type Instant struct {
	Details InstantDetails `json:"details"`
}

// InstantDetails holds the tracked instantaneous variables. Pointers keep an
// absent field distinguishable from a reading of zero.
type InstantDetails struct {
	AirTemperature          *float64 `json:"air_temperature,omitempty"`
	RelativeHumidity        *float64 `json:"relative_humidity,omitempty"`
	CloudAreaFraction       *float64 `json:"cloud_area_fraction,omitempty"`
	CloudAreaFractionMedium *float64 `json:"cloud_area_fraction_medium,omitempty"`
	WindSpeed               *float64 `json:"wind_speed,omitempty"` // m/s
	DewPointTemperature     *float64 `json:"dew_point_temperature,omitempty"`
	AirPressureAtSeaLevel   *float64 `json:"air_pressure_at_sea_level,omitempty"` // hPa
}

// Period is a next_N_hours block.
type Period struct {
	Summary PeriodSummary      `json:"summary"`
	Details map[string]float64 `json:"details,omitempty"`
}

// PeriodSummary carries the pictogram identifier for the period.
type PeriodSummary struct {
	SymbolCode string `json:"symbol_code"`
}

// Period returns the next_{hours}_hours block, or nil when it is absent or
// hours is not one of 1, 6 or 12.
func (d EntryData) Period(hours int) *Period {
	switch hours {
	case 1:
		return d.Next1Hours
	case 6:
		return d.Next6Hours
	case 12:
		return d.Next12Hours
	default:
		return nil
	}
}
