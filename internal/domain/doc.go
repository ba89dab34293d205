// Package domain turns a met.no locationforecast timeseries into the pieces a
// weather page shows: a temperature series, horizon snapshots, pictogram codes
// and a climatic label. Every function here is pure; fetching and rendering
// live behind the interfaces in collaborators.go.
//
// # Data Source
//
// Forecasts come from the Norwegian Meteorological Institute's
// locationforecast 2.0 "complete" product:
//
//	https://api.met.no/weatherapi/locationforecast/2.0/complete?lat=..&lon=..
//
// The payload is GeoJSON; the service only reads properties.timeseries, a list
// of entries ordered by time ascending. The first ~60 entries are hourly, the
// rest six-hourly. Entry 0 is the current hour.
//
// # Entry Layout
//
//	{
//	  "time": "2024-06-01T12:00:00Z",
//	  "data": {
//	    "instant":      {"details": {"air_temperature": 21.3, ...}},
//	    "next_1_hours": {"summary": {"symbol_code": "partlycloudy_day"}, "details": {...}},
//	    "next_6_hours": {...},
//	    "next_12_hours": {...}
//	  }
//	}
//
// Times are UTC with a "Z" suffix on the wire. Timestamps without an offset
// are treated as UTC. Conversion to the caller's zone uses time.Time.In, so the
// wall clock moves and the instant stays put.
//
// Units: air_temperature and dew_point_temperature in °C, relative_humidity
// and cloud fractions in %, wind_speed in m/s, air_pressure_at_sea_level in hPa.
// Any detail may be missing; [InstantDetails.Get] reports [ErrMissingField].
//
// # Horizons and the Index Offset
//
// Snapshots are reported for +1h, +6h and +12h. Because entry 0 is "now" and
// can be a partial reading, the snapshot for horizon h reads window row h+1:
//
//	row:      0    1    2   ...   7   ...  13
//	horizon:  now       1h        6h       12h
//
// The window therefore needs [WindowSize] (14) entries and fails with
// [ErrInsufficientData] below that.
//
// Pictograms come from a single entry (index 1): next_1_hours, next_6_hours and
// next_12_hours each carry a summary.symbol_code such as "clearsky_day" or
// "lightrain". The code is handed to clients as-is.
//
// # Climatic Label
//
// [Classify] walks [Rules] in order over temperature, humidity, total cloud
// fraction and wind speed. The temperature bands (<25, [25,27), [25,30], >30)
// overlap and only <25 has a catch-all, so a reading can fall from one band
// into the next and then into the two cross-band rules before ending at
// [Unknown]. [MatchRule] reports which band produced the label.
package domain
