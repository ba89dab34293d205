package domain

// ClimaticLabel names the overall condition derived from instantaneous details.
type ClimaticLabel string

const (
	HeavyRainfall ClimaticLabel = "Heavy Rainfall"
	LightRain     ClimaticLabel = "Light Rain"
	Cloudy        ClimaticLabel = "Cloudy"
	Rainy         ClimaticLabel = "Rainy"
	Overcast      ClimaticLabel = "Overcast"
	PartlyCloudy  ClimaticLabel = "Partly Cloudy"
	ClearSky      ClimaticLabel = "Clear Sky"
	VeryDry       ClimaticLabel = "Very Dry"
	MostlyCloudy  ClimaticLabel = "Mostly Cloudy"
	PartlySunny   ClimaticLabel = "Partly Sunny"
	HotAndHumid   ClimaticLabel = "Hot and Humid"
	Hot           ClimaticLabel = "Hot"
	VeryHot       ClimaticLabel = "Very Hot"
	Stormy        ClimaticLabel = "Stormy"
	IntenseSun    ClimaticLabel = "Intense Sun"
	Unknown       ClimaticLabel = "Unknown"
)

// Conditions are the classifier inputs: °C, %, %, m/s.
type Conditions struct {
	Temperature   float64
	Humidity      float64
	CloudFraction float64
	WindSpeed     float64
}

// ConditionsFromReading picks the classifier inputs out of a reading.
func ConditionsFromReading(r Reading) Conditions {
	return Conditions{
		Temperature:   r.AirTemperature,
		Humidity:      r.RelativeHumidity,
		CloudFraction: r.CloudAreaFraction,
		WindSpeed:     r.WindSpeed,
	}
}

// Band identifies the temperature range a rule belongs to.
type Band string

const (
	BandBelow25 Band = "<25"
	Band25To27  Band = "[25,27)"
	Band25To30  Band = "[25,30]"
	BandAbove30 Band = ">30"
	BandAny     Band = "any"
)

// Rule maps a predicate to a label within a temperature band.
type Rule struct {
	Band  Band
	Label ClimaticLabel
	match func(c Conditions) bool
}

func between(v, lo, hi float64) bool { return lo <= v && v <= hi }

func inBand(b Band, t float64) bool {
	switch b {
	case BandBelow25:
		return t < 25
	case Band25To27:
		return 25 <= t && t < 27
	case Band25To30:
		return between(t, 25, 30)
	case BandAbove30:
		return t > 30
	default:
		return true
	}
}

// Rules is evaluated top to bottom and the first match wins. The bands
// overlap: a reading in [25,27) that matches none of its band's rules is
// tried against the [25,30] rules, then the cross-band rules. Only the <25
// band ends in a catch-all.
var Rules = []Rule{
	{BandBelow25, HeavyRainfall, func(c Conditions) bool { return c.Humidity > 80 && c.CloudFraction > 75 && c.WindSpeed > 8 }},
	{BandBelow25, LightRain, func(c Conditions) bool {
		return c.Humidity > 80 && between(c.CloudFraction, 50, 75) && c.WindSpeed < 5
	}},
	{BandBelow25, Cloudy, func(c Conditions) bool { return c.Humidity > 80 && c.CloudFraction < 50 && c.WindSpeed < 5 }},
	{BandBelow25, LightRain, func(c Conditions) bool { return c.Humidity > 80 && c.WindSpeed < 8 }},
	{BandBelow25, Cloudy, func(Conditions) bool { return true }},

	{Band25To27, LightRain, func(c Conditions) bool { return c.Humidity > 80 && c.WindSpeed < 8 }},
	{Band25To27, Rainy, func(c Conditions) bool {
		return between(c.Humidity, 60, 80) && c.CloudFraction > 75 && between(c.WindSpeed, 5, 10)
	}},
	{Band25To27, LightRain, func(c Conditions) bool {
		return between(c.Humidity, 60, 80) && between(c.CloudFraction, 50, 75) && between(c.WindSpeed, 5, 10)
	}},
	{Band25To27, Cloudy, func(c Conditions) bool {
		return between(c.Humidity, 60, 80) && c.CloudFraction < 50 && between(c.WindSpeed, 5, 10)
	}},

	{Band25To30, Overcast, func(c Conditions) bool {
		return between(c.Humidity, 40, 60) && c.CloudFraction > 75 && between(c.WindSpeed, 10, 20)
	}},
	{Band25To30, PartlyCloudy, func(c Conditions) bool {
		return between(c.Humidity, 40, 60) && c.CloudFraction <= 75 && between(c.WindSpeed, 10, 20)
	}},
	// Unreachable after the rule above (C<50 implies C<=75); kept so the table stays complete.
	{Band25To30, ClearSky, func(c Conditions) bool {
		return between(c.Humidity, 40, 60) && c.CloudFraction < 50 && between(c.WindSpeed, 10, 20)
	}},
	{Band25To30, VeryDry, func(c Conditions) bool { return c.Humidity < 40 && c.CloudFraction == 0 && c.WindSpeed > 20 }},
	{Band25To30, MostlyCloudy, func(c Conditions) bool { return c.Humidity > 80 && c.WindSpeed < 8 }},
	{Band25To30, PartlySunny, func(c Conditions) bool { return c.Humidity < 80 && c.WindSpeed < 8 }},

	{BandAbove30, HotAndHumid, func(c Conditions) bool { return c.Humidity < 40 && c.CloudFraction > 75 && c.WindSpeed > 20 }},
	{BandAbove30, Hot, func(c Conditions) bool {
		return c.Humidity < 40 && between(c.CloudFraction, 50, 75) && c.WindSpeed > 20
	}},
	{BandAbove30, VeryHot, func(c Conditions) bool { return c.Humidity < 40 && c.CloudFraction < 50 && c.WindSpeed > 20 }},

	{BandAny, Stormy, func(c Conditions) bool { return c.CloudFraction > 75 && c.WindSpeed > 20 }},
	{BandAny, IntenseSun, func(c Conditions) bool { return c.WindSpeed > 30 && c.Temperature > 30 }},
}

// MatchRule returns the first rule whose band contains the temperature and
// whose predicate holds. ok is false when the reading falls through every rule.
func MatchRule(c Conditions) (rule Rule, ok bool) {
	for _, r := range Rules {
		if inBand(r.Band, c.Temperature) && r.match(c) {
			return r, true
		}
	}
	return Rule{}, false
}

// Classify returns the label of the first matching rule, or Unknown.
func Classify(c Conditions) ClimaticLabel {
	if r, ok := MatchRule(c); ok {
		return r.Label
	}
	return Unknown
}
