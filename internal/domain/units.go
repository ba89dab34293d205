package domain

import "strconv"

// CelsiusToFahrenheit converts °C to °F.
func CelsiusToFahrenheit(c float64) float64 {
	return 9.0/5.0*c + 32
}

// MetersPerSecondToKmh converts m/s to km/h, rounded to one decimal place.
// Rounding works on the exact binary value and breaks exact ties to even,
// so 2.25 becomes 2.2 while 4.05 (stored just below) becomes 4.0.
func MetersPerSecondToKmh(ms float64) float64 {
	return roundDecimal(ms*3.6, 1)
}

func roundDecimal(v float64, places int) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	return r
}
