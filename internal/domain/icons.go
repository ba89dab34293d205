package domain

import "fmt"

// ResolveIcons reads the symbol code for each of Horizons from a single entry.
// The caller passes the entry one position after "now", since the first entry
// can be a partial reading for the current hour.
func ResolveIcons(entry ForecastEntry) (map[string]string, error) {
	icons := make(map[string]string, len(Horizons))
	for _, h := range Horizons {
		p := entry.Data.Period(h)
		if p == nil {
			return nil, fmt.Errorf("%w: entry %s has no next_%d_hours block", ErrMissingHorizonData, entry.Time, h)
		}
		if p.Summary.SymbolCode == "" {
			return nil, fmt.Errorf("%w: entry %s has an empty next_%d_hours symbol code", ErrMissingHorizonData, entry.Time, h)
		}
		icons[HorizonKey(h)] = p.Summary.SymbolCode
	}
	return icons, nil
}
