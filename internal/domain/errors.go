package domain

import "errors"

// Failures raised by the forecast transforms. They are returned wrapped with
// detail and compared with errors.Is; nothing in this package recovers from them.
var (
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	ErrUnknownTimezone    = errors.New("unknown timezone")
	ErrInsufficientData   = errors.New("insufficient forecast data")
	ErrMissingHorizonData = errors.New("missing horizon data")
	ErrMissingField       = errors.New("missing field")
)

// IsDataError reports whether err stems from unusable forecast data rather
// than an unreachable or failing upstream.
func IsDataError(err error) bool {
	for _, target := range []error{
		ErrMalformedTimestamp,
		ErrUnknownTimezone,
		ErrInsufficientData,
		ErrMissingHorizonData,
		ErrMissingField,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
