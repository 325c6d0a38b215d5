package tzlookup

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork reports a transport failure or an unreadable response body.
	ErrNetwork = errors.New("geocoding request failed")
	// ErrNotFound reports a well-formed response that carries no timezone data.
	ErrNotFound = errors.New("no timezone data found")
	// ErrValidation reports an empty address.
	ErrValidation = errors.New("address is empty")
	// ErrGeolocation reports that the position was denied or unavailable.
	ErrGeolocation = errors.New("geolocation denied or unavailable")
	// ErrGeolocationUnsupported reports that no position source exists at all.
	ErrGeolocationUnsupported = errors.New("geolocation not supported")
	// ErrSuperseded is returned when a newer lookup for the same panel was issued
	// before this one finished, and WithLatestOnly is in effect.
	ErrSuperseded = errors.New("lookup superseded by a newer request")
)

// HTTPError reports a non-2xx answer from the geocoding service.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("geocoding request failed with status %d", e.StatusCode)
}

// IsRequestFailure reports whether err is a network or HTTP failure.
// Both are shown to the user the same way.
func IsRequestFailure(err error) bool {
	var he *HTTPError
	return errors.Is(err, ErrNetwork) || errors.As(err, &he)
}
