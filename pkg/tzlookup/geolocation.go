package tzlookup

import (
	"context"
	"fmt"
	"strings"
)

// Position is a coordinate pair reported by a Geolocator.
type Position struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Geolocator supplies the user's current position.
//
// CurrentPosition returns ErrGeolocationUnsupported when no position source
// exists, and an error wrapping ErrGeolocation when one exists but fails.
type Geolocator interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

// StaticGeolocator always reports the same position.
type StaticGeolocator struct {
	Position Position
}

// CurrentPosition returns the configured position.
func (g StaticGeolocator) CurrentPosition(ctx context.Context) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, fmt.Errorf("%w: %w", ErrGeolocation, err)
	}
	if !g.Position.valid() {
		return Position{}, fmt.Errorf("%w: coordinates out of range: %v,%v",
			ErrGeolocation, g.Position.Latitude, g.Position.Longitude)
	}
	return g.Position, nil
}

// UnsupportedGeolocator stands in when there is no way to locate the user.
type UnsupportedGeolocator struct{}

// CurrentPosition always fails with ErrGeolocationUnsupported.
func (UnsupportedGeolocator) CurrentPosition(context.Context) (Position, error) {
	return Position{}, ErrGeolocationUnsupported
}

// ReportedGeolocator replays an outcome that a browser already produced:
// either a position or the name of the failure ("denied", "unavailable",
// "timeout" or "unsupported").
type ReportedGeolocator struct {
	Position *Position
	Failure  string
}

// CurrentPosition returns the reported outcome.
func (g ReportedGeolocator) CurrentPosition(ctx context.Context) (Position, error) {
	switch {
	case strings.EqualFold(g.Failure, "unsupported"):
		return Position{}, ErrGeolocationUnsupported
	case g.Failure != "":
		return Position{}, fmt.Errorf("%w: %s", ErrGeolocation, g.Failure)
	case g.Position == nil:
		return Position{}, fmt.Errorf("%w: no position reported", ErrGeolocation)
	}
	return StaticGeolocator{Position: *g.Position}.CurrentPosition(ctx)
}

func (p Position) valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 && p.Longitude >= -180 && p.Longitude <= 180
}
