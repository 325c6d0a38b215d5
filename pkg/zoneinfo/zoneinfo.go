// Package zoneinfo resolves IANA zone names against Go's timezone database.
// Loaded locations are kept in memory; reading zoneinfo files is the only work cached.
package zoneinfo

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
	_ "time/tzdata" // embedded fallback when the host has no zoneinfo

	"github.com/maypok86/otter/v2"
)

// LocalTimeLayout is the layout used for the local-time slot.
const LocalTimeLayout = "2006-01-02 15:04 MST"

// Cache memoises *time.Location values by zone name.
type Cache struct {
	locations *otter.Cache[string, *time.Location]
	logger    *slog.Logger
}

// New creates a location cache.
func New(logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	// There are roughly 600 zones in the IANA database.
	return &Cache{
		locations: otter.Must(&otter.Options[string, *time.Location]{
			MaximumSize:     1_000,
			InitialCapacity: 64,
		}),
		logger: logger,
	}
}

// Location returns the named zone, loading it on first use.
func (c *Cache) Location(name string) (*time.Location, error) {
	if name == "" {
		return nil, errors.New("empty zone name")
	}
	if loc, found := c.locations.GetIfPresent(name); found {
		return loc, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		c.logger.Debug("zone lookup failed", "zone", name, "error", err)
		return nil, fmt.Errorf("loading zone %q: %w", name, err)
	}
	c.locations.Set(name, loc)
	return loc, nil
}

// LocalTime formats now in the named zone, followed by the offset in effect,
// e.g. "2026-07-01 14:00 CEST (UTC+02:00)". It reports false when the zone is unknown.
func (c *Cache) LocalTime(name string, now time.Time) (string, bool) {
	loc, err := c.Location(name)
	if err != nil {
		return "", false
	}
	local := now.In(loc)
	_, offset := local.Zone()
	return fmt.Sprintf("%s (UTC%s)", local.Format(LocalTimeLayout), FormatOffset(offset)), true
}

// FormatOffset renders an offset in seconds as a label such as "+05:30" or "-05:00".
func FormatOffset(seconds int) string {
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return fmt.Sprintf("%c%02d:%02d", sign, seconds/3600, (seconds%3600)/60)
}
