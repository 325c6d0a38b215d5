// Package tzlookup resolves the timezone of the user's position or of a typed
// address through a geocoding service, and renders the answer into a Target.
package tzlookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/codeGROOVE-dev/geotz/pkg/geoapify"
	"github.com/codeGROOVE-dev/geotz/pkg/zoneinfo"
)

// Geocoder builds request URLs and performs them.
type Geocoder interface {
	ReverseURL(lat, lon float64) string
	SearchURL(text string) string
	Get(ctx context.Context, rawURL string) (*geoapify.Response, error)
}

// TimezoneResult is the timezone part of a lookup.
type TimezoneResult struct {
	STDSeconds *int
	DSTSeconds *int
	Name       string
	STDLabel   string
	DSTLabel   string
}

// LocationContext is the place part of a lookup.
type LocationContext struct {
	Latitude  *float64
	Longitude *float64
	Country   string
	Postcode  string
	Place     string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. Diagnostics that are never shown to the user go here.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithZones shares a zone cache between services.
func WithZones(zones *zoneinfo.Cache) Option {
	return func(s *Service) {
		if zones != nil {
			s.zones = zones
		}
	}
}

// WithClock overrides the time source used for the local-time slot.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLatestOnly makes the last issued lookup per panel win. Without it the
// last response to arrive wins, even if it belongs to an older request.
func WithLatestOnly() Option {
	return func(s *Service) {
		s.latestOnly = true
	}
}

// Service runs lookups and renders them into its Target.
type Service struct {
	geocoder   Geocoder
	target     Target
	logger     *slog.Logger
	zones      *zoneinfo.Cache
	now        func() time.Time
	seq        map[Panel]*atomic.Uint64
	latestOnly bool
}

// New creates a Service writing into target.
func New(geocoder Geocoder, target Target, opts ...Option) *Service {
	s := &Service{
		geocoder: geocoder,
		target:   target,
		logger:   slog.Default(),
		now:      time.Now,
		seq: map[Panel]*atomic.Uint64{
			Current: {},
			Address: {},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.zones == nil {
		s.zones = zoneinfo.New(s.logger)
	}
	return s
}

// CurrentLocation asks geo for a position and renders its timezone into the
// current panel. Geolocation failures are rendered as text and no request is made.
func (s *Service) CurrentLocation(ctx context.Context, geo Geolocator) error {
	pos, err := geo.CurrentPosition(ctx)
	switch {
	case errors.Is(err, ErrGeolocationUnsupported):
		s.target.SetText(Current.Slot(FieldName), MsgGeoUnsupported)
		return err
	case err != nil:
		s.target.SetText(Current.Slot(FieldName), MsgGeoUnavailable)
		s.logger.Error("geolocation error", "error", err)
		if !errors.Is(err, ErrGeolocation) {
			err = fmt.Errorf("%w: %w", ErrGeolocation, err)
		}
		return err
	}

	s.logger.Debug("resolving current position", "lat", pos.Latitude, "lon", pos.Longitude)
	return s.FetchAndRender(ctx, s.geocoder.ReverseURL(pos.Latitude, pos.Longitude), Current)
}

// SearchAddress clears the address panel, validates address and renders the
// timezone of its first match.
func (s *Service) SearchAddress(ctx context.Context, address string) error {
	token := s.issue(Address)
	s.ClearAddress()

	address = strings.TrimSpace(address)
	if address == "" {
		s.showAddressError(MsgEmptyAddress)
		return ErrValidation
	}

	return s.fetchAndRender(ctx, s.geocoder.SearchURL(address), Address, token)
}

// ClearAddress hides any address result or error and resets its fields.
// Calling it repeatedly leaves the same state.
func (s *Service) ClearAddress() {
	s.target.SetVisible(BlockError, false)
	s.target.SetText(BlockError, "")
	s.target.SetVisible(BlockResultTitle, false)
	s.target.SetVisible(BlockResultData, false)
	s.render(Address, TimezoneResult{}, LocationContext{})
}

// FetchAndRender requests rawURL and renders the outcome into panel p.
// The returned error is for diagnostics; it has already been rendered.
func (s *Service) FetchAndRender(ctx context.Context, rawURL string, p Panel) error {
	if !p.Valid() {
		return fmt.Errorf("unknown panel %q", p)
	}
	return s.fetchAndRender(ctx, rawURL, p, s.issue(p))
}

func (s *Service) fetchAndRender(ctx context.Context, rawURL string, p Panel, token uint64) error {
	start := time.Now()
	resp, err := s.geocoder.Get(ctx, rawURL)
	if err != nil {
		var se *geoapify.StatusError
		if errors.As(err, &se) {
			err = &HTTPError{StatusCode: se.StatusCode}
		} else {
			err = fmt.Errorf("%w: %w", ErrNetwork, err)
		}
	}

	if s.stale(p, token) {
		s.logger.Debug("discarding superseded response", "panel", p, "token", token)
		return ErrSuperseded
	}

	if err != nil {
		s.logger.Error("API fetch error", "panel", p, "error", err,
			"duration_ms", time.Since(start).Milliseconds())
		if p == Address {
			s.showAddressError(MsgRequestFailed)
		} else {
			s.target.SetText(Current.Slot(FieldName), MsgCurrentFailed)
		}
		return err
	}

	props := resp.First()
	if props == nil || props.Timezone == nil {
		if p == Address {
			s.showAddressError(MsgAddressNotFound)
		} else {
			s.logger.Error("no timezone data found for current location")
		}
		return ErrNotFound
	}

	tz, loc := fromProperties(props)
	s.render(p, tz, loc)
	if p == Address {
		s.target.SetVisible(BlockResultTitle, true)
		s.target.SetVisible(BlockResultData, true)
		s.target.SetVisible(BlockError, false)
	}

	s.logger.Debug("timezone rendered", "panel", p, "timezone", tz.Name,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (s *Service) showAddressError(msg string) {
	s.target.SetVisible(BlockResultTitle, false)
	s.target.SetVisible(BlockResultData, false)
	s.target.SetText(BlockError, msg)
	s.target.SetVisible(BlockError, true)
}

func (s *Service) render(p Panel, tz TimezoneResult, loc LocationContext) {
	localTime := ""
	if tz.Name != "" {
		if lt, ok := s.zones.LocalTime(tz.Name, s.now()); ok {
			localTime = lt
		}
	}

	values := map[string]string{
		FieldName:         text(tz.Name),
		FieldLat:          coordinate(loc.Latitude),
		FieldLon:          coordinate(loc.Longitude),
		FieldOffsetSTD:    text(tz.STDLabel),
		FieldOffsetSTDSec: seconds(tz.STDSeconds),
		FieldOffsetDST:    text(tz.DSTLabel),
		FieldOffsetDSTSec: seconds(tz.DSTSeconds),
		FieldCountry:      text(loc.Country),
		FieldPostcode:     text(loc.Postcode),
		FieldCity:         text(loc.Place),
		FieldLocalTime:    text(localTime),
	}
	for _, field := range Fields {
		s.target.SetText(p.Slot(field), values[field])
	}
}

// issue hands out the next sequence token for p.
func (s *Service) issue(p Panel) uint64 {
	return s.seq[p].Add(1)
}

func (s *Service) stale(p Panel, token uint64) bool {
	return s.latestOnly && s.seq[p].Load() != token
}

func fromProperties(props *geoapify.Properties) (TimezoneResult, LocationContext) {
	tz := TimezoneResult{
		Name:       props.Timezone.Name,
		STDLabel:   props.Timezone.OffsetSTD,
		STDSeconds: props.Timezone.OffsetSTDSeconds,
		DSTLabel:   props.Timezone.OffsetDST,
		DSTSeconds: props.Timezone.OffsetDSTSeconds,
	}
	loc := LocationContext{
		Latitude:  props.Lat,
		Longitude: props.Lon,
		Country:   props.Country,
		Postcode:  props.Postcode,
		Place:     props.Place(),
	}
	return tz, loc
}

func text(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

func coordinate(v *float64) string {
	if v == nil {
		return Placeholder
	}
	x := *v
	if x == 0 {
		x = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(x, 'f', 6, 64)
}

func seconds(v *int) string {
	if v == nil {
		return Placeholder
	}
	return strconv.Itoa(*v)
}
