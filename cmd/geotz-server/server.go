package main

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/geotz/pkg/display"
	"github.com/codeGROOVE-dev/geotz/pkg/tzlookup"
	"github.com/codeGROOVE-dev/geotz/pkg/zoneinfo"
)

//go:embed templates/home.html
var homeTemplate string

//go:embed static/*
var staticFiles embed.FS

const maxBodyBytes = 4 << 10

type server struct {
	geocoder   tzlookup.Geocoder
	zones      *zoneinfo.Cache
	logger     *slog.Logger
	home       *template.Template
	production bool
}

type homeView struct {
	Current template.HTML
	Address template.HTML
	Query   string
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}

func newServer(geocoder tzlookup.Geocoder, zones *zoneinfo.Cache, logger *slog.Logger, production bool) *server {
	return &server{
		geocoder:   geocoder,
		zones:      zones,
		logger:     logger,
		home:       template.Must(template.New("home").Parse(homeTemplate)),
		production: production,
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("POST /api/v1/current", s.handleCurrent)
	mux.HandleFunc("POST /api/v1/address", s.handleAddress)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /static/", http.FileServer(http.FS(staticFiles)))

	antiCSRF := http.NewCrossOriginProtection()
	return s.wrap(antiCSRF.Handler(mux))
}

// service returns a lookup service that renders into target. Each request gets
// its own panel state, so concurrent visitors never share slots.
func (s *server) service(target tzlookup.Target, requestID string) *tzlookup.Service {
	return tzlookup.New(s.geocoder, target,
		tzlookup.WithLogger(s.logger.With("request_id", requestID)),
		tzlookup.WithZones(s.zones))
}

func (s *server) wrap(handler http.Handler) http.Handler {
	csp := cspPolicy(s.production)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := fmt.Sprintf("%d-%d", start.Unix(), start.Nanosecond())
		w.Header().Set("X-Request-ID", requestID)

		defer func() {
			if err := recover(); err != nil {
				const size = 64 << 10
				buf := make([]byte, size)
				buf = buf[:runtime.Stack(buf, false)]

				s.logger.Error("PANIC: Request handler crashed",
					"error", err,
					"path", r.URL.Path,
					"method", r.Method,
					"request_id", requestID,
					"client_ip", clientIP(r),
					"user_agent", r.Header.Get("User-Agent"),
					"stack", string(buf))
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()

		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		// The page itself asks for the visitor's position.
		w.Header().Set("Permissions-Policy", "geolocation=(self), microphone=(), camera=(), payment=(), usb=(), bluetooth=()")
		w.Header().Set("Content-Security-Policy", csp)

		switch {
		case strings.HasPrefix(r.URL.Path, "/api/"):
			w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		case strings.HasPrefix(r.URL.Path, "/static/"):
			w.Header().Set("Cache-Control", "public, max-age=3600")
		default:
			// Results are rendered into the page, never cached.
			w.Header().Set("Cache-Control", "no-store")
		}

		handler.ServeHTTP(w, r)

		s.logger.Debug("Request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	requestID := w.Header().Get("X-Request-ID")

	current := display.NewMemory()
	current.SetText(tzlookup.Current.Slot(tzlookup.FieldName), "Locating...")

	// A form submitted without JavaScript arrives as ?address=...
	address := display.NewMemory()
	query := r.URL.Query()
	if query.Has("address") {
		if err := s.service(address, requestID).SearchAddress(r.Context(), query.Get("address")); err != nil {
			s.logger.Info("Address lookup failed",
				"request_id", requestID,
				"error", err,
				"client_ip", clientIP(r))
		}
	}

	currentHTML, err := display.HTML(tzlookup.Current, current.Snapshot())
	if err != nil {
		s.renderFailed(w, requestID, err)
		return
	}
	addressHTML, err := display.HTML(tzlookup.Address, address.Snapshot())
	if err != nil {
		s.renderFailed(w, requestID, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.home.Execute(w, homeView{
		Current: currentHTML,
		Address: addressHTML,
		Query:   query.Get("address"),
	}); err != nil {
		s.logger.Error("Template execution failed",
			"request_id", requestID,
			"error", err)
	}
}

func (s *server) renderFailed(w http.ResponseWriter, requestID string, err error) {
	s.logger.Error("Panel rendering failed", "request_id", requestID, "error", err)
	http.Error(w, "Template error", http.StatusInternalServerError)
}

// handleCurrent resolves the position (or geolocation failure) reported by the browser.
func (s *server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	requestID := w.Header().Get("X-Request-ID")

	var req struct {
		Lat   *float64 `json:"lat"`
		Lon   *float64 `json:"lon"`
		Error string   `json:"error"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	geo := tzlookup.ReportedGeolocator{Failure: req.Error}
	if req.Error == "" && req.Lat != nil && req.Lon != nil {
		geo.Position = &tzlookup.Position{Latitude: *req.Lat, Longitude: *req.Lon}
	}

	target := display.NewMemory()
	if err := s.service(target, requestID).CurrentLocation(r.Context(), geo); err != nil {
		s.logger.Info("Current location lookup failed",
			"request_id", requestID,
			"error", err,
			"client_ip", clientIP(r))
	}
	s.writeJSON(w, requestID, http.StatusOK, target.Snapshot())
}

// handleAddress runs an address search and returns the resulting panel state.
func (s *server) handleAddress(w http.ResponseWriter, r *http.Request) {
	requestID := w.Header().Get("X-Request-ID")

	var req struct {
		Address string `json:"address"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	target := display.NewMemory()
	if err := s.service(target, requestID).SearchAddress(r.Context(), req.Address); err != nil {
		s.logger.Info("Address lookup failed",
			"request_id", requestID,
			"error", err,
			"client_ip", clientIP(r))
	}
	s.writeJSON(w, requestID, http.StatusOK, target.Snapshot())
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, w.Header().Get("X-Request-ID"), http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		requestID := w.Header().Get("X-Request-ID")
		s.logger.Error("Invalid request body",
			"request_id", requestID,
			"error", err,
			"client_ip", clientIP(r))
		s.writeJSON(w, requestID, http.StatusBadRequest, errorResponse{
			Error:   "Invalid request",
			Details: "The request body must be a JSON object.",
			Code:    "BAD_REQUEST",
		})
		return false
	}
	return true
}

func (s *server) writeJSON(w http.ResponseWriter, requestID string, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response",
			"request_id", requestID,
			"error", err)
	}
}

func clientIP(r *http.Request) string {
	return strings.Split(r.RemoteAddr, ":")[0]
}
