// Package main implements the geotz CLI: timezone information for a position and an address.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/codeGROOVE-dev/geotz/pkg/display"
	"github.com/codeGROOVE-dev/geotz/pkg/geoapify"
	"github.com/codeGROOVE-dev/geotz/pkg/tzlookup"
)

type config struct {
	apiKey      string
	baseURL     string
	lat         string
	lon         string
	format      string
	address     string
	httpTimeout time.Duration
	search      bool
	latestOnly  bool
	verbose     bool
	version     bool
}

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Getenv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.version {
		fmt.Println("geotz CLI v1.0.0")
		return
	}

	level := slog.LevelError
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout, logger); err != nil {
		logger.Error("geotz failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, getenv func(string) string) (*config, error) {
	fs := flag.NewFlagSet("geotz", flag.ContinueOnError)
	cfg := &config{}
	fs.StringVar(&cfg.apiKey, "api-key", "", "Geoapify API key (or set GEOAPIFY_API_KEY)")
	fs.StringVar(&cfg.baseURL, "base-url", "", "Geoapify base URL (or set GEOAPIFY_BASE_URL)")
	fs.StringVar(&cfg.lat, "lat", "", "Latitude of the current position")
	fs.StringVar(&cfg.lon, "lon", "", "Longitude of the current position")
	fs.StringVar(&cfg.format, "format", "text", "Output format: text or markdown")
	fs.DurationVar(&cfg.httpTimeout, "http-timeout", 30*time.Second, "Timeout for each API request (0 disables)")
	fs.BoolVar(&cfg.latestOnly, "latest-only", false, "Discard responses superseded by a newer request")
	fs.BoolVar(&cfg.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&cfg.version, "version", false, "Show version")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: geotz [flags] [address]\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.version {
		return cfg, nil
	}

	cfg.search = fs.NArg() > 0
	cfg.address = strings.Join(fs.Args(), " ")
	if cfg.apiKey == "" {
		cfg.apiKey = getenv("GEOAPIFY_API_KEY")
	}
	if cfg.baseURL == "" {
		cfg.baseURL = getenv("GEOAPIFY_BASE_URL")
	}
	if cfg.format != "text" && cfg.format != "markdown" {
		return nil, fmt.Errorf("unknown format %q", cfg.format)
	}
	if (cfg.lat == "") != (cfg.lon == "") {
		return nil, errors.New("-lat and -lon must be given together")
	}
	return cfg, nil
}

// geolocator maps the -lat/-lon flags to a position source. Without them the
// terminal has no way to locate the user.
func (c *config) geolocator() tzlookup.Geolocator {
	if c.lat == "" {
		return tzlookup.UnsupportedGeolocator{}
	}
	lat, latErr := strconv.ParseFloat(c.lat, 64)
	lon, lonErr := strconv.ParseFloat(c.lon, 64)
	if latErr != nil || lonErr != nil {
		return tzlookup.ReportedGeolocator{Failure: fmt.Sprintf("invalid coordinates %q,%q", c.lat, c.lon)}
	}
	return tzlookup.StaticGeolocator{Position: tzlookup.Position{Latitude: lat, Longitude: lon}}
}

func run(ctx context.Context, cfg *config, out io.Writer, logger *slog.Logger) error {
	if cfg.apiKey == "" {
		logger.Warn("Geoapify API key not configured - requests will be rejected")
	}

	client := geoapify.NewClient(cfg.apiKey, &http.Client{Timeout: cfg.httpTimeout}, logger,
		geoapify.WithBaseURL(cfg.baseURL))
	target := display.NewMemory()
	opts := []tzlookup.Option{tzlookup.WithLogger(logger)}
	if cfg.latestOnly {
		opts = append(opts, tzlookup.WithLatestOnly())
	}
	svc := tzlookup.New(client, target, opts...)

	// Both lookups run independently, as they would on page load plus a form submit.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := svc.CurrentLocation(ctx, cfg.geolocator()); err != nil {
			logger.Debug("current location lookup finished with error", "error", err)
		}
	}()
	if cfg.search {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.SearchAddress(ctx, cfg.address); err != nil {
				logger.Debug("address lookup finished with error", "error", err)
			}
		}()
	}
	wg.Wait()

	snap := target.Snapshot()
	panels := []tzlookup.Panel{tzlookup.Current}
	if cfg.search {
		panels = append(panels, tzlookup.Address)
	}
	for i, p := range panels {
		if i > 0 {
			if _, err := fmt.Fprintln(out); err != nil {
				return err
			}
		}
		if err := writePanel(out, cfg.format, p, snap); err != nil {
			return err
		}
	}
	return nil
}

func writePanel(out io.Writer, format string, p tzlookup.Panel, snap display.Snapshot) error {
	if format == "markdown" {
		markdown, err := display.Markdown(p, snap)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, markdown)
		return err
	}
	return display.WriteText(out, p, snap)
}
