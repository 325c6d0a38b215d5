// Package main implements the geotz web server: a page reporting the timezone
// of the visitor's position and of any address they type.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codeGROOVE-dev/geotz/pkg/geoapify"
	"github.com/codeGROOVE-dev/geotz/pkg/zoneinfo"
)

var (
	port       = flag.String("port", "8080", "Port for web server (or set PORT)")
	apiKey     = flag.String("api-key", "", "Geoapify API key (or set GEOAPIFY_API_KEY)")
	baseURL    = flag.String("base-url", "", "Geoapify base URL (or set GEOAPIFY_BASE_URL)")
	production = flag.Bool("production", false, "Ask browsers to upgrade insecure requests (or set PRODUCTION=true)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println("geotz Server v1.0.0")
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *apiKey == "" {
		*apiKey = os.Getenv("GEOAPIFY_API_KEY")
	}
	if *baseURL == "" {
		*baseURL = os.Getenv("GEOAPIFY_BASE_URL")
	}
	if p := os.Getenv("PORT"); p != "" && !isFlagSet("port") {
		*port = p
	}
	if os.Getenv("PRODUCTION") == "true" {
		*production = true
	}

	// Log configuration (without exposing the key)
	logger.Info("Server configuration",
		"port", *port,
		"verbose", *verbose,
		"production", *production,
		"base_url", *baseURL,
		"has_api_key", *apiKey != "")
	if *apiKey == "" {
		logger.Warn("Geoapify API key not configured - lookups will fail")
	}

	client := geoapify.NewClient(*apiKey, &http.Client{Timeout: 30 * time.Second}, logger,
		geoapify.WithBaseURL(*baseURL))

	srv := &http.Server{
		Addr:              ":" + *port,
		Handler:           newServer(client, zoneinfo.New(logger), logger, *production).routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", *port)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
