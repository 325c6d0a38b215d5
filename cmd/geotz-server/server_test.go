package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/codeGROOVE-dev/geotz/pkg/display"
	"github.com/codeGROOVE-dev/geotz/pkg/geoapify"
	"github.com/codeGROOVE-dev/geotz/pkg/tzlookup"
	"github.com/codeGROOVE-dev/geotz/pkg/zoneinfo"
)

const parisBody = `{"features":[{"properties":{"country":"France","postcode":"75001","city":"Paris",
	"lat":48.8566,"lon":2.3522,"timezone":{"name":"Europe/Paris","offset_STD":"+01:00",
	"offset_STD_seconds":3600,"offset_DST":"+02:00","offset_DST_seconds":7200}}}]}`

// newTestServer wires the server to a fake Geoapify that answers every request with body.
func newTestServer(t *testing.T, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	hits := &atomic.Int32{}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		if _, err := io.WriteString(w, body); err != nil {
			t.Errorf("write: %v", err)
		}
	}))
	t.Cleanup(upstream.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := geoapify.NewClient("test-key", upstream.Client(), logger, geoapify.WithBaseURL(upstream.URL))
	srv := httptest.NewServer(newServer(client, zoneinfo.New(logger), logger, false).routes())
	t.Cleanup(srv.Close)
	return srv, hits
}

func postJSON(t *testing.T, url, body string) (*http.Response, display.Snapshot) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close() //nolint:errcheck // test cleanup

	var snap display.Snapshot
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
			t.Fatalf("decode snapshot: %v", err)
		}
	}
	return resp, snap
}

func getBody(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url) //nolint:noctx // test request
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close() //nolint:errcheck // test cleanup
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestHomePage(t *testing.T) {
	srv, hits := newTestServer(t, parisBody)

	resp, body := getBody(t, srv.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	for _, want := range []string{
		`id="address-form"`,
		`id="address-input"`,
		`<span id="current-tz-name">Locating...</span>`,
		`<h2 id="address-result-title" hidden>`,
		`<p id="error-message" class="error" hidden>`,
		`src="/static/app.js"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("home page missing %q", want)
		}
	}
	if hits.Load() != 0 {
		t.Errorf("upstream requests = %d, want 0 on a plain page load", hits.Load())
	}
}

func TestHomePageWithAddress(t *testing.T) {
	srv, hits := newTestServer(t, parisBody)

	_, body := getBody(t, srv.URL+"/?address=Paris")
	for _, want := range []string{
		`<span id="address-tz-name">Europe/Paris</span>`,
		`<span id="address-tz-offset-std-sec">3600</span>`,
		`<h2 id="address-result-title">`,
		`value="Paris"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("home page missing %q", want)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("upstream requests = %d, want 1", hits.Load())
	}

	_, body = getBody(t, srv.URL+"/?address=+")
	if !strings.Contains(body, tzlookup.MsgEmptyAddress) {
		t.Errorf("blank address should show %q", tzlookup.MsgEmptyAddress)
	}
	if hits.Load() != 1 {
		t.Errorf("blank address reached upstream")
	}
}

func TestAddressAPI(t *testing.T) {
	srv, hits := newTestServer(t, parisBody)

	resp, snap := postJSON(t, srv.URL+"/api/v1/address", `{"address":"Paris, France"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := snap.Get("address-tz-name"); got != "Europe/Paris" {
		t.Errorf("address-tz-name = %q, want Europe/Paris", got)
	}
	if !snap.Shown(tzlookup.BlockResultData) || snap.Shown(tzlookup.BlockError) {
		t.Errorf("visibility = %v, want data shown and error hidden", snap.Visible)
	}

	_, snap = postJSON(t, srv.URL+"/api/v1/address", `{"address":"   "}`)
	if got := snap.Get(tzlookup.BlockError); got != tzlookup.MsgEmptyAddress {
		t.Errorf("error-message = %q, want %q", got, tzlookup.MsgEmptyAddress)
	}
	if hits.Load() != 1 {
		t.Errorf("upstream requests = %d, want 1", hits.Load())
	}
}

func TestAddressAPINotFound(t *testing.T) {
	srv, _ := newTestServer(t, `{"features":[]}`)

	_, snap := postJSON(t, srv.URL+"/api/v1/address", `{"address":"Nowhere"}`)
	if got := snap.Get(tzlookup.BlockError); got != tzlookup.MsgAddressNotFound {
		t.Errorf("error-message = %q, want %q", got, tzlookup.MsgAddressNotFound)
	}
	if snap.Shown(tzlookup.BlockResultTitle) {
		t.Error("result title should stay hidden")
	}
}

func TestCurrentAPI(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantName string
		wantHits int32
	}{
		{name: "granted", body: `{"lat":48.8566,"lon":2.3522}`, wantName: "Europe/Paris", wantHits: 1},
		{name: "denied", body: `{"error":"denied"}`, wantName: tzlookup.MsgGeoUnavailable},
		{name: "unsupported", body: `{"error":"unsupported"}`, wantName: tzlookup.MsgGeoUnsupported},
		{name: "missing position", body: `{}`, wantName: tzlookup.MsgGeoUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, hits := newTestServer(t, parisBody)
			resp, snap := postJSON(t, srv.URL+"/api/v1/current", tt.body)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			if got := snap.Get("current-tz-name"); got != tt.wantName {
				t.Errorf("current-tz-name = %q, want %q", got, tt.wantName)
			}
			if hits.Load() != tt.wantHits {
				t.Errorf("upstream requests = %d, want %d", hits.Load(), tt.wantHits)
			}
		})
	}
}

func TestBadRequestBody(t *testing.T) {
	srv, _ := newTestServer(t, parisBody)

	for _, path := range []string{"/api/v1/current", "/api/v1/address"} {
		resp, _ := postJSON(t, srv.URL+path, `not json`)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", path, resp.StatusCode)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv, _ := newTestServer(t, parisBody)

	resp, _ := getBody(t, srv.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d, want 200", resp.StatusCode)
	}
	for header, want := range map[string]string{
		"X-Frame-Options":         "DENY",
		"X-Content-Type-Options":  "nosniff",
		"Content-Security-Policy": cspPolicy(false),
	} {
		if got := resp.Header.Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if got := resp.Header.Get("Permissions-Policy"); !strings.Contains(got, "geolocation=(self)") {
		t.Errorf("Permissions-Policy = %q, should allow geolocation for the page", got)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("X-Request-ID missing")
	}

	resp, _ = postJSON(t, srv.URL+"/api/v1/current", `{"error":"denied"}`)
	if got := resp.Header.Get("Cache-Control"); !strings.Contains(got, "no-store") {
		t.Errorf("API Cache-Control = %q, want no-store", got)
	}
}

func TestStaticAssets(t *testing.T) {
	srv, _ := newTestServer(t, parisBody)

	for _, path := range []string{"/static/app.js", "/static/style.css"} {
		resp, body := getBody(t, srv.URL+path)
		if resp.StatusCode != http.StatusOK || body == "" {
			t.Errorf("%s status = %d, len = %d", path, resp.StatusCode, len(body))
		}
		if got := resp.Header.Get("Cache-Control"); got != "public, max-age=3600" {
			t.Errorf("%s Cache-Control = %q", path, got)
		}
	}
}

func TestCrossOriginPostRejected(t *testing.T) {
	srv, hits := newTestServer(t, parisBody)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/address", strings.NewReader(`{"address":"Paris"}`))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close() //nolint:errcheck // test cleanup
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
	if hits.Load() != 0 {
		t.Error("cross-site request reached upstream")
	}
}

func TestCSPPolicy(t *testing.T) {
	if strings.Contains(cspPolicy(false), "upgrade-insecure-requests") {
		t.Error("development policy should not upgrade requests")
	}
	if !strings.Contains(cspPolicy(true), "upgrade-insecure-requests") {
		t.Error("production policy should upgrade requests")
	}
	if !strings.Contains(cspPolicy(true), "frame-ancestors 'none'") {
		t.Error("policy should forbid framing")
	}
}
