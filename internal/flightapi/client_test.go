package flightapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/five82/skyline/internal/flight"
)

var sampleFlights = []flight.Flight{
	{
		ID:           "GA101",
		Airline:      flight.Airline{Code: "GA", Name: "Garuda Indonesia"},
		FlightNumber: "GA-101",
		Departure:    flight.Endpoint{Airport: "CGK", Time: "08:00", Date: "2025-10-25"},
		Arrival:      flight.Endpoint{Airport: "DPS", Time: "10:00", Date: "2025-10-25"},
		Duration:     120,
		Baggage:      "20kg",
		Price:        flight.Price{Amount: 1_000_000, Currency: "IDR"},
	},
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("", defaultAPIURL)
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultAPIURL {
		t.Fatalf("host = %q, want %q", u.Host, defaultAPIURL)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag", defaultAPIURL)
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_FetchFlights(t *testing.T) {
	t.Parallel()

	var gotUserAgent, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(flight.Envelope{
			Data:    sampleFlights,
			Source:  flight.SourceLocalFallback,
			Message: "Using local flight data",
		})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	env, err := c.FetchFlights(ctx)
	if err != nil {
		t.Fatalf("FetchFlights returned error: %v", err)
	}
	if gotPath != FlightsPath {
		t.Fatalf("path = %q, want %q", gotPath, FlightsPath)
	}
	if gotUserAgent != defaultUserAgent {
		t.Fatalf("User-Agent = %q, want %q", gotUserAgent, defaultUserAgent)
	}
	if len(env.Data) != 1 || env.Data[0].Departure.Airport != "CGK" || env.Data[0].Price.Amount != 1_000_000 {
		t.Fatalf("FetchFlights payload = %#v", env.Data)
	}
	if env.Source != flight.SourceLocalFallback {
		t.Fatalf("Source = %q, want local_fallback", env.Source)
	}
}

func TestClient_FetchFlightsStatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.FetchFlights(context.Background())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusTooManyRequests {
		t.Fatalf("FetchFlights error = %v, want StatusError 429", err)
	}
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	if _, err := c.FetchFlights(context.Background()); err == nil {
		t.Fatal("FetchFlights on nil client returned nil error")
	}
}

func TestUpstream_SendsHeadersAndDecodesArray(t *testing.T) {
	t.Parallel()

	var headers http.Header
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(sampleFlights)
	}))
	t.Cleanup(server.Close)

	u, err := NewUpstream(server.URL+"/", time.Second)
	if err != nil {
		t.Fatalf("NewUpstream returned error: %v", err)
	}
	flights, err := u.FetchFlights(context.Background())
	if err != nil {
		t.Fatalf("FetchFlights returned error: %v", err)
	}
	if gotPath != UpstreamPath {
		t.Fatalf("path = %q, want %q", gotPath, UpstreamPath)
	}
	for name, want := range map[string]string{
		"Accept":        "application/json",
		"Cache-Control": "no-cache",
		"User-Agent":    "Mozilla/5.0",
	} {
		if got := headers.Get(name); got != want {
			t.Fatalf("%s = %q, want %q", name, got, want)
		}
	}
	if len(flights) != 1 || flights[0].ID != "GA101" {
		t.Fatalf("flights = %#v", flights)
	}
}

func TestUpstream_DecodesEnvelope(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(flight.Envelope{Data: sampleFlights})
	}))
	t.Cleanup(server.Close)

	u, _ := NewUpstream(server.URL, time.Second)
	flights, err := u.FetchFlights(context.Background())
	if err != nil || len(flights) != 1 {
		t.Fatalf("FetchFlights = %v, %v", flights, err)
	}
}

func TestUpstream_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(error) bool
	}{
		{
			name: "non-2xx",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadGateway)
			},
			check: func(err error) bool {
				var se *StatusError
				return errors.As(err, &se) && se.Code == http.StatusBadGateway
			},
		},
		{
			name: "html content type",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte("<html></html>"))
			},
			check: func(err error) bool { return errors.Is(err, ErrContentType) },
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte("[{"))
			},
			check: func(err error) bool { return err != nil },
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-time.After(time.Second):
				case <-r.Context().Done():
				}
			},
			check: func(err error) bool { return err != nil },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(tt.handler)
			t.Cleanup(server.Close)

			u, err := NewUpstream(server.URL, 100*time.Millisecond)
			if err != nil {
				t.Fatalf("NewUpstream returned error: %v", err)
			}
			if _, err := u.FetchFlights(context.Background()); !tt.check(err) {
				t.Fatalf("FetchFlights error = %v", err)
			}
		})
	}
}

func TestUpstream_Unconfigured(t *testing.T) {
	u, err := NewUpstream("  ", time.Second)
	if err != nil {
		t.Fatalf("NewUpstream returned error: %v", err)
	}
	if u.URL() != "" {
		t.Fatalf("URL() = %q, want empty", u.URL())
	}
	if _, err := u.FetchFlights(context.Background()); !errors.Is(err, ErrNoUpstream) {
		t.Fatalf("FetchFlights error = %v, want ErrNoUpstream", err)
	}
}
