package flightapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/five82/skyline/internal/flight"
)

// Fetcher loads the flight envelope. It is implemented by *Client and can be
// replaced in tests.
type Fetcher interface {
	FetchFlights(ctx context.Context) (*flight.Envelope, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// ErrContentType is returned when a response is not JSON.
var ErrContentType = errors.New("response is not application/json")

// StatusError reports a non-2xx response.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

// Client talks to the skyline /api/flights endpoint.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIURL    = "127.0.0.1:8484"
	defaultUserAgent = "skyline/0.1"
	requestTimeout   = 10 * time.Second

	FlightsPath = "/api/flights"
)

// NewClient builds a Client using the provided host:port or URL.
func NewClient(apiURL string) (*Client, error) {
	base, err := parseBaseURL(apiURL, defaultAPIURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// FetchFlights retrieves the flight list together with its source
// diagnostics.
func (c *Client) FetchFlights(ctx context.Context) (*flight.Envelope, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload flight.Envelope
	if err := c.do(ctx, FlightsPath, &payload); err != nil {
		return nil, err
	}
	if payload.Data == nil {
		payload.Data = []flight.Flight{}
	}
	return &payload, nil
}

func (c *Client) do(ctx context.Context, path string, dest any) error {
	rel := &url.URL{Path: path}
	return doURL(ctx, c.http, c.baseURL.ResolveReference(rel), requestOptions{
		userAgent: c.userAgent,
	}, func(body io.Reader) error {
		if err := json.NewDecoder(body).Decode(dest); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
}

type requestOptions struct {
	userAgent   string
	noCache     bool
	requireJSON bool
}

func doURL(ctx context.Context, hc *http.Client, reqURL *url.URL, opts requestOptions, decode func(io.Reader) error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", opts.userAgent)
	if opts.noCache {
		req.Header.Set("Cache-Control", "no-cache")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Path: reqURL.Path, Code: resp.StatusCode}
	}
	if opts.requireJSON && !isJSON(resp.Header.Get("Content-Type")) {
		return fmt.Errorf("%w: got %q", ErrContentType, resp.Header.Get("Content-Type"))
	}
	return decode(resp.Body)
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), "application/json")
	}
	return mediaType == "application/json"
}

// decodeFlights accepts either a bare JSON array of flights or an envelope
// with a data field.
func decodeFlights(body io.Reader) ([]flight.Flight, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env flight.Envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return env.Data, nil
	}
	var flights []flight.Flight
	if err := json.Unmarshal(trimmed, &flights); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return flights, nil
}

func parseBaseURL(raw, fallback string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = fallback
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
