package flightapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/five82/skyline/internal/flight"
)

// ErrNoUpstream is returned when no upstream URL is configured.
var ErrNoUpstream = errors.New("upstream url not configured")

// UpstreamPath is where the upstream publishes its flight list.
const UpstreamPath = "/interview/questions.json"

// Upstream fetches the raw flight list the server republishes.
type Upstream struct {
	url       *url.URL
	http      *http.Client
	userAgent string
}

// NewUpstream builds an Upstream for baseURL. An empty baseURL yields an
// Upstream whose fetches fail with ErrNoUpstream. timeout bounds each fetch.
func NewUpstream(baseURL string, timeout time.Duration) (*Upstream, error) {
	u := &Upstream{
		http:      &http.Client{Timeout: timeout},
		userAgent: "Mozilla/5.0",
	}
	if strings.TrimSpace(baseURL) == "" {
		return u, nil
	}
	base, err := parseBaseURL(baseURL, "")
	if err != nil {
		return nil, err
	}
	base.Path = strings.TrimRight(base.Path, "/") + UpstreamPath
	u.url = base
	return u, nil
}

// URL returns the resolved upstream address, or "" when unset.
func (u *Upstream) URL() string {
	if u == nil || u.url == nil {
		return ""
	}
	return u.url.String()
}

// FetchFlights retrieves the upstream list. Non-2xx responses, non-JSON
// content types, transport failures and timeouts are all errors.
func (u *Upstream) FetchFlights(ctx context.Context) ([]flight.Flight, error) {
	if u == nil || u.url == nil {
		return nil, ErrNoUpstream
	}
	var flights []flight.Flight
	err := doURL(ctx, u.http, u.url, requestOptions{
		userAgent:   u.userAgent,
		noCache:     true,
		requireJSON: true,
	}, func(body io.Reader) error {
		var err error
		flights, err = decodeFlights(body)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetch upstream: %w", err)
	}
	if flights == nil {
		flights = []flight.Flight{}
	}
	return flights, nil
}
