package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/five82/skyline/internal/cache"
	"github.com/five82/skyline/internal/flight"
	"github.com/five82/skyline/internal/query"
)

type mockUpstream struct {
	mock.Mock
}

func (m *mockUpstream) FetchFlights(ctx context.Context) ([]flight.Flight, error) {
	args := m.Called(ctx)
	flights, _ := args.Get(0).([]flight.Flight)
	return flights, args.Error(1)
}

var liveFlights = []flight.Flight{
	{ID: "LIVE1", Airline: flight.Airline{Code: "GA", Name: "Garuda Indonesia"}, Duration: 90},
}

func newTestServer(t *testing.T, up Upstream, opts Options) (*httptest.Server, *Metrics) {
	t.Helper()
	fallback, err := FallbackFlights()
	require.NoError(t, err)

	metrics := NewMetrics()
	q := query.New(cache.NewMemory(time.Hour, time.Hour), time.Hour)
	provider := NewProvider(up, q, fallback, metrics)
	if opts.RateLimitRPS == 0 {
		opts.RateLimitRPS = 100
		opts.RateLimitBurst = 100
	}
	srv := httptest.NewServer(New(provider, metrics, opts).Handler())
	t.Cleanup(srv.Close)
	return srv, metrics
}

func getEnvelope(t *testing.T, url string) (flight.Envelope, *http.Response) {
	t.Helper()
	resp, err := http.Get(url + "/api/flights")
	require.NoError(t, err)
	defer resp.Body.Close()

	var env flight.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env, resp
}

func TestFallbackFlights_Valid(t *testing.T) {
	flights, err := FallbackFlights()
	require.NoError(t, err)
	require.NotEmpty(t, flights)

	for _, f := range flights {
		_, err := flight.ParseDeparture(f, time.UTC)
		assert.NoError(t, err, "flight %s", f.ID)
		assert.GreaterOrEqual(t, f.Duration, 0)
		assert.GreaterOrEqual(t, f.Price.Amount, 0.0)
	}
}

func TestFlights_ServesUpstreamAndCaches(t *testing.T) {
	up := &mockUpstream{}
	up.On("FetchFlights", mock.Anything).Return(liveFlights, nil).Once()

	srv, _ := newTestServer(t, up, Options{})

	env, resp := getEnvelope(t, srv.URL)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, flight.SourceAPI, env.Source)
	assert.Equal(t, successMessage, env.Message)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "LIVE1", env.Data[0].ID)

	again, _ := getEnvelope(t, srv.URL)
	assert.Equal(t, env, again)
	up.AssertNumberOfCalls(t, "FetchFlights", 1)
}

func TestFlights_FallsBackOnUpstreamFailure(t *testing.T) {
	up := &mockUpstream{}
	up.On("FetchFlights", mock.Anything).Return(nil, errors.New("status 502"))

	srv, _ := newTestServer(t, up, Options{})
	fallback, _ := FallbackFlights()

	env, resp := getEnvelope(t, srv.URL)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, flight.SourceLocalFallback, env.Source)
	assert.Contains(t, env.Message, "Using local flight data due to API failure")
	assert.Contains(t, env.Message, "status 502")
	assert.Equal(t, fallback, env.Data)

	// Failures are not cached; the next request retries upstream.
	getEnvelope(t, srv.URL)
	up.AssertNumberOfCalls(t, "FetchFlights", 2)
}

func TestRateLimiter_RejectsBurst(t *testing.T) {
	up := &mockUpstream{}
	up.On("FetchFlights", mock.Anything).Return(liveFlights, nil)

	srv, _ := newTestServer(t, up, Options{RateLimitRPS: 0.001, RateLimitBurst: 2, LimitLoopback: true})

	codes := make([]int, 0, 3)
	for range 3 {
		resp, err := http.Get(srv.URL + "/api/flights")
		require.NoError(t, err)
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// Health checks bypass the limiter.
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRateLimiter_ExemptsLoopbackByDefault(t *testing.T) {
	l := NewRateLimiter(0.001, 1, false)
	for range 5 {
		assert.True(t, l.Allow("127.0.0.1"))
	}
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
}

func TestMetricsEndpoint(t *testing.T) {
	up := &mockUpstream{}
	up.On("FetchFlights", mock.Anything).Return(nil, errors.New("down"))

	srv, _ := newTestServer(t, up, Options{})
	getEnvelope(t, srv.URL)

	scrape := func() string {
		resp, err := http.Get(srv.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return string(body)
	}

	// The request counter is written after the response body is flushed.
	assert.Eventually(t, func() bool {
		return strings.Contains(scrape(), `skyline_http_requests_total{endpoint="/api/flights",method="GET",status_code="200"} 1`)
	}, time.Second, 10*time.Millisecond)

	text := scrape()
	assert.Contains(t, text, `skyline_upstream_fetch_total{result="error"} 1`)
	assert.Contains(t, text, "skyline_fallback_served_total 1")
}

func TestRequestID_Propagates(t *testing.T) {
	up := &mockUpstream{}
	srv, _ := newTestServer(t, up, Options{})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}
