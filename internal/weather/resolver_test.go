package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agromitra/agromitra/internal/config"
)

func geocoderUpstream(t *testing.T, body string, status int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestResolver(t *testing.T, geoURL, apiKey string) *Resolver {
	t.Helper()
	return NewResolver(config.SourcesConfig{
		Primary: config.SourceConfig{APIKey: apiKey, GeoURL: geoURL},
		Timeout: 2,
	}, zap.NewNop())
}

func TestResolveByNameSuccess(t *testing.T) {
	srv, calls := geocoderUpstream(t, `[{"name":"Guntur","country":"IN","lat":16.3,"lon":80.44}]`, http.StatusOK)
	r := newTestResolver(t, srv.URL, "test-key")

	loc, err := r.ResolveByName(context.Background(), "Guntur")
	require.NoError(t, err)

	assert.Equal(t, "Guntur", loc.DisplayName)
	assert.Equal(t, "IN", loc.Country)
	assert.InDelta(t, 16.3, loc.Coordinates.Latitude, 1e-9)
	assert.InDelta(t, 80.44, loc.Coordinates.Longitude, 1e-9)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls), "exactly one geocoding request per call")
}

func TestResolveByNameEmptyInput(t *testing.T) {
	srv, calls := geocoderUpstream(t, `[]`, http.StatusOK)
	r := newTestResolver(t, srv.URL, "test-key")

	_, err := r.ResolveByName(context.Background(), "  ")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(calls), "validation must happen before any network call")
}

func TestResolveByNameNotFound(t *testing.T) {
	srv, _ := geocoderUpstream(t, `[]`, http.StatusOK)
	r := newTestResolver(t, srv.URL, "test-key")

	_, err := r.ResolveByName(context.Background(), "Nowhereville")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveByNameNotConfigured(t *testing.T) {
	srv, calls := geocoderUpstream(t, `[]`, http.StatusOK)
	r := newTestResolver(t, srv.URL, "")

	_, err := r.ResolveByName(context.Background(), "Guntur")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestResolveByNameUpstreamError(t *testing.T) {
	srv, _ := geocoderUpstream(t, `oops`, http.StatusInternalServerError)
	r := newTestResolver(t, srv.URL, "test-key")

	_, err := r.ResolveByName(context.Background(), "Guntur")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestResolveByNameMalformedPayload(t *testing.T) {
	srv, _ := geocoderUpstream(t, `{"not":"an array"}`, http.StatusOK)
	r := newTestResolver(t, srv.URL, "test-key")

	_, err := r.ResolveByName(context.Background(), "Guntur")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestResolveByCoordinates(t *testing.T) {
	srv, _ := geocoderUpstream(t, `[{"name":"Guntur","country":"IN","lat":16.3,"lon":80.44}]`, http.StatusOK)
	r := newTestResolver(t, srv.URL, "test-key")

	loc, err := r.ResolveByCoordinates(context.Background(), 16.3, 80.44)
	require.NoError(t, err)
	assert.Equal(t, "Guntur", loc.DisplayName)
}

func TestResolveByCoordinatesValidation(t *testing.T) {
	srv, calls := geocoderUpstream(t, `[]`, http.StatusOK)
	r := newTestResolver(t, srv.URL, "test-key")

	tests := []struct {
		name     string
		lat, lon float64
	}{
		{"latitude too high", 90.1, 0},
		{"latitude too low", -90.1, 0},
		{"longitude too high", 0, 180.1},
		{"longitude too low", 0, -180.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.ResolveByCoordinates(context.Background(), tt.lat, tt.lon)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
		})
	}

	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestCoordinatesValid(t *testing.T) {
	assert.True(t, Coordinates{Latitude: 90, Longitude: 180}.Valid())
	assert.True(t, Coordinates{Latitude: -90, Longitude: -180}.Valid())
	assert.False(t, Coordinates{Latitude: 90.001, Longitude: 0}.Valid())
	assert.False(t, Coordinates{Latitude: 0, Longitude: -180.001}.Valid())
}
