package weather

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agromitra/agromitra/internal/config"
	"github.com/agromitra/agromitra/pkg/telemetry"
)

func noopTelemetry(t *testing.T) *telemetry.Telemetry {
	t.Helper()
	tele, err := telemetry.New(context.Background(), config.TelemetryConfig{Enabled: false})
	require.NoError(t, err)
	return tele
}

func newTestFetcher(t *testing.T, cfg config.SourcesConfig) *Fetcher {
	t.Helper()
	if cfg.Timeout == 0 {
		cfg.Timeout = 2
	}
	return NewFetcher(cfg, zap.NewNop(), noopTelemetry(t))
}

// primaryUpstream fakes the OpenWeatherMap-shaped geocoder and 3-hourly
// forecast endpoints.
func primaryUpstream(t *testing.T, geoStatus, forecastStatus int, geoEmpty bool) (*httptest.Server, *int32, *int32) {
	t.Helper()
	var geoCalls, forecastCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/geo/direct", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&geoCalls, 1)
		if geoStatus != http.StatusOK {
			w.WriteHeader(geoStatus)
			return
		}
		if geoEmpty {
			json.NewEncoder(w).Encode([]geoResult{})
			return
		}
		json.NewEncoder(w).Encode([]geoResult{{Name: "Guntur", Country: "IN", Lat: 16.3, Lon: 80.44}})
	})
	mux.HandleFunc("/data/forecast", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&forecastCalls, 1)
		if forecastStatus != http.StatusOK {
			w.WriteHeader(forecastStatus)
			return
		}

		// 2 days of 3-hourly samples
		base := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
		list := make([]map[string]interface{}, 0, 16)
		for i := 0; i < 16; i++ {
			list = append(list, map[string]interface{}{
				"dt":      base.Add(time.Duration(i*3) * time.Hour).Unix(),
				"main":    map[string]interface{}{"temp": 30, "humidity": 70},
				"wind":    map[string]interface{}{"speed": 5},
				"rain":    map[string]interface{}{"3h": 0.2},
				"weather": []map[string]interface{}{{"description": "light rain"}},
			})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"city": map[string]interface{}{"name": "Guntur", "country": "IN", "timezone": 0},
			"list": list,
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &geoCalls, &forecastCalls
}

// secondaryUpstream fakes the WeatherAPI-shaped forecast endpoint.
func secondaryUpstream(t *testing.T, status int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/forecast.json", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}

		days := make([]map[string]interface{}, 0, 7)
		for i := 0; i < 7; i++ {
			days = append(days, map[string]interface{}{
				"date": time.Date(2025, time.July, 1+i, 0, 0, 0, 0, time.UTC).Format(DayFormat),
				"day": map[string]interface{}{
					"avgtemp_c":      30.4,
					"avghumidity":    70,
					"totalprecip_mm": 1.25,
					"condition":      map[string]interface{}{"text": "Partly cloudy"},
				},
			})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"location": map[string]interface{}{"name": "Guntur", "country": "India", "lat": 16.3, "lon": 80.44},
			"current": map[string]interface{}{
				"temp_c":    31.5,
				"humidity":  68,
				"wind_kph":  12,
				"condition": map[string]interface{}{"text": "Partly cloudy"},
			},
			"forecast": map[string]interface{}{"forecastday": days},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestFetchNoCredentialsAlwaysSimulates(t *testing.T) {
	f := newTestFetcher(t, config.SourcesConfig{})

	snap, err := f.Fetch(context.Background(), "Guntur")
	require.NoError(t, err)

	assert.True(t, snap.IsSimulated)
	assert.Equal(t, SimulationSourceName, snap.SourceName)
	assert.Equal(t, SimulationReliability, snap.ReliabilityScore)
	require.Len(t, snap.Forecast, 7)

	// Same calendar day, same location: identical output.
	again, err := f.Fetch(context.Background(), "Guntur")
	require.NoError(t, err)
	assert.Equal(t, snap, again)
}

func TestFetchPrimarySuccess(t *testing.T) {
	primary, geoCalls, forecastCalls := primaryUpstream(t, http.StatusOK, http.StatusOK, false)

	f := newTestFetcher(t, config.SourcesConfig{
		Primary: config.SourceConfig{
			APIKey:  "test-key",
			BaseURL: primary.URL + "/data",
			GeoURL:  primary.URL + "/geo",
		},
	})

	snap, err := f.Fetch(context.Background(), "Guntur")
	require.NoError(t, err)

	assert.False(t, snap.IsSimulated)
	assert.Equal(t, PrimarySourceName, snap.SourceName)
	assert.Equal(t, PrimaryReliability, snap.ReliabilityScore)
	assert.Equal(t, "Guntur", snap.Location.DisplayName)
	assert.Equal(t, "IN", snap.Location.Country)

	require.Len(t, snap.Forecast, 2)
	assert.Equal(t, 30, snap.Forecast[0].TempC)
	assert.Equal(t, 70, snap.Forecast[0].HumidityPct)
	assert.Equal(t, 1.6, snap.Forecast[0].RainMm, "8 samples x 0.2mm")
	assert.Equal(t, "light rain", snap.Forecast[0].Description)

	assert.Equal(t, 30.0, snap.Current.TempC)
	assert.Equal(t, 18.0, snap.Current.WindKph, "5 m/s is 18 km/h")

	assert.Equal(t, int32(1), atomic.LoadInt32(geoCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(forecastCalls))
}

func TestFetchFailoverToSecondary(t *testing.T) {
	primary, _, _ := primaryUpstream(t, http.StatusInternalServerError, http.StatusOK, false)
	secondary, secondaryCalls := secondaryUpstream(t, http.StatusOK)

	f := newTestFetcher(t, config.SourcesConfig{
		Primary: config.SourceConfig{
			APIKey:  "test-key",
			BaseURL: primary.URL + "/data",
			GeoURL:  primary.URL + "/geo",
		},
		Secondary: config.SourceConfig{
			APIKey:  "test-key",
			BaseURL: secondary.URL,
		},
	})

	snap, err := f.Fetch(context.Background(), "Guntur")
	require.NoError(t, err)

	assert.False(t, snap.IsSimulated)
	assert.Equal(t, SecondarySourceName, snap.SourceName)
	assert.Equal(t, SecondaryReliability, snap.ReliabilityScore)
	require.Len(t, snap.Forecast, 7)
	assert.Equal(t, 30, snap.Forecast[0].TempC)
	assert.Equal(t, 1.3, snap.Forecast[0].RainMm)

	assert.Equal(t, int32(1), atomic.LoadInt32(secondaryCalls), "exactly one secondary call")
}

func TestFetchGeocoderEmptyFallsThrough(t *testing.T) {
	primary, geoCalls, forecastCalls := primaryUpstream(t, http.StatusOK, http.StatusOK, true)
	secondary, _ := secondaryUpstream(t, http.StatusOK)

	f := newTestFetcher(t, config.SourcesConfig{
		Primary: config.SourceConfig{
			APIKey:  "test-key",
			BaseURL: primary.URL + "/data",
			GeoURL:  primary.URL + "/geo",
		},
		Secondary: config.SourceConfig{
			APIKey:  "test-key",
			BaseURL: secondary.URL,
		},
	})

	snap, err := f.Fetch(context.Background(), "Nowhereville")
	require.NoError(t, err)

	assert.Equal(t, SecondarySourceName, snap.SourceName)
	assert.Equal(t, int32(1), atomic.LoadInt32(geoCalls))
	assert.Equal(t, int32(0), atomic.LoadInt32(forecastCalls), "no forecast call after empty geocode")
}

func TestFetchAllTiersFailSimulates(t *testing.T) {
	primary, _, _ := primaryUpstream(t, http.StatusInternalServerError, http.StatusOK, false)
	secondary, _ := secondaryUpstream(t, http.StatusBadGateway)

	f := newTestFetcher(t, config.SourcesConfig{
		Primary: config.SourceConfig{
			APIKey:  "test-key",
			BaseURL: primary.URL + "/data",
			GeoURL:  primary.URL + "/geo",
		},
		Secondary: config.SourceConfig{
			APIKey:  "test-key",
			BaseURL: secondary.URL,
		},
	})

	snap, err := f.Fetch(context.Background(), "Guntur")
	require.NoError(t, err)

	assert.True(t, snap.IsSimulated)
	assert.Equal(t, SimulationSourceName, snap.SourceName)
	require.Len(t, snap.Forecast, 7)
}

func TestFetchEmptyLocation(t *testing.T) {
	f := newTestFetcher(t, config.SourcesConfig{})

	_, err := f.Fetch(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestFetchCancellation(t *testing.T) {
	f := newTestFetcher(t, config.SourcesConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx, "Guntur")
	require.ErrorIs(t, err, context.Canceled, "a cancelled fetch must not degrade into simulation")
}
