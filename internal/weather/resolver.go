package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agromitra/agromitra/internal/config"
)

// Resolver turns a free-text place name or a coordinate pair into a
// normalized location using the primary source's geocoder. It issues
// exactly one outbound request per call and never falls back to
// fabricated data: a zero-match result surfaces as ErrNotFound.
type Resolver struct {
	apiKey string
	geoURL string
	client *http.Client
	logger *zap.Logger
}

func NewResolver(cfg config.SourcesConfig, logger *zap.Logger) *Resolver {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 || timeout > 10*time.Second {
		timeout = 10 * time.Second
	}
	return &Resolver{
		apiKey: cfg.Primary.APIKey,
		geoURL: cfg.Primary.GeoURL,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type geoResult struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// ResolveByName geocodes a place name. Validation happens before any
// network call.
func (r *Resolver) ResolveByName(ctx context.Context, text string) (ResolvedLocation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ResolvedLocation{}, &ValidationError{Field: "location", Reason: "must not be empty"}
	}
	if r.apiKey == "" {
		return ResolvedLocation{}, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("q", text)
	q.Set("limit", "1")
	q.Set("appid", r.apiKey)

	return r.geocode(ctx, fmt.Sprintf("%s/direct?%s", r.geoURL, q.Encode()))
}

// ResolveByCoordinates reverse-geocodes a coordinate pair.
func (r *Resolver) ResolveByCoordinates(ctx context.Context, lat, lon float64) (ResolvedLocation, error) {
	coords := Coordinates{Latitude: lat, Longitude: lon}
	if !coords.Valid() {
		return ResolvedLocation{}, &ValidationError{
			Field:  "coordinates",
			Reason: "latitude must be in [-90,90] and longitude in [-180,180]",
		}
	}
	if r.apiKey == "" {
		return ResolvedLocation{}, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.6f", lat))
	q.Set("lon", fmt.Sprintf("%.6f", lon))
	q.Set("limit", "1")
	q.Set("appid", r.apiKey)

	return r.geocode(ctx, fmt.Sprintf("%s/reverse?%s", r.geoURL, q.Encode()))
}

func (r *Resolver) geocode(ctx context.Context, requestURL string) (ResolvedLocation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return ResolvedLocation{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return ResolvedLocation{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ResolvedLocation{}, fmt.Errorf("%w: geocoder status %d", ErrUpstream, resp.StatusCode)
	}

	var results []geoResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return ResolvedLocation{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if len(results) == 0 {
		return ResolvedLocation{}, ErrNotFound
	}

	first := results[0]
	r.logger.Debug("Geocoder match",
		zap.String("name", first.Name),
		zap.String("country", first.Country))

	return ResolvedLocation{
		DisplayName: first.Name,
		Country:     first.Country,
		Coordinates: Coordinates{Latitude: first.Lat, Longitude: first.Lon},
	}, nil
}
