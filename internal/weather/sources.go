package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"
)

// Source names fixed by the failover chain. The secondary accepts a
// place name directly; the primary needs a geocoding step first.
const (
	PrimarySourceName   = "Primary API"
	SecondarySourceName = "Secondary API"

	PrimaryReliability   = 98
	SecondaryReliability = 97
)

// primaryForecastResponse mirrors the 3-hourly forecast payload of an
// OpenWeatherMap-shaped source.
type primaryForecastResponse struct {
	City struct {
		Name     string `json:"name"`
		Country  string `json:"country"`
		Timezone int    `json:"timezone"` // UTC offset in seconds
	} `json:"city"`
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"` // m/s
		} `json:"wind"`
		Rain struct {
			ThreeHours float64 `json:"3h"`
		} `json:"rain"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"list"`
}

// fetchPrimaryForecast pulls the sub-daily series for a resolved
// location and shapes it into samples plus the current conditions
// derived from the first sample. The second return value is the
// location's own zone (from the payload's UTC offset) so daily grouping
// follows the location's calendar, not the server's.
func (f *Fetcher) fetchPrimaryForecast(ctx context.Context, loc ResolvedLocation) ([]RawForecastSample, CurrentConditions, *time.Location, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.6f", loc.Coordinates.Latitude))
	q.Set("lon", fmt.Sprintf("%.6f", loc.Coordinates.Longitude))
	q.Set("units", "metric")
	q.Set("appid", f.cfg.Primary.APIKey)

	var payload primaryForecastResponse
	if err := f.getJSON(ctx, fmt.Sprintf("%s/forecast?%s", f.cfg.Primary.BaseURL, q.Encode()), &payload); err != nil {
		return nil, CurrentConditions{}, nil, err
	}

	if len(payload.List) == 0 {
		return nil, CurrentConditions{}, nil, fmt.Errorf("%w: empty forecast payload", ErrUpstream)
	}

	samples := make([]RawForecastSample, 0, len(payload.List))
	for _, entry := range payload.List {
		condition := ""
		if len(entry.Weather) > 0 {
			condition = entry.Weather[0].Description
		}
		samples = append(samples, RawForecastSample{
			Timestamp:    time.Unix(entry.Dt, 0),
			TemperatureC: entry.Main.Temp,
			HumidityPct:  entry.Main.Humidity,
			WindSpeedMps: entry.Wind.Speed,
			PrecipMm:     entry.Rain.ThreeHours,
			Condition:    condition,
		})
	}

	first := samples[0]
	current := CurrentConditions{
		TempC:     first.TemperatureC,
		Condition: Condition{Text: first.Condition},
		Humidity:  int(first.HumidityPct),
		WindKph:   round1(first.WindSpeedMps * 3.6),
	}

	zone := time.FixedZone("forecast-local", payload.City.Timezone)
	return samples, current, zone, nil
}

// secondaryForecastResponse mirrors a WeatherAPI-shaped payload, which
// carries current conditions and already-daily forecast blocks.
type secondaryForecastResponse struct {
	Location struct {
		Name    string  `json:"name"`
		Country string  `json:"country"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	} `json:"location"`
	Current struct {
		TempC     float64 `json:"temp_c"`
		Humidity  int     `json:"humidity"`
		WindKph   float64 `json:"wind_kph"`
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
	Forecast struct {
		Forecastday []struct {
			Date string `json:"date"`
			Day  struct {
				AvgTempC      float64 `json:"avgtemp_c"`
				AvgHumidity   float64 `json:"avghumidity"`
				TotalPrecipMm float64 `json:"totalprecip_mm"`
				Condition     struct {
					Text string `json:"text"`
				} `json:"condition"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

// fetchSecondary queries the secondary source by place name and builds
// a full snapshot in one call.
func (f *Fetcher) fetchSecondary(ctx context.Context, locationText string) (*Snapshot, error) {
	q := url.Values{}
	q.Set("key", f.cfg.Secondary.APIKey)
	q.Set("q", locationText)
	q.Set("days", "7")

	var payload secondaryForecastResponse
	if err := f.getJSON(ctx, fmt.Sprintf("%s/forecast.json?%s", f.cfg.Secondary.BaseURL, q.Encode()), &payload); err != nil {
		return nil, err
	}

	if len(payload.Forecast.Forecastday) == 0 {
		return nil, fmt.Errorf("%w: empty forecast payload", ErrUpstream)
	}

	forecast := make([]DailyForecast, 0, maxForecastDays)
	for _, fd := range payload.Forecast.Forecastday {
		if len(forecast) >= maxForecastDays {
			break
		}
		forecast = append(forecast, DailyForecast{
			Date:        fd.Date,
			TempC:       int(math.Round(fd.Day.AvgTempC)),
			HumidityPct: int(math.Round(fd.Day.AvgHumidity)),
			RainMm:      round1(fd.Day.TotalPrecipMm),
			Description: fd.Day.Condition.Text,
		})
	}

	return &Snapshot{
		Location: ResolvedLocation{
			DisplayName: payload.Location.Name,
			Country:     payload.Location.Country,
			Coordinates: Coordinates{
				Latitude:  payload.Location.Lat,
				Longitude: payload.Location.Lon,
			},
		},
		Current: CurrentConditions{
			TempC:     payload.Current.TempC,
			Condition: Condition{Text: payload.Current.Condition.Text},
			Humidity:  payload.Current.Humidity,
			WindKph:   payload.Current.WindKph,
		},
		Forecast:         forecast,
		IsSimulated:      false,
		SourceName:       SecondarySourceName,
		ReliabilityScore: SecondaryReliability,
	}, nil
}

func (f *Fetcher) getJSON(ctx context.Context, requestURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return nil
}
