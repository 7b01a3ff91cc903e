package handlers

import (
	"github.com/agromitra/agromitra/internal/advisory"
	"github.com/agromitra/agromitra/internal/weather"
)

// WeatherRequest asks for a forecast by free-text place name.
type WeatherRequest struct {
	Location string `json:"location" binding:"required"`
}

// WeatherResponse is the snapshot wire shape. Exactly one of IsRealData
// or IsMockData is set; SimulationMode accompanies the latter so
// consumers can suppress safety-relevant advisories.
type WeatherResponse struct {
	Location         string                    `json:"location"`
	Country          string                    `json:"country"`
	Coordinates      weather.Coordinates       `json:"coordinates"`
	Current          weather.CurrentConditions `json:"current"`
	Forecast         []weather.DailyForecast   `json:"forecast"`
	Source           string                    `json:"source"`
	ReliabilityScore int                       `json:"reliabilityScore"`
	IsRealData       bool                      `json:"isRealData,omitempty"`
	IsMockData       bool                      `json:"isMockData,omitempty"`
	SimulationMode   bool                      `json:"simulationMode,omitempty"`
}

// GeocodeRequest binds the reverse-geocoding query parameters.
type GeocodeRequest struct {
	Lat *float64 `form:"lat" json:"lat" binding:"required"`
	Lon *float64 `form:"lon" json:"lon" binding:"required"`
}

// GeocodeResponse carries the resolved display address.
type GeocodeResponse struct {
	Address string `json:"address"`
}

// AlertsRequest asks for advisories for a place, optionally against a
// market snapshot.
type AlertsRequest struct {
	Location string                   `json:"location" binding:"required"`
	Crop     string                   `json:"crop"`
	Market   *advisory.MarketSnapshot `json:"market"`
}

// AlertsResponse pairs generated alerts with the provenance of the
// weather they were derived from.
type AlertsResponse struct {
	Location    string           `json:"location"`
	Source      string           `json:"source"`
	IsSimulated bool             `json:"isSimulated"`
	Alerts      []advisory.Alert `json:"alerts"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp,omitempty"`
}

func toWeatherResponse(snap weather.Snapshot) WeatherResponse {
	resp := WeatherResponse{
		Location:         snap.Location.DisplayName,
		Country:          snap.Location.Country,
		Coordinates:      snap.Location.Coordinates,
		Current:          snap.Current,
		Forecast:         snap.Forecast,
		Source:           snap.SourceName,
		ReliabilityScore: snap.ReliabilityScore,
	}
	if snap.IsSimulated {
		resp.IsMockData = true
		resp.SimulationMode = true
	} else {
		resp.IsRealData = true
	}
	return resp
}
