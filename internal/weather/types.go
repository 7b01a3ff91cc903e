package weather

import "time"

// DayFormat is the locale-independent calendar-day key used for grouping
// sub-daily samples and for forecast dates on the wire.
const DayFormat = "2006-01-02"

// Coordinates is a validated latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Valid reports whether the pair lies inside the WGS84 ranges.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// ResolvedLocation is a normalized place produced by the geocoder.
// Immutable once produced.
type ResolvedLocation struct {
	DisplayName string      `json:"displayName"`
	Country     string      `json:"country"`
	Coordinates Coordinates `json:"coordinates"`
}

// RawForecastSample is one sub-daily observation as emitted by a live
// upstream source. Samples are never fabricated; the simulation tier
// produces daily summaries directly.
type RawForecastSample struct {
	Timestamp    time.Time
	TemperatureC float64
	HumidityPct  float64
	WindSpeedMps float64
	PrecipMm     float64
	Condition    string
}

// Condition wraps the free-text condition for the wire shape.
type Condition struct {
	Text string `json:"text"`
}

// CurrentConditions describes the weather right now.
type CurrentConditions struct {
	TempC     float64   `json:"temp_c"`
	Condition Condition `json:"condition"`
	Humidity  int       `json:"humidity"`
	WindKph   float64   `json:"wind_kph"`
}

// DailyForecast is one calendar day collapsed from sub-daily samples.
type DailyForecast struct {
	Date        string  `json:"date"`
	TempC       int     `json:"temp"`
	HumidityPct int     `json:"humidity"`
	RainMm      float64 `json:"rain"`
	Description string  `json:"description"`
}

// Snapshot is the sole artifact the fetcher returns: a fully formed
// forecast tagged with provenance. Created fresh per request, never
// cached or mutated after construction. Consumers use IsSimulated,
// SourceName and ReliabilityScore to decide whether the data is
// trustworthy enough for safety-relevant advisories.
type Snapshot struct {
	Location         ResolvedLocation
	Current          CurrentConditions
	Forecast         []DailyForecast
	IsSimulated      bool
	SourceName       string
	ReliabilityScore int
}

// SourceStatus is a read-only view of one tier's configuration state,
// recomputed on each query.
type SourceStatus struct {
	SourceName       string `json:"sourceName"`
	Configured       bool   `json:"configured"`
	ReliabilityScore int    `json:"reliabilityScore"`
}
