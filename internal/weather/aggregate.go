package weather

import (
	"math"
	"time"
)

// maxForecastDays caps a Snapshot's forecast length.
const maxForecastDays = 7

type dayBucket struct {
	tempSum  float64
	humidSum float64
	rainSum  float64
	count    int
	// condition of the first sample in the group; no voting
	condition string
}

// AggregateDaily collapses a time-ordered sequence of sub-daily samples
// into per-day summaries, keyed by the calendar day of each timestamp in
// zone. Grouping preserves first-seen date order; once seven distinct
// dates exist, samples for any further date are discarded outright.
// An empty input yields an empty output.
func AggregateDaily(samples []RawForecastSample, zone *time.Location) []DailyForecast {
	if zone == nil {
		zone = time.Local
	}

	order := make([]string, 0, maxForecastDays)
	buckets := make(map[string]*dayBucket, maxForecastDays)

	for _, s := range samples {
		day := s.Timestamp.In(zone).Format(DayFormat)
		b, ok := buckets[day]
		if !ok {
			if len(order) >= maxForecastDays {
				continue
			}
			b = &dayBucket{condition: s.Condition}
			buckets[day] = b
			order = append(order, day)
		}
		b.tempSum += s.TemperatureC
		b.humidSum += s.HumidityPct
		b.rainSum += s.PrecipMm
		b.count++
	}

	out := make([]DailyForecast, 0, len(order))
	for _, day := range order {
		b := buckets[day]
		n := float64(b.count)
		out = append(out, DailyForecast{
			Date:        day,
			TempC:       int(math.Round(b.tempSum / n)),
			HumidityPct: int(math.Round(b.humidSum / n)),
			RainMm:      round1(b.rainSum),
			Description: b.condition,
		})
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
