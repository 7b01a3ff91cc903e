package weather

import (
	"math"
	"time"
)

const (
	SimulationSourceName  = "Simulation"
	SimulationReliability = 85
)

// season carries the fixed climate constants the simulator perturbs.
// The calendar mapping is Northern-hemisphere / India-centric.
type season struct {
	name       string
	baseTempC  float64
	baseHumid  float64
	amplitude  float64
	rainFactor float64
	conditions []string
}

var (
	seasonSummer = season{
		name: "Summer", baseTempC: 34, baseHumid: 40, amplitude: 4, rainFactor: 1,
		conditions: []string{"Sunny", "Clear skies", "Hot and dry", "Partly cloudy"},
	}
	seasonMonsoon = season{
		name: "Monsoon", baseTempC: 28, baseHumid: 82, amplitude: 3, rainFactor: 14,
		conditions: []string{"Heavy rain", "Light rain", "Overcast", "Thunderstorms"},
	}
	seasonPostMonsoon = season{
		name: "Post-Monsoon", baseTempC: 29, baseHumid: 65, amplitude: 3, rainFactor: 6,
		conditions: []string{"Partly cloudy", "Light rain", "Clear skies", "Humid"},
	}
	seasonWinter = season{
		name: "Winter", baseTempC: 23, baseHumid: 50, amplitude: 4, rainFactor: 2,
		conditions: []string{"Clear skies", "Misty morning", "Sunny", "Cool and dry"},
	}
)

func seasonFor(m time.Month) season {
	switch {
	case m >= time.February && m <= time.April:
		return seasonSummer
	case m >= time.May && m <= time.August:
		return seasonMonsoon
	case m == time.September:
		return seasonPostMonsoon
	default:
		return seasonWinter
	}
}

// locationHash is a polynomial rolling hash wrapping at 32-bit signed,
// so the simulated curve is a pure function of the location string.
func locationHash(s string) int32 {
	var h int32
	for _, r := range s {
		h = int32(r) + (h << 5) - h
	}
	return h
}

// Simulate produces a reproducible synthetic 7-day forecast from the
// location string alone. Total function: never fails, no I/O. Only the
// calendar date of ref matters, so two calls on the same day with the
// same location are identical down to the byte.
func Simulate(locationText string, ref time.Time) Snapshot {
	h := locationHash(locationText)
	hf := float64(h % 1000)
	sn := seasonFor(ref.Month())
	daySeed := ref.Day()
	condSeed := int(uint32(h) % 8191)

	forecast := make([]DailyForecast, 0, 7)
	for i := 0; i < 7; i++ {
		variation := math.Sin(float64(i+daySeed)) * sn.amplitude
		locOffset := math.Sin(hf) * 3
		humidity := clampInt(int(math.Round(sn.baseHumid+math.Cos(hf+float64(i))*10)), 20, 100)
		rain := round1(math.Max(0, math.Sin(hf+float64(2*i))) * sn.rainFactor)

		forecast = append(forecast, DailyForecast{
			Date:        ref.AddDate(0, 0, i).Format(DayFormat),
			TempC:       int(math.Round(sn.baseTempC + variation + locOffset)),
			HumidityPct: humidity,
			RainMm:      rain,
			Description: sn.conditions[(condSeed+daySeed+i)%len(sn.conditions)],
		})
	}

	// Current conditions come from day 0 so current and forecast can
	// never disagree.
	today := forecast[0]
	current := CurrentConditions{
		TempC:     float64(today.TempC),
		Condition: Condition{Text: today.Description},
		Humidity:  today.HumidityPct,
		WindKph:   round1(6 + math.Abs(math.Cos(hf))*22),
	}

	return Snapshot{
		Location: ResolvedLocation{
			DisplayName: locationText,
		},
		Current:          current,
		Forecast:         forecast,
		IsSimulated:      true,
		SourceName:       SimulationSourceName,
		ReliabilityScore: SimulationReliability,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
