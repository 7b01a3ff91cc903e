package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateDeterminism(t *testing.T) {
	ref := time.Date(2025, time.June, 14, 9, 30, 0, 0, time.UTC)

	first := Simulate("Guntur", ref)
	second := Simulate("Guntur", ref)

	assert.Equal(t, first, second, "identical inputs must produce identical snapshots")
}

func TestSimulateIgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2025, time.June, 14, 6, 0, 0, 0, time.UTC)
	evening := time.Date(2025, time.June, 14, 22, 45, 12, 0, time.UTC)

	assert.Equal(t, Simulate("Guntur", morning), Simulate("Guntur", evening),
		"only the calendar date of the reference time may matter")
}

func TestSimulateSeedSensitivity(t *testing.T) {
	ref := time.Date(2025, time.June, 14, 0, 0, 0, 0, time.UTC)

	a := Simulate("Guntur", ref)
	b := Simulate("Vijayawada", ref)

	tempsA := make([]int, 0, 7)
	tempsB := make([]int, 0, 7)
	for i := range a.Forecast {
		tempsA = append(tempsA, a.Forecast[i].TempC)
		tempsB = append(tempsB, b.Forecast[i].TempC)
	}

	assert.NotEqual(t, tempsA, tempsB, "distinct locations should produce distinct temperature curves")
}

func TestSimulateShape(t *testing.T) {
	ref := time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC)
	snap := Simulate("Guntur", ref)

	require.Len(t, snap.Forecast, 7)
	assert.True(t, snap.IsSimulated)
	assert.Equal(t, SimulationSourceName, snap.SourceName)
	assert.Equal(t, SimulationReliability, snap.ReliabilityScore)
	assert.Equal(t, "Guntur", snap.Location.DisplayName)

	for i, day := range snap.Forecast {
		assert.Equal(t, ref.AddDate(0, 0, i).Format(DayFormat), day.Date)
		assert.GreaterOrEqual(t, day.HumidityPct, 20)
		assert.LessOrEqual(t, day.HumidityPct, 100)
		assert.GreaterOrEqual(t, day.RainMm, 0.0)
		assert.NotEmpty(t, day.Description)
	}
}

func TestSimulateCurrentMatchesDayZero(t *testing.T) {
	snap := Simulate("Guntur", time.Date(2025, time.August, 20, 0, 0, 0, 0, time.UTC))

	today := snap.Forecast[0]
	assert.Equal(t, float64(today.TempC), snap.Current.TempC)
	assert.Equal(t, today.HumidityPct, snap.Current.Humidity)
	assert.Equal(t, today.Description, snap.Current.Condition.Text)
}

func TestSeasonFor(t *testing.T) {
	tests := []struct {
		month time.Month
		want  string
	}{
		{time.January, "Winter"},
		{time.February, "Summer"},
		{time.April, "Summer"},
		{time.May, "Monsoon"},
		{time.August, "Monsoon"},
		{time.September, "Post-Monsoon"},
		{time.October, "Winter"},
		{time.December, "Winter"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, seasonFor(tt.month).name, "month %s", tt.month)
	}
}

func TestLocationHash(t *testing.T) {
	assert.Equal(t, locationHash("Guntur"), locationHash("Guntur"))
	assert.NotEqual(t, locationHash("Guntur"), locationHash("Vijayawada"))
	assert.Equal(t, int32(0), locationHash(""))
}
