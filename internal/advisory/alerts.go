package advisory

import (
	"fmt"
	"strings"
	"time"

	"github.com/agromitra/agromitra/internal/weather"
)

type Category string

const (
	CategoryWeather Category = "weather"
	CategoryPest    Category = "pest"
	CategoryMarket  Category = "market"
	CategoryGeneral Category = "general"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert is an advisory emitted from threshold rules. Persistence is the
// caller's concern; the generator never mutates what it has emitted.
type Alert struct {
	Category  Category  `json:"category"`
	Severity  Severity  `json:"severity"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// PricePoint is one historical average price for a commodity.
type PricePoint struct {
	Date     string  `json:"date"`
	AvgPrice float64 `json:"avgPrice"`
}

// MarketSnapshot is the market view evaluated by the price-drop rule.
type MarketSnapshot struct {
	Commodity  string       `json:"commodity"`
	ModalPrice float64      `json:"modalPrice"`
	History    []PricePoint `json:"history"`
}

// Generator evaluates weather and market snapshots against fixed
// threshold rules. Pure computation, no I/O.
type Generator struct {
	now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// Generate runs every rule independently and returns the alerts in rule
// order, possibly none. A missing field short-circuits only its own
// rule: an absent market snapshot never suppresses weather alerts and
// vice versa.
func (g *Generator) Generate(snap weather.Snapshot, market *MarketSnapshot, cropLabel string) []Alert {
	var alerts []Alert
	createdAt := g.now()

	cur := snap.Current
	hasCurrent := cur != (weather.CurrentConditions{})

	if hasCurrent && cur.TempC > 35 {
		alerts = append(alerts, Alert{
			Category: CategoryWeather,
			Severity: SeverityWarning,
			Title:    "High Heat Warning",
			Message: fmt.Sprintf("Temperature of %.0f°C expected. Irrigate %s in the early morning or late evening.",
				cur.TempC, cropOrField(cropLabel)),
			CreatedAt: createdAt,
		})
	}

	if hasCurrent {
		condition := strings.ToLower(cur.Condition.Text)
		if strings.Contains(condition, "rain") || strings.Contains(condition, "storm") {
			alerts = append(alerts, Alert{
				Category: CategoryWeather,
				Severity: SeverityCritical,
				Title:    "Rain Alert",
				Message: fmt.Sprintf("%s expected. Postpone spraying and fertilizer application for %s.",
					cur.Condition.Text, cropOrField(cropLabel)),
				CreatedAt: createdAt,
			})
		}
	}

	if hasCurrent && cur.WindKph > 30 {
		alerts = append(alerts, Alert{
			Category: CategoryWeather,
			Severity: SeverityWarning,
			Title:    "High Winds",
			Message: fmt.Sprintf("Wind speeds of %.0f km/h expected. Secure young plants and delay pesticide spraying.",
				cur.WindKph),
			CreatedAt: createdAt,
		})
	}

	if market != nil && len(market.History) > 0 {
		lastAvg := market.History[len(market.History)-1].AvgPrice
		if lastAvg > 0 && market.ModalPrice < lastAvg*0.9 {
			alerts = append(alerts, Alert{
				Category: CategoryMarket,
				Severity: SeverityCritical,
				Title:    "Price Drop Alert",
				Message: fmt.Sprintf("%s modal price fell to %.0f, more than 10%% below the recent average of %.0f. Consider holding your stock.",
					market.Commodity, market.ModalPrice, lastAvg),
				CreatedAt: createdAt,
			})
		}
	}

	return alerts
}

func cropOrField(cropLabel string) string {
	if strings.TrimSpace(cropLabel) == "" {
		return "your crop"
	}
	return cropLabel
}
