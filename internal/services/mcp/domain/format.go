package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/louisbranch/weather-mcp/internal/services/weather/nws"
)

// FormatAlert renders one alert as a text block.
func FormatAlert(alert nws.Alert) string {
	return strings.Join([]string{
		"Event: " + orDefault(alert.Event, "Unknown"),
		"Area: " + orDefault(alert.AreaDesc, "Unknown"),
		"Severity: " + orDefault(alert.Severity, "Unknown"),
		"Status: " + orDefault(alert.Status, "Unknown"),
		"Headline: " + orDefault(alert.Headline, "No headline"),
		"---",
	}, "\n")
}

// FormatAlerts renders the alerts tool text for a state.
func FormatAlerts(state string, alerts []nws.Alert) string {
	if len(alerts) == 0 {
		return "No active alerts for " + state
	}
	blocks := make([]string, 0, len(alerts))
	for _, alert := range alerts {
		blocks = append(blocks, FormatAlert(alert))
	}
	return fmt.Sprintf("Active alerts for %s:\n\n%s", state, strings.Join(blocks, "\n"))
}

// FormatPeriod renders one forecast period as a text block.
func FormatPeriod(period nws.Period) string {
	temperature := "Unknown"
	if period.Temperature != nil {
		temperature = strconv.Itoa(*period.Temperature)
	}
	return strings.Join([]string{
		orDefault(period.Name, "Unknown") + ":",
		fmt.Sprintf("Temperature: %s°%s", temperature, orDefault(period.TemperatureUnit, "F")),
		fmt.Sprintf("Wind: %s %s", orDefault(period.WindSpeed, "Unknown"), period.WindDirection),
		orDefault(period.ShortForecast, "No forecast available"),
		"---",
	}, "\n")
}

// FormatForecast renders the forecast tool text for a coordinate.
func FormatForecast(latitude, longitude float64, periods []nws.Period) string {
	blocks := make([]string, 0, len(periods))
	for _, period := range periods {
		blocks = append(blocks, FormatPeriod(period))
	}
	return fmt.Sprintf("Forecast for %s, %s:\n\n%s",
		strconv.FormatFloat(latitude, 'f', -1, 64),
		strconv.FormatFloat(longitude, 'f', -1, 64),
		strings.Join(blocks, "\n"),
	)
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
