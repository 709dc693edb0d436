package domain

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	apperrors "github.com/louisbranch/weather-mcp/internal/platform/errors"
	"github.com/louisbranch/weather-mcp/internal/services/weather/nws"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// AlertsToolName is the MCP name of the state alerts tool.
	AlertsToolName = "get-alerts"
	// ForecastToolName is the MCP name of the coordinate forecast tool.
	ForecastToolName = "get-forecast"
)

// WeatherClient is the weather-service collaborator the tools call.
type WeatherClient interface {
	Alerts(ctx context.Context, state string) ([]nws.Alert, error)
	Forecast(ctx context.Context, latitude, longitude float64) ([]nws.Period, error)
}

// AlertsInput represents the MCP tool input for state alerts.
type AlertsInput struct {
	State string `json:"state" jsonschema:"two-letter state code (e.g. CA, NY)"`
}

// Alert represents one active alert in MCP tool output.
type Alert struct {
	Event    string `json:"event" jsonschema:"alert event name"`
	Area     string `json:"area" jsonschema:"affected area description"`
	Severity string `json:"severity" jsonschema:"alert severity"`
	Status   string `json:"status" jsonschema:"alert status"`
	Headline string `json:"headline" jsonschema:"alert headline"`
}

// AlertsResult represents the MCP tool output for state alerts.
type AlertsResult struct {
	State  string  `json:"state" jsonschema:"normalized state code"`
	Alerts []Alert `json:"alerts" jsonschema:"active alerts for the state"`
}

// ForecastInput represents the MCP tool input for a coordinate forecast.
type ForecastInput struct {
	Latitude  float64 `json:"latitude" jsonschema:"latitude of the location"`
	Longitude float64 `json:"longitude" jsonschema:"longitude of the location"`
}

// ForecastPeriod represents one forecast period in MCP tool output.
type ForecastPeriod struct {
	Name            string `json:"name" jsonschema:"period name (e.g. Tonight)"`
	Temperature     *int   `json:"temperature,omitempty" jsonschema:"forecast temperature"`
	TemperatureUnit string `json:"temperature_unit" jsonschema:"temperature unit (F or C)"`
	WindSpeed       string `json:"wind_speed" jsonschema:"wind speed description"`
	WindDirection   string `json:"wind_direction" jsonschema:"wind direction"`
	ShortForecast   string `json:"short_forecast" jsonschema:"short forecast text"`
}

// ForecastResult represents the MCP tool output for a coordinate forecast.
type ForecastResult struct {
	Latitude  float64          `json:"latitude" jsonschema:"requested latitude"`
	Longitude float64          `json:"longitude" jsonschema:"requested longitude"`
	Periods   []ForecastPeriod `json:"periods" jsonschema:"forecast periods in upstream order"`
}

// AlertsTool defines the MCP tool schema for state alerts.
func AlertsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        AlertsToolName,
		Description: "Get weather alerts for a state",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"state": {
					Type:        "string",
					Description: "Two-letter state code (e.g. CA, NY)",
					MinLength:   intPtr(2),
					MaxLength:   intPtr(2),
					Pattern:     "^[A-Za-z]{2}$",
				},
			},
			Required: []string{"state"},
		},
	}
}

// ForecastTool defines the MCP tool schema for coordinate forecasts.
func ForecastTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        ForecastToolName,
		Description: "Get weather forecast for a location",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"latitude": {
					Type:        "number",
					Description: "Latitude of the location",
					Minimum:     float64Ptr(-90),
					Maximum:     float64Ptr(90),
				},
				"longitude": {
					Type:        "number",
					Description: "Longitude of the location",
					Minimum:     float64Ptr(-180),
					Maximum:     float64Ptr(180),
				},
			},
			Required: []string{"latitude", "longitude"},
		},
	}
}

// AlertsHandler looks up active alerts for a state.
func AlertsHandler(client WeatherClient) mcp.ToolHandlerFor[AlertsInput, AlertsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AlertsInput) (*mcp.CallToolResult, AlertsResult, error) {
		if client == nil {
			return nil, AlertsResult{}, fmt.Errorf("weather client is not configured")
		}
		state := strings.ToUpper(strings.TrimSpace(input.State))
		if len(state) != 2 {
			return nil, AlertsResult{}, fmt.Errorf("state must be a two-letter code, got %q", input.State)
		}

		runCtx, cancel := context.WithTimeout(ctx, weatherCallTimeout)
		defer cancel()

		alerts, err := client.Alerts(runCtx, state)
		if err != nil {
			log.Printf("%s state=%s: %v", AlertsToolName, state, err)
			return nil, AlertsResult{}, apperrors.CallerFacing(err)
		}

		result := AlertsResult{State: state, Alerts: make([]Alert, 0, len(alerts))}
		for _, alert := range alerts {
			result.Alerts = append(result.Alerts, Alert{
				Event:    alert.Event,
				Area:     alert.AreaDesc,
				Severity: alert.Severity,
				Status:   alert.Status,
				Headline: alert.Headline,
			})
		}
		return textResult(FormatAlerts(state, alerts)), result, nil
	}
}

// ForecastHandler looks up the forecast for a coordinate.
func ForecastHandler(client WeatherClient) mcp.ToolHandlerFor[ForecastInput, ForecastResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ForecastInput) (*mcp.CallToolResult, ForecastResult, error) {
		if client == nil {
			return nil, ForecastResult{}, fmt.Errorf("weather client is not configured")
		}
		if input.Latitude < -90 || input.Latitude > 90 {
			return nil, ForecastResult{}, fmt.Errorf("latitude %v is out of range", input.Latitude)
		}
		if input.Longitude < -180 || input.Longitude > 180 {
			return nil, ForecastResult{}, fmt.Errorf("longitude %v is out of range", input.Longitude)
		}

		runCtx, cancel := context.WithTimeout(ctx, weatherCallTimeout)
		defer cancel()

		periods, err := client.Forecast(runCtx, input.Latitude, input.Longitude)
		if err != nil {
			log.Printf("%s lat=%v lon=%v: %v", ForecastToolName, input.Latitude, input.Longitude, err)
			return nil, ForecastResult{}, apperrors.CallerFacing(err)
		}
		if len(periods) == 0 {
			return nil, ForecastResult{}, apperrors.New(apperrors.CodeCollaboratorFailure, "No forecast periods available")
		}

		result := ForecastResult{
			Latitude:  input.Latitude,
			Longitude: input.Longitude,
			Periods:   make([]ForecastPeriod, 0, len(periods)),
		}
		for _, period := range periods {
			result.Periods = append(result.Periods, ForecastPeriod{
				Name:            period.Name,
				Temperature:     period.Temperature,
				TemperatureUnit: period.TemperatureUnit,
				WindSpeed:       period.WindSpeed,
				WindDirection:   period.WindDirection,
				ShortForecast:   period.ShortForecast,
			})
		}
		return textResult(FormatForecast(input.Latitude, input.Longitude, periods)), result, nil
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func intPtr(v int) *int { return &v }

func float64Ptr(v float64) *float64 { return &v }
