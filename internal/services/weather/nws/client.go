package nws

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/weather-mcp/internal/platform/errors"
	platformotel "github.com/louisbranch/weather-mcp/internal/platform/otel"
	"github.com/louisbranch/weather-mcp/internal/platform/timeouts"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultBaseURL is the public NWS API root.
	DefaultBaseURL = "https://api.weather.gov"
	// DefaultUserAgent identifies this client; NWS rejects requests without one.
	DefaultUserAgent = "weather-app/1.0"

	acceptGeoJSON = "application/geo+json"

	// maxBodyBytes bounds how much of an upstream response is decoded.
	maxBodyBytes = 4 << 20
)

// Config configures a Client. Zero values fall back to the public API
// defaults.
type Config struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client reads alerts and forecasts from the NWS API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	tracer     trace.Tracer
}

// NewClient builds a Client from cfg.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = timeouts.WeatherRequest
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: httpClient,
		tracer:     platformotel.Tracer("nws"),
	}
}

// Alerts returns the active alerts for a two-letter state code.
func (c *Client) Alerts(ctx context.Context, state string) ([]Alert, error) {
	state = strings.ToUpper(strings.TrimSpace(state))
	endpoint := c.baseURL + "/alerts?area=" + url.QueryEscape(state)

	var payload alertsResponse
	if err := c.getJSON(ctx, "alerts", endpoint, &payload); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCollaboratorFailure, "Failed to retrieve alerts data", err)
	}

	alerts := make([]Alert, 0, len(payload.Features))
	for _, feature := range payload.Features {
		alerts = append(alerts, feature.Properties)
	}
	return alerts, nil
}

// Forecast resolves the grid point for a coordinate and returns its forecast
// periods. An empty slice means NWS answered with no periods.
func (c *Client) Forecast(ctx context.Context, latitude, longitude float64) ([]Period, error) {
	endpoint := fmt.Sprintf("%s/points/%s,%s", c.baseURL, fixed4(latitude), fixed4(longitude))

	var point pointsResponse
	if err := c.getJSON(ctx, "points", endpoint, &point); err != nil {
		message := fmt.Sprintf(
			"Failed to retrieve grid point data for coordinates: %s, %s. This location may not be supported by the NWS API (only US locations are supported).",
			formatCoordinate(latitude), formatCoordinate(longitude),
		)
		return nil, apperrors.Wrap(apperrors.CodeCollaboratorFailure, message, err)
	}

	forecastURL := strings.TrimSpace(point.Properties.Forecast)
	if forecastURL == "" {
		return nil, apperrors.New(apperrors.CodeCollaboratorFailure, "Failed to get forecast URL from grid point data")
	}

	var forecast forecastResponse
	if err := c.getJSON(ctx, "forecast", forecastURL, &forecast); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCollaboratorFailure, "Failed to retrieve forecast data", err)
	}
	if forecast.Properties.Periods == nil {
		return []Period{}, nil
	}
	return forecast.Properties.Periods, nil
}

// getJSON performs one traced GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, operation, endpoint string, out any) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := c.tracer.Start(ctx, "nws."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", http.MethodGet),
			attribute.String("url.full", endpoint),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", acceptGeoJSON)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", operation, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return fmt.Errorf("request %s: unexpected status %d", operation, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

// fixed4 formats a coordinate to four decimals, the precision /points expects.
func fixed4(value float64) string {
	return strconv.FormatFloat(value, 'f', 4, 64)
}

func formatCoordinate(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
