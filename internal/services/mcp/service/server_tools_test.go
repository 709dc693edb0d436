package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/weather-mcp/internal/services/weather/nws"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// nwsUpstream fakes the weather service with fixed per-path responses.
type nwsUpstream struct {
	alertsStatus   int
	pointsStatus   int
	pointsBody     string
	forecastStatus int
	forecastBody   string
}

func (u nwsUpstream) start(t *testing.T) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/alerts":
			w.WriteHeader(u.alertsStatus)
			_, _ = w.Write([]byte(`{"features":[]}`))
		case strings.HasPrefix(r.URL.Path, "/points/"):
			w.WriteHeader(u.pointsStatus)
			_, _ = w.Write([]byte(strings.ReplaceAll(u.pointsBody, "{{base}}", server.URL)))
		case r.URL.Path == "/gridpoints/OKX/33,35/forecast":
			w.WriteHeader(u.forecastStatus)
			_, _ = w.Write([]byte(u.forecastBody))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func callToolOverNWS(t *testing.T, upstream *httptest.Server, params *mcp.CallToolParams) *mcp.CallToolResult {
	t.Helper()
	server, err := New(nws.NewClient(nws.Config{BaseURL: upstream.URL, Timeout: time.Second}))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.mcpServer.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("connect server: %v", err)
	}
	defer serverSession.Close()
	session, err := newTestClient().Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	defer session.Close()

	result, err := session.CallTool(ctx, params)
	if err != nil {
		t.Fatalf("call tool: %v", err)
	}
	return result
}

func TestToolFailureMessagesOverNWS(t *testing.T) {
	forecastPoint := `{"properties":{"forecast":"{{base}}/gridpoints/OKX/33,35/forecast"}}`
	forecastArgs := &mcp.CallToolParams{Name: "get-forecast", Arguments: map[string]any{"latitude": 40, "longitude": -74}}

	tests := []struct {
		name     string
		upstream nwsUpstream
		params   *mcp.CallToolParams
		want     string
	}{
		{
			name:     "alerts unavailable",
			upstream: nwsUpstream{alertsStatus: http.StatusInternalServerError},
			params:   &mcp.CallToolParams{Name: "get-alerts", Arguments: map[string]any{"state": "NY"}},
			want:     "Failed to retrieve alerts data",
		},
		{
			name:     "grid point unavailable",
			upstream: nwsUpstream{pointsStatus: http.StatusInternalServerError},
			params:   forecastArgs,
			want: "Failed to retrieve grid point data for coordinates: 40, -74. " +
				"This location may not be supported by the NWS API (only US locations are supported).",
		},
		{
			name:     "grid point without forecast url",
			upstream: nwsUpstream{pointsStatus: http.StatusOK, pointsBody: `{"properties":{}}`},
			params:   forecastArgs,
			want:     "Failed to get forecast URL from grid point data",
		},
		{
			name: "forecast unavailable",
			upstream: nwsUpstream{
				pointsStatus:   http.StatusOK,
				pointsBody:     forecastPoint,
				forecastStatus: http.StatusInternalServerError,
			},
			params: forecastArgs,
			want:   "Failed to retrieve forecast data",
		},
		{
			name: "forecast without periods",
			upstream: nwsUpstream{
				pointsStatus:   http.StatusOK,
				pointsBody:     forecastPoint,
				forecastStatus: http.StatusOK,
				forecastBody:   `{"properties":{"periods":[]}}`,
			},
			params: forecastArgs,
			want:   "No forecast periods available",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callToolOverNWS(t, tt.upstream.start(t), tt.params)
			if !result.IsError {
				t.Fatalf("expected tool-level error, got %q", toolText(t, result))
			}
			if got := toolText(t, result); got != tt.want {
				t.Fatalf("unexpected error text:\n got %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestToolSuccessOverNWS(t *testing.T) {
	upstream := nwsUpstream{
		pointsStatus:   http.StatusOK,
		pointsBody:     `{"properties":{"forecast":"{{base}}/gridpoints/OKX/33,35/forecast"}}`,
		forecastStatus: http.StatusOK,
		forecastBody: `{"properties":{"periods":[{"name":"Tonight","temperature":58,"temperatureUnit":"F",` +
			`"windSpeed":"5 mph","windDirection":"SW","shortForecast":"Clear"}]}}`,
	}.start(t)

	result := callToolOverNWS(t, upstream, &mcp.CallToolParams{
		Name:      "get-forecast",
		Arguments: map[string]any{"latitude": 40.7128, "longitude": -74.006},
	})
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}
	want := "Forecast for 40.7128, -74.006:\n\nTonight:\nTemperature: 58°F\nWind: 5 mph SW\nClear\n---"
	if got := toolText(t, result); got != want {
		t.Fatalf("unexpected forecast text:\n%s", got)
	}
}
