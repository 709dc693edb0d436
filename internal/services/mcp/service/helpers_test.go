package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "github.com/louisbranch/weather-mcp/internal/platform/errors"
	"github.com/louisbranch/weather-mcp/internal/services/weather/nws"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// fakeWeatherClient serves canned lookups and can fail one state on demand.
type fakeWeatherClient struct {
	mu        sync.Mutex
	failState string
	calls     []string
}

func (f *fakeWeatherClient) Alerts(_ context.Context, state string) ([]nws.Alert, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "alerts:"+state)
	f.mu.Unlock()
	if state == f.failState {
		return nil, apperrors.Wrap(apperrors.CodeCollaboratorFailure, "Failed to retrieve alerts data", errors.New("request alerts: unexpected status 500"))
	}
	return []nws.Alert{{Event: "Heat Advisory", AreaDesc: "Maricopa", Severity: "Moderate", Status: "Actual", Headline: "Heat Advisory in effect"}}, nil
}

func (f *fakeWeatherClient) Forecast(_ context.Context, _, _ float64) ([]nws.Period, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "forecast")
	f.mu.Unlock()
	temp := 72
	return []nws.Period{{Name: "Today", Temperature: &temp, TemperatureUnit: "F", WindSpeed: "10 mph", WindDirection: "N", ShortForecast: "Sunny"}}, nil
}

func (f *fakeWeatherClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// failingTransport never connects.
type failingTransport struct{}

func (failingTransport) Connect(context.Context) (mcp.Connection, error) {
	return nil, errors.New("stdin closed unexpectedly")
}

func newTestClient() *mcp.Client {
	return mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("expected tool result content")
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
