package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/louisbranch/weather-mcp/internal/platform/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// TestServeWithTransportServesAndStops ensures the stdio path serves tools and exits cleanly on cancel.
func TestServeWithTransportServesAndStops(t *testing.T) {
	server, err := New(&fakeWeatherClient{})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.serveWithTransport(ctx, serverTransport)
	}()

	clientCtx, clientCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer clientCancel()
	session, err := newTestClient().Connect(clientCtx, clientTransport, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	defer session.Close()

	result, err := session.CallTool(clientCtx, &mcp.CallToolParams{
		Name:      "get-forecast",
		Arguments: map[string]any{"latitude": 33.45, "longitude": -112.07},
	})
	if err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}
	if got := toolText(t, result); !strings.HasPrefix(got, "Forecast for 33.45, -112.07:") {
		t.Fatalf("unexpected forecast text %q", got)
	}

	cancel()

	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("expected nil error on cancel, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("serveWithTransport did not return after cancel")
	}
}

func TestServeWithTransportFailureIsFatal(t *testing.T) {
	server, err := New(&fakeWeatherClient{})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	err = server.serveWithTransport(context.Background(), failingTransport{})
	if !errors.Is(err, apperrors.ErrTransportFatal) {
		t.Fatalf("expected transport fatal error, got %v", err)
	}
	if !strings.Contains(err.Error(), "stdin closed unexpectedly") {
		t.Fatalf("expected cause in error, got %v", err)
	}
}

func TestServeWithTransportRequiresServer(t *testing.T) {
	var server *Server
	if err := server.serveWithTransport(context.Background(), failingTransport{}); err == nil {
		t.Fatal("expected error for nil server")
	}
}

func TestRunRejectsUnsupportedTransport(t *testing.T) {
	err := Run(context.Background(), Config{Transport: "carrier-pigeon"}, &fakeWeatherClient{})
	if err == nil || !strings.Contains(err.Error(), "carrier-pigeon") {
		t.Fatalf("expected unsupported transport error, got %v", err)
	}
}

func TestRunRequiresWeatherClient(t *testing.T) {
	if err := Run(context.Background(), Config{Transport: TransportStdio}, nil); err == nil {
		t.Fatal("expected error for nil weather client")
	}
}

func TestParseUnknownSessionPolicy(t *testing.T) {
	tests := []struct {
		value   string
		want    UnknownSessionPolicy
		wantErr bool
	}{
		{value: "", want: UnknownSessionDrop},
		{value: "drop", want: UnknownSessionDrop},
		{value: " Reject ", want: UnknownSessionReject},
		{value: "ignore", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseUnknownSessionPolicy(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
