package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	apperrors "github.com/louisbranch/weather-mcp/internal/platform/errors"
	"github.com/louisbranch/weather-mcp/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// TransportKind selects which binding carries the protocol.
type TransportKind string

const (
	// TransportStdio serves one client over the process stdin/stdout.
	TransportStdio TransportKind = "stdio"
	// TransportSSE serves many clients over HTTP with Server-Sent Events.
	TransportSSE TransportKind = "sse"
)

// Config controls how Run serves the weather MCP server.
type Config struct {
	Transport TransportKind
	// HTTPAddr is the SSE listen address, host:port.
	HTTPAddr string
	// AllowedHosts enables Host/Origin validation when non-empty.
	AllowedHosts    []string
	UnknownSessions UnknownSessionPolicy
}

// Run builds the server around the weather collaborator and serves it on the
// configured binding until ctx ends or the binding fails.
func Run(ctx context.Context, cfg Config, weather domain.WeatherClient) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	server, err := New(weather)
	if err != nil {
		return err
	}

	switch cfg.Transport {
	case TransportStdio:
		return server.Serve(ctx)
	case TransportSSE:
		transport := NewSSETransport(cfg.HTTPAddr, server.mcpServer)
		transport.applyConfig(cfg)
		return transport.Start(ctx)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// Serve runs the server on stdio and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport runs the MCP server over a single-session transport.
// Cancellation and end of input are clean exits; anything else is fatal.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	switch {
	case err == nil,
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, io.EOF):
		return nil
	default:
		return apperrors.Wrap(apperrors.CodeTransportFatal, "serve MCP", err)
	}
}
