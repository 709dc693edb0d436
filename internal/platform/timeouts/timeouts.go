// Package timeouts defines shared timeout constants used by the weather MCP
// binaries.
package timeouts

import "time"

// ReadHeader limits how long the SSE HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long the SSE HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// WeatherRequest caps a single request to the weather service.
const WeatherRequest = 10 * time.Second

// TelemetryShutdown caps how long exporters may take to flush on exit.
const TelemetryShutdown = 5 * time.Second
