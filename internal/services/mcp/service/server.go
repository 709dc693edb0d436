package service

import (
	"fmt"

	"github.com/louisbranch/weather-mcp/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// serverName identifies the MCP server to clients.
	serverName = "weather"
	// serverVersion identifies the MCP server version.
	serverVersion = "1.0.0"
)

// Server hosts the MCP protocol server shared by every transport binding.
type Server struct {
	mcpServer *mcp.Server
}

// New builds the protocol server and registers the weather tools against the
// given collaborator. Both bindings build it the same way.
func New(weather domain.WeatherClient) (*Server, error) {
	if weather == nil {
		return nil, fmt.Errorf("weather client is required")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	if err := registerWeatherTools(mcpServerRegistrationAdapter{server: mcpServer}, weather); err != nil {
		return nil, fmt.Errorf("register weather tools: %w", err)
	}
	return &Server{mcpServer: mcpServer}, nil
}
