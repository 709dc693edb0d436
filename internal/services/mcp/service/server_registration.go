package service

import (
	"fmt"

	"github.com/louisbranch/weather-mcp/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type mcpRegistrationTarget interface {
	AddTool(*mcp.Tool, any) error
}

type mcpServerRegistrationAdapter struct {
	server *mcp.Server
}

func (r mcpServerRegistrationAdapter) AddTool(tool *mcp.Tool, handler any) error {
	return addMCPTool(r.server, tool, handler)
}

type mcpToolRegistrar struct {
	matches func(any) bool
	add     func(*mcp.Server, *mcp.Tool, any)
}

func newMCPToolRegistrar[I any, O any]() mcpToolRegistrar {
	return mcpToolRegistrar{
		matches: func(handler any) bool {
			_, ok := handler.(mcp.ToolHandlerFor[I, O])
			return ok
		},
		add: func(server *mcp.Server, tool *mcp.Tool, handler any) {
			mcp.AddTool(server, tool, handler.(mcp.ToolHandlerFor[I, O]))
		},
	}
}

var mcpToolRegistrars = []mcpToolRegistrar{
	newMCPToolRegistrar[domain.AlertsInput, domain.AlertsResult](),
	newMCPToolRegistrar[domain.ForecastInput, domain.ForecastResult](),
}

func addMCPTool(server *mcp.Server, tool *mcp.Tool, handler any) error {
	if server == nil {
		return fmt.Errorf("mcp server is not configured")
	}
	for _, registrar := range mcpToolRegistrars {
		if registrar.matches(handler) {
			registrar.add(server, tool, handler)
			return nil
		}
	}
	toolName := "<nil>"
	if tool != nil {
		toolName = tool.Name
	}
	return fmt.Errorf("mcp registration adapter does not support handler type %T for tool %q", handler, toolName)
}

// registerWeatherTools adds the static weather tool table to the registrar.
func registerWeatherTools(registrar mcpRegistrationTarget, client domain.WeatherClient) error {
	registrations := []struct {
		tool    *mcp.Tool
		handler any
	}{
		{tool: domain.AlertsTool(), handler: domain.AlertsHandler(client)},
		{tool: domain.ForecastTool(), handler: domain.ForecastHandler(client)},
	}
	for _, registration := range registrations {
		if err := registrar.AddTool(registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}
