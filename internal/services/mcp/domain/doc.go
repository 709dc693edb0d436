// Package domain translates MCP tool calls into weather-service lookups.
//
// Each tool is described by a constructor returning its *mcp.Tool (name,
// description and input schema) and a handler constructor returning a typed
// mcp.ToolHandlerFor bound to a WeatherClient. Handlers render the
// collaborator's data as text content and also return it as structured
// output. Collaborator failures are returned as errors, which the SDK reports
// to the caller as tool-level errors.
package domain
