// Package nws is a client for the National Weather Service API
// (https://api.weather.gov), the weather-data collaborator behind the MCP
// tools.
//
// Only the three reads the tools need are modelled: active alerts for a state,
// the grid point for a coordinate, and the forecast behind that grid point.
// Every failure is reported as a COLLABORATOR_FAILURE domain error so callers
// can tell upstream trouble apart from their own.
package nws
