// Package service wires protocol transport to the weather tools.
//
// It is the transport adapter layer: the package knows how to run MCP over stdio
// or HTTP+SSE and delegates tool meaning to the handlers in the domain package.
package service
