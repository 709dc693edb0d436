// Package errors provides coded errors shared by the weather MCP transports
// and tool handlers.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeBadRequest marks a request missing a required routing parameter.
	CodeBadRequest Code = "BAD_REQUEST"

	// CodeUnknownSession marks a routing key with no open session behind it.
	CodeUnknownSession Code = "UNKNOWN_SESSION"

	// CodeCollaboratorFailure marks a weather lookup that failed or returned
	// data that could not be used.
	CodeCollaboratorFailure Code = "COLLABORATOR_FAILURE"

	// CodeTransportFatal marks a transport that could not be established.
	CodeTransportFatal Code = "TRANSPORT_FATAL"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnknownSession:
		return http.StatusNotFound
	case CodeCollaboratorFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
