package service

import (
	"fmt"
	"strings"
)

// UnknownSessionPolicy decides how a message for an unknown session is answered.
type UnknownSessionPolicy string

const (
	// UnknownSessionDrop answers with an empty 200 and discards the message.
	UnknownSessionDrop UnknownSessionPolicy = "drop"
	// UnknownSessionReject answers with 404.
	UnknownSessionReject UnknownSessionPolicy = "reject"
)

// ParseUnknownSessionPolicy maps a config value to a policy. Empty selects drop.
func ParseUnknownSessionPolicy(value string) (UnknownSessionPolicy, error) {
	switch UnknownSessionPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", UnknownSessionDrop:
		return UnknownSessionDrop, nil
	case UnknownSessionReject:
		return UnknownSessionReject, nil
	default:
		return "", fmt.Errorf("unknown session policy %q is not supported", value)
	}
}
