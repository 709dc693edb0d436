package service

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// validateLocalRequest guards against DNS rebinding once an allow list is
// configured: Host and any Origin must then be loopback or listed. With no
// allow list the binding accepts every host.
func (t *SSETransport) validateLocalRequest(r *http.Request) error {
	if r == nil {
		return fmt.Errorf("invalid request")
	}
	if len(t.allowedHosts) == 0 {
		return nil
	}

	if !t.isAllowedHost(r.Host) {
		return fmt.Errorf("invalid host")
	}

	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return nil
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return fmt.Errorf("invalid origin")
	}
	if !t.isAllowedHost(parsed.Host) {
		return fmt.Errorf("invalid origin")
	}
	return nil
}

// isAllowedHost reports whether a Host/Origin value names loopback or a listed host.
func (t *SSETransport) isAllowedHost(value string) bool {
	host, ok := normalizeHost(value)
	if !ok {
		return false
	}
	if isLoopbackHost(host) {
		return true
	}
	_, ok = t.allowedHosts[strings.ToLower(host)]
	return ok
}

func isLoopbackHost(host string) bool {
	switch strings.ToLower(strings.TrimSpace(host)) {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}

// parseAllowedHosts lower-cases and de-blanks the configured host list.
func parseAllowedHosts(hosts []string) map[string]struct{} {
	result := make(map[string]struct{}, len(hosts))
	for _, entry := range hosts {
		trimmed := strings.ToLower(strings.TrimSpace(entry))
		if trimmed == "" {
			continue
		}
		result[trimmed] = struct{}{}
	}
	return result
}

// normalizeHost strips any port and IPv6 brackets from a Host/Origin value.
func normalizeHost(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}

	if strings.HasPrefix(value, "[") {
		if host, _, err := net.SplitHostPort(value); err == nil {
			return host, true
		}
		if strings.HasSuffix(value, "]") {
			return strings.TrimSuffix(strings.TrimPrefix(value, "["), "]"), true
		}
		return "", false
	}

	switch strings.Count(value, ":") {
	case 0:
		return value, true
	case 1:
		host, _, err := net.SplitHostPort(value)
		if err != nil {
			return "", false
		}
		return host, true
	default:
		// bare IPv6 literal
		return value, true
	}
}

// handleHealth handles GET /health.
func (t *SSETransport) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := t.validateLocalRequest(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Printf("Failed to write health response: %v", err)
	}
}
