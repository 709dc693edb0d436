package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	apperrors "github.com/louisbranch/weather-mcp/internal/platform/errors"
	"github.com/louisbranch/weather-mcp/internal/platform/timeouts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"
)

var listenTCP = net.Listen

const (
	ssePath      = "/sse"
	messagesPath = "/messages"
	healthPath   = "/health"

	// sessionQueryParam carries the routing key on posted messages.
	sessionQueryParam = "sessionId"

	// maxSessionIDAttempts bounds retries when a generated id collides.
	maxSessionIDAttempts = 5
)

var (
	errMissingSessionID = apperrors.New(apperrors.CodeBadRequest, "sessionId is required")
	errSessionNotFound  = apperrors.New(apperrors.CodeUnknownSession, "session not found")
)

// SSETransport serves MCP over HTTP: a hanging GET /sse opens one session
// stream and POST /messages?sessionId=<id> delivers messages to it.
type SSETransport struct {
	addr            string
	server          *mcp.Server
	sessions        SessionRegistry
	allowedHosts    map[string]struct{}
	unknownSessions UnknownSessionPolicy
	newSessionID    func() string
	connect         func(context.Context, mcp.Transport) (*mcp.ServerSession, error)
	httpServer      *http.Server
}

// SSEOption customizes an SSETransport.
type SSEOption func(*SSETransport)

// WithSessionRegistry replaces the in-memory session table.
func WithSessionRegistry(registry SessionRegistry) SSEOption {
	return func(t *SSETransport) {
		if registry != nil {
			t.sessions = registry
		}
	}
}

// NewSSETransport creates an SSE binding for server listening on addr.
func NewSSETransport(addr string, server *mcp.Server, opts ...SSEOption) *SSETransport {
	t := &SSETransport{
		addr:            addr,
		server:          server,
		sessions:        NewSessionRegistry(),
		allowedHosts:    map[string]struct{}{},
		unknownSessions: UnknownSessionDrop,
		newSessionID:    uuid.NewString,
	}
	t.connect = func(ctx context.Context, transport mcp.Transport) (*mcp.ServerSession, error) {
		return t.server.Connect(ctx, transport, nil)
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *SSETransport) applyConfig(cfg Config) {
	if t == nil {
		return
	}
	t.allowedHosts = parseAllowedHosts(cfg.AllowedHosts)
	if cfg.UnknownSessions != "" {
		t.unknownSessions = cfg.UnknownSessions
	}
}

// Handler returns the HTTP routes of the binding.
func (t *SSETransport) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(ssePath, t.handleSSE)
	mux.HandleFunc(messagesPath, t.handleMessages)
	mux.HandleFunc(healthPath, t.handleHealth)
	return mux
}

// Start listens on the configured address and serves until ctx ends.
// Open streams end with ctx; in-flight requests get the shutdown grace period.
func (t *SSETransport) Start(ctx context.Context) error {
	if t == nil || t.server == nil {
		return fmt.Errorf("MCP server is not configured")
	}

	listener, err := listenTCP("tcp", t.addr)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeTransportFatal, "listen on "+t.addr, err)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	t.httpServer = &http.Server{
		Handler:           t.Handler(),
		ReadHeaderTimeout: timeouts.ReadHeader,
		BaseContext: func(net.Listener) context.Context {
			return groupCtx
		},
	}

	log.Printf("Weather MCP Server running on http://%s", displayAddr(listener.Addr()))

	group.Go(func() error {
		if err := t.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return apperrors.Wrap(apperrors.CodeTransportFatal, "serve HTTP", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		log.Printf("Shutting down MCP SSE server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := t.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		return nil
	})
	return group.Wait()
}

// handleSSE opens one session stream and blocks until it ends.
func (t *SSETransport) handleSSE(w http.ResponseWriter, r *http.Request) {
	if err := t.validateLocalRequest(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	transport := &mcp.SSEServerTransport{Response: w}
	sessionID, err := t.registerSession(transport)
	if err != nil {
		log.Printf("Failed to allocate SSE session: %v", err)
		http.Error(w, "session allocation failed", http.StatusInternalServerError)
		return
	}
	defer t.sessions.Remove(sessionID)
	transport.Endpoint = messagesPath + "?" + sessionQueryParam + "=" + url.QueryEscape(sessionID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx := r.Context()
	// The endpoint event may already be on the wire when Connect fails, so
	// the stream is just ended.
	session, err := t.connect(ctx, transport)
	if err != nil {
		log.Printf("SSE session %s failed to connect: %v", sessionID, err)
		return
	}
	log.Printf("SSE session %s opened", sessionID)

	ended := make(chan struct{})
	go func() {
		_ = session.Wait()
		close(ended)
	}()

	select {
	case <-ctx.Done():
	case <-ended:
	}
	_ = session.Close()
	<-ended
	log.Printf("SSE session %s closed", sessionID)
}

// registerSession inserts handler under a fresh identifier, retrying on the
// unlikely collision with an open session.
func (t *SSETransport) registerSession(handler http.Handler) (string, error) {
	for attempt := 0; attempt < maxSessionIDAttempts; attempt++ {
		id := t.newSessionID()
		err := t.sessions.Add(id, handler)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, errSessionExists) {
			return "", err
		}
	}
	return "", fmt.Errorf("no unique session id after %d attempts", maxSessionIDAttempts)
}

// handleMessages routes one posted protocol message to its session.
func (t *SSETransport) handleMessages(w http.ResponseWriter, r *http.Request) {
	if err := t.validateLocalRequest(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := strings.TrimSpace(r.URL.Query().Get(sessionQueryParam))
	if sessionID == "" {
		writeJSONError(w, errMissingSessionID)
		return
	}

	handler, ok := t.sessions.Get(sessionID)
	if !ok {
		t.handleUnknownSession(w, sessionID)
		return
	}
	handler.ServeHTTP(w, r)
}

func (t *SSETransport) handleUnknownSession(w http.ResponseWriter, sessionID string) {
	if t.unknownSessions == UnknownSessionReject {
		writeJSONError(w, errSessionNotFound)
		return
	}
	log.Printf("Dropped message for unknown session %q", sessionID)
	w.WriteHeader(http.StatusOK)
}

func writeJSONError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apperrors.GetCode(err).HTTPStatus())
	if encodeErr := json.NewEncoder(w).Encode(map[string]string{"error": apperrors.Message(err)}); encodeErr != nil {
		log.Printf("Failed to write error response: %v", encodeErr)
	}
}

// displayAddr reports a wildcard listen address as localhost.
func displayAddr(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}
