package service

import (
	"errors"
	"net/http"
	"sync"
)

var errSessionExists = errors.New("session already registered")

// SessionRegistry maps open session identifiers to the transport handle that
// accepts their posted messages.
type SessionRegistry interface {
	// Add registers handler under id; it fails when id is already present.
	Add(id string, handler http.Handler) error
	Get(id string) (http.Handler, bool)
	Remove(id string)
	Len() int
}

type memorySessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]http.Handler
}

// NewSessionRegistry returns an empty in-memory registry safe for concurrent use.
func NewSessionRegistry() SessionRegistry {
	return &memorySessionRegistry{sessions: make(map[string]http.Handler)}
}

func (r *memorySessionRegistry) Add(id string, handler http.Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; ok {
		return errSessionExists
	}
	r.sessions[id] = handler
	return nil
}

func (r *memorySessionRegistry) Get(id string) (http.Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.sessions[id]
	return handler, ok
}

func (r *memorySessionRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *memorySessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
