// Package server exposes the intake engine over HTTP: session lifecycle,
// document upload, processing, and manual field entry.
package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/easymigrate/docintake/internal/entity"
	"github.com/easymigrate/docintake/internal/intake"
)

// sessionState is one live session plus its dialogue-side helpers. The
// mutex serializes the handlers touching one session; different sessions
// proceed independently.
type sessionState struct {
	mu        sync.Mutex
	session   *entity.Session
	coord     *intake.ManualCoordinator
	artifacts []entity.Artifact
}

// registry is the in-memory session table. Sessions live until completed
// or cancelled plus whatever the caller still reads; there is no
// persistence across restarts.
type registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*sessionState
}

func newRegistry() *registry {
	return &registry{sessions: make(map[uuid.UUID]*sessionState)}
}

func (r *registry) add(s *entity.Session) *sessionState {
	st := &sessionState{session: s}
	r.mu.Lock()
	r.sessions[s.ID] = st
	r.mu.Unlock()
	return st
}

func (r *registry) get(id uuid.UUID) (*sessionState, bool) {
	r.mu.RLock()
	st, ok := r.sessions[id]
	r.mu.RUnlock()
	return st, ok
}

func (r *registry) remove(id uuid.UUID) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}
