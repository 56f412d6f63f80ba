package handlers

import (
	"sync"

	"github.com/scribesync/server/internal/collab"
)

// CoreGuard serializes all access to the collaboration core. The core
// performs no internal locking and relies on being a single ordering
// authority, so every handler funnels its calls through this one mutex;
// the lock scope is one core call plus its synchronous event fan-out.
type CoreGuard struct {
	mu       sync.Mutex
	Sessions *collab.SessionRegistry
	Store    *collab.DocumentStore
}

// NewCoreGuard wraps a registry and store behind one lock
func NewCoreGuard(sessions *collab.SessionRegistry, store *collab.DocumentStore) *CoreGuard {
	return &CoreGuard{Sessions: sessions, Store: store}
}

// Do runs fn while holding the core lock
func (g *CoreGuard) Do(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn()
}
