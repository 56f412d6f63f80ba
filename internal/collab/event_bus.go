package collab

import (
	"sort"
	"sync"

	"github.com/scribesync/server/internal/models"
)

// SessionListener receives session events
type SessionListener func(models.SessionUpdate)

// DocumentListener receives document events
type DocumentListener func(models.DocumentUpdate)

// EventBus fans out session and document events to subscribers. Delivery is
// synchronous on the publishing goroutine and reaches only the subscribers
// registered at publish time; there is no buffering or replay, so a listener
// attached after an event fired never sees it.
type EventBus struct {
	mu           sync.RWMutex
	nextID       int
	sessionSubs  map[int]SessionListener
	documentSubs map[int]DocumentListener
}

// NewEventBus creates an empty event bus
func NewEventBus() *EventBus {
	return &EventBus{
		sessionSubs:  make(map[int]SessionListener),
		documentSubs: make(map[int]DocumentListener),
	}
}

// SubscribeSession registers a session listener and returns its subscription id
func (b *EventBus) SubscribeSession(fn SessionListener) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.sessionSubs[b.nextID] = fn
	return b.nextID
}

// SubscribeDocument registers a document listener and returns its subscription id
func (b *EventBus) SubscribeDocument(fn DocumentListener) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.documentSubs[b.nextID] = fn
	return b.nextID
}

// Unsubscribe removes a subscription by id; unknown ids are a no-op
func (b *EventBus) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.sessionSubs, id)
	delete(b.documentSubs, id)
}

// PublishSession delivers a session event to all current session listeners
// in subscription order.
func (b *EventBus) PublishSession(update models.SessionUpdate) {
	for _, fn := range b.snapshotSessionSubs() {
		fn(update)
	}
}

// PublishDocument delivers a document event to all current document
// listeners in subscription order.
func (b *EventBus) PublishDocument(update models.DocumentUpdate) {
	for _, fn := range b.snapshotDocumentSubs() {
		fn(update)
	}
}

// snapshot helpers copy the listener set under the read lock so a listener
// may subscribe or unsubscribe from inside its own callback.

func (b *EventBus) snapshotSessionSubs() []SessionListener {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ids := make([]int, 0, len(b.sessionSubs))
	for id := range b.sessionSubs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	fns := make([]SessionListener, len(ids))
	for i, id := range ids {
		fns[i] = b.sessionSubs[id]
	}
	return fns
}

func (b *EventBus) snapshotDocumentSubs() []DocumentListener {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ids := make([]int, 0, len(b.documentSubs))
	for id := range b.documentSubs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	fns := make([]DocumentListener, len(ids))
	for i, id := range ids {
		fns[i] = b.documentSubs[id]
	}
	return fns
}
