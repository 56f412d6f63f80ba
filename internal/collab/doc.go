// Package collab implements the in-process collaborative editing core:
// session membership, per-document access control, and an operation-ordered
// replicated document with anchored annotations.
//
// Every public method executes synchronously on the calling goroutine and
// returns immediately; nothing here blocks on I/O or spawns background work.
// Each document replica is a single in-process ordering authority: all edits
// for a document must pass through one DocumentStore so they form one total
// order. The core performs no internal locking (the EventBus only guards its
// subscriber table); a host using the core from multiple goroutines must
// serialize access, for example with one mutex around the whole core.
//
// The core is entirely in-memory. Durability is a consumer concern: attach a
// PersistenceBridge (or any other subscriber) to the EventBus to mirror
// successful mutations into a store.
package collab
