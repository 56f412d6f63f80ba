package collab

import (
	"context"

	"github.com/scribesync/server/internal/models"
	"github.com/scribesync/server/internal/observability"
	"github.com/scribesync/server/internal/repository"
)

// PersistenceBridge mirrors every successful core mutation into a durable
// store by listening on the event bus. The core never reads it back: the
// in-memory replicas stay authoritative, the bridge only records what
// happened. A persistence failure is logged, not surfaced — durability is
// best-effort from the core's point of view.
type PersistenceBridge struct {
	store       *DocumentStore
	sessions    repository.SessionRepo
	documents   repository.DocumentRepo
	access      repository.AccessRepo
	operations  repository.OperationRepo
	annotations repository.AnnotationRepo
	logger      *observability.Logger
	subIDs      []int
}

// NewPersistenceBridge creates a bridge writing through the given repositories
func NewPersistenceBridge(
	store *DocumentStore,
	sessions repository.SessionRepo,
	documents repository.DocumentRepo,
	access repository.AccessRepo,
	operations repository.OperationRepo,
	annotations repository.AnnotationRepo,
	logger *observability.Logger,
) *PersistenceBridge {
	return &PersistenceBridge{
		store:       store,
		sessions:    sessions,
		documents:   documents,
		access:      access,
		operations:  operations,
		annotations: annotations,
		logger:      logger.WithField("component", "persistence"),
	}
}

// Attach subscribes the bridge to both event families
func (b *PersistenceBridge) Attach(bus *EventBus) {
	b.subIDs = append(b.subIDs,
		bus.SubscribeSession(b.onSessionUpdate),
		bus.SubscribeDocument(b.onDocumentUpdate),
	)
}

// Detach removes the bridge's subscriptions
func (b *PersistenceBridge) Detach(bus *EventBus) {
	for _, id := range b.subIDs {
		bus.Unsubscribe(id)
	}
	b.subIDs = nil
}

func (b *PersistenceBridge) onSessionUpdate(update models.SessionUpdate) {
	ctx := context.Background()

	switch payload := update.Payload.(type) {
	case models.SessionCreatedPayload:
		session := payload.Session
		if err := b.sessions.Upsert(ctx, &session); err != nil {
			b.logger.Errorf("persist session %s: %v", update.SessionID, err)
		}
	case models.SessionClosedPayload:
		if err := b.sessions.UpdateStatus(ctx, update.SessionID, models.SessionClosed); err != nil {
			b.logger.Errorf("persist session close %s: %v", update.SessionID, err)
		}
	}
	// Join/leave and conversation shares are membership churn; the session
	// row itself is unchanged.
}

func (b *PersistenceBridge) onDocumentUpdate(update models.DocumentUpdate) {
	ctx := context.Background()

	switch payload := update.Payload.(type) {
	case models.DocumentCreatedPayload:
		b.saveRevision(ctx, update.DocumentID)
		b.saveAccess(ctx, update.DocumentID)
	case models.DocumentSharedPayload:
		b.saveAccess(ctx, update.DocumentID)
	case models.DocumentEditedPayload:
		if err := b.operations.Append(ctx, update.DocumentID, payload.Version, payload.Operation); err != nil {
			b.logger.Errorf("persist operation for %s: %v", update.DocumentID, err)
		}
		b.saveRevision(ctx, update.DocumentID)
	case models.AnnotationAddedPayload:
		if err := b.annotations.Add(ctx, update.DocumentID, payload.Annotation); err != nil {
			b.logger.Errorf("persist annotation for %s: %v", update.DocumentID, err)
		}
	case models.AnnotationRepliedPayload:
		if err := b.annotations.AddReply(ctx, payload.AnnotationID, payload.Reply); err != nil {
			b.logger.Errorf("persist reply on %s: %v", payload.AnnotationID, err)
		}
	}
}

func (b *PersistenceBridge) saveRevision(ctx context.Context, documentID string) {
	doc, ok := b.store.Document(documentID)
	if !ok {
		return
	}
	content, _ := b.store.Content(documentID)
	if err := b.documents.SaveRevision(ctx, &doc, content); err != nil {
		b.logger.Errorf("persist document %s: %v", documentID, err)
	}
}

func (b *PersistenceBridge) saveAccess(ctx context.Context, documentID string) {
	for _, entry := range b.store.AccessEntries(documentID) {
		if err := b.access.Grant(ctx, entry); err != nil {
			b.logger.Errorf("persist access entry %s/%s: %v", documentID, entry.UserID, err)
		}
	}
}
