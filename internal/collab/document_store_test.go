package collab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribesync/server/internal/models"
)

type fixture struct {
	bus      *EventBus
	registry *SessionRegistry
	store    *DocumentStore
}

func newFixture(t *testing.T, opts StoreOptions) *fixture {
	t.Helper()
	bus := NewEventBus()
	registry := NewSessionRegistry(bus)
	return &fixture{
		bus:      bus,
		registry: registry,
		store:    NewDocumentStore(bus, registry, opts),
	}
}

func (f *fixture) startSession(t *testing.T, creator models.CollaborationUser) *models.CollaborationSession {
	t.Helper()
	session, err := f.registry.CreateSession("Design Sync", creator)
	require.NoError(t, err)
	return session
}

func collectDocumentEvents(bus *EventBus) *[]models.DocumentUpdate {
	var events []models.DocumentUpdate
	bus.SubscribeDocument(func(u models.DocumentUpdate) { events = append(events, u) })
	return &events
}

func TestDocumentStore_CreateSharedDocument(t *testing.T) {
	t.Run("requires an active session", func(t *testing.T) {
		f := newFixture(t, StoreOptions{})

		_, err := f.store.CreateSharedDocument("Spec", "Hello", user("u1", "Alice"))

		assert.ErrorIs(t, err, models.ErrNoActiveSession)
	})

	t.Run("seeds version 1 and creator as owner", func(t *testing.T) {
		f := newFixture(t, StoreOptions{})
		alice := user("u1", "Alice")
		f.startSession(t, alice)
		events := collectDocumentEvents(f.bus)

		doc, err := f.store.CreateSharedDocument("Spec", "Hello", alice)

		require.NoError(t, err)
		assert.Equal(t, 1, doc.Version)
		assert.True(t, f.store.HasDocumentAccess("u1", doc.ID, models.RoleOwner))

		content, ok := f.store.Content(doc.ID)
		require.True(t, ok)
		assert.Equal(t, "Hello", content)

		require.Len(t, *events, 1)
		assert.Equal(t, models.DocumentCreatedEvent, (*events)[0].Type)
	})

	t.Run("rejects creation after the session closed", func(t *testing.T) {
		f := newFixture(t, StoreOptions{})
		alice := user("u1", "Alice")
		f.startSession(t, alice)
		f.registry.LeaveSession(alice)

		_, err := f.store.CreateSharedDocument("Spec", "Hello", alice)
		assert.ErrorIs(t, err, models.ErrNoActiveSession)
	})
}

func TestDocumentStore_ShareDocument(t *testing.T) {
	t.Run("upserts the target role", func(t *testing.T) {
		f := newFixture(t, StoreOptions{})
		alice := user("u1", "Alice")
		f.startSession(t, alice)
		doc, err := f.store.CreateSharedDocument("Spec", "Hello", alice)
		require.NoError(t, err)

		assert.True(t, f.store.ShareDocument(doc.ID, "u2", models.RoleViewer))
		assert.True(t, f.store.HasDocumentAccess("u2", doc.ID, models.RoleViewer))
		assert.False(t, f.store.HasDocumentAccess("u2", doc.ID, models.RoleEditor))

		// Upgrade on re-share
		assert.True(t, f.store.ShareDocument(doc.ID, "u2", models.RoleEditor))
		assert.True(t, f.store.HasDocumentAccess("u2", doc.ID, models.RoleEditor))
	})

	t.Run("unknown document returns false", func(t *testing.T) {
		f := newFixture(t, StoreOptions{})

		assert.False(t, f.store.ShareDocument("missing", "u2", models.RoleViewer))
	})
}

func TestDocumentStore_HasDocumentAccess(t *testing.T) {
	f := newFixture(t, StoreOptions{})
	alice := user("u1", "Alice")
	f.startSession(t, alice)
	doc, err := f.store.CreateSharedDocument("Spec", "Hello", alice)
	require.NoError(t, err)
	require.True(t, f.store.ShareDocument(doc.ID, "u2", models.RoleViewer))

	t.Run("owner satisfies viewer", func(t *testing.T) {
		assert.True(t, f.store.HasDocumentAccess("u1", doc.ID, models.RoleViewer))
	})

	t.Run("viewer does not satisfy editor", func(t *testing.T) {
		assert.False(t, f.store.HasDocumentAccess("u2", doc.ID, models.RoleEditor))
	})

	t.Run("unknown user fails", func(t *testing.T) {
		assert.False(t, f.store.HasDocumentAccess("u9", doc.ID, models.RoleViewer))
	})

	t.Run("unknown document fails", func(t *testing.T) {
		assert.False(t, f.store.HasDocumentAccess("u1", "missing", models.RoleViewer))
	})
}

func TestDocumentStore_ApplyEdit(t *testing.T) {
	t.Run("viewer edit is denied with no state change", func(t *testing.T) {
		f := newFixture(t, StoreOptions{})
		alice := user("u1", "Alice")
		f.startSession(t, alice)
		doc, err := f.store.CreateSharedDocument("Spec", "Hello", alice)
		require.NoError(t, err)
		require.True(t, f.store.ShareDocument(doc.ID, "u2", models.RoleViewer))

		applied := f.store.ApplyEdit(doc.ID, "u2", models.NewEditOperation(models.OpDelete, 0, "Hello", "u2"))

		assert.False(t, applied)
		after, _ := f.store.Document(doc.ID)
		assert.Equal(t, 1, after.Version)
		content, _ := f.store.Content(doc.ID)
		assert.Equal(t, "Hello", content)
	})

	t.Run("editor edit bumps version and publishes the new version", func(t *testing.T) {
		f := newFixture(t, StoreOptions{})
		alice := user("u1", "Alice")
		f.startSession(t, alice)
		doc, err := f.store.CreateSharedDocument("Spec", "Hello", alice)
		require.NoError(t, err)
		require.True(t, f.store.ShareDocument(doc.ID, "u2", models.RoleEditor))

		events := collectDocumentEvents(f.bus)

		applied := f.store.ApplyEdit(doc.ID, "u2", models.NewEditOperation(models.OpInsert, 5, " World", "u2"))

		require.True(t, applied)
		content, _ := f.store.Content(doc.ID)
		assert.Equal(t, "Hello World", content)

		after, _ := f.store.Document(doc.ID)
		assert.Equal(t, 2, after.Version)
		assert.Equal(t, "u2", after.LastModifiedBy)

		require.Len(t, *events, 1)
		edited := (*events)[0]
		require.Equal(t, models.DocumentEditedEvent, edited.Type)
		payload := edited.Payload.(models.DocumentEditedPayload)
		assert.Equal(t, 2, payload.Version)
	})

	t.Run("unknown document returns false", func(t *testing.T) {
		f := newFixture(t, StoreOptions{})

		assert.False(t, f.store.ApplyEdit("missing", "u1", models.NewEditOperation(models.OpInsert, 0, "x", "u1")))
	})

	t.Run("history lists exactly the applied edits", func(t *testing.T) {
		f := newFixture(t, StoreOptions{})
		alice := user("u1", "Alice")
		f.startSession(t, alice)
		doc, err := f.store.CreateSharedDocument("Spec", "", alice)
		require.NoError(t, err)
		require.True(t, f.store.ShareDocument(doc.ID, "u2", models.RoleViewer))

		applied := 0
		if f.store.ApplyEdit(doc.ID, "u1", models.NewEditOperation(models.OpInsert, 0, "a", "u1")) {
			applied++
		}
		if f.store.ApplyEdit(doc.ID, "u2", models.NewEditOperation(models.OpInsert, 0, "b", "u2")) {
			applied++ // denied: u2 is only a viewer
		}
		if f.store.ApplyEdit(doc.ID, "u1", models.NewEditOperation(models.OpInsert, 1, "c", "u1")) {
			applied++
		}

		history, ok := f.store.History(doc.ID)
		require.True(t, ok)
		assert.Len(t, history, applied)
		assert.Equal(t, 2, applied)
	})

	t.Run("history records the display name from the session roster", func(t *testing.T) {
		f := newFixture(t, StoreOptions{})
		alice := user("u1", "Alice")
		f.startSession(t, alice)
		doc, err := f.store.CreateSharedDocument("Spec", "", alice)
		require.NoError(t, err)

		require.True(t, f.store.ApplyEdit(doc.ID, "u1", models.NewEditOperation(models.OpInsert, 0, "hi", "u1")))

		history, _ := f.store.History(doc.ID)
		require.Len(t, history, 1)
		assert.Equal(t, "Alice", history[0].UserName)
	})
}

func TestDocumentStore_SessionClose(t *testing.T) {
	t.Run("documents stay editable after the session closes", func(t *testing.T) {
		f := newFixture(t, StoreOptions{})
		alice := user("u1", "Alice")
		f.startSession(t, alice)
		doc, err := f.store.CreateSharedDocument("Spec", "Hello", alice)
		require.NoError(t, err)

		f.registry.LeaveSession(alice)
		require.False(t, f.registry.HasActiveSession())

		applied := f.store.ApplyEdit(doc.ID, "u1", models.NewEditOperation(models.OpInsert, 5, "!", "u1"))

		assert.True(t, applied)
		content, _ := f.store.Content(doc.ID)
		assert.Equal(t, "Hello!", content)
	})

	t.Run("lock-on-close rejects edits once the session closed", func(t *testing.T) {
		f := newFixture(t, StoreOptions{LockOnSessionClose: true})
		alice := user("u1", "Alice")
		f.startSession(t, alice)
		doc, err := f.store.CreateSharedDocument("Spec", "Hello", alice)
		require.NoError(t, err)

		f.registry.LeaveSession(alice)

		applied := f.store.ApplyEdit(doc.ID, "u1", models.NewEditOperation(models.OpInsert, 5, "!", "u1"))

		assert.False(t, applied)
		after, _ := f.store.Document(doc.ID)
		assert.Equal(t, 1, after.Version)
	})
}

func TestDocumentStore_Annotations(t *testing.T) {
	t.Run("viewer can annotate", func(t *testing.T) {
		f := newFixture(t, StoreOptions{})
		alice := user("u1", "Alice")
		f.startSession(t, alice)
		doc, err := f.store.CreateSharedDocument("Spec", "Hello", alice)
		require.NoError(t, err)
		require.True(t, f.store.ShareDocument(doc.ID, "u2", models.RoleViewer))

		annotation := models.NewDocumentAnnotation("u2", models.AnnotationHighlight, 3, "look")

		assert.True(t, f.store.AddAnnotation(doc.ID, "u2", annotation))

		annotations, ok := f.store.Annotations(doc.ID)
		require.True(t, ok)
		require.Len(t, annotations, 1)
		assert.Equal(t, 3, annotations[0].Position)
	})

	t.Run("user without any role cannot annotate", func(t *testing.T) {
		f := newFixture(t, StoreOptions{})
		alice := user("u1", "Alice")
		f.startSession(t, alice)
		doc, err := f.store.CreateSharedDocument("Spec", "Hello", alice)
		require.NoError(t, err)

		annotation := models.NewDocumentAnnotation("u9", models.AnnotationComment, 0, "sneaky")

		assert.False(t, f.store.AddAnnotation(doc.ID, "u9", annotation))
		annotations, _ := f.store.Annotations(doc.ID)
		assert.Empty(t, annotations)
	})

	t.Run("blank annotation id gets generated", func(t *testing.T) {
		f := newFixture(t, StoreOptions{})
		alice := user("u1", "Alice")
		f.startSession(t, alice)
		doc, err := f.store.CreateSharedDocument("Spec", "Hello", alice)
		require.NoError(t, err)

		events := collectDocumentEvents(f.bus)
		require.True(t, f.store.AddAnnotation(doc.ID, "u1", models.DocumentAnnotation{
			Type:     models.AnnotationComment,
			Position: 0,
			Content:  "hi",
		}))

		require.Len(t, *events, 1)
		payload := (*events)[0].Payload.(models.AnnotationAddedPayload)
		assert.NotEmpty(t, payload.Annotation.ID)
	})

	t.Run("replies flow through the access gate", func(t *testing.T) {
		f := newFixture(t, StoreOptions{})
		alice := user("u1", "Alice")
		f.startSession(t, alice)
		doc, err := f.store.CreateSharedDocument("Spec", "Hello", alice)
		require.NoError(t, err)

		annotation := models.NewDocumentAnnotation("u1", models.AnnotationComment, 0, "root")
		require.True(t, f.store.AddAnnotation(doc.ID, "u1", annotation))

		assert.False(t, f.store.AddReply(doc.ID, annotation.ID, "u9", "no access"))

		require.True(t, f.store.ShareDocument(doc.ID, "u2", models.RoleViewer))
		assert.True(t, f.store.AddReply(doc.ID, annotation.ID, "u2", "mine works"))

		annotations, _ := f.store.Annotations(doc.ID)
		require.Len(t, annotations[0].Replies, 1)
		assert.Equal(t, "u2", annotations[0].Replies[0].UserID)
	})
}

// TestDocumentStore_Scenario walks the end-to-end collaboration flow:
// Alice hosts a session, Bob joins, edits are gated by role, and the
// session closes when the last participant leaves.
func TestDocumentStore_Scenario(t *testing.T) {
	f := newFixture(t, StoreOptions{})
	alice := user("alice", "Alice")
	bob := user("bob", "Bob")

	session := f.startSession(t, alice)
	require.True(t, f.registry.JoinSession(session.ID, bob))

	doc, err := f.store.CreateSharedDocument("Spec", "Hello", alice)
	require.NoError(t, err)
	require.Equal(t, 1, doc.Version)
	require.True(t, f.store.HasDocumentAccess("alice", doc.ID, models.RoleOwner))

	// Bob has no role yet; his delete is denied and version holds.
	assert.False(t, f.store.ApplyEdit(doc.ID, "bob", models.NewEditOperation(models.OpDelete, 0, "Hello", "bob")))
	current, _ := f.store.Document(doc.ID)
	assert.Equal(t, 1, current.Version)

	// Shared as editor, Bob's insert lands.
	require.True(t, f.store.ShareDocument(doc.ID, "bob", models.RoleEditor))
	require.True(t, f.store.ApplyEdit(doc.ID, "bob", models.NewEditOperation(models.OpInsert, 5, " World", "bob")))

	content, _ := f.store.Content(doc.ID)
	assert.Equal(t, "Hello World", content)
	current, _ = f.store.Document(doc.ID)
	assert.Equal(t, 2, current.Version)

	// Alice leaves; Bob still holds the session open.
	f.registry.LeaveSession(alice)
	assert.True(t, f.registry.HasActiveSession())

	f.registry.LeaveSession(bob)
	assert.False(t, f.registry.HasActiveSession())
	assert.Equal(t, models.SessionClosed, f.registry.ActiveSession().Status)
}
