package collab

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/scribesync/server/internal/models"
)

// StoreOptions tunes document store behavior
type StoreOptions struct {
	// LockOnSessionClose rejects edits and annotations while no session is
	// active. The default (false) leaves documents editable after their
	// session closes; whether a closed session should protect its documents
	// is intentionally left to the host.
	LockOnSessionClose bool
}

// documentState ties a document's metadata to its replica
type documentState struct {
	meta    *models.SharedDocument
	replica *ReplicatedDocument
}

// DocumentStore is the registry of shared documents and the gated entry
// point for every mutation. It consults the access table before touching a
// replica, bumps the version on each applied edit, and publishes an event
// for every successful mutation.
type DocumentStore struct {
	bus      *EventBus
	sessions *SessionRegistry
	acl      *AccessControlTable
	docs     map[string]*documentState
	names    map[string]string
	opts     StoreOptions
}

// NewDocumentStore creates an empty store bound to a session registry and bus
func NewDocumentStore(bus *EventBus, sessions *SessionRegistry, opts StoreOptions) *DocumentStore {
	return &DocumentStore{
		bus:      bus,
		sessions: sessions,
		acl:      NewAccessControlTable(),
		docs:     make(map[string]*documentState),
		names:    make(map[string]string),
		opts:     opts,
	}
}

// CreateSharedDocument creates a document inside the active session, seeds
// its ACL with the creator as owner, and initializes the replica with the
// given content. Without an active session it returns ErrNoActiveSession —
// a recoverable typed error, never a crash.
func (s *DocumentStore) CreateSharedDocument(title, content string, creator models.CollaborationUser) (*models.SharedDocument, error) {
	if !s.sessions.HasActiveSession() {
		return nil, models.ErrNoActiveSession
	}

	doc, err := models.NewSharedDocument(title, creator)
	if err != nil {
		return nil, err
	}

	s.docs[doc.ID] = &documentState{
		meta:    doc,
		replica: NewReplicatedDocument(content),
	}
	s.acl.Grant(doc.ID, creator.ID, models.RoleOwner)
	s.rememberName(creator.ID, creator.Name)

	s.bus.PublishDocument(models.DocumentUpdate{
		Type:       models.DocumentCreatedEvent,
		DocumentID: doc.ID,
		UserID:     creator.ID,
		Payload:    models.DocumentCreatedPayload{Document: *doc},
	})

	out := *doc
	return &out, nil
}

// ShareDocument upserts an ACL entry granting userID the role. Returns
// false when the document is unknown.
func (s *DocumentStore) ShareDocument(documentID, userID string, role models.Role) bool {
	if _, ok := s.docs[documentID]; !ok {
		return false
	}

	s.acl.Grant(documentID, userID, role)
	s.bus.PublishDocument(models.DocumentUpdate{
		Type:       models.DocumentSharedEvent,
		DocumentID: documentID,
		UserID:     userID,
		Payload:    models.DocumentSharedPayload{TargetUserID: userID, Role: role},
	})
	return true
}

// HasDocumentAccess reports whether the user's role on the document
// satisfies the required role. Unknown users and documents fail the check.
func (s *DocumentStore) HasDocumentAccess(userID, documentID string, required models.Role) bool {
	return s.acl.HasAccess(documentID, userID, required)
}

// ApplyEdit applies an operation to a document on behalf of a user. The
// document must exist, the user needs at least editor access, and when the
// store is configured to lock on session close a session must be active.
// On success the version is bumped by exactly one and documentEdited is
// published with the new version; on any failure it returns false with no
// state change.
func (s *DocumentStore) ApplyEdit(documentID, userID string, op models.EditOperation) bool {
	state, ok := s.docs[documentID]
	if !ok {
		return false
	}
	if !s.acl.HasAccess(documentID, userID, models.RoleEditor) {
		return false
	}
	if s.opts.LockOnSessionClose && !s.sessions.HasActiveSession() {
		return false
	}

	state.replica.ApplyOperation(op, s.displayName(userID))
	state.meta.RecordEdit(userID, time.Now().UTC())

	s.bus.PublishDocument(models.DocumentUpdate{
		Type:       models.DocumentEditedEvent,
		DocumentID: documentID,
		UserID:     userID,
		Payload:    models.DocumentEditedPayload{Operation: op, Version: state.meta.Version},
	})
	return true
}

// AddAnnotation anchors an annotation for a user with at least viewer
// access. A blank annotation id is filled in. Annotations never shift and
// are never removed.
func (s *DocumentStore) AddAnnotation(documentID, userID string, annotation models.DocumentAnnotation) bool {
	state, ok := s.docs[documentID]
	if !ok {
		return false
	}
	if !s.acl.HasAccess(documentID, userID, models.RoleViewer) {
		return false
	}
	if s.opts.LockOnSessionClose && !s.sessions.HasActiveSession() {
		return false
	}

	if annotation.ID == "" {
		annotation.ID = uuid.New().String()
	}
	annotation.UserID = userID
	state.replica.AddAnnotation(annotation)

	s.bus.PublishDocument(models.DocumentUpdate{
		Type:       models.AnnotationAddedEvent,
		DocumentID: documentID,
		UserID:     userID,
		Payload:    models.AnnotationAddedPayload{Annotation: annotation},
	})
	return true
}

// AddReply appends a reply to an existing annotation; viewer access required
func (s *DocumentStore) AddReply(documentID, annotationID, userID, content string) bool {
	state, ok := s.docs[documentID]
	if !ok {
		return false
	}
	if !s.acl.HasAccess(documentID, userID, models.RoleViewer) {
		return false
	}

	reply := models.NewAnnotationReply(userID, content)
	if !state.replica.AddReply(annotationID, reply) {
		return false
	}

	s.bus.PublishDocument(models.DocumentUpdate{
		Type:       models.AnnotationRepliedEvent,
		DocumentID: documentID,
		UserID:     userID,
		Payload:    models.AnnotationRepliedPayload{AnnotationID: annotationID, Reply: reply},
	})
	return true
}

// Document returns a copy of the document metadata
func (s *DocumentStore) Document(documentID string) (models.SharedDocument, bool) {
	state, ok := s.docs[documentID]
	if !ok {
		return models.SharedDocument{}, false
	}
	return *state.meta, true
}

// Documents returns all document metadata ordered by creation time
func (s *DocumentStore) Documents() []models.SharedDocument {
	out := make([]models.SharedDocument, 0, len(s.docs))
	for _, state := range s.docs {
		out = append(out, *state.meta)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Content returns the replica's current text
func (s *DocumentStore) Content(documentID string) (string, bool) {
	state, ok := s.docs[documentID]
	if !ok {
		return "", false
	}
	return state.replica.Content(), true
}

// History returns the applied operations with the display name of each user
func (s *DocumentStore) History(documentID string) ([]models.HistoryEntry, bool) {
	state, ok := s.docs[documentID]
	if !ok {
		return nil, false
	}
	return state.replica.History(), true
}

// Annotations returns the document's annotations in insertion order
func (s *DocumentStore) Annotations(documentID string) ([]models.DocumentAnnotation, bool) {
	state, ok := s.docs[documentID]
	if !ok {
		return nil, false
	}
	return state.replica.Annotations(), true
}

// AccessEntries returns the ACL entries for a document
func (s *DocumentStore) AccessEntries(documentID string) []models.AccessControlEntry {
	return s.acl.Entries(documentID)
}

func (s *DocumentStore) rememberName(userID, name string) {
	if name != "" {
		s.names[userID] = name
	}
}

// displayName resolves a user id to a name for history entries, preferring
// the connected-user roster over previously seen names.
func (s *DocumentStore) displayName(userID string) string {
	for _, u := range s.sessions.ConnectedUsers() {
		if u.ID == userID && u.Name != "" {
			s.names[userID] = u.Name
			return u.Name
		}
	}
	if name, ok := s.names[userID]; ok {
		return name
	}
	return userID
}
