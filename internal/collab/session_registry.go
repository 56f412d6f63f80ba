package collab

import (
	"sort"
	"time"

	"github.com/scribesync/server/internal/models"
)

// SessionRegistry tracks the active collaboration session and its connected
// participants. A registry holds at most one active session at a time — a
// deliberate simplification, not a multi-tenant session store; creating a
// new session replaces the previous one.
type SessionRegistry struct {
	bus       *EventBus
	active    *models.CollaborationSession
	connected map[string]models.CollaborationUser
}

// NewSessionRegistry creates a registry publishing on the given bus
func NewSessionRegistry(bus *EventBus) *SessionRegistry {
	return &SessionRegistry{
		bus:       bus,
		connected: make(map[string]models.CollaborationUser),
	}
}

// CreateSession starts a fresh session as the active one. The creator
// becomes the sole connected participant.
func (r *SessionRegistry) CreateSession(name string, creator models.CollaborationUser) (*models.CollaborationSession, error) {
	session, err := models.NewCollaborationSession(name, creator)
	if err != nil {
		return nil, err
	}

	r.active = session
	r.connected = map[string]models.CollaborationUser{creator.ID: creator}

	r.bus.PublishSession(models.SessionUpdate{
		Type:      models.SessionCreatedEvent,
		SessionID: session.ID,
		Payload:   models.SessionCreatedPayload{Session: *session, Creator: creator},
	})
	return session, nil
}

// JoinSession connects a user to the active session. It returns false, never
// an error, when the id does not match an active session. Re-joining while
// already connected is idempotent and still reports success.
func (r *SessionRegistry) JoinSession(sessionID string, user models.CollaborationUser) bool {
	if r.active == nil || !r.active.IsActive() || r.active.ID != sessionID {
		return false
	}

	if _, ok := r.connected[user.ID]; ok {
		return true
	}

	r.connected[user.ID] = user
	r.bus.PublishSession(models.SessionUpdate{
		Type:      models.UserJoinedEvent,
		SessionID: sessionID,
		Payload:   models.UserJoinedPayload{User: user},
	})
	return true
}

// LeaveSession disconnects a user. Removing an unconnected user is a no-op.
// When the last participant leaves, the session transitions to closed.
// Closing a session does not touch its documents; see StoreOptions for the
// optional lock-on-close behavior.
func (r *SessionRegistry) LeaveSession(user models.CollaborationUser) {
	if r.active == nil {
		return
	}
	if _, ok := r.connected[user.ID]; !ok {
		return
	}

	delete(r.connected, user.ID)
	r.bus.PublishSession(models.SessionUpdate{
		Type:      models.UserLeftEvent,
		SessionID: r.active.ID,
		Payload:   models.UserLeftPayload{User: user},
	})

	if len(r.connected) == 0 && r.active.IsActive() {
		r.active.Status = models.SessionClosed
		r.bus.PublishSession(models.SessionUpdate{
			Type:      models.SessionClosedEvent,
			SessionID: r.active.ID,
			Payload:   models.SessionClosedPayload{ClosedAt: time.Now().UTC()},
		})
	}
}

// ShareConversation announces a conversation shared into the active session.
// Returns false when no session is active.
func (r *SessionRegistry) ShareConversation(conversationID string, user models.CollaborationUser) bool {
	if r.active == nil || !r.active.IsActive() {
		return false
	}

	r.bus.PublishSession(models.SessionUpdate{
		Type:      models.ConversationSharedEvent,
		SessionID: r.active.ID,
		Payload:   models.ConversationSharedPayload{ConversationID: conversationID, SharedBy: user},
	})
	return true
}

// ActiveSession returns the current session, which may be closed, or nil if
// none was ever created
func (r *SessionRegistry) ActiveSession() *models.CollaborationSession {
	return r.active
}

// HasActiveSession reports whether a session is currently active
func (r *SessionRegistry) HasActiveSession() bool {
	return r.active != nil && r.active.IsActive()
}

// ConnectedUsers returns the connected participants ordered by user id
func (r *SessionRegistry) ConnectedUsers() []models.CollaborationUser {
	users := make([]models.CollaborationUser, 0, len(r.connected))
	for _, u := range r.connected {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}
