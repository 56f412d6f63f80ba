package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SessionStatus represents the lifecycle state of a collaboration session
type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionClosed SessionStatus = "closed"
)

// CollaborationSession is a live editing session shared by connected users
type CollaborationSession struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	CreatedAt time.Time     `json:"createdAt"`
	CreatedBy string        `json:"createdBy"`
	Status    SessionStatus `json:"status"`
}

// NewCollaborationSession creates an active session owned by the creator
func NewCollaborationSession(name string, creator CollaborationUser) (*CollaborationSession, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptySessionName
	}
	if creator.ID == "" {
		return nil, ErrEmptyUserID
	}

	return &CollaborationSession{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		CreatedBy: creator.ID,
		Status:    SessionActive,
	}, nil
}

// IsActive reports whether the session still accepts participants
func (s *CollaborationSession) IsActive() bool {
	return s.Status == SessionActive
}
