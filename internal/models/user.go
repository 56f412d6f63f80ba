package models

import "strings"

// CollaborationUser identifies a participant in a session.
// Identity is supplied by the caller; the core performs no authentication.
type CollaborationUser struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// NewCollaborationUser builds a user after trimming and validating identity fields
func NewCollaborationUser(id, name, email string) (CollaborationUser, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return CollaborationUser{}, ErrEmptyUserID
	}

	return CollaborationUser{
		ID:    id,
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(strings.ToLower(email)),
	}, nil
}
