package models

// Collaboration errors
var (
	ErrNoActiveSession  = CollabError{"no active collaboration session"}
	ErrSessionNotFound  = CollabError{"session not found"}
	ErrDocumentNotFound = CollabError{"document not found"}
	ErrAccessDenied     = CollabError{"insufficient access to document"}
	ErrEmptyTitle       = CollabError{"document title cannot be empty"}
	ErrEmptySessionName = CollabError{"session name cannot be empty"}
	ErrEmptyUserID      = CollabError{"user id cannot be empty"}
)

type CollabError struct {
	Message string
}

func (e CollabError) Error() string {
	return e.Message
}
