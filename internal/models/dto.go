package models

import "time"

// CreateSessionRequest is the request body for creating a session
type CreateSessionRequest struct {
	Name string            `json:"name"`
	User CollaborationUser `json:"user"`
}

// JoinSessionRequest is the request body for joining a session
type JoinSessionRequest struct {
	SessionID string            `json:"sessionId"`
	User      CollaborationUser `json:"user"`
}

// LeaveSessionRequest is the request body for leaving a session
type LeaveSessionRequest struct {
	User CollaborationUser `json:"user"`
}

// ShareConversationRequest is the request body for sharing a conversation
// into the active session
type ShareConversationRequest struct {
	ConversationID string            `json:"conversationId"`
	User           CollaborationUser `json:"user"`
}

// CreateDocumentRequest is the request body for creating a shared document
type CreateDocumentRequest struct {
	Title   string            `json:"title"`
	Content string            `json:"content"`
	User    CollaborationUser `json:"user"`
}

// ShareDocumentRequest is the request body for granting a user a role
type ShareDocumentRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// ApplyEditRequest is the request body for applying an edit operation
type ApplyEditRequest struct {
	UserID   string `json:"userId"`
	Type     string `json:"type"`
	Position int    `json:"position"`
	Content  string `json:"content"`
}

// AddAnnotationRequest is the request body for anchoring an annotation
type AddAnnotationRequest struct {
	UserID   string `json:"userId"`
	Type     string `json:"type"`
	Position int    `json:"position"`
	Content  string `json:"content"`
}

// AddReplyRequest is the request body for replying to an annotation
type AddReplyRequest struct {
	UserID  string `json:"userId"`
	Content string `json:"content"`
}

// DocumentResponse is a document with its current content
type DocumentResponse struct {
	Document SharedDocument `json:"document"`
	Content  string         `json:"content"`
}

// EditResponse reports the result of an applied edit
type EditResponse struct {
	Applied bool `json:"applied"`
	Version int  `json:"version"`
}

// ConnectedUsersResponse lists the users connected to the active session
type ConnectedUsersResponse struct {
	Users []CollaborationUser `json:"users"`
}

// ErrorResponse is returned on errors
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
