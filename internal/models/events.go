package models

import "time"

// SessionUpdateType enumerates the session event kinds
type SessionUpdateType string

const (
	SessionCreatedEvent     SessionUpdateType = "sessionCreated"
	UserJoinedEvent         SessionUpdateType = "userJoined"
	UserLeftEvent           SessionUpdateType = "userLeft"
	SessionClosedEvent      SessionUpdateType = "sessionClosed"
	ConversationSharedEvent SessionUpdateType = "conversationShared"
)

// SessionPayload is implemented by the payload struct of each session event
// kind, so every event carries strongly typed fields instead of a
// string-keyed map.
type SessionPayload interface {
	sessionPayload()
}

// SessionCreatedPayload accompanies SessionCreatedEvent
type SessionCreatedPayload struct {
	Session CollaborationSession `json:"session"`
	Creator CollaborationUser    `json:"creator"`
}

// UserJoinedPayload accompanies UserJoinedEvent
type UserJoinedPayload struct {
	User CollaborationUser `json:"user"`
}

// UserLeftPayload accompanies UserLeftEvent
type UserLeftPayload struct {
	User CollaborationUser `json:"user"`
}

// SessionClosedPayload accompanies SessionClosedEvent
type SessionClosedPayload struct {
	ClosedAt time.Time `json:"closedAt"`
}

// ConversationSharedPayload accompanies ConversationSharedEvent
type ConversationSharedPayload struct {
	ConversationID string            `json:"conversationId"`
	SharedBy       CollaborationUser `json:"sharedBy"`
}

func (SessionCreatedPayload) sessionPayload()     {}
func (UserJoinedPayload) sessionPayload()         {}
func (UserLeftPayload) sessionPayload()           {}
func (SessionClosedPayload) sessionPayload()      {}
func (ConversationSharedPayload) sessionPayload() {}

// SessionUpdate is published for every session lifecycle change
type SessionUpdate struct {
	Type      SessionUpdateType `json:"type"`
	SessionID string            `json:"sessionId"`
	Payload   SessionPayload    `json:"payload"`
}

// DocumentUpdateType enumerates the document event kinds
type DocumentUpdateType string

const (
	DocumentCreatedEvent   DocumentUpdateType = "documentCreated"
	DocumentSharedEvent    DocumentUpdateType = "documentShared"
	DocumentEditedEvent    DocumentUpdateType = "documentEdited"
	AnnotationAddedEvent   DocumentUpdateType = "annotationAdded"
	AnnotationRepliedEvent DocumentUpdateType = "annotationReplied"
)

// DocumentPayload is implemented by the payload struct of each document
// event kind.
type DocumentPayload interface {
	documentPayload()
}

// DocumentCreatedPayload accompanies DocumentCreatedEvent
type DocumentCreatedPayload struct {
	Document SharedDocument `json:"document"`
}

// DocumentSharedPayload accompanies DocumentSharedEvent
type DocumentSharedPayload struct {
	TargetUserID string `json:"targetUserId"`
	Role         Role   `json:"role"`
}

// DocumentEditedPayload accompanies DocumentEditedEvent; Version is the
// document version after the edit was applied.
type DocumentEditedPayload struct {
	Operation EditOperation `json:"operation"`
	Version   int           `json:"version"`
}

// AnnotationAddedPayload accompanies AnnotationAddedEvent
type AnnotationAddedPayload struct {
	Annotation DocumentAnnotation `json:"annotation"`
}

// AnnotationRepliedPayload accompanies AnnotationRepliedEvent
type AnnotationRepliedPayload struct {
	AnnotationID string          `json:"annotationId"`
	Reply        AnnotationReply `json:"reply"`
}

func (DocumentCreatedPayload) documentPayload()   {}
func (DocumentSharedPayload) documentPayload()    {}
func (DocumentEditedPayload) documentPayload()    {}
func (AnnotationAddedPayload) documentPayload()   {}
func (AnnotationRepliedPayload) documentPayload() {}

// DocumentUpdate is published for every successful document mutation.
// UserID is the user whose action produced the event.
type DocumentUpdate struct {
	Type       DocumentUpdateType `json:"type"`
	DocumentID string             `json:"documentId"`
	UserID     string             `json:"userId"`
	Payload    DocumentPayload    `json:"payload"`
}
