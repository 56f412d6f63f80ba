package models

import (
	"time"

	"github.com/google/uuid"
)

// AnnotationType identifies the kind of annotation anchored to a document
type AnnotationType string

const (
	AnnotationComment    AnnotationType = "comment"
	AnnotationHighlight  AnnotationType = "highlight"
	AnnotationSuggestion AnnotationType = "suggestion"
	AnnotationDrawing    AnnotationType = "drawing"
)

// IsValidAnnotationType checks if an annotation type value is valid
func IsValidAnnotationType(t string) bool {
	switch AnnotationType(t) {
	case AnnotationComment, AnnotationHighlight, AnnotationSuggestion, AnnotationDrawing:
		return true
	}
	return false
}

// AnnotationReply is a threaded reply on an annotation; replies only accumulate
type AnnotationReply struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	Content   string    `json:"content"`
}

// NewAnnotationReply creates a reply stamped with the current time
func NewAnnotationReply(userID, content string) AnnotationReply {
	return AnnotationReply{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
		Content:   content,
	}
}

// DocumentAnnotation is anchored to an integer offset at creation time.
// The anchor is never re-adjusted when later edits shift the surrounding
// text; consumers that need live anchors must track them externally.
type DocumentAnnotation struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	CreatedAt time.Time         `json:"createdAt"`
	Type      AnnotationType    `json:"type"`
	Position  int               `json:"position"`
	Content   string            `json:"content"`
	Replies   []AnnotationReply `json:"replies,omitempty"`
}

// NewDocumentAnnotation creates an annotation with a generated ID
func NewDocumentAnnotation(userID string, annType AnnotationType, position int, content string) DocumentAnnotation {
	return DocumentAnnotation{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
		Type:      annType,
		Position:  position,
		Content:   content,
	}
}
