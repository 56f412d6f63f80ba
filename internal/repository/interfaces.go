package repository

import (
	"context"

	"github.com/scribesync/server/internal/models"
)

// SessionRepo persists collaboration session records
type SessionRepo interface {
	Upsert(ctx context.Context, session *models.CollaborationSession) error
	UpdateStatus(ctx context.Context, sessionID string, status models.SessionStatus) error
	GetByID(ctx context.Context, sessionID string) (*models.CollaborationSession, error)
}

// DocumentRepo persists document metadata and the latest content revision
type DocumentRepo interface {
	SaveRevision(ctx context.Context, doc *models.SharedDocument, content string) error
	GetByID(ctx context.Context, documentID string) (*models.SharedDocument, string, error)
	GetAll(ctx context.Context) ([]*models.SharedDocument, error)
}

// AccessRepo persists ACL entries
type AccessRepo interface {
	Grant(ctx context.Context, entry models.AccessControlEntry) error
	GetByDocumentID(ctx context.Context, documentID string) ([]models.AccessControlEntry, error)
}

// OperationRepo persists the append-only operation log
type OperationRepo interface {
	Append(ctx context.Context, documentID string, seq int, op models.EditOperation) error
	GetByDocumentID(ctx context.Context, documentID string) ([]models.EditOperation, error)
}

// AnnotationRepo persists annotations and their replies
type AnnotationRepo interface {
	Add(ctx context.Context, documentID string, annotation models.DocumentAnnotation) error
	AddReply(ctx context.Context, annotationID string, reply models.AnnotationReply) error
	GetByDocumentID(ctx context.Context, documentID string) ([]models.DocumentAnnotation, error)
}
