package repository

import (
	"context"
	"database/sql"

	"github.com/scribesync/server/internal/models"
)

// AnnotationRepository implements AnnotationRepo for PostgreSQL/SQLite
type AnnotationRepository struct {
	db *sql.DB
}

// NewAnnotationRepository creates a new AnnotationRepository
func NewAnnotationRepository(db *sql.DB) *AnnotationRepository {
	return &AnnotationRepository{db: db}
}

func (r *AnnotationRepository) Add(ctx context.Context, documentID string, annotation models.DocumentAnnotation) error {
	query := `INSERT INTO document_annotations (id, document_id, user_id, created_at, ann_type, position, content)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		annotation.ID, documentID, annotation.UserID, annotation.CreatedAt,
		string(annotation.Type), annotation.Position, annotation.Content)
	return err
}

func (r *AnnotationRepository) AddReply(ctx context.Context, annotationID string, reply models.AnnotationReply) error {
	query := `INSERT INTO annotation_replies (id, annotation_id, user_id, created_at, content)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		reply.ID, annotationID, reply.UserID, reply.CreatedAt, reply.Content)
	return err
}

func (r *AnnotationRepository) GetByDocumentID(ctx context.Context, documentID string) ([]models.DocumentAnnotation, error) {
	query := `SELECT id, user_id, created_at, ann_type, position, content
			  FROM document_annotations WHERE document_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var annotations []models.DocumentAnnotation
	for rows.Next() {
		var a models.DocumentAnnotation
		var annType string
		if err := rows.Scan(&a.ID, &a.UserID, &a.CreatedAt, &annType, &a.Position, &a.Content); err != nil {
			return nil, err
		}
		a.Type = models.AnnotationType(annType)
		annotations = append(annotations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range annotations {
		replies, err := r.repliesFor(ctx, annotations[i].ID)
		if err != nil {
			return nil, err
		}
		annotations[i].Replies = replies
	}
	return annotations, nil
}

func (r *AnnotationRepository) repliesFor(ctx context.Context, annotationID string) ([]models.AnnotationReply, error) {
	query := `SELECT id, user_id, created_at, content
			  FROM annotation_replies WHERE annotation_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, annotationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var replies []models.AnnotationReply
	for rows.Next() {
		var reply models.AnnotationReply
		if err := rows.Scan(&reply.ID, &reply.UserID, &reply.CreatedAt, &reply.Content); err != nil {
			return nil, err
		}
		replies = append(replies, reply)
	}
	return replies, rows.Err()
}
