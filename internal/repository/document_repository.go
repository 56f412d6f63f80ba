package repository

import (
	"context"
	"database/sql"

	"github.com/scribesync/server/internal/models"
)

// DocumentRepository implements DocumentRepo for PostgreSQL/SQLite
type DocumentRepository struct {
	db *sql.DB
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) SaveRevision(ctx context.Context, doc *models.SharedDocument, content string) error {
	query := `INSERT INTO documents (id, title, created_at, created_by, last_modified_at, last_modified_by, version, content)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  ON CONFLICT (id) DO UPDATE SET
				  title = $2,
				  last_modified_at = $5,
				  last_modified_by = $6,
				  version = $7,
				  content = $8`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.Title, doc.CreatedAt, doc.CreatedBy,
		doc.LastModifiedAt, doc.LastModifiedBy, doc.Version, content)
	return err
}

func (r *DocumentRepository) GetByID(ctx context.Context, documentID string) (*models.SharedDocument, string, error) {
	query := `SELECT id, title, created_at, created_by, last_modified_at, last_modified_by, version, content
			  FROM documents WHERE id = $1`

	var d models.SharedDocument
	var content string
	err := r.db.QueryRowContext(ctx, query, documentID).Scan(
		&d.ID, &d.Title, &d.CreatedAt, &d.CreatedBy,
		&d.LastModifiedAt, &d.LastModifiedBy, &d.Version, &content)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return &d, content, nil
}

func (r *DocumentRepository) GetAll(ctx context.Context) ([]*models.SharedDocument, error) {
	query := `SELECT id, title, created_at, created_by, last_modified_at, last_modified_by, version
			  FROM documents ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.SharedDocument
	for rows.Next() {
		var d models.SharedDocument
		if err := rows.Scan(&d.ID, &d.Title, &d.CreatedAt, &d.CreatedBy,
			&d.LastModifiedAt, &d.LastModifiedBy, &d.Version); err != nil {
			return nil, err
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}
