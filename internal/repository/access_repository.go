package repository

import (
	"context"
	"database/sql"

	"github.com/scribesync/server/internal/models"
)

// AccessRepository implements AccessRepo for PostgreSQL/SQLite
type AccessRepository struct {
	db *sql.DB
}

// NewAccessRepository creates a new AccessRepository
func NewAccessRepository(db *sql.DB) *AccessRepository {
	return &AccessRepository{db: db}
}

func (r *AccessRepository) Grant(ctx context.Context, entry models.AccessControlEntry) error {
	query := `INSERT INTO document_access (document_id, user_id, role, granted_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (document_id, user_id) DO UPDATE SET role = $3, granted_at = $4`

	_, err := r.db.ExecContext(ctx, query,
		entry.DocumentID, entry.UserID, string(entry.Role), entry.GrantedAt)
	return err
}

func (r *AccessRepository) GetByDocumentID(ctx context.Context, documentID string) ([]models.AccessControlEntry, error) {
	query := `SELECT document_id, user_id, role, granted_at
			  FROM document_access WHERE document_id = $1 ORDER BY granted_at ASC`

	rows, err := r.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.AccessControlEntry
	for rows.Next() {
		var e models.AccessControlEntry
		var role string
		if err := rows.Scan(&e.DocumentID, &e.UserID, &role, &e.GrantedAt); err != nil {
			return nil, err
		}
		e.Role = models.Role(role)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
