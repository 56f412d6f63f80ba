package repository

import (
	"context"
	"database/sql"

	"github.com/scribesync/server/internal/models"
)

// OperationRepository implements OperationRepo for PostgreSQL/SQLite.
// The log is append-only: rows are inserted and never updated or deleted.
type OperationRepository struct {
	db *sql.DB
}

// NewOperationRepository creates a new OperationRepository
func NewOperationRepository(db *sql.DB) *OperationRepository {
	return &OperationRepository{db: db}
}

func (r *OperationRepository) Append(ctx context.Context, documentID string, seq int, op models.EditOperation) error {
	query := `INSERT INTO document_operations (document_id, seq, op_type, position, content, op_timestamp, user_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (document_id, seq) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		documentID, seq, string(op.Type), op.Position, op.Content, op.Timestamp, op.UserID)
	return err
}

func (r *OperationRepository) GetByDocumentID(ctx context.Context, documentID string) ([]models.EditOperation, error) {
	query := `SELECT op_type, position, content, op_timestamp, user_id
			  FROM document_operations WHERE document_id = $1 ORDER BY seq ASC`

	rows, err := r.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ops []models.EditOperation
	for rows.Next() {
		var op models.EditOperation
		var opType string
		if err := rows.Scan(&opType, &op.Position, &op.Content, &op.Timestamp, &op.UserID); err != nil {
			return nil, err
		}
		op.Type = models.OperationType(opType)
		ops = append(ops, op)
	}
	return ops, rows.Err()
}
