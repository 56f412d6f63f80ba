package repository

import (
	"context"
	"database/sql"

	"github.com/scribesync/server/internal/models"
)

// SessionRepository implements SessionRepo for PostgreSQL/SQLite
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Upsert(ctx context.Context, session *models.CollaborationSession) error {
	query := `INSERT INTO sessions (id, name, created_at, created_by, status)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (id) DO UPDATE SET name = $2, status = $5`

	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.Name, session.CreatedAt, session.CreatedBy, string(session.Status))
	return err
}

func (r *SessionRepository) UpdateStatus(ctx context.Context, sessionID string, status models.SessionStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE sessions SET status = $1 WHERE id = $2`, string(status), sessionID)
	return err
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID string) (*models.CollaborationSession, error) {
	query := `SELECT id, name, created_at, created_by, status FROM sessions WHERE id = $1`

	var s models.CollaborationSession
	var status string
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&s.ID, &s.Name, &s.CreatedAt, &s.CreatedBy, &status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.Status = models.SessionStatus(status)
	return &s, nil
}
