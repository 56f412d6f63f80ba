package repository

import (
	"database/sql"

	_ "github.com/lib/pq"
)

// NewPostgresDB creates and initializes a PostgreSQL database connection
func NewPostgresDB(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := createPostgresTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func createPostgresTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		created_by TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active'
	);

	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		created_by TEXT NOT NULL,
		last_modified_at TIMESTAMP NOT NULL,
		last_modified_by TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		content TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS document_access (
		document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		role TEXT NOT NULL,
		granted_at TIMESTAMP NOT NULL,
		PRIMARY KEY (document_id, user_id)
	);

	CREATE INDEX IF NOT EXISTS idx_document_access_user_id ON document_access(user_id);

	CREATE TABLE IF NOT EXISTS document_operations (
		document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		op_type TEXT NOT NULL,
		position INTEGER NOT NULL,
		content TEXT NOT NULL,
		op_timestamp TIMESTAMP NOT NULL,
		user_id TEXT NOT NULL,
		PRIMARY KEY (document_id, seq)
	);

	CREATE TABLE IF NOT EXISTS document_annotations (
		id TEXT PRIMARY KEY,
		document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		ann_type TEXT NOT NULL,
		position INTEGER NOT NULL,
		content TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_document_annotations_document_id ON document_annotations(document_id);

	CREATE TABLE IF NOT EXISTS annotation_replies (
		id TEXT PRIMARY KEY,
		annotation_id TEXT NOT NULL REFERENCES document_annotations(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		content TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_annotation_replies_annotation_id ON annotation_replies(annotation_id);
	`

	_, err := db.Exec(schema)
	return err
}
