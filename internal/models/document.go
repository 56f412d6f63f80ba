package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SharedDocument holds the metadata of a collaboratively edited document.
// Content and history live in the replica owned by the document store;
// Version increases by exactly one per successfully applied edit.
type SharedDocument struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	CreatedAt      time.Time `json:"createdAt"`
	CreatedBy      string    `json:"createdBy"`
	LastModifiedAt time.Time `json:"lastModifiedAt"`
	LastModifiedBy string    `json:"lastModifiedBy"`
	Version        int       `json:"version"`
}

// NewSharedDocument creates document metadata at version 1
func NewSharedDocument(title string, creator CollaborationUser) (*SharedDocument, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if creator.ID == "" {
		return nil, ErrEmptyUserID
	}

	now := time.Now().UTC()
	return &SharedDocument{
		ID:             uuid.New().String(),
		Title:          title,
		CreatedAt:      now,
		CreatedBy:      creator.ID,
		LastModifiedAt: now,
		LastModifiedBy: creator.ID,
		Version:        1,
	}, nil
}

// RecordEdit bumps the version and stamps the modifying user
func (d *SharedDocument) RecordEdit(userID string, at time.Time) {
	d.Version++
	d.LastModifiedAt = at
	d.LastModifiedBy = userID
}
