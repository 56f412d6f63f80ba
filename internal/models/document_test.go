package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser(id, name string) CollaborationUser {
	return CollaborationUser{ID: id, Name: name, Email: name + "@example.com"}
}

func TestNewSharedDocument(t *testing.T) {
	t.Run("creates document at version 1", func(t *testing.T) {
		doc, err := NewSharedDocument("Spec", testUser("u1", "Alice"))

		require.NoError(t, err)
		assert.NotEmpty(t, doc.ID)
		assert.Equal(t, "Spec", doc.Title)
		assert.Equal(t, "u1", doc.CreatedBy)
		assert.Equal(t, "u1", doc.LastModifiedBy)
		assert.Equal(t, 1, doc.Version)
		assert.WithinDuration(t, time.Now().UTC(), doc.CreatedAt, time.Second*5)
	})

	t.Run("trims title whitespace", func(t *testing.T) {
		doc, err := NewSharedDocument("  Spec  ", testUser("u1", "Alice"))

		require.NoError(t, err)
		assert.Equal(t, "Spec", doc.Title)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := NewSharedDocument("   ", testUser("u1", "Alice"))
		assert.ErrorIs(t, err, ErrEmptyTitle)
	})

	t.Run("rejects creator without id", func(t *testing.T) {
		_, err := NewSharedDocument("Spec", CollaborationUser{})
		assert.ErrorIs(t, err, ErrEmptyUserID)
	})
}

func TestSharedDocument_RecordEdit(t *testing.T) {
	t.Run("bumps version by exactly one", func(t *testing.T) {
		doc, err := NewSharedDocument("Spec", testUser("u1", "Alice"))
		require.NoError(t, err)

		at := time.Now().UTC()
		doc.RecordEdit("u2", at)

		assert.Equal(t, 2, doc.Version)
		assert.Equal(t, "u2", doc.LastModifiedBy)
		assert.Equal(t, at, doc.LastModifiedAt)
	})
}

func TestNewCollaborationSession(t *testing.T) {
	t.Run("creates active session", func(t *testing.T) {
		session, err := NewCollaborationSession("Design Sync", testUser("u1", "Alice"))

		require.NoError(t, err)
		assert.NotEmpty(t, session.ID)
		assert.Equal(t, "Design Sync", session.Name)
		assert.Equal(t, "u1", session.CreatedBy)
		assert.Equal(t, SessionActive, session.Status)
		assert.True(t, session.IsActive())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewCollaborationSession("", testUser("u1", "Alice"))
		assert.ErrorIs(t, err, ErrEmptySessionName)
	})
}

func TestNewCollaborationUser(t *testing.T) {
	t.Run("normalizes email to lowercase", func(t *testing.T) {
		user, err := NewCollaborationUser("u1", "Alice", "Alice@Example.COM")

		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
	})

	t.Run("rejects blank id", func(t *testing.T) {
		_, err := NewCollaborationUser("   ", "Alice", "alice@example.com")
		assert.ErrorIs(t, err, ErrEmptyUserID)
	})
}
