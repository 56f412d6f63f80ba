package collab

import (
	"time"

	"github.com/scribesync/server/internal/models"
)

// AccessControlTable maps (documentID, userID) to a role. It is pure data
// plus the role-order comparison; all gating decisions go through it.
type AccessControlTable struct {
	entries map[string]map[string]models.AccessControlEntry // documentID -> userID -> entry
}

// NewAccessControlTable creates an empty table
func NewAccessControlTable() *AccessControlTable {
	return &AccessControlTable{
		entries: make(map[string]map[string]models.AccessControlEntry),
	}
}

// Grant upserts a role for a user on a document
func (t *AccessControlTable) Grant(documentID, userID string, role models.Role) {
	if t.entries[documentID] == nil {
		t.entries[documentID] = make(map[string]models.AccessControlEntry)
	}
	t.entries[documentID][userID] = models.AccessControlEntry{
		DocumentID: documentID,
		UserID:     userID,
		Role:       role,
		GrantedAt:  time.Now().UTC(),
	}
}

// RoleOf returns the user's role on a document, if any
func (t *AccessControlTable) RoleOf(documentID, userID string) (models.Role, bool) {
	users, ok := t.entries[documentID]
	if !ok {
		return "", false
	}
	entry, ok := users[userID]
	if !ok {
		return "", false
	}
	return entry.Role, true
}

// HasAccess reports whether the user's role on the document satisfies the
// required role. Unknown documents and unknown users simply fail the check.
func (t *AccessControlTable) HasAccess(documentID, userID string, required models.Role) bool {
	role, ok := t.RoleOf(documentID, userID)
	if !ok {
		return false
	}
	return role.Satisfies(required)
}

// Entries returns all grants for a document in no particular order
func (t *AccessControlTable) Entries(documentID string) []models.AccessControlEntry {
	users := t.entries[documentID]
	out := make([]models.AccessControlEntry, 0, len(users))
	for _, entry := range users {
		out = append(out, entry)
	}
	return out
}
