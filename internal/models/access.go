package models

import "time"

// Role is the access level a user holds on a document. Roles form a total
// order: owner satisfies any requirement, editor satisfies editor and
// viewer, viewer satisfies only viewer.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleOwner  Role = "owner"
)

// IsValidRole checks if a role value is valid
func IsValidRole(r string) bool {
	switch Role(r) {
	case RoleViewer, RoleEditor, RoleOwner:
		return true
	}
	return false
}

// Level returns the role's rank in the total order; unknown roles rank
// below viewer so they never satisfy any requirement.
func (r Role) Level() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleEditor:
		return 2
	case RoleViewer:
		return 1
	default:
		return 0
	}
}

// Satisfies reports whether this role meets the required role
func (r Role) Satisfies(required Role) bool {
	return r.Level() >= required.Level() && r.Level() > 0
}

// AccessControlEntry grants a user a role on one document
type AccessControlEntry struct {
	DocumentID string    `json:"documentId"`
	UserID     string    `json:"userId"`
	Role       Role      `json:"role"`
	GrantedAt  time.Time `json:"grantedAt"`
}
