package models

import "time"

// OperationType identifies the kind of edit applied to a document
type OperationType string

const (
	OpInsert  OperationType = "insert"
	OpDelete  OperationType = "delete"
	OpReplace OperationType = "replace"
)

// IsValidOperationType checks if an operation type value is valid
func IsValidOperationType(t string) bool {
	switch OperationType(t) {
	case OpInsert, OpDelete, OpReplace:
		return true
	}
	return false
}

// EditOperation is a single edit against a document replica. It is plain
// structured data so a transport layer can carry it across a process
// boundary unchanged.
//
// Position is an integer offset into the document content. For delete and
// replace, Content records the text the operation targets; its length is the
// run length removed or replaced.
type EditOperation struct {
	Type      OperationType `json:"type"`
	Position  int           `json:"position"`
	Content   string        `json:"content"`
	Timestamp time.Time     `json:"timestamp"`
	UserID    string        `json:"userId"`
}

// NewEditOperation stamps an operation with the acting user and current time
func NewEditOperation(opType OperationType, position int, content, userID string) EditOperation {
	return EditOperation{
		Type:      opType,
		Position:  position,
		Content:   content,
		Timestamp: time.Now().UTC(),
		UserID:    userID,
	}
}

// HistoryEntry pairs an applied operation with the display name of the user
// who applied it. Only successfully applied operations appear in history.
type HistoryEntry struct {
	Operation EditOperation `json:"operation"`
	UserName  string        `json:"userName"`
}
