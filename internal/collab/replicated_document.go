package collab

import "github.com/scribesync/server/internal/models"

// ReplicatedDocument is the in-memory replica for one document: its content,
// an append-only operation log, and anchored annotations. Operations are
// applied strictly in call order; that arrival order is the document's total
// order. This is sequential consistency under a single ordering authority,
// not a commutative multi-writer merge — there are no tombstones, per-unit
// identities, or vector clocks, so independently diverging replicas cannot
// be reconciled here.
type ReplicatedDocument struct {
	content     string
	history     []models.HistoryEntry
	annotations []models.DocumentAnnotation
}

// NewReplicatedDocument creates a replica seeded with initial content
func NewReplicatedDocument(content string) *ReplicatedDocument {
	return &ReplicatedDocument{content: content}
}

// clampOffset clamps pos into [0, limit]
func clampOffset(pos, limit int) int {
	if pos < 0 {
		return 0
	}
	if pos > limit {
		return limit
	}
	return pos
}

// ApplyOperation splices the operation into the content and appends it to
// the history. Out-of-range positions are clamped rather than rejected.
//
// For delete and replace the run length comes from the operation's recorded
// content and is not re-validated against the live text, so an operation
// built against a stale version can remove the wrong run. That drift is part
// of the replica's contract: the caller funnels edits through one authority
// precisely so positions stay fresh.
func (d *ReplicatedDocument) ApplyOperation(op models.EditOperation, userName string) {
	pos := clampOffset(op.Position, len(d.content))

	switch op.Type {
	case models.OpInsert:
		d.content = d.content[:pos] + op.Content + d.content[pos:]
	case models.OpDelete:
		end := clampOffset(pos+len(op.Content), len(d.content))
		d.content = d.content[:pos] + d.content[end:]
	case models.OpReplace:
		end := clampOffset(pos+len(op.Content), len(d.content))
		d.content = d.content[:pos] + op.Content + d.content[end:]
	}

	d.history = append(d.history, models.HistoryEntry{Operation: op, UserName: userName})
}

// AddAnnotation anchors an annotation at its stored offset. The anchor is
// fixed at insertion time and never shifted by later edits; annotations are
// never removed.
func (d *ReplicatedDocument) AddAnnotation(annotation models.DocumentAnnotation) {
	d.annotations = append(d.annotations, annotation)
}

// AddReply appends a reply to the annotation with the given id
func (d *ReplicatedDocument) AddReply(annotationID string, reply models.AnnotationReply) bool {
	for i := range d.annotations {
		if d.annotations[i].ID == annotationID {
			d.annotations[i].Replies = append(d.annotations[i].Replies, reply)
			return true
		}
	}
	return false
}

// Content returns the current document text
func (d *ReplicatedDocument) Content() string {
	return d.content
}

// History returns the applied operations in application order. Denied or
// rejected edits never reach the replica, so they never appear here.
func (d *ReplicatedDocument) History() []models.HistoryEntry {
	out := make([]models.HistoryEntry, len(d.history))
	copy(out, d.history)
	return out
}

// Annotations returns the annotations in insertion order
func (d *ReplicatedDocument) Annotations() []models.DocumentAnnotation {
	out := make([]models.DocumentAnnotation, len(d.annotations))
	copy(out, d.annotations)
	return out
}
