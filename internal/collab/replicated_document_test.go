package collab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribesync/server/internal/models"
)

func op(opType models.OperationType, pos int, content string) models.EditOperation {
	return models.NewEditOperation(opType, pos, content, "u1")
}

func TestReplicatedDocument_ApplyOperation(t *testing.T) {
	t.Run("insert splices content at position", func(t *testing.T) {
		doc := NewReplicatedDocument("Hello")

		doc.ApplyOperation(op(models.OpInsert, 5, " World"), "Alice")

		assert.Equal(t, "Hello World", doc.Content())
	})

	t.Run("insert at position zero prepends", func(t *testing.T) {
		doc := NewReplicatedDocument("World")

		doc.ApplyOperation(op(models.OpInsert, 0, "Hello "), "Alice")

		assert.Equal(t, "Hello World", doc.Content())
	})

	t.Run("delete removes run of recorded content length", func(t *testing.T) {
		doc := NewReplicatedDocument("Hello World")

		doc.ApplyOperation(op(models.OpDelete, 5, " World"), "Alice")

		assert.Equal(t, "Hello", doc.Content())
	})

	t.Run("replace swaps run of equal length", func(t *testing.T) {
		doc := NewReplicatedDocument("Hello World")

		doc.ApplyOperation(op(models.OpReplace, 6, "Earth"), "Alice")

		assert.Equal(t, "Hello Earth", doc.Content())
	})

	t.Run("clamps negative position to start", func(t *testing.T) {
		doc := NewReplicatedDocument("abc")

		doc.ApplyOperation(op(models.OpInsert, -5, "x"), "Alice")

		assert.Equal(t, "xabc", doc.Content())
	})

	t.Run("clamps oversized position to end", func(t *testing.T) {
		doc := NewReplicatedDocument("abc")

		doc.ApplyOperation(op(models.OpInsert, 99, "x"), "Alice")

		assert.Equal(t, "abcx", doc.Content())
	})

	t.Run("clamps delete run past the end", func(t *testing.T) {
		doc := NewReplicatedDocument("abc")

		doc.ApplyOperation(op(models.OpDelete, 1, "bcdefgh"), "Alice")

		assert.Equal(t, "a", doc.Content())
	})

	t.Run("stale delete removes the wrong run", func(t *testing.T) {
		// The run length comes from the operation's recorded content and is
		// not re-validated against the live text; this drift is contractual.
		doc := NewReplicatedDocument("abcdef")

		doc.ApplyOperation(op(models.OpInsert, 0, "XY"), "Alice")
		doc.ApplyOperation(op(models.OpDelete, 0, "ab"), "Bob")

		assert.Equal(t, "abcdef", doc.Content())
	})
}

func TestReplicatedDocument_SequentialFold(t *testing.T) {
	t.Run("applying operations in order equals the left-to-right fold", func(t *testing.T) {
		ops := []models.EditOperation{
			op(models.OpInsert, 0, "Hello"),
			op(models.OpInsert, 5, " World"),
			op(models.OpReplace, 0, "Howdy"),
			op(models.OpDelete, 5, " World"),
			op(models.OpInsert, 5, "!"),
		}

		doc := NewReplicatedDocument("")
		for _, o := range ops {
			doc.ApplyOperation(o, "Alice")
		}

		assert.Equal(t, "Howdy!", doc.Content())

		// Different order, different result: application is not commutative.
		reordered := NewReplicatedDocument("")
		reordered.ApplyOperation(ops[1], "Alice")
		reordered.ApplyOperation(ops[0], "Alice")
		assert.NotEqual(t, doc.Content(), reordered.Content())
	})
}

func TestReplicatedDocument_History(t *testing.T) {
	t.Run("records every applied operation in order", func(t *testing.T) {
		doc := NewReplicatedDocument("")

		doc.ApplyOperation(op(models.OpInsert, 0, "a"), "Alice")
		doc.ApplyOperation(op(models.OpInsert, 1, "b"), "Bob")

		history := doc.History()
		require.Len(t, history, 2)
		assert.Equal(t, "Alice", history[0].UserName)
		assert.Equal(t, "Bob", history[1].UserName)
		assert.Equal(t, models.OpInsert, history[0].Operation.Type)
	})

	t.Run("returns a copy, not the live log", func(t *testing.T) {
		doc := NewReplicatedDocument("")
		doc.ApplyOperation(op(models.OpInsert, 0, "a"), "Alice")

		history := doc.History()
		history[0].UserName = "Mallory"

		assert.Equal(t, "Alice", doc.History()[0].UserName)
	})
}

func TestReplicatedDocument_Annotations(t *testing.T) {
	t.Run("anchor position is never re-adjusted by later edits", func(t *testing.T) {
		doc := NewReplicatedDocument("Hello World")

		annotation := models.NewDocumentAnnotation("u1", models.AnnotationComment, 6, "nice")
		doc.AddAnnotation(annotation)

		// An insert earlier in the document shifts the text but not the anchor.
		doc.ApplyOperation(op(models.OpInsert, 0, ">>> "), "Alice")

		annotations := doc.Annotations()
		require.Len(t, annotations, 1)
		assert.Equal(t, 6, annotations[0].Position)
	})

	t.Run("replies accumulate on the right annotation", func(t *testing.T) {
		doc := NewReplicatedDocument("text")

		first := models.NewDocumentAnnotation("u1", models.AnnotationComment, 0, "first")
		second := models.NewDocumentAnnotation("u1", models.AnnotationHighlight, 2, "second")
		doc.AddAnnotation(first)
		doc.AddAnnotation(second)

		assert.True(t, doc.AddReply(second.ID, models.NewAnnotationReply("u2", "agreed")))
		assert.False(t, doc.AddReply("missing", models.NewAnnotationReply("u2", "lost")))

		annotations := doc.Annotations()
		require.Len(t, annotations, 2)
		assert.Empty(t, annotations[0].Replies)
		require.Len(t, annotations[1].Replies, 1)
		assert.Equal(t, "agreed", annotations[1].Replies[0].Content)
	})
}
