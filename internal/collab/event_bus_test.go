package collab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribesync/server/internal/models"
)

func TestEventBus_PublishSession(t *testing.T) {
	t.Run("delivers synchronously to all subscribers", func(t *testing.T) {
		bus := NewEventBus()

		var first, second []models.SessionUpdateType
		bus.SubscribeSession(func(u models.SessionUpdate) { first = append(first, u.Type) })
		bus.SubscribeSession(func(u models.SessionUpdate) { second = append(second, u.Type) })

		bus.PublishSession(models.SessionUpdate{Type: models.SessionCreatedEvent, SessionID: "s1"})

		// No goroutines involved; both listeners already ran.
		assert.Equal(t, []models.SessionUpdateType{models.SessionCreatedEvent}, first)
		assert.Equal(t, []models.SessionUpdateType{models.SessionCreatedEvent}, second)
	})

	t.Run("late subscribers never see earlier events", func(t *testing.T) {
		bus := NewEventBus()

		bus.PublishSession(models.SessionUpdate{Type: models.SessionCreatedEvent, SessionID: "s1"})

		var got []models.SessionUpdate
		bus.SubscribeSession(func(u models.SessionUpdate) { got = append(got, u) })

		assert.Empty(t, got)
	})

	t.Run("unsubscribed listeners stop receiving", func(t *testing.T) {
		bus := NewEventBus()

		var count int
		id := bus.SubscribeSession(func(models.SessionUpdate) { count++ })

		bus.PublishSession(models.SessionUpdate{Type: models.UserJoinedEvent})
		bus.Unsubscribe(id)
		bus.PublishSession(models.SessionUpdate{Type: models.UserJoinedEvent})

		assert.Equal(t, 1, count)
	})
}

func TestEventBus_PublishDocument(t *testing.T) {
	t.Run("carries the typed payload through", func(t *testing.T) {
		bus := NewEventBus()

		var got models.DocumentUpdate
		bus.SubscribeDocument(func(u models.DocumentUpdate) { got = u })

		opPayload := models.DocumentEditedPayload{
			Operation: models.NewEditOperation(models.OpInsert, 5, " World", "u2"),
			Version:   2,
		}
		bus.PublishDocument(models.DocumentUpdate{
			Type:       models.DocumentEditedEvent,
			DocumentID: "d1",
			UserID:     "u2",
			Payload:    opPayload,
		})

		require.IsType(t, models.DocumentEditedPayload{}, got.Payload)
		payload := got.Payload.(models.DocumentEditedPayload)
		assert.Equal(t, 2, payload.Version)
		assert.Equal(t, " World", payload.Operation.Content)
	})

	t.Run("session and document subscriptions are independent", func(t *testing.T) {
		bus := NewEventBus()

		var sessionCount, documentCount int
		bus.SubscribeSession(func(models.SessionUpdate) { sessionCount++ })
		bus.SubscribeDocument(func(models.DocumentUpdate) { documentCount++ })

		bus.PublishDocument(models.DocumentUpdate{Type: models.DocumentCreatedEvent})

		assert.Equal(t, 0, sessionCount)
		assert.Equal(t, 1, documentCount)
	})
}
