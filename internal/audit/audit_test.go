package audit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisherStampsTimestamp(t *testing.T) {
	store := NewInMemoryStore()
	publisher := NewPublisher(store)
	appID := uuid.NewString()

	err := publisher.Emit(context.Background(), Event{
		ApplicationID: appID,
		ActorID:       "200000000000000001",
		ActorName:     "admin",
		Action:        EventApplicationApproved,
	})
	require.NoError(t, err)

	events, err := publisher.List(context.Background(), appID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Timestamp.IsZero())
	assert.Equal(t, EventApplicationApproved, events[0].Action)
}

func TestListFiltersByApplication(t *testing.T) {
	store := NewInMemoryStore()
	publisher := NewPublisher(store)
	ctx := context.Background()

	first := uuid.NewString()
	second := uuid.NewString()
	require.NoError(t, publisher.Emit(ctx, Event{ApplicationID: first, Action: EventApplicationSubmitted}))
	require.NoError(t, publisher.Emit(ctx, Event{ApplicationID: second, Action: EventApplicationSubmitted}))
	require.NoError(t, publisher.Emit(ctx, Event{ApplicationID: first, Action: EventApplicationRejected, Reason: "no effort"}))

	events, err := publisher.List(ctx, first)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, EventApplicationSubmitted, events[0].Action)
	assert.Equal(t, EventApplicationRejected, events[1].Action)
	assert.Equal(t, "no effort", events[1].Reason)
}
