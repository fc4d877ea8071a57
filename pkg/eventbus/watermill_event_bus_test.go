package eventbus_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemate/teemate/pkg/channels/gochannel"
	"github.com/teemate/teemate/pkg/eventbus"
	"github.com/teemate/teemate/pkg/events"
)

func newTestBus(t *testing.T) eventbus.EventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	return eventbus.NewWatermillEventBus(pub, sub)
}

func TestWatermillEventBus_PublishAndHandle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := newTestBus(t)

	received := make(chan *events.MemberJoined, 1)

	err := bus.Handle(events.MemberJoinedEvent, func(_ context.Context, event any) error {
		joined, ok := event.(*events.MemberJoined)
		require.True(t, ok)
		received <- joined

		return nil
	})
	require.NoError(t, err)
	require.NoError(t, bus.Subscribe(ctx))

	joined := events.MemberJoined{
		BaseEvent: events.NewBaseEvent(events.MemberJoinedEvent, "g1"),
		UserID:    "u1",
		Username:  "dana",
	}
	require.NoError(t, bus.Publish(ctx, "g1", joined))

	select {
	case got := <-received:
		assert.Equal(t, "g1", got.GuildID)
		assert.Equal(t, "u1", got.UserID)
		assert.Equal(t, "dana", got.Username)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for member joined event")
	}
}

func TestWatermillEventBus_UnhandledTypeIsSkipped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := newTestBus(t)

	received := make(chan *events.BanAdded, 1)

	err := bus.Handle(events.BanAddedEvent, func(_ context.Context, event any) error {
		received <- event.(*events.BanAdded)

		return nil
	})
	require.NoError(t, err)
	require.NoError(t, bus.Subscribe(ctx))

	// No handler registered for member removals; the message must be acked
	// and the ban event after it still delivered.
	removed := events.MemberRemoved{
		BaseEvent: events.NewBaseEvent(events.MemberRemovedEvent, "g1"),
		UserID:    "u1",
	}
	require.NoError(t, bus.Publish(ctx, "g1", removed))

	ban := events.BanAdded{
		BaseEvent: events.NewBaseEvent(events.BanAddedEvent, "g1"),
		Username:  "spammer",
	}
	require.NoError(t, bus.Publish(ctx, "g1", ban))

	select {
	case got := <-received:
		assert.Equal(t, "spammer", got.Username)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for ban event")
	}
}
